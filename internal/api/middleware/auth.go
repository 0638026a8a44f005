package middleware

import (
	"context"
	"net/http"

	"github.com/cuixiaoyuan/fundflow/internal/api/response"
	"github.com/cuixiaoyuan/fundflow/internal/model"
)

// SessionCookie is the name of the login session cookie.
const SessionCookie = "session"

type contextKey string

const userKey contextKey = "user"

// SessionVerifier resolves a session token to its user.
// Implemented by service.AuthService.
type SessionVerifier interface {
	VerifySession(token string) (model.User, error)
}

// RequireSession rejects requests without a valid session cookie and puts
// the resolved user on the request context for handlers downstream.
func RequireSession(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				response.RespondError(w, http.StatusUnauthorized, "authentication required", nil)
				return
			}

			user, err := verifier.VerifySession(cookie.Value)
			if err != nil {
				response.RespondError(w, http.StatusUnauthorized, "invalid or expired session", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a context carrying the session user. Exposed for
// handler tests that bypass the middleware.
func WithUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the session user stored by RequireSession.
func UserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userKey).(model.User)
	return user, ok
}
