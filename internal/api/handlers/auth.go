package handlers

import (
	"errors"
	"net/http"

	"github.com/cuixiaoyuan/fundflow/internal/api/middleware"
	"github.com/cuixiaoyuan/fundflow/internal/api/request"
	"github.com/cuixiaoyuan/fundflow/internal/api/response"
	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
	"github.com/cuixiaoyuan/fundflow/internal/service"
)

// AuthHandler handles HTTP requests for account and session endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler with the provided service dependency.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST requests to create an account.
//
// Endpoint: POST /api/auth/register
// Request Body: RegisterRequest (username, password)
// Response: 201 Created with the user and the plain RSS token (shown once
// when tokens are stored hash-only)
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the username is taken
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RegisterRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, rssToken, err := h.authService.Register(req.Username, req.Password)
	if err != nil {
		if respondValidationError(w, err) {
			return
		}
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			response.RespondError(w, http.StatusConflict, apperrors.ErrUsernameTaken.Error(), nil)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRegisterUser.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, map[string]any{
		"user":     user,
		"rssToken": rssToken,
	})
}

// Login handles POST requests to open a session. On success the session
// token is set as an HttpOnly cookie.
//
// Endpoint: POST /api/auth/login
// Response: 200 OK with the user
// Error: 401 Unauthorized on bad credentials
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.LoginRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			response.RespondError(w, http.StatusUnauthorized, apperrors.ErrInvalidCredentials.Error(), nil)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "login failed", err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.authService.SessionTTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	response.RespondJSON(w, http.StatusOK, user)
}

// Logout handles POST requests to close the session by expiring the cookie.
//
// Endpoint: POST /api/auth/logout
// Response: 204 No Content
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// ResetRSSToken handles POST requests to rotate the caller's feed token.
// The previous token stops working immediately.
//
// Endpoint: POST /api/auth/rss-token/reset
// Response: 200 OK with the new plain token
// Error: 401 Unauthorized without a session
func (h *AuthHandler) ResetRSSToken(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	token, err := h.authService.ResetRSSToken(user.ID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToResetToken.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{"rssToken": token})
}
