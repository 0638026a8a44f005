package handlers

import (
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
	"github.com/cuixiaoyuan/fundflow/internal/ratelimit"
	"github.com/cuixiaoyuan/fundflow/internal/service"
)

// RSSHandler serves the public token-authenticated feed endpoints. These
// bypass the session middleware; the token in the URL is the credential,
// and a sliding-window rate limit per IP and per token guards the
// upstream quote provider.
type RSSHandler struct {
	feedService *service.FeedService
	limiter     *ratelimit.Limiter
}

// NewRSSHandler creates a new RSSHandler.
func NewRSSHandler(feedService *service.FeedService, limiter *ratelimit.Limiter) *RSSHandler {
	return &RSSHandler{feedService: feedService, limiter: limiter}
}

// UserFeed handles GET requests on the short feed URL.
//
// Endpoint: GET /u/{token}.rss
// Response: 200 OK with an RSS 2.0 document
// Error: 404 Not Found for unknown tokens
// Error: 429 Too Many Requests with Retry-After when rate limited
func (h *RSSHandler) UserFeed(w http.ResponseWriter, r *http.Request) {
	h.serveFeed(w, r, "")
}

// PrefixedFeed handles GET requests on the prefixed feed URL. The prefix
// must satisfy the configured policy: the user's own name under the
// "username" policy, or the fixed prefix otherwise.
//
// Endpoint: GET /{prefix}/{token}.rss
func (h *RSSHandler) PrefixedFeed(w http.ResponseWriter, r *http.Request) {
	h.serveFeed(w, r, chi.URLParam(r, "prefix"))
}

func (h *RSSHandler) serveFeed(w http.ResponseWriter, r *http.Request, prefix string) {
	token := chi.URLParam(r, "token")

	if !h.allow(w, "ip:"+clientIP(r)) {
		return
	}
	if !h.allow(w, "tok:"+token) {
		return
	}

	user, err := h.feedService.ResolveToken(token)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, apperrors.ErrFailedToBuildFeed.Error(), http.StatusInternalServerError)
		return
	}

	if prefix != "" && !h.feedService.PrefixAllowed(prefix, user) {
		http.NotFound(w, r)
		return
	}

	feed, err := h.feedService.BuildFeed(r.Context(), user)
	if err != nil {
		http.Error(w, apperrors.ErrFailedToBuildFeed.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(feed)
}

func (h *RSSHandler) allow(w http.ResponseWriter, key string) bool {
	ok, retryAfter := h.limiter.Allow(key)
	if !ok {
		seconds := int(retryAfter.Seconds())
		if seconds < 1 {
			seconds = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
	}
	return ok
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
