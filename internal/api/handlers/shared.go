package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cuixiaoyuan/fundflow/internal/api/middleware"
	"github.com/cuixiaoyuan/fundflow/internal/api/response"
	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
	"github.com/cuixiaoyuan/fundflow/internal/model"
	"github.com/cuixiaoyuan/fundflow/internal/validation"
)

// parseJSON decodes a request body into the given request type.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, err
	}
	return req, nil
}

// sessionUser fetches the user placed on the context by the session
// middleware. Routes behind RequireSession always have one; the guard is
// for handlers wired without it by mistake.
func sessionUser(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, "authentication required", nil)
	}
	return user, ok
}

// respondValidationError writes a 400 for validation failures, carrying the
// per-field messages when available. Returns false if err was not a
// validation failure.
func respondValidationError(w http.ResponseWriter, err error) bool {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
		return true
	case errors.Is(err, apperrors.ErrStockCodeInvalid):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrStockCodeInvalid.Error(), err.Error())
		return true
	case errors.Is(err, validation.ErrInvalidUUID):
		response.RespondError(w, http.StatusBadRequest, validation.ErrInvalidUUID.Error(), err.Error())
		return true
	}
	return false
}
