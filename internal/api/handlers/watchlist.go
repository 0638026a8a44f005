package handlers

import (
	"net/http"

	"github.com/cuixiaoyuan/fundflow/internal/api/request"
	"github.com/cuixiaoyuan/fundflow/internal/api/response"
	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
	"github.com/cuixiaoyuan/fundflow/internal/model"
	"github.com/cuixiaoyuan/fundflow/internal/service"
	"github.com/cuixiaoyuan/fundflow/internal/validation"
)

// WatchlistHandler handles HTTP requests for watchlist endpoints.
type WatchlistHandler struct {
	watchlistService *service.WatchlistService
}

// NewWatchlistHandler creates a new WatchlistHandler with the provided service dependency.
func NewWatchlistHandler(watchlistService *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{watchlistService: watchlistService}
}

// GetWatchlist handles GET requests to retrieve the caller's watchlist.
//
// Endpoint: GET /api/watchlist
// Response: 200 OK with array of watch items in insertion order
func (h *WatchlistHandler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	items, err := h.watchlistService.GetWatchlist(user.ID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveWatchlist.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, items)
}

// SaveWatchlist handles PUT requests to replace the caller's entire
// watchlist. The save is all-or-nothing: one bad symbol rejects the whole
// submission.
//
// Endpoint: PUT /api/watchlist
// Request Body: SaveWatchlistRequest (items, or text in the line format)
// Response: 200 OK with the stored items
// Error: 400 Bad Request if any symbol fails to normalize
func (h *WatchlistHandler) SaveWatchlist(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.SaveWatchlistRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var items []model.WatchItem
	if req.Text != "" {
		items, err = h.watchlistService.ReplaceWatchlistText(user.ID, req.Text)
	} else {
		entries := make([]validation.WatchEntry, 0, len(req.Items))
		for _, e := range req.Items {
			entries = append(entries, validation.WatchEntry{Name: e.Name, Symbol: e.Symbol})
		}
		items, err = h.watchlistService.ReplaceWatchlist(user.ID, entries)
	}
	if err != nil {
		if respondValidationError(w, err) {
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToSaveWatchlist.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, items)
}
