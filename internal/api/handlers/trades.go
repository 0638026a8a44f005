package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cuixiaoyuan/fundflow/internal/accounting"
	"github.com/cuixiaoyuan/fundflow/internal/api/request"
	"github.com/cuixiaoyuan/fundflow/internal/api/response"
	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
	"github.com/cuixiaoyuan/fundflow/internal/service"
)

// TradeHandler handles HTTP requests for the trade ledger endpoints.
// The ledger is append-only: there is no update or delete endpoint, and
// corrections are recorded as new offsetting events.
type TradeHandler struct {
	ledgerService *service.LedgerService
}

// NewTradeHandler creates a new TradeHandler with the provided service dependency.
func NewTradeHandler(ledgerService *service.LedgerService) *TradeHandler {
	return &TradeHandler{ledgerService: ledgerService}
}

// CreateTrade handles POST requests to append a trade event.
//
// Endpoint: POST /api/trade
// Request Body: CreateTradeRequest (stockCode, direction, quantity, unitPrice, fee, stampTax, tradeTime)
// Response: 201 Created with the stored event
// Error: 400 Bad Request if validation fails
// Error: 422 Unprocessable Entity if a sell exceeds the open position
func (h *TradeHandler) CreateTrade(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.CreateTradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	event, err := h.ledgerService.RecordTrade(user.ID, req)
	if err != nil {
		if respondValidationError(w, err) {
			return
		}
		var insufficient *accounting.InsufficientPositionError
		if errors.As(err, &insufficient) {
			response.RespondError(w, http.StatusUnprocessableEntity,
				apperrors.ErrInsufficientPosition.Error(), insufficient.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRecordTrade.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, event)
}

// ListTrades handles GET requests to retrieve the caller's trade events in
// replay order.
//
// Endpoint: GET /api/trade?stockCode=
// Response: 200 OK with array of trade events
// Error: 400 Bad Request if the stockCode filter is not a valid symbol
func (h *TradeHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	events, err := h.ledgerService.ListTrades(user.ID, r.URL.Query().Get("stockCode"))
	if err != nil {
		if respondValidationError(w, err) {
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTrades.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, events)
}

// GetTrade handles GET requests to retrieve a single trade event by ID.
//
// Endpoint: GET /api/trade/{uuid}
// Response: 200 OK with the event
// Error: 404 Not Found if the event does not exist or belongs to someone else
func (h *TradeHandler) GetTrade(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	event, err := h.ledgerService.GetTrade(user.ID, chi.URLParam(r, "uuid"))
	if err != nil {
		if respondValidationError(w, err) {
			return
		}
		if errors.Is(err, apperrors.ErrTradeEventNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTradeEventNotFound.Error(), nil)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTrades.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, event)
}
