package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cuixiaoyuan/fundflow/internal/api/response"
	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
	"github.com/cuixiaoyuan/fundflow/internal/service"
)

// FundFlowHandler handles HTTP requests for stored daily fund-flow data.
type FundFlowHandler struct {
	fundFlowService *service.FundFlowService
}

// NewFundFlowHandler creates a new FundFlowHandler with the provided service dependency.
func NewFundFlowHandler(fundFlowService *service.FundFlowService) *FundFlowHandler {
	return &FundFlowHandler{fundFlowService: fundFlowService}
}

// GetDaily handles GET requests for daily fund-flow history, newest first.
//
// Endpoint: GET /api/fund-flow?code=&exchange=&start=&end=&limit=
// Response: 200 OK with array of daily rows
// Error: 400 Bad Request if the code is invalid or dates are malformed
func (h *FundFlowHandler) GetDaily(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	q := service.FlowQuery{
		Code:     query.Get("code"),
		Exchange: query.Get("exchange"),
	}

	if raw := query.Get("start"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid start date", raw)
			return
		}
		q.Start = start
	}
	if raw := query.Get("end"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid end date", raw)
			return
		}
		q.End = end
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid limit", raw)
			return
		}
		q.Limit = limit
	}

	records, err := h.fundFlowService.GetDaily(q)
	if err != nil {
		if respondValidationError(w, err) {
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveFundFlow.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, records)
}

// GetLatest handles GET requests for the most recent stored snapshot of
// one stock.
//
// Endpoint: GET /api/fund-flow/latest?code=&exchange=
// Response: 200 OK with the latest daily row
// Error: 404 Not Found if the stock has no stored rows
func (h *FundFlowHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	record, err := h.fundFlowService.GetLatest(query.Get("code"), query.Get("exchange"))
	if err != nil {
		if respondValidationError(w, err) {
			return
		}
		if errors.Is(err, apperrors.ErrFlowRecordNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFlowRecordNotFound.Error(), nil)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveFundFlow.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, record)
}
