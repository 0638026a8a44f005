package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cuixiaoyuan/fundflow/internal/api/response"
	"github.com/cuixiaoyuan/fundflow/internal/apperrors"
	"github.com/cuixiaoyuan/fundflow/internal/service"
)

// ReportHandler handles HTTP requests for position report endpoints.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler with the provided service dependency.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetReport handles GET requests to compute the caller's position report.
// The report is computed on demand from the ledger and live quotes;
// nothing is cached.
//
// Endpoint: GET /api/report?top=&period_start=&initial_profit=
//   - top: keep only the n largest holdings by absolute market value
//   - period_start: YYYY-MM-DD lower bound for the period realized total
//   - initial_profit: carried-forward realized baseline in yuan
//
// Response: 200 OK with positions and summary
// Error: 400 Bad Request on malformed parameters
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	user, ok := sessionUser(w, r)
	if !ok {
		return
	}

	opts, err := parseReportOptions(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid report parameters", err.Error())
		return
	}

	report, err := h.reportService.BuildReport(r.Context(), user.ID, opts)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToBuildReport.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}

func parseReportOptions(r *http.Request) (service.ReportOptions, error) {
	opts := service.ReportOptions{InitialProfit: decimal.Zero}
	query := r.URL.Query()

	if raw := query.Get("top"); raw != "" {
		top, err := strconv.Atoi(raw)
		if err != nil || top < 0 {
			return opts, errInvalidParam("top", raw)
		}
		opts.Top = top
	}

	if raw := query.Get("period_start"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return opts, errInvalidParam("period_start", raw)
		}
		opts.PeriodStart = start
	}

	if raw := query.Get("initial_profit"); raw != "" {
		initial, err := decimal.NewFromString(raw)
		if err != nil {
			return opts, errInvalidParam("initial_profit", raw)
		}
		opts.InitialProfit = initial
	}

	return opts, nil
}

type paramError struct {
	name  string
	value string
}

func (e paramError) Error() string {
	return "invalid " + e.name + ": " + e.value
}

func errInvalidParam(name, value string) error {
	return paramError{name: name, value: value}
}
