package handlers

import (
	"net/http"

	"github.com/cuixiaoyuan/fundflow/internal/api/response"
	"github.com/cuixiaoyuan/fundflow/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{systemService: systemService}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string                 `json:"status"`
	Database string                 `json:"database"`
	Settings service.PublicSettings `json:"settings"`
	Error    string                 `json:"error,omitempty"`
}

// Health checks database connectivity and echoes the public settings.
//
// Endpoint: GET /api/system/health
// Response: 200 OK when healthy, 503 Service Unavailable otherwise
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	if err := h.systemService.CheckHealth(); err != nil {
		response.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Settings: h.systemService.Settings(),
			Error:    err.Error(),
		})
		return
	}

	response.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:   "healthy",
		Database: "connected",
		Settings: h.systemService.Settings(),
	})
}
