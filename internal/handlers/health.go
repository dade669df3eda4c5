package handlers

import (
	"net/http"
	"time"

	"github.com/coltonsr77/uzi-doorman-bot/internal/models"
)

// HealthCheck handles health check requests. The status is "ok" when every
// registered platform is connected and "degraded" otherwise.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := &models.HealthResponse{
		Status:    "ok",
		Connected: true,
		Platforms: make(map[string]models.PlatformStatus, len(h.platforms)),
		Timestamp: time.Now().Unix(),
	}

	for _, name := range h.platformNames() {
		status := h.platforms[name].Status()
		response.Platforms[name] = status
		if status.Enabled && !status.Connected {
			response.Connected = false
		}
	}
	if !response.Connected {
		response.Status = "degraded"
	}

	// Add detailed connection info if requested
	if r.URL.Query().Get("detailed") == "true" {
		details := make(map[string]interface{})
		for name, p := range h.platforms {
			if d, ok := p.(detailedStatus); ok {
				details[name] = d.GetConnectionStatus()
			}
		}

		h.writeJSON(w, map[string]interface{}{
			"status":            response.Status,
			"connected":         response.Connected,
			"platforms":         response.Platforms,
			"timestamp":         response.Timestamp,
			"connection_status": details,
		}, http.StatusOK)
		return
	}

	h.writeJSON(w, response, http.StatusOK)
}
