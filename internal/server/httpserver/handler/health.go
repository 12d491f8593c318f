package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/tcplink/internal/core/domain"
	"github.com/yndnr/tcplink/internal/infra/buildinfo"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status      string       `json:"status"`
	Version     string       `json:"version"`
	Connection  domain.State `json:"connection,omitempty"`
	Subscribers int          `json:"subscribers"`
	Time        string       `json:"time"`
}

// handleHealth handles GET /health. The agent is healthy whatever the
// connection state; the state is reported for monitoring.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "healthy",
		Version: buildinfo.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}
	if h.bridge != nil {
		resp.Connection = h.bridge.Manager().Snapshot().State
	}
	if h.inbound != nil {
		resp.Subscribers = h.inbound.Subscribers()
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}
