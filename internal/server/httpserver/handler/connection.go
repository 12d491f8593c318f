package handler

import (
	"net/http"

	"github.com/yndnr/tcplink/internal/core/domain"
	"github.com/yndnr/tcplink/internal/core/service"
)

// handleStatus handles GET /v1/status.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.bridge.Manager().Snapshot())
}

// handleConnect handles POST /v1/connect. A successful connect is
// remembered as the last endpoint.
func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req service.ConnectRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	resp := h.bridge.Connect(r.Context(), req)
	if resp.Error != nil {
		h.writeError(w, r, resp.Code, *resp.Error)
		return
	}

	if ep, err := domain.NewEndpoint(*req.Address, *req.Port); err == nil {
		if err := h.profiles.RememberEndpoint(r.Context(), ep); err != nil {
			h.logger.Warn("failed to remember endpoint", "endpoint", ep.String(), "error", err)
		}
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}

// handleDisconnect handles POST /v1/disconnect. It never fails.
func (h *Handler) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	h.bridge.Disconnect()
	h.writeJSON(w, r, http.StatusOK, h.bridge.GetStatus())
}

// handleTransmit handles POST /v1/transmit.
func (h *Handler) handleTransmit(w http.ResponseWriter, r *http.Request) {
	var req service.TransmitRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	resp := h.bridge.Transmit(r.Context(), req)
	if resp.Error != nil {
		h.writeError(w, r, resp.Code, *resp.Error)
		return
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}
