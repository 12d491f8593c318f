package handler

import (
	"net/http"

	"github.com/yndnr/tcplink/internal/core/service"
)

// handleGetProfile handles GET /v1/profile.
func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Get(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, p)
}

// handleUpdateProfile handles PUT /v1/profile. Absent fields are kept.
func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req service.ProfileUpdate
	if !h.decodeBody(w, r, &req) {
		return
	}

	p, err := h.profiles.Update(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, p)
}
