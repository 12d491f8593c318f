package handler

import (
	"net/http"
)

// handleListCommands handles GET /v1/commands.
func (h *Handler) handleListCommands(w http.ResponseWriter, r *http.Request) {
	cmds, err := h.commands.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ListCommandsResponse{Items: cmds, Total: len(cmds)})
}

// handleSaveCommand handles POST /v1/commands.
func (h *Handler) handleSaveCommand(w http.ResponseWriter, r *http.Request) {
	var req SaveCommandRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	cmd, err := h.commands.Save(r.Context(), req.Name, req.Message)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, cmd)
}

// handleDeleteCommand handles DELETE /v1/commands/{name}.
func (h *Handler) handleDeleteCommand(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := h.commands.Delete(r.Context(), name); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{"deleted": name})
}

// handleSendCommand handles POST /v1/commands/{name}/send.
func (h *Handler) handleSendCommand(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	n, err := h.commands.Send(r.Context(), name)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, SendCommandResponse{Name: name, Bytes: n})
}
