package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/yndnr/tcplink/internal/core/domain"
)

// BackupFunc writes a full backup of the agent store to w.
type BackupFunc func(ctx context.Context, w io.Writer) error

// SetBackup enables GET /v1/backup. It must be called before serving.
func (h *Handler) SetBackup(fn BackupFunc) {
	h.backup = fn
}

// handleBackup handles GET /v1/backup.
func (h *Handler) handleBackup(w http.ResponseWriter, r *http.Request) {
	if h.backup == nil {
		h.writeError(w, r, domain.ErrInternal.Code, "backup is not available")
		return
	}

	name := "tcplink-" + time.Now().UTC().Format("20060102T150405Z") + ".bak"
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)

	// The status line is committed by the first write; later failures
	// can only be logged.
	if err := h.backup(r.Context(), w); err != nil {
		h.logger.Error("backup failed", "error", err)
	}
}
