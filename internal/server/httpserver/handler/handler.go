package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/yndnr/tcplink/internal/core/domain"
	"github.com/yndnr/tcplink/internal/core/service"
	"github.com/yndnr/tcplink/internal/telemetry/logger"
)

// maxBodyBytes bounds request bodies; transmit payloads are the largest.
const maxBodyBytes = 4 << 20

// Handler is the main HTTP handler that routes requests to appropriate handlers.
type Handler struct {
	bridge   *service.Bridge
	profiles *service.ProfileService
	commands *service.CommandService
	inbound  *service.Inbound
	backup   BackupFunc
	logger   *slog.Logger
	mux      *http.ServeMux
}

// New creates a new Handler with the given services. inbound may be nil,
// in which case /v1/stream reports an error.
func New(bridge *service.Bridge, profiles *service.ProfileService, commands *service.CommandService, inbound *service.Inbound, log *slog.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	h := &Handler{
		bridge:   bridge,
		profiles: profiles,
		commands: commands,
		inbound:  inbound,
		logger:   log,
		mux:      http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)

	// Connection
	h.mux.HandleFunc("GET /v1/status", h.handleStatus)
	h.mux.HandleFunc("POST /v1/connect", h.handleConnect)
	h.mux.HandleFunc("POST /v1/disconnect", h.handleDisconnect)
	h.mux.HandleFunc("POST /v1/transmit", h.handleTransmit)
	h.mux.HandleFunc("GET /v1/stream", h.handleStream)

	// Profile
	h.mux.HandleFunc("GET /v1/profile", h.handleGetProfile)
	h.mux.HandleFunc("PUT /v1/profile", h.handleUpdateProfile)

	// Saved commands
	h.mux.HandleFunc("GET /v1/commands", h.handleListCommands)
	h.mux.HandleFunc("POST /v1/commands", h.handleSaveCommand)
	h.mux.HandleFunc("DELETE /v1/commands/{name}", h.handleDeleteCommand)
	h.mux.HandleFunc("POST /v1/commands/{name}/send", h.handleSendCommand)

	h.mux.HandleFunc("GET /v1/backup", h.handleBackup)
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	response := NewResponse(logger.RequestIDFromContext(r.Context()), data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, code, message string) {
	response := NewErrorResponse(logger.RequestIDFromContext(r.Context()), code, message)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(errorCodeToHTTPStatus(code))
	json.NewEncoder(w).Encode(response)
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	de := domain.AsDomainError(err)
	if errorCodeToHTTPStatus(de.Code) >= http.StatusInternalServerError {
		h.logger.Error("request failed", "request_id", logger.RequestIDFromContext(r.Context()), "code", de.Code, "error", err)
	}
	h.writeError(w, r, de.Code, de.Describe())
}

// decodeBody decodes a JSON body into dst. An empty body leaves dst
// untouched so that validation reports the missing fields.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, r, domain.ErrInvalidArgument.Code, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// errorCodeToHTTPStatus maps error codes to HTTP status codes.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4090"), strings.HasSuffix(code, "-4091"):
		return http.StatusConflict
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasSuffix(code, "-4010"):
		return http.StatusUnauthorized
	case strings.HasSuffix(code, "-4001"), strings.HasPrefix(code, "TL-ARG-"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "-5040"):
		return http.StatusGatewayTimeout
	case strings.HasPrefix(code, "TL-CONN-5"):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
