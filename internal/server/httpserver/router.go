package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/tcplink/internal/core/service"
	"github.com/yndnr/tcplink/internal/server/httpserver/handler"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	Bridge   *service.Bridge
	Profiles *service.ProfileService
	Commands *service.CommandService

	// Inbound feeds GET /v1/stream; may be nil.
	Inbound *service.Inbound

	// Backup feeds GET /v1/backup; may be nil.
	Backup handler.BackupFunc

	// Metrics serves /metrics; nil leaves the route unregistered.
	Metrics http.Handler

	// ObserveRequest receives every finished request; may be nil.
	ObserveRequest RequestObserver

	Logger *slog.Logger

	// APIToken guards /v1 routes when set.
	APIToken string

	// RateLimitRPS and RateLimitBurst configure the per-IP limiter;
	// a zero RPS disables it.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	h := handler.New(cfg.Bridge, cfg.Profiles, cfg.Commands, cfg.Inbound, cfg.Logger)
	if cfg.Backup != nil {
		h.SetBackup(cfg.Backup)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /health", h)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}
	mux.Handle("/v1/", BearerAuth(cfg.APIToken)(h))

	// Order: Recover -> RequestID -> AccessLog -> RateLimit -> routes
	middlewares := []Middleware{
		Recover(cfg.Logger),
		RequestID(),
		AccessLog(cfg.Logger, cfg.ObserveRequest),
	}
	if cfg.RateLimitRPS > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}
	return Chain(mux, middlewares...)
}
