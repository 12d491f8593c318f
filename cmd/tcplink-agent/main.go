package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/yndnr/tcplink/internal/core/domain"
	"github.com/yndnr/tcplink/internal/core/service"
	"github.com/yndnr/tcplink/internal/infra/buildinfo"
	"github.com/yndnr/tcplink/internal/infra/confloader"
	"github.com/yndnr/tcplink/internal/infra/shutdown"
	"github.com/yndnr/tcplink/internal/server/config"
	"github.com/yndnr/tcplink/internal/server/httpserver"
	"github.com/yndnr/tcplink/internal/storage"
	"github.com/yndnr/tcplink/internal/telemetry/logger"
	"github.com/yndnr/tcplink/internal/telemetry/metric"
	"github.com/yndnr/tcplink/internal/transport"
)

// receivedPreview is the number of inbound bytes shown in debug logs.
const receivedPreview = 32

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		addr        = flag.String("addr", "", "HTTP listen address (overrides server.http.addr)")
		logLevel    = flag.String("log-level", "", "Log level (overrides log.level)")
		inMemory    = flag.Bool("in-memory", false, "Keep profile and saved commands in memory only")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("tcplink-agent %s\n", buildinfo.String())
		return nil
	}

	overrides := map[string]any{}
	if *addr != "" {
		overrides["server.http.addr"] = *addr
	}
	if *logLevel != "" {
		overrides["log.level"] = *logLevel
	}
	if *inMemory {
		overrides["storage.in_memory"] = true
	}

	cfg, err := loadConfig(*configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      os.Stdout,
		LogPayloads: cfg.Log.LogPayloads,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	log.Info("starting tcplink-agent",
		"version", buildinfo.Version,
		"config", *configFile,
		"settings", config.Sanitize(cfg))

	shutdownHandler := shutdown.NewHandler(cfg.Server.HTTP.ShutdownTimeout, log)

	// Hooks run in reverse order of registration.
	if *configFile != "" {
		watcher, err := watchLogLevel(*configFile, overrides, log)
		if err != nil {
			log.Warn("config watch disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	metrics := metric.NewRegistry()

	kv, err := initStorage(cfg, log)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	kv.RegisterMetrics(metrics.Registerer())
	shutdownHandler.OnShutdown("storage", func(context.Context) error {
		return kv.Close()
	})

	inbound := service.NewInbound(service.DefaultSubscriberBuffer)
	dialer := &transport.TCPDialer{
		KeepAlive: cfg.Session.KeepAlive,
		ReuseAddr: cfg.Session.ReuseAddr,
		Sink:      receivedSink(cfg, inbound, metrics, log),
	}

	manager := service.NewManager(dialer, service.ManagerOptions{
		ConnectTimeout: cfg.Session.ConnectTimeout,
		WriteTimeout:   cfg.Session.WriteTimeout,
		Logger:         log,
		Observer:       metrics,
	})
	if err := metrics.Register(metric.NewCollector(manager.Snapshot)); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	shutdownHandler.OnShutdown("connection manager", func(context.Context) error {
		return manager.Close()
	})

	profiles := service.NewProfileService(storage.NewProfileStore(kv), log)
	commands := service.NewCommandService(storage.NewCommandStore(kv), profiles, manager, log)

	routerCfg := &httpserver.RouterConfig{
		Bridge:         service.NewBridge(manager),
		Profiles:       profiles,
		Commands:       commands,
		Inbound:        inbound,
		Backup:         kv.Backup,
		Metrics:        metrics.Handler(),
		ObserveRequest: metrics.ObserveRequest,
		Logger:         log,
		APIToken:       cfg.Security.APIToken,
	}
	if rl := cfg.Server.HTTP.RateLimit; rl.Enabled {
		routerCfg.RateLimitRPS = rl.RPS
		routerCfg.RateLimitBurst = rl.Burst
	}

	httpServer := httpserver.New(cfg.Server.HTTP.Addr, httpserver.NewRouter(routerCfg), cfg.Server.HTTP.ReadTimeout)
	shutdownHandler.OnShutdown("http server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			shutdownHandler.Trigger()
		}
	}()

	log.Info("agent started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(context.Background()); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("agent stopped gracefully")
	return nil
}

// loadConfig loads configuration from defaults, file, environment and
// flag overrides, then validates it.
func loadConfig(configFile string, overrides map[string]any) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithOverrides(overrides)}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// watchLogLevel re-applies log.level whenever the config file changes.
// Other settings need a restart.
func watchLogLevel(configFile string, overrides map[string]any, log *slog.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := watcher.Watch(configFile); err != nil {
		watcher.Stop()
		return nil, err
	}

	watcher.OnChange(func(path string) {
		cfg, err := loadConfig(path, overrides)
		if err != nil {
			log.Warn("ignoring invalid config change", "path", path, "error", err)
			return
		}
		if cfg.Log.Level != logger.GetLevel() {
			logger.SetLevel(cfg.Log.Level)
			log.Info("log level changed", "level", cfg.Log.Level)
		}
	})
	watcher.StartAsync()
	return watcher, nil
}

// initStorage opens the Badger engine for the profile and saved commands.
func initStorage(cfg *config.ServerConfig, log *slog.Logger) (*storage.BadgerEngine, error) {
	kvCfg := storage.DefaultKVConfig(cfg.Storage.DataDir)
	kvCfg.InMemory = cfg.Storage.InMemory
	kvCfg.GCInterval = cfg.Storage.GCInterval
	return storage.NewBadgerEngine(kvCfg, log)
}

// receivedSink fans inbound bytes out to stream subscribers and metrics.
func receivedSink(cfg *config.ServerConfig, inbound *service.Inbound, metrics *metric.Registry, log *slog.Logger) transport.Sink {
	return func(ep domain.Endpoint, data []byte) {
		metrics.Received(len(data))
		if cfg.Session.LogReceived {
			log.Debug("received data",
				"endpoint", ep.String(),
				"bytes", len(data),
				"preview", logger.HexPreview(data, receivedPreview))
		}
		inbound.Publish(ep, data)
	}
}
