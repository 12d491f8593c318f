package config

import "time"

// ServerConfig is the root configuration for tcplink-agent.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Session  SessionSection  `koanf:"session"`
	Storage  StorageSection  `koanf:"storage"`
	Security SecuritySection `koanf:"security"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures the local HTTP API.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr            string          `koanf:"addr" validate:"required,hostname_port"`
	ReadTimeout     time.Duration   `koanf:"read_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration   `koanf:"shutdown_timeout" validate:"gt=0"`
	RateLimit       RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig configures the request rate limiter.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps" validate:"gte=0"`
	Burst   int     `koanf:"burst" validate:"gte=0"`
}

// SessionSection configures the connection manager.
type SessionSection struct {
	// ConnectTimeout bounds each dial.
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"gt=0"`
	// WriteTimeout bounds each transmit.
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gt=0"`
	// KeepAlive is the TCP keep-alive period; negative disables it.
	KeepAlive time.Duration `koanf:"keep_alive"`
	// ReuseAddr sets SO_REUSEADDR on new sockets.
	ReuseAddr bool `koanf:"reuse_addr"`
	// LogReceived logs bytes received from the peer at debug level.
	LogReceived bool `koanf:"log_received"`
}

// StorageSection configures persistence of the profile and saved commands.
type StorageSection struct {
	DataDir    string        `koanf:"data_dir" validate:"required_unless=InMemory true"`
	InMemory   bool          `koanf:"in_memory"`
	GCInterval time.Duration `koanf:"gc_interval" validate:"gte=0"`
}

// SecuritySection configures API access.
type SecuritySection struct {
	// APIToken, when set, must be presented as a bearer token on /v1 routes.
	APIToken string `koanf:"api_token"`
}

// LogSection configures logging.
type LogSection struct {
	Level       string `koanf:"level" validate:"oneof=debug info warn warning error"`
	Format      string `koanf:"format" validate:"oneof=json text console"`
	LogPayloads bool   `koanf:"log_payloads"`
}
