package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/tcplink/internal/infra/confloader"
)

// EnvPrefix is the environment variable prefix for CLI settings.
const EnvPrefix = "TCPLINK_CLI_"

// Load loads CLI configuration from file, environment and flag overrides.
// A missing file is not an error.
func Load(path string, overrides map[string]any) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	opts := []confloader.Option{
		confloader.WithEnvPrefix(EnvPrefix),
		confloader.WithOverrides(Merge(nil, overrides)),
	}
	if _, err := os.Stat(path); err == nil {
		opts = append(opts, confloader.WithConfigFile(path))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := Default()
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save saves CLI configuration to file with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Merge copies non-empty flag values into dst, allocating it when nil.
// Empty strings mean "flag not set" and are skipped.
func Merge(dst map[string]any, flags map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(flags))
	}
	for k, v := range flags {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		if v == nil {
			continue
		}
		dst[k] = v
	}
	return dst
}

// Set updates one setting by key, as used by `tcplink config set`.
func Set(cfg *CLIConfig, key, value string) error {
	switch key {
	case "agent":
		cfg.Agent = value
	case "api_token":
		cfg.APIToken = value
	case "output":
		cfg.Output = value
	case "line_ending":
		cfg.LineEnding = value
	case "prepend":
		cfg.Prepend = value
	case "history_file":
		cfg.HistoryFile = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return cfg.Validate()
}
