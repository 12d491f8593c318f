package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yndnr/tcplink/internal/core/domain"
)

// CLIConfig is the configuration for the tcplink command.
type CLIConfig struct {
	// Agent is the base URL of tcplink-agent.
	Agent string `koanf:"agent" yaml:"agent"`
	// APIToken is sent as a bearer token when set.
	APIToken string `koanf:"api_token" yaml:"api_token,omitempty"`
	// Output is the default output format: table, json or yaml.
	Output string `koanf:"output" yaml:"output"`

	// Shell settings; the agent keeps its own profile.
	LineEnding  string `koanf:"line_ending" yaml:"line_ending"`
	Prepend     string `koanf:"prepend" yaml:"prepend,omitempty"`
	HistoryFile string `koanf:"history_file" yaml:"history_file,omitempty"`

	// LastEndpoint is the shell's last connected host:port.
	LastEndpoint string `koanf:"last_endpoint" yaml:"last_endpoint,omitempty"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		Agent:      "http://127.0.0.1:5180",
		Output:     "table",
		LineEnding: string(domain.DefaultLineEnding),
	}
}

// Validate checks the values that commands rely on.
func (c *CLIConfig) Validate() error {
	switch c.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format %q (table, json, yaml)", c.Output)
	}
	if _, err := domain.ParseLineEnding(c.LineEnding); err != nil {
		return err
	}
	return nil
}

// History returns the shell history file, defaulting next to the config.
func (c *CLIConfig) History() string {
	if c.HistoryFile != "" {
		return c.HistoryFile
	}
	return filepath.Join(filepath.Dir(DefaultConfigPath()), "history")
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".tcplink", "cli.yaml")
	}
	return filepath.Join(homeDir, ".tcplink", "cli.yaml")
}
