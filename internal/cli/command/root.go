package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/tcplink/internal/cli/config"
	"github.com/yndnr/tcplink/internal/cli/connection"
	"github.com/yndnr/tcplink/internal/cli/output"
	"github.com/yndnr/tcplink/internal/core/domain"
	"github.com/yndnr/tcplink/internal/infra/buildinfo"
)

const (
	metaConfig     = "config"
	metaConfigPath = "configPath"

	// requestTimeout bounds one agent call. Connects need the agent's
	// full dial timeout.
	requestTimeout = 30 * time.Second
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "tcplink",
		Usage:   "Drive a single TCP connection through tcplink-agent",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			ConnectCommand(),
			DisconnectCommand(),
			StatusCommand(),
			LastCommand(),
			SendCommand(),
			CommandsCommand(),
			WatchCommand(),
			BackupCommand(),
			ConfigCommand(),
			ShellCommand(),
		},
		Metadata: map[string]any{},
		Before:   loadConfig,
	}
}

// globalFlags returns the global CLI flags. Unset flags fall back to the
// config file and TCPLINK_CLI_* environment variables.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "agent",
			Usage:   "tcplink-agent address (e.g., http://127.0.0.1:5180)",
			EnvVars: []string{"TCPLINK_AGENT"},
		},
		&cli.StringFlag{
			Name:    "api-token",
			Usage:   "Bearer token for the agent API",
			EnvVars: []string{"TCPLINK_API_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file",
			Value:   config.DefaultConfigPath(),
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose output",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Agent    string
	APIToken string

	Output string // table, json, yaml
	Wide   bool

	Config  string
	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Agent:    c.String("agent"),
		APIToken: c.String("api-token"),
		Output:   c.String("output"),
		Wide:     c.Bool("wide"),
		Config:   c.String("config"),
		Verbose:  c.Bool("verbose"),
	}
}

func loadConfig(c *cli.Context) error {
	flags := ParseGlobalFlags(c)
	cfg, err := config.Load(flags.Config, map[string]any{
		"agent":     flags.Agent,
		"api_token": flags.APIToken,
		"output":    flags.Output,
	})
	if err != nil {
		return err
	}
	c.App.Metadata[metaConfig] = cfg
	c.App.Metadata[metaConfigPath] = flags.Config
	return nil
}

// GetConfig returns the effective CLI configuration.
func GetConfig(c *cli.Context) *config.CLIConfig {
	if cfg, ok := c.App.Metadata[metaConfig].(*config.CLIConfig); ok {
		return cfg
	}
	return config.Default()
}

func configPath(c *cli.Context) string {
	if p, ok := c.App.Metadata[metaConfigPath].(string); ok && p != "" {
		return p
	}
	return config.DefaultConfigPath()
}

// newAgent returns a client for the configured agent.
func newAgent(c *cli.Context) *connection.Agent {
	cfg := GetConfig(c)
	return connection.NewAgent(cfg.Agent, cfg.APIToken)
}

func requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context, requestTimeout)
}

// render writes data in the configured output format.
func render(c *cli.Context, data any) error {
	format, err := output.ParseFormat(GetConfig(c).Output)
	if err != nil {
		return err
	}
	return output.NewFormatter(format, c.Bool("wide")).Format(c.App.Writer, data)
}

// structured reports whether output is json or yaml, where commands
// print data instead of messages.
func structured(c *cli.Context) bool {
	out := GetConfig(c).Output
	return out == string(output.FormatJSON) || out == string(output.FormatYAML)
}

func printSuccess(c *cli.Context, format string, args ...any) {
	fmt.Fprintf(c.App.Writer, "%s %s\n", okMark, fmt.Sprintf(format, args...))
}

// PrintError writes err to w in the CLI's error format. Agent errors show
// their code.
func PrintError(w io.Writer, err error) {
	var apiErr *connection.APIError
	var de *domain.DomainError
	switch {
	case errors.As(err, &apiErr):
		fmt.Fprintf(w, "%s %s\n", failMark, apiErr.Error())
	case errors.As(err, &de):
		fmt.Fprintf(w, "%s %s\n", failMark, de.Describe())
	default:
		fmt.Fprintf(w, "%s %v\n", failMark, err)
	}
}
