package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/tcplink/internal/cli/config"
	"github.com/yndnr/tcplink/internal/cli/repl"
	"github.com/yndnr/tcplink/internal/core/domain"
	"github.com/yndnr/tcplink/internal/telemetry/logger"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Interactive session with an in-process connection (no agent needed)",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "hex",
				Usage: "Print received bytes as hex",
			},
			&cli.DurationFlag{
				Name:  "connect-timeout",
				Usage: "Bound for a single connect attempt",
			},
		},
		Action: shellAction,
	}
}

func shellAction(c *cli.Context) error {
	cfg := GetConfig(c)

	le, err := domain.ParseLineEnding(cfg.LineEnding)
	if err != nil {
		return err
	}

	log := logger.Discard()
	if c.Bool("verbose") {
		if log, err = logger.New(logger.Config{Level: "debug", Format: "text", Output: c.App.ErrWriter}); err != nil {
			return err
		}
	}

	r := repl.New(repl.Options{
		Input:          c.App.Reader,
		Output:         c.App.Writer,
		HistoryFile:    cfg.History(),
		Composition:    domain.Composition{Prepend: cfg.Prepend, LineEnding: le},
		LastEndpoint:   lastEndpoint(cfg),
		Hex:            c.Bool("hex"),
		ConnectTimeout: c.Duration("connect-timeout"),
		Logger:         log,
		OnConnect: func(ep domain.Endpoint) {
			err := updateConfigFile(c, func(fc *config.CLIConfig) error {
				fc.LastEndpoint = ep.String()
				return nil
			})
			if err != nil {
				log.Warn("failed to save last endpoint", "error", err)
			}
		},
		OnCompositionChange: func(comp domain.Composition) {
			err := updateConfigFile(c, func(fc *config.CLIConfig) error {
				fc.LineEnding = string(comp.LineEnding)
				fc.Prepend = comp.Prepend
				return nil
			})
			if err != nil {
				log.Warn("failed to save composition", "error", err)
			}
		},
	})
	return r.Run()
}

// lastEndpoint parses the stored host:port, ignoring invalid values.
func lastEndpoint(cfg *config.CLIConfig) *domain.Endpoint {
	if cfg.LastEndpoint == "" {
		return nil
	}
	ep, err := parseEndpoint([]string{cfg.LastEndpoint})
	if err != nil {
		return nil
	}
	return &ep
}
