package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/tcplink/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Local CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:            "set",
				Usage:           "Set a value in the config file",
				ArgsUsage:       "KEY VALUE",
				HideHelpCommand: true,
				Description: "Keys: agent, api_token, output, line_ending, prepend,\n" +
					"history_file.",
				Action: configSet,
			},
			{
				Name:   "path",
				Usage:  "Print the config file path",
				Action: configPathAction,
			},
		},
	}
}

// configView hides the token in output.
type configView struct {
	Agent        string `json:"agent" yaml:"agent"`
	APIToken     string `json:"api_token,omitempty" yaml:"api_token,omitempty"`
	Output       string `json:"output" yaml:"output"`
	LineEnding   string `json:"line_ending" yaml:"line_ending"`
	Prepend      string `json:"prepend" yaml:"prepend"`
	HistoryFile  string `json:"history_file" yaml:"history_file"`
	LastEndpoint string `json:"last_endpoint,omitempty" yaml:"last_endpoint,omitempty"`
}

func configShow(c *cli.Context) error {
	cfg := GetConfig(c)
	view := configView{
		Agent:        cfg.Agent,
		Output:       cfg.Output,
		LineEnding:   cfg.LineEnding,
		Prepend:      cfg.Prepend,
		HistoryFile:  cfg.History(),
		LastEndpoint: cfg.LastEndpoint,
	}
	if cfg.APIToken != "" {
		view.APIToken = "***"
	}
	return render(c, view)
}

func configSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return errors.New("usage: tcplink config set KEY VALUE")
	}
	key, value := c.Args().Get(0), c.Args().Get(1)
	if err := updateConfigFile(c, func(cfg *config.CLIConfig) error {
		return config.Set(cfg, key, value)
	}); err != nil {
		return err
	}
	printSuccess(c, "Set %s in %s", key, configPath(c))
	return nil
}

func configPathAction(c *cli.Context) error {
	path := configPath(c)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(c.App.Writer, "%s (not created yet)\n", path)
		return nil
	}
	fmt.Fprintln(c.App.Writer, path)
	return nil
}

// updateConfigFile applies fn to the file's own settings, without the
// flag and environment overrides of the current run, and saves it.
func updateConfigFile(c *cli.Context, fn func(*config.CLIConfig) error) error {
	path := configPath(c)
	cfg, err := config.Load(path, nil)
	if err != nil {
		return err
	}
	if err := fn(cfg); err != nil {
		return err
	}
	return config.Save(cfg, path)
}
