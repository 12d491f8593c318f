package command

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/tcplink/internal/core/domain"
)

// CommandsCommand returns the saved command group.
func CommandsCommand() *cli.Command {
	return &cli.Command{
		Name:    "commands",
		Aliases: []string{"cmd"},
		Usage:   "Manage saved messages",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List saved commands",
				Action:  commandsList,
			},
			{
				Name:            "save",
				Usage:           "Save a named message",
				ArgsUsage:       "NAME MESSAGE",
				HideHelpCommand: true,
				Action:          commandsSave,
			},
			{
				Name:            "delete",
				Aliases:         []string{"rm"},
				Usage:           "Delete a saved command",
				ArgsUsage:       "NAME",
				HideHelpCommand: true,
				Action:          commandsDelete,
			},
			{
				Name:            "send",
				Usage:           "Transmit a saved command using the profile composition",
				ArgsUsage:       "NAME",
				HideHelpCommand: true,
				Action:          commandsSend,
			},
		},
	}
}

// commandRow is the table view of a saved command.
type commandRow struct {
	Name      string `json:"name"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at" table:"wide"`
}

func commandsList(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	items, err := newAgent(c).Commands(ctx)
	if err != nil {
		return err
	}
	if structured(c) {
		return render(c, items)
	}
	if len(items) == 0 {
		fmt.Fprintln(c.App.Writer, "No saved commands")
		return nil
	}

	rows := make([]commandRow, len(items))
	for i, cmd := range items {
		rows[i] = commandRow{
			Name:      cmd.Name,
			Message:   fmt.Sprintf("%q", cmd.Message),
			CreatedAt: humanize.Time(cmd.CreatedAt),
		}
	}
	return render(c, rows)
}

func commandsSave(c *cli.Context) error {
	if c.NArg() < 2 {
		return domain.ErrMissingArgument.WithDetails("NAME MESSAGE")
	}
	name := c.Args().First()
	message := strings.Join(c.Args().Tail(), " ")

	ctx, cancel := requestContext(c)
	defer cancel()

	cmd, err := newAgent(c).SaveCommand(ctx, name, message)
	if err != nil {
		return err
	}
	if structured(c) {
		return render(c, cmd)
	}
	printSuccess(c, "Saved %q", cmd.Name)
	return nil
}

func commandsDelete(c *cli.Context) error {
	if c.NArg() != 1 {
		return domain.ErrMissingArgument.WithDetails("NAME")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := newAgent(c).DeleteCommand(ctx, c.Args().First()); err != nil {
		return err
	}
	printSuccess(c, "Deleted %q", c.Args().First())
	return nil
}

func commandsSend(c *cli.Context) error {
	if c.NArg() != 1 {
		return domain.ErrMissingArgument.WithDetails("NAME")
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	n, err := newAgent(c).SendCommand(ctx, c.Args().First())
	if err != nil {
		return err
	}
	if structured(c) {
		return render(c, map[string]any{"name": c.Args().First(), "bytes": n})
	}
	printSuccess(c, "Sent %q (%s)", c.Args().First(), humanize.Bytes(uint64(n)))
	return nil
}
