package command

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
)

// BackupCommand returns the backup command.
func BackupCommand() *cli.Command {
	return &cli.Command{
		Name:            "backup",
		Usage:           "Save the agent's profile and saved commands to a file",
		ArgsUsage:       "FILE",
		HideHelpCommand: true,
		Action:          backupAction,
	}
}

func backupAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: tcplink backup FILE")
	}
	path := c.Args().First()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create backup file: %w", err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	n, err := newAgent(c).Backup(ctx, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}

	printSuccess(c, "Backup written to %s (%s)", path, humanize.Bytes(uint64(n)))
	return nil
}
