package command

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

// WatchCommand returns the watch command.
func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Print bytes received from the peer until interrupted",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "hex",
				Usage: "Print received bytes as hex",
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "Exit after this many chunks (0 = unlimited)",
			},
		},
		Action: watchAction,
	}
}

func watchAction(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	stream, err := newAgent(c).Stream(ctx)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		stream.Close()
	}()

	if c.Bool("verbose") {
		fmt.Fprintf(c.App.ErrWriter, "watching %s (Ctrl+C to stop)\n", GetConfig(c).Agent)
	}

	marker := color.New(color.FgCyan).Sprint("<")
	limit := c.Int("count")
	for n := 0; limit == 0 || n < limit; n++ {
		data, err := stream.Next()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("stream closed: %w", err)
		}
		if c.Bool("hex") {
			fmt.Fprintf(c.App.Writer, "%s % x\n", marker, data)
		} else {
			fmt.Fprintf(c.App.Writer, "%s %s\n", marker, strings.TrimRight(string(data), "\r\n"))
		}
	}
	return nil
}
