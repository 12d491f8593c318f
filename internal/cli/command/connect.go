package command

import (
	"fmt"
	"net"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/tcplink/internal/cli/output"
	"github.com/yndnr/tcplink/internal/core/domain"
)

// ConnectCommand returns the connect command.
func ConnectCommand() *cli.Command {
	return &cli.Command{
		Name:            "connect",
		Usage:           "Connect the agent to a TCP server",
		ArgsUsage:       "[ADDRESS PORT | HOST:PORT]",
		HideHelpCommand: true,
		Description: "Without arguments the agent reconnects to the last endpoint it\n" +
			"connected to successfully.",
		Action: connectAction,
	}
}

// parseEndpoint accepts "ADDRESS PORT" or "HOST:PORT".
func parseEndpoint(args []string) (domain.Endpoint, error) {
	switch len(args) {
	case 1:
		host, p, err := net.SplitHostPort(args[0])
		if err != nil {
			return domain.Endpoint{}, domain.ErrMissingArgument.WithDetails("port")
		}
		port, err := domain.ParsePort(p)
		if err != nil {
			return domain.Endpoint{}, err
		}
		return domain.NewEndpoint(host, port)
	case 2:
		port, err := domain.ParsePort(args[1])
		if err != nil {
			return domain.Endpoint{}, err
		}
		return domain.NewEndpoint(args[0], port)
	default:
		return domain.Endpoint{}, domain.ErrInvalidArgument.WithDetails("expected ADDRESS PORT or HOST:PORT")
	}
}

func connectAction(c *cli.Context) error {
	agent := newAgent(c)
	ctx, cancel := requestContext(c)
	defer cancel()

	var ep domain.Endpoint
	if c.NArg() == 0 {
		p, err := agent.Profile(ctx)
		if err != nil {
			return err
		}
		if p.LastEndpoint == nil {
			return domain.ErrMissingArgument.WithDetails("no previous endpoint; pass ADDRESS PORT")
		}
		ep = *p.LastEndpoint
	} else {
		var err error
		if ep, err = parseEndpoint(c.Args().Slice()); err != nil {
			return err
		}
	}

	spin := output.NewSpinner(c.App.ErrWriter, fmt.Sprintf("Connecting to %s...", ep))
	spin.Start()
	err := agent.Connect(ctx, ep.Address, ep.Port)
	spin.Stop()
	if err != nil {
		return err
	}

	if structured(c) {
		return render(c, map[string]any{"success": true, "endpoint": ep})
	}
	printSuccess(c, "Connected to %s", ep)
	return nil
}

// DisconnectCommand returns the disconnect command.
func DisconnectCommand() *cli.Command {
	return &cli.Command{
		Name:   "disconnect",
		Usage:  "Close the agent's connection",
		Action: disconnectAction,
	}
}

func disconnectAction(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	status, err := newAgent(c).Disconnect(ctx)
	if err != nil {
		return err
	}
	if structured(c) {
		return render(c, map[string]any{"value": status})
	}
	printSuccess(c, "Disconnected")
	return nil
}

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show the connection status",
		Action: statusAction,
	}
}

func statusAction(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	snap, err := newAgent(c).Status(ctx)
	if err != nil {
		return err
	}
	return render(c, snap)
}

// LastCommand returns the last command.
func LastCommand() *cli.Command {
	return &cli.Command{
		Name:   "last",
		Usage:  "Show the last successfully connected endpoint",
		Action: lastAction,
	}
}

func lastAction(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := newAgent(c).Profile(ctx)
	if err != nil {
		return err
	}
	if p.LastEndpoint == nil {
		if structured(c) {
			return render(c, map[string]any{})
		}
		fmt.Fprintln(c.App.Writer, "No previous endpoint")
		return nil
	}
	return render(c, p.LastEndpoint)
}
