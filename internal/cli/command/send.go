package command

import (
	"encoding/base64"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/tcplink/internal/cli/connection"
	"github.com/yndnr/tcplink/internal/core/domain"
)

// SendCommand returns the send command.
func SendCommand() *cli.Command {
	return &cli.Command{
		Name:            "send",
		Usage:           "Transmit a message over the agent's connection",
		ArgsUsage:       "MESSAGE",
		HideHelpCommand: true,
		Description: "The message is decoded with --encoding, then the prepend text and\n" +
			"line ending are added. Unset --append and --prepend use the agent\n" +
			"profile; set values are stored in it.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "append",
				Usage: "Line ending: none, LF, CR, CRLF",
			},
			&cli.StringFlag{
				Name:  "prepend",
				Usage: "Text sent before the message",
			},
			&cli.StringFlag{
				Name:    "encoding",
				Aliases: []string{"e"},
				Usage:   "Message encoding: utf8, hex, base64",
				Value:   string(domain.EncodingUTF8),
			},
			&cli.IntFlag{
				Name:    "repeat",
				Aliases: []string{"n"},
				Usage:   "Number of times to send",
				Value:   1,
			},
			&cli.Float64Flag{
				Name:  "rate",
				Usage: "Maximum messages per second when repeating (0 = unlimited)",
			},
		},
		Action: sendAction,
	}
}

func sendAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return domain.ErrMissingArgument.WithDetails("MESSAGE")
	}
	repeat := c.Int("repeat")
	if repeat < 1 {
		return domain.ErrInvalidArgument.WithDetails("--repeat must be at least 1")
	}
	if c.Float64("rate") < 0 {
		return domain.ErrInvalidArgument.WithDetails("--rate must not be negative")
	}

	message, err := domain.DecodePayload(strings.Join(c.Args().Slice(), " "), domain.Encoding(c.String("encoding")))
	if err != nil {
		return err
	}

	agent := newAgent(c)
	comp, err := composition(c, agent)
	if err != nil {
		return err
	}
	payload := comp.Compose(string(message))
	encoded := base64.StdEncoding.EncodeToString(payload)

	var limiter *rate.Limiter
	if r := c.Float64("rate"); r > 0 {
		limiter = rate.NewLimiter(rate.Limit(r), 1)
	}

	total := 0
	for i := 0; i < repeat; i++ {
		if limiter != nil {
			if err := limiter.Wait(c.Context); err != nil {
				return err
			}
		}
		ctx, cancel := requestContext(c)
		err := agent.Transmit(ctx, encoded, domain.EncodingBase64)
		cancel()
		if err != nil {
			return err
		}
		total += len(payload)
	}

	if structured(c) {
		return render(c, map[string]any{"messages": repeat, "bytes": total})
	}
	if repeat == 1 {
		printSuccess(c, "Sent %s", humanize.Bytes(uint64(total)))
	} else {
		printSuccess(c, "Sent %d messages (%s)", repeat, humanize.Bytes(uint64(total)))
	}
	return nil
}

// composition resolves the prepend and line ending for a send. Flags
// override the agent profile and are written back to it.
func composition(c *cli.Context, agent *connection.Agent) (domain.Composition, error) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if c.IsSet("append") || c.IsSet("prepend") {
		var le, prepend *string
		if c.IsSet("append") {
			v := c.String("append")
			le = &v
		}
		if c.IsSet("prepend") {
			v := c.String("prepend")
			prepend = &v
		}
		p, err := agent.UpdateProfile(ctx, le, prepend)
		if err != nil {
			return domain.Composition{}, err
		}
		return p.Composition(), nil
	}

	p, err := agent.Profile(ctx)
	if err != nil {
		return domain.Composition{}, err
	}
	return p.Composition(), nil
}
