package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/yndnr/tcplink/internal/core/domain"
	"github.com/yndnr/tcplink/internal/core/service"
	"github.com/yndnr/tcplink/internal/telemetry/logger"
	"github.com/yndnr/tcplink/internal/transport"
)

var (
	okMark    = color.New(color.FgGreen).Sprint("✓")
	failMark  = color.New(color.FgRed).Sprint("✗")
	recvColor = color.New(color.FgCyan)
)

// Options configures a REPL.
type Options struct {
	Input  io.Reader
	Output io.Writer

	// HistoryFile persists entered lines; empty keeps them in memory.
	HistoryFile string

	// Composition is the initial prepend and line ending for send.
	Composition domain.Composition

	// LastEndpoint is used by connect without arguments.
	LastEndpoint *domain.Endpoint

	// Hex prints received bytes as hex instead of text.
	Hex bool

	ConnectTimeout time.Duration
	WriteTimeout   time.Duration
	Logger         *slog.Logger

	// OnConnect is called after every successful connect, from the
	// goroutine that completed it.
	OnConnect func(domain.Endpoint)

	// OnCompositionChange is called after append or prepend.
	OnCompositionChange func(domain.Composition)
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	completer *Completer
	history   *History
	manager   *service.Manager

	hex                 bool
	composition         domain.Composition
	onConnect           func(domain.Endpoint)
	onCompositionChange func(domain.Composition)

	mu      sync.Mutex // guards output and last
	last    *domain.Endpoint
	pending sync.WaitGroup
}

// New creates a REPL with its own connection manager.
func New(opts Options) *REPL {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Composition.LineEnding == "" {
		opts.Composition.LineEnding = domain.DefaultLineEnding
	}

	r := &REPL{
		input:               opts.Input,
		output:              opts.Output,
		completer:           NewCompleter(),
		history:             NewHistory(opts.HistoryFile, DefaultHistorySize),
		hex:                 opts.Hex,
		composition:         opts.Composition,
		onConnect:           opts.OnConnect,
		onCompositionChange: opts.OnCompositionChange,
		last:                opts.LastEndpoint,
	}

	dialer := transport.NewTCPDialer(r.received)
	r.manager = service.NewManager(dialer, service.ManagerOptions{
		ConnectTimeout: opts.ConnectTimeout,
		WriteTimeout:   opts.WriteTimeout,
		Logger:         opts.Logger,
	})
	return r
}

// Run starts the REPL loop. It returns on exit, quit or end of input,
// after pending operations finish and the connection is closed.
func (r *REPL) Run() error {
	if err := r.history.Load(); err != nil {
		r.printf("%s could not load history: %v\n", failMark, err)
	}
	defer r.shutdown()

	r.printf("tcplink shell; type \"help\" for commands\n")
	reader := bufio.NewReader(r.input)

	for {
		r.printf("%s", r.prompt())

		line, err := reader.ReadString('\n')
		if err == io.EOF && line == "" {
			r.printf("\n")
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		r.history.Add(line)

		if cmd := strings.TrimSpace(line); cmd == "exit" || cmd == "quit" {
			return nil
		}

		if err := r.execute(line); err != nil {
			r.fail(err)
		}
	}
}

func (r *REPL) shutdown() {
	r.pending.Wait()
	r.manager.Close()
	if err := r.history.Save(); err != nil {
		r.printf("%s could not save history: %v\n", failMark, err)
	}
}

func (r *REPL) prompt() string {
	if s := r.manager.Snapshot(); s.Endpoint != nil && s.Status == domain.StatusConnected {
		return "tcplink(" + s.Endpoint.String() + ")> "
	}
	return "tcplink> "
}

// execute runs one input line. The text after "send " and "prepend " is
// taken verbatim.
func (r *REPL) execute(line string) error {
	line = strings.TrimLeft(line, " \t")
	name, rest, _ := strings.Cut(line, " ")
	args := strings.Fields(rest)

	switch strings.ToLower(name) {
	case "connect":
		return r.connect(args)
	case "disconnect":
		r.manager.Disconnect()
		r.printf("%s disconnected\n", okMark)
	case "send":
		r.send(rest)
	case "status":
		r.status()
	case "append":
		return r.setLineEnding(args)
	case "prepend":
		r.setPrepend(rest)
	case "history":
		for i, entry := range r.history.Entries() {
			r.printf("%4d  %s\n", i+1, entry)
		}
	case "help":
		r.printf("%s", helpText)
	default:
		if s := r.completer.Suggest(strings.ToLower(name)); len(s) > 0 {
			return fmt.Errorf("unknown command %q; did you mean: %s", name, strings.Join(s, ", "))
		}
		return fmt.Errorf("unknown command %q; type \"help\" for commands", name)
	}
	return nil
}

const helpText = `Commands:
  connect [ADDRESS PORT]   connect, or reconnect to the last endpoint
  connect HOST:PORT        same, with a combined address
  disconnect               close the connection
  send [TEXT]              send TEXT with the prepend and line ending
  status                   show the connection status
  append [none|LF|CR|CRLF] show or set the line ending
  prepend [TEXT]           show or set the prepend text; empty clears it
  history                  list entered commands
  help                     show this help
  exit, quit               leave the shell
`

// target resolves connect arguments to an endpoint.
func (r *REPL) target(args []string) (domain.Endpoint, error) {
	switch len(args) {
	case 0:
		r.mu.Lock()
		last := r.last
		r.mu.Unlock()
		if last == nil {
			return domain.Endpoint{}, domain.ErrMissingArgument.WithDetails("no previous endpoint; usage: connect ADDRESS PORT")
		}
		return *last, nil
	case 1:
		host, p, err := net.SplitHostPort(args[0])
		if err != nil {
			return domain.Endpoint{}, domain.ErrMissingArgument.WithDetails("usage: connect ADDRESS PORT")
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
		return domain.Endpoint{}, domain.ErrInvalidArgument.WithDetails("usage: connect ADDRESS PORT")
	}
}

func (r *REPL) connect(args []string) error {
	ep, err := r.target(args)
	if err != nil {
		return err
	}

	r.printf("connecting to %s...\n", ep)
	done := r.manager.ConnectAsync(context.Background(), ep.Address, ep.Port)
	r.async(func() {
		if err := <-done; err != nil {
			r.fail(err)
			return
		}
		r.mu.Lock()
		r.last = &ep
		r.mu.Unlock()
		r.printf("%s connected to %s\n", okMark, ep)
		if r.onConnect != nil {
			r.onConnect(ep)
		}
	})
	return nil
}

func (r *REPL) send(text string) {
	payload := r.composition.Compose(text)
	done := r.manager.TransmitAsync(context.Background(), payload)
	r.async(func() {
		if err := <-done; err != nil {
			r.fail(err)
			return
		}
		r.printf("%s sent %s\n", okMark, humanize.Bytes(uint64(len(payload))))
	})
}

func (r *REPL) status() {
	s := r.manager.Snapshot()
	switch {
	case s.Endpoint != nil:
		r.printf("%s (%s, %s)\n", s.Status, s.State, s.Endpoint)
	default:
		r.printf("%s (%s)\n", s.Status, s.State)
	}
}

func (r *REPL) setLineEnding(args []string) error {
	if len(args) == 0 {
		r.printf("line ending: %s\n", r.composition.LineEnding)
		return nil
	}
	le, err := domain.ParseLineEnding(args[0])
	if err != nil {
		return err
	}
	r.composition.LineEnding = le
	r.printf("%s line ending set to %s\n", okMark, le)
	r.compositionChanged()
	return nil
}

func (r *REPL) setPrepend(text string) {
	if text == "" && r.composition.Prepend == "" {
		r.printf("prepend: (none)\n")
		return
	}
	r.composition.Prepend = text
	if text == "" {
		r.printf("%s prepend cleared\n", okMark)
	} else {
		r.printf("%s prepend set to %q\n", okMark, text)
	}
	r.compositionChanged()
}

func (r *REPL) compositionChanged() {
	if r.onCompositionChange != nil {
		r.onCompositionChange(r.composition)
	}
}

// async runs fn in the background; shutdown waits for it.
func (r *REPL) async(fn func()) {
	r.pending.Add(1)
	go func() {
		defer r.pending.Done()
		fn()
	}()
}

// received prints bytes read from the peer. It runs on the socket reader.
func (r *REPL) received(_ domain.Endpoint, data []byte) {
	var text string
	if r.hex {
		text = fmt.Sprintf("% x", data)
	} else {
		text = strings.TrimRight(string(data), "\r\n")
	}
	r.printf("%s %s\n", recvColor.Sprint("<"), text)
}

func (r *REPL) fail(err error) {
	msg := err.Error()
	var de *domain.DomainError
	if errors.As(err, &de) {
		msg = de.Describe()
	}
	r.printf("%s %s\n", failMark, msg)
}

func (r *REPL) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.output, format, args...)
}
