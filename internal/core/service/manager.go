package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/tcplink/internal/core/domain"
	"github.com/yndnr/tcplink/internal/transport"
)

// Default timeouts applied when ManagerOptions leaves them unset.
const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultWriteTimeout   = 10 * time.Second
)

// Outcome labels reported to an Observer for successful operations.
const (
	OutcomeOK     = "ok"
	OutcomeReused = "reused"
)

// Observer receives operation outcomes. Failures are reported with the
// domain error code as outcome.
type Observer interface {
	ConnectDone(outcome string, elapsed time.Duration)
	TransmitDone(outcome string, bytes int)
	Disconnected(abandoned bool)
}

type nopObserver struct{}

func (nopObserver) ConnectDone(string, time.Duration) {}
func (nopObserver) TransmitDone(string, int)          {}
func (nopObserver) Disconnected(bool)                 {}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// ConnectTimeout bounds a single dial. Zero uses DefaultConnectTimeout,
	// negative disables the bound.
	ConnectTimeout time.Duration

	// WriteTimeout bounds a single transmit. Zero uses DefaultWriteTimeout,
	// negative disables the bound.
	WriteTimeout time.Duration

	Logger   *slog.Logger
	Observer Observer
}

// view is the immutable state published after every transition.
type view struct {
	conn       transport.Conn
	endpoint   *domain.Endpoint
	connecting bool
	attemptID  string
}

// Manager owns at most one outbound TCP socket.
//
// All mutating operations serialize on mu. Connect releases mu while
// dialing and holds the connecting guard instead, so operations arriving
// during a dial are rejected or recorded without waiting. Status and
// Snapshot read an atomically published view and never block.
type Manager struct {
	dialer         transport.Dialer
	connectTimeout time.Duration
	writeTimeout   time.Duration
	logger         *slog.Logger
	observer       Observer

	mu         sync.Mutex
	conn       transport.Conn
	endpoint   *domain.Endpoint
	connecting bool
	aborted    bool
	attemptID  string

	current atomic.Pointer[view]
}

// NewManager creates a Manager that opens sockets with dialer.
func NewManager(dialer transport.Dialer, opts ManagerOptions) *Manager {
	m := &Manager{
		dialer:         dialer,
		connectTimeout: opts.ConnectTimeout,
		writeTimeout:   opts.WriteTimeout,
		logger:         opts.Logger,
		observer:       opts.Observer,
	}
	if m.connectTimeout == 0 {
		m.connectTimeout = DefaultConnectTimeout
	}
	if m.writeTimeout == 0 {
		m.writeTimeout = DefaultWriteTimeout
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.observer == nil {
		m.observer = nopObserver{}
	}
	m.logger = m.logger.With("component", "manager")
	m.current.Store(&view{})
	return m
}

// publishLocked snapshots the state for lock-free readers. Caller holds mu.
func (m *Manager) publishLocked() {
	m.current.Store(&view{
		conn:       m.conn,
		endpoint:   m.endpoint,
		connecting: m.connecting,
		attemptID:  m.attemptID,
	})
}

// dropLocked closes and forgets the socket. Caller holds mu.
func (m *Manager) dropLocked() {
	if m.conn != nil {
		if err := m.conn.Close(); err != nil {
			m.logger.Debug("close socket", "error", err)
		}
	}
	m.conn = nil
	m.endpoint = nil
	m.publishLocked()
}

// Connect opens a socket to address:port, replacing any socket to another
// endpoint. A live socket to the same endpoint is reused without dialing.
//
// The dial does not observe ctx cancellation; it is bounded by the
// configured connect timeout.
func (m *Manager) Connect(ctx context.Context, address string, port int) error {
	ep, err := domain.NewEndpoint(address, port)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.connecting {
		m.mu.Unlock()
		m.logger.DebugContext(ctx, "connect rejected while another attempt is in flight", "endpoint", ep.String())
		m.observer.ConnectDone(domain.ErrBusy.Code, 0)
		return domain.ErrBusy
	}
	attempt := ulid.Make().String()
	log := m.logger.With("attempt_id", attempt, "endpoint", ep.String())

	if m.conn != nil && m.endpoint != nil && *m.endpoint == ep && m.conn.Alive() {
		m.attemptID = attempt
		m.publishLocked()
		m.mu.Unlock()
		log.InfoContext(ctx, "connect reused open socket")
		m.observer.ConnectDone(OutcomeReused, 0)
		return nil
	}

	m.connecting = true
	m.aborted = false
	m.attemptID = attempt
	old, oldEndpoint := m.conn, m.endpoint
	m.conn, m.endpoint = nil, nil
	m.publishLocked()
	m.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			log.DebugContext(ctx, "close previous socket", "error", err)
		}
		log.InfoContext(ctx, "closed previous socket", "previous", oldEndpoint.String())
	}

	log.InfoContext(ctx, "connecting")
	start := time.Now()
	conn, dialErr := m.dial(ctx, ep)
	elapsed := time.Since(start)

	m.mu.Lock()
	aborted := m.aborted
	m.connecting = false
	m.aborted = false
	if dialErr == nil && !aborted {
		m.conn = conn
		m.endpoint = &ep
	}
	m.publishLocked()
	m.mu.Unlock()

	if dialErr != nil {
		cerr := ClassifyConnectError(dialErr)
		log.WarnContext(ctx, "connect failed", "code", cerr.Code, "error", dialErr, "elapsed", elapsed)
		m.observer.ConnectDone(cerr.Code, elapsed)
		return cerr
	}
	if aborted {
		if err := conn.Close(); err != nil {
			log.DebugContext(ctx, "close abandoned socket", "error", err)
		}
		log.InfoContext(ctx, "connect abandoned by disconnect", "elapsed", elapsed)
		m.observer.ConnectDone(domain.ErrConnectAborted.Code, elapsed)
		return domain.ErrConnectAborted
	}

	log.InfoContext(ctx, "connected", "remote", conn.RemoteAddr().String(), "elapsed", elapsed)
	m.observer.ConnectDone(OutcomeOK, elapsed)
	return nil
}

func (m *Manager) dial(ctx context.Context, ep domain.Endpoint) (transport.Conn, error) {
	dctx := context.WithoutCancel(ctx)
	if m.connectTimeout > 0 {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(dctx, m.connectTimeout)
		defer cancel()
	}
	return m.dialer.Dial(dctx, ep)
}

// Disconnect closes the socket if one is held. It never fails.
//
// While a connect is in flight it returns immediately and marks the
// attempt abandoned: the dialed socket is closed on arrival and that
// Connect reports ErrConnectAborted.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	if m.connecting {
		m.aborted = true
		attempt := m.attemptID
		m.mu.Unlock()
		m.logger.Info("disconnect abandoned in-flight connect", "attempt_id", attempt)
		m.observer.Disconnected(true)
		return
	}
	had := m.conn != nil
	var ep string
	if m.endpoint != nil {
		ep = m.endpoint.String()
	}
	m.dropLocked()
	m.mu.Unlock()

	if had {
		m.logger.Info("disconnected", "endpoint", ep)
	}
	m.observer.Disconnected(false)
}

// Transmit writes payload to the socket in full. On any write failure the
// socket is closed and forgotten and ErrTransportFailure is returned.
func (m *Manager) Transmit(ctx context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connecting {
		m.observer.TransmitDone(domain.ErrBusy.Code, 0)
		return domain.ErrBusy
	}
	if m.conn == nil {
		m.observer.TransmitDone(domain.ErrNotConnected.Code, 0)
		return domain.ErrNotConnected
	}

	ep := m.endpoint.String()
	if !m.conn.Alive() {
		m.dropLocked()
		m.logger.WarnContext(ctx, "transmit on socket closed by peer", "endpoint", ep)
		m.observer.TransmitDone(domain.ErrTransportFailure.Code, 0)
		return domain.ErrTransportFailure.WithDetails("connection closed by peer")
	}

	if m.writeTimeout > 0 {
		if err := m.conn.SetWriteDeadline(time.Now().Add(m.writeTimeout)); err != nil {
			m.dropLocked()
			m.observer.TransmitDone(domain.ErrTransportFailure.Code, 0)
			return domain.ErrTransportFailure.Wrap(err)
		}
	}

	n, err := writeFull(m.conn, payload)
	if err != nil {
		m.dropLocked()
		m.logger.WarnContext(ctx, "transmit failed", "endpoint", ep, "written", n, "size", len(payload), "error", err)
		m.observer.TransmitDone(domain.ErrTransportFailure.Code, n)
		return domain.ErrTransportFailure.Wrap(err)
	}

	m.logger.DebugContext(ctx, "transmitted", "endpoint", ep, "bytes", n)
	m.observer.TransmitDone(OutcomeOK, n)
	return nil
}

// writeFull writes p until done or an error occurs.
func writeFull(w io.Writer, p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := w.Write(p[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}

// Status reports the socket status without blocking.
func (m *Manager) Status() domain.Status {
	v := m.current.Load()
	switch {
	case v.conn == nil:
		return domain.StatusNoSocket
	case v.conn.Alive():
		return domain.StatusConnected
	default:
		return domain.StatusDisconnected
	}
}

// Snapshot reports status, state machine state, endpoint and the latest
// connect attempt ID without blocking.
func (m *Manager) Snapshot() domain.Snapshot {
	v := m.current.Load()
	s := domain.Snapshot{AttemptID: v.attemptID}
	switch {
	case v.connecting:
		s.State = domain.StateConnecting
	case v.conn == nil:
		s.State = domain.StateIdle
	case v.conn.Alive():
		s.State = domain.StateOpen
	default:
		s.State = domain.StateStale
	}
	switch {
	case v.conn == nil:
		s.Status = domain.StatusNoSocket
	case s.State == domain.StateStale:
		s.Status = domain.StatusDisconnected
	default:
		s.Status = domain.StatusConnected
	}
	if v.endpoint != nil {
		ep := *v.endpoint
		s.Endpoint = &ep
	}
	return s
}

// Close releases the socket on shutdown without reporting to the observer.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connecting {
		m.aborted = true
		return nil
	}
	m.dropLocked()
	return nil
}
