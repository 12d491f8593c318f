package service

import (
	"bytes"
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/tcplink/internal/core/domain"
	"github.com/yndnr/tcplink/internal/transport"
)

// fakeConn is an in-memory transport.Conn.
type fakeConn struct {
	id int
	ep domain.Endpoint

	mu       sync.Mutex
	written  bytes.Buffer
	writes   int
	maxChunk int   // if > 0, each Write accepts at most maxChunk bytes
	writeErr error // returned by Write when set

	alive  atomic.Bool
	closes atomic.Int32
}

func newFakeConn(id int, ep domain.Endpoint) *fakeConn {
	c := &fakeConn{id: id, ep: ep}
	c.alive.Store(true)
	return c
}

func (c *fakeConn) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes++
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	if c.maxChunk > 0 && len(p) > c.maxChunk {
		p = p[:c.maxChunk]
	}
	c.written.Write(p)
	return len(p), nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.closes.Add(1)
	c.alive.Store(false)
	return nil
}

func (c *fakeConn) Alive() bool { return c.alive.Load() }

func (c *fakeConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: c.ep.Port}
}

func (c *fakeConn) Written() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.written.String()
}

func (c *fakeConn) Closed() bool { return c.closes.Load() > 0 }

// fakeDialer records dials and can hold them at a gate.
type fakeDialer struct {
	mu    sync.Mutex
	calls []domain.Endpoint
	conns []*fakeConn
	err   error

	// gate, when non-nil, blocks Dial until closed or ctx is done.
	gate chan struct{}
	// started receives one value per Dial entering the gate.
	started chan struct{}
	// onDial runs at the start of each Dial.
	onDial func(ep domain.Endpoint)
}

var _ transport.Dialer = (*fakeDialer)(nil)

func (d *fakeDialer) Dial(ctx context.Context, ep domain.Endpoint) (transport.Conn, error) {
	d.mu.Lock()
	d.calls = append(d.calls, ep)
	gate, started, onDial, dialErr := d.gate, d.started, d.onDial, d.err
	d.mu.Unlock()

	if onDial != nil {
		onDial(ep)
	}
	if gate != nil {
		if started != nil {
			started <- struct{}{}
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, &net.OpError{Op: "dial", Net: "tcp", Err: ctx.Err()}
		}
	}
	if dialErr != nil {
		return nil, dialErr
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	c := newFakeConn(len(d.conns)+1, ep)
	d.conns = append(d.conns, c)
	return c, nil
}

func (d *fakeDialer) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func (d *fakeDialer) Last() *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.conns) == 0 {
		return nil
	}
	return d.conns[len(d.conns)-1]
}

func (d *fakeDialer) Hold() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gate = make(chan struct{})
	d.started = make(chan struct{}, 16)
}

func (d *fakeDialer) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gate != nil {
		close(d.gate)
		d.gate = nil
	}
}

func (d *fakeDialer) SetErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

// recordingObserver counts observer callbacks.
type recordingObserver struct {
	mu        sync.Mutex
	connects  []string
	transmits []string
	discs     int
}

func (o *recordingObserver) ConnectDone(outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.connects = append(o.connects, outcome)
}

func (o *recordingObserver) TransmitDone(outcome string, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transmits = append(o.transmits, outcome)
}

func (o *recordingObserver) Disconnected(bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.discs++
}

// memCommandRepo is an in-memory CommandRepository.
type memCommandRepo struct {
	mu    sync.Mutex
	items map[string]*domain.SavedCommand
	err   error
}

func newMemCommandRepo() *memCommandRepo {
	return &memCommandRepo{items: make(map[string]*domain.SavedCommand)}
}

func (r *memCommandRepo) Get(_ context.Context, name string) (*domain.SavedCommand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.items[name]
	if !ok {
		return nil, domain.ErrCommandNotFound.WithDetails(name)
	}
	cp := *c
	return &cp, nil
}

func (r *memCommandRepo) Put(_ context.Context, cmd *domain.SavedCommand) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	cp := *cmd
	r.items[cmd.Name] = &cp
	return nil
}

func (r *memCommandRepo) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[name]; !ok {
		return domain.ErrCommandNotFound.WithDetails(name)
	}
	delete(r.items, name)
	return nil
}

func (r *memCommandRepo) List(context.Context) ([]*domain.SavedCommand, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.SavedCommand, 0, len(r.items))
	for _, c := range r.items {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// memProfileRepo is an in-memory ProfileRepository.
type memProfileRepo struct {
	mu  sync.Mutex
	p   *domain.Profile
	err error
}

func (r *memProfileRepo) Load(context.Context) (domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return domain.Profile{}, r.err
	}
	if r.p == nil {
		return domain.DefaultProfile(), nil
	}
	return *r.p, nil
}

func (r *memProfileRepo) Save(_ context.Context, p domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.p = &p
	return nil
}

var errBoom = errors.New("boom")
