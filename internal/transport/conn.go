package transport

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/tcplink/internal/core/domain"
)

// readBufferSize is the chunk size of the background reader.
const readBufferSize = 4096

// Conn is an established, exclusively owned socket.
type Conn interface {
	Write(p []byte) (int, error)
	SetWriteDeadline(t time.Time) error
	Close() error
	// Alive reports whether the read side has not yet observed peer close.
	Alive() bool
	RemoteAddr() net.Addr
}

// Dialer opens connections to endpoints.
type Dialer interface {
	Dial(ctx context.Context, ep domain.Endpoint) (Conn, error)
}

// Sink receives bytes read from the peer. It is called from the reader
// goroutine and must not block for long.
type Sink func(ep domain.Endpoint, data []byte)

// trackedConn wraps a net.Conn with a background reader.
type trackedConn struct {
	net.Conn

	ep        domain.Endpoint
	sink      Sink
	alive     atomic.Bool
	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
	readErr   atomic.Pointer[error]
}

func track(c net.Conn, ep domain.Endpoint, sink Sink) *trackedConn {
	tc := &trackedConn{
		Conn: c,
		ep:   ep,
		sink: sink,
		done: make(chan struct{}),
	}
	tc.alive.Store(true)
	go tc.readLoop()
	return tc
}

func (c *trackedConn) readLoop() {
	defer close(c.done)
	buf := make([]byte, readBufferSize)
	for {
		n, err := c.Conn.Read(buf)
		if n > 0 && c.sink != nil {
			data := make([]byte, n)
			copy(data, buf[:n])
			c.sink(c.ep, data)
		}
		if err != nil {
			c.readErr.Store(&err)
			c.alive.Store(false)
			return
		}
	}
}

// Alive reports whether the peer is still considered connected.
func (c *trackedConn) Alive() bool {
	return c.alive.Load()
}

// Close closes the socket once; later calls return the first result.
func (c *trackedConn) Close() error {
	c.closeOnce.Do(func() {
		c.alive.Store(false)
		c.closeErr = c.Conn.Close()
		if errors.Is(c.closeErr, net.ErrClosed) {
			c.closeErr = nil
		}
	})
	return c.closeErr
}

// Done is closed when the background reader exits.
func (c *trackedConn) Done() <-chan struct{} {
	return c.done
}

// ReadErr returns the error that ended the reader, if any.
func (c *trackedConn) ReadErr() error {
	if p := c.readErr.Load(); p != nil {
		return *p
	}
	return nil
}
