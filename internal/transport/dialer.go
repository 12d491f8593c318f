package transport

import (
	"context"
	"net"
	"time"

	"github.com/yndnr/tcplink/internal/core/domain"
)

// TCPDialer dials TCP endpoints.
type TCPDialer struct {
	// KeepAlive is the TCP keep-alive period. Zero uses the Go default,
	// negative disables keep-alive.
	KeepAlive time.Duration

	// ReuseAddr enables SO_REUSEADDR on new sockets.
	ReuseAddr bool

	// Sink receives inbound bytes. May be nil.
	Sink Sink
}

// NewTCPDialer returns a dialer with SO_REUSEADDR enabled.
func NewTCPDialer(sink Sink) *TCPDialer {
	return &TCPDialer{ReuseAddr: true, Sink: sink}
}

// Dial connects to ep. The deadline, if any, comes from ctx.
func (d *TCPDialer) Dial(ctx context.Context, ep domain.Endpoint) (Conn, error) {
	nd := &net.Dialer{KeepAlive: d.KeepAlive}
	if d.ReuseAddr {
		nd.Control = reuseAddrControl
	}
	c, err := nd.DialContext(ctx, "tcp", ep.String())
	if err != nil {
		return nil, err
	}
	return track(c, ep, d.Sink), nil
}
