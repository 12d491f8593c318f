// Package transport provides the TCP socket layer used by the connection
// manager.
//
// A Conn returned by TCPDialer tracks peer close passively: a background
// reader drains inbound bytes, hands them to an optional Sink and flips the
// connection to not-alive when the read side observes EOF or an error. No
// probe is ever written to detect liveness.
package transport
