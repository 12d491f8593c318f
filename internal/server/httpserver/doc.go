// Package httpserver provides the local HTTP API of tcplink-agent.
//
// It uses the Go standard library net/http, with routing by method and
// path pattern:
//
//   - /health, /metrics
//   - /v1/status, /v1/connect, /v1/disconnect, /v1/transmit
//   - /v1/profile
//   - /v1/commands and /v1/commands/{name}/send
//
// Request handlers live in the handler subpackage; this package owns the
// server lifecycle, the middleware chain and the router.
package httpserver
