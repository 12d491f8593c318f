// Package main provides the entry point for tcplink-agent.
//
// The agent is a local process that owns one connection manager and
// exposes it over HTTP on loopback:
//
//   - Connection control and status under /v1
//   - Saved commands and the message profile, persisted in Badger
//   - A websocket stream of bytes received from the peer
//   - Prometheus metrics on /metrics
//
// Usage:
//
//	tcplink-agent [flags]
//	tcplink-agent -config ~/.tcplink/agent.yaml
//
// Settings come from defaults, the config file, TCPLINK_* environment
// variables and flags, in increasing precedence. The log level follows
// edits to the config file without a restart.
package main
