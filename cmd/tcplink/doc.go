// Package main provides the entry point for tcplink.
//
// The CLI drives the single TCP connection held by tcplink-agent:
//
//   - Connect, disconnect and status
//   - Sending messages with prepend text and line endings
//   - Saved commands
//   - Watching bytes received from the peer
//
// Usage:
//
//	tcplink [command] [flags]
//	tcplink connect 192.168.1.20 23
//	tcplink send "AT+GMR" --append CRLF
//	tcplink -o json status
//
// "tcplink shell" opens an interactive session with its own connection
// and does not need the agent.
package main
