// Package command provides CLI command definitions for tcplink.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: application, global flags and shared helpers
//   - connect.go: connect, disconnect, status and last
//   - send.go: message transmission with composition and pacing
//   - commands.go: saved command management
//   - watch.go: live view of received bytes
//   - config.go: local CLI configuration
//   - shell.go: interactive shell with an in-process connection
//
// Commands other than shell and config talk to a running tcplink-agent.
package command
