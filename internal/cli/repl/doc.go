// Package repl provides the interactive shell of the tcplink CLI.
//
// The shell owns an in-process connection manager, so it works without a
// running agent:
//
//   - repl.go: prompt loop and command dispatch
//   - completer.go: command name completion and suggestions
//   - history.go: command history persistence
//
// Connect and send run asynchronously; their results and any bytes
// received from the peer are printed as they arrive.
package repl
