// Package logger configures structured logging for tcplink.
//
// Loggers are plain *slog.Logger values built by New. The package adds:
//
//   - a process-wide dynamic level (SetLevel), so config reloads can change
//     verbosity without rebuilding loggers
//   - redaction of secrets and, unless enabled, of transmitted payloads
//   - context helpers for request ID propagation
package logger
