// Package domain defines the core domain models for tcplink.
//
// Domain models are pure values without any IO dependencies:
//
//   - Endpoint: the (address, port) pair identifying a connection target
//   - Status, State: what the connection manager reports about its socket
//   - Message: payload composition (prepend text, line endings, encodings)
//   - SavedCommand: a named message kept between sessions
//   - Errors: structured error codes surfaced at the operation boundary
package domain
