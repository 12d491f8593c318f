// Package connection provides the CLI's connection to tcplink-agent.
//
//   - http.go: HTTP client with bearer authentication and envelope decoding
//   - agent.go: Typed calls for each agent route
package connection
