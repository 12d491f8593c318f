// Package handler provides the HTTP request handlers of tcplink-agent.
//
// Every JSON response uses the Response envelope. Errors carry the domain
// error code, which also selects the HTTP status.
package handler
