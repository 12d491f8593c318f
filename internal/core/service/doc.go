// Package service implements the tcplink session logic.
//
// Manager owns the single outbound socket and its lifecycle. Bridge renders
// Manager operations as request/response values for external callers.
// ProfileService and CommandService keep the remembered endpoint, message
// composition settings and saved commands on top of a storage repository.
package service
