// Package buildinfo exposes version information injected at build time:
//
//	go build -ldflags "-X github.com/yndnr/tcplink/internal/infra/buildinfo.Version=v1.0.0"
//
// When ldflags are absent, the module version and VCS revision recorded
// by the Go toolchain are used.
package buildinfo
