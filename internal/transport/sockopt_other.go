//go:build !unix

package transport

import "syscall"

// reuseAddrControl is a no-op where x/sys/unix socket options are unavailable.
func reuseAddrControl(_, _ string, _ syscall.RawConn) error {
	return nil
}
