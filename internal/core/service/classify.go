package service

import (
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"syscall"

	"github.com/yndnr/tcplink/internal/core/domain"
)

// ClassifyConnectError maps a dial failure to a domain error. The original
// error is kept as cause and its text as details.
func ClassifyConnectError(err error) *domain.DomainError {
	if err == nil {
		return nil
	}
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de
	}
	return classify(err).Wrap(err).WithDetails(err.Error())
}

func classify(err error) *domain.DomainError {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		switch {
		case dnsErr.IsTimeout:
			return domain.ErrConnectTimedOut
		case dnsErr.IsNotFound:
			return domain.ErrHostNotFound
		}
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return domain.ErrConnectRefused
	case errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETUNREACH):
		return domain.ErrNoRoute
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return domain.ErrConnectTimedOut
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.ErrConnectTimedOut
	}

	// Some platforms surface dial failures only as text.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "refused"):
		return domain.ErrConnectRefused
	case strings.Contains(msg, "no route to host"), strings.Contains(msg, "network is unreachable"):
		return domain.ErrNoRoute
	case strings.Contains(msg, "no such host"):
		return domain.ErrHostNotFound
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return domain.ErrConnectTimedOut
	}
	return domain.ErrConnectFailed
}
