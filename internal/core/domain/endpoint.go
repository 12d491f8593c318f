package domain

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// MaxPort is the largest valid TCP port.
const MaxPort = 65535

// Endpoint identifies a connection target.
type Endpoint struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

// NewEndpoint builds and validates an endpoint.
func NewEndpoint(address string, port int) (Endpoint, error) {
	ep := Endpoint{Address: strings.TrimSpace(address), Port: port}
	if err := ep.Validate(); err != nil {
		return Endpoint{}, err
	}
	return ep, nil
}

// Validate checks that the endpoint can be dialed.
func (e Endpoint) Validate() error {
	if e.Address == "" {
		return ErrMissingArgument.WithDetails("address")
	}
	if strings.ContainsAny(e.Address, " \t\r\n/") {
		return ErrInvalidArgument.WithDetails(fmt.Sprintf("invalid address %q", e.Address))
	}
	if e.Port < 1 || e.Port > MaxPort {
		return ErrInvalidArgument.WithDetails(fmt.Sprintf("invalid port %d (must be 1-%d)", e.Port, MaxPort))
	}
	return nil
}

// String returns the dialable host:port form.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Address, strconv.Itoa(e.Port))
}

// IsZero reports whether the endpoint is unset.
func (e Endpoint) IsZero() bool {
	return e.Address == "" && e.Port == 0
}

// ParsePort parses a decimal port number.
func ParsePort(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMissingArgument.WithDetails("port")
	}
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > MaxPort {
		return 0, ErrInvalidArgument.WithDetails(fmt.Sprintf("invalid port %q (must be 1-%d)", s, MaxPort))
	}
	return port, nil
}
