package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a classified error with a structured error code.
//
// Codes have the form TL-<AREA>-<NNNN>. The message is the human-readable
// rendering shown at the operation boundary.
type DomainError struct {
	Code    string // Error code (e.g., "TL-CONN-5021")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Wrap wraps an error with this domain error as the cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return e.WithCause(cause)
}

// Describe renders the error without its code, for result values that carry
// the code separately.
func (e *DomainError) Describe() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// AsDomainError returns err as a *DomainError, classifying anything else as
// an internal error.
func AsDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return de
	}
	return ErrInternal.Wrap(err).WithDetails(err.Error())
}

// ============================================================================
// Connection Errors (CONN)
// ============================================================================

var (
	// ErrBusy indicates a connect attempt is already in flight.
	ErrBusy = NewDomainError("TL-CONN-4090", "currently attempting to connect, please wait")

	// ErrConnectAborted indicates the in-flight connect was abandoned by a disconnect.
	ErrConnectAborted = NewDomainError("TL-CONN-4091", "connect attempt abandoned by disconnect")

	// ErrNotConnected indicates there is no active socket.
	ErrNotConnected = NewDomainError("TL-CONN-4001", "not connected to a server")

	// ErrConnectFailed indicates a connect failure that fits no narrower class.
	ErrConnectFailed = NewDomainError("TL-CONN-5020", "failed to connect to server")

	// ErrConnectRefused indicates the peer actively refused the connection.
	ErrConnectRefused = NewDomainError("TL-CONN-5021", "connection refused")

	// ErrNoRoute indicates there is no route to the host.
	ErrNoRoute = NewDomainError("TL-CONN-5022", "no route to host; potential firewall issue")

	// ErrHostNotFound indicates the address could not be resolved.
	ErrHostNotFound = NewDomainError("TL-CONN-5023", "host not found")

	// ErrTransportFailure indicates an I/O failure on an established socket.
	ErrTransportFailure = NewDomainError("TL-CONN-5030", "disconnected from server; please reconnect")

	// ErrConnectTimedOut indicates the connection attempt exceeded its timeout.
	ErrConnectTimedOut = NewDomainError("TL-CONN-5040", "connection attempt timed out")
)

// ============================================================================
// Saved Command Errors (CMD)
// ============================================================================

var (
	// ErrCommandNotFound indicates no saved command has the given name.
	ErrCommandNotFound = NewDomainError("TL-CMD-4040", "saved command not found")

	// ErrCommandConflict indicates a saved command with the name already exists.
	ErrCommandConflict = NewDomainError("TL-CMD-4090", "saved command already exists")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("TL-ARG-1001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("TL-ARG-1002", "missing required argument")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternal indicates an unexpected internal error.
	ErrInternal = NewDomainError("TL-SYS-5000", "internal error")

	// ErrStorage indicates a storage layer error.
	ErrStorage = NewDomainError("TL-SYS-5001", "storage error")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("TL-SYS-4290", "too many requests")
)
