package errors

import (
	"fmt"
)

// BuildError indicates the caller supplied an operation request that is
// missing a field required by that operation. It is raised before any
// network activity.
type BuildError struct {
	Operation string
	Field     string
	Message   string
}

func (e *BuildError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("build %s: field '%s': %s", e.Operation, e.Field, e.Message)
	}
	return fmt.Sprintf("build %s: %s", e.Operation, e.Message)
}

// NewBuildError creates a new build error for a missing or invalid field
func NewBuildError(operation, field, message string) *BuildError {
	return &BuildError{
		Operation: operation,
		Field:     field,
		Message:   message,
	}
}

// ParseError indicates the gateway response was not well-formed XML or
// lacked the mandatory envelope/signon segment. The caller receives no
// outcome when parsing fails.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse response: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new parse error
func NewParseError(reason string, err error) *ParseError {
	return &ParseError{
		Reason: reason,
		Err:    err,
	}
}

// TransportError wraps a network-level failure from the HTTPS collaborator.
// It carries no retry semantics of its own; retry/backoff policy belongs to
// whoever owns the transport.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new transport error
func NewTransportError(endpoint string, err error) *TransportError {
	return &TransportError{
		Endpoint: endpoint,
		Err:      err,
	}
}
