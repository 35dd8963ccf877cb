package http

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrConnection matches every *ConnectionError
	ErrConnection = errors.New("connection error")

	// ErrMalformedResponse matches every *MalformedResponseError
	ErrMalformedResponse = errors.New("malformed response")

	// ErrResponseTooLarge is returned when the peer sends more than the
	// transport's MaxResponseSize before closing the connection
	ErrResponseTooLarge = errors.New("response exceeds maximum size")
)

// ConnectionError reports a failed connect, write or read on the socket
type ConnectionError struct {
	Op   string
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrConnection) match any ConnectionError
func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// MalformedResponseError reports response text that could not be split into
// status code, headers and body
type MalformedResponseError struct {
	Reason string
	Line   string
}

func (e *MalformedResponseError) Error() string {
	if e.Line == "" {
		return "malformed response: " + e.Reason
	}
	return fmt.Sprintf("malformed response: %s: %q", e.Reason, e.Line)
}

// Is lets errors.Is(err, ErrMalformedResponse) match any MalformedResponseError
func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

func malformed(reason, line string) error {
	return &MalformedResponseError{Reason: reason, Line: line}
}
