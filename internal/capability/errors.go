package capability

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Class identifies the kind of capability failure. It lets callers tell a
// transport problem apart from the model declining to merge.
type Class string

const (
	ClassTimeout     Class = "timeout"
	ClassRateLimited Class = "rate-limited"
	ClassAuth        Class = "auth"
	ClassUnavailable Class = "unavailable"
	ClassMalformed   Class = "malformed"
	ClassRejected    Class = "rejected"
	ClassCanceled    Class = "canceled"
)

// Transient reports whether a retry may succeed without changing the
// request or the configuration.
func (c Class) Transient() bool {
	switch c {
	case ClassTimeout, ClassRateLimited, ClassUnavailable:
		return true
	}
	return false
}

// Error is a failure to obtain a usable response from the capability.
type Error struct {
	Class      Class
	StatusCode int // HTTP status, 0 when no response was received
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("capability %s (HTTP %d): %s", e.Class, e.StatusCode, msg)
	}
	return fmt.Sprintf("capability %s: %s", e.Class, msg)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Classify maps an error returned by a Capability to its failure class.
// Errors that carry no class are treated as the service being unavailable.
func Classify(err error) Class {
	if err == nil {
		return ""
	}

	var ce *Error
	if errors.As(err, &ce) && ce.Class != "" {
		return ce.Class
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ClassCanceled
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ClassTimeout
	}
	return ClassUnavailable
}

// classForStatus maps an HTTP status code to a failure class.
func classForStatus(code int) Class {
	switch {
	case code == 401 || code == 403:
		return ClassAuth
	case code == 408:
		return ClassTimeout
	case code == 429:
		return ClassRateLimited
	case code >= 500:
		return ClassUnavailable
	default:
		return ClassRejected
	}
}
