package api

import (
	"errors"
	"net"
	"strings"
)

// ErrorKind classifies what went wrong from the client's point of view.
// Remote rejections and transport failures surface through the same
// display path; the kind mainly decides retryability and the
// unauthorized redirect.
type ErrorKind string

const (
	ErrRemote       ErrorKind = "remote"
	ErrTransport    ErrorKind = "transport"
	ErrTimeout      ErrorKind = "timeout"
	ErrUnauthorized ErrorKind = "unauthorized"
)

// Fallback display strings, used whenever a failure carries no server
// message of its own.
const (
	FallbackFetchContacts  = "Failed to fetch contacts"
	FallbackSaveContact    = "Failed to save contact"
	FallbackDeleteContact  = "Failed to delete contact"
	FallbackLogin          = "Login failed"
	FallbackRegister       = "Registration failed"
	FallbackChangePassword = "Failed to change password"
	FallbackProfile        = "Failed to load profile"
)

// Error is any failure returned by the contact or auth service, or by
// the transport underneath it.
type Error struct {
	Kind     ErrorKind
	Message  string // server-provided, may be empty
	Fallback string // per-operation default display string
	Cause    error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Fallback
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessage returns the string to show the user: the server's own
// message when present, else the operation's fallback.
func (e *Error) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Fallback
}

func newRemoteError(message, fallback string) *Error {
	return &Error{Kind: ErrRemote, Message: message, Fallback: fallback}
}

func newUnauthorizedError(fallback string) *Error {
	return &Error{Kind: ErrUnauthorized, Message: "Your session has expired. Please log in again.", Fallback: fallback}
}

// classify wraps a transport-level failure, keeping the operation's
// fallback as the display string. Remote rejections and transport
// failures are indistinguishable to callers beyond the kind.
func classify(err error, fallback string) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	kind := ErrTransport
	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded"):
		kind = ErrTimeout
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			kind = ErrTimeout
		}
	}

	return &Error{Kind: kind, Fallback: fallback, Cause: err}
}

// UserMessage extracts a display string from any error, falling back to
// the given default for errors that carry no better one.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return fallback
}

// IsUnauthorized reports whether err means the session is no longer
// accepted by the server.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == ErrUnauthorized
}
