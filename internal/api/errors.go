package api

import (
	"fmt"
	"net/http"

	"github.com/semanticsaas/talentctl/internal/errs"
)

// Error is a typed gateway failure carrying the HTTP status and the
// server-provided message. Status 0 means the transport failed before any
// response arrived. Error wraps one of the errs sentinels, so callers branch
// with errors.Is instead of inspecting status codes.
type Error struct {
	Status    int
	Message   string
	RequestID string
	sentinel  error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("network error: %s", e.Message)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *Error) Unwrap() error { return e.sentinel }

func newError(status int, message, requestID string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{Status: status, Message: message, RequestID: requestID, sentinel: sentinelFor(status)}
}

func newNetworkError(err error, requestID string) *Error {
	return &Error{Message: err.Error(), RequestID: requestID, sentinel: errs.ErrNetwork}
}

func sentinelFor(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return errs.ErrUnauthorized
	case status == http.StatusForbidden:
		return errs.ErrForbidden
	case status == http.StatusNotFound:
		return errs.ErrNotFound
	case status >= 400 && status < 500:
		return errs.ErrValidation
	default:
		return errs.ErrServer
	}
}
