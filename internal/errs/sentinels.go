// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels shared by the gateway, stores and view layer.
var (
	// ErrUnauthorized indicates an authentication rejection (HTTP 401).
	// The gateway tears the local session down before returning it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated identity lacks a required role.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a rejected request payload (client- or server-side).
	ErrValidation = errors.New("validation failed")

	// ErrServer indicates a server-side failure (HTTP 5xx).
	ErrServer = errors.New("server error")

	// ErrNetwork indicates a transport failure before any response arrived.
	ErrNetwork = errors.New("network error")

	// ErrNoToken indicates no access token is persisted locally.
	ErrNoToken = errors.New("no token (login required)")
)
