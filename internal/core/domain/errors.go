package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for upstream responses with a fixed meaning.
var (
	// ErrUnauthorized maps 401: missing, expired or wrong credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden maps 403: the account exists but is suspended or blocked.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound maps 404 on a concrete resource.
	ErrNotFound = errors.New("not found")
	// ErrSessionNotFound is returned by session stores on a cache miss.
	ErrSessionNotFound = errors.New("session not found")
)

// FieldErrors is the Laravel-style per-field validation map the marketplace
// API returns on 422: field name to one or more messages.
type FieldErrors map[string][]string

// First returns the first message of the alphabetically first field, the
// message surfaced in single-line notifications.
func (f FieldErrors) First() string {
	fields := make([]string, 0, len(f))
	for k := range f {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	for _, k := range fields {
		if len(f[k]) > 0 {
			return f[k][0]
		}
	}
	return ""
}

// ValidationError carries the full 422 field map so forms can render inline
// errors while notifications show only the first message.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	if msg := e.Fields.First(); msg != "" {
		return msg
	}
	return "validation failed"
}

// ConflictError maps 409: the resource already exists. Field names the form
// field the conflict is attributed to.
type ConflictError struct {
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NetworkError wraps a transport-level failure: no HTTP response was
// received. Timeout distinguishes deadline expiry from other failures.
type NetworkError struct {
	Err     error
	Timeout bool
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request timed out: %v", e.Err)
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// UpstreamError covers every remaining >=400 response: the server answered
// with an error the portal has no special handling for.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if strings.TrimSpace(e.Message) != "" {
		return e.Message
	}
	return fmt.Sprintf("upstream returned %d", e.Status)
}

// UpstreamMessage extracts the server-provided message from any classified
// error, or "" when the error carries none.
func UpstreamMessage(err error) string {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Message
	}
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return ""
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
