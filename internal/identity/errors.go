package identity

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies identity service failures by how callers should react.
type ErrorKind string

const (
	// KindNotFound means the target id is absent upstream.
	KindNotFound ErrorKind = "not_found"
	// KindConflict means an object with the same name already exists.
	KindConflict ErrorKind = "conflict"
	// KindUnauthorized means the service credential was rejected. Retrying cannot help.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindTransient covers timeouts, connection failures, throttling and 5xx responses.
	KindTransient ErrorKind = "transient"
	// KindInvalid covers any other rejected request.
	KindInvalid ErrorKind = "invalid"
)

// APIError is returned by every Client method that fails.
type APIError struct {
	Kind       ErrorKind
	StatusCode int // zero when no response was received
	Method     string
	Path       string
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("identity: %s %s: %s: %v", e.Method, e.Path, e.Kind, e.Err)
	}
	if e.Message == "" {
		return fmt.Sprintf("identity: %s %s: HTTP %d (%s)", e.Method, e.Path, e.StatusCode, e.Kind)
	}
	return fmt.Sprintf("identity: %s %s: HTTP %d (%s): %s", e.Method, e.Path, e.StatusCode, e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// KindForStatus maps an HTTP status to an error kind.
func KindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests, status >= 500:
		return KindTransient
	default:
		return KindInvalid
	}
}

// KindOf returns the kind of an identity error, or "" when err is not one.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsNotFound reports whether err is an identity service 404.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether err is an identity service 409.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsUnauthorized reports whether the service credential was rejected.
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }

// IsTransient reports whether err may succeed if retried.
func IsTransient(err error) bool { return KindOf(err) == KindTransient }
