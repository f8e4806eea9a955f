// Package apperr classifies failures so the HTTP layer can map them to a status
// code without inspecting store or crypto errors directly.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Status is the HTTP status for the kind. Conflicts share 400 with validation.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Code is the stable snake_case value written to
// clients; Err is kept for logs only.
type Error struct {
	Kind   Kind
	Code   string
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches two *Error values of the same kind and code, so callers can compare
// against the package-level sentinels with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

var (
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Code: "invalid_credentials"}
	ErrUnauthenticated    = &Error{Kind: KindAuthentication, Code: "invalid_token"}
	ErrForbidden          = &Error{Kind: KindAuthorization, Code: "permission_denied"}
	ErrUnavailable        = &Error{Kind: KindUnavailable, Code: "service_unavailable"}
)

func Validation(code string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Code: code, Fields: fields}
}

func Conflict(code string) *Error {
	return &Error{Kind: KindConflict, Code: code}
}

func NotFound(code string) *Error {
	return &Error{Kind: KindNotFound, Code: code}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: "server_error", Err: err}
}

func Unavailable(err error) *Error {
	return &Error{Kind: KindUnavailable, Code: ErrUnavailable.Code, Err: err}
}

// From returns err as an *Error, treating anything unclassified as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	return From(err).Kind
}
