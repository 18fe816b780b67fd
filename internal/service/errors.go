// Package service implements the business rules of the mood journal:
// authentication, ownership checks, validation, field encryption, and
// analytics orchestration.
package service

import "net/http"

// Error is a caller-visible failure with an HTTP-mappable kind.
// Anything else escaping a service is an internal error.
type Error struct {
	Kind    int
	Message string
}

// Error kinds, mapped one-to-one onto HTTP status codes.
const (
	KindBadRequest   = http.StatusBadRequest
	KindUnauthorized = http.StatusUnauthorized
	KindForbidden    = http.StatusForbidden
	KindNotFound     = http.StatusNotFound
	KindConflict     = http.StatusConflict
)

func (e *Error) Error() string { return e.Message }

// BadRequest reports malformed or out-of-range input.
func BadRequest(msg string) error { return &Error{Kind: KindBadRequest, Message: msg} }

// Unauthorized reports a missing or invalid session where one is required.
func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Message: msg} }

// Forbidden reports an authenticated caller who is not an authorized
// party for the resource.
func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Message: msg} }

// NotFound reports a resource that is absent, soft-deleted, or not
// owned by the caller.
func NotFound(msg string) error { return &Error{Kind: KindNotFound, Message: msg} }

// Conflict reports a unique-constraint collision.
func Conflict(msg string) error { return &Error{Kind: KindConflict, Message: msg} }

// errAuthRequired is the shared mutation gate failure.
var errAuthRequired = Unauthorized("Authentication required")
