package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure so handlers can pick an HTTP status
// without string-matching error messages.
type Kind int

const (
	Validation Kind = iota // malformed input
	Conflict               // duplicate unique key
	NotFound               // no matching record
	Auth                   // bad credentials
	Forbidden              // token subject does not match target
	Store                  // underlying database failure
)

type Error struct {
	Kind    Kind
	Message string // user-facing, pt-BR as in the public contract
	Err     error  // optional cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the Kind of err, or Store for anything unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Store
}

// MessageOf returns the user-facing message of err. Unclassified errors
// collapse to a generic message so driver internals never reach clients.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "erro interno"
}

// Status maps err to the default HTTP status for its Kind. Endpoints
// with a different contract (login answers 400 for a missing user)
// override the result locally.
func Status(err error) int {
	switch KindOf(err) {
	case Validation, Conflict, Auth:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
