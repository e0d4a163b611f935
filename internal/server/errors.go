package server

import (
	"errors"
	"fmt"
	"net/http"
)

type errKind int

const (
	errValidation errKind = iota
	errNotFound
	errConflict
	errAuthorization
	errExhausted
)

type gameError struct {
	kind    errKind
	message string
}

func (e *gameError) Error() string {
	return e.message
}

func validationError(format string, args ...any) error {
	return &gameError{kind: errValidation, message: fmt.Sprintf(format, args...)}
}

func notFoundError(format string, args ...any) error {
	return &gameError{kind: errNotFound, message: fmt.Sprintf(format, args...)}
}

func conflictError(format string, args ...any) error {
	return &gameError{kind: errConflict, message: fmt.Sprintf(format, args...)}
}

func authorizationError(format string, args ...any) error {
	return &gameError{kind: errAuthorization, message: fmt.Sprintf(format, args...)}
}

func exhaustedError(format string, args ...any) error {
	return &gameError{kind: errExhausted, message: fmt.Sprintf(format, args...)}
}

// errorStatus maps the taxonomy to HTTP. Anything untyped is treated as a
// store failure.
func errorStatus(err error) int {
	var gameErr *gameError
	if !errors.As(err, &gameErr) {
		return http.StatusInternalServerError
	}
	switch gameErr.kind {
	case errValidation:
		return http.StatusBadRequest
	case errNotFound:
		return http.StatusNotFound
	case errConflict:
		return http.StatusConflict
	case errAuthorization:
		return http.StatusForbidden
	case errExhausted:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isKind(err error, kind errKind) bool {
	var gameErr *gameError
	return errors.As(err, &gameErr) && gameErr.kind == kind
}
