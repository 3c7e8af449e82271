package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an application error carrying the HTTP status it maps to
type Error struct {
	HTTPStatus int
	Code       string
	Message    string
	Internal   error
}

func (e *Error) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Internal
}

// Is matches on Code, so copies made with WithMessage/WithInternal still match their sentinel
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of the error with a custom message
func (e *Error) WithMessage(message string) *Error {
	return &Error{
		HTTPStatus: e.HTTPStatus,
		Code:       e.Code,
		Message:    message,
		Internal:   e.Internal,
	}
}

// WithInternal returns a copy of the error with an internal cause attached.
// The cause is logged, never sent to the client.
func (e *Error) WithInternal(err error) *Error {
	return &Error{
		HTTPStatus: e.HTTPStatus,
		Code:       e.Code,
		Message:    e.Message,
		Internal:   err,
	}
}

func New(status int, code, message string) *Error {
	return &Error{
		HTTPStatus: status,
		Code:       code,
		Message:    message,
	}
}

var (
	ErrUnauthenticated = New(http.StatusUnauthorized, "unauthenticated", "Could not validate credentials")
	ErrForbidden       = New(http.StatusForbidden, "forbidden", "Access denied")
	ErrNotFound        = New(http.StatusNotFound, "not_found", "Not found")
	ErrConflict        = New(http.StatusBadRequest, "conflict", "Already exists")
	ErrInactiveAccount = New(http.StatusBadRequest, "inactive_account", "Inactive user")
	ErrBadRequest      = New(http.StatusBadRequest, "bad_request", "Invalid request")
	ErrClassifier      = New(http.StatusBadGateway, "classifier_error", "Image classification failed")
	ErrInternal        = New(http.StatusInternalServerError, "internal_error", "An internal error occurred")
)

// From returns err as an *Error, turning anything unknown into ErrInternal
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal.WithInternal(err)
}

func NotFound(what string) *Error {
	return ErrNotFound.WithMessage(what + " not found")
}

func Conflict(message string) *Error {
	return ErrConflict.WithMessage(message)
}

func BadRequest(message string) *Error {
	return ErrBadRequest.WithMessage(message)
}
