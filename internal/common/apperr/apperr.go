// Package apperr carries the error taxonomy of the booking API. Every
// business failure is an *Error with a Kind; handlers map kinds to HTTP
// status codes and render the optional field messages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation               Kind = "validation"
	KindSeatConflict             Kind = "seat_conflict"
	KindWagonTripMismatch        Kind = "wagon_trip_mismatch"
	KindInvalidSeat              Kind = "invalid_seat"
	KindMissingDocument          Kind = "missing_document"
	KindEmptyOrder               Kind = "empty_order"
	KindForbidden                Kind = "forbidden"
	KindInvalidState             Kind = "invalid_state"
	KindCancellationWindowClosed Kind = "cancellation_window_closed"
	KindNotFound                 Kind = "not_found"
	KindInternal                 Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithField attaches a field-level message and returns the same error,
// so calls can be chained at the construction site.
func (e *Error) WithField(name, message string) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[name] = message
	return e
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindSeatConflict, KindInvalidState, KindCancellationWindowClosed:
		return http.StatusConflict
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// As unwraps err into an *Error, wrapping unknown errors as internal so
// no raw storage error ever reaches a response body.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Kind: KindInternal, Message: "internal server error"}
}

func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
