// Package errs carries the failure kinds that the service surfaces to callers.
// Every remote interaction wraps its failures with a kind so the HTTP layer can
// map them to a status without string matching.
package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindAuth         Kind = "AUTH_ERROR"
	KindDelivery     Kind = "DELIVERY_ERROR"
	KindAttribution  Kind = "ATTRIBUTION_ERROR"
	KindStoreRead    Kind = "STORE_READ_ERROR"
	KindStoreWrite   Kind = "STORE_WRITE_ERROR"
	KindHistoryWrite Kind = "HISTORY_WRITE_ERROR"
	KindTimeout      Kind = "TIMEOUT_ERROR"
)

type Error struct {
	kind  Kind
	msg   string
	cause error
}

func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, cause error, msg string) *Error {
	return &Error{kind: kind, msg: msg, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Kind() Kind { return e.kind }

// Remote wraps a failed remote call, promoting expired deadlines to KindTimeout
// so callers can tell a slow dependency apart from a rejecting one.
func Remote(kind Kind, cause error, msg string) *Error {
	if errors.Is(cause, context.DeadlineExceeded) {
		return Wrap(KindTimeout, cause, msg)
	}
	return Wrap(kind, cause, msg)
}

// KindOf digs the kind out of an error chain. Unkinded errors count as internal
// failures and report an empty kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return ""
}

// HTTPStatus maps an error to the response status the adapter should write.
// Only validation failures are the caller's fault; everything else is a 500.
func HTTPStatus(err error) int {
	if KindOf(err) == KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
