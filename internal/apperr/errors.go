// Package apperr defines the error kinds every route handler converts to.
// Nothing is allowed to propagate to the transport layer as an unhandled fault.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// Validation means the request was malformed or missing fields.
	// Always detected before any vendor call.
	Validation Kind = iota
	// Vendor means the payment/tax/address vendor rejected the request.
	// The vendor's human-readable message is passed through.
	Vendor
	// NotFound means a referenced order, item, or template is absent.
	NotFound
	// Internal covers everything else: network failure, vendor outage,
	// unexpected panic. Clients only ever see a generic message.
	Internal
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the error kind to its HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case Validation, Vendor:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: Validation, Message: fmt.Sprintf(format, args...)}
}

func Vendorf(format string, args ...any) *Error {
	return &Error{Kind: Vendor, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

// Internalf wraps err behind a generic client-facing message.
func Internalf(err error, format string, args ...any) *Error {
	return &Error{Kind: Internal, Message: fmt.Sprintf(format, args...), Err: err}
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
