// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
	"net/http"
)

// ErrorCode is the machine facing half of an *Error
// values go over the wire as numbers, so only ever append
type ErrorCode uint16

const (
	ErrorCodeUnknown         ErrorCode = iota // unclassified
	ErrorCodePanic                            // recovered by middleware or the fan-out executor
	ErrorCodeUnavailable                      // transient, a retry may succeed
	ErrorCodeTooManyRequests                  // rate limited
	ErrorCodeUnauthorized                     // credentials rejected
	ErrorCodeInvalidArgument                  // bad input parameters
	ErrorCodeValidation                       // request body failed validation
	ErrorCodeJSON                             // request body is not the JSON we expect
	ErrorCodeNotFound                         // missing resource
	ErrorCodeProvider                         // reasoning provider call failed
	ErrorCodeParse                            // structured extraction exhausted every strategy
	ErrorCodeTimeout                          // a worker deadline elapsed
	ErrorCodeUnknownWorker                    // worker name absent from the registry
)

type codeInfo struct {
	name   string
	status int
}

var codes = map[ErrorCode]codeInfo{
	ErrorCodeUnknown:         {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:           {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:     {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeTooManyRequests: {"too_many_requests", http.StatusTooManyRequests},
	ErrorCodeUnauthorized:    {"unauthorized", http.StatusUnauthorized},
	ErrorCodeInvalidArgument: {"invalid_argument", http.StatusUnprocessableEntity},
	ErrorCodeValidation:      {"validation", http.StatusBadRequest},
	ErrorCodeJSON:            {"json", http.StatusBadRequest},
	ErrorCodeNotFound:        {"not_found", http.StatusNotFound},
	ErrorCodeProvider:        {"provider", http.StatusBadGateway},
	ErrorCodeParse:           {"parse", http.StatusUnprocessableEntity},
	ErrorCodeTimeout:         {"timeout", http.StatusGatewayTimeout},
	ErrorCodeUnknownWorker:   {"unknown_worker", http.StatusNotFound},
}

func (c ErrorCode) info() codeInfo {
	if ci, ok := codes[c]; ok {
		return ci
	}
	return codes[ErrorCodeUnknown]
}

// String names the code for logs and metrics labels
func (c ErrorCode) String() string { return c.info().name }

// Status is the HTTP status a handler answers with for c
func (c ErrorCode) Status() int { return c.info().status }

// Error carries a developer facing message, a code and an optional offending field
type Error struct {
	code  ErrorCode
	msg   string
	field string
	orig  error
}

// Wire is what the API puts in an error envelope
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.orig == nil:
		return e.msg
	default:
		return e.msg + ": " + e.orig.Error()
	}
}

func (e *Error) Unwrap() error   { return e.orig }
func (e *Error) Code() ErrorCode { return e.code }
func (e *Error) Field() string   { return e.field }
func (e *Error) ToWire() Wire    { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// As finds the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf is the code of the outermost *Error, Unknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether CodeOf(err) is code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus maps any error to a status; nil is 200
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return CodeOf(err).Status()
}

// WireFrom renders any error for the envelope; foreign errors keep their text under Unknown
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// WithField returns a copy of err naming the offending field
// foreign errors come back unchanged
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	c.field = field
	return &c
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrap keeps orig reachable through Unwrap
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return Wrap(orig, code, fmt.Sprintf(format, a...))
}

func InvalidArgf(format string, a ...any) error    { return Newf(ErrorCodeInvalidArgument, format, a...) }
func JSONErrf(format string, a ...any) error       { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error      { return Newf(ErrorCodePanic, format, a...) }
func Internalf(format string, a ...any) error      { return Newf(ErrorCodeUnknown, format, a...) }
func Providerf(format string, a ...any) error      { return Newf(ErrorCodeProvider, format, a...) }
func Parsef(format string, a ...any) error         { return Newf(ErrorCodeParse, format, a...) }
func Timeoutf(format string, a ...any) error       { return Newf(ErrorCodeTimeout, format, a...) }
func UnknownWorkerf(format string, a ...any) error { return Newf(ErrorCodeUnknownWorker, format, a...) }
