package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation   = "validation_failed"
	CodeConflict     = "conflict"
	CodeNotFound     = "not_found"
	CodeConcurrency  = "concurrent_update"
	CodeUnauthorized = "unauthorized"
)

// Error carries an HTTP status and a stable machine code alongside the cause.
// Services return *Error for expected failures; handlers map it straight to a
// response without inspecting the message.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func Validation(format string, args ...interface{}) *Error {
	return New(http.StatusUnprocessableEntity, CodeValidation, fmt.Errorf(format, args...))
}

func Conflict(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, CodeConflict, fmt.Errorf(format, args...))
}

func NotFound(format string, args ...interface{}) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf(format, args...))
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, fmt.Errorf(format, args...))
}

// Concurrency marks a mutation that observed a state change mid-operation.
// Callers should retry with fresh state.
func Concurrency(format string, args ...interface{}) *Error {
	return New(http.StatusConflict, CodeConcurrency, fmt.Errorf(format, args...))
}

// From extracts an *Error from err's chain, or nil.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

func IsCode(err error, code string) bool {
	ae := From(err)
	return ae != nil && ae.Code == code
}
