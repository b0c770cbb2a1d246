package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode identifies an error kind. The values double as process exit statuses.
type ErrorCode int

// Error codes for a loopback run.
const (
	// ErrArgument covers usage errors and invalid operational configuration.
	ErrArgument ErrorCode = 1

	ErrOpenFailed   ErrorCode = -1
	ErrCloseFailed  ErrorCode = -2
	ErrReadFailed   ErrorCode = -3
	ErrWriteFailed  ErrorCode = -4
	ErrDataMismatch ErrorCode = -5
)

var errorMessages = map[ErrorCode]string{
	ErrArgument:     "argument error",
	ErrOpenFailed:   "device open failed",
	ErrCloseFailed:  "device close failed",
	ErrReadFailed:   "device read failed",
	ErrWriteFailed:  "device write failed",
	ErrDataMismatch: "data mismatch",
}

// AppError is the typed result of a failed step.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails sets the details and returns e.
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// WithCause attaches cause. Details default to the cause's message.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	if cause != nil && e.Details == "" {
		e.Details = cause.Error()
	}
	return e
}

// ExitCode is the process exit status for this error.
func (e *AppError) ExitCode() int {
	return int(e.Code)
}

// New creates an AppError. Multiple details are joined with "; ".
func New(code ErrorCode, details ...string) *AppError {
	message, ok := errorMessages[code]
	if !ok {
		message = "unknown error"
	}

	err := &AppError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = strings.Join(details, "; ")
	}
	return err
}

func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err with code. An error that already carries an AppError keeps
// its original code; the new details are prepended.
func Wrap(err error, code ErrorCode, details ...string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		if len(details) > 0 {
			appErr.Details = strings.Join(details, "; ") + "; " + appErr.Details
		}
		return appErr
	}

	appErr = New(code, details...)
	appErr.Cause = err
	if appErr.Details == "" {
		appErr.Details = err.Error()
	}
	return appErr
}

func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// Is reports whether err carries an AppError with the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// GetCode returns the code carried by err, 0 for nil and ErrArgument for
// errors that are not AppErrors.
func GetCode(err error) ErrorCode {
	if err == nil {
		return 0
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrArgument
}

// ExitCode maps a run result to a process exit status.
func ExitCode(err error) int {
	return int(GetCode(err))
}
