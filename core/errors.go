package core

import (
	"errors"
	"fmt"
	"os"
)

// General error codes
const (
	NOERROR     int = 0
	EMISSING    int = 122 // resource does not exist
	EINVALID    int = 123 // validation failed, e.g. a font with a bad magic number
	ECONNECTION int = 124 // remote resource not connected
	EINTERNAL   int = 125 // internal error
	ERANGE      int = 126 // read or seek beyond the end of the data
	EFORMAT     int = 127 // table variant or sub-format not supported
	ENOTIMPL    int = 128 // feature recognized, but not implemented
)

func errorText(ecode int) string {
	switch ecode {
	case NOERROR:
		return "OK"
	case EMISSING:
		return "not found"
	case EINVALID:
		return "invalid"
	case ECONNECTION:
		return "transmission-error"
	case EINTERNAL:
		return "internal error"
	case ERANGE:
		return "out of range"
	case EFORMAT:
		return "unsupported format"
	case ENOTIMPL:
		return "not implemented"
	}
	return "undefined error"
}

// Sentinel errors for use with errors.Is. Every error created by this package
// matches the sentinel carrying the same error code:
//
//	err := core.Error(core.ERANGE, "glyf table truncated")
//	errors.Is(err, core.ErrOutOfRange)  // => true
var (
	ErrOutOfRange        error = errorKind(ERANGE)
	ErrInvalidFont       error = errorKind(EINVALID)
	ErrUnsupportedFormat error = errorKind(EFORMAT)
	ErrNotImplemented    error = errorKind(ENOTIMPL)
	ErrMissing           error = errorKind(EMISSING)
)

type errorKind int

func (k errorKind) Error() string {
	return errorText(int(k))
}

// AppError is an error with an associated error code and a user-message.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type coreError struct {
	error
	code int
	msg  string
}

func (e coreError) Unwrap() error {
	return e.error
}

func (e coreError) Error() string {
	if e.msg != "" && e.msg != errorText(e.code) {
		return fmt.Sprintf("[%d] %s: %v", e.code, e.msg, e.error)
	}
	return fmt.Sprintf("[%d] %v", e.code, e.error)
}

func (e coreError) ErrorCode() int {
	return e.code
}

func (e coreError) UserMessage() string {
	return e.msg
}

// Is lets errors.Is match an error against one of the sentinel errors.
func (e coreError) Is(target error) bool {
	if k, ok := target.(errorKind); ok {
		return int(k) == e.code
	}
	return false
}

var _ AppError = coreError{}

// ErrorWithCode adds an error code to err's error chain.
// Unlike pkg/errors, ErrorWithCode will wrap nil error.
func ErrorWithCode(err error, code int) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return coreError{err, code, errorText(code)}
}

// WrapError wraps an error in a core error, featuring an error code and
// a user message.
// If err is nil, an error denoting NOERROR is returned.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	msg := fmt.Sprintf(format, v...)
	return coreError{err, code, msg}
}

// Code returns the status code associated with an error.
// If no status code is found, it returns EINTERNAL.
// If err is nil, NOERROR is returned.
func Code(err error) (code int) {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// UserMessage returns the user message associated with an error.
// If no message is found, it checks StatusCode and returns that message.
// If err is nil, it returns "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.UserMessage()
	}
	return errorText(Code(err))
}

// Error creates an error with an error code and a user-message.
func Error(code int, format string, v ...interface{}) error {
	return coreError{
		errors.New(errorText(code)),
		code,
		fmt.Sprintf(format, v...),
	}
}

// UserError prints an error to stderr, preferring the user message
// of an AppError.
func UserError(err error) {
	if e := AppError(nil); errors.As(err, &e) {
		fmt.Fprintf(os.Stderr, "[%d] %s\n", e.ErrorCode(), e.UserMessage())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
}
