// Package errors provides DfmError, the coded error type returned by every
// dfm package. Codes are stable strings so tests and the JSON renderer can
// match on them instead of on message text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Profile config
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Listing the source tree
	ErrEnumeration ErrorCode = "ENUMERATION"

	// A destination holds real data
	ErrObstruction ErrorCode = "OBSTRUCTION"

	// Filesystem mutations
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileRemove    ErrorCode = "FILE_REMOVE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
)

// DfmError carries a code, a message, optional structured details and the
// underlying cause.
type DfmError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func build(code ErrorCode, message string, cause error) *DfmError {
	return &DfmError{
		Code:    code,
		Message: message,
		Details: map[string]interface{}{},
		Wrapped: cause,
	}
}

// New returns a DfmError without a cause.
func New(code ErrorCode, message string) *DfmError {
	return build(code, message, nil)
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *DfmError {
	return build(code, fmt.Sprintf(format, args...), nil)
}

// Wrap attaches code and message to err. It returns nil for a nil err, so
// callers check err first to avoid a typed nil in an error interface.
func Wrap(err error, code ErrorCode, message string) *DfmError {
	if err == nil {
		return nil
	}
	return build(code, message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DfmError {
	if err == nil {
		return nil
	}
	return build(code, fmt.Sprintf(format, args...), err)
}

func (e *DfmError) Error() string {
	if e.Wrapped == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
}

func (e *DfmError) Unwrap() error { return e.Wrapped }

// Is reports whether target is a DfmError with the same code, which makes
// errors.Is(err, errors.New(code, "")) a code match.
func (e *DfmError) Is(target error) bool {
	var other *DfmError
	return errors.As(target, &other) && other.Code == e.Code
}

// WithDetail records one detail and returns e for chaining.
func (e *DfmError) WithDetail(key string, value interface{}) *DfmError {
	return e.WithDetails(map[string]interface{}{key: value})
}

// WithDetails merges details into e.
func (e *DfmError) WithDetails(details map[string]interface{}) *DfmError {
	if e.Details == nil {
		e.Details = make(map[string]interface{}, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

func asDfm(err error) (*DfmError, bool) {
	var de *DfmError
	ok := errors.As(err, &de)
	return de, ok
}

// IsErrorCode reports whether err, or anything it wraps, is a DfmError with
// the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	de, ok := asDfm(err)
	return ok && de.Code == code
}

// GetErrorCode returns the outermost DfmError code in err, or ErrUnknown.
func GetErrorCode(err error) ErrorCode {
	if de, ok := asDfm(err); ok {
		return de.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details of the outermost DfmError in err.
func GetErrorDetails(err error) map[string]interface{} {
	if de, ok := asDfm(err); ok {
		return de.Details
	}
	return nil
}
