package pad

import (
	"errors"
	"fmt"
)

// ErrorCode is a machine-readable error category.
type ErrorCode string

const (
	// CodeInvalidTarget marks a configuration error: the element handed to
	// a behavior lacks a transform stack or is otherwise unusable.
	CodeInvalidTarget ErrorCode = "INVALID_TARGET"
	// CodeInvalidInput marks rejected input samples (NaN, infinite, out of range).
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	// CodeElementRemoved marks a bind that was abandoned because its element
	// left the document before geometry became available.
	CodeElementRemoved ErrorCode = "ELEMENT_REMOVED"
	// CodeNotConnected marks a bind on an element that was never appended
	// to the document.
	CodeNotConnected ErrorCode = "NOT_CONNECTED"
	// CodeInvalidConfig marks a configuration file that failed to parse or validate.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// CodeUnsupportedImage marks image data no registered decoder understands.
	CodeUnsupportedImage ErrorCode = "UNSUPPORTED_IMAGE"
	// CodePluginExists marks a second registration under an existing plugin name.
	CodePluginExists ErrorCode = "PLUGIN_EXISTS"
	// CodePluginFailed marks a plugin whose OnLoad or OnUnload returned an error.
	CodePluginFailed ErrorCode = "PLUGIN_FAILED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    ErrorCode // Machine-readable error code
	Message string    // Human-readable message
	Cause   error     // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and formatted message.
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapError creates a new Error wrapping an existing error.
func WrapError(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsCode reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf extracts the error code from an error, if available.
// Returns the empty code if the error is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
