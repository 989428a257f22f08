// Package errors provides structured error handling for recycler pools.
//
// Pool operations report problems through *Error values carrying an ErrorType
// so callers can branch on the category (a contract violation on Return is
// handled very differently from a bad configuration file).
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents internal invariant failures
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeNotFound represents unknown pool names or kinds
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeConflict represents duplicate registrations
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContract represents caller contract violations such as
	// returning the same instance twice or returning a foreign value
	ErrorTypeContract ErrorType = "contract"
	// ErrorTypeConstruction represents a policy that failed to build an instance
	ErrorTypeConstruction ErrorType = "construction"
	// ErrorTypeFile represents file operation errors
	ErrorTypeFile ErrorType = "file"
	// ErrorTypeData represents data processing errors
	ErrorTypeData ErrorType = "data"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf is New with a format string.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the outermost structured error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// IsContractViolation reports whether err is a caller contract violation
// raised by a pool.
func IsContractViolation(err error) bool {
	return IsType(err, ErrorTypeContract)
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
