package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Common sentinel errors for quick checks
var (
	// ErrStreamingUnsupported is returned when a response writer cannot flush.
	ErrStreamingUnsupported = errors.New("streaming unsupported")

	// ErrTailerClosed is returned when reading from a closed tailer.
	ErrTailerClosed = errors.New("tailer closed")
)

// Error is the base interface for all custom errors in the service.
type Error interface {
	error
	// Code returns the error code
	Code() string
	// Message returns the human-readable error message
	Message() string
	// Unwrap returns the underlying cause
	Unwrap() error
}

// BaseError provides a foundation for all typed errors.
type BaseError struct {
	code    string
	message string
	cause   error
	stack   []uintptr
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error code.
func (e *BaseError) Code() string {
	return e.code
}

// Message returns the error message.
func (e *BaseError) Message() string {
	return e.message
}

// Unwrap returns the underlying cause.
func (e *BaseError) Unwrap() error {
	return e.cause
}

// Stack returns the captured stack trace.
func (e *BaseError) Stack() []uintptr {
	return e.stack
}

func captureStack(skip int) []uintptr {
	const maxDepth = 32
	stack := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, stack)
	return stack[:n]
}

// StackTrace returns a formatted stack trace string.
func (e *BaseError) StackTrace() string {
	if len(e.stack) == 0 {
		return ""
	}

	var buf strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			fmt.Fprintf(&buf, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		}
		if !more {
			break
		}
	}
	return buf.String()
}

// FileError is the shared shape of log file failures.
type FileError struct {
	*BaseError
	Path string
	Op   string
}

func newFileError(code, op, path string, cause error) *FileError {
	return &FileError{
		BaseError: &BaseError{
			code:    code,
			message: fmt.Sprintf("%s %s", op, path),
			cause:   cause,
			stack:   captureStack(2),
		},
		Path: path,
		Op:   op,
	}
}

// SetupError reports a failure to create the log file or its directory.
type SetupError struct{ *FileError }

// NewSetupError creates a new setup error.
func NewSetupError(op, path string, cause error) *SetupError {
	return &SetupError{newFileError(CodeSetup, op, path, cause)}
}

// OpenError reports a failure to open the log file for tailing.
type OpenError struct{ *FileError }

// NewOpenError creates a new open error.
func NewOpenError(path string, cause error) *OpenError {
	return &OpenError{newFileError(CodeOpen, "open", path, cause)}
}

// ReadError reports an I/O failure on an already open log file.
type ReadError struct{ *FileError }

// NewReadError creates a new read error.
func NewReadError(op, path string, cause error) *ReadError {
	return &ReadError{newFileError(CodeRead, op, path, cause)}
}

// ConfigError represents an invalid configuration.
type ConfigError struct {
	*BaseError
	Problems []error
}

// NewConfigError creates a configuration error aggregating problems.
func NewConfigError(problems []error) *ConfigError {
	msgs := make([]string, 0, len(problems))
	for _, p := range problems {
		msgs = append(msgs, p.Error())
	}
	return &ConfigError{
		BaseError: &BaseError{
			code:    CodeConfig,
			message: "invalid configuration: " + strings.Join(msgs, "; "),
			stack:   captureStack(1),
		},
		Problems: problems,
	}
}

// InternalError represents an internal server error.
type InternalError struct {
	*BaseError
	Operation string
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *InternalError {
	if message == "" {
		message = "internal error"
	}
	return &InternalError{
		BaseError: &BaseError{
			code:    CodeInternal,
			message: message,
			cause:   cause,
			stack:   captureStack(1),
		},
	}
}

// WithOperation sets the operation context.
func (e *InternalError) WithOperation(op string) *InternalError {
	e.Operation = op
	return e
}

// Wrap wraps an error with additional context.
// If the error is already one of our custom types, the code is preserved.
// Otherwise it becomes an InternalError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	var e Error
	if errors.As(err, &e) {
		return &BaseError{
			code:    e.Code(),
			message: message,
			cause:   err,
			stack:   captureStack(1),
		}
	}

	return &InternalError{
		BaseError: &BaseError{
			code:    CodeInternal,
			message: message,
			cause:   err,
			stack:   captureStack(1),
		},
	}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
