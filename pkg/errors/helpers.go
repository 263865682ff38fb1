package errors

import (
	"context"
	"errors"
)

// IsSetup checks if an error came from creating the log file.
func IsSetup(err error) bool {
	var setupErr *SetupError
	return errors.As(err, &setupErr)
}

// IsOpen checks if an error came from opening the log file.
func IsOpen(err error) bool {
	var openErr *OpenError
	return errors.As(err, &openErr)
}

// IsRead checks if an error came from reading an open log file. A read from
// a closed tailer counts.
func IsRead(err error) bool {
	var readErr *ReadError
	return errors.As(err, &readErr) || errors.Is(err, ErrTailerClosed)
}

// IsCancelled checks if an error means the caller went away.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	if err == nil {
		return CodeOK
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return customErr.Code()
	}

	switch {
	case IsCancelled(err):
		return CodeCancelled
	case errors.Is(err, ErrStreamingUnsupported):
		return CodeUnavailable
	case errors.Is(err, ErrTailerClosed):
		return CodeRead
	default:
		return CodeInternal
	}
}

// GetErrorMessage extracts a human-readable message from an error.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Cause returns the root cause of an error chain.
func Cause(err error) error {
	for {
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		underlying := unwrapper.Unwrap()
		if underlying == nil {
			return err
		}
		err = underlying
	}
}
