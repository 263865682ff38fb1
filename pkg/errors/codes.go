package errors

// Error codes for categorizing errors.
const (
	// CodeOK indicates success (not an error).
	CodeOK = "OK"

	// CodeCancelled indicates the operation was cancelled, usually because the
	// client went away.
	CodeCancelled = "CANCELLED"

	// CodeInternal indicates internal errors.
	CodeInternal = "INTERNAL"

	// CodeSetup indicates the log file or its directory could not be created.
	CodeSetup = "SETUP_ERROR"

	// CodeOpen indicates the log file could not be opened for reading.
	CodeOpen = "OPEN_ERROR"

	// CodeRead indicates reading from an open log file failed.
	CodeRead = "READ_ERROR"

	// CodeConfig indicates a configuration error.
	CodeConfig = "CONFIG_ERROR"

	// CodeUnavailable indicates a capability the request needs is missing,
	// for example a response writer that cannot flush.
	CodeUnavailable = "UNAVAILABLE"
)

// ErrorCategory represents a high-level error category.
type ErrorCategory string

const (
	// CategoryClient indicates a client-side condition.
	CategoryClient ErrorCategory = "CLIENT_ERROR"

	// CategoryServer indicates a server-side error (5xx).
	CategoryServer ErrorCategory = "SERVER_ERROR"

	// CategoryIO indicates a filesystem error.
	CategoryIO ErrorCategory = "IO_ERROR"
)

// GetCategory returns the category for an error code.
func GetCategory(code string) ErrorCategory {
	switch code {
	case CodeCancelled:
		return CategoryClient
	case CodeSetup, CodeOpen, CodeRead:
		return CategoryIO
	default:
		return CategoryServer
	}
}

// IsRetryable reports whether a new connection may succeed where this one
// failed. Setup and open errors are retried on every new stream connection.
func IsRetryable(code string) bool {
	switch code {
	case CodeSetup, CodeOpen, CodeUnavailable:
		return true
	default:
		return false
	}
}
