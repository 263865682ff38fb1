package stream

import "fmt"

// FrameKind identifies what a Frame carries.
type FrameKind int

const (
	// BacklogLine is a line that was in the file when the session started.
	BacklogLine FrameKind = iota
	// BacklogEnd separates the replayed backlog from live lines. Sent once.
	BacklogEnd
	// Line is a line appended after the backlog was replayed.
	Line
	// Heartbeat keeps idle connections open.
	Heartbeat
	// Error is the last frame of a session that failed. Data holds the cause.
	Error
)

func (k FrameKind) String() string {
	switch k {
	case BacklogLine:
		return "backlog"
	case BacklogEnd:
		return "backlog_end"
	case Line:
		return "line"
	case Heartbeat:
		return "heartbeat"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("FrameKind(%d)", int(k))
	}
}

// Frame is one unit of output of a session.
type Frame struct {
	Kind FrameKind
	// Data is the line with its terminator for BacklogLine and Line, and the
	// error message for Error. Empty otherwise.
	Data string
}

// Text returns the human-readable payload of the frame.
func (f Frame) Text() string {
	if f.Kind == Error {
		return "--- [ERROR] Stream error: " + f.Data + " ---"
	}
	return f.Data
}

// AppendSSE appends the Server-Sent Events encoding of f to dst.
//
// Backlog lines carry no blank-line separator, so the browser delivers the
// whole backlog as one event when the end-of-backlog marker arrives.
func (f Frame) AppendSSE(dst []byte) []byte {
	switch f.Kind {
	case BacklogLine:
		dst = append(dst, "data: "...)
		return append(dst, f.Data...)
	case BacklogEnd:
		return append(dst, '\n')
	case Line:
		dst = append(dst, "data: "...)
		dst = append(dst, f.Data...)
		return append(dst, '\n')
	case Heartbeat:
		return append(dst, ": heartbeat\n\n"...)
	case Error:
		dst = append(dst, "data: "...)
		dst = append(dst, f.Text()...)
		return append(dst, "\n\n"...)
	default:
		return dst
	}
}

// SSE returns the Server-Sent Events encoding of f.
func (f Frame) SSE() []byte {
	return f.AppendSSE(nil)
}
