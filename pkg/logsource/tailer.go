package logsource

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"

	"go.uber.org/zap"

	lserrors "github.com/DeBrosOfficial/logstream/pkg/errors"
	"github.com/DeBrosOfficial/logstream/pkg/logging"
)

// Tailer is a forward-only read cursor over the log file. Lines are split on
// '\n' and returned with the terminator. A trailing fragment without '\n' is
// held back until the rest of the line arrives.
//
// A Tailer is not safe for concurrent use; Close may be called from any
// goroutine and more than once.
type Tailer struct {
	source *Source

	mu     sync.Mutex
	file   *os.File
	reader *bufio.Reader
	closed bool

	offset  int64
	pending []byte
	// carry holds lines left in a replaced file; they are returned before
	// anything from its successor.
	carry []string
}

func newTailer(s *Source, f *os.File) *Tailer {
	return &Tailer{
		source: s,
		file:   f,
		reader: bufio.NewReader(f),
	}
}

// Offset returns the number of bytes consumed from the current file,
// including any held fragment.
func (t *Tailer) Offset() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.offset
}

// Backlog returns every complete line currently in the file.
func (t *Tailer) Backlog() ([]string, error) {
	var lines []string
	for {
		line, ok, err := t.Next()
		if err != nil {
			return lines, err
		}
		if !ok {
			return lines, nil
		}
		lines = append(lines, line)
	}
}

// Next returns the next complete line without blocking. ok is false when no
// complete line is available yet.
func (t *Tailer) Next() (line string, ok bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return "", false, lserrors.ErrTailerClosed
	}
	if len(t.carry) > 0 {
		line = t.carry[0]
		t.carry = t.carry[1:]
		return line, true, nil
	}
	return t.readLine()
}

func (t *Tailer) readLine() (line string, ok bool, err error) {
	for {
		chunk, err := t.reader.ReadSlice('\n')
		t.offset += int64(len(chunk))

		switch {
		case err == nil:
			if len(t.pending) > 0 {
				line = string(t.pending) + string(chunk)
				t.pending = t.pending[:0]
			} else {
				line = string(chunk)
			}
			return line, true, nil
		case errors.Is(err, bufio.ErrBufferFull):
			// Line longer than the buffer; keep collecting.
			t.pending = append(t.pending, chunk...)
		case errors.Is(err, io.EOF):
			t.pending = append(t.pending, chunk...)
			return "", false, nil
		default:
			return "", false, lserrors.NewReadError("read", t.source.path, err)
		}
	}
}

// CheckRotation detects that the file was truncated or replaced since the
// cursor last advanced and resets the cursor to the start of the current
// file. It returns true when the cursor was reset. Lines still unread in a
// replaced file are returned by Next before the new file's lines; a final
// fragment without '\n' is completed with one. A missing path leaves the
// cursor alone until the file reappears.
func (t *Tailer) CheckRotation() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return false, lserrors.ErrTailerClosed
	}

	path := t.source.path
	onDisk, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, lserrors.NewReadError("stat", path, err)
	}

	current, err := t.file.Stat()
	if err != nil {
		return false, lserrors.NewReadError("stat", path, err)
	}

	if !os.SameFile(onDisk, current) {
		f, err := t.source.openFile()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return false, nil
			}
			return false, lserrors.Wrapf(err, "reopen rotated %s", path)
		}
		if err := t.drain(); err != nil {
			f.Close()
			return false, err
		}
		t.file.Close()
		t.file = f
		t.reset()
		t.source.logger.ComponentInfo(logging.ComponentTailer, "Log file replaced, reopened",
			zap.String("path", path))
		return true, nil
	}

	if current.Size() < t.offset {
		if _, err := t.file.Seek(0, io.SeekStart); err != nil {
			return false, lserrors.NewReadError("seek", path, err)
		}
		t.source.logger.ComponentInfo(logging.ComponentTailer, "Log file truncated, rewinding",
			zap.String("path", path),
			zap.Int64("offset", t.offset),
			zap.Int64("size", current.Size()))
		t.reset()
		return true, nil
	}

	return false, nil
}

// drain moves the rest of the current file into carry.
func (t *Tailer) drain() error {
	for {
		line, ok, err := t.readLine()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		t.carry = append(t.carry, line)
	}
	if len(t.pending) > 0 {
		t.carry = append(t.carry, string(t.pending)+"\n")
		t.pending = t.pending[:0]
	}
	return nil
}

func (t *Tailer) reset() {
	t.reader.Reset(t.file)
	t.offset = 0
	t.pending = t.pending[:0]
}

// Close releases the file handle.
func (t *Tailer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	t.source.open.Add(-1)
	return t.file.Close()
}
