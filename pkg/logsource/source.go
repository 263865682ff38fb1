// Package logsource gives stream sessions read access to the tailed log file.
//
// A Source is shared by every session. Each session opens its own Tailer,
// which owns one file handle and one read cursor.
package logsource

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	lserrors "github.com/DeBrosOfficial/logstream/pkg/errors"
	"github.com/DeBrosOfficial/logstream/pkg/logging"
)

// PlaceholderFormat is the single line written into a freshly created log
// file. The argument is a local "YYYY-MM-DD HH:MM:SS" timestamp.
const PlaceholderFormat = "--- [SYSTEM] Waiting for logs at %s ---\n"

const placeholderTimeLayout = "2006-01-02 15:04:05"

// Source is the log file at a fixed absolute path.
type Source struct {
	path   string
	clock  clock.Clock
	logger *logging.ColoredLogger

	open atomic.Int64
}

// New creates a Source for path. A nil clock means the wall clock and a nil
// logger discards output.
func New(path string, clk clock.Clock, logger *logging.ColoredLogger) *Source {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Source{path: path, clock: clk, logger: logger}
}

// Path returns the file path.
func (s *Source) Path() string {
	return s.path
}

// OpenHandles returns the number of Tailers that have not been closed yet.
func (s *Source) OpenHandles() int64 {
	return s.open.Load()
}

// Exists reports whether the file is present. A missing file is not an error;
// any other stat failure is.
func (s *Source) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// EnsureExists creates the parent directories and, when the file is missing,
// the file itself with one placeholder line. An existing file is never
// touched. Failures are logged and returned as *errors.SetupError; callers
// may continue without it.
func (s *Source) EnsureExists() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.ComponentError(logging.ComponentTailer, "Failed to create log directory",
			zap.String("dir", dir), zap.Error(err))
		return lserrors.NewSetupError("create directory", dir, err)
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil
		}
		s.logger.ComponentError(logging.ComponentTailer, "Failed to create log file",
			zap.String("path", s.path), zap.Error(err))
		return lserrors.NewSetupError("create", s.path, err)
	}

	_, werr := fmt.Fprintf(f, PlaceholderFormat, s.clock.Now().Format(placeholderTimeLayout))
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		s.logger.ComponentError(logging.ComponentTailer, "Failed to write placeholder line",
			zap.String("path", s.path), zap.Error(werr))
		return lserrors.NewSetupError("write", s.path, werr)
	}

	s.logger.ComponentInfo(logging.ComponentTailer, "Created log file", zap.String("path", s.path))
	return nil
}

// Open opens the file for reading from the beginning. The returned Tailer
// must be closed.
func (s *Source) Open() (*Tailer, error) {
	f, err := s.openFile()
	if err != nil {
		return nil, err
	}
	s.open.Add(1)
	return newTailer(s, f), nil
}

func (s *Source) openFile() (*os.File, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, lserrors.NewOpenError(s.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, lserrors.NewOpenError(s.path, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, lserrors.NewOpenError(s.path, fmt.Errorf("%s is a directory", s.path))
	}
	return f, nil
}
