package logsource

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lserrors "github.com/DeBrosOfficial/logstream/pkg/errors"
)

func openTailer(t *testing.T, content string) (*Tailer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tailer, err := New(path, nil, nil).Open()
	require.NoError(t, err)
	t.Cleanup(func() { tailer.Close() })
	return tailer, path
}

func appendFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestBacklogLines(t *testing.T) {
	tailer, _ := openTailer(t, "a\nb\n")

	lines, err := tailer.Backlog()
	require.NoError(t, err)
	assert.Equal(t, []string{"a\n", "b\n"}, lines)
	assert.EqualValues(t, 4, tailer.Offset())
}

func TestBacklogEmpty(t *testing.T) {
	tailer, _ := openTailer(t, "")

	lines, err := tailer.Backlog()
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestBacklogHoldsPartialLine(t *testing.T) {
	tailer, path := openTailer(t, "a\npart")

	lines, err := tailer.Backlog()
	require.NoError(t, err)
	assert.Equal(t, []string{"a\n"}, lines)

	_, ok, err := tailer.Next()
	require.NoError(t, err)
	assert.False(t, ok)

	appendFile(t, path, "ial\n")
	line, ok, err := tailer.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "partial\n", line)
}

func TestNextSeesAppends(t *testing.T) {
	tailer, path := openTailer(t, "")
	_, err := tailer.Backlog()
	require.NoError(t, err)

	appendFile(t, path, "one\ntwo\n")
	appendFile(t, path, "three\n")

	var got []string
	for {
		line, ok, err := tailer.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		got = append(got, line)
	}
	assert.Equal(t, []string{"one\n", "two\n", "three\n"}, got)
}

func TestCRLFPreserved(t *testing.T) {
	tailer, _ := openTailer(t, "win\r\nunix\n")

	lines, err := tailer.Backlog()
	require.NoError(t, err)
	assert.Equal(t, []string{"win\r\n", "unix\n"}, lines)
}

func TestLongLine(t *testing.T) {
	long := strings.Repeat("x", 10000) + "\n"
	tailer, _ := openTailer(t, long+"short\n")

	lines, err := tailer.Backlog()
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, long, lines[0])
	assert.Equal(t, "short\n", lines[1])
}

func TestCheckRotationNoChange(t *testing.T) {
	tailer, path := openTailer(t, "a\n")
	_, err := tailer.Backlog()
	require.NoError(t, err)

	appendFile(t, path, "b\n")
	reset, err := tailer.CheckRotation()
	require.NoError(t, err)
	assert.False(t, reset)

	line, ok, err := tailer.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b\n", line)
}

func TestCheckRotationTruncate(t *testing.T) {
	tailer, path := openTailer(t, "first line\nsecond line\n")
	_, err := tailer.Backlog()
	require.NoError(t, err)

	require.NoError(t, os.Truncate(path, 0))
	appendFile(t, path, "new\n")

	reset, err := tailer.CheckRotation()
	require.NoError(t, err)
	assert.True(t, reset)
	assert.Zero(t, tailer.Offset())

	line, ok, err := tailer.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new\n", line)
}

func TestCheckRotationRename(t *testing.T) {
	tailer, path := openTailer(t, "old\n")
	_, err := tailer.Backlog()
	require.NoError(t, err)

	require.NoError(t, os.Rename(path, path+".1"))
	require.NoError(t, os.WriteFile(path, []byte("fresh\n"), 0o644))

	reset, err := tailer.CheckRotation()
	require.NoError(t, err)
	assert.True(t, reset)
	assert.EqualValues(t, 1, tailer.source.OpenHandles())

	line, ok, err := tailer.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "fresh\n", line)
}

func drain(t *testing.T, tailer *Tailer) []string {
	t.Helper()
	var got []string
	for {
		line, ok, err := tailer.Next()
		require.NoError(t, err)
		if !ok {
			return got
		}
		got = append(got, line)
	}
}

func TestCheckRotationRenameKeepsUnreadLines(t *testing.T) {
	tailer, path := openTailer(t, "old\n")
	assert.Equal(t, []string{"old\n"}, drain(t, tailer))

	appendFile(t, path, "last-before-rotate\ntail")
	require.NoError(t, os.Rename(path, path+".1"))
	require.NoError(t, os.WriteFile(path, []byte("new\n"), 0o644))

	reset, err := tailer.CheckRotation()
	require.NoError(t, err)
	assert.True(t, reset)
	assert.Equal(t, []string{"last-before-rotate\n", "tail\n", "new\n"}, drain(t, tailer))
	assert.EqualValues(t, 1, tailer.source.OpenHandles())
}

func TestCheckRotationMissingStalls(t *testing.T) {
	tailer, path := openTailer(t, "a\n")
	_, err := tailer.Backlog()
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	reset, err := tailer.CheckRotation()
	require.NoError(t, err)
	assert.False(t, reset)

	require.NoError(t, os.WriteFile(path, []byte("back\n"), 0o644))
	reset, err = tailer.CheckRotation()
	require.NoError(t, err)
	assert.True(t, reset)

	line, ok, err := tailer.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "back\n", line)
}

func TestClosedTailer(t *testing.T) {
	tailer, _ := openTailer(t, "a\n")
	require.NoError(t, tailer.Close())

	_, _, err := tailer.Next()
	assert.ErrorIs(t, err, lserrors.ErrTailerClosed)

	_, err = tailer.CheckRotation()
	assert.ErrorIs(t, err, lserrors.ErrTailerClosed)
}
