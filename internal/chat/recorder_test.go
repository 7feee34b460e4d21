package chat

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func voiceSpools(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "voice-*"))
	require.NoError(t, err)
	return matches
}

func TestRecorderStopReturnsCapturedChunks(t *testing.T) {
	dir := t.TempDir()
	r := NewRecorder(dir)

	require.NoError(t, r.Start())
	assert.True(t, r.Recording())

	require.NoError(t, r.Append([]byte("chunk-a ")))
	require.NoError(t, r.Append([]byte("chunk-b")))

	blob, name, size, release, err := r.Stop()
	require.NoError(t, err)
	assert.False(t, r.Recording())
	assert.True(t, strings.HasPrefix(name, "voice-"))
	assert.True(t, strings.HasSuffix(name, ".webm"))
	assert.Equal(t, int64(len("chunk-a chunk-b")), size)

	data, err := io.ReadAll(blob)
	require.NoError(t, err)
	assert.Equal(t, "chunk-a chunk-b", string(data))

	release()
	assert.Empty(t, voiceSpools(t, dir), "release must remove the spool")
}

func TestRecorderStartWhileRecording(t *testing.T) {
	r := NewRecorder(t.TempDir())

	require.NoError(t, r.Start())
	require.NoError(t, r.Append([]byte("kept")))

	assert.ErrorIs(t, r.Start(), ErrAlreadyRecording)

	// The original capture is untouched.
	blob, _, size, release, err := r.Stop()
	require.NoError(t, err)
	defer release()
	data, err := io.ReadAll(blob)
	require.NoError(t, err)
	assert.Equal(t, "kept", string(data))
	assert.Equal(t, int64(len("kept")), size)
}

func TestRecorderStopWhenIdle(t *testing.T) {
	r := NewRecorder(t.TempDir())
	_, _, _, _, err := r.Stop()
	assert.ErrorIs(t, err, ErrNotRecording)
	assert.ErrorIs(t, r.Append([]byte("x")), ErrNotRecording)
}

func TestRecorderAbortReleasesSpool(t *testing.T) {
	dir := t.TempDir()
	r := NewRecorder(dir)

	require.NoError(t, r.Start())
	require.NoError(t, r.Append([]byte("partial")))
	require.Len(t, voiceSpools(t, dir), 1)

	r.Abort()
	assert.False(t, r.Recording())
	assert.Empty(t, voiceSpools(t, dir))

	// Abort when idle is a no-op.
	r.Abort()
}
