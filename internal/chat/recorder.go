package chat

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

var (
	ErrAlreadyRecording = errors.New("voice capture already active")
	ErrNotRecording     = errors.New("no voice capture active")
)

// voiceContentType is the container the captured chunks arrive in.
const voiceContentType = "audio/webm"

// Recorder is the two-state (idle/recording) voice-capture spool. The
// spool file stands in for the capture device handle: it must be
// released on stop, on error, and on teardown, never only on success.
type Recorder struct {
	dir  string
	f    *os.File
	size int64
}

func NewRecorder(dir string) *Recorder {
	return &Recorder{dir: dir}
}

// Recording reports whether a capture is active.
func (r *Recorder) Recording() bool {
	return r.f != nil
}

// Start begins a new capture. Starting while recording is an error; the
// existing capture keeps its chunks.
func (r *Recorder) Start() error {
	if r.f != nil {
		return ErrAlreadyRecording
	}
	f, err := os.CreateTemp(r.dir, "voice-*")
	if err != nil {
		return fmt.Errorf("failed to start voice capture: %w", err)
	}
	r.f = f
	r.size = 0
	return nil
}

// Append adds one captured audio chunk to the spool. On write failure
// the capture is aborted and the spool released.
func (r *Recorder) Append(chunk []byte) error {
	if r.f == nil {
		return ErrNotRecording
	}
	n, err := r.f.Write(chunk)
	r.size += int64(n)
	if err != nil {
		r.Abort()
		return fmt.Errorf("voice capture write failed: %w", err)
	}
	return nil
}

// Stop packages the captured chunks into one blob and returns a reader
// over it plus a generated filename. The returned release func removes
// the spool; callers must invoke it on every path once the blob has been
// consumed (or abandoned).
func (r *Recorder) Stop() (blob io.ReadCloser, fileName string, size int64, release func(), err error) {
	if r.f == nil {
		return nil, "", 0, nil, ErrNotRecording
	}

	f := r.f
	capturedSize := r.size
	r.f = nil
	r.size = 0

	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return nil, "", 0, nil, fmt.Errorf("failed to finish voice capture: %w", err)
	}

	blobFile, err := os.Open(f.Name())
	if err != nil {
		_ = os.Remove(f.Name())
		return nil, "", 0, nil, fmt.Errorf("failed to read voice capture: %w", err)
	}

	name := fmt.Sprintf("voice-%d.webm", time.Now().UnixMilli())
	release = func() {
		_ = blobFile.Close()
		_ = os.Remove(f.Name())
	}
	return blobFile, name, capturedSize, release, nil
}

// Abort discards the active capture and releases the spool. Safe to call
// when idle; called on error and on session teardown.
func (r *Recorder) Abort() {
	if r.f == nil {
		return
	}
	name := r.f.Name()
	_ = r.f.Close()
	_ = os.Remove(name)
	r.f = nil
	r.size = 0
}
