package chat

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/padmamangal/padmamangal-backend/internal/media"
)

// ErrNothingStaged is returned when confirm or open runs with no pending
// attachment.
var ErrNothingStaged = errors.New("no attachment staged")

// StagedAttachment is the single pending attachment held between pick
// and confirm. The spool file is its local preview resource.
type StagedAttachment struct {
	FileName    string
	ContentType string
	Caption     string
	Size        int64

	path string
}

// Composer stages at most one attachment before commit. Picking a new
// file replaces the previous one and releases its spool; cancel releases
// and clears. All calls happen on the session's single thread of control.
type Composer struct {
	dir     string
	pending *StagedAttachment
}

func NewComposer(dir string) *Composer {
	return &Composer{dir: dir}
}

// Stage spools the picked file to disk and makes it the pending
// attachment, replacing (and releasing) any previous one. The message
// kind is classified later, at send time, from the resolved content type.
func (c *Composer) Stage(fileName, declaredType string, r io.Reader) (*StagedAttachment, error) {
	f, err := os.CreateTemp(c.dir, "staged-*")
	if err != nil {
		return nil, fmt.Errorf("failed to stage attachment: %w", err)
	}

	size, err := io.Copy(f, r)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return nil, fmt.Errorf("failed to stage attachment: %w", err)
	}

	// Release the previous spool only after the new one is in place.
	c.release()

	c.pending = &StagedAttachment{
		FileName:    fileName,
		ContentType: media.ResolveContentType(declaredType, fileName),
		Size:        size,
		path:        f.Name(),
	}
	return c.pending, nil
}

// SetCaption updates the pending caption. Trimming happens at send time.
func (c *Composer) SetCaption(caption string) {
	if c.pending != nil {
		c.pending.Caption = caption
	}
}

// Pending returns the staged attachment, or nil.
func (c *Composer) Pending() *StagedAttachment {
	return c.pending
}

// Open returns a reader over the staged bytes for upload. The caller
// closes it; the spool itself stays until Clear or Cancel, so a failed
// upload can be retried without re-picking the file.
func (c *Composer) Open() (io.ReadCloser, error) {
	if c.pending == nil {
		return nil, ErrNothingStaged
	}
	return os.Open(c.pending.path)
}

// Clear drops the pending attachment after a successful send.
func (c *Composer) Clear() {
	c.release()
}

// Cancel discards the staged attachment and releases its spool.
// Subsequent sends require re-picking a file.
func (c *Composer) Cancel() {
	c.release()
}

func (c *Composer) release() {
	if c.pending == nil {
		return
	}
	_ = os.Remove(c.pending.path)
	c.pending = nil
}

// TrimmedCaption returns the caption ready to attach, or "" when it is
// empty after trimming.
func (a *StagedAttachment) TrimmedCaption() string {
	return strings.TrimSpace(a.Caption)
}
