package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Uploader stores one media file and returns its public URL. base is the
// scheme://host prefix the caller resolved for this request; backends
// that mint absolute URLs themselves ignore it.
type Uploader interface {
	Upload(ctx context.Context, base, fileName, contentType string, r io.Reader) (string, error)
}

// PublicPathPrefix is where stored uploads are served back.
const PublicPathPrefix = "/uploads/"

// DiskUploader stores files on the local filesystem under a generated
// unique name, mirroring the relay's disk-storage behavior.
type DiskUploader struct {
	Dir string
}

func NewDiskUploader(dir string) (*DiskUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskUploader{Dir: dir}, nil
}

func (d *DiskUploader) Upload(_ context.Context, base, fileName, _ string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeName(fileName))

	f, err := os.Create(filepath.Join(d.Dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to store file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to store file: %w", err)
	}

	return strings.TrimSuffix(base, "/") + PublicPathPrefix + name, nil
}

// sanitizeName keeps the original filename readable while stripping path
// separators and whitespace that would break the public URL.
func sanitizeName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "file"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "?", "_", "#", "_")
	return replacer.Replace(name)
}
