package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var _ Store = (*Disk)(nil)

// Disk stores uploads on the local filesystem. Files are served under
// /uploads/ by the HTTP layer. No retention policy: nothing is ever
// cleaned up.
type Disk struct {
	dir string
}

// NewDisk creates the uploads directory if needed.
func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{dir: dir}, nil
}

// Dir exposes the storage directory for static file serving.
func (d *Disk) Dir() string { return d.dir }

func (d *Disk) Save(ctx context.Context, name, contentType string, r io.Reader) error {
	path := filepath.Join(d.dir, filepath.Base(name))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close upload: %w", err)
	}
	return nil
}

func (d *Disk) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(d.dir, filepath.Base(name)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

func (d *Disk) URL(ctx context.Context, name string) (string, error) {
	return "/uploads/" + filepath.Base(name), nil
}
