package blobs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"synapd/internal/common/fsutil"
)

// DirBlobstore keeps blobs as files under Dir, typically a shared mount.
type DirBlobstore struct {
	Dir string
}

var _ Blobstore = (*DirBlobstore)(nil)

func (d *DirBlobstore) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(d.Dir, key), nil
}

func (d *DirBlobstore) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := d.path(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, fmt.Errorf("reading blob %s: %w", p, err)
	}
	return b, nil
}

func (d *DirBlobstore) Put(ctx context.Context, key string, data []byte) error {
	p, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("creating blob dir: %w", err)
	}
	return fsutil.WriteFileAtomic(p, data, 0o644)
}
