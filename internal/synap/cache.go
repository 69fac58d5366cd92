package synap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"synapd/internal/common/fsutil"
)

// CacheSuffix is appended to the caller's base path to name the cache file.
const CacheSuffix = ".ebg"

// RemoteCache is an optional second tier behind the local cache file.
// Any Get error is treated as a miss.
type RemoteCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// CachePath maps a logical base path to its cache file path.
func CachePath(base string) (string, error) {
	if base == "" {
		return "", ErrEmptyCachePath
	}
	return base + CacheSuffix, nil
}

// cacheKey is the object key used for the remote tier.
func cacheKey(path string) string { return filepath.Base(path) }

func readArtifact(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCacheUnavailable, path, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCacheEmpty, path)
	}
	return b, nil
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating cache dir: %w", err)
		}
	}
	return fsutil.WriteFileAtomic(path, data, 0o644)
}
