package blobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
)

// GCSBlobstore stores blobs in a Google Cloud Storage bucket.
type GCSBlobstore struct {
	Bucket string
	Prefix string
	Logger zerolog.Logger

	// client overrides the per-call storage client (tests).
	client gcsAPI
}

var _ Blobstore = (*GCSBlobstore)(nil)

// gcsAPI is the object access GCSBlobstore needs from a storage client.
type gcsAPI interface {
	NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error)
	NewWriter(ctx context.Context, bucket, object string) io.WriteCloser
	Close() error
}

type storageClient struct{ c *storage.Client }

func (s storageClient) NewReader(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	r, err := s.c.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s storageClient) NewWriter(ctx context.Context, bucket, object string) io.WriteCloser {
	w := s.c.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = "application/octet-stream"
	return w
}

func (s storageClient) Close() error { return s.c.Close() }

type nopCloseAPI struct{ gcsAPI }

func (nopCloseAPI) Close() error { return nil }

func (j *GCSBlobstore) open(ctx context.Context) (gcsAPI, error) {
	if j.client != nil {
		return nopCloseAPI{j.client}, nil
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS storage client: %w", err)
	}
	return storageClient{c: client}, nil
}

func (j *GCSBlobstore) Get(ctx context.Context, key string) ([]byte, error) {
	objectKey := joinKey(j.Prefix, key)
	gcsURL := "gs://" + j.Bucket + "/" + objectKey

	client, err := j.open(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	startedAt := time.Now()
	r, err := client.NewReader(ctx, j.Bucket, objectKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, gcsURL)
		}
		return nil, fmt.Errorf("opening object from GCS %q: %w", gcsURL, err)
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("downloading from GCS: %w", err)
	}
	j.Logger.Debug().Str("url", gcsURL).Int("bytes", len(b)).Dur("duration", time.Since(startedAt)).Msg("downloaded blob from GCS")
	return b, nil
}

func (j *GCSBlobstore) Put(ctx context.Context, key string, data []byte) error {
	objectKey := joinKey(j.Prefix, key)
	gcsURL := "gs://" + j.Bucket + "/" + objectKey

	client, err := j.open(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	startedAt := time.Now()
	w := client.NewWriter(ctx, j.Bucket, objectKey)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("uploading to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing GCS writer: %w", err)
	}
	j.Logger.Debug().Str("url", gcsURL).Int("bytes", len(data)).Dur("duration", time.Since(startedAt)).Msg("uploaded blob to GCS")
	return nil
}
