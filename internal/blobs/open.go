package blobs

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// Open returns the Blobstore for a location:
//
//	gs://bucket[/prefix]
//	s3://bucket[/prefix][?region=eu-west-1]
//	file:///dir or a plain directory path
func Open(ctx context.Context, location string, logger zerolog.Logger) (Blobstore, error) {
	if location == "" {
		return nil, fmt.Errorf("empty blobstore location")
	}
	if !strings.Contains(location, "://") {
		return &DirBlobstore{Dir: location}, nil
	}
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("parsing blobstore location %q: %w", location, err)
	}
	prefix := strings.Trim(u.Path, "/")
	switch u.Scheme {
	case "file":
		if u.Path == "" {
			return nil, fmt.Errorf("file location %q has no path", location)
		}
		return &DirBlobstore{Dir: u.Path}, nil
	case "gs":
		if u.Host == "" {
			return nil, fmt.Errorf("gs location %q has no bucket", location)
		}
		return &GCSBlobstore{Bucket: u.Host, Prefix: prefix, Logger: logger}, nil
	case "s3":
		if u.Host == "" {
			return nil, fmt.Errorf("s3 location %q has no bucket", location)
		}
		s, err := NewS3Blobstore(ctx, u.Host, prefix, u.Query().Get("region"))
		if err != nil {
			return nil, err
		}
		s.Logger = logger
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported blobstore scheme %q", u.Scheme)
	}
}
