package blobs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// s3API is the subset of the S3 client used here.
type s3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Blobstore stores blobs in an S3 bucket.
type S3Blobstore struct {
	Bucket string
	Prefix string
	Logger zerolog.Logger
	client s3API
}

var _ Blobstore = (*S3Blobstore)(nil)

// NewS3Blobstore loads the default AWS config chain (env, shared config,
// IMDS). A non-empty region overrides the chain's region.
func NewS3Blobstore(ctx context.Context, bucket, prefix, region string) (*S3Blobstore, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &S3Blobstore{Bucket: bucket, Prefix: prefix, client: s3.NewFromConfig(cfg)}, nil
}

func (s *S3Blobstore) Get(ctx context.Context, key string) ([]byte, error) {
	objectKey := joinKey(s.Prefix, key)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var nsk *s3types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrNotFound, s.Bucket, objectKey)
		}
		return nil, fmt.Errorf("getting s3://%s/%s: %w", s.Bucket, objectKey, err)
	}
	defer out.Body.Close()
	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("reading s3://%s/%s: %w", s.Bucket, objectKey, err)
	}
	s.Logger.Debug().Str("bucket", s.Bucket).Str("key", objectKey).Int("bytes", len(b)).Msg("downloaded blob from S3")
	return b, nil
}

func (s *S3Blobstore) Put(ctx context.Context, key string, data []byte) error {
	objectKey := joinKey(s.Prefix, key)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/octet-stream"),
	})
	if err != nil {
		return fmt.Errorf("putting s3://%s/%s: %w", s.Bucket, objectKey, err)
	}
	s.Logger.Debug().Str("bucket", s.Bucket).Str("key", objectKey).Int("bytes", len(data)).Msg("uploaded blob to S3")
	return nil
}
