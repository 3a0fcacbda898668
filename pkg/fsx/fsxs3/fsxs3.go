package fsxs3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/Abraxas-365/hireform/pkg/fsx"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// API is the subset of *s3.Client used by S3FileSystem
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3FileSystem implements fsx.FileSystem on one bucket under a key prefix
type S3FileSystem struct {
	client API
	bucket string
	prefix string
}

var _ fsx.FileSystem = (*S3FileSystem)(nil)

// NewS3FileSystem creates a filesystem over bucket. Every key is placed under prefix.
func NewS3FileSystem(client API, bucket, prefix string) *S3FileSystem {
	return &S3FileSystem{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (s *S3FileSystem) Join(elem ...string) string {
	return path.Join(elem...)
}

func (s *S3FileSystem) key(name string) string {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

func (s *S3FileSystem) WriteFile(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(name)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType(name)),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, s.key(name), err)
	}
	return nil
}

// WriteFileStream buffers r so the upload carries a content length
func (s *S3FileSystem) WriteFileStream(ctx context.Context, name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read upload for %s: %w", name, err)
	}
	return s.WriteFile(ctx, name, data)
}

func contentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
