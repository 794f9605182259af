package deploy

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/vvka-141/dvload/internal/config"
)

// ObjectUploader abstracts the object store holding versioned load
// definitions. Implementations must be safe for concurrent use.
type ObjectUploader interface {
	// Exists reports whether any object is stored under the given prefix.
	Exists(ctx context.Context, prefix string) (bool, error)

	// Upload stores one object.
	Upload(ctx context.Context, objectName string, data []byte, contentType string) error
}

// NewMinIOClient creates a MinIO client from the deploy configuration.
func NewMinIOClient(cfg config.DeployConfig) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("deploy endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("deploy bucket is required")
	}

	opts := &minio.Options{
		Secure: cfg.UseSSL,
	}
	if cfg.AccessKey != "" {
		opts.Creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	} else {
		opts.Creds = credentials.NewEnvMinio()
	}

	return minio.New(cfg.Endpoint, opts)
}

// MinIOUploader implements ObjectUploader against a MinIO/S3 bucket.
type MinIOUploader struct {
	client *minio.Client
	bucket string
}

// NewMinIOUploader creates an uploader for the given bucket.
// Panics if client is nil.
func NewMinIOUploader(client *minio.Client, bucket string) *MinIOUploader {
	if client == nil {
		panic("client cannot be nil")
	}
	return &MinIOUploader{client: client, bucket: bucket}
}

// Exists reports whether any object is stored under prefix.
func (u *MinIOUploader) Exists(ctx context.Context, prefix string) (bool, error) {
	objects := u.client.ListObjects(ctx, u.bucket, minio.ListObjectsOptions{
		Prefix:  prefix,
		MaxKeys: 1,
	})

	for obj := range objects {
		if obj.Err != nil {
			return false, fmt.Errorf("failed to list %q: %w", prefix, obj.Err)
		}
		return true, nil
	}
	return false, nil
}

// Upload stores one object in the bucket.
func (u *MinIOUploader) Upload(ctx context.Context, objectName string, data []byte, contentType string) error {
	_, err := u.client.PutObject(ctx, u.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload %q: %w", objectName, err)
	}
	return nil
}

// Verify MinIOUploader implements ObjectUploader at compile time
var _ ObjectUploader = (*MinIOUploader)(nil)
