// Package s3 implements media.StorageProvider against any S3-compatible
// object store via the MinIO client.
package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hookbridge/hookbridge/internal/config"
)

// Provider stores objects in a single S3 bucket.
type Provider struct {
	client *minio.Client
	bucket string
}

// New creates an S3 storage provider from config.
func New(cfg config.S3Config) (*Provider, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &Provider{client: client, bucket: cfg.Bucket}, nil
}

// Put streams data into the bucket. Size -1 lets the client use multipart
// streaming for bodies of unknown length.
func (p *Provider) Put(ctx context.Context, key string, reader io.Reader) error {
	_, err := p.client.PutObject(ctx, p.bucket, key, reader, -1, minio.PutObjectOptions{})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// Open returns a reader for the object at key.
func (p *Provider) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := p.client.GetObject(ctx, p.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	return obj, nil
}

// Delete removes the object at key.
func (p *Provider) Delete(ctx context.Context, key string) error {
	if err := p.client.RemoveObject(ctx, p.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}
