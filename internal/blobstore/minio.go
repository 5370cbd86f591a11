package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioOptions configures the S3-compatible backend
type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioBackend stores blobs as objects in one bucket
type MinioBackend struct {
	client *minio.Client
	bucket string
}

// NewMinioBackend creates the client. No request is made until EnsureBucket
// or the first blob operation.
func NewMinioBackend(opts MinioOptions) (*MinioBackend, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioBackend{client: client, bucket: opts.Bucket}, nil
}

// EnsureBucket creates the bucket when it does not exist yet
func (b *MinioBackend) EnsureBucket(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", b.bucket, err)
	}
	if exists {
		return nil
	}
	if err := b.client.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", b.bucket, err)
	}
	return nil
}

func (b *MinioBackend) Name() string { return "minio" }

func (b *MinioBackend) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := b.client.PutObject(ctx, b.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("minio put %s: %w", key, err)
	}
	return nil
}

func (b *MinioBackend) Get(ctx context.Context, key string) (*Blob, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, b.translate(key, err)
	}
	defer func() { _ = obj.Close() }()

	info, err := obj.Stat()
	if err != nil {
		return nil, b.translate(key, err)
	}
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, b.translate(key, err)
	}
	return &Blob{Key: key, ContentType: info.ContentType, Data: data}, nil
}

func (b *MinioBackend) Delete(ctx context.Context, key string) error {
	if err := b.client.RemoveObject(ctx, b.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return b.translate(key, err)
	}
	return nil
}

func (b *MinioBackend) translate(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrNotFound
	}
	return fmt.Errorf("minio %s: %w", key, err)
}
