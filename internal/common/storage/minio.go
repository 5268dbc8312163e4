package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	UseSSL    bool   `yaml:"useSSL"`
	Bucket    string `yaml:"bucket"`
}

// MinIOStorage implements ObjectStorage using MinIO S3-compatible APIs.
type MinIOStorage struct {
	client *minio.Client
}

func NewMinIOStorage(cfg MinIOConfig) (*MinIOStorage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" {
		return nil, fmt.Errorf("minio accessKey is required")
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio secretKey is required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client failed: %w", err)
	}
	return &MinIOStorage{client: client}, nil
}

func (s *MinIOStorage) GetObject(ctx context.Context, bucket, objectKey string) (ObjectReader, error) {
	obj, err := s.client.GetObject(ctx, bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("minio get object failed: %w", err)
	}
	return obj, nil
}

func (s *MinIOStorage) PutObject(ctx context.Context, bucket, objectKey string, reader ObjectReader, sizeBytes int64, contentType string) error {
	if reader == nil {
		return fmt.Errorf("reader is required")
	}
	if objectKey == "" {
		return fmt.Errorf("objectKey is required")
	}
	opts := minio.PutObjectOptions{}
	if contentType != "" {
		opts.ContentType = contentType
	}
	_, err := s.client.PutObject(ctx, bucket, objectKey, reader, sizeBytes, opts)
	if err != nil {
		return fmt.Errorf("minio put object failed: %w", err)
	}
	return nil
}

func (s *MinIOStorage) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	if srcKey == "" || dstKey == "" {
		return fmt.Errorf("source and destination keys are required")
	}
	_, err := s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: dstBucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: srcBucket, Object: srcKey},
	)
	if err != nil {
		return fmt.Errorf("minio copy object failed: %w", err)
	}
	return nil
}

func (s *MinIOStorage) RemoveObject(ctx context.Context, bucket, objectKey string) error {
	if err := s.client.RemoveObject(ctx, bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio remove object failed: %w", err)
	}
	return nil
}

func (s *MinIOStorage) StatObject(ctx context.Context, bucket, objectKey string) (ObjectStat, error) {
	info, err := s.client.StatObject(ctx, bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		return ObjectStat{}, fmt.Errorf("minio stat object failed: %w", err)
	}
	return ObjectStat{
		SizeBytes:   info.Size,
		ETag:        info.ETag,
		ContentType: info.ContentType,
	}, nil
}
