package storage

import "context"

// ObjectStorage defines minimal object storage operations required by the
// solution payload and task snapshot flows. It is intentionally small so we
// can swap MinIO/AWS-S3 implementations without touching business logic.
type ObjectStorage interface {
	// GetObject opens a reader for an object.
	// Caller must close the returned reader.
	GetObject(ctx context.Context, bucket, objectKey string) (ObjectReader, error)

	// PutObject writes an object from the reader.
	PutObject(ctx context.Context, bucket, objectKey string, reader ObjectReader, sizeBytes int64, contentType string) error

	// CopyObject copies an object server-side within the storage backend.
	// Used to freeze payloads into immutable task snapshots.
	CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error

	// RemoveObject deletes an object.
	RemoveObject(ctx context.Context, bucket, objectKey string) error

	// StatObject returns size and ETag for an object.
	StatObject(ctx context.Context, bucket, objectKey string) (ObjectStat, error)
}

// ObjectReader is a streaming reader for object data.
type ObjectReader interface {
	Read(p []byte) (int, error)
	Close() error
}

// ObjectStat contains object metadata used for validation.
type ObjectStat struct {
	SizeBytes   int64
	ETag        string
	ContentType string
}
