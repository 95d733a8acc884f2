// Package storage abstracts the object store used for run uploads. Clients
// never upload through the API server; they receive time-boxed signed PUT
// URLs and write bytes directly to the bucket.
package storage

import (
	"context"
	"time"
)

// ObjectStorage defines the object-store operations the run workflow needs.
type ObjectStorage interface {
	// SignUpload returns a signed URL authorizing one PUT of the object at
	// key within the expiry window. contentType constrains the upload when
	// non-empty. Each call is an independent signing operation.
	SignUpload(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)

	// StorageURI returns the bucket-scheme address of an object,
	// e.g. gs://bucket/key or s3://bucket/key.
	StorageURI(key string) string

	// Bucket returns the configured upload bucket name.
	Bucket() string
}
