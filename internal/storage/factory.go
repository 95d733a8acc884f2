package storage

import (
	"context"
	"fmt"
	"strings"
)

// Backend identifies an object storage implementation.
type Backend string

const (
	BackendGCS Backend = "gcs"
	BackendS3  Backend = "s3"
)

// Config selects and configures an object storage backend.
type Config struct {
	Backend Backend
	Bucket  string

	GCS GCSConfig
	S3  S3Options
}

// New creates an ObjectStorage instance based on the configuration.
// Parameters:
//   - ctx: context for client construction.
//   - cfg: backend selection and backend-specific settings.
// Returns:
//   - ObjectStorage: initialized storage client implementation.
//   - error: non-nil if the backend is unknown or the client cannot be created.
func New(ctx context.Context, cfg *Config) (ObjectStorage, error) {
	switch Backend(strings.ToLower(string(cfg.Backend))) {
	case BackendGCS, "":
		gcsCfg := cfg.GCS
		if gcsCfg.Bucket == "" {
			gcsCfg.Bucket = cfg.Bucket
		}
		return NewGCSStorage(ctx, &gcsCfg)
	case BackendS3:
		s3Opts := cfg.S3
		if s3Opts.Bucket == "" {
			s3Opts.Bucket = cfg.Bucket
		}
		return NewS3Storage(&s3Opts)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}
