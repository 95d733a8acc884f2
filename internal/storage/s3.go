package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage implements ObjectStorage for S3-compatible services (AWS S3,
// MinIO, R2). Upload URLs are presigned PUTs scoped to the object key.
type S3Storage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

// S3Options holds configuration for S3-compatible storage.
type S3Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
}

// NewS3Storage creates a new S3-compatible storage backend.
// Parameters:
//   - opts: endpoint, credentials, and bucket configuration.
// Returns:
//   - *S3Storage: initialized storage backend.
//   - error: non-nil if the AWS config cannot be loaded.
func NewS3Storage(opts *S3Options) (*S3Storage, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket must not be empty")
	}

	endpoint := normalizeEndpoint(opts.Endpoint)

	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	scheme := "http"
	if opts.UseSSL {
		scheme = "https"
	}
	endpointURL := fmt.Sprintf("%s://%s", scheme, endpoint)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("s3: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpointURL)
		}
		// Path-style addressing for S3-compatible services
		o.UsePathStyle = true
	})

	return &S3Storage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    opts.Bucket,
	}, nil
}

// normalizeEndpoint removes protocol prefix and path from endpoint
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	if idx := strings.Index(endpoint, "/"); idx != -1 {
		endpoint = endpoint[:idx]
	}

	return strings.TrimSuffix(endpoint, "/")
}

// SignUpload returns a presigned PUT URL for the object at key.
// Parameters:
//   - ctx: context for the presign call.
//   - key: object path within the bucket.
//   - contentType: required Content-Type of the upload; empty means unconstrained.
//   - expiry: validity window measured from now.
// Returns:
//   - string: presigned URL.
//   - error: non-nil if presigning fails.
func (s *S3Storage) SignUpload(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	req, err := s.presigner.PresignPutObject(ctx, input, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("s3: failed to presign upload URL for %q: %w", key, err)
	}
	return req.URL, nil
}

// StorageURI returns the s3:// address of an object.
func (s *S3Storage) StorageURI(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}

// Bucket returns the configured upload bucket name.
func (s *S3Storage) Bucket() string {
	return s.bucket
}
