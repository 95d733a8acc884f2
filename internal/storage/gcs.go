package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"

	credentials "cloud.google.com/go/iam/credentials/apiv1"
	"cloud.google.com/go/iam/credentials/apiv1/credentialspb"
	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage implements ObjectStorage backed by Google Cloud Storage.
//
// Upload URLs are V4-signed through the IAM Credentials SignBlob API using a
// configured signing service account. The server's ambient credentials only
// need roles/iam.serviceAccountTokenCreator on that account; no private key
// file is deployed or rotated.
type GCSStorage struct {
	client    *gcs.Client
	iamClient *credentials.IamCredentialsClient
	bucket    string
	signerSA  string
}

// GCSConfig holds configuration for the GCS backend.
type GCSConfig struct {
	Bucket string

	// Project is the quota/billing project for API calls; empty uses the
	// client default.
	Project string

	// SigningServiceAccount is the service account email whose identity
	// signs upload URLs.
	SigningServiceAccount string
}

// NewGCSStorage creates a GCS-backed ObjectStorage. opts are passed through
// to the underlying clients, allowing credential injection in tests.
// Parameters:
//   - ctx: context for client construction.
//   - cfg: bucket and signing service account configuration.
//   - opts: optional client options.
// Returns:
//   - *GCSStorage: initialized storage backend.
//   - error: non-nil if either client cannot be created.
func NewGCSStorage(ctx context.Context, cfg *GCSConfig, opts ...option.ClientOption) (*GCSStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("gcs: bucket must not be empty")
	}
	if cfg.SigningServiceAccount == "" {
		return nil, fmt.Errorf("gcs: signing service account must not be empty")
	}

	if cfg.Project != "" {
		opts = append(opts, option.WithQuotaProject(cfg.Project))
	}

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs: failed to create storage client: %w", err)
	}

	iamClient, err := credentials.NewIamCredentialsClient(ctx, opts...)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("gcs: failed to create IAM credentials client: %w", err)
	}

	return &GCSStorage{
		client:    client,
		iamClient: iamClient,
		bucket:    cfg.Bucket,
		signerSA:  cfg.SigningServiceAccount,
	}, nil
}

// SignUpload returns a V4 signed PUT URL for the object at key.
// Parameters:
//   - ctx: context for the SignBlob calls made during signing.
//   - key: object path within the bucket.
//   - contentType: required Content-Type of the upload; empty means unconstrained.
//   - expiry: validity window measured from now.
// Returns:
//   - string: signed URL.
//   - error: non-nil if signing fails.
func (g *GCSStorage) SignUpload(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	opts := &gcs.SignedURLOptions{
		Scheme:         gcs.SigningSchemeV4,
		Method:         http.MethodPut,
		Expires:        time.Now().Add(expiry),
		ContentType:    contentType,
		GoogleAccessID: g.signerSA,
		SignBytes: func(payload []byte) ([]byte, error) {
			resp, err := g.iamClient.SignBlob(ctx, &credentialspb.SignBlobRequest{
				Name:    "projects/-/serviceAccounts/" + g.signerSA,
				Payload: payload,
			})
			if err != nil {
				return nil, fmt.Errorf("sign blob as %s: %w", g.signerSA, err)
			}
			return resp.SignedBlob, nil
		},
	}

	url, err := g.client.Bucket(g.bucket).SignedURL(key, opts)
	if err != nil {
		return "", fmt.Errorf("gcs: failed to sign upload URL for %q: %w", key, err)
	}
	return url, nil
}

// StorageURI returns the gs:// address of an object.
func (g *GCSStorage) StorageURI(key string) string {
	return fmt.Sprintf("gs://%s/%s", g.bucket, key)
}

// Bucket returns the configured upload bucket name.
func (g *GCSStorage) Bucket() string {
	return g.bucket
}

// Close releases the underlying clients.
func (g *GCSStorage) Close() error {
	if err := g.iamClient.Close(); err != nil {
		_ = g.client.Close()
		return err
	}
	return g.client.Close()
}
