package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Auth.APIKey != "changeme" {
		t.Errorf("default api key = %q, want changeme", cfg.Auth.APIKey)
	}
	if cfg.Storage.Backend != "gcs" {
		t.Errorf("default storage backend = %q, want gcs", cfg.Storage.Backend)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("default database driver = %q, want sqlite", cfg.Database.Driver)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	os.Setenv("SCENEPULSE_API_KEY", "env-secret")
	os.Setenv("UPLOAD_BUCKET", "env-bucket")
	os.Setenv("GCP_PROJECT", "env-project")
	defer os.Unsetenv("SCENEPULSE_API_KEY")
	defer os.Unsetenv("UPLOAD_BUCKET")
	defer os.Unsetenv("GCP_PROJECT")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Auth.APIKey != "env-secret" {
		t.Errorf("api key = %q, want env override", cfg.Auth.APIKey)
	}
	if cfg.Storage.Bucket != "env-bucket" {
		t.Errorf("bucket = %q, want env override", cfg.Storage.Bucket)
	}
	if cfg.Storage.GCS.Project != "env-project" {
		t.Errorf("gcs project = %q, want env override", cfg.Storage.GCS.Project)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9090
  mode: release
auth:
  api_key: file-secret
storage:
  backend: s3
  bucket: file-bucket
  s3:
    endpoint: minio.local:9000
    region: eu-west-1
database:
  driver: postgres
  host: db.internal
  name: scenepulse
  user: app
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Storage.Backend != "s3" {
		t.Errorf("backend = %q, want s3", cfg.Storage.Backend)
	}
	if cfg.Storage.S3.Endpoint != "minio.local:9000" {
		t.Errorf("s3 endpoint = %q", cfg.Storage.S3.Endpoint)
	}

	wantDSN := "host=db.internal port=5432 user=app password= dbname=scenepulse sslmode=disable"
	if got := cfg.Database.DSN(); got != wantDSN {
		t.Errorf("DSN = %q, want %q", got, wantDSN)
	}
}
