package storage

import "testing"

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		want     string
	}{
		{"bare host", "minio.local:9000", "minio.local:9000"},
		{"https prefix", "https://s3.us-east-1.amazonaws.com", "s3.us-east-1.amazonaws.com"},
		{"http prefix", "http://localhost:9000", "localhost:9000"},
		{"trailing slash", "https://minio.local:9000/", "minio.local:9000"},
		{"with path", "https://minio.local:9000/some/path", "minio.local:9000"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeEndpoint(tt.endpoint); got != tt.want {
				t.Errorf("normalizeEndpoint(%q) = %q, want %q", tt.endpoint, got, tt.want)
			}
		})
	}
}

func TestS3StorageURI(t *testing.T) {
	s := &S3Storage{bucket: "scenepulse-uploads"}
	want := "s3://scenepulse-uploads/runs/run_abc123/video/spot.mp4"
	if got := s.StorageURI("runs/run_abc123/video/spot.mp4"); got != want {
		t.Errorf("StorageURI = %q, want %q", got, want)
	}
}

func TestNewS3StorageRequiresBucket(t *testing.T) {
	if _, err := NewS3Storage(&S3Options{}); err == nil {
		t.Fatal("expected error for empty bucket")
	}
}
