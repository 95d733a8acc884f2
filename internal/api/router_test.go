package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/scenepulse/scenepulse-backend/internal/config"
	"github.com/scenepulse/scenepulse-backend/internal/domain"
	"github.com/scenepulse/scenepulse-backend/internal/logger"
	"github.com/scenepulse/scenepulse-backend/internal/repository"
	"github.com/scenepulse/scenepulse-backend/internal/service"
)

const testAPIKey = "test-secret"

type stubObjectStorage struct {
	bucket string
}

func (s *stubObjectStorage) SignUpload(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	return "https://signed.example.com/" + key, nil
}

func (s *stubObjectStorage) StorageURI(key string) string {
	return fmt.Sprintf("gs://%s/%s", s.bucket, key)
}

func (s *stubObjectStorage) Bucket() string {
	return s.bucket
}

type stubRunStore struct {
	runs map[string]domain.Run
}

func (s *stubRunStore) Create(ctx context.Context, run *domain.Run) error {
	s.runs[run.RunID] = *run
	return nil
}

func (s *stubRunStore) GetByID(ctx context.Context, runID string) (*domain.Run, error) {
	run, ok := s.runs[runID]
	if !ok {
		return nil, repository.ErrRunNotFound
	}
	return &run, nil
}

func (s *stubRunStore) CountByStatus(ctx context.Context, status domain.RunStatus) (int64, error) {
	var count int64
	for _, run := range s.runs {
		if run.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *stubRunStore) ListRecent(ctx context.Context, limit int) ([]domain.Run, error) {
	runs := make([]domain.Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, run)
		if len(runs) == limit {
			break
		}
	}
	return runs, nil
}

func newTestRouter() (http.Handler, *stubRunStore) {
	store := &stubRunStore{runs: make(map[string]domain.Run)}
	log := logger.New(&logger.Config{Level: "error", Format: "text", Output: io.Discard, ServiceName: "test"})

	runService := service.NewRunService(store, &stubObjectStorage{bucket: "test-uploads"}, log)

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.CORS.AllowAllOrigins = true
	cfg.Auth.APIKey = testAPIKey
	cfg.Storage.Bucket = "test-uploads"
	cfg.Storage.GCS.Project = "test-project"

	return SetupRouter(runService, cfg, log), store
}

func createRunBody() []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"project_id":     "proj-1",
		"company_name":   "Acme",
		"contact_name":   "Jordan Lane",
		"contact_email":  "jordan@acme.example",
		"contact_phone":  "555-987-1234",
		"creative_id":    "cr-42",
		"variant":        "A",
		"video_filename": "spot.mp4",
		"content_type":   "video/mp4",
		"doc_filenames":  []string{"brief.pdf", ""},
	})
	return body
}

func TestRootIsOpen(t *testing.T) {
	router, store := newTestRouter()

	store.runs["run_aaaaaaaaaaaa"] = domain.Run{
		RunID:  "run_aaaaaaaaaaaa",
		Status: domain.RunStatusUploadURLsIssued,
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for unauthenticated root, got %d", w.Code)
	}

	var resp struct {
		Status          string           `json:"status"`
		Project         string           `json:"project"`
		UploadBucket    string           `json:"upload_bucket"`
		RunStatusCounts map[string]int64 `json:"run_status_counts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Project != "test-project" {
		t.Errorf("expected configured project in root response, got %q", resp.Project)
	}
	if resp.UploadBucket != "test-uploads" {
		t.Errorf("expected configured bucket in root response, got %q", resp.UploadBucket)
	}
	if resp.RunStatusCounts[string(domain.RunStatusUploadURLsIssued)] != 1 {
		t.Errorf("expected 1 run awaiting upload in status counts, got %v", resp.RunStatusCounts)
	}
	if _, ok := resp.RunStatusCounts[string(domain.RunStatusScored)]; !ok {
		t.Error("expected a zero entry for every status in status counts")
	}
}

func TestAuthRejection(t *testing.T) {
	router, _ := newTestRouter()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/secure/ping"},
		{http.MethodGet, "/routes"},
		{http.MethodPost, "/v1/runs"},
		{http.MethodGet, "/v1/runs"},
		{http.MethodGet, "/v1/runs/run_abc123def456"},
	}

	for _, tt := range paths {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			// Missing key
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != http.StatusUnauthorized {
				t.Errorf("missing key: expected 401, got %d", w.Code)
			}

			// Wrong key
			w = httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("x-api-key", "wrong")
			router.ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("wrong key: expected 401, got %d", w.Code)
			}
		})
	}
}

func TestSecurePing(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure/ping", nil)
	req.Header.Set("x-api-key", testAPIKey)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestCreateRun(t *testing.T) {
	router, store := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/runs", bytes.NewReader(createRunBody()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", testAPIKey)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp service.RegisterRunResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.RunID == "" {
		t.Error("expected run_id in response")
	}
	if len(resp.UploadURLs) != 2 {
		t.Fatalf("expected 2 upload URLs (video + 1 doc), got %d", len(resp.UploadURLs))
	}
	if resp.UploadURLs[0].Key != "video_file" || resp.UploadURLs[1].Key != "doc_file_0" {
		t.Errorf("unexpected upload URL keys: %q, %q", resp.UploadURLs[0].Key, resp.UploadURLs[1].Key)
	}

	// The record was persisted under the returned ID
	if _, ok := store.runs[resp.RunID]; !ok {
		t.Errorf("expected persisted record for %s", resp.RunID)
	}
}

func TestCreateRunInvalidEmail(t *testing.T) {
	router, store := newTestRouter()

	body, _ := json.Marshal(map[string]interface{}{
		"project_id":     "proj-1",
		"company_name":   "Acme",
		"contact_name":   "Jordan Lane",
		"contact_email":  "not-an-email",
		"contact_phone":  "555-987-1234",
		"creative_id":    "cr-42",
		"variant":        "A",
		"video_filename": "spot.mp4",
		"content_type":   "video/mp4",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/runs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", testAPIKey)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed email, got %d", w.Code)
	}
	if len(store.runs) != 0 {
		t.Errorf("expected no persisted records, got %d", len(store.runs))
	}
}

func TestGetRunNotFound(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/runs/run_missing00000", nil)
	req.Header.Set("x-api-key", testAPIKey)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetRunAfterCreate(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/runs", bytes.NewReader(createRunBody()))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", testAPIKey)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("create failed: %d", w.Code)
	}

	var created service.RegisterRunResult
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/runs/"+created.RunID, nil)
	req.Header.Set("x-api-key", testAPIKey)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var record domain.Run
	if err := json.Unmarshal(w.Body.Bytes(), &record); err != nil {
		t.Fatalf("failed to decode get response: %v", err)
	}

	if record.VideoStoragePath != created.VideoStoragePath {
		t.Errorf("stored video path %q does not match registration response %q",
			record.VideoStoragePath, created.VideoStoragePath)
	}
	if len(record.DocStoragePaths) != len(created.DocStoragePaths) {
		t.Fatalf("stored %d doc paths, response had %d",
			len(record.DocStoragePaths), len(created.DocStoragePaths))
	}
}

func TestListRuns(t *testing.T) {
	router, store := newTestRouter()

	store.runs["run_aaaaaaaaaaaa"] = domain.Run{RunID: "run_aaaaaaaaaaaa", CreatedAt: time.Now().UTC()}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/runs?limit=10", nil)
	req.Header.Set("x-api-key", testAPIKey)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Runs []domain.Run `json:"runs"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(resp.Runs))
	}
}

func TestListRoutes(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/routes", nil)
	req.Header.Set("x-api-key", testAPIKey)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Routes []struct {
			Path    string   `json:"path"`
			Methods []string `json:"methods"`
		} `json:"routes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	seen := make(map[string]bool)
	for i, r := range resp.Routes {
		seen[r.Path] = true
		if i > 0 && resp.Routes[i-1].Path > r.Path {
			t.Errorf("routes not sorted by path at index %d", i)
		}
	}
	for _, want := range []string{"/", "/v1/runs", "/v1/runs/:run_id"} {
		if !seen[want] {
			t.Errorf("expected route %q in listing", want)
		}
	}
}
