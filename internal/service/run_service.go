package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/scenepulse/scenepulse-backend/internal/domain"
	"github.com/scenepulse/scenepulse-backend/internal/logger"
	"github.com/scenepulse/scenepulse-backend/internal/repository"
	"github.com/scenepulse/scenepulse-backend/internal/storage"
)

// uploadURLTTL is the client-facing validity window of every signed upload
// URL. This is policy, not a server-side timeout.
const uploadURLTTL = 30 * time.Minute

// List limits: requests outside the range are clamped, never rejected.
const (
	MinListLimit     = 1
	MaxListLimit     = 100
	DefaultListLimit = 50
)

// videoFileKey and docFileKeyPrefix name the upload slots in the response.
const (
	videoFileKey     = "video_file"
	docFileKeyPrefix = "doc_file_"
)

// RunStore is the metadata store surface the run service depends on.
// *repository.RunRepository satisfies it; tests substitute fakes.
type RunStore interface {
	Create(ctx context.Context, run *domain.Run) error
	GetByID(ctx context.Context, runID string) (*domain.Run, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Run, error)
	CountByStatus(ctx context.Context, status domain.RunStatus) (int64, error)
}

// RunService orchestrates run registration and reads. All collaborators are
// injected once at construction; no ambient singletons.
type RunService struct {
	store         RunStore
	objectStorage storage.ObjectStorage
	logger        *logger.Logger
}

// NewRunService creates a new run service.
// Parameters:
//   - store: metadata store for run records.
//   - objectStorage: object storage client for signed upload URLs.
//   - log: logger instance.
// Returns:
//   - *RunService: initialized run service.
func NewRunService(store RunStore, objectStorage storage.ObjectStorage, log *logger.Logger) *RunService {
	return &RunService{
		store:         store,
		objectStorage: objectStorage,
		logger:        log,
	}
}

// log returns the request-scoped logger if the context carries one,
// otherwise the logger injected at construction
func (s *RunService) log(ctx context.Context) *logger.Logger {
	if l := logger.ContextLogger(ctx); l != nil {
		return l
	}
	return s.logger
}

// RegisterRunInput represents a run registration request.
type RegisterRunInput struct {
	ProjectID        string   `json:"project_id" binding:"required"`
	CompanyName      string   `json:"company_name" binding:"required"`
	ContactName      string   `json:"contact_name" binding:"required"`
	ContactEmail     string   `json:"contact_email" binding:"required,email"`
	ContactPhone     string   `json:"contact_phone" binding:"required"`
	CreativeID       string   `json:"creative_id" binding:"required"`
	Variant          string   `json:"variant" binding:"required"`
	VideoFilename    string   `json:"video_filename" binding:"required"`
	OriginalFilename string   `json:"original_filename"`
	ContentType      string   `json:"content_type" binding:"required"`
	Label            string   `json:"label"`
	Notes            string   `json:"notes"`
	DocFilenames     []string `json:"doc_filenames"`
}

// SignedURLInfo describes one signed upload URL in the registration response.
type SignedURLInfo struct {
	OriginalFilename string `json:"original_filename"`
	SignedURL        string `json:"signed_url"`
	StoragePath      string `json:"storage_path"`
	Key              string `json:"key"`
}

// RegisterRunResult is the outcome of a successful registration. The URL set
// and the persisted metadata's path lists correspond one to one.
type RegisterRunResult struct {
	RunID            string          `json:"run_id"`
	ProjectID        string          `json:"project_id"`
	VideoStoragePath string          `json:"video_storage_path"`
	DocStoragePaths  []string        `json:"doc_storage_paths"`
	UploadURLs       []SignedURLInfo `json:"upload_urls"`
}

// RegisterRun registers one video plus optional supporting documents:
// generates a run ID, signs one PUT URL per file (video first, then documents
// in input order), and persists the metadata record with a single write only
// after every URL was issued. Any signing failure aborts the whole
// registration with no metadata written.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - input: validated registration request.
// Returns:
//   - *RegisterRunResult: run ID, storage paths, and ordered signed URLs.
//   - error: ValidationError, SigningError, or PersistenceError.
func (s *RunService) RegisterRun(ctx context.Context, input *RegisterRunInput) (*RegisterRunResult, error) {
	videoFilename := strings.TrimSpace(input.VideoFilename)
	if videoFilename == "" {
		return nil, &ValidationError{Field: "video_filename", Reason: "must not be empty"}
	}

	// Empty document names are dropped, not rejected; order is preserved.
	docFilenames := make([]string, 0, len(input.DocFilenames))
	for _, name := range input.DocFilenames {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			docFilenames = append(docFilenames, trimmed)
		}
	}

	runID := newRunID()
	now := time.Now().UTC()

	// Video URL first; it is mandatory.
	videoKey := objectKey(runID, RoleVideo, videoFilename)
	videoStoragePath := s.objectStorage.StorageURI(videoKey)

	videoURL, err := s.objectStorage.SignUpload(ctx, videoKey, input.ContentType, uploadURLTTL)
	if err != nil {
		return nil, &SigningError{Filename: videoFilename, Key: videoFileKey, Err: err}
	}

	uploadURLs := make([]SignedURLInfo, 0, 1+len(docFilenames))
	uploadURLs = append(uploadURLs, SignedURLInfo{
		OriginalFilename: videoFilename,
		SignedURL:        videoURL,
		StoragePath:      videoStoragePath,
		Key:              videoFileKey,
	})

	docStoragePaths := make([]string, 0, len(docFilenames))
	for idx, docName := range docFilenames {
		docKey := objectKey(runID, RoleDocs, docName)
		docStoragePath := s.objectStorage.StorageURI(docKey)

		docURL, err := s.objectStorage.SignUpload(ctx, docKey, "", uploadURLTTL)
		if err != nil {
			// Abort the whole registration; a partially populated URL set
			// must never reach the caller or the store.
			return nil, &SigningError{
				Filename: docName,
				Key:      fmt.Sprintf("%s%d", docFileKeyPrefix, idx),
				Err:      err,
			}
		}

		docStoragePaths = append(docStoragePaths, docStoragePath)
		uploadURLs = append(uploadURLs, SignedURLInfo{
			OriginalFilename: docName,
			SignedURL:        docURL,
			StoragePath:      docStoragePath,
			Key:              fmt.Sprintf("%s%d", docFileKeyPrefix, idx),
		})
	}

	originalFilename := strings.TrimSpace(input.OriginalFilename)
	if originalFilename == "" {
		originalFilename = videoFilename
	}

	run := &domain.Run{
		RunID:            runID,
		ProjectID:        input.ProjectID,
		CompanyName:      input.CompanyName,
		ContactName:      input.ContactName,
		ContactEmail:     input.ContactEmail,
		ContactPhoneRaw:  input.ContactPhone,
		ContactPhone:     normalizePhone(input.ContactPhone),
		CreativeID:       input.CreativeID,
		Variant:          input.Variant,
		Label:            input.Label,
		Notes:            input.Notes,
		OriginalFilename: originalFilename,
		ContentType:      input.ContentType,
		VideoStoragePath: videoStoragePath,
		DocStoragePaths:  docStoragePaths,
		DocFilenames:     docFilenames,
		UploadBucket:     s.objectStorage.Bucket(),
		Status:           domain.RunStatusUploadURLsIssued,
		Insights:         domain.DefaultInsights(),
		Score:            0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.store.Create(ctx, run); err != nil {
		// The issued URLs stay valid until expiry; accepted inconsistency
		// window, no compensating rollback.
		return nil, &PersistenceError{RunID: runID, Err: err}
	}

	s.log(ctx).WithFields(logger.Fields{
		logger.FieldRunID:     runID,
		logger.FieldProjectID: input.ProjectID,
		logger.FieldCount:     len(uploadURLs),
	}).Infof("Run registered")

	return &RegisterRunResult{
		RunID:            runID,
		ProjectID:        input.ProjectID,
		VideoStoragePath: videoStoragePath,
		DocStoragePaths:  docStoragePaths,
		UploadURLs:       uploadURLs,
	}, nil
}

// GetRun retrieves one run record by its identifier.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - runID: run identifier.
// Returns:
//   - *domain.Run: run record with UTC timestamps.
//   - error: NotFoundError if the run does not exist.
func (s *RunService) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	run, err := s.store.GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, repository.ErrRunNotFound) {
			return nil, &NotFoundError{RunID: runID}
		}
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	normalizeTimes(run)
	return run, nil
}

// ListRuns retrieves the most recent runs, newest first. limit is clamped to
// [MinListLimit, MaxListLimit]; callers that omit it pass DefaultListLimit.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - limit: requested maximum number of records.
// Returns:
//   - []domain.Run: records ordered by created_at descending, UTC timestamps.
//   - error: non-nil if the query fails.
func (s *RunService) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	runs, err := s.store.ListRecent(ctx, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	for i := range runs {
		normalizeTimes(&runs[i])
	}
	return runs, nil
}

// StatusCounts reports how many runs sit in each lifecycle status.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - map[domain.RunStatus]int64: count per status, zero included.
//   - error: non-nil if any count query fails.
func (s *RunService) StatusCounts(ctx context.Context) (map[domain.RunStatus]int64, error) {
	counts := make(map[domain.RunStatus]int64, len(domain.AllRunStatuses))
	for _, status := range domain.AllRunStatuses {
		n, err := s.store.CountByStatus(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("count runs in status %s: %w", status, err)
		}
		counts[status] = n
	}
	return counts, nil
}

// clampLimit bounds a requested list limit into [MinListLimit, MaxListLimit]
func clampLimit(limit int) int {
	if limit < MinListLimit {
		return MinListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// normalizeTimes converts record timestamps to UTC so serialized output is
// deterministic across drivers and repeated reads
func normalizeTimes(run *domain.Run) {
	run.CreatedAt = run.CreatedAt.UTC()
	run.UpdatedAt = run.UpdatedAt.UTC()
}
