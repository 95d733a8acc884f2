package repository

import (
	"context"
	"errors"

	"github.com/scenepulse/scenepulse-backend/internal/domain"
	"gorm.io/gorm"
)

// ErrRunNotFound is returned when no record exists for a run ID.
var ErrRunNotFound = errors.New("run not found")

// RunRepository handles run metadata persistence.
type RunRepository struct {
	db *gorm.DB
}

// NewRunRepository creates a new RunRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *RunRepository: repository instance bound to db.
func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run record. Registration performs exactly one Create
// per run; records are never updated through this repository.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - run: run record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *RunRepository) Create(ctx context.Context, run *domain.Run) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// GetByID retrieves a run by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - runID: run identifier.
// Returns:
//   - *domain.Run: run record if found.
//   - error: ErrRunNotFound if no record exists, other errors on query failure.
func (r *RunRepository) GetByID(ctx context.Context, runID string) (*domain.Run, error) {
	var run domain.Run
	if err := r.db.WithContext(ctx).First(&run, "run_id = ?", runID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, err
	}
	return &run, nil
}

// ListRecent retrieves the most recently created runs, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - limit: maximum number of records to return.
// Returns:
//   - []domain.Run: matching run records ordered by created_at descending.
//   - error: non-nil if the query fails.
func (r *RunRepository) ListRecent(ctx context.Context, limit int) ([]domain.Run, error) {
	var runs []domain.Run
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// CountByStatus counts runs in a given lifecycle status.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - status: run status to count.
// Returns:
//   - int64: number of matching records.
//   - error: non-nil if the query fails.
func (r *RunRepository) CountByStatus(ctx context.Context, status domain.RunStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Run{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
