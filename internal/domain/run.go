package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// RunStatus represents the lifecycle status of a run record.
// The registration flow writes RunStatusUploadURLsIssued; later transitions
// are owned by the ingestion and scoring pipeline.
type RunStatus string

const (
	RunStatusUploadURLsIssued RunStatus = "upload_urls_issued"
	RunStatusUploaded         RunStatus = "uploaded"
	RunStatusProcessing       RunStatus = "processing"
	RunStatusScored           RunStatus = "scored"
	RunStatusFailed           RunStatus = "failed"
)

// AllRunStatuses lists every lifecycle status, in pipeline order.
var AllRunStatuses = []RunStatus{
	RunStatusUploadURLsIssued,
	RunStatusUploaded,
	RunStatusProcessing,
	RunStatusScored,
	RunStatusFailed,
}

// StringArray is a custom type for storing string arrays as JSON in the database.
type StringArray []string

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the slice.
//   - error: non-nil if marshaling fails.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// Insights is the scoring placeholder written with neutral defaults at
// registration and mutated only by the external scoring pipeline.
type Insights struct {
	Summary           string  `json:"summary"`
	RecommendedAction string  `json:"recommended_action"`
	LiftVsBaseline    float64 `json:"lift_vs_baseline"`
}

// DefaultInsights returns the neutral insight values written at registration.
// Parameters: none.
// Returns:
//   - Insights: placeholder values.
func DefaultInsights() Insights {
	return Insights{
		Summary:           "No summary provided.",
		RecommendedAction: "No recommendation provided.",
		LiftVsBaseline:    0.0,
	}
}

// Value implements the driver.Valuer interface for database serialization.
func (i Insights) Value() (driver.Value, error) {
	b, err := json.Marshal(i)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (i *Insights) Scan(value interface{}) error {
	if value == nil {
		*i = Insights{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan Insights")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, i)
}

// Run represents one registered advertising-creative test: a single video plus
// zero or more supporting documents, with descriptive contact metadata.
// A record is written exactly once at registration; status and insights are
// mutated later by the ingestion pipeline.
type Run struct {
	RunID string `gorm:"type:text;primaryKey" json:"run_id"`

	ProjectID       string `gorm:"type:text;not null;index:idx_runs_project" json:"project_id"`
	CompanyName     string `gorm:"type:text;not null" json:"company_name"`
	ContactName     string `gorm:"type:text;not null" json:"contact_name"`
	ContactEmail    string `gorm:"type:text;not null" json:"contact_email"`
	ContactPhoneRaw string `gorm:"type:text" json:"contact_phone_raw"`
	ContactPhone    string `gorm:"type:text" json:"contact_phone"`
	CreativeID      string `gorm:"type:text;not null" json:"creative_id"`
	Variant         string `gorm:"type:text;not null" json:"variant"`
	Label           string `gorm:"type:text" json:"label"`
	Notes           string `gorm:"type:text" json:"notes"`

	OriginalFilename string `gorm:"type:text" json:"original_filename"`
	ContentType      string `gorm:"type:text" json:"content_type"`

	VideoStoragePath string      `gorm:"type:text;not null" json:"video_storage_path"`
	DocStoragePaths  StringArray `gorm:"type:text" json:"doc_storage_paths"`
	DocFilenames     StringArray `gorm:"type:text" json:"doc_filenames"`
	UploadBucket     string      `gorm:"type:text" json:"upload_bucket"`

	Status   RunStatus `gorm:"type:text;index:idx_runs_status;default:upload_urls_issued" json:"status"`
	Insights Insights  `gorm:"type:text" json:"insights"`
	Score    float64   `json:"score"`

	CreatedAt time.Time `gorm:"index:idx_runs_created_at" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Run.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Run) TableName() string {
	return "runs"
}
