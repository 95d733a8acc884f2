package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// FileRole distinguishes the upload slots within a run's storage layout.
type FileRole string

const (
	RoleVideo FileRole = "video"
	RoleDocs  FileRole = "docs"
)

// uploadPrefix is the fixed namespace all run objects live under.
const uploadPrefix = "runs"

// newRunID produces a collision-resistant run identifier: a "run_" tag plus
// the first 12 hex characters of a random UUID. The tag keeps storage paths
// human-scannable; uniqueness is probabilistic by construction.
func newRunID() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "run_" + hex[:12]
}

// objectKey derives the canonical object path for a file within a run:
// runs/<run_id>/<role>/<filename>. It is a pure function of its inputs, so
// retried registrations keep the file layout an exact reflection of the
// stored metadata record.
func objectKey(runID string, role FileRole, filename string) string {
	return fmt.Sprintf("%s/%s/%s/%s", uploadPrefix, runID, role, filename)
}
