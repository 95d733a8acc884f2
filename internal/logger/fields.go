package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Standard Tracing Fields (Context level)
// These fields are propagated through the call chain
// ============================================

const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldRunID is the run identifier
	FieldRunID = "run_id"

	// FieldProjectID is the customer project identifier
	FieldProjectID = "project_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"
)

// ============================================
// Standard Metric Fields (Entry level)
// These fields are used for aggregation and alerting
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldStatus is the HTTP or operation status
	FieldStatus = "status"

	// FieldSize is the response size in bytes
	FieldSize = "size"

	// FieldCount is a generic count field
	FieldCount = "count"
)
