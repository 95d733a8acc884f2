package service

import "fmt"

// ValidationError reports request input rejected before any external call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SigningError reports a failed signed-URL generation. It carries the
// filename so callers can tell which upload slot failed; the whole
// registration is aborted and no metadata is written.
type SigningError struct {
	Filename string
	Key      string
	Err      error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("could not generate signed URL for %q: %v", e.Filename, e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a metadata write failure after all URLs were
// issued. The already-issued URLs stay valid until expiry; that window is an
// accepted inconsistency, not a retried transaction.
type PersistenceError struct {
	RunID string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("could not persist run %s: %v", e.RunID, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NotFoundError reports an unknown run identifier on read.
type NotFoundError struct {
	RunID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("run %s not found", e.RunID)
}
