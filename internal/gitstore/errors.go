package gitstore

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by object store operations. Callers match them
// with errors.Is; concrete errors wrap these with path and cause detail.
var (
	// ErrNotFound is returned when an object or directory does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrConflict is returned when a write's revision precondition failed:
	// either the expected revision no longer matches, or a create-only
	// write found the object already present.
	ErrConflict = errors.New("revision conflict")

	// ErrTransient is returned for failures worth retrying: timeouts,
	// rate limits, 5xx responses and transport-level errors.
	ErrTransient = errors.New("transient backend failure")

	// ErrUnauthorized is returned when the backend rejects our
	// credentials. Never retried.
	ErrUnauthorized = errors.New("backend credentials rejected")
)

// ConflictError reports a failed revision precondition on a single object.
type ConflictError struct {
	Path             string
	ExpectedRevision string // empty means the write was create-only
}

func (e *ConflictError) Error() string {
	if e.ExpectedRevision == "" {
		return fmt.Sprintf("revision conflict: %s already exists", e.Path)
	}
	return fmt.Sprintf("revision conflict: %s is no longer at revision %s", e.Path, e.ExpectedRevision)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
