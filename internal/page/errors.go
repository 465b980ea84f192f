package page

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the content store.
var (
	// ErrInvalidName is returned when a page name contains characters
	// outside [A-Za-z0-9-]. Checked before any backend call.
	ErrInvalidName = errors.New("invalid page name")

	// ErrAlreadyExists is returned by Create when the name is taken.
	ErrAlreadyExists = errors.New("page already exists")

	// ErrPartial marks a record with exactly one of its two backing
	// files present. Degraded, not fatal: the caller decides whether to
	// treat it as absence or surface it for repair.
	ErrPartial = errors.New("partial page record")

	// ErrDecode is returned when stored metadata is malformed. Never
	// auto-corrected.
	ErrDecode = errors.New("malformed stored record")
)

// PartialError reports which half of a record exists.
type PartialError struct {
	Name        string
	HasMetadata bool
	HasBody     bool
}

func (e *PartialError) Error() string {
	switch {
	case e.HasMetadata && !e.HasBody:
		return fmt.Sprintf("partial page record %q: metadata present, body missing", e.Name)
	case e.HasBody && !e.HasMetadata:
		return fmt.Sprintf("partial page record %q: body present, metadata missing", e.Name)
	}
	return fmt.Sprintf("partial page record %q", e.Name)
}

func (e *PartialError) Is(target error) bool { return target == ErrPartial }
