// Package gitstore provides access to a Git hosting repository used as a
// key/value object store: read a file, list a directory, and write or delete
// a file guarded by its revision token.
package gitstore

import "context"

// Object is the stored content of a path together with the backend-assigned
// revision token for that content. Revisions are opaque and comparable for
// equality only; they cannot be ordered or computed locally.
type Object struct {
	Data     []byte
	Revision string
}

// EntryKind distinguishes files from directories in a listing.
type EntryKind string

const (
	KindFile EntryKind = "file"
	KindDir  EntryKind = "dir"
)

// Entry is one element of a directory listing.
type Entry struct {
	Name string
	Kind EntryKind
}

// ObjectStore is the capability set the content store needs from a backend.
// All calls may block on network I/O and may fail with ErrTransient,
// ErrUnauthorized or ErrNotFound; writes may additionally fail with
// ErrConflict.
type ObjectStore interface {
	// GetObject returns the content and current revision of path.
	GetObject(ctx context.Context, path string) (Object, error)

	// PutObject writes data to path and returns the new revision. With
	// expectedRevision empty the write is create-only and fails with
	// ErrConflict if the object already exists; otherwise the write fails
	// with ErrConflict unless the object is still at expectedRevision.
	PutObject(ctx context.Context, path string, data []byte, expectedRevision string) (string, error)

	// ListDirectory returns the entries of a directory, sorted by name.
	// Fails with ErrNotFound if the path does not exist.
	ListDirectory(ctx context.Context, path string) ([]Entry, error)

	// DeleteObject removes path, guarded by its expected revision.
	DeleteObject(ctx context.Context, path string, expectedRevision string) error
}
