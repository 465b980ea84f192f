// Package page implements the content store: named two-file page records
// kept in a Git hosting repository, with create-if-absent, revision-guarded
// deletion and listing enumeration. The backend is the sole source of truth
// and the sole serialization point; the store holds no state of its own.
package page

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"pressing/internal/gitstore"
	"pressing/internal/models"
)

var nameRE = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// listWorkers caps the concurrent metadata fetches during List. Directory
// sizes are modest (tens to low hundreds of records).
const listWorkers = 8

// Store provides page records on top of an object store.
type Store struct {
	Objects gitstore.ObjectStore
	Retry   gitstore.Retryer
	Log     zerolog.Logger

	// Now is replaced in tests to pin createdAt timestamps.
	Now func() time.Time
}

// NewStore creates a store over the given backend.
func NewStore(objects gitstore.ObjectStore) *Store {
	return &Store{
		Objects: objects,
		Log:     zerolog.Nop(),
		Now:     time.Now,
	}
}

// ValidName reports whether name is usable as a page name and storage
// directory: [A-Za-z0-9-]+ only.
func ValidName(name string) bool { return nameRE.MatchString(name) }

// Create persists a new record under name. Fails with ErrInvalidName before
// touching the backend, and with ErrAlreadyExists when either half of the
// record already exists; a leftover half is reported through a wrapped
// PartialError instead of being overwritten, so interrupted writes stay
// visible. Concurrent creates of the same name are resolved by the
// backend's create-only write: exactly one caller wins.
func (s *Store) Create(ctx context.Context, name, title, description string, body []byte) (models.PageRecord, error) {
	if !ValidName(name) {
		return models.PageRecord{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	// Existence probe on both halves. Cheap check first; the create-only
	// writes below are what actually arbitrate races.
	if _, err := s.Objects.GetObject(ctx, metadataPath(name)); err == nil {
		return models.PageRecord{}, fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	} else if !errors.Is(err, gitstore.ErrNotFound) {
		return models.PageRecord{}, err
	}
	if _, err := s.Objects.GetObject(ctx, bodyPath(name)); err == nil {
		return models.PageRecord{}, fmt.Errorf("%w: %w", ErrAlreadyExists, &PartialError{Name: name, HasBody: true})
	} else if !errors.Is(err, gitstore.ErrNotFound) {
		return models.PageRecord{}, err
	}

	rec := models.PageRecord{
		Name: name,
		Metadata: models.Metadata{
			Title:       title,
			Description: description,
			CreatedAt:   s.Now().UTC(),
			PageName:    name,
		},
		Body: body,
	}
	metadata, bodyBytes, err := Encode(rec)
	if err != nil {
		return models.PageRecord{}, err
	}

	// Metadata first, then body: a crash in between always leaves
	// metadata-without-body, which Get reports as a partial record.
	for _, obj := range []struct {
		path string
		data []byte
	}{
		{metadataPath(name), metadata},
		{bodyPath(name), bodyBytes},
	} {
		err := s.Retry.Do(ctx, func(ctx context.Context) error {
			_, err := s.Objects.PutObject(ctx, obj.path, obj.data, "")
			return err
		})
		if err != nil {
			if errors.Is(err, gitstore.ErrConflict) {
				return models.PageRecord{}, fmt.Errorf("%w: %s", ErrAlreadyExists, name)
			}
			return models.PageRecord{}, fmt.Errorf("creating %s: %w", name, err)
		}
	}

	s.Log.Info().Str("page", name).Msg("page created")
	return rec, nil
}

// Get fetches both halves of a record. Returns gitstore.ErrNotFound when
// neither exists and a PartialError when exactly one does.
func (s *Store) Get(ctx context.Context, name string) (models.PageRecord, error) {
	if !ValidName(name) {
		return models.PageRecord{}, fmt.Errorf("get %q: %w", name, gitstore.ErrNotFound)
	}

	var (
		metaObj, bodyObj gitstore.Object
		metaErr, bodyErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		metaObj, metaErr = s.Objects.GetObject(ctx, metadataPath(name))
		return nil
	})
	g.Go(func() error {
		bodyObj, bodyErr = s.Objects.GetObject(ctx, bodyPath(name))
		return nil
	})
	g.Wait()

	metaMissing := errors.Is(metaErr, gitstore.ErrNotFound)
	bodyMissing := errors.Is(bodyErr, gitstore.ErrNotFound)
	switch {
	case metaErr != nil && !metaMissing:
		return models.PageRecord{}, metaErr
	case bodyErr != nil && !bodyMissing:
		return models.PageRecord{}, bodyErr
	case metaMissing && bodyMissing:
		return models.PageRecord{}, fmt.Errorf("get %s: %w", name, gitstore.ErrNotFound)
	case metaMissing || bodyMissing:
		return models.PageRecord{}, &PartialError{Name: name, HasMetadata: !metaMissing, HasBody: !bodyMissing}
	}

	return Decode(name, metaObj.Data, bodyObj.Data)
}

// List enumerates all records, newest first. Records whose metadata is
// missing or unreadable carry a nil Metadata and sort last (as epoch 0); a
// single broken record never fails the listing. Ties break by name so the
// order is stable.
func (s *Store) List(ctx context.Context) ([]models.ListEntry, error) {
	entries, err := s.Objects.ListDirectory(ctx, "")
	if errors.Is(err, gitstore.ErrNotFound) {
		// Empty or uninitialized repository.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}

	var dirs []string
	for _, e := range entries {
		if e.Kind == gitstore.KindDir {
			dirs = append(dirs, e.Name)
		}
	}

	out := make([]models.ListEntry, len(dirs))
	var g errgroup.Group
	g.SetLimit(listWorkers)
	for i, name := range dirs {
		i, name := i, name
		g.Go(func() error {
			out[i].Name = name
			obj, err := s.Objects.GetObject(ctx, metadataPath(name))
			if err != nil {
				s.Log.Warn().Err(err).Str("page", name).Msg("listing: metadata unreadable")
				return nil
			}
			md, err := decodeMetadata(name, obj.Data)
			if err != nil {
				s.Log.Warn().Err(err).Str("page", name).Msg("listing: metadata malformed")
				return nil
			}
			out[i].Metadata = &md
			return nil
		})
	}
	g.Wait()

	createdAt := func(e models.ListEntry) time.Time {
		if e.Metadata == nil {
			return time.Time{}
		}
		return e.Metadata.CreatedAt
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := createdAt(out[i]), createdAt(out[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Delete removes both halves of a record. A half that is already absent
// counts as deleted; both halves are attempted even if the first fails, and
// the call reports failure only for a non-NotFound error. Deleting a name
// with no halves at all returns gitstore.ErrNotFound, which makes Delete
// the manual repair path for partial records too.
func (s *Store) Delete(ctx context.Context, name string) error {
	if !ValidName(name) {
		return fmt.Errorf("delete %q: %w", name, gitstore.ErrNotFound)
	}

	deleted := 0
	var firstErr error
	for _, path := range []string{metadataPath(name), bodyPath(name)} {
		err := s.deleteObject(ctx, path)
		switch {
		case err == nil:
			deleted++
		case errors.Is(err, gitstore.ErrNotFound):
			// Already absent.
		default:
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return fmt.Errorf("deleting %s: %w", name, firstErr)
	}
	if deleted == 0 {
		return fmt.Errorf("delete %s: %w", name, gitstore.ErrNotFound)
	}
	s.Log.Info().Str("page", name).Msg("page deleted")
	return nil
}

// deleteObject removes one file, re-fetching its revision inside every
// retry attempt.
func (s *Store) deleteObject(ctx context.Context, path string) error {
	return s.Retry.DoFresh(ctx,
		func(ctx context.Context) (string, error) {
			obj, err := s.Objects.GetObject(ctx, path)
			return obj.Revision, err
		},
		func(ctx context.Context, revision string) error {
			return s.Objects.DeleteObject(ctx, path, revision)
		},
	)
}
