// Package regen serves cached page renderings for a bounded staleness
// window. The cache is strictly advisory: the repository stays the source of
// truth, and an entry is only ever trusted for the configured window.
package regen

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pressing/internal/gitstore"
)

const (
	// DefaultWindow is how long a cached rendering is served before the
	// next read refetches it.
	DefaultWindow = 60 * time.Second

	// DefaultNotFoundWindow is the shorter window for confirmed-absent
	// pages, so a just-created page becomes visible sooner than an
	// existing one would be re-checked.
	DefaultNotFoundWindow = 30 * time.Second
)

// Loader fetches and renders a page. A load failing with
// gitstore.ErrNotFound is cached as a negative entry; any other failure is
// returned to the caller and not cached.
type Loader func(ctx context.Context, name string) ([]byte, error)

type entry struct {
	body     []byte
	notFound bool
	fetched  time.Time
}

// Gate is a read-through cache keyed by page name.
type Gate struct {
	Load           Loader
	Window         time.Duration
	NotFoundWindow time.Duration

	// Now is replaced in tests. Validity is computed from the difference
	// of two Now readings, so it rides the monotonic clock and is immune
	// to wall-clock adjustments.
	Now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

// NewGate creates a gate with the default windows.
func NewGate(load Loader) *Gate {
	return &Gate{
		Load:           load,
		Window:         DefaultWindow,
		NotFoundWindow: DefaultNotFoundWindow,
		Now:            time.Now,
		entries:        make(map[string]entry),
	}
}

// Page returns the rendering for name, serving the cached copy while it is
// within its window and reloading it otherwise. Returns
// gitstore.ErrNotFound for absent pages.
func (g *Gate) Page(ctx context.Context, name string) ([]byte, error) {
	g.mu.Lock()
	if e, ok := g.entries[name]; ok && g.Now().Sub(e.fetched) < g.windowFor(e) {
		g.mu.Unlock()
		if e.notFound {
			return nil, fmt.Errorf("page %s: %w", name, gitstore.ErrNotFound)
		}
		return e.body, nil
	}
	g.mu.Unlock()

	body, err := g.Load(ctx, name)
	switch {
	case err == nil:
		g.put(name, entry{body: body, fetched: g.Now()})
		return body, nil
	case errors.Is(err, gitstore.ErrNotFound):
		g.put(name, entry{notFound: true, fetched: g.Now()})
		return nil, err
	default:
		// Backend trouble: report it and leave the expired entry in
		// place so the next read tries again.
		return nil, err
	}
}

// Invalidate drops the cached entry for name, forcing the next read to hit
// the store. Called after deletions so the admin sees their effect.
func (g *Gate) Invalidate(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, name)
}

func (g *Gate) put(name string, e entry) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entries[name] = e
}

func (g *Gate) windowFor(e entry) time.Duration {
	if e.notFound {
		if g.NotFoundWindow > 0 {
			return g.NotFoundWindow
		}
		return DefaultNotFoundWindow
	}
	if g.Window > 0 {
		return g.Window
	}
	return DefaultWindow
}
