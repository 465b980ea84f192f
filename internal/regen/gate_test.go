package regen

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"pressing/internal/gitstore"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestGate(load Loader) (*Gate, *fakeClock) {
	g := NewGate(load)
	clock := &fakeClock{now: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)}
	g.Now = func() time.Time { return clock.now }
	return g, clock
}

func TestGateServesCachedWithinWindow(t *testing.T) {
	ctx := context.Background()
	loads := 0
	g, clock := newTestGate(func(context.Context, string) ([]byte, error) {
		loads++
		return []byte(fmt.Sprintf("render %d", loads)), nil
	})

	// t=0 populates the cache.
	body, err := g.Page(ctx, "demo")
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "render 1" || loads != 1 {
		t.Fatalf("first read: body=%q loads=%d", body, loads)
	}

	// t=59s: still inside the 60s window, no backend call.
	clock.advance(59 * time.Second)
	body, _ = g.Page(ctx, "demo")
	if string(body) != "render 1" || loads != 1 {
		t.Fatalf("read at 59s: body=%q loads=%d, want cached copy and 1 load", body, loads)
	}

	// t=61s: window expired, the read triggers a reload.
	clock.advance(2 * time.Second)
	body, _ = g.Page(ctx, "demo")
	if string(body) != "render 2" || loads != 2 {
		t.Fatalf("read at 61s: body=%q loads=%d, want fresh copy and 2 loads", body, loads)
	}
}

func TestGateNotFoundUsesShortWindow(t *testing.T) {
	ctx := context.Background()
	loads := 0
	exists := false
	g, clock := newTestGate(func(_ context.Context, name string) ([]byte, error) {
		loads++
		if !exists {
			return nil, fmt.Errorf("page %s: %w", name, gitstore.ErrNotFound)
		}
		return []byte("here now"), nil
	})

	if _, err := g.Page(ctx, "soon"); !errors.Is(err, gitstore.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	// Inside the 30s not-found window the miss is served from cache.
	clock.advance(29 * time.Second)
	if _, err := g.Page(ctx, "soon"); !errors.Is(err, gitstore.ErrNotFound) {
		t.Fatalf("got %v, want cached ErrNotFound", err)
	}
	if loads != 1 {
		t.Fatalf("loads = %d, want 1 (cached miss)", loads)
	}

	// Past 30s the page is re-checked, well before the 60s window a
	// positive entry would get.
	exists = true
	clock.advance(2 * time.Second)
	body, err := g.Page(ctx, "soon")
	if err != nil {
		t.Fatalf("got %v, want the new page", err)
	}
	if string(body) != "here now" || loads != 2 {
		t.Fatalf("body=%q loads=%d", body, loads)
	}
}

func TestGateLoadFailureNotCached(t *testing.T) {
	ctx := context.Background()
	loads := 0
	g, _ := newTestGate(func(context.Context, string) ([]byte, error) {
		loads++
		if loads == 1 {
			return nil, fmt.Errorf("backend down: %w", gitstore.ErrTransient)
		}
		return []byte("ok"), nil
	})

	if _, err := g.Page(ctx, "demo"); !errors.Is(err, gitstore.ErrTransient) {
		t.Fatalf("got %v, want the load error", err)
	}
	// The failure was not cached: the very next read tries again.
	body, err := g.Page(ctx, "demo")
	if err != nil || string(body) != "ok" {
		t.Fatalf("second read: body=%q err=%v", body, err)
	}
}

func TestGateInvalidate(t *testing.T) {
	ctx := context.Background()
	loads := 0
	g, _ := newTestGate(func(context.Context, string) ([]byte, error) {
		loads++
		return []byte("x"), nil
	})

	g.Page(ctx, "demo")
	g.Invalidate("demo")
	g.Page(ctx, "demo")
	if loads != 2 {
		t.Fatalf("loads = %d, want reload after Invalidate", loads)
	}
}

func TestGateEntriesAreIndependent(t *testing.T) {
	ctx := context.Background()
	loads := map[string]int{}
	g, clock := newTestGate(func(_ context.Context, name string) ([]byte, error) {
		loads[name]++
		return []byte(name), nil
	})

	g.Page(ctx, "a")
	clock.advance(45 * time.Second)
	g.Page(ctx, "b")
	clock.advance(20 * time.Second)

	// a is past its window, b is not.
	g.Page(ctx, "a")
	g.Page(ctx, "b")
	if loads["a"] != 2 || loads["b"] != 1 {
		t.Fatalf("loads = %v, want a:2 b:1", loads)
	}
}
