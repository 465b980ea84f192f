package gitstore

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryCreateOnly(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rev, err := m.PutObject(ctx, "demo/metadata.json", []byte("{}"), "")
	if err != nil {
		t.Fatalf("create-only put: %v", err)
	}
	if rev == "" {
		t.Fatal("create-only put returned an empty revision")
	}

	if _, err := m.PutObject(ctx, "demo/metadata.json", []byte("{}"), ""); !errors.Is(err, ErrConflict) {
		t.Fatalf("second create-only put returned %v, want ErrConflict", err)
	}
}

func TestMemoryGuardedUpdate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rev1, _ := m.PutObject(ctx, "demo/code.html", []byte("v1"), "")
	rev2, err := m.PutObject(ctx, "demo/code.html", []byte("v2"), rev1)
	if err != nil {
		t.Fatalf("guarded update: %v", err)
	}
	if rev2 == rev1 {
		t.Error("update did not change the revision")
	}

	// Reusing the old revision must fail now.
	if _, err := m.PutObject(ctx, "demo/code.html", []byte("v3"), rev1); !errors.Is(err, ErrConflict) {
		t.Fatalf("stale-revision put returned %v, want ErrConflict", err)
	}

	obj, err := m.GetObject(ctx, "demo/code.html")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(obj.Data) != "v2" {
		t.Errorf("content = %q, want %q", obj.Data, "v2")
	}
	if obj.Revision != rev2 {
		t.Errorf("revision = %q, want %q", obj.Revision, rev2)
	}
}

func TestMemoryListDirectory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.ListDirectory(ctx, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty root listing returned %v, want ErrNotFound", err)
	}

	m.PutObject(ctx, "README.md", []byte("hi"), "")
	m.PutObject(ctx, "beta/metadata.json", []byte("{}"), "")
	m.PutObject(ctx, "alpha/metadata.json", []byte("{}"), "")
	m.PutObject(ctx, "alpha/code.html", []byte("<p>"), "")

	entries, err := m.ListDirectory(ctx, "")
	if err != nil {
		t.Fatalf("list root: %v", err)
	}
	want := []Entry{
		{Name: "README.md", Kind: KindFile},
		{Name: "alpha", Kind: KindDir},
		{Name: "beta", Kind: KindDir},
	}
	if len(entries) != len(want) {
		t.Fatalf("root has %d entries, want %d: %v", len(entries), len(want), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, entries[i], want[i])
		}
	}

	sub, err := m.ListDirectory(ctx, "alpha")
	if err != nil {
		t.Fatalf("list alpha: %v", err)
	}
	if len(sub) != 2 || sub[0].Name != "code.html" || sub[1].Name != "metadata.json" {
		t.Errorf("alpha entries = %v", sub)
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rev, _ := m.PutObject(ctx, "demo/metadata.json", []byte("{}"), "")

	if err := m.DeleteObject(ctx, "demo/metadata.json", "bogus"); !errors.Is(err, ErrConflict) {
		t.Fatalf("delete with wrong revision returned %v, want ErrConflict", err)
	}
	if err := m.DeleteObject(ctx, "demo/metadata.json", rev); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := m.DeleteObject(ctx, "demo/metadata.json", rev); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete returned %v, want ErrNotFound", err)
	}
}
