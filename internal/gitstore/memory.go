package gitstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process ObjectStore with the same revision-precondition
// semantics as the real backend. It backs tests and `-backend memory` runs.
type Memory struct {
	mu      sync.Mutex
	objects map[string]Object
	seq     uint64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]Object)}
}

func (m *Memory) GetObject(_ context.Context, path string) (Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[path]
	if !ok {
		return Object{}, fmt.Errorf("get %s: %w", path, ErrNotFound)
	}
	data := make([]byte, len(obj.Data))
	copy(data, obj.Data)
	return Object{Data: data, Revision: obj.Revision}, nil
}

func (m *Memory) PutObject(_ context.Context, path string, data []byte, expectedRevision string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, exists := m.objects[path]
	if expectedRevision == "" {
		if exists {
			return "", &ConflictError{Path: path}
		}
	} else if !exists || cur.Revision != expectedRevision {
		return "", &ConflictError{Path: path, ExpectedRevision: expectedRevision}
	}
	m.seq++
	rev := fmt.Sprintf("%040x", m.seq)
	stored := make([]byte, len(data))
	copy(stored, data)
	m.objects[path] = Object{Data: stored, Revision: rev}
	return rev, nil
}

func (m *Memory) ListDirectory(_ context.Context, path string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := ""
	if path != "" {
		prefix = strings.TrimSuffix(path, "/") + "/"
	}
	seen := make(map[string]EntryKind)
	for key := range m.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := key[len(prefix):]
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			seen[rest[:i]] = KindDir
		} else {
			seen[rest] = KindFile
		}
	}
	// An empty repository reports its root as missing, matching the
	// hosting API's behavior for a repo with no commits.
	if len(seen) == 0 {
		return nil, fmt.Errorf("list %s: %w", path, ErrNotFound)
	}
	entries := make([]Entry, 0, len(seen))
	for name, kind := range seen {
		entries = append(entries, Entry{Name: name, Kind: kind})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (m *Memory) DeleteObject(_ context.Context, path string, expectedRevision string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, exists := m.objects[path]
	if !exists {
		return fmt.Errorf("delete %s: %w", path, ErrNotFound)
	}
	if cur.Revision != expectedRevision {
		return &ConflictError{Path: path, ExpectedRevision: expectedRevision}
	}
	delete(m.objects, path)
	return nil
}
