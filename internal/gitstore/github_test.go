package gitstore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v68/github"
)

func newTestGitHub(t *testing.T, handler http.Handler) *GitHub {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := github.NewClient(srv.Client())
	base, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	client.BaseURL = base
	return NewGitHubWithClient(client, "owner", "pages", "main")
}

func TestGitHubGetObject(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/pages/contents/demo/metadata.json", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ref"); got != "main" {
			t.Errorf("ref = %q, want main", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"type":     "file",
			"name":     "metadata.json",
			"path":     "demo/metadata.json",
			"sha":      "abc123",
			"encoding": "base64",
			"content":  base64.StdEncoding.EncodeToString([]byte(`{"title":"Demo"}`)),
		})
	})

	g := newTestGitHub(t, mux)
	obj, err := g.GetObject(context.Background(), "demo/metadata.json")
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if string(obj.Data) != `{"title":"Demo"}` {
		t.Errorf("data = %q", obj.Data)
	}
	if obj.Revision != "abc123" {
		t.Errorf("revision = %q, want abc123", obj.Revision)
	}
}

func TestGitHubGetObjectMissing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})

	g := newTestGitHub(t, mux)
	_, err := g.GetObject(context.Background(), "ghost/metadata.json")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetObject returned %v, want ErrNotFound", err)
	}
}

func TestGitHubPutObjectCreateOnlyConflict(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/pages/contents/demo/metadata.json", func(w http.ResponseWriter, r *http.Request) {
		// The contents API rejects a sha-less PUT of an existing
		// file with 422.
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message":"Invalid request. \"sha\" wasn't supplied."}`)
	})

	g := newTestGitHub(t, mux)
	_, err := g.PutObject(context.Background(), "demo/metadata.json", []byte("{}"), "")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("PutObject returned %v, want ErrConflict", err)
	}
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("PutObject error %T does not carry ConflictError detail", err)
	}
	if conflict.Path != "demo/metadata.json" || conflict.ExpectedRevision != "" {
		t.Errorf("conflict detail = %+v", conflict)
	}
}

func TestGitHubPutObjectCreate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/pages/contents/demo/code.html", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		var body struct {
			Message string `json:"message"`
			Content string `json:"content"`
			Branch  string `json:"branch"`
			SHA     string `json:"sha"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.SHA != "" {
			t.Errorf("create-only put sent sha %q", body.SHA)
		}
		if body.Branch != "main" {
			t.Errorf("branch = %q, want main", body.Branch)
		}
		if body.Message == "" {
			t.Error("put sent no commit message")
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"content":{"sha":"newsha"}}`)
	})

	g := newTestGitHub(t, mux)
	rev, err := g.PutObject(context.Background(), "demo/code.html", []byte("<h1>Hi</h1>"), "")
	if err != nil {
		t.Fatalf("PutObject: %v", err)
	}
	if rev != "newsha" {
		t.Errorf("revision = %q, want newsha", rev)
	}
}

func TestGitHubErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusInternalServerError, ErrTransient},
		{http.StatusBadGateway, ErrTransient},
		{http.StatusConflict, ErrConflict},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"message":"nope"}`)
			})
			g := newTestGitHub(t, mux)
			_, err := g.GetObject(context.Background(), "demo/metadata.json")
			if !errors.Is(err, tt.want) {
				t.Fatalf("status %d mapped to %v, want %v", tt.status, err, tt.want)
			}
		})
	}
}

func TestGitHubListDirectory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/pages/contents/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"type":"dir","name":"zulu","path":"zulu"},
			{"type":"dir","name":"alpha","path":"alpha"},
			{"type":"file","name":"README.md","path":"README.md"}
		]`)
	})

	g := newTestGitHub(t, mux)
	entries, err := g.ListDirectory(context.Background(), "")
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	want := []Entry{
		{Name: "README.md", Kind: KindFile},
		{Name: "alpha", Kind: KindDir},
		{Name: "zulu", Kind: KindDir},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, entries[i], want[i])
		}
	}
}

func TestGitHubDeleteObject(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/pages/contents/demo/code.html", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		var body struct {
			SHA string `json:"sha"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.SHA != "abc123" {
			t.Errorf("sha = %q, want abc123", body.SHA)
		}
		fmt.Fprint(w, `{"commit":{"sha":"d00d"}}`)
	})

	g := newTestGitHub(t, mux)
	if err := g.DeleteObject(context.Background(), "demo/code.html", "abc123"); err != nil {
		t.Fatalf("DeleteObject: %v", err)
	}
}
