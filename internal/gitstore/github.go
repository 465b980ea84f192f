package gitstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/google/go-github/v68/github"
	"github.com/rs/zerolog"
)

// GitHub is an ObjectStore backed by the GitHub contents API. Every object
// is a file in a single branch of one repository; revisions are Git blob
// SHAs as reported by the API.
type GitHub struct {
	client *github.Client
	owner  string
	repo   string
	branch string
	log    zerolog.Logger
}

// NewGitHub creates a store for the given repository and branch. The token
// must be able to read and write repository contents.
func NewGitHub(owner, repo, branch, token string) (*GitHub, error) {
	if owner == "" || repo == "" {
		return nil, errors.New("gitstore: owner and repo are required")
	}
	if branch == "" {
		branch = "main"
	}
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHub{
		client: client,
		owner:  owner,
		repo:   repo,
		branch: branch,
		log:    zerolog.Nop(),
	}, nil
}

// NewGitHubWithClient is like NewGitHub but uses a pre-built API client.
// Used by tests to point the store at a fake server.
func NewGitHubWithClient(client *github.Client, owner, repo, branch string) *GitHub {
	return &GitHub{client: client, owner: owner, repo: repo, branch: branch, log: zerolog.Nop()}
}

// SetLogger replaces the default no-op logger.
func (g *GitHub) SetLogger(log zerolog.Logger) { g.log = log }

func (g *GitHub) GetObject(ctx context.Context, path string) (Object, error) {
	opts := &github.RepositoryContentGetOptions{Ref: g.branch}
	file, _, resp, err := g.client.Repositories.GetContents(ctx, g.owner, g.repo, path, opts)
	if err != nil {
		return Object{}, g.mapErr("get "+path, resp, err)
	}
	if file == nil {
		// The path resolved to a directory; there is no object here.
		return Object{}, fmt.Errorf("get %s: %w", path, ErrNotFound)
	}
	content, err := file.GetContent()
	if err != nil {
		return Object{}, fmt.Errorf("get %s: decoding content: %w", path, err)
	}
	return Object{Data: []byte(content), Revision: file.GetSHA()}, nil
}

func (g *GitHub) PutObject(ctx context.Context, path string, data []byte, expectedRevision string) (string, error) {
	opts := &github.RepositoryContentFileOptions{
		Content: data,
		Branch:  github.String(g.branch),
	}
	var (
		res  *github.RepositoryContentResponse
		resp *github.Response
		err  error
	)
	if expectedRevision == "" {
		opts.Message = github.String("Add " + path)
		res, resp, err = g.client.Repositories.CreateFile(ctx, g.owner, g.repo, path, opts)
	} else {
		opts.Message = github.String("Update " + path)
		opts.SHA = github.String(expectedRevision)
		res, resp, err = g.client.Repositories.UpdateFile(ctx, g.owner, g.repo, path, opts)
	}
	if err != nil {
		mapped := g.mapErr("put "+path, resp, err)
		if errors.Is(mapped, ErrConflict) {
			return "", &ConflictError{Path: path, ExpectedRevision: expectedRevision}
		}
		return "", mapped
	}
	g.log.Debug().Str("path", path).Msg("object written")
	return res.Content.GetSHA(), nil
}

func (g *GitHub) ListDirectory(ctx context.Context, path string) ([]Entry, error) {
	opts := &github.RepositoryContentGetOptions{Ref: g.branch}
	_, dir, resp, err := g.client.Repositories.GetContents(ctx, g.owner, g.repo, path, opts)
	if err != nil {
		return nil, g.mapErr("list "+path, resp, err)
	}
	if dir == nil {
		return nil, fmt.Errorf("list %s: not a directory: %w", path, ErrNotFound)
	}
	entries := make([]Entry, 0, len(dir))
	for _, item := range dir {
		kind := KindFile
		if item.GetType() == "dir" {
			kind = KindDir
		}
		entries = append(entries, Entry{Name: item.GetName(), Kind: kind})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (g *GitHub) DeleteObject(ctx context.Context, path string, expectedRevision string) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String("Delete " + path),
		SHA:     github.String(expectedRevision),
		Branch:  github.String(g.branch),
	}
	_, resp, err := g.client.Repositories.DeleteFile(ctx, g.owner, g.repo, path, opts)
	if err != nil {
		mapped := g.mapErr("delete "+path, resp, err)
		if errors.Is(mapped, ErrConflict) {
			return &ConflictError{Path: path, ExpectedRevision: expectedRevision}
		}
		return mapped
	}
	g.log.Debug().Str("path", path).Msg("object deleted")
	return nil
}

// mapErr translates an API failure into the store's error taxonomy. Rate
// limits are recognized before status codes because GitHub reports secondary
// limits as 403, which would otherwise read as a credential failure.
func (g *GitHub) mapErr(op string, resp *github.Response, err error) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("%s: %w: %v", op, ErrTransient, err)
	}
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w: %v", op, ErrUnauthorized, err)
		case http.StatusConflict, http.StatusPreconditionFailed, http.StatusUnprocessableEntity:
			// 422 is what the contents API returns when a create-only
			// write finds the file already present.
			return fmt.Errorf("%s: %w: %v", op, ErrConflict, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%s: %w: %v", op, ErrTransient, err)
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("%s: %w: %v", op, ErrTransient, err)
		}
		return fmt.Errorf("%s: %v", op, err)
	}
	// No HTTP response at all: transport-level failure, worth retrying.
	return fmt.Errorf("%s: %w: %v", op, ErrTransient, err)
}
