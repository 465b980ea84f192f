package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog"

	"pressing/internal/auth"
	"pressing/internal/deploy"
	"pressing/internal/gitstore"
	"pressing/internal/page"
	"pressing/internal/regen"
)

//go:embed templates
var templateFiles embed.FS

// Server holds the dependencies for the web server.
type Server struct {
	store     *page.Store
	gate      *regen.Gate
	auth      *auth.Gate
	notifier  *deploy.Notifier
	templates map[string]*template.Template
	log       zerolog.Logger
}

// NewServer creates a new server with the given dependencies.
func NewServer(store *page.Store, gate *regen.Gate, authGate *auth.Gate, notifier *deploy.Notifier, log zerolog.Logger) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Server{
		store:     store,
		gate:      gate,
		auth:      authGate,
		notifier:  notifier,
		templates: templates,
		log:       log,
	}, nil
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.routes().ServeHTTP(w, r)
}

// PageLoader adapts the content store for the serving cache. Partial records
// are served as absent on the public path; the API still reports them.
func PageLoader(store *page.Store) regen.Loader {
	return func(ctx context.Context, name string) ([]byte, error) {
		rec, err := store.Get(ctx, name)
		if err != nil {
			if errors.Is(err, page.ErrPartial) {
				return nil, fmt.Errorf("page %s: %w", name, gitstore.ErrNotFound)
			}
			return nil, err
		}
		return rec.Body, nil
	}
}

// parseTemplates pairs every page template with the shared layout.
func parseTemplates() (map[string]*template.Template, error) {
	pages := []string{"index.html", "admin.html", "login.html", "source.html", "notfound.html"}
	templates := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		t, err := template.ParseFS(templateFiles, "templates/layout.html", "templates/"+p)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", p, err)
		}
		templates[p] = t
	}
	return templates, nil
}
