package controller

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"pressing/internal/deploy"
	"pressing/internal/gitstore"
	"pressing/internal/page"
	"pressing/internal/regen"
	"pressing/internal/web/renderer"
	"pressing/internal/web/viewmodels"
)

// Admin serves the management area: listing, deletion and source view. The
// router wraps every route here in the auth middleware.
type Admin struct {
	Store     *page.Store
	Gate      *regen.Gate
	Notifier  *deploy.Notifier
	Templates map[string]*template.Template
	Log       zerolog.Logger
}

func (a *Admin) Register(r chi.Router) {
	r.Get("/admin", a.index)
	r.Post("/admin/delete/{name}", a.delete)
	r.Get("/admin/source/{name}", a.source)
}

func (a *Admin) index(w http.ResponseWriter, r *http.Request) {
	entries, err := a.Store.List(r.Context())
	if err != nil {
		a.Log.Error().Err(err).Msg("admin: listing pages")
		http.Error(w, "backend unavailable", http.StatusBadGateway)
		return
	}
	data := viewmodels.BuildAdmin(entries)
	if f := r.URL.Query().Get("deleted"); f != "" && page.ValidName(f) {
		data.Flash = "Deleted " + f + "."
	}
	a.render(w, "admin.html", data)
}

func (a *Admin) delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := a.Store.Delete(r.Context(), name); err != nil && !errors.Is(err, gitstore.ErrNotFound) {
		a.Log.Error().Err(err).Str("page", name).Msg("admin: deleting page")
		http.Error(w, "backend unavailable", http.StatusBadGateway)
		return
	}
	a.Gate.Invalidate(name)
	go a.Notifier.Notify("page deleted: " + name)
	http.Redirect(w, r, "/admin?deleted="+name, http.StatusSeeOther)
}

func (a *Admin) source(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rec, err := a.Store.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, gitstore.ErrNotFound) || errors.Is(err, page.ErrPartial) {
			http.NotFound(w, r)
			return
		}
		a.Log.Error().Err(err).Str("page", name).Msg("admin: fetching source")
		http.Error(w, "backend unavailable", http.StatusBadGateway)
		return
	}
	highlighted, err := renderer.HighlightHTML(rec.Body)
	if err != nil {
		a.Log.Error().Err(err).Str("page", name).Msg("admin: highlighting source")
		http.Error(w, "rendering failed", http.StatusInternalServerError)
		return
	}
	a.render(w, "source.html", viewmodels.SourceData{
		Name:   rec.Name,
		Title:  rec.Metadata.Title,
		Source: highlighted,
	})
}

func (a *Admin) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.Templates[name].ExecuteTemplate(w, "layout.html", data); err != nil {
		a.Log.Error().Err(err).Str("template", name).Msg("rendering admin template")
	}
}
