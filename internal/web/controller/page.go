package controller

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"pressing/internal/deploy"
	"pressing/internal/gitstore"
	"pressing/internal/models"
	"pressing/internal/page"
	"pressing/internal/regen"
	"pressing/internal/render"
	"pressing/internal/web/viewmodels"
)

// reservedNames are path segments the router claims for itself; pages may
// not shadow them.
var reservedNames = map[string]bool{
	"pages":  true,
	"admin":  true,
	"login":  true,
	"logout": true,
	"static": true,
	"home":   true,
}

// Page serves the submission form and published pages.
type Page struct {
	Store     *page.Store
	Gate      *regen.Gate
	Notifier  *deploy.Notifier
	Templates map[string]*template.Template
	Log       zerolog.Logger
}

func (p *Page) Register(r chi.Router) {
	r.Get("/", p.home)
	r.Post("/", p.create)
	r.Get("/home", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusMovedPermanently)
	})
	r.Get("/{name}", p.view)
}

func (p *Page) home(w http.ResponseWriter, r *http.Request) {
	p.renderForm(w, http.StatusOK, viewmodels.FormData{})
}

func (p *Page) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := viewmodels.FormData{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Content:     r.FormValue("content"),
	}

	_, err := createPage(r.Context(), p.Store, form.Name, form.Title, form.Description, form.Content)
	if err != nil {
		form.Error = submitError(err)
		p.renderForm(w, submitStatus(err), form)
		return
	}

	go p.Notifier.Notify("page created: " + form.Name)
	http.Redirect(w, r, "/"+form.Name, http.StatusSeeOther)
}

func (p *Page) view(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !page.ValidName(name) {
		p.notFound(w)
		return
	}
	body, err := p.Gate.Page(r.Context(), name)
	if err != nil {
		if errors.Is(err, gitstore.ErrNotFound) {
			p.notFound(w)
			return
		}
		p.Log.Error().Err(err).Str("page", name).Msg("serving page")
		http.Error(w, "temporarily unavailable", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}

func (p *Page) renderForm(w http.ResponseWriter, status int, data viewmodels.FormData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := p.Templates["index.html"].ExecuteTemplate(w, "layout.html", data); err != nil {
		p.Log.Error().Err(err).Msg("rendering form")
	}
}

func (p *Page) notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := p.Templates["notfound.html"].ExecuteTemplate(w, "layout.html", nil); err != nil {
		p.Log.Error().Err(err).Msg("rendering not found page")
	}
}

// createPage validates a submission, wraps the content in the page shell and
// persists it. Shared by the HTML form and the JSON API.
func createPage(ctx context.Context, store *page.Store, name, title, description, content string) (models.PageRecord, error) {
	switch {
	case name == "" || title == "" || content == "":
		return models.PageRecord{}, fmt.Errorf("%w: name, title and content are required", page.ErrInvalidName)
	case reservedNames[strings.ToLower(name)]:
		return models.PageRecord{}, fmt.Errorf("%w: %q is reserved", page.ErrInvalidName, name)
	case !page.ValidName(name):
		return models.PageRecord{}, fmt.Errorf("%w: %q (letters, digits and dashes only)", page.ErrInvalidName, name)
	}
	body, err := render.Shell(title, description, []byte(content))
	if err != nil {
		return models.PageRecord{}, err
	}
	return store.Create(ctx, name, title, description, body)
}

// submitError converts a create failure into user-facing form feedback.
func submitError(err error) string {
	switch {
	case errors.Is(err, page.ErrInvalidName):
		return strings.TrimPrefix(err.Error(), page.ErrInvalidName.Error()+": ")
	case errors.Is(err, page.ErrAlreadyExists):
		return "A page with that name already exists, pick another name."
	default:
		return "Something went wrong saving the page, please try again."
	}
}

func submitStatus(err error) int {
	switch {
	case errors.Is(err, page.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, page.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
