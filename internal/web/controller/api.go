package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"pressing/internal/auth"
	"pressing/internal/deploy"
	"pressing/internal/gitstore"
	"pressing/internal/models"
	"pressing/internal/page"
	"pressing/internal/regen"
)

// API exposes the JSON interface under /pages.
type API struct {
	Store    *page.Store
	Gate     *regen.Gate
	Auth     *auth.Gate
	Notifier *deploy.Notifier
	Log      zerolog.Logger
}

func (a *API) Register(r chi.Router) {
	r.Route("/pages", func(r chi.Router) {
		r.Post("/", a.create)
		r.Get("/", a.list)
		r.Get("/{name}", a.get)
		r.Delete("/{name}", a.delete)
	})
}

type createPageRequest struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Body        string `json:"body"`
}

type pageResponse struct {
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Body        string    `json:"body"`
}

type partialResponse struct {
	Name    string `json:"name"`
	Partial struct {
		Metadata bool `json:"metadata"`
		Body     bool `json:"body"`
	} `json:"partial"`
}

type listResponse struct {
	Pages []models.ListEntry `json:"pages"`
	Total int                `json:"total"`
}

func (a *API) create(w http.ResponseWriter, r *http.Request) {
	var req createPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec, err := createPage(r.Context(), a.Store, req.Name, req.Title, req.Description, req.Body)
	if err != nil {
		a.writeCreateError(w, err)
		return
	}

	go a.Notifier.Notify("page created: " + rec.Name)
	writeJSON(w, http.StatusCreated, map[string]string{
		"name": rec.Name,
		"url":  "/" + rec.Name,
	})
}

func (a *API) get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	rec, err := a.Store.Get(r.Context(), name)
	if err != nil {
		var partial *page.PartialError
		switch {
		case errors.As(err, &partial):
			// Degraded record: report what exists instead of failing.
			resp := partialResponse{Name: name}
			resp.Partial.Metadata = partial.HasMetadata
			resp.Partial.Body = partial.HasBody
			writeJSON(w, http.StatusPartialContent, resp)
		case errors.Is(err, gitstore.ErrNotFound):
			writeJSONError(w, http.StatusNotFound, "page not found")
		default:
			a.Log.Error().Err(err).Str("page", name).Msg("api: fetching page")
			writeJSONError(w, http.StatusBadGateway, "backend unavailable")
		}
		return
	}

	writeJSON(w, http.StatusOK, pageResponse{
		Name:        rec.Name,
		Title:       rec.Metadata.Title,
		Description: rec.Metadata.Description,
		CreatedAt:   rec.Metadata.CreatedAt,
		Body:        string(rec.Body),
	})
}

func (a *API) list(w http.ResponseWriter, r *http.Request) {
	entries, err := a.Store.List(r.Context())
	if err != nil {
		a.Log.Error().Err(err).Msg("api: listing pages")
		writeJSONError(w, http.StatusBadGateway, "backend unavailable")
		return
	}
	if entries == nil {
		entries = []models.ListEntry{}
	}
	writeJSON(w, http.StatusOK, listResponse{Pages: entries, Total: len(entries)})
}

func (a *API) delete(w http.ResponseWriter, r *http.Request) {
	if !a.Auth.IsAdmin(r) {
		writeJSONError(w, http.StatusUnauthorized, "admin session required")
		return
	}
	name := chi.URLParam(r, "name")
	if err := a.Store.Delete(r.Context(), name); err != nil {
		if errors.Is(err, gitstore.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "page not found")
			return
		}
		a.Log.Error().Err(err).Str("page", name).Msg("api: deleting page")
		writeJSONError(w, http.StatusBadGateway, "backend unavailable")
		return
	}

	a.Gate.Invalidate(name)
	go a.Notifier.Notify("page deleted: " + name)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": name})
}

func (a *API) writeCreateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, page.ErrInvalidName):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, page.ErrAlreadyExists):
		writeJSONError(w, http.StatusConflict, err.Error())
	default:
		a.Log.Error().Err(err).Msg("api: creating page")
		writeJSONError(w, http.StatusBadGateway, "backend unavailable")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
