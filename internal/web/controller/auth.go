package controller

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"pressing/internal/auth"
	"pressing/internal/web/viewmodels"
)

// Auth serves the login and logout pages.
type Auth struct {
	Gate      *auth.Gate
	Templates map[string]*template.Template
	Log       zerolog.Logger
}

func (a *Auth) Register(r chi.Router) {
	r.Get("/login", a.loginForm)
	r.Post("/login", a.login)
	r.Get("/logout", a.logout)
}

func (a *Auth) loginForm(w http.ResponseWriter, r *http.Request) {
	if a.Gate.IsAdmin(r) {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}
	a.render(w, http.StatusOK, viewmodels.LoginData{})
}

func (a *Auth) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if err := a.Gate.Login(w, r, r.FormValue("password")); err != nil {
		a.render(w, http.StatusUnauthorized, viewmodels.LoginData{Error: "Wrong password."})
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (a *Auth) logout(w http.ResponseWriter, r *http.Request) {
	a.Gate.Logout(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *Auth) render(w http.ResponseWriter, status int, data viewmodels.LoginData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := a.Templates["login.html"].ExecuteTemplate(w, "layout.html", data); err != nil {
		a.Log.Error().Err(err).Msg("rendering login page")
	}
}
