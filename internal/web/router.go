package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pressing/internal/web/controller"
	"pressing/internal/web/middleware"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.SecurityHeaders)

	r.Handle("/static/*", http.StripPrefix("/static/", StaticFileServer()))

	authController := controller.Auth{Gate: s.auth, Templates: s.templates, Log: s.log}
	authController.Register(r)

	apiController := controller.API{Store: s.store, Gate: s.gate, Auth: s.auth, Notifier: s.notifier, Log: s.log}
	apiController.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Admin(s.auth))
		adminController := controller.Admin{Store: s.store, Gate: s.gate, Notifier: s.notifier, Templates: s.templates, Log: s.log}
		adminController.Register(r)
	})

	// Registered last: the /{name} wildcard must not shadow the fixed
	// routes above. chi matches static segments first regardless.
	pageController := controller.Page{Store: s.store, Gate: s.gate, Notifier: s.notifier, Templates: s.templates, Log: s.log}
	pageController.Register(r)

	return r
}
