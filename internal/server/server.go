// Package server exposes menu generation and the menu archive over a
// JSON REST API.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/alexanderramin/swimmenu/internal/app"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	generator app.GenerateUseCase
	menus     app.MenuStore
	search    app.SearchUseCase
	exports   app.ExportUseCase
	log       *slog.Logger
	router    chi.Router
}

// Deps are the use cases the handlers call.
type Deps struct {
	Generator app.GenerateUseCase
	Menus     app.MenuStore
	Search    app.SearchUseCase
	Exports   app.ExportUseCase
}

// New creates a Server with all routes configured.
func New(deps Deps, corsOrigin string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		generator: deps.Generator,
		menus:     deps.Menus,
		search:    deps.Search,
		exports:   deps.Exports,
		log:       log,
		router:    chi.NewRouter(),
	}
	s.routes(corsOrigin)
	return s
}

// FromApp builds a Server over a wired App.
func FromApp(a *app.App) *Server {
	return New(Deps{Generator: a.Generator, Menus: a.Menus, Search: a, Exports: a}, a.Config.CORSOrigin, a.Logger)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(corsOrigin string) {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS(corsOrigin))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api/v1/menus", func(r chi.Router) {
		r.Post("/", s.handleGenerate)
		r.Get("/", s.handleListMenus)
		r.Get("/search", s.handleSearch)
		r.Get("/{id}", s.handleGetMenu)
		r.Delete("/{id}", s.handleDeleteMenu)
		r.Get("/{id}/export", s.handleExport)
	})
}
