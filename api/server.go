/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     zap request logging (logger.Middleware)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for a browser frontend

ROUTE GROUPS:
  /api/projections/*  Saved runs and report downloads
  /api/scenarios/*    Built-in scenarios
  /api/compare        Throughput what-if
  /api/deck           Briefing deck
  /healthz            Liveness

SECURITY NOTE:
  No authentication middleware. Run behind a gateway if exposed.

SEE ALSO:
  - handlers.go: Handler implementations
  - cli/serve.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/warp/backlog-report/logger"
)

// NewRouter creates a new router with all routes configured.
// allowedOrigins configures CORS; nil allows any origin.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(logger.Middleware(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/projections", func(r chi.Router) {
			r.Get("/", h.ListProjections)
			r.Post("/", h.CreateProjection)
			r.Get("/{id}", h.GetProjection)
			r.Delete("/{id}", h.DeleteProjection)
			r.Get("/{id}/report.{format}", h.GetReport)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/{id}/projection", h.GetScenarioProjection)
		})

		r.Get("/compare", h.Compare)
		r.Get("/deck", h.GetDeck)
	})

	return r
}
