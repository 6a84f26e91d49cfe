package api

import (
	"net/http"
	"os"

	"github.com/bilidash/collector/internal/db"
	"github.com/bilidash/collector/internal/scheduler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter creates and configures the HTTP router. webDir is served
// at the root for the static dashboard; the JSON API lives beside it.
func SetupRouter(database *db.DB, sched *scheduler.Scheduler, summaryPath, webDir string) http.Handler {
	r := chi.NewRouter()

	// Create handler
	h := NewHandler(database, sched, summaryPath)

	// JSON API routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Recoverer)
		r.Use(Logger)
		r.Use(ContentType)

		r.Get("/api/summary", h.GetSummary)
		r.Get("/runs", h.ListRuns)
		r.Post("/refresh", h.Refresh)
		r.Get("/health", h.Health)
		r.Get("/metrics", h.Metrics)
	})

	// Swagger UI (environment-gated for development only)
	// Access at http://localhost:8080/docs when ENABLE_SWAGGER=true
	if os.Getenv("ENABLE_SWAGGER") == "true" {
		r.Get("/docs/*", httpSwagger.Handler(
			httpSwagger.URL("doc.json"), // Use the embedded swagger doc
		))
	}

	// Static dashboard: a passive consumer of the summary document
	r.Group(func(r chi.Router) {
		r.Use(middleware.Recoverer)
		r.Use(Logger)
		r.Handle("/*", http.FileServer(http.Dir(webDir)))
	})

	return r
}
