package routes

import (
	"net/http"

	"github.com/atia-health/atia-backend/internal/api/handlers"
	"github.com/atia-health/atia-backend/internal/api/middleware"
	"github.com/atia-health/atia-backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	triageHandler *handlers.TriageHandler

	stagingDir string
	metrics    *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(triageHandler *handlers.TriageHandler, stagingDir string, metrics *observability.Metrics) *Router {
	return &Router{
		mux:           http.NewServeMux(),
		triageHandler: triageHandler,
		stagingDir:    stagingDir,
		metrics:       metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /{$}", r.triageHandler.Health)

	r.mux.HandleFunc("POST /atia", r.triageHandler.SubmitIntake)

	// Staged report downloads. Files are removed by the retention sweep, so a
	// stale link answers 404 rather than an error.
	if r.stagingDir != "" {
		r.mux.Handle("GET /baixar/", http.StripPrefix("/baixar/", http.FileServer(http.Dir(r.stagingDir))))
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
