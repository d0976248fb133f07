package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taskflow-hq/taskflow/internal/auth"
	"github.com/taskflow-hq/taskflow/internal/observability"
	"github.com/taskflow-hq/taskflow/internal/projects"
	"github.com/taskflow-hq/taskflow/internal/tasks"
	"github.com/taskflow-hq/taskflow/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	TokenManager    *auth.TokenManager
	AuthHandler     *auth.Handler
	ProjectsHandler *projects.Handler
	TasksHandler    *tasks.Handler
	UsersHandler    *users.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with TaskFlow defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)

		// Every data route is session gated before any read or write.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSession(params.TokenManager))
			params.ProjectsHandler.MountRoutes(r)
			params.TasksHandler.MountRoutes(r)
			params.UsersHandler.MountRoutes(r)
		})
	})

	return r
}
