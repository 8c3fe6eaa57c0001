package httpx

import (
	"encoding/json"
	"net/http"

	"fleetdesk/internal/config"
	"fleetdesk/internal/fleet"
	"fleetdesk/internal/http/handlers"
	middlewarex "fleetdesk/internal/http/middleware"
	"fleetdesk/internal/metrics"
	"fleetdesk/internal/services/views"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterDependencies holds all dependencies for the HTTP router
type RouterDependencies struct {
	Config  config.Cfg
	Catalog *fleet.Catalog
	Views   *views.Service
	Metrics *metrics.Collector
}

// NewRouter creates the BFF router
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":   "ok",
			"env":      deps.Config.App.Env,
			"sessions": deps.Views.Len(),
		})
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarex.TokenAuth(deps.Config.Sec.APIToken))
		r.Use(middlewarex.OrgScope)

		r.Get("/entities", handlers.ListEntities(deps.Catalog))

		r.Post("/views/{entity}", handlers.OpenView(deps.Views))
		r.Get("/views/sessions/{id}", handlers.GetView(deps.Views))
		r.Patch("/views/sessions/{id}", handlers.PatchView(deps.Views))
		r.Delete("/views/sessions/{id}", handlers.CloseView(deps.Views))

		r.Get("/records/{entity}/{id}", handlers.GetRecord(deps.Catalog))
		r.Put("/records/{entity}", handlers.SaveRecord(deps.Catalog))

		r.Get("/analytics/fuel", handlers.FuelAnalytics(deps.Catalog))
	})

	return r
}
