package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/reddy-lalith/PlayDex/cmd/playdex-api/handlers"
	"github.com/reddy-lalith/PlayDex/cmd/playdex-api/middleware"
	"github.com/reddy-lalith/PlayDex/internal/app"
)

const readyTimeout = 2 * time.Second

// NewRouter creates the API router with all routes configured.
func NewRouter(a *app.App) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceID)
	r.Use(middleware.RequestLogger(a.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(a.Config.Server.CORSOrigins))
	r.Use(chimiddleware.Timeout(a.Config.Server.WriteTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": a.Config.Observability.ServiceName,
		})
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := a.Ready(ctx); err != nil {
			a.Logger.Warn().Err(err).Msg("Readiness check failed")
			writeStatus(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"detail": err.Error(),
			})
			return
		}
		writeStatus(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	searchHandler := handlers.NewSearchHandler(a.Logger, a.Search, a.Orchestrator.Metrics())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", searchHandler.SearchGet)
		r.Post("/search", searchHandler.Search)
		r.Post("/parse", searchHandler.Parse)
		r.Get("/metrics", searchHandler.Metrics)
	})

	return r
}

func writeStatus(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
