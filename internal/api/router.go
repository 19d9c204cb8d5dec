package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/media-namer/backend/internal/api/handlers"
	"github.com/media-namer/backend/internal/api/middleware"
	"github.com/media-namer/backend/internal/auth"
	"github.com/media-namer/backend/internal/config"
	"github.com/media-namer/backend/internal/db"
	"github.com/media-namer/backend/internal/job"
	"github.com/media-namer/backend/internal/renamer"
)

func NewRouter(database *db.Database, jwtService *auth.JWTService, cfg *config.Config, jobQueue *job.JobQueue, svc *renamer.Service) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	// Handlers
	authHandler := handlers.NewAuthHandler(database, jwtService)
	renameHandler := handlers.NewRenameHandler(svc, jobQueue)
	jobHandler := handlers.NewJobHandler(jobQueue)
	historyHandler := handlers.NewHistoryHandler(database)

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Get("/health", healthHandler)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtService))
			r.Use(middleware.MaxBodySize(1 << 20))

			// Auth
			r.Get("/auth/me", authHandler.Me)

			// Rename
			r.Post("/rename/preview", renameHandler.Preview)
			r.Post("/rename", renameHandler.Enqueue)

			// Jobs
			r.Get("/jobs", jobHandler.ListJobs)
			r.Get("/jobs/{id}", jobHandler.GetJob)
			r.Delete("/jobs/{id}", jobHandler.CancelJob)
			r.Post("/jobs/{id}/retry", jobHandler.RetryJob)

			// History
			r.Get("/history", historyHandler.ListRenames)
		})
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
