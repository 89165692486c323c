// Package api exposes the HTTP surface for goldpen.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/yuchialin/goldpen/internal/storage"
)

// JobRunner is the slice of the scheduler the admin API drives.
type JobRunner interface {
	RunJobNow(name string) bool
	GetJobStatus() []map[string]interface{}
}

// NewRouter creates the chi router with all routes. jobs may be nil when no
// scheduler is running; the job admin endpoints then report 503.
func NewRouter(store storage.Store, jobs JobRunner) *chi.Mux {
	h := NewHandlers(store)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HealthCheck)
		r.Get("/stats", h.GetStats)

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", h.GetArticles)
			r.Get("/search", h.SearchArticles)
			r.Get("/category/{category}", h.GetArticlesByCategory)
			r.Get("/{id}", h.GetArticle)
		})

		r.Get("/categories", h.GetCategories)
		r.Get("/tags", h.GetPopularTags)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/articles/{id}/publish", h.PublishArticle)
			r.Post("/articles/{id}/archive", h.ArchiveArticle)
			r.Patch("/articles/{id}", h.UpdateArticle)
			r.Delete("/articles/{id}", h.DeleteArticle)

			r.Get("/jobs", jobStatusHandler(jobs))
			r.Post("/jobs/{name}/run", runJobHandler(jobs))
			r.Post("/generate", generateNowHandler(jobs))
		})
	})

	return r
}

func jobStatusHandler(jobs JobRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if jobs == nil {
			respondError(w, http.StatusServiceUnavailable, "Scheduler not running")
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"jobs": jobs.GetJobStatus(),
		})
	}
}

func runJobHandler(jobs JobRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if jobs == nil {
			respondError(w, http.StatusServiceUnavailable, "Scheduler not running")
			return
		}
		name := chi.URLParam(r, "name")
		if !jobs.RunJobNow(name) {
			respondError(w, http.StatusNotFound, "Unknown job: "+name)
			return
		}
		respondJSON(w, http.StatusAccepted, map[string]string{"status": "started", "job": name})
	}
}

func generateNowHandler(jobs JobRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if jobs == nil {
			respondError(w, http.StatusServiceUnavailable, "Scheduler not running")
			return
		}
		if !jobs.RunJobNow("daily-article") {
			respondError(w, http.StatusNotFound, "Generation job not registered")
			return
		}
		respondJSON(w, http.StatusAccepted, map[string]string{"status": "started", "job": "daily-article"})
	}
}
