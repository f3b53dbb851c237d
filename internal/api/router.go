// internal/api/router.go
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Router wires every route of the application.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(h.logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/static/style.css", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Write(styleCSS)
	})

	// HTML pages.
	r.Get("/", h.home)
	r.Get("/play/*", h.play)
	r.Post("/play/*", h.play)
	r.Get("/master", h.master)
	r.Post("/master", h.master)
	r.Get("/mistakes", h.mistakesReview)
	r.Post("/mistakes", h.mistakesReview)
	r.Get("/mistakes/topics", h.mistakesByTopic)
	r.Get("/mistakes/export.pdf", h.mistakesPDF)
	r.Get("/mistakes/export.csv", h.mistakesCSV)

	// One-question-at-a-time trainer.
	r.Get("/legacy", h.trainerShow)
	r.Post("/legacy", h.trainerAnswer)
	r.Get("/legacy/reset", h.trainerReset)

	// JSON API, open to browser extensions and scripts on other origins.
	r.Route("/api", func(api chi.Router) {
		api.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		api.Post("/mistake", h.apiMistake)
		api.Get("/mistakes/count", h.apiMistakesCount)
		api.Get("/mistakes/dump", h.apiMistakesDump)
	})

	return r
}
