package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all macro routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/macro", func(r chi.Router) {
		r.Get("/", h.HandleLatest)
		r.Get("/analysis", h.HandleAnalysis)
		r.Post("/sync", h.HandleSync)
		r.Get("/{code}/history", func(w http.ResponseWriter, r *http.Request) {
			h.HandleHistory(w, r, chi.URLParam(r, "code"))
		})
	})
}
