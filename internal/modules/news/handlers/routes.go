package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all news routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/news", func(r chi.Router) {
		r.Get("/", h.HandleMarket)
		r.Post("/", h.HandleIngest)
	})
	r.Get("/assets/{symbol}/news", func(w http.ResponseWriter, r *http.Request) {
		h.HandleAssetNews(w, r, chi.URLParam(r, "symbol"))
	})
}
