package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all analysis routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/assets/{symbol}/analysis", func(w http.ResponseWriter, r *http.Request) {
		h.HandleAnalyze(w, r, chi.URLParam(r, "symbol"))
	})
	r.Get("/analysis/correlations", h.HandleCorrelations)
}
