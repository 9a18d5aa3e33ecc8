package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all asset routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/assets", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/search", h.HandleSearch)

		r.Route("/{symbol}", func(r chi.Router) {
			r.Get("/info", func(w http.ResponseWriter, r *http.Request) {
				h.HandleInfo(w, r, chi.URLParam(r, "symbol"))
			})
			r.Get("/history", func(w http.ResponseWriter, r *http.Request) {
				h.HandleHistory(w, r, chi.URLParam(r, "symbol"))
			})
			r.Get("/realtime", func(w http.ResponseWriter, r *http.Request) {
				h.HandleQuote(w, r, chi.URLParam(r, "symbol"))
			})
		})
	})
}
