package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio routes. Mount behind the auth
// middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portfolio", func(r chi.Router) {
		r.Get("/", h.HandleSummary)
		r.Get("/analysis", h.HandleNarrative)
		r.Put("/holdings", h.HandleSetHolding)
		r.Delete("/holdings/{symbol}", func(w http.ResponseWriter, r *http.Request) {
			h.HandleRemoveHolding(w, r, chi.URLParam(r, "symbol"))
		})
	})
}
