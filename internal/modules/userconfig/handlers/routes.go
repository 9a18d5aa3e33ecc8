package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all watchlist and alert routes. Mount behind the
// auth middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/watchlists", func(r chi.Router) {
		r.Get("/", h.HandleListWatchlists)
		r.Post("/", h.HandleCreateWatchlist)
		r.Put("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if id, ok := parseID(w, chi.URLParam(r, "id")); ok {
				h.HandleUpdateWatchlist(w, r, id)
			}
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if id, ok := parseID(w, chi.URLParam(r, "id")); ok {
				h.HandleDeleteWatchlist(w, r, id)
			}
		})
	})

	r.Route("/alerts", func(r chi.Router) {
		r.Get("/", h.HandleListAlerts)
		r.Post("/", h.HandleCreateAlert)
		r.Post("/{id}/reset", func(w http.ResponseWriter, r *http.Request) {
			if id, ok := parseID(w, chi.URLParam(r, "id")); ok {
				h.HandleResetAlert(w, r, id)
			}
		})
		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			if id, ok := parseID(w, chi.URLParam(r, "id")); ok {
				h.HandleDeleteAlert(w, r, id)
			}
		})
	})
}
