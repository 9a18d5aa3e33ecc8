package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all notebook routes. Mount behind the auth
// middleware.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notebook", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				if id, ok := parseID(w, chi.URLParam(r, "id")); ok {
					h.HandleGet(w, r, id)
				}
			})
			r.Put("/", func(w http.ResponseWriter, r *http.Request) {
				if id, ok := parseID(w, chi.URLParam(r, "id")); ok {
					h.HandleUpdate(w, r, id)
				}
			})
			r.Delete("/", func(w http.ResponseWriter, r *http.Request) {
				if id, ok := parseID(w, chi.URLParam(r, "id")); ok {
					h.HandleDelete(w, r, id)
				}
			})
		})
	})
}
