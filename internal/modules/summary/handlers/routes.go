package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the summary endpoints on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/summary", h.HandleGet)
	r.Get("/summary/latest", h.HandleLatest)
	r.Post("/summary/generate", h.HandleGenerate)
}
