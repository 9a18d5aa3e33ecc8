package handlers

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the chart endpoints on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/assets/{symbol}/charts/price", h.HandlePrice)
	r.Get("/assets/{symbol}/charts/drawdown", h.HandleDrawdown)
	r.Get("/assets/{symbol}/charts/returns", h.HandleReturns)
	r.Get("/charts/compare", h.HandleCompare)
}
