package decrees

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches decree routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/decretos", h.List)
	r.Post("/decretos", h.Create)
	r.Get("/decretos/{id}", h.Show)
	r.Put("/decretos/{id}", h.Update)
	r.Delete("/decretos/{id}", h.Delete)
}
