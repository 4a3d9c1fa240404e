// internal/app/features/meds/routes.go
package meds

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Post("/mark", h.HandleMark)
	r.Get("/history", h.ServeHistory)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
