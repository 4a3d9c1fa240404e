// internal/app/features/sos/routes.go
package sos

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleSOS)
	return r
}
