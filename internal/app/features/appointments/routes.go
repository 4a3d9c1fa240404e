// internal/app/features/appointments/routes.go
package appointments

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
