// internal/app/features/notifications/routes.go
package notifications

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeOne)
	r.Delete("/{id}", h.HandleMarkRead)
	return r
}
