// internal/app/features/socket/routes.go
package socket

import "github.com/go-chi/chi/v5"

// Routes returns the router mounted at /ws.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Hub.ServeWS)
	return r
}
