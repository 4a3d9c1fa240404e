// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/dalemusser/carehub/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes returns the router mounted at /register.
func RegisterRoutes(h *Handler) chi.Router {
	r := h.router()
	r.Post("/", h.HandleRegister)
	return r
}

// LoginRoutes returns the router mounted at /login.
func LoginRoutes(h *Handler) chi.Router {
	r := h.router()
	r.Post("/", h.HandleLogin)
	return r
}

func (h *Handler) router() chi.Router {
	r := chi.NewRouter()
	if h.Limiter != nil {
		r.Use(ratelimit.Middleware(h.Limiter, h.Log))
	}
	return r
}
