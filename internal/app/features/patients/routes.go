// internal/app/features/patients/routes.go
package patients

import "github.com/go-chi/chi/v5"

// Routes returns the router mounted at /patients.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	return r
}

// UploadRoutes returns the router mounted at /uploadPerson.
func UploadRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleUpload)
	return r
}
