// internal/app/features/register/routes.go
package register

import (
	"github.com/go-chi/chi/v5"
	"github.com/ucek-sih/internals-portal/internal/app/system/auth"
)

// Routes returns the router for registration endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Post("/", h.ServeRegister)
	r.Get("/", h.ServeGetRegistration)
	return r
}
