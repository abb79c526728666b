// internal/app/features/problems/routes.go
package problems

import (
	"github.com/go-chi/chi/v5"
	"github.com/ucek-sih/internals-portal/internal/app/system/auth"
)

// Routes returns the router for the problem-statement catalog.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeGet)
	return r
}
