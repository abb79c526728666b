// internal/app/features/discovery/routes.go
package discovery

import (
	"github.com/go-chi/chi/v5"
	"github.com/ucek-sih/internals-portal/internal/app/system/auth"
)

// Routes returns the router for team discovery endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/teams", h.ServeOpenTeams)
	r.Post("/join-request", h.ServeJoinRequest)
	r.Get("/requested", h.ServeRequested)
	return r
}
