// internal/app/features/teams/routes.go
package teams

import (
	"github.com/go-chi/chi/v5"
	"github.com/ucek-sih/internals-portal/internal/app/system/auth"
)

// Routes returns the router for team lifecycle endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Post("/", h.ServeCreate)
	r.Get("/status", h.ServeStatus)
	r.Post("/join", h.ServeJoin)
	r.Post("/leave", h.ServeLeave)
	r.Put("/profile", h.ServeUpdateProfile)

	r.Get("/join-requests", h.ServeListJoinRequests)
	r.Post("/manage-request", h.ServeManageRequest)

	r.Route("/problem-statement", func(pr chi.Router) {
		pr.Get("/", h.ServeGetProblemStatement)
		pr.Post("/", h.ServeSelectProblemStatement)
		pr.Delete("/", h.ServeClearProblemStatement)
	})

	return r
}
