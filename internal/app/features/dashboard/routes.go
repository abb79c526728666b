// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for dashboard stats. Admin gating is
// applied where this is mounted.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/stats", h.ServeStats)
	return r
}
