// internal/app/features/export/routes.go
package export

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the export download. Admin gating is
// applied where this is mounted.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeExport)
	return r
}
