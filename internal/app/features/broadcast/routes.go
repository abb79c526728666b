// internal/app/features/broadcast/routes.go
package broadcast

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for the broadcast endpoint. Admin gating
// is applied where this is mounted.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.ServeBroadcast)
	return r
}
