// internal/app/features/problems/handler.go
package problems

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	catalog "github.com/ucek-sih/internals-portal/internal/app/resources/problems"
	"github.com/ucek-sih/internals-portal/internal/app/system/httpjson"
)

// Handler serves the read-only problem-statement catalog.
type Handler struct {
	Catalog *catalog.Catalog
	Log     *zap.Logger
}

// NewHandler creates a new problems Handler.
func NewHandler(c *catalog.Catalog, logger *zap.Logger) *Handler {
	return &Handler{Catalog: c, Log: logger}
}

// ServeList returns the catalog, filtered by the category, complexity,
// and search query parameters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	statements := h.Catalog.Filter(q.Get("category"), q.Get("complexity"), q.Get("search"))

	httpjson.Write(w, http.StatusOK, map[string]any{
		"categories":        h.Catalog.Categories,
		"problemStatements": statements,
		"total":             len(statements),
	})
}

// ServeGet returns one catalog statement by id.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := h.Catalog.Get(id)
	if !ok {
		httpjson.Error(w, http.StatusNotFound, "Problem statement not found")
		return
	}
	httpjson.Write(w, http.StatusOK, s)
}
