// internal/app/features/export/handler.go
package export

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	participantstore "github.com/ucek-sih/internals-portal/internal/app/store/participants"
	teamstore "github.com/ucek-sih/internals-portal/internal/app/store/teams"
	"github.com/ucek-sih/internals-portal/internal/app/resources/problems"
	"github.com/ucek-sih/internals-portal/internal/app/system/authz"
	"github.com/ucek-sih/internals-portal/internal/app/system/httpjson"
	"github.com/ucek-sih/internals-portal/internal/app/system/timeouts"
)

// Handler serves the admin data-export download.
type Handler struct {
	Participants *participantstore.Store
	Teams        *teamstore.Store
	Catalog      *problems.Catalog
	Log          *zap.Logger
}

// NewHandler creates a new export Handler.
func NewHandler(participants *participantstore.Store, teams *teamstore.Store, catalog *problems.Catalog, logger *zap.Logger) *Handler {
	return &Handler{
		Participants: participants,
		Teams:        teams,
		Catalog:      catalog,
		Log:          logger,
	}
}

// ServeExport streams the export in the requested format. Query
// parameters: format (excel|xlsx|csv|json, default excel) and sheets
// (all|participants|teams|analytics, default all).
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	_, userName, _, _ := authz.UserCtx(r)

	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	scope, err := ParseScope(r.URL.Query().Get("sheets"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "dashboard export")
	defer cancel()

	participants, err := h.Participants.ListAll(ctx)
	if err != nil {
		h.Log.Error("export: list participants failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}
	teams, err := h.Teams.ListAll(ctx)
	if err != nil {
		h.Log.Error("export: list teams failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	now := time.Now()
	wb := BuildExport(participants, teams, h.Catalog, now, scope)

	filename := Filename(format, now)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))

	switch format {
	case FormatJSON:
		err = WriteJSON(w, wb)
	case FormatCSV:
		err = WriteCSV(w, wb)
	default:
		err = WriteXLSX(w, wb)
	}
	if err != nil {
		// Headers are out; all we can do is log.
		h.Log.Error("export: serialize failed", zap.String("format", string(format)), zap.Error(err))
		return
	}

	h.Log.Info("data exported",
		zap.String("user", userName),
		zap.String("format", string(format)),
		zap.String("sheets", string(scope)),
		zap.Int("participants", len(participants)),
		zap.Int("teams", len(teams)))
}
