// internal/app/features/teams/problemstatement.go
package teams

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/ucek-sih/internals-portal/internal/app/resources/problems"
	"github.com/ucek-sih/internals-portal/internal/app/system/authz"
	"github.com/ucek-sih/internals-portal/internal/app/system/httpjson"
	"github.com/ucek-sih/internals-portal/internal/app/system/timeouts"
	"github.com/ucek-sih/internals-portal/internal/domain/models"
)

// ServeGetProblemStatement returns the caller's team selection,
// resolved for display. Any team member can view it.
func (h *Handler) ServeGetProblemStatement(w http.ResponseWriter, r *http.Request) {
	_, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get problem statement")
	defer cancel()

	t, err := h.Teams.GetByUserID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, http.StatusNotFound, "You are not in a team")
		return
	}
	if err != nil {
		h.Log.Error("get problem statement failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	if t.ProblemStatement == "" {
		httpjson.Write(w, http.StatusOK, map[string]any{"selected": false})
		return
	}
	resolved := h.Catalog.Resolve(t.ProblemStatement)
	httpjson.Write(w, http.StatusOK, map[string]any{
		"selected": true,
		"problemStatement": statementView{
			ID:       resolved.ID,
			Title:    resolved.Title,
			Category: resolved.Category,
			Custom:   resolved.Custom,
		},
	})
}

type selectStatementRequest struct {
	ProblemStatementID string `json:"problemStatementId"`
}

// ServeSelectProblemStatement records the team's selection. Leader
// only. Catalog ids are validated; custom ids pass through unchanged.
func (h *Handler) ServeSelectProblemStatement(w http.ResponseWriter, r *http.Request) {
	_, _, userID, _ := authz.UserCtx(r)

	var req selectStatementRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	id := strings.TrimSpace(req.ProblemStatementID)
	if id == "" {
		httpjson.Error(w, http.StatusBadRequest, "Problem statement id is required")
		return
	}
	if !strings.HasPrefix(id, problems.CustomPrefix) {
		if _, ok := h.Catalog.Get(id); !ok {
			httpjson.Error(w, http.StatusBadRequest, "Unknown problem statement id")
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "select problem statement")
	defer cancel()

	t := h.teamAsLeader(ctx, w, userID)
	if t == nil {
		return
	}
	if err := h.Teams.SetProblemStatement(ctx, t.ID, userID, id); err != nil {
		h.Log.Error("select problem statement failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	resolved := h.Catalog.Resolve(id)
	h.Log.Info("problem statement selected",
		zap.String("team", t.Name),
		zap.String("statement", id))
	httpjson.Write(w, http.StatusOK, map[string]any{
		"ok": true,
		"problemStatement": statementView{
			ID:       resolved.ID,
			Title:    resolved.Title,
			Category: resolved.Category,
			Custom:   resolved.Custom,
		},
	})
}

// ServeClearProblemStatement resets the selection. Leader only.
func (h *Handler) ServeClearProblemStatement(w http.ResponseWriter, r *http.Request) {
	_, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "clear problem statement")
	defer cancel()

	t := h.teamAsLeader(ctx, w, userID)
	if t == nil {
		return
	}
	if err := h.Teams.ClearProblemStatement(ctx, t.ID, userID); err != nil {
		h.Log.Error("clear problem statement failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"ok": true})
}

// teamAsLeader fetches the caller's team and enforces leadership,
// writing the error response itself. A nil result means the response
// is already sent.
func (h *Handler) teamAsLeader(ctx context.Context, w http.ResponseWriter, userID string) *models.Team {
	t, err := h.Teams.GetByUserID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, http.StatusNotFound, "You are not in a team")
		return nil
	}
	if err != nil {
		h.Log.Error("team lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return nil
	}
	if t.LeaderUserID != userID {
		httpjson.Error(w, http.StatusForbidden, "Only the team leader can perform this action")
		return nil
	}
	return &t
}
