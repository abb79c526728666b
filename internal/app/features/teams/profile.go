// internal/app/features/teams/profile.go
package teams

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ucek-sih/internals-portal/internal/app/system/authz"
	"github.com/ucek-sih/internals-portal/internal/app/system/httpjson"
	"github.com/ucek-sih/internals-portal/internal/app/system/timeouts"
)

type updateProfileRequest struct {
	Description  string   `json:"description"`
	SkillsNeeded []string `json:"skillsNeeded"`
}

// ServeUpdateProfile replaces the team's discovery profile (description
// and wanted skills). Leader only. Both fields are replaced wholesale;
// sending empty values clears them.
func (h *Handler) ServeUpdateProfile(w http.ResponseWriter, r *http.Request) {
	_, _, userID, _ := authz.UserCtx(r)

	var req updateProfileRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	skills := make([]string, 0, len(req.SkillsNeeded))
	for _, s := range req.SkillsNeeded {
		if v := strings.TrimSpace(h.sanitizer.Sanitize(s)); v != "" {
			skills = append(skills, v)
		}
	}
	description := strings.TrimSpace(h.sanitizer.Sanitize(req.Description))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update team profile")
	defer cancel()

	t := h.teamAsLeader(ctx, w, userID)
	if t == nil {
		return
	}
	if err := h.Teams.UpdateProfile(ctx, t.ID, userID, description, skills); err != nil {
		h.Log.Error("update team profile failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	h.Log.Info("team profile updated", zap.String("team", t.Name))
	httpjson.Write(w, http.StatusOK, map[string]any{"ok": true})
}
