// internal/app/features/teams/handler.go
package teams

import (
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/ucek-sih/internals-portal/internal/app/resources/problems"
	joinrequeststore "github.com/ucek-sih/internals-portal/internal/app/store/joinrequests"
	participantstore "github.com/ucek-sih/internals-portal/internal/app/store/participants"
	teamstore "github.com/ucek-sih/internals-portal/internal/app/store/teams"
	"github.com/ucek-sih/internals-portal/internal/app/system/authz"
	"github.com/ucek-sih/internals-portal/internal/app/system/httpjson"
	"github.com/ucek-sih/internals-portal/internal/app/system/timeouts"
	"github.com/ucek-sih/internals-portal/internal/domain/models"
)

// Handler owns the team lifecycle endpoints.
type Handler struct {
	Teams        *teamstore.Store
	Participants *participantstore.Store
	JoinRequests *joinrequeststore.Store
	Catalog      *problems.Catalog
	Log          *zap.Logger

	sanitizer *bluemonday.Policy
}

// NewHandler creates a new teams Handler.
func NewHandler(teams *teamstore.Store, participants *participantstore.Store, joinRequests *joinrequeststore.Store, catalog *problems.Catalog, logger *zap.Logger) *Handler {
	return &Handler{
		Teams:        teams,
		Participants: participants,
		JoinRequests: joinRequests,
		Catalog:      catalog,
		Log:          logger,
		sanitizer:    bluemonday.StrictPolicy(),
	}
}

type createTeamRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	SkillsNeeded []string `json:"skillsNeeded,omitempty"`
}

// ServeCreate creates a team with the caller as leader. One team per
// user; name uniqueness comes from the store.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	_, _, userID, _ := authz.UserCtx(r)

	var req createTeamRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	name := strings.TrimSpace(h.sanitizer.Sanitize(req.Name))
	if name == "" {
		httpjson.Error(w, http.StatusBadRequest, "Team name is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create team")
	defer cancel()

	if _, err := h.Teams.GetByUserID(ctx, userID); err == nil {
		httpjson.Error(w, http.StatusConflict, "You are already in a team")
		return
	} else if err != mongo.ErrNoDocuments {
		h.Log.Error("create team: membership check failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	skills := make([]string, 0, len(req.SkillsNeeded))
	for _, s := range req.SkillsNeeded {
		if v := strings.TrimSpace(h.sanitizer.Sanitize(s)); v != "" {
			skills = append(skills, v)
		}
	}

	created, err := h.Teams.Create(ctx, models.Team{
		Name:         name,
		LeaderUserID: userID,
		Description:  strings.TrimSpace(h.sanitizer.Sanitize(req.Description)),
		SkillsNeeded: skills,
	})
	if err == teamstore.ErrDuplicateTeamName {
		httpjson.Error(w, http.StatusConflict, "A team with this name already exists")
		return
	}
	if err != nil {
		h.Log.Error("create team failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	h.Log.Info("team created",
		zap.String("team", created.Name),
		zap.String("leader", userID))
	httpjson.Write(w, http.StatusCreated, buildTeamView(created, h.memberLookup(ctx, created), h.Catalog))
}

// ServeStatus reports the caller's team, if any.
func (h *Handler) ServeStatus(w http.ResponseWriter, r *http.Request) {
	_, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "team status")
	defer cancel()

	t, err := h.Teams.GetByUserID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		httpjson.Write(w, http.StatusOK, map[string]any{"inTeam": false})
		return
	}
	if err != nil {
		h.Log.Error("team status failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	role := "member"
	if t.LeaderUserID == userID {
		role = "leader"
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"inTeam": true,
		"role":   role,
		"team":   buildTeamView(t, h.memberLookup(ctx, t), h.Catalog),
	})
}

type joinRequest struct {
	InviteCode string `json:"inviteCode"`
}

// ServeJoin adds the caller to a team by invite code.
func (h *Handler) ServeJoin(w http.ResponseWriter, r *http.Request) {
	_, _, userID, _ := authz.UserCtx(r)

	var req joinRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.InviteCode) == "" {
		httpjson.Error(w, http.StatusBadRequest, "Invite code is required")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "join team")
	defer cancel()

	if _, err := h.Teams.GetByUserID(ctx, userID); err == nil {
		httpjson.Error(w, http.StatusConflict, "You are already in a team")
		return
	} else if err != mongo.ErrNoDocuments {
		h.Log.Error("join team: membership check failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	t, err := h.Teams.GetByInviteCode(ctx, req.InviteCode)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, http.StatusNotFound, "Invalid invite code")
		return
	}
	if err != nil {
		h.Log.Error("join team: code lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	joined, err := h.Teams.AddMember(ctx, t.ID, userID)
	switch err {
	case nil:
	case teamstore.ErrTeamFull:
		httpjson.Error(w, http.StatusConflict, "Team is already full")
		return
	case teamstore.ErrAlreadyMember:
		httpjson.Error(w, http.StatusConflict, "You are already on this team")
		return
	default:
		h.Log.Error("join team failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	// Joining a team makes any outstanding discovery requests moot.
	if _, err := h.JoinRequests.DeletePendingForUser(ctx, userID); err != nil {
		h.Log.Warn("join team: stale request cleanup failed", zap.Error(err))
	}

	h.Log.Info("member joined team",
		zap.String("team", joined.Name),
		zap.String("user", userID))
	httpjson.Write(w, http.StatusOK, buildTeamView(joined, h.memberLookup(ctx, joined), h.Catalog))
}

// ServeLeave removes the caller from their team. A leader with members
// still on the team cannot leave; a leader alone dissolves the team.
func (h *Handler) ServeLeave(w http.ResponseWriter, r *http.Request) {
	_, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "leave team")
	defer cancel()

	t, err := h.Teams.GetByUserID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, http.StatusNotFound, "You are not in a team")
		return
	}
	if err != nil {
		h.Log.Error("leave team: lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	if t.LeaderUserID == userID {
		if len(t.MemberUserIDs) > 0 {
			httpjson.Error(w, http.StatusBadRequest, "Leaders cannot leave while the team has members")
			return
		}
		if err := h.Teams.Delete(ctx, t.ID, userID); err != nil {
			h.Log.Error("dissolve team failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
			return
		}
		if _, err := h.JoinRequests.DeleteForTeam(ctx, t.ID); err != nil {
			h.Log.Warn("dissolve team: request cleanup failed", zap.Error(err))
		}
		h.Log.Info("team dissolved", zap.String("team", t.Name))
		httpjson.Write(w, http.StatusOK, map[string]any{"ok": true, "dissolved": true})
		return
	}

	if err := h.Teams.RemoveMember(ctx, t.ID, userID); err != nil {
		h.Log.Error("leave team failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	h.Log.Info("member left team",
		zap.String("team", t.Name),
		zap.String("user", userID))
	httpjson.Write(w, http.StatusOK, map[string]any{"ok": true})
}
