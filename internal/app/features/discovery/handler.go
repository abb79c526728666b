// internal/app/features/discovery/handler.go
package discovery

import (
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
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
	"github.com/ucek-sih/internals-portal/internal/domain/teamsize"
)

// Handler serves team discovery: browsing open teams and requesting to
// join them.
type Handler struct {
	Teams        *teamstore.Store
	Participants *participantstore.Store
	JoinRequests *joinrequeststore.Store
	Catalog      *problems.Catalog
	Log          *zap.Logger

	sanitizer *bluemonday.Policy
}

// NewHandler creates a new discovery Handler.
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

// openTeamView is the public listing shape; it deliberately omits the
// invite code.
type openTeamView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	LeaderName     string   `json:"leaderName"`
	Size           int      `json:"size"`
	MaxMembers     int      `json:"maxMembers"`
	SpotsAvailable int      `json:"spotsAvailable"`
	Description    string   `json:"description,omitempty"`
	SkillsNeeded   []string `json:"skillsNeeded,omitempty"`

	ProblemStatement string `json:"problemStatement,omitempty"`
}

// ServeOpenTeams lists teams that still have room.
func (h *Handler) ServeOpenTeams(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "discovery list")
	defer cancel()

	open, err := h.Teams.ListWithOpenings(ctx)
	if err != nil {
		h.Log.Error("discovery: list teams failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	leaderIDs := make([]string, 0, len(open))
	for _, t := range open {
		leaderIDs = append(leaderIDs, t.LeaderUserID)
	}
	leaders := make(map[string]models.Participant)
	if ps, err := h.Participants.ListByUserIDs(ctx, leaderIDs); err == nil {
		for _, p := range ps {
			leaders[p.UserID] = p
		}
	} else {
		h.Log.Warn("discovery: leader lookup failed", zap.Error(err))
	}

	views := make([]openTeamView, 0, len(open))
	for _, t := range open {
		calc := teamsize.Calc(t.LeaderUserID, t.MemberUserIDs)
		if calc.SpotsAvailable <= 0 {
			continue
		}
		leaderName := t.LeaderUserID
		if p, ok := leaders[t.LeaderUserID]; ok {
			leaderName = p.Name
		}
		v := openTeamView{
			ID:             t.ID.Hex(),
			Name:           t.Name,
			LeaderName:     leaderName,
			Size:           calc.Size,
			MaxMembers:     teamsize.MaxMembers,
			SpotsAvailable: calc.SpotsAvailable,
			Description:    t.Description,
			SkillsNeeded:   t.SkillsNeeded,
		}
		if t.ProblemStatement != "" {
			v.ProblemStatement = h.Catalog.Resolve(t.ProblemStatement).Title
		}
		views = append(views, v)
	}

	httpjson.Write(w, http.StatusOK, map[string]any{"teams": views})
}

type joinRequestBody struct {
	TeamID  string `json:"teamId"`
	Message string `json:"message,omitempty"`
}

// ServeJoinRequest files a pending request to join a listed team.
func (h *Handler) ServeJoinRequest(w http.ResponseWriter, r *http.Request) {
	_, userName, userID, _ := authz.UserCtx(r)

	var req joinRequestBody
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	teamID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.TeamID))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid team id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "discovery join request")
	defer cancel()

	if _, err := h.Teams.GetByUserID(ctx, userID); err == nil {
		httpjson.Error(w, http.StatusConflict, "You are already in a team")
		return
	} else if err != mongo.ErrNoDocuments {
		h.Log.Error("discovery: membership check failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	t, err := h.Teams.GetByID(ctx, teamID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, http.StatusNotFound, "Team not found")
		return
	}
	if err != nil {
		h.Log.Error("discovery: team lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}
	if !teamsize.HasRoom(t.LeaderUserID, t.MemberUserIDs) {
		httpjson.Error(w, http.StatusConflict, "Team is already full")
		return
	}

	created, err := h.JoinRequests.Create(ctx, models.JoinRequest{
		TeamID:   t.ID,
		UserID:   userID,
		UserName: userName,
		Message:  strings.TrimSpace(h.sanitizer.Sanitize(req.Message)),
	})
	if err == joinrequeststore.ErrDuplicateRequest {
		httpjson.Error(w, http.StatusConflict, "You have already requested to join this team")
		return
	}
	if err != nil {
		h.Log.Error("discovery: create request failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	h.Log.Info("join request filed",
		zap.String("team", t.Name),
		zap.String("user", userID))
	httpjson.Write(w, http.StatusCreated, created)
}

// ServeRequested lists the caller's own join requests with their
// statuses, so the browse page can mark already-requested teams.
func (h *Handler) ServeRequested(w http.ResponseWriter, r *http.Request) {
	_, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "discovery requested")
	defer cancel()

	requests, err := h.JoinRequests.ListByUser(ctx, userID)
	if err != nil {
		h.Log.Error("discovery: list own requests failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	type requestedView struct {
		TeamID string `json:"teamId"`
		Status string `json:"status"`
	}
	views := make([]requestedView, 0, len(requests))
	for _, jr := range requests {
		views = append(views, requestedView{TeamID: jr.TeamID.Hex(), Status: jr.Status})
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"requests": views})
}
