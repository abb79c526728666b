// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	"go.uber.org/zap"

	participantstore "github.com/ucek-sih/internals-portal/internal/app/store/participants"
	teamstore "github.com/ucek-sih/internals-portal/internal/app/store/teams"
	"github.com/ucek-sih/internals-portal/internal/app/system/httpjson"
	"github.com/ucek-sih/internals-portal/internal/app/system/timeouts"
	"github.com/ucek-sih/internals-portal/internal/domain/teamsize"
)

// Handler serves the admin dashboard stats.
type Handler struct {
	Participants *participantstore.Store
	Teams        *teamstore.Store
	Log          *zap.Logger
}

// NewHandler creates a new dashboard Handler.
func NewHandler(participants *participantstore.Store, teams *teamstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Participants: participants, Teams: teams, Log: logger}
}

type statsResponse struct {
	Participants              int64 `json:"participants"`
	Teams                     int64 `json:"teams"`
	CompleteTeams             int   `json:"completeTeams"`
	TeamsWithProblemStatement int   `json:"teamsWithProblemStatement"`
	ParticipantsInTeams       int   `json:"participantsInTeams"`
}

// ServeStats returns the headline counts for the admin dashboard.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "dashboard stats")
	defer cancel()

	participants, err := h.Participants.Count(ctx)
	if err != nil {
		h.Log.Error("stats: participant count failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}
	teams, err := h.Teams.ListAll(ctx)
	if err != nil {
		h.Log.Error("stats: team list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	resp := statsResponse{
		Participants: participants,
		Teams:        int64(len(teams)),
	}
	for _, t := range teams {
		calc := teamsize.Calc(t.LeaderUserID, t.MemberUserIDs)
		resp.ParticipantsInTeams += calc.Size
		if calc.IsComplete {
			resp.CompleteTeams++
		}
		if t.ProblemStatement != "" {
			resp.TeamsWithProblemStatement++
		}
	}

	httpjson.Write(w, http.StatusOK, resp)
}
