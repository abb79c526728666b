// internal/app/features/teams/requests.go
package teams

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	teamstore "github.com/ucek-sih/internals-portal/internal/app/store/teams"
	"github.com/ucek-sih/internals-portal/internal/app/system/authz"
	"github.com/ucek-sih/internals-portal/internal/app/system/httpjson"
	"github.com/ucek-sih/internals-portal/internal/app/system/timeouts"
	"github.com/ucek-sih/internals-portal/internal/domain/models"
)

// ServeListJoinRequests lists the pending requests for the caller's
// team. Leader only.
func (h *Handler) ServeListJoinRequests(w http.ResponseWriter, r *http.Request) {
	_, _, userID, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list join requests")
	defer cancel()

	t, err := h.Teams.GetByUserID(ctx, userID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, http.StatusNotFound, "You are not in a team")
		return
	}
	if err != nil {
		h.Log.Error("list join requests: team lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}
	if t.LeaderUserID != userID {
		httpjson.Error(w, http.StatusForbidden, "Only the team leader can review join requests")
		return
	}

	pending, err := h.JoinRequests.ListPendingForTeam(ctx, t.ID)
	if err != nil {
		h.Log.Error("list join requests failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}
	if pending == nil {
		pending = []models.JoinRequest{}
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"requests": pending})
}

type manageRequest struct {
	RequestID string `json:"requestId"`
	Action    string `json:"action"` // accept | reject
}

// ServeManageRequest accepts or rejects one pending join request.
// Leader only; accepting re-checks team capacity.
func (h *Handler) ServeManageRequest(w http.ResponseWriter, r *http.Request) {
	_, _, userID, _ := authz.UserCtx(r)

	var req manageRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	action := strings.ToLower(strings.TrimSpace(req.Action))
	if action != "accept" && action != "reject" {
		httpjson.Error(w, http.StatusBadRequest, "Action must be accept or reject")
		return
	}
	requestID, err := primitive.ObjectIDFromHex(req.RequestID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "manage join request")
	defer cancel()

	jr, err := h.JoinRequests.Get(ctx, requestID)
	if err == mongo.ErrNoDocuments {
		httpjson.Error(w, http.StatusNotFound, "Join request not found")
		return
	}
	if err != nil {
		h.Log.Error("manage request: lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}
	if jr.Status != models.JoinRequestPending {
		httpjson.Error(w, http.StatusConflict, "Request has already been handled")
		return
	}

	t, err := h.Teams.GetByID(ctx, jr.TeamID)
	if err != nil {
		h.Log.Error("manage request: team lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}
	if t.LeaderUserID != userID {
		httpjson.Error(w, http.StatusForbidden, "Only the team leader can manage join requests")
		return
	}

	if action == "reject" {
		if err := h.JoinRequests.UpdateStatus(ctx, jr.ID, models.JoinRequestRejected); err != nil {
			h.Log.Error("reject request failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
			return
		}
		httpjson.Write(w, http.StatusOK, map[string]any{"ok": true, "status": models.JoinRequestRejected})
		return
	}

	// Requesters who found a team elsewhere in the meantime are rejected
	// rather than double-placed.
	if _, err := h.Teams.GetByUserID(ctx, jr.UserID); err == nil {
		_ = h.JoinRequests.UpdateStatus(ctx, jr.ID, models.JoinRequestRejected)
		httpjson.Error(w, http.StatusConflict, "Requester has already joined another team")
		return
	} else if err != mongo.ErrNoDocuments {
		h.Log.Error("manage request: requester check failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	joined, err := h.Teams.AddMember(ctx, t.ID, jr.UserID)
	switch err {
	case nil:
	case teamstore.ErrTeamFull:
		httpjson.Error(w, http.StatusConflict, "Team is already full")
		return
	case teamstore.ErrAlreadyMember:
		_ = h.JoinRequests.UpdateStatus(ctx, jr.ID, models.JoinRequestRejected)
		httpjson.Error(w, http.StatusConflict, "Requester is already on the team")
		return
	default:
		h.Log.Error("accept request failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred.")
		return
	}

	if err := h.JoinRequests.UpdateStatus(ctx, jr.ID, models.JoinRequestAccepted); err != nil {
		h.Log.Warn("accept request: status update failed", zap.Error(err))
	}
	if _, err := h.JoinRequests.DeletePendingForUser(ctx, jr.UserID); err != nil {
		h.Log.Warn("accept request: stale request cleanup failed", zap.Error(err))
	}

	h.Log.Info("join request accepted",
		zap.String("team", t.Name),
		zap.String("user", jr.UserID))
	httpjson.Write(w, http.StatusOK, map[string]any{
		"ok":     true,
		"status": models.JoinRequestAccepted,
		"team":   buildTeamView(joined, h.memberLookup(ctx, joined), h.Catalog),
	})
}
