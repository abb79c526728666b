// internal/app/features/teams/views.go
package teams

import (
	"context"

	"github.com/ucek-sih/internals-portal/internal/app/resources/problems"
	"github.com/ucek-sih/internals-portal/internal/domain/models"
	"github.com/ucek-sih/internals-portal/internal/domain/teamsize"
)

// memberView is one person on a team as the API presents them.
type memberView struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// statementView is the resolved problem-statement selection.
type statementView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Custom   bool   `json:"custom,omitempty"`
}

// teamView is the full team as returned to its members and leader.
type teamView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	InviteCode string `json:"inviteCode"`

	Leader  memberView   `json:"leader"`
	Members []memberView `json:"members"`

	Size           int  `json:"size"`
	MaxMembers     int  `json:"maxMembers"`
	SpotsAvailable int  `json:"spotsAvailable"`
	IsComplete     bool `json:"isComplete"`

	ProblemStatement *statementView `json:"problemStatement,omitempty"`
	Description      string         `json:"description,omitempty"`
	SkillsNeeded     []string       `json:"skillsNeeded,omitempty"`
}

// buildTeamView assembles the API shape for one team, resolving member
// names through the registration lookup.
func buildTeamView(t models.Team, lookup map[string]models.Participant, cat *problems.Catalog) teamView {
	calc := teamsize.Calc(t.LeaderUserID, t.MemberUserIDs)

	display := func(userID string) memberView {
		if p, ok := lookup[userID]; ok {
			return memberView{UserID: userID, Name: p.Name, Email: p.Email}
		}
		return memberView{UserID: userID, Name: userID, Email: userID}
	}

	members := make([]memberView, 0, len(calc.EffectiveMemberIDs))
	for _, id := range calc.EffectiveMemberIDs {
		members = append(members, display(id))
	}

	v := teamView{
		ID:             t.ID.Hex(),
		Name:           t.Name,
		InviteCode:     t.InviteCode,
		Leader:         display(t.LeaderUserID),
		Members:        members,
		Size:           calc.Size,
		MaxMembers:     teamsize.MaxMembers,
		SpotsAvailable: calc.SpotsAvailable,
		IsComplete:     calc.IsComplete,
		Description:    t.Description,
		SkillsNeeded:   t.SkillsNeeded,
	}
	if t.ProblemStatement != "" {
		resolved := cat.Resolve(t.ProblemStatement)
		v.ProblemStatement = &statementView{
			ID:       resolved.ID,
			Title:    resolved.Title,
			Category: resolved.Category,
			Custom:   resolved.Custom,
		}
	}
	return v
}

// memberLookup fetches registrations for everyone on the team.
func (h *Handler) memberLookup(ctx context.Context, t models.Team) map[string]models.Participant {
	ids := append([]string{t.LeaderUserID}, t.MemberUserIDs...)
	return h.participantLookup(ctx, ids)
}

func (h *Handler) participantLookup(ctx context.Context, ids []string) map[string]models.Participant {
	lookup := make(map[string]models.Participant)
	ps, err := h.Participants.ListByUserIDs(ctx, ids)
	if err != nil {
		h.Log.Warn("member name lookup failed")
		return lookup
	}
	for _, p := range ps {
		lookup[p.UserID] = p
	}
	return lookup
}
