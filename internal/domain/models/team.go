// internal/domain/models/team.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team is a six-member hackathon team.
//
// The leader is stored separately from MemberUserIDs and must never
// also appear inside it; teamsize.Calc de-duplicates defensively when
// older documents violate that. Name and InviteCode are unique across
// the system (enforced by indexes in bootstrap.EnsureSchema).
//
// ProblemStatement is either a catalog id or a team-authored custom id
// carrying the "CUSTOM_" prefix; resolution goes through
// problems.Resolve.
type Team struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	NameCI     string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	InviteCode string             `bson:"invite_code" json:"inviteCode"`

	LeaderUserID  string   `bson:"leader_user_id" json:"leaderUserId"`
	MemberUserIDs []string `bson:"member_user_ids" json:"memberUserIds"`

	ProblemStatement string   `bson:"problem_statement,omitempty" json:"problemStatement,omitempty"`
	Description      string   `bson:"description,omitempty" json:"description,omitempty"`
	SkillsNeeded     []string `bson:"skills_needed,omitempty" json:"skillsNeeded,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
