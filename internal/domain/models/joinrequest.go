// internal/domain/models/joinrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Join request statuses.
const (
	JoinRequestPending  = "pending"
	JoinRequestAccepted = "accepted"
	JoinRequestRejected = "rejected"
)

// JoinRequest records one participant asking to join one public team.
// At most one pending request may exist per (team, user) pair.
type JoinRequest struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TeamID   primitive.ObjectID `bson:"team_id" json:"teamId"`
	UserID   string             `bson:"user_id" json:"userId"`
	UserName string             `bson:"user_name" json:"userName"`
	Message  string             `bson:"message,omitempty" json:"message,omitempty"`
	Status   string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
