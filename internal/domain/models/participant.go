// internal/domain/models/participant.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Participant is one registered hackathon participant.
//
// UserID is the participant's sign-in identity (their email) and is the
// key other documents reference. Fields holds the answers to the
// admin-defined dynamic registration questions; absent keys render as
// empty strings in exports.
type Participant struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID string             `bson:"user_id" json:"userId"`
	Email  string             `bson:"email" json:"email"`
	Name   string             `bson:"name" json:"name"`
	Gender string             `bson:"gender" json:"gender"`

	Fields map[string]string `bson:"fields,omitempty" json:"fields,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
