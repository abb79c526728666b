// internal/app/store/joinrequests/store.go
package joinrequeststore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ucek-sih/internals-portal/internal/domain/models"
)

var ErrDuplicateRequest = errors.New("a join request for this team is already pending")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("join_requests")}
}

// Create records a pending join request. The unique team+user index
// keeps a user from queueing more than one request per team.
func (s *Store) Create(ctx context.Context, jr models.JoinRequest) (models.JoinRequest, error) {
	now := time.Now().UTC()
	jr.ID = primitive.NewObjectID()
	jr.Status = models.JoinRequestPending
	jr.CreatedAt = now
	jr.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, jr); err != nil {
		if wafflemongo.IsDup(err) {
			return models.JoinRequest{}, ErrDuplicateRequest
		}
		return models.JoinRequest{}, err
	}
	return jr, nil
}

func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.JoinRequest, error) {
	var jr models.JoinRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&jr); err != nil {
		return models.JoinRequest{}, err
	}
	return jr, nil
}

// ListPendingForTeam returns the requests a leader still has to act on,
// oldest first.
func (s *Store) ListPendingForTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.JoinRequest, error) {
	filter := bson.M{"team_id": teamID, "status": models.JoinRequestPending}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.JoinRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUser returns every request the user has filed, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]models.JoinRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.JoinRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves a pending request to accepted or rejected. The
// pending filter makes the transition one-way; acting twice on the
// same request matches nothing the second time.
func (s *Store) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	if status != models.JoinRequestAccepted && status != models.JoinRequestRejected {
		return mongo.CommandError{Message: "status must be accepted or rejected"}
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.JoinRequestPending},
		bson.M{"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeletePendingForUser clears the user's pending requests, used after
// they land on a team so stale requests do not linger.
func (s *Store) DeletePendingForUser(ctx context.Context, userID string) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{
		"user_id": userID,
		"status":  models.JoinRequestPending,
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteForTeam removes every request aimed at a team, used when the
// team is dissolved.
func (s *Store) DeleteForTeam(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
