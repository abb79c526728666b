// internal/app/store/participants/store.go
package participantstore

import (
	"context"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ucek-sih/internals-portal/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("participants")}
}

// Upsert writes the registration for p.UserID, replacing any existing
// one. Re-registering updates the profile in place; a participant has
// exactly one registration document.
func (s *Store) Upsert(ctx context.Context, p models.Participant) (models.Participant, error) {
	now := time.Now().UTC()
	p.UpdatedAt = now

	filter := bson.M{"user_id": p.UserID}
	update := bson.M{
		"$set": bson.M{
			"user_id":    p.UserID,
			"email":      p.Email,
			"name":       p.Name,
			"gender":     p.Gender,
			"fields":     p.Fields,
			"updated_at": p.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved models.Participant
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		if wafflemongo.IsDup(err) {
			// Concurrent upsert raced on the unique user_id index; the
			// document now exists, so retry as a plain update.
			return s.Upsert(ctx, p)
		}
		return models.Participant{}, err
	}
	return saved, nil
}

func (s *Store) GetByUserID(ctx context.Context, userID string) (models.Participant, error) {
	var p models.Participant
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p); err != nil {
		return models.Participant{}, err
	}
	return p, nil
}

// ListAll returns every registration, oldest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Participant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Participant
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByUserIDs returns the registrations for the given identities.
// Missing ids are simply absent from the result.
func (s *Store) ListByUserIDs(ctx context.Context, userIDs []string) ([]models.Participant, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Participant
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEmails returns every registered email address, for broadcast
// recipient lists. Blank addresses are skipped.
func (s *Store) ListEmails(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"email": 1})
	cur, err := s.c.Find(ctx, bson.M{"email": bson.M{"$nin": bson.A{"", nil}}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []struct {
		Email string `bson:"email"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(docs))
	for _, d := range docs {
		emails = append(emails, d.Email)
	}
	return emails, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
