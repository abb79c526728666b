// internal/app/store/teams/store.go
package teamstore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ucek-sih/internals-portal/internal/domain/models"
	"github.com/ucek-sih/internals-portal/internal/domain/teamsize"
)

var (
	ErrDuplicateTeamName = errors.New("a team with this name already exists")
	ErrTeamFull          = errors.New("team is already at full capacity")
	ErrAlreadyMember     = errors.New("user is already on this team")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teams")}
}

// Create inserts a new team led by t.LeaderUserID. The invite code is
// generated here; a supplied one is ignored. Collisions on the unique
// code index are retried with a fresh code.
func (s *Store) Create(ctx context.Context, t models.Team) (models.Team, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.NameCI = text.Fold(t.Name)
	if t.MemberUserIDs == nil {
		t.MemberUserIDs = []string{}
	}
	t.CreatedAt = now
	t.UpdatedAt = now

	for attempt := 0; attempt < 3; attempt++ {
		t.InviteCode = newInviteCode()
		_, err := s.c.InsertOne(ctx, t)
		if err == nil {
			return t, nil
		}
		if !wafflemongo.IsDup(err) {
			return models.Team{}, err
		}
		// A duplicate can be the name or the invite code; only the code
		// is worth retrying.
		if exists, nameErr := s.nameTaken(ctx, t.NameCI); nameErr == nil && exists {
			return models.Team{}, ErrDuplicateTeamName
		}
	}
	return models.Team{}, ErrDuplicateTeamName
}

func (s *Store) nameTaken(ctx context.Context, nameCI string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"name_ci": nameCI})
	return n > 0, err
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Team, error) {
	var t models.Team
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Team{}, err
	}
	return t, nil
}

// GetByUserID finds the team the user belongs to, as leader or member.
// A user is on at most one team.
func (s *Store) GetByUserID(ctx context.Context, userID string) (models.Team, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"leader_user_id": userID},
		bson.M{"member_user_ids": userID},
	}}
	var t models.Team
	if err := s.c.FindOne(ctx, filter).Decode(&t); err != nil {
		return models.Team{}, err
	}
	return t, nil
}

func (s *Store) GetByInviteCode(ctx context.Context, code string) (models.Team, error) {
	var t models.Team
	filter := bson.M{"invite_code": strings.ToUpper(strings.TrimSpace(code))}
	if err := s.c.FindOne(ctx, filter).Decode(&t); err != nil {
		return models.Team{}, err
	}
	return t, nil
}

// AddMember appends userID to the team's member list. The filter
// enforces the capacity and membership invariants atomically: the
// update matches only if the user is not already listed and the member
// list still has room beneath the six-person cap (leader included).
func (s *Store) AddMember(ctx context.Context, teamID primitive.ObjectID, userID string) (models.Team, error) {
	filter := bson.M{
		"_id":             teamID,
		"leader_user_id":  bson.M{"$ne": userID},
		"member_user_ids": bson.M{"$ne": userID},
		"$expr": bson.M{"$lt": bson.A{
			bson.M{"$size": "$member_user_ids"},
			teamsize.MaxMembers - 1,
		}},
	}
	update := bson.M{
		"$push": bson.M{"member_user_ids": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var t models.Team
	err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&t)
	if err == nil {
		return t, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.Team{}, err
	}

	// The guarded update matched nothing; look at the team to say why.
	current, getErr := s.GetByID(ctx, teamID)
	if getErr != nil {
		return models.Team{}, getErr
	}
	if current.LeaderUserID == userID {
		return models.Team{}, ErrAlreadyMember
	}
	for _, m := range current.MemberUserIDs {
		if m == userID {
			return models.Team{}, ErrAlreadyMember
		}
	}
	return models.Team{}, ErrTeamFull
}

// RemoveMember pulls userID from the member list. Removing the leader
// is not supported; a leader leaving means deleting the team.
func (s *Store) RemoveMember(ctx context.Context, teamID primitive.ObjectID, userID string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": teamID},
		bson.M{
			"$pull": bson.M{"member_user_ids": userID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes the team entirely, leader-filtered so only the leader
// can dissolve it.
func (s *Store) Delete(ctx context.Context, teamID primitive.ObjectID, leaderUserID string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": teamID, "leader_user_id": leaderUserID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetProblemStatement records the team's selection. Leader-filtered;
// members cannot change it.
func (s *Store) SetProblemStatement(ctx context.Context, teamID primitive.ObjectID, leaderUserID, statementID string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": teamID, "leader_user_id": leaderUserID},
		bson.M{"$set": bson.M{
			"problem_statement": statementID,
			"updated_at":        time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ClearProblemStatement resets the selection to none. Leader-filtered.
func (s *Store) ClearProblemStatement(ctx context.Context, teamID primitive.ObjectID, leaderUserID string) error {
	return s.SetProblemStatement(ctx, teamID, leaderUserID, "")
}

// UpdateProfile sets the discovery fields shown to browsing
// participants. Leader-filtered.
func (s *Store) UpdateProfile(ctx context.Context, teamID primitive.ObjectID, leaderUserID, description string, skillsNeeded []string) error {
	if skillsNeeded == nil {
		skillsNeeded = []string{}
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": teamID, "leader_user_id": leaderUserID},
		bson.M{"$set": bson.M{
			"description":   description,
			"skills_needed": skillsNeeded,
			"updated_at":    time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// ListAll returns every team, oldest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Team
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListWithOpenings returns teams that still have room, newest first,
// for the discovery listing.
func (s *Store) ListWithOpenings(ctx context.Context) ([]models.Team, error) {
	filter := bson.M{"$expr": bson.M{"$lt": bson.A{
		bson.M{"$size": "$member_user_ids"},
		teamsize.MaxMembers - 1,
	}}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Team
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// newInviteCode returns a short shareable code, e.g. "4F7A2C9B".
func newInviteCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}
