// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureSchema creates the indexes the stores rely on.
//
// The unique indexes are load-bearing: participant upserts, team name
// and invite-code collisions, and duplicate join requests are all
// resolved by the stores catching duplicate-key errors from these
// indexes rather than by check-then-insert races.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	specs := []struct {
		collection string
		models     []mongo.IndexModel
	}{
		{
			collection: "participants",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "user_id", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
				{
					Keys: bson.D{{Key: "created_at", Value: 1}},
				},
			},
		},
		{
			collection: "teams",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "name_ci", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
				{
					Keys:    bson.D{{Key: "invite_code", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
				{
					Keys: bson.D{{Key: "leader_user_id", Value: 1}},
				},
				{
					Keys: bson.D{{Key: "member_user_ids", Value: 1}},
				},
			},
		},
		{
			collection: "join_requests",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "team_id", Value: 1}, {Key: "user_id", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
				{
					Keys: bson.D{{Key: "user_id", Value: 1}},
				},
			},
		},
		{
			collection: "oauth_states",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "state", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
				{
					// TTL cleanup; PurgeExpired covers servers where
					// TTL monitors are disabled.
					Keys:    bson.D{{Key: "expires_at", Value: 1}},
					Options: options.Index().SetExpireAfterSeconds(0),
				},
			},
		},
	}

	for _, spec := range specs {
		if _, err := db.Collection(spec.collection).Indexes().CreateMany(ctx, spec.models); err != nil {
			logger.Error("index creation failed",
				zap.String("collection", spec.collection),
				zap.Error(err))
			return fmt.Errorf("create indexes on %s: %w", spec.collection, err)
		}
	}

	logger.Info("database indexes ensured")
	return nil
}
