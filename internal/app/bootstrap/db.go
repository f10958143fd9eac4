// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/lecternhq/lectern/internal/app/store/profiles"
	"github.com/lecternhq/lectern/internal/app/store/resettokens"
	"github.com/lecternhq/lectern/internal/app/system/storage"
	"github.com/lecternhq/lectern/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and the object-storage
// signer. Storage credentials are optional: absent, the signer is
// storage.Unconfigured and media issuance answers ErrNotConfigured.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}

	signer, err := storage.NewS3(ctx, appCfg.AWSRegion, appCfg.AWSAccessKeyID, appCfg.AWSSecretAccessKey)
	switch {
	case err == nil:
		deps.Storage = signer
		logger.Info("object storage signer ready", zap.String("region", appCfg.AWSRegion))
	case errors.Is(err, storage.ErrNotConfigured):
		deps.Storage = storage.Unconfigured{}
	default:
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("storage init: %w", err)
	}

	return deps, nil
}

// EnsureSchema creates the indexes the stores rely on: a unique
// identity_id per profile collection (one profile per identity within a
// role), email lookups for password reset, the notification list path,
// and the reset-token TTL.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	profileCollections := []struct {
		name     string
		fallback string
	}{
		{appCfg.StudentCollection, profilestore.DefaultStudentCollection},
		{appCfg.TeacherCollection, profilestore.DefaultTeacherCollection},
		{appCfg.SuperAdminCollection, profilestore.DefaultSuperAdminCollection},
	}
	for _, pc := range profileCollections {
		name := pc.name
		if name == "" {
			name = pc.fallback
		}
		_, err := db.Collection(name).Indexes().CreateMany(ctx, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "identity_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "email", Value: 1}},
			},
		})
		if err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", name, err)
		}
	}

	notifications := appCfg.NotificationCollection
	if notifications == "" {
		notifications = "notifications"
	}
	if _, err := db.Collection(notifications).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "identity_id", Value: 1}, {Key: "created_at", Value: -1}},
	}); err != nil {
		return fmt.Errorf("ensure indexes on %s: %w", notifications, err)
	}

	tokens := appCfg.ResetTokenCollection
	if tokens == "" {
		tokens = resettokens.DefaultCollection
	}
	if _, err := db.Collection(tokens).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
		{
			Keys: bson.D{{Key: "identity_id", Value: 1}},
		},
	}); err != nil {
		return fmt.Errorf("ensure indexes on %s: %w", tokens, err)
	}

	logger.Info("database indexes ensured")
	return nil
}
