// Package notificationstore persists per-identity notifications.
package notificationstore

import (
	"context"
	"errors"
	"time"

	"github.com/lecternhq/lectern/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCollection is used when configuration leaves the name blank.
const DefaultCollection = "notifications"

// ErrNotFound is returned when a notification does not exist.
var ErrNotFound = errors.New("notification not found")

// Store manages the notifications collection.
type Store struct {
	c *mongo.Collection
}

// New binds a Store to the given collection name.
func New(db *mongo.Database, collection string) *Store {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Store{c: db.Collection(collection)}
}

// CreateInput holds the fields for a new notification. Body is expected
// to be pre-sanitized by the caller.
type CreateInput struct {
	IdentityID string
	Title      string
	Body       string
}

// Create inserts a new unread notification.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.Notification, error) {
	n := models.Notification{
		ID:         primitive.NewObjectID(),
		IdentityID: in.IdentityID,
		Title:      in.Title,
		Body:       in.Body,
		CreatedAt:  time.Now(),
	}
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notification{}, err
	}
	return n, nil
}

// ListForIdentity returns an identity's notifications, newest first.
func (s *Store) ListForIdentity(ctx context.Context, identityID string) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"identity_id": identityID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Notification
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead flags a notification as read, scoped to its owner so one
// identity cannot touch another's.
func (s *Store) MarkRead(ctx context.Context, id primitive.ObjectID, identityID string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "identity_id": identityID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
