// Package resettokens manages password-reset tokens. The token value
// leaves the service only inside the reset email; what we persist is a
// bcrypt hash, so a database leak does not yield usable links. Records
// carry an expires_at TTL field and are single-use.
package resettokens

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCollection is used when configuration leaves the name blank.
	DefaultCollection = "reset_tokens"
	// DefaultExpiry is how long a reset token stays valid.
	DefaultExpiry = 15 * time.Minute
	// bcryptCost for hashing tokens.
	bcryptCost = 10
)

var (
	// ErrNotFound is returned when no live token matches.
	ErrNotFound = errors.New("reset token not found or expired")
	// ErrInvalidToken is returned when the presented token does not
	// match the stored hash.
	ErrInvalidToken = errors.New("invalid reset token")
)

// Token is a pending password-reset request.
type Token struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	IdentityID string             `bson:"identity_id"`
	Email      string             `bson:"email"`
	TokenHash  string             `bson:"token_hash"`
	ExpiresAt  time.Time          `bson:"expires_at"` // TTL index field
	CreatedAt  time.Time          `bson:"created_at"`
}

// Store manages the reset-token collection.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
}

// New binds a Store to the given collection with the given expiry.
func New(db *mongo.Database, collection string, expiry time.Duration) *Store {
	if collection == "" {
		collection = DefaultCollection
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{c: db.Collection(collection), expiry: expiry}
}

// Issue mints a fresh token for the identity, replacing any pending one,
// and returns the plaintext token for the reset email. The plaintext is
// never stored.
func (s *Store) Issue(ctx context.Context, identityID, email string) (string, error) {
	token := uuid.NewString()

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcryptCost)
	if err != nil {
		return "", err
	}

	// One pending reset per identity.
	if _, err := s.c.DeleteMany(ctx, bson.M{"identity_id": identityID}); err != nil {
		return "", err
	}

	now := time.Now()
	rec := Token{
		ID:         primitive.NewObjectID(),
		IdentityID: identityID,
		Email:      email,
		TokenHash:  string(hash),
		ExpiresAt:  now.Add(s.expiry),
		CreatedAt:  now,
	}
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return "", err
	}
	return token, nil
}

// Consume validates the presented token for the identity and deletes it
// on success, making it single-use. Returns ErrNotFound when no live
// record exists and ErrInvalidToken on a hash mismatch.
func (s *Store) Consume(ctx context.Context, identityID, token string) error {
	var rec Token
	err := s.c.FindOne(ctx, bson.M{
		"identity_id": identityID,
		"expires_at":  bson.M{"$gt": time.Now()},
	}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(rec.TokenHash), []byte(token)) != nil {
		return ErrInvalidToken
	}

	_, err = s.c.DeleteOne(ctx, bson.M{"_id": rec.ID})
	return err
}
