// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification is a per-identity message shown on the dashboard.
// Body holds sanitized HTML; raw input is cleaned before it is stored.
type Notification struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IdentityID string             `bson:"identity_id" json:"identity_id"`
	Title      string             `bson:"title" json:"title"`
	Body       string             `bson:"body" json:"body"`
	Read       bool               `bson:"read" json:"read"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
