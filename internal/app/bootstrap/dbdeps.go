// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/lecternhq/lectern/internal/app/system/storage"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and backend dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Storage signs and fetches media objects. storage.Unconfigured
	// when the S3 credentials are absent from configuration.
	Storage storage.Signer
}
