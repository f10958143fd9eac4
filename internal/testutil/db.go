// Package testutil provides shared helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TestMongoURIEnv names the env var that enables Mongo-backed tests.
// Unset, those tests are skipped so the suite runs without a database.
const TestMongoURIEnv = "LECTERN_TEST_MONGO_URI"

// SetupTestDB connects to the test Mongo instance and hands back a
// database unique to this test, dropped on cleanup. Skips the test when
// LECTERN_TEST_MONGO_URI is unset.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv(TestMongoURIEnv)
	if uri == "" {
		t.Skipf("%s not set; skipping Mongo-backed test", TestMongoURIEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("mongo connect: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("mongo ping: %v", err)
	}

	db := client.Database(fmt.Sprintf("lectern_test_%d", time.Now().UnixNano()))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("drop test db: %v", err)
		}
		_ = client.Disconnect(ctx)
	})

	return db
}
