package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// These tests are integration tests and require a running MongoDB instance.
// Set MONGODB_URI in the environment before running them.

func TestConnectAndCreateIndexes(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set; skipping integration test")
	}

	ctx := context.Background()
	c, err := Connect(ctx, Options{
		URI:            uri,
		Database:       "authapi_test",
		ConnectRetries: 2,
		ConnectBackoff: 100 * time.Millisecond,
		Logger:         zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("failed to connect to DB: %v", err)
	}
	defer func() {
		_ = c.UsersCollection().Drop(context.Background())
		_ = c.Close(context.Background())
		if got := c.State(); got != Disconnected {
			t.Errorf("state after Close = %d, want %d", got, Disconnected)
		}
	}()

	if got := c.State(); got != Connected {
		t.Fatalf("state after Connect = %d, want %d", got, Connected)
	}

	if err := c.CreateIndexes(ctx); err != nil {
		t.Fatalf("CreateIndexes failed: %v", err)
	}
	// creating the same index twice is a no-op
	if err := c.CreateIndexes(ctx); err != nil {
		t.Fatalf("second CreateIndexes failed: %v", err)
	}
}

func TestConnect_GivesUpAfterRetries(t *testing.T) {
	if testing.Short() {
		t.Skip("slow: waits for server selection timeouts")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	start := time.Now()
	_, err := Connect(ctx, Options{
		URI:            "mongodb://127.0.0.1:1/?connectTimeoutMS=200&serverSelectionTimeoutMS=200",
		Database:       "authapi_test",
		ConnectRetries: 1,
		ConnectBackoff: 10 * time.Millisecond,
		Logger:         zerolog.Nop(),
	})
	if err == nil {
		t.Fatal("expected connect to fail against a closed port")
	}
	if time.Since(start) > 20*time.Second {
		t.Fatalf("connect did not respect the retry budget: took %s", time.Since(start))
	}
}
