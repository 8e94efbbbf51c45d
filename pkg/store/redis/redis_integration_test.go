//go:build integration

package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/myseum/pkg/store/storetest"
)

func TestStore_Integration(t *testing.T) {
	url := os.Getenv("MYSEUM_REDIS_URL")
	if url == "" {
		t.Skip("MYSEUM_REDIS_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// A fresh prefix keeps runs isolated from each other.
	s, err := Open(ctx, url, "myseum-test-"+uuid.NewString()+":")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer s.Close()

	storetest.Run(t, s)
}
