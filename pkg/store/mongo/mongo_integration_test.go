//go:build integration

package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/myseum/pkg/store/storetest"
)

func TestStore_Integration(t *testing.T) {
	uri := os.Getenv("MYSEUM_MONGO_URI")
	if uri == "" {
		t.Skip("MYSEUM_MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := "myseum_test_" + uuid.NewString()[:8]
	s, err := Open(ctx, uri, db)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer func() {
		_ = s.client.Database(db).Drop(context.Background())
		s.Close()
	}()

	storetest.Run(t, s)
}
