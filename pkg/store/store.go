// Package store persists gallery walls.
//
// This package defines the [Store] interface and its in-process backends:
//   - memory: in-memory storage for tests and ephemeral servers
//   - file: one JSON document per wall, for the CLI
//
// Database backends live in subpackages (sqlite, redis, mongo) and are
// selected from configuration by the backend package.
//
// # Asynchronous persistence
//
// Placement commits never wait for storage. A [Flusher] takes committed
// snapshots, coalesces bursts per wall (the latest snapshot wins) and saves
// them in the background with retries. When a save finally fails, its
// OnError callback receives the snapshot so the caller can roll back or
// re-present the last persisted state.
package store

import (
	"context"
	"slices"
	"strings"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
	"github.com/matzehuels/myseum/pkg/wall"
)

// Backend names accepted in configuration.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists every backend name.
var Backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis, BackendMongo}

// Store is the interface for wall storage backends.
type Store interface {
	// Get returns the wall with the given id, or a WALL_NOT_FOUND error.
	Get(ctx context.Context, id string) (*wall.Wall, error)

	// Save inserts or replaces w. It bumps w's version and update time.
	Save(ctx context.Context, w *wall.Wall) error

	// Delete removes the wall, or fails with WALL_NOT_FOUND.
	Delete(ctx context.Context, id string) error

	// List returns summaries of walls owned by ownerID, most recently
	// updated first. An empty ownerID lists every wall.
	List(ctx context.Context, ownerID string) ([]wall.Summary, error)

	// Close releases backend resources.
	Close() error
}

// NotFound returns the error backends report for a missing wall.
func NotFound(id string) error {
	return apperrors.New(apperrors.ErrCodeWallNotFound, "wall %q not found", id)
}

// SortSummaries orders summaries most recently updated first, then by id.
func SortSummaries(s []wall.Summary) {
	slices.SortFunc(s, func(a, b wall.Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// CheckSave validates w before a backend writes it.
func CheckSave(w *wall.Wall) error {
	if w == nil {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "nil wall")
	}
	return w.Validate()
}
