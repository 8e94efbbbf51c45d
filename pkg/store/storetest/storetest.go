// Package storetest provides a conformance suite for store backends.
package storetest

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
	"github.com/matzehuels/myseum/pkg/grid"
	"github.com/matzehuels/myseum/pkg/store"
	"github.com/matzehuels/myseum/pkg/wall"
)

// NewWall returns a valid two-item wall owned by owner.
func NewWall(t *testing.T, owner, name string) *wall.Wall {
	t.Helper()
	w, err := wall.New(owner, name, grid.Size{Width: 20, Height: 10}, 2)
	if err != nil {
		t.Fatalf("wall.New() error: %v", err)
	}
	w.Items = []wall.Item{
		{ID: "a", Position: grid.Position{X: 0, Y: 0}, Size: grid.Size{Width: 4, Height: 5}, Payload: wall.Artwork{Title: "Study in Blue", Year: 1931}},
		{ID: "b", Position: grid.Position{X: 4, Y: 0}, Size: grid.Size{Width: 3, Height: 3}, Payload: wall.Artwork{Title: "Harbour", Frame: "oak"}},
	}
	return w
}

// Run exercises s against the Store contract. s must start empty.
func Run(t *testing.T, s store.Store) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := s.Get(ctx, "missing")
		if !apperrors.Is(err, apperrors.ErrCodeWallNotFound) {
			t.Errorf("Get(missing) error = %v, want WALL_NOT_FOUND", err)
		}
	})

	t.Run("delete missing", func(t *testing.T) {
		err := s.Delete(ctx, "missing")
		if !apperrors.Is(err, apperrors.ErrCodeWallNotFound) {
			t.Errorf("Delete(missing) error = %v, want WALL_NOT_FOUND", err)
		}
	})

	t.Run("save and get", func(t *testing.T) {
		w := NewWall(t, "alice", "Hallway")
		if err := s.Save(ctx, w); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		if w.Version != 1 {
			t.Errorf("Version after first save = %d, want 1", w.Version)
		}

		got, err := s.Get(ctx, w.ID)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if got.Name != "Hallway" || got.OwnerID != "alice" || got.Size() != w.Size() || got.Unit != w.Unit {
			t.Errorf("Get() = %+v", got)
		}
		if len(got.Items) != 2 {
			t.Fatalf("len(Items) = %d, want 2", len(got.Items))
		}
		if got.Items[0].ID != "a" || got.Items[1].ID != "b" {
			t.Errorf("item order = %s, %s, want a, b", got.Items[0].ID, got.Items[1].ID)
		}
		if got.Items[1].Payload.Frame != "oak" || got.Items[0].Payload.Year != 1931 {
			t.Errorf("payloads = %+v", got.Items)
		}
		if got.Items[0].Size != (grid.Size{Width: 4, Height: 5}) {
			t.Errorf("item a size = %v, want 4x5", got.Items[0].Size)
		}

		// Mutating the returned wall must not affect the stored one.
		got.Items[0].Position.X = 15
		again, _ := s.Get(ctx, w.ID)
		if again.Items[0].Position.X != 0 {
			t.Error("Get() returned shared state")
		}
	})

	t.Run("save replaces", func(t *testing.T) {
		w := NewWall(t, "alice", "Replace")
		if err := s.Save(ctx, w); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		w.Items = w.Items[:1]
		w.Name = "Replaced"
		if err := s.Save(ctx, w); err != nil {
			t.Fatalf("second Save() error: %v", err)
		}
		got, err := s.Get(ctx, w.ID)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if got.Name != "Replaced" || len(got.Items) != 1 || got.Version != 2 {
			t.Errorf("Get() = %q with %d items version %d, want Replaced 1 2", got.Name, len(got.Items), got.Version)
		}
	})

	t.Run("save rejects invalid", func(t *testing.T) {
		w := NewWall(t, "alice", "Broken")
		w.Items[1].Position = grid.Position{X: 1, Y: 1}
		if err := s.Save(ctx, w); !apperrors.Is(err, apperrors.ErrCodeInvalidPlacement) {
			t.Errorf("Save(overlap) error = %v, want INVALID_PLACEMENT", err)
		}
		if _, err := s.Get(ctx, w.ID); !apperrors.Is(err, apperrors.ErrCodeWallNotFound) {
			t.Errorf("invalid wall was stored: %v", err)
		}
	})

	t.Run("list", func(t *testing.T) {
		bob1 := NewWall(t, "bob", "Bob one")
		if err := s.Save(ctx, bob1); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
		bob2 := NewWall(t, "bob", "Bob two")
		if err := s.Save(ctx, bob2); err != nil {
			t.Fatalf("Save() error: %v", err)
		}

		got, err := s.List(ctx, "bob")
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("List(bob) = %d walls, want 2", len(got))
		}
		if got[0].ID != bob2.ID {
			t.Errorf("List(bob)[0] = %s, want most recent %s", got[0].Name, bob2.Name)
		}
		if got[0].ItemCount != 2 || got[0].OwnerID != "bob" {
			t.Errorf("summary = %+v", got[0])
		}

		all, err := s.List(ctx, "")
		if err != nil {
			t.Fatalf("List(all) error: %v", err)
		}
		if len(all) < 3 {
			t.Errorf("List(all) = %d walls, want at least 3", len(all))
		}

		none, err := s.List(ctx, "nobody")
		if err != nil || len(none) != 0 {
			t.Errorf("List(nobody) = %v, %v, want empty", none, err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		w := NewWall(t, "carol", "Temp")
		if err := s.Save(ctx, w); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		if err := s.Delete(ctx, w.ID); err != nil {
			t.Fatalf("Delete() error: %v", err)
		}
		if _, err := s.Get(ctx, w.ID); !apperrors.Is(err, apperrors.ErrCodeWallNotFound) {
			t.Errorf("Get(deleted) error = %v, want WALL_NOT_FOUND", err)
		}
		if list, _ := s.List(ctx, "carol"); len(list) != 0 {
			t.Errorf("List(carol) after delete = %v", list)
		}
	})
}
