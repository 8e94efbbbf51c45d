package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/myseum/pkg/gallery"
	"github.com/matzehuels/myseum/pkg/grid"
	"github.com/matzehuels/myseum/pkg/placement"
	"github.com/matzehuels/myseum/pkg/session"
	"github.com/matzehuels/myseum/pkg/store"
)

func newTestEditor(t *testing.T) (editor, *gallery.Service) {
	t.Helper()
	ctx := context.Background()
	svc := gallery.NewService(store.NewMemoryStore(), nil, log.New(io.Discard))
	w, err := svc.CreateWall(ctx, local(), gallery.CreateRequest{Name: "Hallway", Width: 10, Height: 6})
	if err != nil {
		t.Fatal(err)
	}
	for _, req := range []gallery.AddRequest{
		{ID: "a", Position: &grid.Position{X: 0, Y: 0}, Size: &grid.Size{Width: 2, Height: 2}},
		{ID: "b", Position: &grid.Position{X: 3, Y: 0}, Size: &grid.Size{Width: 2, Height: 2}},
	} {
		if _, _, err := svc.AddArtwork(ctx, local(), w.ID, req); err != nil {
			t.Fatal(err)
		}
	}
	m, err := newEditor(ctx, svc, local(), w.ID)
	if err != nil {
		t.Fatal(err)
	}
	return m, svc
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to m, running any save commands to completion.
func press(t *testing.T, m editor, keys ...string) editor {
	t.Helper()
	for _, k := range keys {
		next, cmd := m.Update(key(k))
		m = next.(editor)
		for cmd != nil {
			msg := cmd()
			if _, ok := msg.(savedMsg); !ok {
				break
			}
			next, cmd = m.Update(msg)
			m = next.(editor)
		}
	}
	return m
}

func TestEditorMoveFeedback(t *testing.T) {
	m, _ := newTestEditor(t)

	m = press(t, m, "m", "right", "right", "right")
	if m.result.State != placement.Invalid {
		t.Fatalf("state = %v, want invalid", m.result.State)
	}
	if got := m.result.ConflictIDs(); len(got) != 1 || got[0] != "b" {
		t.Errorf("conflicts = %v, want [b]", got)
	}
	if view := m.View(); !strings.Contains(view, "overlaps b") {
		t.Errorf("view does not report the conflict:\n%s", view)
	}

	m = press(t, m, "enter")
	if !m.failed || !m.active() {
		t.Errorf("invalid commit: failed = %v, active = %v, want both true", m.failed, m.active())
	}

	m = press(t, m, "esc")
	if m.active() {
		t.Error("still active after esc")
	}
	if it, _ := m.result.Arrangement.Get("a"); it.Position != (grid.Position{}) {
		t.Errorf("a moved to %s after cancel", it.Position)
	}
}

func TestEditorCommitPersists(t *testing.T) {
	m, svc := newTestEditor(t)

	m = press(t, m, "m", "down", "down", "down", "enter")
	if m.active() || m.failed {
		t.Fatalf("after commit: active = %v, failed = %v (%s)", m.active(), m.failed, m.message)
	}
	if m.saving || len(m.queue) > 0 {
		t.Fatalf("save still pending")
	}

	w, err := svc.GetWall(context.Background(), local(), m.saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	it, _ := w.Item("a")
	if want := (grid.Position{X: 0, Y: 3}); it.Position != want {
		t.Errorf("stored position = %s, want %s", it.Position, want)
	}
}

func TestEditorResizeAndRemove(t *testing.T) {
	m, svc := newTestEditor(t)

	// Select b, widen it by one cell, then take it off the wall.
	m = press(t, m, "tab", "r", "right", "enter")
	w, err := svc.GetWall(context.Background(), local(), m.saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if it, _ := w.Item("b"); it.Size != (grid.Size{Width: 3, Height: 2}) {
		t.Errorf("stored size = %s, want 3x2", it.Size)
	}

	m = press(t, m, "x")
	w, err = svc.GetWall(context.Background(), local(), m.saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := w.Item("b"); ok {
		t.Error("b still stored after remove")
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestEditorRollsBackFailedSave(t *testing.T) {
	m, svc := newTestEditor(t)

	// Another client takes the spot first; the local commit then fails to
	// save and the editor reverts to the stored wall.
	if _, err := svc.MoveItem(context.Background(), local(), m.saved.ID, "b", placement.Delta{DX: -3, DY: 3}); err != nil {
		t.Fatal(err)
	}
	m = press(t, m, "m", "down", "down", "down", "enter")

	if !m.failed || !strings.HasPrefix(m.message, "save failed") {
		t.Errorf("message = %q, want a save failure", m.message)
	}
	if it, _ := m.result.Arrangement.Get("a"); it.Position != (grid.Position{}) {
		t.Errorf("a at %s after rollback, want (0,0)", it.Position)
	}
	if it, _ := m.result.Arrangement.Get("b"); it.Position != (grid.Position{X: 0, Y: 3}) {
		t.Errorf("b at %s after rollback, want (0,3)", it.Position)
	}
}

func TestEditorRequiresOwnership(t *testing.T) {
	_, svc := newTestEditor(t)
	ctx := context.Background()
	walls, err := svc.ListWalls(ctx, local(), "")
	if err != nil || len(walls) != 1 {
		t.Fatalf("ListWalls = %v, %v", walls, err)
	}

	bob := &session.Session{ID: "s2", UserID: "bob"}
	if _, err := newEditor(ctx, svc, bob, walls[0].ID); err == nil {
		t.Error("bob opened local's private wall")
	}
}
