package grid

import (
	"testing"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
)

func TestNewArrangement(t *testing.T) {
	tests := []struct {
		name    string
		items   []Item[string]
		wantErr bool
	}{
		{"empty", nil, false},
		{"valid", []Item[string]{box("a", 0, 0, 1, 1), box("b", 1, 0, 1, 1)}, false},
		{"overlap is structurally fine", []Item[string]{box("a", 0, 0, 2, 2), box("b", 1, 1, 2, 2)}, false},
		{"duplicate id", []Item[string]{box("a", 0, 0, 1, 1), box("a", 3, 3, 1, 1)}, true},
		{"empty id", []Item[string]{box("", 0, 0, 1, 1)}, true},
		{"zero width", []Item[string]{box("a", 0, 0, 0, 1)}, true},
		{"negative height", []Item[string]{box("a", 0, 0, 1, -2)}, true},
		{"negative position", []Item[string]{box("a", -1, 0, 1, 1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewArrangement(tt.items...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewArrangement() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
					t.Errorf("error code = %v, want %v", apperrors.GetCode(err), apperrors.ErrCodeInvalidInput)
				}
				return
			}
			if a.Len() != len(tt.items) {
				t.Errorf("Len() = %d, want %d", a.Len(), len(tt.items))
			}
		})
	}
}

func TestArrangementZeroValue(t *testing.T) {
	var a Arrangement[string]
	if a.Len() != 0 {
		t.Errorf("Len() = %d, want 0", a.Len())
	}
	if a.Has("x") {
		t.Error("Has() = true on zero arrangement")
	}
	b := a.With(box("x", 0, 0, 1, 1))
	if !b.Has("x") || a.Has("x") {
		t.Error("With() must add to the copy only")
	}
}

func TestArrangementImmutability(t *testing.T) {
	a := mustArrangement(t, box("a", 0, 0, 1, 1), box("b", 2, 0, 1, 1), box("c", 4, 0, 1, 1))

	moved := a.With(box("b", 2, 3, 1, 1))
	if got, _ := a.Get("b"); got.Position != (Position{2, 0}) {
		t.Errorf("original b moved to %v", got.Position)
	}
	if got, _ := moved.Get("b"); got.Position != (Position{2, 3}) {
		t.Errorf("With() b at %v, want (2,3)", got.Position)
	}
	if ids := moved.IDs(); !equalIDs(ids, []string{"a", "b", "c"}) {
		t.Errorf("With() changed order: %v", ids)
	}

	removed := a.Without("b")
	if removed.Has("b") || !a.Has("b") {
		t.Error("Without() must remove from the copy only")
	}
	if ids := removed.IDs(); !equalIDs(ids, []string{"a", "c"}) {
		t.Errorf("Without() ids = %v, want [a c]", ids)
	}
	if got, ok := removed.Get("c"); !ok || got.ID != "c" {
		t.Error("Without() broke the id index")
	}

	items := a.Items()
	items[0].Position.X = 99
	if got, _ := a.Get("a"); got.Position.X != 0 {
		t.Error("Items() must return a copy")
	}
}

func TestArrangementSameLayout(t *testing.T) {
	a := mustArrangement(t, box("a", 0, 0, 1, 1), box("b", 2, 0, 1, 1))
	b := mustArrangement(t, box("a", 0, 0, 1, 1), box("b", 2, 0, 1, 1))
	if !a.SameLayout(b) {
		t.Error("SameLayout() = false for equal arrangements")
	}
	if a.SameLayout(b.With(box("b", 2, 1, 1, 1))) {
		t.Error("SameLayout() = true after a move")
	}
	if a.SameLayout(b.Without("a")) {
		t.Error("SameLayout() = true with different lengths")
	}
}

func TestArrangementValidate(t *testing.T) {
	size := Size{Width: 10, Height: 5}

	tests := []struct {
		name          string
		items         []Item[string]
		wantErr       bool
		wantConflicts []string
		wantOOB       bool
	}{
		{"valid", []Item[string]{box("a", 0, 0, 2, 2), box("b", 2, 0, 2, 2)}, false, nil, false},
		{"tall content is fine", []Item[string]{box("a", 0, 10, 2, 2)}, false, nil, false},
		{"overlap", []Item[string]{box("a", 0, 0, 2, 2), box("b", 1, 1, 2, 2), box("c", 1, 0, 1, 1)}, true, []string{"b", "c"}, false},
		{"too wide", []Item[string]{box("a", 9, 0, 2, 2)}, true, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mustArrangement(t, tt.items...).Validate(size)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			var pe *apperrors.PlacementError
			if !apperrors.As(err, &pe) {
				t.Fatalf("Validate() error type = %T, want *PlacementError", err)
			}
			if !equalIDs(pe.ConflictIDs, tt.wantConflicts) {
				t.Errorf("ConflictIDs = %v, want %v", pe.ConflictIDs, tt.wantConflicts)
			}
			if pe.OutOfBounds != tt.wantOOB {
				t.Errorf("OutOfBounds = %v, want %v", pe.OutOfBounds, tt.wantOOB)
			}
		})
	}
}
