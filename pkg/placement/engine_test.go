package placement

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
	"github.com/matzehuels/myseum/pkg/grid"
)

func box(id string, x, y, w, h int) grid.Item[string] {
	return grid.Item[string]{ID: id, Position: grid.Position{X: x, Y: y}, Size: grid.Size{Width: w, Height: h}}
}

func newEngine(t *testing.T, size grid.Size, items ...grid.Item[string]) *Engine[string] {
	t.Helper()
	e, err := New(items, size, WithHooks(&recordingHooks{}))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return e
}

// twoItems is the 10×10 wall with item 1 at the origin and item 2 at (5,5).
func twoItems(t *testing.T) *Engine[string] {
	return newEngine(t, grid.Size{Width: 10, Height: 10}, box("1", 0, 0, 2, 2), box("2", 5, 5, 2, 2))
}

func position(t *testing.T, arr grid.Arrangement[string], id string) grid.Position {
	t.Helper()
	it, ok := arr.Get(id)
	if !ok {
		t.Fatalf("item %q missing from arrangement", id)
	}
	return it.Position
}

func placementError(t *testing.T, err error) *apperrors.PlacementError {
	t.Helper()
	var pe *apperrors.PlacementError
	if !apperrors.As(err, &pe) {
		t.Fatalf("error = %v (%T), want *PlacementError", err, err)
	}
	return pe
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestValidMove(t *testing.T) {
	e := twoItems(t)

	if err := e.BeginMove("1"); err != nil {
		t.Fatalf("BeginMove() error: %v", err)
	}
	if e.State() != Proposing {
		t.Errorf("State() = %v, want proposing", e.State())
	}

	fb, err := e.UpdateCandidate(Delta{DX: 3, DY: 3})
	if err != nil {
		t.Fatalf("UpdateCandidate() error: %v", err)
	}
	if fb.State != Valid {
		t.Errorf("State = %v, want valid", fb.State)
	}
	if fb.Candidate.Position != (grid.Position{X: 3, Y: 3}) {
		t.Errorf("Candidate.Position = %v, want (3,3)", fb.Candidate.Position)
	}
	if len(fb.Conflicts) != 0 {
		t.Errorf("Conflicts = %v, want none", fb.ConflictIDs())
	}

	arr, err := e.Commit()
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	if got := position(t, arr, "1"); got != (grid.Position{X: 3, Y: 3}) {
		t.Errorf("item 1 at %v, want (3,3)", got)
	}
	if e.State() != Idle {
		t.Errorf("State() after commit = %v, want idle", e.State())
	}
}

func TestInvalidOverlap(t *testing.T) {
	e := twoItems(t)
	before := e.Arrangement()

	_ = e.BeginMove("1")
	fb, _ := e.UpdateCandidate(Delta{DX: 5, DY: 5})
	if fb.State != Invalid {
		t.Errorf("State = %v, want invalid", fb.State)
	}
	if !equalIDs(fb.ConflictIDs(), []string{"2"}) {
		t.Errorf("Conflicts = %v, want [2]", fb.ConflictIDs())
	}

	arr, err := e.Commit()
	if !apperrors.Is(err, apperrors.ErrCodeInvalidPlacement) {
		t.Fatalf("Commit() error = %v, want INVALID_PLACEMENT", err)
	}
	pe := placementError(t, err)
	if !equalIDs(pe.ConflictIDs, []string{"2"}) || pe.OutOfBounds {
		t.Errorf("PlacementError = %+v, want conflicts [2] in bounds", pe)
	}
	if !arr.SameLayout(before) || !e.Arrangement().SameLayout(before) {
		t.Error("failed Commit() changed the arrangement")
	}
	if e.State() != Invalid {
		t.Errorf("State() after failed commit = %v, want invalid", e.State())
	}
}

func TestOutOfBounds(t *testing.T) {
	e := twoItems(t)

	_ = e.BeginMove("1")
	fb, _ := e.UpdateCandidate(Delta{DX: 9, DY: 0})
	if fb.State != Invalid {
		t.Errorf("State = %v, want invalid", fb.State)
	}
	if !fb.OutOfBounds {
		t.Error("OutOfBounds = false, want true")
	}
	if len(fb.Conflicts) != 0 {
		t.Errorf("Conflicts = %v, want none", fb.ConflictIDs())
	}

	_, err := e.Commit()
	if pe := placementError(t, err); !pe.OutOfBounds {
		t.Errorf("PlacementError.OutOfBounds = false, want true")
	}

	// Moving past the origin is out of bounds too.
	fb, _ = e.UpdateCandidate(Delta{DX: -1, DY: 0})
	if fb.State != Invalid || !fb.OutOfBounds {
		t.Errorf("negative x: State = %v OutOfBounds = %v, want invalid and true", fb.State, fb.OutOfBounds)
	}
	fb, _ = e.UpdateCandidate(Delta{DX: 0, DY: -1})
	if fb.State != Invalid || !fb.OutOfBounds {
		t.Errorf("negative y: State = %v OutOfBounds = %v, want invalid and true", fb.State, fb.OutOfBounds)
	}
}

func TestAutoHeightGrowth(t *testing.T) {
	e := newEngine(t, grid.Size{Width: 10, Height: 5}, box("1", 0, 0, 2, 2))

	_ = e.BeginMove("1")
	fb, _ := e.UpdateCandidate(Delta{DX: 0, DY: 8})
	if fb.State != Valid {
		t.Fatalf("State = %v, want valid (height is a soft bound)", fb.State)
	}
	if fb.GrowsTo != 10 {
		t.Errorf("GrowsTo = %d, want 10", fb.GrowsTo)
	}
	if e.GridSize().Height != 5 {
		t.Errorf("GridSize() changed before commit: %v", e.GridSize())
	}

	if _, err := e.Commit(); err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	if got := e.GridSize(); got.Height < 10 || got.Width != 10 {
		t.Errorf("GridSize() = %v, want 10x10 or taller", got)
	}
}

func TestHydrationGrowsHeight(t *testing.T) {
	e := newEngine(t, grid.Size{Width: 10, Height: 5}, box("a", 0, 6, 2, 3))
	if got := e.GridSize(); got != (grid.Size{Width: 10, Height: 9}) {
		t.Errorf("GridSize() = %v, want 10x9", got)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name  string
		size  grid.Size
		items []grid.Item[string]
		code  apperrors.Code
	}{
		{"zero size", grid.Size{}, nil, apperrors.ErrCodeInvalidInput},
		{"duplicate ids", grid.Size{Width: 10, Height: 10}, []grid.Item[string]{box("a", 0, 0, 1, 1), box("a", 2, 2, 1, 1)}, apperrors.ErrCodeInvalidInput},
		{"overlap", grid.Size{Width: 10, Height: 10}, []grid.Item[string]{box("a", 0, 0, 2, 2), box("b", 1, 1, 2, 2)}, apperrors.ErrCodeInvalidPlacement},
		{"too wide", grid.Size{Width: 4, Height: 10}, []grid.Item[string]{box("a", 3, 0, 2, 2)}, apperrors.ErrCodeInvalidPlacement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.items, tt.size)
			if !apperrors.Is(err, tt.code) {
				t.Errorf("New() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestCancelRestoresArrangement(t *testing.T) {
	deltas := map[string]*Delta{
		"proposing": nil,
		"valid":     {DX: 1, DY: 1},
		"invalid":   {DX: 5, DY: 5},
	}

	for name, d := range deltas {
		t.Run(name, func(t *testing.T) {
			e := twoItems(t)
			before := e.Arrangement()
			sizeBefore := e.GridSize()

			_ = e.BeginMove("1")
			if d != nil {
				_, _ = e.UpdateCandidate(*d)
			}
			if e.State().String() != name {
				t.Fatalf("State() = %v, want %s", e.State(), name)
			}
			e.Cancel()

			if e.State() != Idle {
				t.Errorf("State() = %v, want idle", e.State())
			}
			if !e.Arrangement().SameLayout(before) {
				t.Error("Cancel() changed the arrangement")
			}
			if e.GridSize() != sizeBefore {
				t.Errorf("GridSize() = %v, want %v", e.GridSize(), sizeBefore)
			}
			if _, _, _, ok := e.Active(); ok {
				t.Error("Active() reports an interaction after Cancel()")
			}

			// Cancel from Idle is a no-op.
			e.Cancel()
			if !e.Arrangement().SameLayout(before) {
				t.Error("second Cancel() changed the arrangement")
			}
		})
	}
}

func TestStateMachineErrors(t *testing.T) {
	tests := []struct {
		name string
		run  func(e *Engine[string]) error
		code apperrors.Code
	}{
		{"begin unknown item", func(e *Engine[string]) error { return e.BeginMove("nope") }, apperrors.ErrCodeNotFound},
		{"resize unknown item", func(e *Engine[string]) error { return e.BeginResize("nope", Right) }, apperrors.ErrCodeNotFound},
		{"resize without edge", func(e *Engine[string]) error { return e.BeginResize("1", NoEdge) }, apperrors.ErrCodeInvalidInput},
		{"update while idle", func(e *Engine[string]) error {
			_, err := e.UpdateCandidate(Delta{DX: 1})
			return err
		}, apperrors.ErrCodeNoActiveInteraction},
		{"commit while idle", func(e *Engine[string]) error {
			_, err := e.Commit()
			return err
		}, apperrors.ErrCodeNoActiveInteraction},
		{"begin while active", func(e *Engine[string]) error {
			_ = e.BeginMove("1")
			return e.BeginMove("2")
		}, apperrors.ErrCodeConflictingInteraction},
		{"same item twice", func(e *Engine[string]) error {
			_ = e.BeginMove("1")
			return e.BeginResize("1", Bottom)
		}, apperrors.ErrCodeConflictingInteraction},
		{"add while active", func(e *Engine[string]) error {
			_ = e.BeginMove("1")
			_, err := e.AddItem(box("3", 8, 0, 1, 1))
			return err
		}, apperrors.ErrCodeConflictingInteraction},
		{"remove while active", func(e *Engine[string]) error {
			_ = e.BeginResize("1", Right)
			_, err := e.RemoveItem("2")
			return err
		}, apperrors.ErrCodeConflictingInteraction},
		{"place while active", func(e *Engine[string]) error {
			_ = e.BeginMove("2")
			_, err := e.PlaceItem(box("3", 0, 0, 1, 1))
			return err
		}, apperrors.ErrCodeConflictingInteraction},
		{"commit without update", func(e *Engine[string]) error {
			_ = e.BeginMove("1")
			_, err := e.Commit()
			return err
		}, apperrors.ErrCodeInvalidPlacement},
		{"remove unknown item", func(e *Engine[string]) error {
			_, err := e.RemoveItem("nope")
			return err
		}, apperrors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := twoItems(t)
			before := e.Arrangement()
			err := tt.run(e)
			if !apperrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
			if !e.Arrangement().SameLayout(before) {
				t.Error("failed operation changed the arrangement")
			}
		})
	}
}

func TestResize(t *testing.T) {
	tests := []struct {
		edge  Edge
		delta Delta
		want  grid.Item[string]
		state State
	}{
		{Right, Delta{DX: 2}, box("a", 4, 4, 5, 3), Valid},
		{Right, Delta{DX: -5}, box("a", 4, 4, 1, 3), Valid},
		{Bottom, Delta{DY: 1}, box("a", 4, 4, 3, 4), Valid},
		{Bottom, Delta{DX: 7, DY: -9}, box("a", 4, 4, 3, 1), Valid},
		{Left, Delta{DX: 1}, box("a", 5, 4, 2, 3), Valid},
		{Left, Delta{DX: -2}, box("a", 2, 4, 5, 3), Valid},
		{Left, Delta{DX: 10}, box("a", 6, 4, 1, 3), Valid},
		{Left, Delta{DX: -5}, box("a", -1, 4, 8, 3), Invalid},
		{Top, Delta{DY: -1}, box("a", 4, 3, 3, 4), Valid},
		{Top, Delta{DY: -5}, box("a", 4, -1, 3, 8), Invalid},
		{BottomRight, Delta{DX: 1, DY: 2}, box("a", 4, 4, 4, 5), Valid},
		{TopLeft, Delta{DX: -1, DY: -1}, box("a", 3, 3, 4, 4), Valid},
		{BottomLeft, Delta{DX: 1, DY: -1}, box("a", 5, 4, 2, 2), Valid},
		{TopRight, Delta{DX: -1, DY: 1}, box("a", 4, 5, 2, 2), Valid},
		{Right, Delta{DX: 14}, box("a", 4, 4, 17, 3), Invalid},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d_%d", tt.edge, tt.delta.DX, tt.delta.DY), func(t *testing.T) {
			e := newEngine(t, grid.Size{Width: 20, Height: 20}, box("a", 4, 4, 3, 3))
			if err := e.BeginResize("a", tt.edge); err != nil {
				t.Fatalf("BeginResize() error: %v", err)
			}
			fb, err := e.UpdateCandidate(tt.delta)
			if err != nil {
				t.Fatalf("UpdateCandidate() error: %v", err)
			}
			if !fb.Candidate.SameBox(tt.want) {
				t.Errorf("Candidate = %v %v, want %v %v", fb.Candidate.Position, fb.Candidate.Size, tt.want.Position, tt.want.Size)
			}
			if fb.State != tt.state {
				t.Errorf("State = %v, want %v", fb.State, tt.state)
			}
		})
	}
}

func TestResizeIntoNeighbour(t *testing.T) {
	e := newEngine(t, grid.Size{Width: 10, Height: 10}, box("a", 0, 0, 2, 2), box("b", 2, 0, 2, 2), box("c", 0, 3, 4, 1))

	_ = e.BeginResize("a", BottomRight)
	fb, _ := e.UpdateCandidate(Delta{DX: 1, DY: 1})
	if fb.State != Invalid || !equalIDs(fb.ConflictIDs(), []string{"b"}) {
		t.Errorf("State = %v Conflicts = %v, want invalid [b]", fb.State, fb.ConflictIDs())
	}
	fb, _ = e.UpdateCandidate(Delta{DX: 2, DY: 2})
	if !equalIDs(fb.ConflictIDs(), []string{"b", "c"}) {
		t.Errorf("Conflicts = %v, want every blocking item [b c]", fb.ConflictIDs())
	}
	fb, _ = e.UpdateCandidate(Delta{DX: 0, DY: 1})
	if fb.State != Valid {
		t.Errorf("State = %v, want valid (touching c at y=3)", fb.State)
	}
	arr, err := e.Commit()
	if err != nil {
		t.Fatalf("Commit() error: %v", err)
	}
	if it, _ := arr.Get("a"); it.Size != (grid.Size{Width: 2, Height: 3}) {
		t.Errorf("a size = %v, want 2x3", it.Size)
	}
}

func TestAddItem(t *testing.T) {
	tests := []struct {
		name          string
		item          grid.Item[string]
		code          apperrors.Code
		wantConflicts []string
		wantOOB       bool
	}{
		{"free slot", box("3", 2, 0, 2, 2), "", nil, false},
		{"below the grid", box("3", 0, 12, 2, 2), "", nil, false},
		{"overlaps both", box("3", 1, 1, 5, 5), apperrors.ErrCodeInvalidPlacement, []string{"1", "2"}, false},
		{"too wide", box("3", 9, 0, 2, 1), apperrors.ErrCodeInvalidPlacement, nil, true},
		{"negative position", box("3", -1, 0, 1, 1), apperrors.ErrCodeInvalidPlacement, nil, true},
		{"duplicate id", box("2", 8, 0, 1, 1), apperrors.ErrCodeInvalidInput, nil, false},
		{"empty id", box("", 8, 0, 1, 1), apperrors.ErrCodeInvalidInput, nil, false},
		{"zero size", box("3", 8, 0, 0, 1), apperrors.ErrCodeInvalidInput, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := twoItems(t)
			before := e.Arrangement()
			arr, err := e.AddItem(tt.item)

			if tt.code == "" {
				if err != nil {
					t.Fatalf("AddItem() error: %v", err)
				}
				if arr.Len() != 3 || arr.IDs()[2] != "3" {
					t.Errorf("AddItem() ids = %v, want item 3 appended", arr.IDs())
				}
				if err := arr.Validate(e.GridSize()); err != nil {
					t.Errorf("arrangement invalid after add: %v", err)
				}
				return
			}

			if !apperrors.Is(err, tt.code) {
				t.Fatalf("AddItem() error = %v, want code %s", err, tt.code)
			}
			if !e.Arrangement().SameLayout(before) {
				t.Error("failed AddItem() changed the arrangement")
			}
			if tt.code == apperrors.ErrCodeInvalidPlacement {
				pe := placementError(t, err)
				if !equalIDs(pe.ConflictIDs, tt.wantConflicts) || pe.OutOfBounds != tt.wantOOB {
					t.Errorf("PlacementError = %+v, want conflicts %v out of bounds %v", pe, tt.wantConflicts, tt.wantOOB)
				}
			}
		})
	}
}

func TestPlaceItem(t *testing.T) {
	e := twoItems(t)

	arr, err := e.PlaceItem(box("3", 99, 99, 3, 2))
	if err != nil {
		t.Fatalf("PlaceItem() error: %v", err)
	}
	if got := position(t, arr, "3"); got != (grid.Position{X: 2, Y: 0}) {
		t.Errorf("item 3 placed at %v, want (2,0)", got)
	}

	_, err = e.PlaceItem(box("4", 0, 0, 11, 1))
	if pe := placementError(t, err); !pe.OutOfBounds {
		t.Error("PlaceItem() of an item wider than the wall should be out of bounds")
	}
}

func TestRemoveItem(t *testing.T) {
	e := twoItems(t)
	arr, err := e.RemoveItem("1")
	if err != nil {
		t.Fatalf("RemoveItem() error: %v", err)
	}
	if arr.Has("1") || arr.Len() != 1 {
		t.Errorf("RemoveItem() ids = %v, want [2]", arr.IDs())
	}
	if err := e.BeginMove("1"); !apperrors.Is(err, apperrors.ErrCodeNotFound) {
		t.Errorf("BeginMove(removed) error = %v, want NOT_FOUND", err)
	}
}

func TestCanPlace(t *testing.T) {
	e := twoItems(t)
	before := e.Arrangement()

	if fb := e.CanPlace(box("x", 4, 4, 2, 2)); fb.State != Invalid || !equalIDs(fb.ConflictIDs(), []string{"2"}) {
		t.Errorf("CanPlace(overlap) = %v %v, want invalid [2]", fb.State, fb.ConflictIDs())
	}
	// An existing id is excluded from its own conflict check.
	if fb := e.CanPlace(box("2", 6, 6, 2, 2)); fb.State != Valid {
		t.Errorf("CanPlace(move of 2) = %v, want valid", fb.State)
	}
	if !e.Arrangement().SameLayout(before) {
		t.Error("CanPlace() changed the arrangement")
	}
}

func TestFeedbackIsACopy(t *testing.T) {
	e := twoItems(t)
	_ = e.BeginMove("1")
	fb, _ := e.UpdateCandidate(Delta{DX: 5, DY: 5})
	fb.Conflicts[0].ID = "mutated"

	if got := e.Feedback().ConflictIDs(); !equalIDs(got, []string{"2"}) {
		t.Errorf("Feedback().ConflictIDs() = %v, want [2]", got)
	}
	id, mode, edge, ok := e.Active()
	if !ok || id != "1" || mode != Move || edge != NoEdge {
		t.Errorf("Active() = %q %v %v %v, want 1 move none true", id, mode, edge, ok)
	}
}

func TestHooks(t *testing.T) {
	h := &recordingHooks{}
	e, err := New([]grid.Item[string]{box("1", 0, 0, 2, 2)}, grid.Size{Width: 10, Height: 4}, WithHooks(h))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	_ = e.BeginMove("1")
	_, _ = e.UpdateCandidate(Delta{DX: 9})
	_, _ = e.Commit()
	_, _ = e.UpdateCandidate(Delta{DY: 4})
	_, _ = e.Commit()
	_ = e.BeginResize("1", Right)
	e.Cancel()
	_, _ = e.AddItem(box("2", 3, 0, 1, 1))

	want := []string{
		"begin move",
		"candidate move false",
		"commit move error",
		"candidate move true",
		"grow 4 6",
		"commit move ok",
		"begin resize",
		"cancel resize",
		"mutation add ok",
	}
	if !equalIDs(h.events, want) {
		t.Errorf("events:\n got %v\nwant %v", h.events, want)
	}
}

// TestInvariantPreservation runs random operation sequences and checks that
// every successful step leaves a valid arrangement inside the grid width.
func TestInvariantPreservation(t *testing.T) {
	for _, threshold := range []int{0, 1} {
		t.Run(fmt.Sprintf("index_threshold_%d", threshold), func(t *testing.T) {
			r := rand.New(rand.NewPCG(42, 7))
			e, err := New[string](nil, grid.Size{Width: 12, Height: 6}, WithIndexThreshold(threshold), WithHooks(&recordingHooks{}))
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			next := 0

			for step := 0; step < 3000; step++ {
				ids := e.Arrangement().IDs()
				before := e.Arrangement()
				var failed bool

				switch op := r.IntN(10); {
				case op < 3 || len(ids) == 0:
					next++
					it := box(fmt.Sprintf("i%d", next), r.IntN(14)-1, r.IntN(10), 1+r.IntN(4), 1+r.IntN(4))
					if r.IntN(2) == 0 {
						_, err = e.AddItem(it)
					} else {
						_, err = e.PlaceItem(it)
					}
					failed = err != nil
				case op < 4:
					_, err = e.RemoveItem(ids[r.IntN(len(ids))])
					failed = err != nil
				default:
					id := ids[r.IntN(len(ids))]
					if r.IntN(2) == 0 {
						err = e.BeginMove(id)
					} else {
						err = e.BeginResize(id, Edge(1+r.IntN(8)))
					}
					if err != nil {
						t.Fatalf("step %d: begin error: %v", step, err)
					}
					for k := 0; k < 1+r.IntN(4); k++ {
						_, _ = e.UpdateCandidate(Delta{DX: r.IntN(9) - 4, DY: r.IntN(9) - 4})
					}
					if r.IntN(4) == 0 {
						e.Cancel()
						failed = true
					} else if _, err = e.Commit(); err != nil {
						failed = true
						e.Cancel()
					}
				}

				if failed && !e.Arrangement().SameLayout(before) {
					t.Fatalf("step %d: failed operation changed the arrangement", step)
				}
				if err := e.Arrangement().Validate(e.GridSize()); err != nil {
					t.Fatalf("step %d: invariant violated: %v", step, err)
				}
				if content := grid.ComputeMinimumGridSize(e.Arrangement()); content.Height > e.GridSize().Height {
					t.Fatalf("step %d: content height %d exceeds grid %v", step, content.Height, e.GridSize())
				}
				if e.State() != Idle {
					t.Fatalf("step %d: engine left in state %v", step, e.State())
				}
			}
		})
	}
}

type recordingHooks struct {
	events []string
}

func (h *recordingHooks) OnBegin(mode string) { h.events = append(h.events, "begin "+mode) }
func (h *recordingHooks) OnCandidate(mode string, valid bool, _ int) {
	h.events = append(h.events, fmt.Sprintf("candidate %s %v", mode, valid))
}
func (h *recordingHooks) OnCommit(mode string, _ time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	h.events = append(h.events, "commit "+mode+" "+status)
}
func (h *recordingHooks) OnCancel(mode string) { h.events = append(h.events, "cancel "+mode) }
func (h *recordingHooks) OnMutation(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	h.events = append(h.events, "mutation "+op+" "+status)
}
func (h *recordingHooks) OnGrow(from, to int) {
	h.events = append(h.events, fmt.Sprintf("grow %d %d", from, to))
}
