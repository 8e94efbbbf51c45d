package placement

import (
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
	"github.com/matzehuels/myseum/pkg/grid"
	"github.com/matzehuels/myseum/pkg/observability"
)

// Engine is the only producer of new arrangements. It owns the current
// arrangement and grid size and runs at most one move or resize
// interaction at a time.
//
// Engine is not safe for concurrent use. Every method runs to completion
// without blocking; callers that share an engine across goroutines
// serialize access themselves.
type Engine[T any] struct {
	arrangement grid.Arrangement[T]
	size        grid.Size
	index       *grid.Index[T] // nil below the index threshold

	hooks  observability.PlacementHooks
	logger *log.Logger
	opts   options

	active *interaction[T]
}

type interaction[T any] struct {
	mode     Mode
	edge     Edge
	origin   grid.Item[T]
	started  time.Time
	feedback Feedback[T]
}

// New hydrates an engine from persisted items on a grid of the given size.
//
// Items must be structurally valid, lie within the grid width and not
// overlap; otherwise New fails with INVALID_INPUT or INVALID_PLACEMENT.
// The grid height grows to fit the items.
func New[T any](items []grid.Item[T], size grid.Size, opts ...Option) (*Engine[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if !size.IsPositive() {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "grid size must be positive, got %s", size)
	}
	arr, err := grid.NewArrangement(items...)
	if err != nil {
		return nil, err
	}
	if err := arr.Validate(size); err != nil {
		return nil, err
	}

	e := &Engine[T]{
		hooks:  o.hooks,
		logger: o.logger,
		opts:   o,
		size:   grid.GrowTo(size, grid.ComputeMinimumGridSize(arr)),
	}
	e.setArrangement(arr)
	return e, nil
}

// =============================================================================
// Accessors
// =============================================================================

// Arrangement returns the last committed arrangement.
func (e *Engine[T]) Arrangement() grid.Arrangement[T] { return e.arrangement }

// GridSize returns the current grid size, including any automatic growth.
func (e *Engine[T]) GridSize() grid.Size { return e.size }

// State returns the interaction state.
func (e *Engine[T]) State() State {
	if e.active == nil {
		return Idle
	}
	return e.active.feedback.State
}

// Feedback returns the current candidate feedback. When Idle it returns a
// zero Feedback with State Idle.
func (e *Engine[T]) Feedback() Feedback[T] {
	if e.active == nil {
		return Feedback[T]{State: Idle}
	}
	return e.active.feedback.clone()
}

// Active reports the item, mode and edge of the active interaction.
func (e *Engine[T]) Active() (id string, mode Mode, edge Edge, ok bool) {
	if e.active == nil {
		return "", 0, NoEdge, false
	}
	return e.active.origin.ID, e.active.mode, e.active.edge, true
}

// =============================================================================
// Interactions
// =============================================================================

// BeginMove starts moving the item with the given id.
func (e *Engine[T]) BeginMove(id string) error {
	return e.begin(id, Move, NoEdge)
}

// BeginResize starts resizing the item with the given id by dragging edge.
func (e *Engine[T]) BeginResize(id string, edge Edge) error {
	if edge.horizontal() == 0 && edge.vertical() == 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "resize requires an edge, got %q", edge)
	}
	return e.begin(id, Resize, edge)
}

func (e *Engine[T]) begin(id string, mode Mode, edge Edge) error {
	if e.active != nil {
		return apperrors.New(apperrors.ErrCodeConflictingInteraction,
			"item %q is already being %s", e.active.origin.ID, verb(e.active.mode))
	}
	it, ok := e.arrangement.Get(id)
	if !ok {
		return apperrors.New(apperrors.ErrCodeNotFound, "item %q not found", id)
	}
	e.active = &interaction[T]{
		mode:     mode,
		edge:     edge,
		origin:   it,
		started:  time.Now(),
		feedback: Feedback[T]{State: Proposing, Candidate: it},
	}
	e.hooks.OnBegin(mode.String())
	e.logger.Debug("interaction started", "item", id, "mode", mode, "edge", edge)
	return nil
}

// UpdateCandidate recomputes the candidate from delta, the total snapped
// pointer offset since the interaction began, and validates it against
// every other item and the grid width.
//
// Each call yields Valid or Invalid. Vertical overflow never invalidates;
// it is reported through Feedback.GrowsTo.
func (e *Engine[T]) UpdateCandidate(delta Delta) (Feedback[T], error) {
	if e.active == nil {
		return Feedback[T]{State: Idle}, apperrors.New(apperrors.ErrCodeNoActiveInteraction, "no active interaction")
	}
	a := e.active
	candidate := a.origin
	switch a.mode {
	case Move:
		candidate.Position = a.origin.Position.Add(delta.DX, delta.DY)
	case Resize:
		r := resizeRect(a.origin.Rect(), a.edge, delta)
		candidate.Position = grid.Position{X: r.X, Y: r.Y}
		candidate.Size = grid.Size{Width: r.Width, Height: r.Height}
	}
	a.feedback = e.evaluate(candidate, a.origin.ID)
	e.hooks.OnCandidate(a.mode.String(), a.feedback.State == Valid, len(a.feedback.Conflicts))
	return a.feedback.clone(), nil
}

// Commit applies a Valid candidate and returns the new arrangement. The grid
// height grows to fit the result.
//
// From Proposing or Invalid it fails with an INVALID_PLACEMENT
// [apperrors.PlacementError] and changes nothing; the interaction stays
// active so the caller may keep adjusting or cancel.
func (e *Engine[T]) Commit() (grid.Arrangement[T], error) {
	if e.active == nil {
		return e.arrangement, apperrors.New(apperrors.ErrCodeNoActiveInteraction, "no active interaction")
	}
	a := e.active
	if err := a.feedback.Err(); err != nil {
		e.hooks.OnCommit(a.mode.String(), time.Since(a.started), err)
		return e.arrangement, err
	}

	e.setArrangement(e.arrangement.With(a.feedback.Candidate))
	e.grow()
	e.active = nil
	e.hooks.OnCommit(a.mode.String(), time.Since(a.started), nil)
	e.logger.Debug("interaction committed",
		"item", a.origin.ID,
		"mode", a.mode,
		"position", a.feedback.Candidate.Position,
		"size", a.feedback.Candidate.Size)
	return e.arrangement, nil
}

// Cancel discards the candidate and returns to Idle. It is a no-op when
// already Idle.
func (e *Engine[T]) Cancel() {
	if e.active == nil {
		return
	}
	e.hooks.OnCancel(e.active.mode.String())
	e.logger.Debug("interaction cancelled", "item", e.active.origin.ID, "mode", e.active.mode)
	e.active = nil
}

// =============================================================================
// Direct mutations
// =============================================================================

// AddItem validates item against the full arrangement and appends it.
// It fails with INVALID_PLACEMENT naming every conflicting item, or with
// CONFLICTING_INTERACTION while an interaction is active.
func (e *Engine[T]) AddItem(item grid.Item[T]) (grid.Arrangement[T], error) {
	arr, err := e.add(item)
	e.hooks.OnMutation("add", err)
	return arr, err
}

// PlaceItem positions item at the first free slot, scanning rows top to
// bottom and columns left to right, then adds it. The item's own position
// is ignored.
func (e *Engine[T]) PlaceItem(item grid.Item[T]) (grid.Arrangement[T], error) {
	arr, err := e.place(item)
	e.hooks.OnMutation("place", err)
	return arr, err
}

func (e *Engine[T]) place(item grid.Item[T]) (grid.Arrangement[T], error) {
	if err := e.checkMutable(); err != nil {
		return e.arrangement, err
	}
	if err := checkNewItem(item); err != nil {
		return e.arrangement, err
	}
	pos, ok := grid.FindFreePosition(item.Size, e.arrangement, e.size)
	if !ok {
		return e.arrangement, apperrors.NewPlacementError(item.ID, nil, true)
	}
	item.Position = pos
	return e.add(item)
}

func (e *Engine[T]) add(item grid.Item[T]) (grid.Arrangement[T], error) {
	if err := e.checkMutable(); err != nil {
		return e.arrangement, err
	}
	if err := checkNewItem(item); err != nil {
		return e.arrangement, err
	}
	if e.arrangement.Has(item.ID) {
		return e.arrangement, apperrors.New(apperrors.ErrCodeInvalidInput, "item %q already exists", item.ID)
	}
	if err := e.evaluate(item, "").Err(); err != nil {
		return e.arrangement, err
	}
	e.setArrangement(e.arrangement.With(item))
	e.grow()
	e.logger.Debug("item added", "item", item.ID, "position", item.Position, "size", item.Size)
	return e.arrangement, nil
}

// RemoveItem removes the item with the given id. Removal never violates an
// invariant; it fails only when the id is unknown or an interaction is
// active.
func (e *Engine[T]) RemoveItem(id string) (grid.Arrangement[T], error) {
	arr, err := e.remove(id)
	e.hooks.OnMutation("remove", err)
	return arr, err
}

func (e *Engine[T]) remove(id string) (grid.Arrangement[T], error) {
	if err := e.checkMutable(); err != nil {
		return e.arrangement, err
	}
	if !e.arrangement.Has(id) {
		return e.arrangement, apperrors.New(apperrors.ErrCodeNotFound, "item %q not found", id)
	}
	e.setArrangement(e.arrangement.Without(id))
	e.logger.Debug("item removed", "item", id)
	return e.arrangement, nil
}

// CanPlace reports whether item could be added as is, without changing the
// engine. If item's id already exists, that item is excluded from the
// conflict check, which makes CanPlace a dry run for moves too.
func (e *Engine[T]) CanPlace(item grid.Item[T]) Feedback[T] {
	return e.evaluate(item, item.ID)
}

// =============================================================================
// Helpers
// =============================================================================

func (e *Engine[T]) checkMutable() error {
	if e.active != nil {
		return apperrors.New(apperrors.ErrCodeConflictingInteraction,
			"item %q is being %s; commit or cancel first", e.active.origin.ID, verb(e.active.mode))
	}
	return nil
}

func checkNewItem[T any](item grid.Item[T]) error {
	if err := apperrors.ValidateID("item", item.ID); err != nil {
		return err
	}
	if !item.Size.IsPositive() {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "item %q has non-positive size %s", item.ID, item.Size)
	}
	return nil
}

func (e *Engine[T]) evaluate(candidate grid.Item[T], excludeID string) Feedback[T] {
	var conflicts []grid.Item[T]
	if e.index != nil {
		conflicts = e.index.FindConflicts(candidate, excludeID)
	} else {
		conflicts = grid.FindConflicts(candidate, e.arrangement, excludeID)
	}
	fb := Feedback[T]{
		State:       Valid,
		Candidate:   candidate,
		Conflicts:   conflicts,
		OutOfBounds: !grid.IsWithinWidth(candidate, e.size.Width),
	}
	if fb.OutOfBounds || len(conflicts) > 0 {
		fb.State = Invalid
	}
	if grid.ExceedsHeight(candidate, e.size.Height) {
		fb.GrowsTo = candidate.Rect().Bottom()
	}
	return fb
}

func (e *Engine[T]) setArrangement(arr grid.Arrangement[T]) {
	e.arrangement = arr
	if e.opts.indexThreshold > 0 && arr.Len() >= e.opts.indexThreshold {
		e.index = grid.NewIndex(arr, e.opts.bucketSize)
	} else {
		e.index = nil
	}
}

func (e *Engine[T]) grow() {
	next := grid.GrowTo(e.size, grid.ComputeMinimumGridSize(e.arrangement))
	if next.Height != e.size.Height {
		e.hooks.OnGrow(e.size.Height, next.Height)
		e.logger.Debug("grid grown", "from", e.size.Height, "to", next.Height)
		e.size = next
	}
}

// resizeRect drags the given edge of r by d. The opposite edge stays fixed
// and neither dimension drops below one cell.
func resizeRect(r grid.Rect, edge Edge, d Delta) grid.Rect {
	x0, y0, x1, y1 := r.X, r.Y, r.Right(), r.Bottom()
	switch edge.horizontal() {
	case 1:
		x1 = max(x1+d.DX, x0+1)
	case -1:
		x0 = min(x0+d.DX, x1-1)
	}
	switch edge.vertical() {
	case 1:
		y1 = max(y1+d.DY, y0+1)
	case -1:
		y0 = min(y0+d.DY, y1-1)
	}
	return grid.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func verb(m Mode) string {
	if m == Resize {
		return "resized"
	}
	return "moved"
}
