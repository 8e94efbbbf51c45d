// Package interaction adapts discrete user input to the placement engine.
//
// Frontends (the terminal wall editor, the HTTP API) translate pointer and
// keyboard events into [Intent] values and feed them to a [Controller] one
// at a time. Every intent is applied synchronously and yields a [Result]
// describing the engine state, the candidate and the items blocking it.
//
// Snapping raw pointer offsets to whole grid units is this package's job,
// not the engine's: a [Snapper] rounds pixel offsets to the nearest cell
// before they reach [placement.Engine.UpdateCandidate].
package interaction

import (
	"github.com/matzehuels/myseum/pkg/grid"
	"github.com/matzehuels/myseum/pkg/placement"
)

// Intent is a single user action. The concrete types are [Begin], [Update],
// [Nudge], [Commit] and [Cancel].
type Intent interface {
	intent()
}

// Begin starts a move (Edge is ignored) or a resize of ItemID.
type Begin struct {
	ItemID string
	Mode   placement.Mode
	Edge   placement.Edge
}

// Update sets the total snapped offset since the interaction began, as
// produced by a pointer drag.
type Update struct {
	Delta placement.Delta
}

// Nudge adds a step to the current offset, as produced by a key press.
type Nudge struct {
	DX, DY int
}

// Commit applies the candidate.
type Commit struct{}

// Cancel discards the candidate.
type Cancel struct{}

func (Begin) intent()  {}
func (Update) intent() {}
func (Nudge) intent()  {}
func (Commit) intent() {}
func (Cancel) intent() {}

// Result is the state a frontend renders after each intent.
type Result[T any] struct {
	State       placement.State
	Candidate   grid.Item[T]
	Conflicts   []grid.Item[T]
	OutOfBounds bool
	GrowsTo     int
	Arrangement grid.Arrangement[T]
	GridSize    grid.Size
}

// ConflictIDs returns the ids of the blocking items.
func (r Result[T]) ConflictIDs() []string { return grid.ItemIDs(r.Conflicts) }

// Controller applies intents to an engine and tracks the offset that
// keyboard nudges accumulate into.
type Controller[T any] struct {
	engine *placement.Engine[T]
	offset placement.Delta
}

// NewController wraps engine.
func NewController[T any](engine *placement.Engine[T]) *Controller[T] {
	return &Controller[T]{engine: engine}
}

// Engine returns the wrapped engine.
func (c *Controller[T]) Engine() *placement.Engine[T] { return c.engine }

// Offset returns the cumulative delta of the active interaction.
func (c *Controller[T]) Offset() placement.Delta { return c.offset }

// Dispatch applies intent. On error the returned Result still reflects the
// engine's current state, which the error leaves unchanged.
func (c *Controller[T]) Dispatch(intent Intent) (Result[T], error) {
	var err error
	switch in := intent.(type) {
	case Begin:
		if in.Mode == placement.Resize {
			err = c.engine.BeginResize(in.ItemID, in.Edge)
		} else {
			err = c.engine.BeginMove(in.ItemID)
		}
		if err == nil {
			c.offset = placement.Delta{}
		}
	case Update:
		err = c.update(in.Delta)
	case Nudge:
		err = c.update(placement.Delta{DX: c.offset.DX + in.DX, DY: c.offset.DY + in.DY})
	case Commit:
		if _, err = c.engine.Commit(); err == nil {
			c.offset = placement.Delta{}
		}
	case Cancel:
		c.engine.Cancel()
		c.offset = placement.Delta{}
	}
	return c.result(), err
}

func (c *Controller[T]) update(d placement.Delta) error {
	if _, err := c.engine.UpdateCandidate(d); err != nil {
		return err
	}
	c.offset = d
	return nil
}

func (c *Controller[T]) result() Result[T] {
	fb := c.engine.Feedback()
	return Result[T]{
		State:       fb.State,
		Candidate:   fb.Candidate,
		Conflicts:   fb.Conflicts,
		OutOfBounds: fb.OutOfBounds,
		GrowsTo:     fb.GrowsTo,
		Arrangement: c.engine.Arrangement(),
		GridSize:    c.engine.GridSize(),
	}
}
