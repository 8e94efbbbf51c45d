package placement

import (
	"slices"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
	"github.com/matzehuels/myseum/pkg/grid"
)

// State is the interaction state of an [Engine].
type State int

const (
	// Idle means no interaction is active; the arrangement is the last
	// committed value.
	Idle State = iota
	// Proposing means an interaction has begun but no candidate has been
	// validated yet.
	Proposing
	// Valid means the candidate passes every check and may be committed.
	Valid
	// Invalid means the candidate overlaps another item or leaves the
	// horizontal bounds. It is tracked for feedback but cannot be committed.
	Invalid
)

var stateNames = [...]string{"idle", "proposing", "valid", "invalid"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Mode is the kind of interaction.
type Mode int

const (
	Move Mode = iota + 1
	Resize
)

func (m Mode) String() string {
	switch m {
	case Move:
		return "move"
	case Resize:
		return "resize"
	default:
		return "none"
	}
}

// ParseMode parses "move" or "resize".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "move":
		return Move, nil
	case "resize":
		return Resize, nil
	}
	return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown interaction mode %q", s)
}

// Edge identifies the handle dragged during a resize. Corner edges change
// both dimensions.
type Edge int

const (
	NoEdge Edge = iota
	Right
	Bottom
	Left
	Top
	BottomRight
	BottomLeft
	TopRight
	TopLeft
)

var edgeNames = [...]string{"", "right", "bottom", "left", "top", "bottom-right", "bottom-left", "top-right", "top-left"}

func (e Edge) String() string {
	if e < 0 || int(e) >= len(edgeNames) {
		return "unknown"
	}
	return edgeNames[e]
}

// ParseEdge parses an edge name such as "right" or "bottom-left".
func ParseEdge(s string) (Edge, error) {
	for i, name := range edgeNames {
		if i > 0 && name == s {
			return Edge(i), nil
		}
	}
	return NoEdge, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown edge %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (e Edge) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Edge) UnmarshalText(b []byte) error {
	v, err := ParseEdge(string(b))
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// horizontal returns -1 for edges that move the left side, +1 for edges
// that move the right side and 0 otherwise.
func (e Edge) horizontal() int {
	switch e {
	case Right, BottomRight, TopRight:
		return 1
	case Left, BottomLeft, TopLeft:
		return -1
	}
	return 0
}

func (e Edge) vertical() int {
	switch e {
	case Bottom, BottomRight, BottomLeft:
		return 1
	case Top, TopRight, TopLeft:
		return -1
	}
	return 0
}

// Delta is a pointer offset in whole grid units, measured from where the
// interaction began.
type Delta struct {
	DX int `json:"dx" yaml:"dx"`
	DY int `json:"dy" yaml:"dy"`
}

// Feedback describes the engine's view of the current candidate, for
// rendering valid or invalid previews.
type Feedback[T any] struct {
	State     State
	Candidate grid.Item[T]
	// Conflicts lists every item blocking the candidate, in arrangement order.
	Conflicts []grid.Item[T]
	// OutOfBounds is set when the candidate extends past the grid width or
	// above or left of the origin.
	OutOfBounds bool
	// GrowsTo is the grid height a commit would grow to, or 0 when the
	// candidate fits the current height.
	GrowsTo int
}

// ConflictIDs returns the ids of the conflicting items.
func (f Feedback[T]) ConflictIDs() []string { return grid.ItemIDs(f.Conflicts) }

// Err returns the placement error a commit of this candidate would fail
// with, or nil when the candidate is valid.
func (f Feedback[T]) Err() error {
	switch f.State {
	case Valid:
		return nil
	case Proposing:
		err := apperrors.NewPlacementError(f.Candidate.ID, nil, false)
		err.Reason = "candidate not validated"
		return err
	default:
		return apperrors.NewPlacementError(f.Candidate.ID, f.ConflictIDs(), f.OutOfBounds)
	}
}

func (f Feedback[T]) clone() Feedback[T] {
	f.Conflicts = slices.Clone(f.Conflicts)
	return f
}
