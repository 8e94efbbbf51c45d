package grid

import "fmt"

// Size is a width and height in grid units. It describes both the bounds of
// a grid and the bounding box of an item.
type Size struct {
	Width  int `json:"width" yaml:"width" bson:"width"`
	Height int `json:"height" yaml:"height" bson:"height"`
}

// Area returns Width × Height.
func (s Size) Area() int { return s.Width * s.Height }

// IsPositive reports whether both dimensions are at least one cell.
func (s Size) IsPositive() bool { return s.Width > 0 && s.Height > 0 }

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// Position is the top-left corner of a bounding box, in grid units.
type Position struct {
	X int `json:"x" yaml:"x" bson:"x"`
	Y int `json:"y" yaml:"y" bson:"y"`
}

// Add returns p translated by (dx, dy).
func (p Position) Add(dx, dy int) Position { return Position{X: p.X + dx, Y: p.Y + dy} }

// IsNonNegative reports whether both coordinates are ≥ 0.
func (p Position) IsNonNegative() bool { return p.X >= 0 && p.Y >= 0 }

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Cell is a single integer grid cell.
type Cell struct {
	X, Y int
}

// Rect is an axis-aligned half-open box [X, X+Width) × [Y, Y+Height).
type Rect struct {
	X, Y          int
	Width, Height int
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Intersects reports whether r and o share positive area.
// Rectangles that only touch along an edge or a corner do not intersect.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Item is a rectangular element placed on a grid. Payload carries caller
// data (artwork and frame metadata) and is never inspected by this package.
type Item[T any] struct {
	ID       string   `json:"id" yaml:"id" bson:"id"`
	Position Position `json:"position" yaml:"position" bson:"position"`
	Size     Size     `json:"size" yaml:"size" bson:"size"`
	Payload  T        `json:"payload,omitempty" yaml:"payload,omitempty" bson:"payload,omitempty"`
}

// Rect returns the item's bounding box.
func (it Item[T]) Rect() Rect {
	return Rect{X: it.Position.X, Y: it.Position.Y, Width: it.Size.Width, Height: it.Size.Height}
}

// SameBox reports whether two items share id, position and size.
// Payloads are ignored.
func (it Item[T]) SameBox(o Item[T]) bool {
	return it.ID == o.ID && it.Position == o.Position && it.Size == o.Size
}
