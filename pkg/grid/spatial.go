package grid

import (
	"math"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
)

// physicalEpsilon absorbs floating point noise when converting physical
// dimensions to cells, so 10 / 0.1 counts as 100 cells and not 101.
const physicalEpsilon = 1e-9

// CellsOccupiedBy returns the cells covered by item's bounding box in
// row-major order. Items with an empty box cover no cells.
func CellsOccupiedBy[T any](item Item[T]) []Cell {
	r := item.Rect()
	if r.Empty() {
		return nil
	}
	cells := make([]Cell, 0, r.Width*r.Height)
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			cells = append(cells, Cell{X: x, Y: y})
		}
	}
	return cells
}

// Overlaps reports whether the bounding boxes of a and b intersect with
// positive area. It is symmetric. Callers exclude self-comparison.
func Overlaps[T any](a, b Item[T]) bool {
	return a.Rect().Intersects(b.Rect())
}

// IsWithinBounds reports whether item's box lies entirely within
// [0, size.Width) × [0, size.Height).
func IsWithinBounds[T any](item Item[T], size Size) bool {
	return IsWithinWidth(item, size.Width) && !ExceedsHeight(item, size.Height)
}

// IsWithinWidth reports whether item satisfies the hard bounds of a grid
// with the given width: a non-negative origin and a right edge no further
// than width.
func IsWithinWidth[T any](item Item[T], width int) bool {
	r := item.Rect()
	return r.X >= 0 && r.Y >= 0 && r.Right() <= width
}

// ExceedsHeight reports whether item extends below a grid of the given
// height. This is the soft bound: callers grow the grid rather than reject.
func ExceedsHeight[T any](item Item[T], height int) bool {
	return item.Rect().Bottom() > height
}

// FindConflicts returns every item of arrangement, other than excludeID,
// whose bounding box overlaps candidate. Results follow arrangement order.
// An empty result means the candidate may be placed.
func FindConflicts[T any](candidate Item[T], arrangement Arrangement[T], excludeID string) []Item[T] {
	var conflicts []Item[T]
	for _, it := range arrangement.items {
		if it.ID == excludeID {
			continue
		}
		if Overlaps(candidate, it) {
			conflicts = append(conflicts, it)
		}
	}
	return conflicts
}

// ComputeMinimumGridSize returns the smallest size containing every item's
// bounding box. An empty arrangement yields the zero Size; callers combine
// the result with their current size via [GrowTo].
func ComputeMinimumGridSize[T any](arrangement Arrangement[T]) Size {
	var s Size
	for _, it := range arrangement.items {
		r := it.Rect()
		s.Width = max(s.Width, r.Right())
		s.Height = max(s.Height, r.Bottom())
	}
	return s
}

// GrowTo returns current with its height raised to fit content. Width never
// changes: wall width is fixed.
func GrowTo(current, content Size) Size {
	return Size{Width: current.Width, Height: max(current.Height, content.Height)}
}

// SizeFromPhysical converts physical dimensions (for example inches) into
// whole grid cells by rounding up, where unit is the physical length of one
// cell. The result is at least 1×1.
func SizeFromPhysical(width, height, unit float64) (Size, error) {
	if unit <= 0 || math.IsNaN(unit) || math.IsInf(unit, 0) {
		return Size{}, apperrors.New(apperrors.ErrCodeInvalidInput, "grid unit must be positive, got %v", unit)
	}
	if width <= 0 || height <= 0 || math.IsNaN(width) || math.IsNaN(height) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return Size{}, apperrors.New(apperrors.ErrCodeInvalidInput, "physical size must be positive, got %vx%v", width, height)
	}
	return Size{
		Width:  max(1, int(math.Ceil(width/unit-physicalEpsilon))),
		Height: max(1, int(math.Ceil(height/unit-physicalEpsilon))),
	}, nil
}

// FindFreePosition returns the first position, scanning rows top to bottom
// and columns left to right, where an item of the given size fits within
// the grid width without overlapping any item of arrangement.
//
// The search may return a position below gridSize.Height; the vertical
// bound is soft. It fails only when the item is wider than the grid.
func FindFreePosition[T any](size Size, arrangement Arrangement[T], gridSize Size) (Position, bool) {
	if !size.IsPositive() || size.Width > gridSize.Width {
		return Position{}, false
	}

	// Any row at or below the content's bottom edge is empty.
	limit := ComputeMinimumGridSize(arrangement).Height
	probe := Item[T]{Size: size}
	for y := 0; y <= limit; y++ {
		for x := 0; x+size.Width <= gridSize.Width; x++ {
			probe.Position = Position{X: x, Y: y}
			conflict := firstConflict(probe, arrangement)
			if conflict == nil {
				return probe.Position, true
			}
			// Skip past the blocking item in this row.
			x = conflict.Rect().Right() - 1
		}
	}
	return Position{X: 0, Y: limit}, true
}

func firstConflict[T any](candidate Item[T], arrangement Arrangement[T]) *Item[T] {
	for i := range arrangement.items {
		if Overlaps(candidate, arrangement.items[i]) {
			return &arrangement.items[i]
		}
	}
	return nil
}
