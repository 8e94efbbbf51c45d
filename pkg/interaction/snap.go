package interaction

import (
	"math"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
	"github.com/matzehuels/myseum/pkg/placement"
)

// Snapper converts raw pointer offsets in pixels to whole grid units.
type Snapper struct {
	// CellPixels is the rendered size of one grid cell.
	CellPixels float64
}

// NewSnapper returns a Snapper for cells of the given pixel size.
func NewSnapper(cellPixels float64) (Snapper, error) {
	if cellPixels <= 0 || math.IsNaN(cellPixels) || math.IsInf(cellPixels, 0) {
		return Snapper{}, apperrors.New(apperrors.ErrCodeInvalidInput, "cell size must be positive, got %v", cellPixels)
	}
	return Snapper{CellPixels: cellPixels}, nil
}

// Snap converts one pixel offset to grid units, rounding to the nearest
// cell and half away from zero. A zero Snapper always returns 0.
func (s Snapper) Snap(px float64) int {
	if s.CellPixels <= 0 || math.IsNaN(px) || math.IsInf(px, 0) {
		return 0
	}
	return int(math.Round(px / s.CellPixels))
}

// Delta snaps a pixel offset pair.
func (s Snapper) Delta(dxPx, dyPx float64) placement.Delta {
	return placement.Delta{DX: s.Snap(dxPx), DY: s.Snap(dyPx)}
}

// Drag returns the Update intent for a pointer drag of (dxPx, dyPx) pixels
// from where the interaction began.
func (s Snapper) Drag(dxPx, dyPx float64) Update {
	return Update{Delta: s.Delta(dxPx, dyPx)}
}
