// Package grid models a bounded two-dimensional integer grid and the
// rectangular items placed on it.
//
// # Overview
//
// Myseum lays artworks out on gallery walls. A wall is a grid measured in
// grid units; every artwork occupies an axis-aligned bounding box whose
// origin and dimensions are whole cells. This package is the pure spatial
// layer underneath the placement engine: it answers questions about an
// [Arrangement] without ever mutating it.
//
// # Coordinates
//
// An item at [Position] (x, y) with [Size] (w, h) covers the half-open box
// [x, x+w) × [y, y+h). Two boxes conflict only when they share positive
// area; boxes that merely touch along an edge do not conflict:
//
//	a := grid.Item[string]{ID: "a", Position: grid.Position{X: 0}, Size: grid.Size{Width: 2, Height: 2}}
//	b := grid.Item[string]{ID: "b", Position: grid.Position{X: 2}, Size: grid.Size{Width: 2, Height: 2}}
//	grid.Overlaps(a, b) // false
//
// The horizontal bound of a grid is hard: nothing may extend past the wall
// width. The vertical bound is soft: callers grow the grid to
// [ComputeMinimumGridSize] instead of rejecting tall content.
//
// # Physical Sizes
//
// Artworks are measured in physical units (inches). [SizeFromPhysical]
// converts a physical width and height into whole cells by rounding up, so
// two neighbouring items never share a partial cell.
//
// # Spatial Index
//
// [FindConflicts] scans the arrangement linearly, which is fast for the few
// hundred items a wall realistically holds. [Index] buckets items by
// grid-cell hashing and answers the same query for larger arrangements;
// both return conflicts in arrangement order.
//
// # Concurrency
//
// [Arrangement] values are immutable snapshots and are safe to share
// between goroutines. [Index] is read-only after construction.
package grid
