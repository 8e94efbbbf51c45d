package grid

import "slices"

// DefaultBucketSize is the side length, in grid units, of an [Index] bucket.
const DefaultBucketSize = 8

// Index is a grid-cell hashing spatial index over an arrangement.
//
// Each item is registered in every bucket its bounding box touches. A query
// visits only the buckets under the query rectangle, so conflict detection
// costs are proportional to local density rather than arrangement size.
// Query results are identical to [FindConflicts], including order.
type Index[T any] struct {
	bucket      int
	arrangement Arrangement[T]
	buckets     map[Cell][]int // bucket coordinate -> item positions, ascending
}

// NewIndex builds an index over arrangement. A bucketSize ≤ 0 selects
// [DefaultBucketSize].
func NewIndex[T any](arrangement Arrangement[T], bucketSize int) *Index[T] {
	if bucketSize <= 0 {
		bucketSize = DefaultBucketSize
	}
	ix := &Index[T]{
		bucket:      bucketSize,
		arrangement: arrangement,
		buckets:     make(map[Cell][]int),
	}
	for i, it := range arrangement.items {
		ix.eachBucket(it.Rect(), func(c Cell) {
			ix.buckets[c] = append(ix.buckets[c], i)
		})
	}
	return ix
}

// Arrangement returns the indexed arrangement.
func (ix *Index[T]) Arrangement() Arrangement[T] { return ix.arrangement }

// Query returns every indexed item, other than excludeID, whose box
// overlaps r, in arrangement order.
func (ix *Index[T]) Query(r Rect, excludeID string) []Item[T] {
	if r.Empty() {
		return nil
	}
	seen := make(map[int]struct{})
	var hits []int
	ix.eachBucket(r, func(c Cell) {
		for _, i := range ix.buckets[c] {
			if _, ok := seen[i]; ok {
				continue
			}
			seen[i] = struct{}{}
			it := ix.arrangement.items[i]
			if it.ID != excludeID && it.Rect().Intersects(r) {
				hits = append(hits, i)
			}
		}
	})
	if len(hits) == 0 {
		return nil
	}
	slices.Sort(hits)
	out := make([]Item[T], len(hits))
	for j, i := range hits {
		out[j] = ix.arrangement.items[i]
	}
	return out
}

// FindConflicts is the indexed equivalent of the package-level [FindConflicts].
func (ix *Index[T]) FindConflicts(candidate Item[T], excludeID string) []Item[T] {
	return ix.Query(candidate.Rect(), excludeID)
}

func (ix *Index[T]) eachBucket(r Rect, fn func(Cell)) {
	if r.Empty() {
		return
	}
	x0, y0 := floorDiv(r.X, ix.bucket), floorDiv(r.Y, ix.bucket)
	x1, y1 := floorDiv(r.Right()-1, ix.bucket), floorDiv(r.Bottom()-1, ix.bucket)
	for by := y0; by <= y1; by++ {
		for bx := x0; bx <= x1; bx++ {
			fn(Cell{X: bx, Y: by})
		}
	}
}

// floorDiv divides rounding toward negative infinity, so candidates that
// drift to negative coordinates still map to a bucket.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
