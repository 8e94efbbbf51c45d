package grid

import (
	apperrors "github.com/matzehuels/myseum/pkg/errors"
)

// Arrangement is an immutable, ordered set of items keyed by unique ID.
//
// Insertion order is preserved for stable rendering; it has no effect on
// validity. Every method that "changes" an arrangement returns a new value
// and leaves the receiver untouched. The zero value is an empty arrangement.
type Arrangement[T any] struct {
	items []Item[T]
	pos   map[string]int // id -> index into items
}

// NewArrangement builds an arrangement from items, in order.
//
// It enforces the structural invariants every arrangement must satisfy:
// ids are valid and unique, positions are non-negative and sizes are at
// least 1×1. Bounds and overlap are grid-dependent and checked by
// [Arrangement.Validate].
func NewArrangement[T any](items ...Item[T]) (Arrangement[T], error) {
	a := Arrangement[T]{
		items: make([]Item[T], 0, len(items)),
		pos:   make(map[string]int, len(items)),
	}
	for _, it := range items {
		if err := CheckItem(it); err != nil {
			return Arrangement[T]{}, err
		}
		if _, dup := a.pos[it.ID]; dup {
			return Arrangement[T]{}, apperrors.New(apperrors.ErrCodeInvalidInput, "duplicate item id %q", it.ID)
		}
		a.pos[it.ID] = len(a.items)
		a.items = append(a.items, it)
	}
	return a, nil
}

// CheckItem validates the structural properties of a single stored item:
// a valid id, a non-negative position and a size of at least 1×1.
func CheckItem[T any](it Item[T]) error {
	if err := apperrors.ValidateID("item", it.ID); err != nil {
		return err
	}
	if !it.Size.IsPositive() {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "item %q has non-positive size %s", it.ID, it.Size)
	}
	if !it.Position.IsNonNegative() {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "item %q has negative position %s", it.ID, it.Position)
	}
	return nil
}

// Len returns the number of items.
func (a Arrangement[T]) Len() int { return len(a.items) }

// Items returns a copy of the items in insertion order.
func (a Arrangement[T]) Items() []Item[T] {
	out := make([]Item[T], len(a.items))
	copy(out, a.items)
	return out
}

// IDs returns item ids in insertion order.
func (a Arrangement[T]) IDs() []string {
	ids := make([]string, len(a.items))
	for i, it := range a.items {
		ids[i] = it.ID
	}
	return ids
}

// Get returns the item with the given id.
func (a Arrangement[T]) Get(id string) (Item[T], bool) {
	i, ok := a.pos[id]
	if !ok {
		return Item[T]{}, false
	}
	return a.items[i], true
}

// Has reports whether an item with the given id exists.
func (a Arrangement[T]) Has(id string) bool {
	_, ok := a.pos[id]
	return ok
}

// With returns a new arrangement where it replaces the item with the same id,
// keeping its slot in the order, or is appended if the id is new.
// Structural validity of it is the caller's responsibility.
func (a Arrangement[T]) With(it Item[T]) Arrangement[T] {
	out := a.clone()
	if i, ok := out.pos[it.ID]; ok {
		out.items[i] = it
		return out
	}
	out.pos[it.ID] = len(out.items)
	out.items = append(out.items, it)
	return out
}

// Without returns a new arrangement with the item removed. Removing an
// unknown id returns an unchanged copy.
func (a Arrangement[T]) Without(id string) Arrangement[T] {
	i, ok := a.pos[id]
	if !ok {
		return a.clone()
	}
	out := Arrangement[T]{
		items: make([]Item[T], 0, len(a.items)-1),
		pos:   make(map[string]int, len(a.items)-1),
	}
	for j, it := range a.items {
		if j == i {
			continue
		}
		out.pos[it.ID] = len(out.items)
		out.items = append(out.items, it)
	}
	return out
}

// SameLayout reports whether both arrangements hold the same items with the
// same boxes in the same order. Payloads are not compared.
func (a Arrangement[T]) SameLayout(o Arrangement[T]) bool {
	if len(a.items) != len(o.items) {
		return false
	}
	for i := range a.items {
		if !a.items[i].SameBox(o.items[i]) {
			return false
		}
	}
	return true
}

// Validate checks the grid-dependent invariants against size: every item
// lies within the horizontal bound and no two items overlap. Height is a
// soft bound and never fails validation.
//
// The first offending item (in arrangement order) is reported as an
// [apperrors.PlacementError] listing every item it conflicts with.
func (a Arrangement[T]) Validate(size Size) error {
	for _, it := range a.items {
		outOfBounds := !IsWithinWidth(it, size.Width)
		conflicts := FindConflicts(it, a, it.ID)
		if outOfBounds || len(conflicts) > 0 {
			return apperrors.NewPlacementError(it.ID, ItemIDs(conflicts), outOfBounds)
		}
	}
	return nil
}

func (a Arrangement[T]) clone() Arrangement[T] {
	out := Arrangement[T]{
		items: make([]Item[T], len(a.items), len(a.items)+1),
		pos:   make(map[string]int, len(a.items)+1),
	}
	copy(out.items, a.items)
	for id, i := range a.pos {
		out.pos[id] = i
	}
	return out
}

// ItemIDs returns the ids of items, in order. It returns nil for an empty slice.
func ItemIDs[T any](items []Item[T]) []string {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}
