// Package wall defines gallery walls: the persisted record of an
// arrangement of artworks on a grid.
//
// A [Wall] is plain data. It is hydrated into a [placement.Engine] for every
// change and written back from the engine's committed snapshot:
//
//	eng, err := w.Engine()
//	...
//	arr, err := eng.AddItem(item)
//	w.SetArrangement(arr, eng.GridSize())
//
// Grid sizes are derived from physical measurements. Each wall has a unit,
// the physical length in inches of one grid cell, and artwork dimensions
// are rounded up to whole cells with [grid.SizeFromPhysical].
package wall

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
	"github.com/matzehuels/myseum/pkg/grid"
	"github.com/matzehuels/myseum/pkg/placement"
)

// DefaultUnit is the default physical size of a grid cell, in inches.
const DefaultUnit = 2.0

// Artwork is the payload of a wall item. The placement core never reads it.
type Artwork struct {
	Title    string  `json:"title" yaml:"title" bson:"title"`
	Artist   string  `json:"artist,omitempty" yaml:"artist,omitempty" bson:"artist,omitempty"`
	Year     int     `json:"year,omitempty" yaml:"year,omitempty" bson:"year,omitempty"`
	ImageURL string  `json:"image_url,omitempty" yaml:"image_url,omitempty" bson:"image_url,omitempty"`
	Frame    string  `json:"frame,omitempty" yaml:"frame,omitempty" bson:"frame,omitempty"`
	WidthIn  float64 `json:"width_in,omitempty" yaml:"width_in,omitempty" bson:"width_in,omitempty"`
	HeightIn float64 `json:"height_in,omitempty" yaml:"height_in,omitempty" bson:"height_in,omitempty"`
}

// Item is an artwork placed on a wall.
type Item = grid.Item[Artwork]

// Wall is a gallery wall and its arrangement.
type Wall struct {
	ID      string  `json:"id" yaml:"id" bson:"_id"`
	OwnerID string  `json:"owner_id" yaml:"owner_id" bson:"owner_id"`
	Name    string  `json:"name" yaml:"name" bson:"name"`
	Public  bool    `json:"public" yaml:"public" bson:"public"`
	Unit    float64 `json:"unit_inches" yaml:"unit_inches" bson:"unit_inches"`
	Width   int     `json:"width" yaml:"width" bson:"width"`
	Height  int     `json:"height" yaml:"height" bson:"height"`
	Items   []Item  `json:"items" yaml:"items" bson:"items"`

	// Version increases by one on every save.
	Version   int64     `json:"version" yaml:"version" bson:"version"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at" bson:"updated_at"`
}

// Summary is the listing view of a wall.
type Summary struct {
	ID        string    `json:"id" bson:"_id"`
	OwnerID   string    `json:"owner_id" bson:"owner_id"`
	Name      string    `json:"name" bson:"name"`
	Public    bool      `json:"public" bson:"public"`
	Width     int       `json:"width" bson:"width"`
	Height    int       `json:"height" bson:"height"`
	ItemCount int       `json:"item_count" bson:"item_count"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// New creates an empty wall with a fresh id.
func New(ownerID, name string, size grid.Size, unit float64) (*Wall, error) {
	if unit == 0 {
		unit = DefaultUnit
	}
	now := time.Now().UTC()
	w := &Wall{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		Unit:      unit,
		Width:     size.Width,
		Height:    size.Height,
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// NewPhysical creates an empty wall sized from physical dimensions in inches.
func NewPhysical(ownerID, name string, widthIn, heightIn, unit float64) (*Wall, error) {
	if unit == 0 {
		unit = DefaultUnit
	}
	size, err := grid.SizeFromPhysical(widthIn, heightIn, unit)
	if err != nil {
		return nil, err
	}
	return New(ownerID, name, size, unit)
}

// NewItem creates an item for art with a fresh id, sized from the artwork's
// physical dimensions. The item is positioned at the origin.
func (w *Wall) NewItem(art Artwork) (Item, error) {
	size, err := grid.SizeFromPhysical(art.WidthIn, art.HeightIn, w.Unit)
	if err != nil {
		return Item{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "artwork %q", art.Title)
	}
	return Item{ID: uuid.NewString(), Size: size, Payload: art}, nil
}

// Size returns the wall's grid size.
func (w *Wall) Size() grid.Size { return grid.Size{Width: w.Width, Height: w.Height} }

// Validate checks the record: identifiers, name, unit and size, and every
// invariant of the arrangement.
func (w *Wall) Validate() error {
	if err := apperrors.ValidateID("wall", w.ID); err != nil {
		return err
	}
	if err := apperrors.ValidateName(w.Name); err != nil {
		return err
	}
	if w.Unit <= 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "wall unit must be positive, got %v", w.Unit)
	}
	if !w.Size().IsPositive() {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "wall size must be positive, got %s", w.Size())
	}
	arr, err := grid.NewArrangement(w.Items...)
	if err != nil {
		return err
	}
	return arr.Validate(w.Size())
}

// Engine hydrates a placement engine from the wall.
func (w *Wall) Engine(opts ...placement.Option) (*placement.Engine[Artwork], error) {
	return placement.New(w.Items, w.Size(), opts...)
}

// SetArrangement replaces the wall's items and size with a committed
// snapshot.
func (w *Wall) SetArrangement(arr grid.Arrangement[Artwork], size grid.Size) {
	w.Items = arr.Items()
	w.Width = size.Width
	w.Height = size.Height
}

// Fit shrinks or grows the wall height to its content. An empty wall keeps
// a height of one cell.
func (w *Wall) Fit() error {
	arr, err := grid.NewArrangement(w.Items...)
	if err != nil {
		return err
	}
	w.Height = max(1, grid.ComputeMinimumGridSize(arr).Height)
	return nil
}

// Item returns the item with the given id.
func (w *Wall) Item(id string) (Item, bool) {
	for _, it := range w.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Clone returns a deep copy of the wall.
func (w *Wall) Clone() *Wall {
	c := *w
	c.Items = make([]Item, len(w.Items))
	copy(c.Items, w.Items)
	return &c
}

// Summary returns the listing view of the wall.
func (w *Wall) Summary() Summary {
	return Summary{
		ID:        w.ID,
		OwnerID:   w.OwnerID,
		Name:      w.Name,
		Public:    w.Public,
		Width:     w.Width,
		Height:    w.Height,
		ItemCount: len(w.Items),
		UpdatedAt: w.UpdatedAt,
	}
}

// Touch bumps the version and update time. Stores call it on save.
func (w *Wall) Touch() {
	w.Version++
	w.UpdatedAt = time.Now().UTC()
}
