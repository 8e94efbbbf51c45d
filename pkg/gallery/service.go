// Package gallery is the application layer shared by the CLI and the HTTP
// API.
//
// Every change follows the same path: load the wall, check the caller may
// edit it, hydrate a placement engine, run one engine operation and
// persist the committed snapshot. Changes to one wall are serialized, so
// each wall has a single writer at a time; different walls proceed in
// parallel.
//
// With a [store.Flusher] configured, persistence is asynchronous: the
// service returns as soon as the engine commits and reads its own pending
// writes back from the flusher. Without one, every change is saved before
// the call returns.
package gallery

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
	"github.com/matzehuels/myseum/pkg/grid"
	"github.com/matzehuels/myseum/pkg/placement"
	"github.com/matzehuels/myseum/pkg/session"
	"github.com/matzehuels/myseum/pkg/store"
	"github.com/matzehuels/myseum/pkg/wall"
)

// Engine is the placement engine over artworks.
type Engine = placement.Engine[wall.Artwork]

// Feedback is placement feedback over artworks.
type Feedback = placement.Feedback[wall.Artwork]

// Service runs wall operations against a store.
//
// The Service holds no wall state of its own; it is safe for concurrent
// use by multiple goroutines.
type Service struct {
	Store   store.Store
	Flusher *store.Flusher
	Logger  *log.Logger

	engineOpts []placement.Option

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a service over st. If flusher is nil, changes are
// saved synchronously. If logger is nil, log.Default() is used.
func NewService(st store.Store, flusher *store.Flusher, logger *log.Logger, opts ...placement.Option) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		Store:      st,
		Flusher:    flusher,
		Logger:     logger,
		engineOpts: append([]placement.Option{placement.WithLogger(logger)}, opts...),
		locks:      make(map[string]*sync.Mutex),
	}
}

// Close flushes pending writes. It does not close the store.
func (s *Service) Close() {
	if s.Flusher != nil {
		s.Flusher.Close()
	}
}

// =============================================================================
// Walls
// =============================================================================

// CreateRequest describes a new wall. Either a grid size or a physical
// size in inches must be given; the grid size wins when both are.
type CreateRequest struct {
	Name     string  `json:"name"`
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	WidthIn  float64 `json:"width_in,omitempty"`
	HeightIn float64 `json:"height_in,omitempty"`
	Unit     float64 `json:"unit_inches,omitempty"`
	Public   bool    `json:"public,omitempty"`
}

// CreateWall creates an empty wall owned by the caller.
func (s *Service) CreateWall(ctx context.Context, sess *session.Session, req CreateRequest) (*wall.Wall, error) {
	if err := requireUser(sess); err != nil {
		return nil, err
	}
	var (
		w   *wall.Wall
		err error
	)
	if req.Width > 0 || req.Height > 0 {
		w, err = wall.New(sess.UserID, req.Name, grid.Size{Width: req.Width, Height: req.Height}, req.Unit)
	} else {
		w, err = wall.NewPhysical(sess.UserID, req.Name, req.WidthIn, req.HeightIn, req.Unit)
	}
	if err != nil {
		return nil, err
	}
	w.Public = req.Public

	if err := s.Store.Save(ctx, w); err != nil {
		return nil, err
	}
	s.Logger.Info("wall created", "wall", w.ID, "owner", w.OwnerID, "size", w.Size())
	return w, nil
}

// GetWall returns the wall if the caller may view it.
func (s *Service) GetWall(ctx context.Context, sess *session.Session, id string) (*wall.Wall, error) {
	w, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := session.RequireView(sess, w); err != nil {
		return nil, err
	}
	return w, nil
}

// ListWalls lists walls of ownerID, or of the caller when ownerID is
// empty. Other users' private walls are left out.
func (s *Service) ListWalls(ctx context.Context, sess *session.Session, ownerID string) ([]wall.Summary, error) {
	if ownerID == "" {
		if err := requireUser(sess); err != nil {
			return nil, err
		}
		ownerID = sess.UserID
	}
	all, err := s.Store.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	own := sess != nil && sess.UserID == ownerID
	out := all[:0]
	for _, sum := range all {
		if own || sum.Public {
			out = append(out, sum)
		}
	}
	return out, nil
}

// UpdateRequest changes wall metadata. Nil fields are left unchanged.
type UpdateRequest struct {
	Name   *string `json:"name,omitempty"`
	Public *bool   `json:"public,omitempty"`
}

// UpdateWall renames a wall or changes whether it is shared publicly.
func (s *Service) UpdateWall(ctx context.Context, sess *session.Session, id string, req UpdateRequest) (*wall.Wall, error) {
	return s.change(ctx, sess, id, func(w *wall.Wall) error {
		if req.Name != nil {
			if err := apperrors.ValidateName(*req.Name); err != nil {
				return err
			}
			w.Name = *req.Name
		}
		if req.Public != nil {
			w.Public = *req.Public
		}
		return nil
	})
}

// DeleteWall deletes a wall owned by the caller.
func (s *Service) DeleteWall(ctx context.Context, sess *session.Session, id string) error {
	unlock := s.lock(id)
	defer unlock()

	w, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := session.RequireEdit(sess, w); err != nil {
		return err
	}
	if s.Flusher != nil {
		s.Flusher.Discard(id)
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		// Never persisted: the wall only existed as a pending snapshot.
		if !apperrors.Is(err, apperrors.ErrCodeWallNotFound) {
			return err
		}
	}
	s.Logger.Info("wall deleted", "wall", id)
	return nil
}

// Fit shrinks or grows the wall height to its content.
func (s *Service) Fit(ctx context.Context, sess *session.Session, id string) (*wall.Wall, error) {
	return s.change(ctx, sess, id, func(w *wall.Wall) error {
		from := w.Size()
		if err := w.Fit(); err != nil {
			return err
		}
		s.Logger.Debug("wall fitted", "wall", id, "from", from, "to", w.Size())
		return nil
	})
}

// =============================================================================
// Items
// =============================================================================

// AddRequest describes an artwork to hang. Without a position, the item
// goes to the first free slot. Without a size, it is derived from the
// artwork's physical dimensions and the wall unit.
type AddRequest struct {
	Artwork  wall.Artwork   `json:"artwork"`
	ID       string         `json:"id,omitempty"`
	Position *grid.Position `json:"position,omitempty"`
	Size     *grid.Size     `json:"size,omitempty"`
}

// AddArtwork hangs an artwork on the wall and returns the wall with the
// new item.
func (s *Service) AddArtwork(ctx context.Context, sess *session.Session, wallID string, req AddRequest) (*wall.Wall, wall.Item, error) {
	var added wall.Item
	w, err := s.mutate(ctx, sess, wallID, func(w *wall.Wall, eng *Engine) error {
		item, err := newItem(w, req)
		if err != nil {
			return err
		}
		if req.Position != nil {
			item.Position = *req.Position
			_, err = eng.AddItem(item)
		} else {
			_, err = eng.PlaceItem(item)
		}
		if err != nil {
			return err
		}
		added, _ = eng.Arrangement().Get(item.ID)
		return nil
	})
	if err != nil {
		return nil, wall.Item{}, err
	}
	s.Logger.Info("artwork added", "wall", wallID, "item", added.ID, "position", added.Position, "size", added.Size)
	return w, added, nil
}

func newItem(w *wall.Wall, req AddRequest) (wall.Item, error) {
	if req.Size != nil {
		id := req.ID
		if id == "" {
			id = uuid.NewString()
		}
		return wall.Item{ID: id, Size: *req.Size, Payload: req.Artwork}, nil
	}
	item, err := w.NewItem(req.Artwork)
	if err != nil {
		return wall.Item{}, err
	}
	if req.ID != "" {
		item.ID = req.ID
	}
	return item, nil
}

// RemoveItem takes an item off the wall.
func (s *Service) RemoveItem(ctx context.Context, sess *session.Session, wallID, itemID string) (*wall.Wall, error) {
	w, err := s.mutate(ctx, sess, wallID, func(_ *wall.Wall, eng *Engine) error {
		_, err := eng.RemoveItem(itemID)
		return err
	})
	if err == nil {
		s.Logger.Info("artwork removed", "wall", wallID, "item", itemID)
	}
	return w, err
}

// MoveItem translates an item by delta grid cells. The move runs as a
// complete engine interaction: begin, one candidate update and commit.
func (s *Service) MoveItem(ctx context.Context, sess *session.Session, wallID, itemID string, delta placement.Delta) (*wall.Wall, error) {
	w, err := s.mutate(ctx, sess, wallID, func(_ *wall.Wall, eng *Engine) error {
		if err := eng.BeginMove(itemID); err != nil {
			return err
		}
		return interact(eng, delta)
	})
	if err == nil {
		s.Logger.Info("artwork moved", "wall", wallID, "item", itemID, "dx", delta.DX, "dy", delta.DY)
	}
	return w, err
}

// ResizeItem drags one edge or corner of an item by delta grid cells.
func (s *Service) ResizeItem(ctx context.Context, sess *session.Session, wallID, itemID string, edge placement.Edge, delta placement.Delta) (*wall.Wall, error) {
	w, err := s.mutate(ctx, sess, wallID, func(_ *wall.Wall, eng *Engine) error {
		if err := eng.BeginResize(itemID, edge); err != nil {
			return err
		}
		return interact(eng, delta)
	})
	if err == nil {
		s.Logger.Info("artwork resized", "wall", wallID, "item", itemID, "edge", edge, "dx", delta.DX, "dy", delta.DY)
	}
	return w, err
}

func interact(eng *Engine, delta placement.Delta) error {
	if _, err := eng.UpdateCandidate(delta); err != nil {
		eng.Cancel()
		return err
	}
	if _, err := eng.Commit(); err != nil {
		eng.Cancel()
		return err
	}
	return nil
}

// Check reports whether item could be placed on the wall as given, without
// changing anything. An item whose id is already on the wall is checked as
// a move of that item.
func (s *Service) Check(ctx context.Context, sess *session.Session, wallID string, item wall.Item) (Feedback, error) {
	w, err := s.GetWall(ctx, sess, wallID)
	if err != nil {
		return Feedback{}, err
	}
	if err := grid.CheckItem(item); err != nil {
		return Feedback{}, err
	}
	eng, err := w.Engine(s.engineOpts...)
	if err != nil {
		return Feedback{}, err
	}
	return eng.CanPlace(item), nil
}

// =============================================================================
// Import / export
// =============================================================================

// Import stores a wall read from r. The caller becomes its owner. A wall
// with the id of an existing wall replaces it only if the caller owns that
// wall.
func (s *Service) Import(ctx context.Context, sess *session.Session, r io.Reader, f wall.Format) (*wall.Wall, error) {
	if err := requireUser(sess); err != nil {
		return nil, err
	}
	in, err := wall.Read(r, f)
	if err != nil {
		return nil, err
	}

	unlock := s.lock(in.ID)
	defer unlock()

	existing, err := s.load(ctx, in.ID)
	switch {
	case err == nil:
		if err := session.RequireEdit(sess, existing); err != nil {
			return nil, err
		}
		in.Version = existing.Version
		in.CreatedAt = existing.CreatedAt
	case !apperrors.Is(err, apperrors.ErrCodeWallNotFound):
		return nil, err
	}
	in.OwnerID = sess.UserID

	if err := s.persist(ctx, in); err != nil {
		return nil, err
	}
	s.Logger.Info("wall imported", "wall", in.ID, "items", len(in.Items))
	return in, nil
}

// Export writes the wall to out.
func (s *Service) Export(ctx context.Context, sess *session.Session, id string, out io.Writer, f wall.Format) error {
	w, err := s.GetWall(ctx, sess, id)
	if err != nil {
		return err
	}
	return wall.Write(w, out, f)
}

// =============================================================================
// Helpers
// =============================================================================

func requireUser(sess *session.Session) error {
	if sess == nil || sess.UserID == "" {
		return apperrors.New(apperrors.ErrCodeUnauthorized, "sign in required")
	}
	return nil
}

// lock serializes changes to one wall and returns the unlock function.
func (s *Service) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// load returns the newest state of the wall: a snapshot still waiting in
// the flusher, or else the stored wall.
func (s *Service) load(ctx context.Context, id string) (*wall.Wall, error) {
	if err := apperrors.ValidateID("wall", id); err != nil {
		return nil, err
	}
	if s.Flusher != nil {
		if w, ok := s.Flusher.Latest(id); ok {
			return w, nil
		}
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) persist(ctx context.Context, w *wall.Wall) error {
	if s.Flusher != nil {
		return s.Flusher.Enqueue(w)
	}
	return s.Store.Save(ctx, w)
}

// change applies fn to an editable copy of the wall and persists it.
func (s *Service) change(ctx context.Context, sess *session.Session, id string, fn func(w *wall.Wall) error) (*wall.Wall, error) {
	unlock := s.lock(id)
	defer unlock()

	w, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := session.RequireEdit(sess, w); err != nil {
		return nil, err
	}
	if err := fn(w); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// mutate runs fn against an engine hydrated from the wall and persists the
// engine's committed arrangement. Nothing is persisted when fn fails.
func (s *Service) mutate(ctx context.Context, sess *session.Session, id string, fn func(w *wall.Wall, eng *Engine) error) (*wall.Wall, error) {
	return s.change(ctx, sess, id, func(w *wall.Wall) error {
		eng, err := w.Engine(s.engineOpts...)
		if err != nil {
			return err
		}
		if err := fn(w, eng); err != nil {
			return err
		}
		w.SetArrangement(eng.Arrangement(), eng.GridSize())
		return nil
	})
}
