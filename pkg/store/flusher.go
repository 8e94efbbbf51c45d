package store

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
	"github.com/matzehuels/myseum/pkg/observability"
	"github.com/matzehuels/myseum/pkg/wall"
)

// DefaultFlushDelay is how long a Flusher waits for further snapshots of
// the same wall before saving.
const DefaultFlushDelay = 500 * time.Millisecond

// FlusherOptions configures a [Flusher].
type FlusherOptions struct {
	// Delay is the debounce window per wall. Zero selects DefaultFlushDelay.
	Delay time.Duration
	// Timeout bounds a single save including retries. Zero means 30s.
	Timeout time.Duration
	// Backoff controls retries of Retryable save errors.
	Backoff Backoff
	// OnError receives the snapshot whose save finally failed.
	OnError func(w *wall.Wall, err error)
	Logger  *log.Logger
}

// Flusher saves wall snapshots in the background.
//
// Enqueue never blocks on storage. Snapshots of the same wall arriving
// within the debounce window replace each other; only the latest is
// written. Saves of one wall never run concurrently.
//
// Until a snapshot is saved, [Flusher.Latest] returns it, so readers that
// consult the flusher before the store see their own writes. A snapshot
// whose save fails is dropped; the store keeps the last persisted state.
type Flusher struct {
	store Store
	opts  FlusherOptions

	mu       sync.Mutex
	pending  map[string]*wall.Wall
	inflight map[string]*wall.Wall
	timers   map[string]*time.Timer
	locks    map[string]*sync.Mutex
	closed   bool
	wg       sync.WaitGroup
}

// NewFlusher creates a flusher writing to s.
func NewFlusher(s Store, opts FlusherOptions) *Flusher {
	if opts.Delay <= 0 {
		opts.Delay = DefaultFlushDelay
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Backoff.Attempts == 0 {
		opts.Backoff = DefaultBackoff
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Flusher{
		store:   s,
		opts:    opts,
		pending:  make(map[string]*wall.Wall),
		inflight: make(map[string]*wall.Wall),
		timers:   make(map[string]*time.Timer),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Enqueue schedules a save of a copy of w.
func (f *Flusher) Enqueue(w *wall.Wall) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return apperrors.New(apperrors.ErrCodeStorage, "flusher closed")
	}

	id := w.ID
	f.pending[id] = w.Clone()
	if t, ok := f.timers[id]; ok {
		t.Stop()
	}
	f.timers[id] = time.AfterFunc(f.opts.Delay, func() { f.flushOne(id) })
	return nil
}

// Latest returns a copy of the newest unsaved snapshot of the wall, if any.
func (f *Flusher) Latest(id string) (*wall.Wall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.pending[id]; ok {
		return w.Clone(), true
	}
	if w, ok := f.inflight[id]; ok {
		return w.Clone(), true
	}
	return nil, false
}

// Discard drops any pending snapshot of the wall and waits for an in-flight
// save of it to finish. Callers deleting a wall use it so that a late save
// does not bring the wall back.
func (f *Flusher) Discard(id string) {
	f.mu.Lock()
	delete(f.pending, id)
	delete(f.inflight, id)
	if t, ok := f.timers[id]; ok {
		t.Stop()
		delete(f.timers, id)
	}
	lock := f.locks[id]
	f.mu.Unlock()

	if lock != nil {
		lock.Lock()
		//nolint:staticcheck // empty critical section waits for the save
		lock.Unlock()
	}
}

// Pending returns the number of walls waiting to be saved.
func (f *Flusher) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

func (f *Flusher) take(id string) (*wall.Wall, *sync.Mutex) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.pending[id]
	delete(f.pending, id)
	delete(f.timers, id)
	if w == nil {
		return nil, nil
	}
	lock, ok := f.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		f.locks[id] = lock
	}
	f.inflight[id] = w
	f.wg.Add(1)
	return w, lock
}

func (f *Flusher) current(id string, w *wall.Wall) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inflight[id] == w
}

func (f *Flusher) done(id string, w *wall.Wall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inflight[id] == w {
		delete(f.inflight, id)
	}
}

func (f *Flusher) flushOne(id string) {
	w, lock := f.take(id)
	if w == nil {
		return
	}
	defer f.wg.Done()
	lock.Lock()
	defer lock.Unlock()
	if !f.current(id, w) {
		return // discarded
	}
	defer f.done(id, w)

	ctx, cancel := context.WithTimeout(context.Background(), f.opts.Timeout)
	defer cancel()

	// Save bumps the version of what it is given; w stays untouched for
	// concurrent Latest readers.
	snap := w.Clone()
	err := RetryWithBackoff(ctx, f.opts.Backoff, func() error {
		return f.store.Save(ctx, snap)
	}, func(attempt int, err error) {
		observability.Store().OnFlushRetry(ctx, id, attempt, err)
		f.opts.Logger.Warn("retrying wall save", "wall", id, "attempt", attempt, "error", err)
	})
	if err != nil {
		f.opts.Logger.Error("wall save failed", "wall", id, "error", err)
		if f.opts.OnError != nil {
			f.opts.OnError(w, err)
		}
		return
	}
	f.opts.Logger.Debug("wall saved", "wall", id, "version", snap.Version)
}

// Flush saves every pending snapshot now and waits for in-flight saves.
func (f *Flusher) Flush() {
	f.mu.Lock()
	ids := make([]string, 0, len(f.pending))
	for id, t := range f.timers {
		t.Stop()
		ids = append(ids, id)
	}
	f.mu.Unlock()

	for _, id := range ids {
		f.flushOne(id)
	}
	f.wg.Wait()
}

// Close flushes pending snapshots and rejects further ones.
func (f *Flusher) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.Flush()
}
