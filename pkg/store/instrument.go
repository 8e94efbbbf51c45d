package store

import (
	"context"
	"time"

	"github.com/matzehuels/myseum/pkg/observability"
	"github.com/matzehuels/myseum/pkg/wall"
)

// Instrumented reports the latency and outcome of reads and writes to the
// registered [observability.StoreHooks].
type Instrumented struct {
	Store
	backend string
}

// Instrument wraps s, labelling events with backend.
func Instrument(s Store, backend string) *Instrumented {
	return &Instrumented{Store: s, backend: backend}
}

// Backend returns the backend label.
func (s *Instrumented) Backend() string { return s.backend }

func (s *Instrumented) Get(ctx context.Context, id string) (*wall.Wall, error) {
	start := time.Now()
	w, err := s.Store.Get(ctx, id)
	observability.Store().OnLoad(ctx, s.backend, time.Since(start), err)
	return w, err
}

func (s *Instrumented) Save(ctx context.Context, w *wall.Wall) error {
	start := time.Now()
	err := s.Store.Save(ctx, w)
	observability.Store().OnSave(ctx, s.backend, time.Since(start), err)
	return err
}
