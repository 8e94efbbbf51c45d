package placement

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/myseum/pkg/grid"
	"github.com/matzehuels/myseum/pkg/observability"
)

// DefaultIndexThreshold is the arrangement size from which conflict
// detection switches from a linear scan to a spatial index.
const DefaultIndexThreshold = 64

type options struct {
	hooks          observability.PlacementHooks
	logger         *log.Logger
	indexThreshold int
	bucketSize     int
}

// Option configures an [Engine].
type Option func(*options)

// WithHooks sets the hooks notified of interactions and mutations.
// The default is the globally registered [observability.Placement] hooks.
func WithHooks(h observability.PlacementHooks) Option {
	return func(o *options) {
		if h != nil {
			o.hooks = h
		}
	}
}

// WithLogger sets the logger for debug output. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithIndexThreshold sets the item count at which the engine maintains a
// spatial index. A value ≤ 0 disables the index.
func WithIndexThreshold(n int) Option {
	return func(o *options) { o.indexThreshold = n }
}

// WithBucketSize sets the spatial index bucket side in grid units.
func WithBucketSize(n int) Option {
	return func(o *options) { o.bucketSize = n }
}

func defaultOptions() options {
	return options{
		hooks:          observability.Placement(),
		logger:         log.Default(),
		indexThreshold: DefaultIndexThreshold,
		bucketSize:     grid.DefaultBucketSize,
	}
}
