// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about placement interactions, persistence and HTTP requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The Prometheus implementation lives in the prom subpackage so that the
// placement engine never links against a metrics client.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := prom.New(prometheus.DefaultRegisterer)
//	    observability.SetPlacementHooks(m)
//	    observability.SetStoreHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Store().OnSave(ctx, "sqlite", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Placement Hooks
// =============================================================================

// PlacementHooks receives events from the placement engine.
//
// Engine operations are synchronous and never block, so these methods take no
// context and implementations must return quickly.
type PlacementHooks interface {
	// OnBegin records the start of a move or resize interaction.
	OnBegin(mode string)

	// OnCandidate records the outcome of one candidate update.
	OnCandidate(mode string, valid bool, conflicts int)

	// OnCommit records a commit attempt. err is nil for a successful commit.
	OnCommit(mode string, elapsed time.Duration, err error)

	// OnCancel records a cancelled interaction.
	OnCancel(mode string)

	// OnMutation records a direct arrangement mutation (add, place, remove).
	OnMutation(op string, err error)

	// OnGrow records an automatic grid height increase.
	OnGrow(from, to int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from persistence backends.
type StoreHooks interface {
	// OnLoad records a wall read.
	OnLoad(ctx context.Context, backend string, duration time.Duration, err error)

	// OnSave records a wall write.
	OnSave(ctx context.Context, backend string, duration time.Duration, err error)

	// OnFlushRetry records a retried asynchronous flush.
	OnFlushRetry(ctx context.Context, wallID string, attempt int, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnRequest records an incoming request before routing; path is the
	// raw request path.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response. route is the matched
	// pattern.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPlacementHooks is a no-op implementation of PlacementHooks.
type NoopPlacementHooks struct{}

func (NoopPlacementHooks) OnBegin(string) {}
func (NoopPlacementHooks) OnCandidate(string, bool, int) {}
func (NoopPlacementHooks) OnCommit(string, time.Duration, error) {}
func (NoopPlacementHooks) OnCancel(string) {}
func (NoopPlacementHooks) OnMutation(string, error) {}
func (NoopPlacementHooks) OnGrow(int, int) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, time.Duration, error) {}
func (NoopStoreHooks) OnSave(context.Context, string, time.Duration, error) {}
func (NoopStoreHooks) OnFlushRetry(context.Context, string, int, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string) {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	placementHooks PlacementHooks = NoopPlacementHooks{}
	storeHooks     StoreHooks     = NoopStoreHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	hooksMu        sync.RWMutex
)

// SetPlacementHooks registers custom placement hooks.
// This should be called once at application startup before any engine is created.
func SetPlacementHooks(h PlacementHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		placementHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Placement returns the registered placement hooks.
func Placement() PlacementHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return placementHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	placementHooks = NoopPlacementHooks{}
	storeHooks = NoopStoreHooks{}
	httpHooks = NoopHTTPHooks{}
}
