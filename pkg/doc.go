// Package pkg provides the core libraries for Myseum gallery walls.
//
// # Overview
//
// Myseum arranges framed artworks on a wall modeled as a grid of square
// cells. Every item occupies a whole-cell rectangle, items never overlap,
// and every move or resize is checked before it is committed. The pkg
// directory is organized into three areas:
//
//  1. Domain logic: [grid], [placement], [interaction], [wall]
//  2. Services: [gallery], [server], [session]
//  3. Infrastructure: [store], [observability], [errors], [buildinfo]
//
// # Architecture
//
// The typical data flow of an edit:
//
//	keyboard, pointer or HTTP request
//	         ↓
//	    [interaction] (intents → engine calls, pixel snapping)
//	         ↓
//	    [placement] (candidate validation, commit, cancel)
//	         ↓
//	    [grid] (rectangles, collision queries, spatial index)
//	         ↓
//	    [gallery] → [store] (memory, file, SQLite, Redis, MongoDB)
//
// # Quick Start
//
// Hang two artworks and drag one of them:
//
//	import (
//	    "github.com/matzehuels/myseum/pkg/grid"
//	    "github.com/matzehuels/myseum/pkg/placement"
//	    "github.com/matzehuels/myseum/pkg/wall"
//	)
//
//	w, _ := wall.New("local", "Hallway", grid.Size{Width: 20, Height: 10}, wall.DefaultUnit)
//	eng, _ := w.Engine()
//	eng.AddItem(wall.Item{ID: "a", Size: grid.Size{Width: 3, Height: 2}})
//	eng.AddItem(wall.Item{ID: "b", Size: grid.Size{Width: 2, Height: 2}})
//
//	eng.BeginMove("a")
//	fb, _ := eng.UpdateCandidate(placement.Delta{DX: 3})
//	if fb.State == placement.Valid {
//	    eng.Commit()
//	} else {
//	    eng.Cancel() // fb.Conflicts names the blocking items
//	}
//	w.SetArrangement(eng.Arrangement(), eng.GridSize())
//
// # Main Packages
//
// [grid] - Cell geometry: sizes, positions, rectangles, the immutable
// arrangement of items and the uniform-bucket spatial index used for
// collision queries on large walls.
//
// [placement] - The placement engine. It owns the committed arrangement,
// tracks at most one active move or resize, reports live feedback for the
// candidate, and grows the wall downward when a committed item extends
// past the bottom edge.
//
// [interaction] - Translates keyboard intents and pixel drags into engine
// calls.
//
// [wall] - The persisted wall document with JSON and YAML codecs.
//
// [gallery] - Wall operations for the CLI and the HTTP API, with per-wall
// serialization and optional background persistence.
//
// [store] - Persistence backends. [store.Flusher] saves walls in the
// background with debouncing and retries.
//
// [server] - The HTTP API built on chi.
//
// [session] - API sessions and wall access rules.
//
// [observability] - Hook interfaces for metrics, implemented for
// Prometheus in observability/prom.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/placement/...          # Specific package
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
package pkg
