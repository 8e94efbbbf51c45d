package prom

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPlacementMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.OnBegin("move")
	m.OnBegin("move")
	m.OnBegin("resize")
	m.OnCandidate("move", true, 0)
	m.OnCandidate("move", false, 2)
	m.OnCandidate("move", false, 1)
	m.OnCommit("move", 300*time.Millisecond, nil)
	m.OnCommit("move", 0, errors.New("invalid"))
	m.OnCancel("resize")
	m.OnGrow(5, 10)

	expected := `
		# HELP myseum_candidates_total Total number of candidate updates by resulting state
		# TYPE myseum_candidates_total counter
		myseum_candidates_total{mode="move",state="invalid"} 2
		myseum_candidates_total{mode="move",state="valid"} 1
	`
	if err := testutil.CollectAndCompare(m.Candidates, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected candidates metric: %v", err)
	}

	if got := testutil.ToFloat64(m.Interactions.WithLabelValues("move")); got != 2 {
		t.Errorf("interactions{move} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Commits.WithLabelValues("move", "error")); got != 1 {
		t.Errorf("commits{move,error} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.InteractionDuration); got != 1 {
		t.Errorf("interaction duration series = %d, want 1 (failed commits are not observed)", got)
	}
	if got := testutil.ToFloat64(m.Cancels.WithLabelValues("resize")); got != 1 {
		t.Errorf("cancels{resize} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.GridGrowth); got != 1 {
		t.Errorf("grid growth = %v, want 1", got)
	}
}

func TestStoreAndHTTPMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())
	ctx := context.Background()

	m.OnSave(ctx, "sqlite", 5*time.Millisecond, nil)
	m.OnSave(ctx, "sqlite", 5*time.Millisecond, errors.New("locked"))
	m.OnLoad(ctx, "memory", time.Microsecond, nil)
	m.OnFlushRetry(ctx, "wall-1", 1, errors.New("locked"))

	if got := testutil.CollectAndCount(m.StoreDuration); got != 3 {
		t.Errorf("store duration series = %d, want 3", got)
	}
	if got := testutil.ToFloat64(m.FlushRetries); got != 1 {
		t.Errorf("flush retries = %v, want 1", got)
	}

	m.OnRequest(ctx, "GET", "/api/walls")
	if got := testutil.ToFloat64(m.HTTPInFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	m.OnResponse(ctx, "GET", "/api/walls", 200, time.Millisecond)
	if got := testutil.ToFloat64(m.HTTPInFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := testutil.CollectAndCount(m.HTTPRequestDuration); got != 1 {
		t.Errorf("http duration series = %d, want 1", got)
	}
}

func TestNewRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	defer func() {
		if recover() == nil {
			t.Error("New() with the same registry should panic on duplicate registration")
		}
	}()
	New(reg)
}
