package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPlacementHooks{}
	p.OnBegin("move")
	p.OnCandidate("move", false, 2)
	p.OnCommit("resize", time.Second, errors.New("invalid"))
	p.OnCancel("move")
	p.OnMutation("add", nil)
	p.OnGrow(5, 10)

	s := NoopStoreHooks{}
	s.OnLoad(ctx, "sqlite", time.Millisecond, nil)
	s.OnSave(ctx, "redis", time.Millisecond, nil)
	s.OnFlushRetry(ctx, "wall-1", 2, errors.New("timeout"))

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/api/walls")
	h.OnResponse(ctx, "GET", "/api/walls", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Placement().(NoopPlacementHooks); !ok {
		t.Error("Placement() should return NoopPlacementHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPlacement := &testPlacementHooks{}
	SetPlacementHooks(customPlacement)
	if Placement() != customPlacement {
		t.Error("SetPlacementHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Placement().(NoopPlacementHooks); !ok {
		t.Error("Reset() should restore NoopPlacementHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testStoreHooks{}
	SetStoreHooks(custom)
	SetStoreHooks(nil)

	if Store() != custom {
		t.Error("SetStoreHooks(nil) should be ignored")
	}

	Reset()
}

type testPlacementHooks struct{ NoopPlacementHooks }
type testStoreHooks struct{ NoopStoreHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
