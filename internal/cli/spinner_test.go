package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// lockedBuffer guards a bytes.Buffer shared with the spinner goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerStop(t *testing.T) {
	var out lockedBuffer
	s := startSpinner(context.Background(), &out, "Connecting to redis")
	time.Sleep(3 * spinnerInterval)
	s.stop()
	s.stop()

	if s.interrupted() {
		t.Error("interrupted() = true after stop, want false")
	}
	got := out.String()
	if !strings.Contains(got, "Connecting to redis") {
		t.Errorf("output %q does not show the label", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("output %q does not end with a cleared line", got)
	}
}

func TestSpinnerContextDone(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var out lockedBuffer
	s := startSpinner(ctx, &out, "Connecting to mongo")
	<-ctx.Done()
	time.Sleep(50 * time.Millisecond)
	if !s.interrupted() {
		t.Error("interrupted() = false after context timeout, want true")
	}
	s.stop()
}
