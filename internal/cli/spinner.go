package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// connectSpinner animates a single status line while a remote store dials.
// It ends on stop or when the dial context is done, whichever comes first.
type connectSpinner struct {
	out   io.Writer
	label string

	ctx    context.Context
	cancel context.CancelFunc
	quit   chan struct{}
	exited chan struct{}

	stopOnce sync.Once
	writeMu  sync.Mutex
}

// startSpinner draws label to out until stop is called or ctx ends.
func startSpinner(ctx context.Context, out io.Writer, label string) *connectSpinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &connectSpinner{
		out:    out,
		label:  label,
		ctx:    ctx,
		cancel: cancel,
		quit:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go s.loop()
	return s
}

func (s *connectSpinner) loop() {
	defer close(s.exited)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.quit:
			return
		case <-s.ctx.Done():
			s.erase()
			return
		case <-tick.C:
			glyph := spinnerFrames[frame%len(spinnerFrames)]
			s.write("\r" + styleIconSpinner.Render(glyph) + " " + StyleDim.Render(s.label))
		}
	}
}

// stop ends the animation and blanks the line. Later calls do nothing.
func (s *connectSpinner) stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		<-s.exited
		s.cancel()
		s.erase()
	})
}

// interrupted reports whether the context ended before stop was called.
func (s *connectSpinner) interrupted() bool {
	select {
	case <-s.quit:
		return false
	default:
		return s.ctx.Err() != nil
	}
}

func (s *connectSpinner) erase() {
	s.write(fmt.Sprintf("\r%s\r", strings.Repeat(" ", len(s.label)+4)))
}

func (s *connectSpinner) write(line string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	io.WriteString(s.out, line)
}
