package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the command logger. Timestamps are kept short since
// editor sessions and serve runs log many lines a second.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// timer logs how long a store round trip took, as a structured "took"
// field on the final message.
type timer struct {
	logger *log.Logger
	start  time.Time
}

func startTimer(l *log.Logger) timer {
	return timer{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and the elapsed time.
func (t timer) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(t.start).Round(time.Millisecond))
	t.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or log.Default() when
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
