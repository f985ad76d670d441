package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/metapkg/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created,
// rounded to the millisecond.
// Example output: "Resolved 12 requirements (134ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks routes library events to the logger. Skipped source files are
// routine and logged at debug level; skipped distributions mean a damaged
// environment and are logged as warnings.
type logHooks struct {
	logger *log.Logger
}

func installHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetScanHooks(h)
	observability.SetIndexHooks(h)
	observability.SetResolveHooks(h)
}

func (h *logHooks) OnFileSkipped(_ context.Context, path string, err error) {
	h.logger.Debug("skipped source file", "path", path, "err", err)
}

func (h *logHooks) OnScanComplete(_ context.Context, root string, files, skipped, names int, d time.Duration) {
	h.logger.Debug("scanned sources", "root", root, "files", files, "skipped", skipped, "imports", names, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnDistributionSkipped(_ context.Context, path string, err error) {
	h.logger.Warn("unreadable distribution metadata", "path", path, "err", err)
}

func (h *logHooks) OnIndexBuilt(_ context.Context, dirs, distributions int, d time.Duration) {
	h.logger.Debug("indexed site-packages", "dirs", dirs, "distributions", distributions, "took", d.Round(time.Millisecond))
}

func (h *logHooks) OnResolveStart(_ context.Context, method string) {
	h.logger.Debug("resolving requirements", "method", method)
}

func (h *logHooks) OnResolveComplete(_ context.Context, method string, count int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("resolution failed", "method", method, "err", err)
		return
	}
	h.logger.Debug("resolved requirements", "method", method, "count", count, "took", d.Round(time.Millisecond))
}
