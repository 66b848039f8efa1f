package timeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/verte-zerg/wordwidget/internal/model"
	"github.com/verte-zerg/wordwidget/internal/reload"
)

// Runner drives one display surface: it produces an entry on start, when
// the timeline's refresh time arrives and when a matching reload signal is
// received.
type Runner struct {
	Provider *Provider
	Kind     model.Kind
	Options  model.DisplayOptions
	// Reloads may be nil, in which case only the timer triggers refreshes.
	Reloads <-chan reload.Scope
	// Sink receives every produced entry on the Run goroutine.
	Sink   func(model.DisplayEntry)
	Logger *slog.Logger
}

// Run blocks until ctx is done or Reloads is closed.
func (r *Runner) Run(ctx context.Context) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	refresh := func(reason string) time.Duration {
		now := r.Provider.now()
		tl := r.Provider.Timeline(ctx, now, r.Options)
		for _, entry := range tl.Entries {
			r.Sink(entry)
		}
		logger.Debug("display refreshed",
			slog.String("kind", string(r.Kind)),
			slog.String("reason", reason),
			slog.Time("refresh_at", tl.RefreshAt))
		return tl.RefreshAt.Sub(now)
	}

	timer := time.NewTimer(refresh("start"))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			timer.Reset(refresh("schedule"))
		case scope, ok := <-r.Reloads:
			if !ok {
				return nil
			}
			if !scope.Matches(r.Kind) {
				continue
			}
			delay := refresh("reload")
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(delay)
		}
	}
}
