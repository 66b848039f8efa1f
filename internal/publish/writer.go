// Package publish writes the host app's progress into the shared store and
// signals display surfaces to refresh.
package publish

import (
	"context"
	"log/slog"
	"time"

	"github.com/verte-zerg/wordwidget/internal/model"
	"github.com/verte-zerg/wordwidget/internal/reload"
	"github.com/verte-zerg/wordwidget/internal/shared"
	"github.com/verte-zerg/wordwidget/internal/wordcodec"
)

// Writer publishes progress snapshots and words of the day. It keeps no
// state between calls.
type Writer struct {
	store    *shared.Store
	notifier reload.Notifier
	codec    wordcodec.Codec
	now      func() time.Time
	logger   *slog.Logger
}

// Option customizes a Writer.
type Option func(*Writer)

// WithCodec overrides the word-of-day codec.
func WithCodec(c wordcodec.Codec) Option {
	return func(w *Writer) { w.codec = c }
}

// WithClock overrides the clock used for update timestamps.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Writer) { w.logger = l }
}

// NewWriter returns a Writer over store. A nil notifier drops reload signals.
func NewWriter(store *shared.Store, notifier reload.Notifier, opts ...Option) *Writer {
	w := &Writer{
		store:    store,
		notifier: notifier,
		codec:    wordcodec.New(),
		now:      time.Now,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.notifier == nil {
		w.notifier = reload.Nop
	}
	return w
}

// PublishProgress writes the four counters and a fresh update timestamp, then
// asks every display surface to reload. snapshot.LastUpdate is ignored.
func (w *Writer) PublishProgress(ctx context.Context, snapshot model.ProgressSnapshot) {
	w.store.SetInteger(ctx, shared.KeyStreak, snapshot.Streak)
	w.store.SetInteger(ctx, shared.KeyTodayPoints, snapshot.TodayPoints)
	w.store.SetInteger(ctx, shared.KeyTotalWords, snapshot.TotalWordsLearned)
	w.store.SetInteger(ctx, shared.KeyLessonsCompleted, snapshot.LessonsCompleted)
	w.store.SetTimestamp(ctx, shared.KeyLastUpdate, w.now())

	w.logger.Debug("progress published",
		slog.Int("streak", snapshot.Streak),
		slog.Int("today_points", snapshot.TodayPoints),
		slog.Int("total_words", snapshot.TotalWordsLearned),
		slog.Int("lessons_completed", snapshot.LessonsCompleted))
	w.notifier.NotifyDisplaysChanged(ctx, reload.ScopeAll)
}

// PublishWordOfDay stores the encoded word and its publish date, then asks
// the word surfaces to reload. When the word cannot be encoded nothing is
// written or signalled and the previously stored word stays in place.
func (w *Writer) PublishWordOfDay(ctx context.Context, word model.WordOfDay) {
	data, err := w.codec.Encode(word)
	if err != nil {
		w.logger.Warn("word of day not published", slog.String("word", word.Word), slog.Any("error", err))
		return
	}
	w.store.SetBytes(ctx, shared.KeyWordOfDay, data)
	w.store.SetTimestamp(ctx, shared.KeyWordOfDayDate, w.now())

	w.logger.Debug("word of day published", slog.String("word", word.Word))
	w.notifier.NotifyDisplaysChanged(ctx, reload.ScopeOf(model.KindWordOfDay))
}
