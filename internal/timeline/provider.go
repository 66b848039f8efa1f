// Package timeline is the read path of a display surface: it turns the
// shared store's contents into display entries and decides when the next
// refresh is due.
package timeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/verte-zerg/wordwidget/internal/model"
	"github.com/verte-zerg/wordwidget/internal/shared"
	"github.com/verte-zerg/wordwidget/internal/wordcodec"
)

// DefaultInterval is the refresh cadence. Words and stats change at most a
// few times a day.
const DefaultInterval = time.Hour

// Timeline is the answer to a scheduled refresh: the entries to show and
// when to ask again.
type Timeline struct {
	Entries   []model.DisplayEntry
	RefreshAt time.Time
}

// Provider produces display entries. It keeps no state between calls and is
// safe for concurrent use.
type Provider struct {
	store    *shared.Store
	codec    wordcodec.Codec
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// Option customizes a Provider.
type Option func(*Provider)

// WithInterval sets the refresh cadence. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithCodec overrides the word-of-day codec.
func WithCodec(c wordcodec.Codec) Option {
	return func(p *Provider) { p.codec = c }
}

// WithClock overrides the clock used by CurrentEntry and PlaceholderEntry.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// NewProvider returns a Provider reading from store.
func NewProvider(store *shared.Store, opts ...Option) *Provider {
	p := &Provider{
		store:    store,
		codec:    wordcodec.New(),
		interval: DefaultInterval,
		now:      time.Now,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the refresh cadence.
func (p *Provider) Interval() time.Duration {
	return p.interval
}

// ProduceEntry reads the current store contents. Missing counters are 0 and
// a missing or unreadable word leaves WordOfDay nil.
func (p *Provider) ProduceEntry(ctx context.Context, now time.Time, opts model.DisplayOptions) model.DisplayEntry {
	snap := model.ProgressSnapshot{
		Streak:            p.store.Integer(ctx, shared.KeyStreak),
		TodayPoints:       p.store.Integer(ctx, shared.KeyTodayPoints),
		TotalWordsLearned: p.store.Integer(ctx, shared.KeyTotalWords),
		LessonsCompleted:  p.store.Integer(ctx, shared.KeyLessonsCompleted),
	}
	if ts, ok := p.store.Timestamp(ctx, shared.KeyLastUpdate); ok {
		snap.LastUpdate = ts
	}
	return model.DisplayEntry{
		GeneratedAt: now,
		Snapshot:    snap,
		WordOfDay:   p.wordOfDay(ctx),
		Options:     opts,
	}
}

func (p *Provider) wordOfDay(ctx context.Context) *model.WordOfDay {
	raw, ok := p.store.Bytes(ctx, shared.KeyWordOfDay)
	if !ok {
		return nil
	}
	word, err := p.codec.Decode(raw)
	if err != nil {
		p.logger.Debug("stored word of day unreadable", slog.Any("error", err))
		return nil
	}
	return &word
}

// WordPublishedAt returns when the current word of day was published.
func (p *Provider) WordPublishedAt(ctx context.Context) (time.Time, bool) {
	return p.store.Timestamp(ctx, shared.KeyWordOfDayDate)
}

// NextRefreshTime returns the earliest time the next refresh is due.
func (p *Provider) NextRefreshTime(now time.Time) time.Time {
	return now.Add(p.interval)
}

// CurrentEntry produces an entry for an ad-hoc refresh request.
func (p *Provider) CurrentEntry(ctx context.Context, opts model.DisplayOptions) model.DisplayEntry {
	return p.ProduceEntry(ctx, p.now(), opts)
}

// Timeline produces the single-entry timeline for a scheduled refresh.
func (p *Provider) Timeline(ctx context.Context, now time.Time, opts model.DisplayOptions) Timeline {
	return Timeline{
		Entries:   []model.DisplayEntry{p.ProduceEntry(ctx, now, opts)},
		RefreshAt: p.NextRefreshTime(now),
	}
}

// PlaceholderEntry returns the fixed sample entry shown before real data
// exists. It never reads the store.
func (p *Provider) PlaceholderEntry() model.DisplayEntry {
	return Placeholder(p.now())
}

// Placeholder builds the sample entry stamped at now.
func Placeholder(now time.Time) model.DisplayEntry {
	return model.DisplayEntry{
		GeneratedAt: now,
		Snapshot: model.ProgressSnapshot{
			Streak:            7,
			TodayPoints:       120,
			TotalWordsLearned: 150,
			LessonsCompleted:  5,
			LastUpdate:        now,
		},
		WordOfDay: &model.WordOfDay{
			Word:          "Serendipity",
			Definition:    "The occurrence of events by chance in a happy way",
			Example:       "Finding this park was pure serendipity.",
			Pronunciation: "/ˌserənˈdɪpɪti/",
		},
		Options: model.DefaultDisplayOptions(),
	}
}
