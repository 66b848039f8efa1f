package timeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wordwidget/internal/model"
	"github.com/verte-zerg/wordwidget/internal/publish"
	"github.com/verte-zerg/wordwidget/internal/reload"
	"github.com/verte-zerg/wordwidget/internal/shared"
	"github.com/verte-zerg/wordwidget/internal/wordcodec"
)

var (
	fixedNow = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	allOn    = model.DisplayOptions{ShowStreak: true, ShowStats: true}
)

func newTestProvider(opts ...Option) (*Provider, *shared.Store) {
	st := shared.New(shared.NewMemoryBackend(), nil)
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewProvider(st, opts...), st
}

func TestProduceEntryDefaultsOnFreshStore(t *testing.T) {
	p, _ := newTestProvider()
	entry := p.ProduceEntry(context.Background(), fixedNow, allOn)

	assert.Equal(t, fixedNow, entry.GeneratedAt)
	assert.Equal(t, model.ProgressSnapshot{}, entry.Snapshot)
	assert.Nil(t, entry.WordOfDay)
	assert.Equal(t, allOn, entry.Options)
}

func TestProduceEntryReflectsPublishedProgress(t *testing.T) {
	ctx := context.Background()
	p, st := newTestProvider()
	w := publish.NewWriter(st, reload.Nop, publish.WithClock(func() time.Time { return fixedNow }))

	w.PublishProgress(ctx, model.ProgressSnapshot{Streak: 7, TodayPoints: 120, TotalWordsLearned: 150, LessonsCompleted: 5})
	entry := p.ProduceEntry(ctx, fixedNow, allOn)

	assert.Equal(t, 7, entry.Snapshot.Streak)
	assert.Equal(t, 120, entry.Snapshot.TodayPoints)
	assert.Equal(t, 150, entry.Snapshot.TotalWordsLearned)
	assert.Equal(t, 5, entry.Snapshot.LessonsCompleted)
	assert.True(t, fixedNow.Equal(entry.Snapshot.LastUpdate))
}

func TestPublishProgressIsIdempotent(t *testing.T) {
	ctx := context.Background()
	p, st := newTestProvider()
	w := publish.NewWriter(st, reload.Nop, publish.WithClock(func() time.Time { return fixedNow }))
	snap := model.ProgressSnapshot{Streak: 3, TodayPoints: 40, TotalWordsLearned: 12, LessonsCompleted: 2}

	w.PublishProgress(ctx, snap)
	first := p.ProduceEntry(ctx, fixedNow, allOn)
	w.PublishProgress(ctx, snap)
	second := p.ProduceEntry(ctx, fixedNow, allOn)

	assert.Equal(t, first, second)
}

func TestProduceEntryReadsWordOfDay(t *testing.T) {
	ctx := context.Background()
	p, st := newTestProvider()
	word := model.WordOfDay{Word: "Lucid", Definition: "Expressed clearly", Example: "A lucid explanation.", Pronunciation: "/ˈluːsɪd/"}
	publish.NewWriter(st, reload.Nop).PublishWordOfDay(ctx, word)

	entry := p.ProduceEntry(ctx, fixedNow, model.DisplayOptions{})
	require.NotNil(t, entry.WordOfDay)
	assert.Equal(t, word, *entry.WordOfDay)

	_, ok := p.WordPublishedAt(ctx)
	assert.True(t, ok)
}

func TestProduceEntryTreatsCorruptWordAsAbsent(t *testing.T) {
	ctx := context.Background()
	p, st := newTestProvider()
	data, err := wordcodec.New().Encode(model.WordOfDay{Word: "Truncate", Definition: "Shorten", Example: "Truncate it.", Pronunciation: "/trʌŋˈkeɪt/"})
	require.NoError(t, err)
	st.SetBytes(ctx, shared.KeyWordOfDay, data[:len(data)-3])
	st.SetInteger(ctx, shared.KeyStreak, 2)

	var entry model.DisplayEntry
	require.NotPanics(t, func() {
		entry = p.ProduceEntry(ctx, fixedNow, allOn)
	})
	assert.Nil(t, entry.WordOfDay)
	assert.Equal(t, 2, entry.Snapshot.Streak)
}

func TestProduceEntryOnUnavailableStore(t *testing.T) {
	p := NewProvider(shared.New(shared.Unavailable(nil), nil))
	entry := p.ProduceEntry(context.Background(), fixedNow, allOn)
	assert.Equal(t, model.ProgressSnapshot{}, entry.Snapshot)
	assert.Nil(t, entry.WordOfDay)
}

func TestNextRefreshTime(t *testing.T) {
	p, _ := newTestProvider()
	for _, ts := range []time.Time{
		fixedNow,
		time.Unix(0, 0),
		time.Date(2026, 12, 31, 23, 30, 0, 0, time.Local),
	} {
		assert.Equal(t, ts.Add(time.Hour), p.NextRefreshTime(ts))
	}

	custom, _ := newTestProvider(WithInterval(15 * time.Minute))
	assert.Equal(t, fixedNow.Add(15*time.Minute), custom.NextRefreshTime(fixedNow))

	ignored, _ := newTestProvider(WithInterval(-time.Second))
	assert.Equal(t, DefaultInterval, ignored.Interval())
}

func TestTimelineHasOneEntryAndRefreshTime(t *testing.T) {
	ctx := context.Background()
	p, st := newTestProvider()
	st.SetInteger(ctx, shared.KeyTotalWords, 9)

	tl := p.Timeline(ctx, fixedNow, allOn)
	require.Len(t, tl.Entries, 1)
	assert.Equal(t, 9, tl.Entries[0].Snapshot.TotalWordsLearned)
	assert.Equal(t, fixedNow.Add(time.Hour), tl.RefreshAt)
}

func TestCurrentEntryUsesClock(t *testing.T) {
	p, _ := newTestProvider()
	opts := model.DisplayOptions{ShowStreak: false, ShowStats: true}
	entry := p.CurrentEntry(context.Background(), opts)
	assert.Equal(t, fixedNow, entry.GeneratedAt)
	assert.Equal(t, opts, entry.Options)
}

func TestPlaceholderEntryIsFixed(t *testing.T) {
	ctx := context.Background()
	p, st := newTestProvider()
	st.SetInteger(ctx, shared.KeyStreak, 99)

	for i := 0; i < 2; i++ {
		entry := p.PlaceholderEntry()
		assert.Equal(t, 7, entry.Snapshot.Streak)
		assert.Equal(t, 120, entry.Snapshot.TodayPoints)
		assert.Equal(t, 150, entry.Snapshot.TotalWordsLearned)
		assert.Equal(t, 5, entry.Snapshot.LessonsCompleted)
		require.NotNil(t, entry.WordOfDay)
		assert.Equal(t, model.WordOfDay{
			Word:          "Serendipity",
			Definition:    "The occurrence of events by chance in a happy way",
			Example:       "Finding this park was pure serendipity.",
			Pronunciation: "/ˌserənˈdɪpɪti/",
		}, *entry.WordOfDay)
	}
}
