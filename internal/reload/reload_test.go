package reload

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wordwidget/internal/model"
)

func TestScopeMatches(t *testing.T) {
	assert.True(t, ScopeAll.Matches(model.KindStats))
	assert.True(t, ScopeAll.Matches(model.KindWordOfDay))
	assert.True(t, ScopeOf(model.KindWordOfDay).Matches(model.KindWordOfDay))
	assert.False(t, ScopeOf(model.KindWordOfDay).Matches(model.KindStats))
}

func TestParseScope(t *testing.T) {
	for _, s := range []string{"all", "wordOfDay", "stats"} {
		got, err := ParseScope(s)
		require.NoError(t, err)
		assert.Equal(t, Scope(s), got)
	}
	_, err := ParseScope("everything")
	assert.Error(t, err)
}

func TestMultiNotifiesInOrder(t *testing.T) {
	var got []string
	a := NotifierFunc(func(_ context.Context, s Scope) { got = append(got, "a:"+string(s)) })
	b := NotifierFunc(func(_ context.Context, s Scope) { got = append(got, "b:"+string(s)) })

	Multi(a, nil, b).NotifyDisplaysChanged(context.Background(), ScopeAll)
	assert.Equal(t, []string{"a:all", "b:all"}, got)
}

func TestBroadcasterDeliversToEverySubscriber(t *testing.T) {
	b := NewBroadcaster()
	one, cancelOne := b.Subscribe()
	two, cancelTwo := b.Subscribe()
	defer cancelTwo()

	b.NotifyDisplaysChanged(context.Background(), ScopeOf(model.KindWordOfDay))
	assert.Equal(t, ScopeOf(model.KindWordOfDay), <-one)
	assert.Equal(t, ScopeOf(model.KindWordOfDay), <-two)

	cancelOne()
	cancelOne()
	_, open := <-one
	assert.False(t, open)

	b.NotifyDisplaysChanged(context.Background(), ScopeAll)
	assert.Equal(t, ScopeAll, <-two)
}

func TestBroadcasterMergesPendingSignals(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe()
	defer cancel()
	ctx := context.Background()

	b.NotifyDisplaysChanged(ctx, ScopeOf(model.KindWordOfDay))
	b.NotifyDisplaysChanged(ctx, ScopeOf(model.KindWordOfDay))
	assert.Equal(t, ScopeOf(model.KindWordOfDay), <-ch)
	assert.Empty(t, ch)

	b.NotifyDisplaysChanged(ctx, ScopeOf(model.KindWordOfDay))
	b.NotifyDisplaysChanged(ctx, ScopeOf(model.KindStats))
	assert.Equal(t, ScopeAll, <-ch)
	assert.Empty(t, ch)
}
