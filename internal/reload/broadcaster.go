package reload

import (
	"context"
	"sync"
)

// Broadcaster delivers reload signals to subscribers in the same process.
// Delivery never blocks the notifier. Each subscriber holds at most one
// pending signal; a second, different scope arriving before the first is
// read widens the pending one to ScopeAll.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[chan Scope]struct{}
}

// NewBroadcaster returns a Broadcaster with no subscribers.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: map[chan Scope]struct{}{}}
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel.
func (b *Broadcaster) Subscribe() (<-chan Scope, func()) {
	ch := make(chan Scope, 1)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// NotifyDisplaysChanged implements Notifier.
func (b *Broadcaster) NotifyDisplaysChanged(_ context.Context, scope Scope) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- scope:
			continue
		default:
		}
		select {
		case prev := <-ch:
			if prev != scope {
				prev = ScopeAll
			}
			ch <- prev
		default:
			ch <- scope
		}
	}
}
