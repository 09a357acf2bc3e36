package mechshop

import "sync"

// EventLoginStatusChange names the no-payload session-changed signal.
// Receipt means "re-read session state now".
const EventLoginStatusChange = "login-status-change"

// Broadcaster fans a no-payload notification out to any number of
// independent listeners. Subscribers receive at least one tick per burst
// of notifications; a slow subscriber coalesces rather than blocking the
// notifier.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan struct{}
	next int
}

// NewBroadcaster returns an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan struct{})}
}

// Subscribe registers a listener. The returned cancel func must be
// called when the listener goes away.
func (b *Broadcaster) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan struct{}, 1)
	b.subs[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Notify signals every subscriber without blocking on any of them.
func (b *Broadcaster) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
