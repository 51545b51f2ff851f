package session

import "sync"

// AuthEventType distinguishes session-change notifications.
type AuthEventType string

const (
	EventSignedIn  AuthEventType = "SIGNED_IN"
	EventSignedOut AuthEventType = "SIGNED_OUT"
)

// AuthEvent is published whenever an authentication state change occurs.
type AuthEvent struct {
	Type   AuthEventType
	UserID string
	Email  string
}

// AuthEventBus fans auth events out to subscribers. Subscriptions are
// scoped: the returned release func must be called when the subscriber
// shuts down so re-initialization cannot stack duplicate handlers.
type AuthEventBus struct {
	mu     sync.Mutex
	subs   map[int]chan AuthEvent
	nextID int
	closed bool
}

// NewAuthEventBus creates an empty bus.
func NewAuthEventBus() *AuthEventBus {
	return &AuthEventBus{subs: make(map[int]chan AuthEvent)}
}

// Subscribe registers a listener and returns its channel plus a release func.
func (b *AuthEventBus) Subscribe() (<-chan AuthEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan AuthEvent, 8)
	b.subs[id] = ch

	release := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, release
}

// Publish delivers the event to every subscriber. Slow subscribers with a
// full buffer miss the event rather than blocking the publisher.
func (b *AuthEventBus) Publish(e AuthEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Close shuts the bus down and closes all subscriber channels.
func (b *AuthEventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
