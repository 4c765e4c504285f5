// Package events fans task and account lifecycle events out to in-process
// SSE subscribers and, when configured, an MQTT broker. Publishing is
// best-effort: a slow subscriber drops events rather than blocking the
// request that produced them.
package events

import "sync"

// Event types published by the handlers.
const (
	TodoCreated    = "todo.created"
	TodoUpdated    = "todo.updated"
	TodoDeleted    = "todo.deleted"
	UserRegistered = "user.registered"
	UserUpdated    = "user.updated"
	UserDeleted    = "user.deleted"
)

// Event is one lifecycle notification. OwnerID addresses the stream of the
// user whose data changed.
type Event struct {
	Type    string `json:"type"`
	OwnerID int    `json:"owner_id"`
	Payload any    `json:"payload,omitempty"`
}

// Sink receives every published event, regardless of owner.
type Sink interface {
	Publish(Event)
}

const subscriberBuffer = 16

// Hub routes events to per-user subscriber channels and attached sinks.
type Hub struct {
	mu    sync.Mutex
	subs  map[int]map[chan Event]struct{}
	sinks []Sink
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]map[chan Event]struct{})}
}

// AttachSink registers an extra destination for all events.
func (h *Hub) AttachSink(s Sink) {
	if s == nil {
		return
	}
	h.mu.Lock()
	h.sinks = append(h.sinks, s)
	h.mu.Unlock()
}

// Subscribe registers a channel for one user's events. The returned cancel
// function unregisters and closes the channel; it is safe to call once the
// client disconnects, even while publishes are in flight.
func (h *Hub) Subscribe(ownerID int) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.subs[ownerID] == nil {
		h.subs[ownerID] = make(map[chan Event]struct{})
	}
	h.subs[ownerID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[ownerID], ch)
			if len(h.subs[ownerID]) == 0 {
				delete(h.subs, ownerID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to the owner's subscribers and every sink.
// Full subscriber buffers are skipped.
func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	for ch := range h.subs[e.OwnerID] {
		select {
		case ch <- e:
		default:
		}
	}
	sinks := append([]Sink(nil), h.sinks...)
	h.mu.Unlock()

	for _, s := range sinks {
		s.Publish(e)
	}
}
