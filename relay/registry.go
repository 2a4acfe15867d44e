// Package relay couples one engine session to many WebSocket
// subscribers, forwarding a filtered slice of the event stream to each
// without letting a slow subscriber stall the producer or its peers.
package relay

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SubscriberID is the opaque handle spec.md's subscriber registry
// keys on. A random UUID replaces the teacher's pointer-identity trick
// so /clients can print it.
type SubscriberID = uuid.UUID

// subscriber is one registry entry: a sink the broadcast step posts
// serialized frames to, and the time it connected.
type subscriber struct {
	id          SubscriberID
	sink        chan []byte
	connectedAt time.Time

	removeOnce sync.Once
}

// Summary is the read-only view of a subscriber exposed to /clients.
type Summary struct {
	ID          SubscriberID `json:"id"`
	ConnectedAt time.Time    `json:"connectedAt"`
	QueueLen    int          `json:"queueLen"`
}

// Registry is the one shared mutable structure in the relay (spec.md
// §5, "Shared resources"). Insertions happen only on upgrade
// completion, removals on close or write failure, and iteration for
// broadcast is a snapshot: a failure on any one subscriber does not
// invalidate delivery to the others.
type Registry struct {
	mu   sync.Mutex
	subs map[SubscriberID]*subscriber
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{subs: make(map[SubscriberID]*subscriber)}
}

// Register admits a new subscriber with the given outbound buffer
// depth and returns its id and sink. The caller drains the sink on its
// own writer goroutine.
func (r *Registry) Register(buffer int) (SubscriberID, <-chan []byte) {
	sub := &subscriber{
		id:          uuid.New(),
		sink:        make(chan []byte, buffer),
		connectedAt: time.Now(),
	}
	r.mu.Lock()
	r.subs[sub.id] = sub
	r.mu.Unlock()
	return sub.id, sub.sink
}

// Remove deregisters id, closing its sink exactly once. Safe to call
// more than once for the same id (e.g. both a close frame and a
// broadcast write failure racing to remove the same subscriber).
func (r *Registry) Remove(id SubscriberID) {
	r.mu.Lock()
	sub, ok := r.subs[id]
	if ok {
		delete(r.subs, id)
	}
	r.mu.Unlock()
	if ok {
		sub.removeOnce.Do(func() { close(sub.sink) })
	}
}

// snapshot returns the current subscriber set as a slice, decoupling
// iteration from the lock so a slow send to one subscriber's sink
// never blocks Register/Remove on another goroutine.
func (r *Registry) snapshot() []*subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*subscriber, 0, len(r.subs))
	for _, sub := range r.subs {
		out = append(out, sub)
	}
	return out
}

// Broadcast posts payload to every subscriber's sink without blocking.
// A subscriber whose sink is full (a slow consumer, per spec.md §4.5)
// is dropped rather than allowed to stall the others.
func (r *Registry) Broadcast(payload []byte) {
	for _, sub := range r.snapshot() {
		// Send under the lock and only while still registered, so a
		// concurrent Remove cannot close the sink mid-send.
		r.mu.Lock()
		_, live := r.subs[sub.id]
		full := false
		if live {
			select {
			case sub.sink <- payload:
			default:
				full = true
			}
		}
		r.mu.Unlock()
		if full {
			r.Remove(sub.id)
		}
	}
}

// Len reports the current subscriber count.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Summaries lists every current subscriber for the /clients endpoint.
func (r *Registry) Summaries() []Summary {
	subs := r.snapshot()
	out := make([]Summary, 0, len(subs))
	for _, sub := range subs {
		out = append(out, Summary{
			ID:          sub.id,
			ConnectedAt: sub.connectedAt,
			QueueLen:    len(sub.sink),
		})
	}
	return out
}
