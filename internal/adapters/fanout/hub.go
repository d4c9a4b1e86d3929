// Package fanout contains the in-process push transport adapter: a topic hub
// delivering messages to all current subscribers of a logical topic.
package fanout

import (
	"sync"

	"github.com/example/pitstop/internal/ports/secondary"
)

// subscriberBuffer is the per-subscriber channel depth. A subscriber that
// falls further behind than this drops messages rather than stalling the
// publisher; dropped updates are recovered by the next refresh.
const subscriberBuffer = 16

// Hub is an in-process topic fanout. Publish never blocks the caller.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[int]chan secondary.Message
	nextID int
	closed bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan secondary.Message)}
}

// Subscribe joins a logical topic. The returned cancel func leaves the topic
// and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(topic string) (<-chan secondary.Message, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan secondary.Message, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[int]chan secondary.Message)
	}
	h.subs[topic][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if subs, ok := h.subs[topic]; ok {
				if _, ok := subs[id]; ok {
					delete(subs, id)
					close(ch)
				}
			}
		})
	}
	return ch, cancel
}

// Publish delivers msg to every current subscriber of topic. Slow
// subscribers are skipped, never waited on.
func (h *Hub) Publish(topic string, msg secondary.Message) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs[topic] {
		select {
		case ch <- msg:
		default:
			// Subscriber buffer full; drop for this subscriber.
		}
	}
	return nil
}

// SubscriberCount returns the number of subscribers on a topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[topic])
}

// Close closes all subscriber channels and rejects future subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, subs := range h.subs {
		for id, ch := range subs {
			delete(subs, id)
			close(ch)
		}
	}
}

// Ensure Hub implements the interface
var _ secondary.Publisher = (*Hub)(nil)
