package realtime

import (
	"context"
	"encoding/json"
	"sync"
)

// Event change kinds.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

// Well-known topics. Message events use RoomTopic(roomID).
const (
	TopicUsers = "users"
	TopicCalls = "calls"
)

// RoomTopic is the change-stream topic for one room's messages.
func RoomTopic(roomID string) string {
	return "room:" + roomID
}

// Event is one change notification delivered to subscribers of a topic.
type Event struct {
	Topic string          `json:"topic"`
	Kind  string          `json:"kind"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Bus is the change-stream primitive: writes publish, live views subscribe.
// Subscribe returns a receive channel and an unsubscribe func; after
// unsubscribe returns, the channel is closed and no further events arrive.
type Bus interface {
	Publish(ctx context.Context, evt Event) error
	Subscribe(topic string) (<-chan Event, func())
}

// subscriberBuffer bounds per-subscriber queues; a stalled consumer drops
// events rather than blocking every other subscriber.
const subscriberBuffer = 32

type subscriber struct {
	ch chan Event
}

// hub is the local fan-out registry shared by both Bus implementations.
type hub struct {
	mu   sync.RWMutex
	subs map[string]map[*subscriber]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[*subscriber]struct{})}
}

func (h *hub) subscribe(topic string) (<-chan Event, func()) {
	sub := &subscriber{ch: make(chan Event, subscriberBuffer)}

	h.mu.Lock()
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[*subscriber]struct{})
	}
	h.subs[topic][sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			if set, ok := h.subs[topic]; ok {
				delete(set, sub)
				if len(set) == 0 {
					delete(h.subs, topic)
				}
			}
			h.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, unsubscribe
}

func (h *hub) dispatch(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[evt.Topic] {
		select {
		case sub.ch <- evt:
		default:
			// Best effort: drop for slow consumers.
		}
	}
}

// MemoryBus is an in-process Bus for tests and single-node deployments.
type MemoryBus struct {
	hub *hub
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{hub: newHub()}
}

func (b *MemoryBus) Publish(_ context.Context, evt Event) error {
	b.hub.dispatch(evt)
	return nil
}

func (b *MemoryBus) Subscribe(topic string) (<-chan Event, func()) {
	return b.hub.subscribe(topic)
}
