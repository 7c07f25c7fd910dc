// Package events is the in-process publish/subscribe bus shared by domain
// stores and the sync engine.
package events

import (
	"sync"
)

// Topic names an event stream.
type Topic string

const (
	// TopicReload asks every domain store to re-read its data from local
	// storage. Published once per applied remote snapshot.
	TopicReload Topic = "reload"
	// TopicLocalChange is published after a user-initiated mutation of any
	// domain store has been persisted.
	TopicLocalChange Topic = "local_change"
)

// Event is a single bus message.
type Event struct {
	Topic Topic
	// Source is the module or component that published the event.
	Source string
}

// Handler receives events of one topic.
type Handler func(Event)

// Bus delivers events synchronously, in subscription order, on the
// publisher's goroutine. Handlers may publish or unsubscribe.
type Bus struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[Topic][]subscription
}

type subscription struct {
	id      uint64
	handler Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Topic][]subscription)}
}

// Subscribe registers h for topic and returns a function removing it.
// Calling the returned function more than once is a no-op.
func (b *Bus) Subscribe(topic Topic, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[topic] = append(b.handlers[topic], subscription{id: id, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			subs := b.handlers[topic]
			for i, s := range subs {
				if s.id == id {
					b.handlers[topic] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers e to the handlers subscribed to e.Topic at call time.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[e.Topic]))
	copy(subs, b.handlers[e.Topic])
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(e)
	}
}

// subscribers returns the number of handlers registered for topic.
func (b *Bus) subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[topic])
}
