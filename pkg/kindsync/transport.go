package kindsync

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Event is the cross-instance kindness update. Receivers apply an event
// only when its timestamp is strictly newer than the last one applied.
type Event struct {
	PostID    int   `json:"post_id"`
	NewPoints int   `json:"new_points"`
	Timestamp int64 `json:"ts"`
}

// Transport carries events between instances of the same origin.
type Transport interface {
	Publish(e Event)
	// Subscribe registers a handler and returns its unsubscribe func.
	Subscribe(fn func(Event)) (unsubscribe func())
}

// ChannelBus is a direct in-process fan-out hub: every published event is
// delivered to every subscriber, including the publisher's own.
type ChannelBus struct {
	mu   sync.Mutex
	subs map[int]func(Event)
	next int
}

// NewChannelBus creates an empty hub.
func NewChannelBus() *ChannelBus {
	return &ChannelBus{subs: make(map[int]func(Event))}
}

func (b *ChannelBus) Publish(e Event) {
	b.mu.Lock()
	handlers := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(e)
	}
}

func (b *ChannelBus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// StorageBus models the storage-backed broadcast: one shared mutable slot
// per origin that watchers observe. Publication is a write followed by a
// delayed remove so the slot is free for the next, possibly identical,
// payload. Removal notifications carry no payload and are ignored by
// subscribers; watchers never mutate the slot.
type StorageBus struct {
	mu          sync.Mutex
	value       []byte
	watchers    map[int]func(data []byte, removed bool)
	next        int
	removeDelay time.Duration
}

// NewStorageBus creates a bus whose publications are cleared after
// removeDelay (200ms when zero, matching the browser behavior).
func NewStorageBus(removeDelay time.Duration) *StorageBus {
	if removeDelay <= 0 {
		removeDelay = 200 * time.Millisecond
	}
	return &StorageBus{
		watchers:    make(map[int]func([]byte, bool)),
		removeDelay: removeDelay,
	}
}

func (b *StorageBus) Publish(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Printf("[Kindness] broadcast marshal failed: %v", err)
		return
	}

	b.set(data)
	time.AfterFunc(b.removeDelay, b.remove)
}

// Value returns the slot's current contents, nil when removed.
func (b *StorageBus) Value() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

func (b *StorageBus) Subscribe(fn func(Event)) func() {
	return b.watch(func(data []byte, removed bool) {
		if removed {
			// Removal only frees the slot, there is nothing to apply.
			return
		}
		var e Event
		if err := json.Unmarshal(data, &e); err != nil {
			log.Printf("[Kindness] ignoring malformed broadcast payload: %v", err)
			return
		}
		if e.PostID == 0 || e.Timestamp == 0 {
			return
		}
		fn(e)
	})
}

func (b *StorageBus) set(data []byte) {
	b.mu.Lock()
	b.value = data
	watchers := b.snapshot()
	b.mu.Unlock()

	for _, fn := range watchers {
		fn(data, false)
	}
}

func (b *StorageBus) remove() {
	b.mu.Lock()
	if b.value == nil {
		b.mu.Unlock()
		return
	}
	b.value = nil
	watchers := b.snapshot()
	b.mu.Unlock()

	for _, fn := range watchers {
		fn(nil, true)
	}
}

func (b *StorageBus) watch(fn func(data []byte, removed bool)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.watchers[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.watchers, id)
		b.mu.Unlock()
	}
}

// snapshot copies the watcher list; callers hold b.mu.
func (b *StorageBus) snapshot() []func([]byte, bool) {
	watchers := make([]func([]byte, bool), 0, len(b.watchers))
	for _, fn := range b.watchers {
		watchers = append(watchers, fn)
	}
	return watchers
}
