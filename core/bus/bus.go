package bus

import "sync"

// Bus fans messages out to every subscriber. Publish never blocks on or
// fails for a subscriber; ordering guarantees are only what each single
// publisher provides, so consumers must de-duplicate by record key.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[int]func(Message)
	nextID      int
}

func New() *Bus {
	return &Bus{subscribers: map[int]func(Message){}}
}

// Subscribe registers a handler for every subsequent publish and returns
// an unsubscribe function. Handlers run on the publisher's goroutine and
// must not block.
func (b *Bus) Subscribe(handler func(Message)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = handler
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subscribers, id)
		b.mu.Unlock()
	}
}

// Publish broadcasts a message to all current subscribers.
func (b *Bus) Publish(message Message) {
	b.mu.RLock()
	handlers := make([]func(Message), 0, len(b.subscribers))
	for _, handler := range b.subscribers {
		handlers = append(handlers, handler)
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(message)
	}
}
