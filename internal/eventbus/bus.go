package eventbus

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type Type string

const (
	// TypeTreeReplaced fires when the whole task tree was swapped out,
	// including a swap to the empty tree.
	TypeTreeReplaced Type = "tree.replaced"
	// TypeTreeRefreshed fires when subscribers should repaint without any
	// structural change, e.g. after an in-place mutation or a failed
	// remote call.
	TypeTreeRefreshed Type = "tree.refreshed"
)

// Event carries no tree data. Subscribers re-query the cache instead.
type Event struct {
	ID        string
	Type      Type
	CreatedAt time.Time
}

type Handler func(Event)

// Bus fans change events out to subscribers. Delivery is synchronous and
// in the publisher's goroutine; handlers must not block.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]Handler
}

func New() *Bus {
	return &Bus{
		subscribers: make(map[string]Handler),
	}
}

func (b *Bus) Subscribe(h Handler) string {
	id := ulid.Make().String()
	b.mu.Lock()
	b.subscribers[id] = h
	b.mu.Unlock()
	return id
}

func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	delete(b.subscribers, id)
	b.mu.Unlock()
}

func (b *Bus) Publish(t Type) {
	event := Event{
		ID:        ulid.Make().String(),
		Type:      t,
		CreatedAt: time.Now(),
	}
	// Snapshot the handler list so a handler may subscribe or unsubscribe
	// without deadlocking.
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subscribers))
	for _, h := range b.subscribers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()
	for _, h := range handlers {
		h(event)
	}
}
