// Package bus provides an in-memory, synchronous implementation of
// collapse.EventBus.
package bus

import (
	"sync"

	"github.com/fwojciec/collapse"
)

// Ensure Bus implements collapse.EventBus at compile time.
var _ collapse.EventBus = (*Bus)(nil)

// Bus delivers each event to the handlers subscribed to its name, in
// subscription order, before Notify returns. Handlers may notify or
// subscribe re-entrantly. Bus is safe for concurrent use.
type Bus struct {
	mu       sync.Mutex
	next     int
	handlers map[collapse.EventName][]subscription
}

type subscription struct {
	id int
	h  collapse.Handler
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{handlers: make(map[collapse.EventName][]subscription)}
}

// Notify delivers e to subscribers of e.Name.
func (b *Bus) Notify(e collapse.Event) {
	b.mu.Lock()
	subs := append([]subscription(nil), b.handlers[e.Name]...)
	b.mu.Unlock()

	for _, s := range subs {
		s.h(e)
	}
}

// Subscribe registers h for events named name.
func (b *Bus) Subscribe(name collapse.EventName, h collapse.Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.handlers[name] = append(b.handlers[name], subscription{id: id, h: h})

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(name, id) })
	}
}

func (b *Bus) unsubscribe(name collapse.EventName, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[name]
	for i, s := range subs {
		if s.id == id {
			b.handlers[name] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[name]) == 0 {
		delete(b.handlers, name)
	}
}
