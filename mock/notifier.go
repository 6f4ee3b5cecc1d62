package mock

import (
	"sync"

	"github.com/fwojciec/collapse"
)

var _ collapse.Notifier = (*Notifier)(nil)

// Notifier is a mock implementation of collapse.Notifier.
type Notifier struct {
	NotifyFn func(e collapse.Event)
}

func (n *Notifier) Notify(e collapse.Event) {
	n.NotifyFn(e)
}

var _ collapse.EventBus = (*EventBus)(nil)

// EventBus is a mock implementation of collapse.EventBus.
type EventBus struct {
	NotifyFn    func(e collapse.Event)
	SubscribeFn func(name collapse.EventName, h collapse.Handler) func()
}

func (b *EventBus) Notify(e collapse.Event) {
	b.NotifyFn(e)
}

func (b *EventBus) Subscribe(name collapse.EventName, h collapse.Handler) func() {
	return b.SubscribeFn(name, h)
}

var _ collapse.Notifier = (*Recorder)(nil)

// Recorder is a collapse.Notifier that keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []collapse.Event
}

func (r *Recorder) Notify(e collapse.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []collapse.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]collapse.Event(nil), r.events...)
}

// Count returns how many recorded events have the given name and source.
// An empty source matches any source.
func (r *Recorder) Count(name collapse.EventName, source collapse.EventSource) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Name == name && (source == "" || e.Source == source) {
			n++
		}
	}
	return n
}

// Reset discards the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
