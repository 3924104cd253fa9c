// Package events is the host-side event sink for kernel notifications.
// Listeners run synchronously in subscription order; a panicking listener
// is logged and skipped without affecting the others.
package events

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

// Listener receives one event.
type Listener func(core.Event)

// All subscribes to every event kind.
const All core.EventKind = "*"

type subscription struct {
	id   uint64
	kind core.EventKind
	fn   Listener
}

// Bus delivers events to listeners in a deterministic order: subscription
// order, with kind-specific and wildcard listeners interleaved as they
// were registered.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID uint64
	logger *log.Logger

	published uint64
	faults    uint64
}

// NewBus creates a bus. A nil logger logs to stderr.
func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "events"})
	}
	return &Bus{logger: logger}
}

// Subscribe registers fn for kind (or All) and returns a function that
// removes the subscription. Calling it twice is harmless.
func (b *Bus) Subscribe(kind core.EventKind, fn Listener) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, kind: kind, fn: fn})
	b.mu.Unlock()

	return func() { b.remove(id) }
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers e to every matching listener. Listeners may subscribe
// or unsubscribe during delivery; changes apply from the next Publish.
func (b *Bus) Publish(e core.Event) {
	b.mu.Lock()
	b.published++
	subs := make([]subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.kind == All || s.kind == e.Kind {
			subs = append(subs, s)
		}
	}
	b.mu.Unlock()

	for _, s := range subs {
		b.deliver(s, e)
	}
}

// PublishAll publishes events in slice order.
func (b *Bus) PublishAll(evs []core.Event) {
	for _, e := range evs {
		b.Publish(e)
	}
}

func (b *Bus) deliver(s subscription, e core.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.mu.Lock()
			b.faults++
			b.mu.Unlock()
			b.logger.Error("listener panicked", "kind", e.Kind, "tick", e.Tick, "subscription", s.id, "panic", fmt.Sprint(r))
		}
	}()
	s.fn(e)
}

// Stats reports delivery counters.
func (b *Bus) Stats() (published, faults uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.published, b.faults
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
