// Package event provides a queued, type-keyed event manager. Events are delivered to the
// handlers subscribed to their exact dynamic type.
package event

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

type handler struct {
	id uint64
	fn func(any)
}

// Subscription identifies one handler registration. The zero value is not subscribed to
// anything.
type Subscription struct {
	event reflect.Type
	id    uint64
}

// Event returns the event type the subscription listens to.
func (s Subscription) Event() reflect.Type {
	return s.event
}

// Manager queues events and dispatches them to subscribers. Emit may be called from any
// goroutine; subscribing and processing happen on the frame goroutine.
type Manager struct {
	mu       sync.Mutex
	handlers map[reflect.Type][]handler
	queue    []any
	nextId   uint64
	log      *zap.Logger
}

// NewManager creates an empty manager. A nil logger disables logging.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		handlers: make(map[reflect.Type][]handler),
		log:      log,
	}
}

// Subscribe registers fn for events of type E. Handlers run in subscription order.
func Subscribe[E any](m *Manager, fn func(E)) Subscription {
	t := reflect.TypeFor[E]()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextId++
	h := handler{
		id: m.nextId,
		fn: func(ev any) { fn(ev.(E)) },
	}
	m.handlers[t] = append(m.handlers[t], h)
	return Subscription{event: t, id: h.id}
}

// Unsubscribe removes the handler registered by sub. It reports whether the handler was
// still registered.
func (m *Manager) Unsubscribe(sub Subscription) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	hs := m.handlers[sub.event]
	for i, h := range hs {
		if h.id == sub.id {
			// copy so a dispatch in progress keeps iterating the old slice
			next := make([]handler, 0, len(hs)-1)
			next = append(next, hs[:i]...)
			next = append(next, hs[i+1:]...)
			if len(next) == 0 {
				delete(m.handlers, sub.event)
			} else {
				m.handlers[sub.event] = next
			}
			return true
		}
	}
	return false
}

// Subscribers returns the number of handlers listening to events of type t.
func (m *Manager) Subscribers(t reflect.Type) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handlers[t])
}

// Emit queues ev until the next ProcessEvents.
func (m *Manager) Emit(ev any) {
	if ev == nil {
		return
	}
	m.mu.Lock()
	m.queue = append(m.queue, ev)
	m.mu.Unlock()
}

// EmitNow dispatches ev to its subscribers immediately.
func (m *Manager) EmitNow(ev any) {
	if ev == nil {
		return
	}
	m.dispatch(ev)
}

// Pending returns the number of queued events.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// ProcessEvents dispatches every event queued so far in emission order. Events emitted by
// handlers while processing are queued for the next call.
func (m *Manager) ProcessEvents() int {
	m.mu.Lock()
	batch := m.queue
	m.queue = nil
	m.mu.Unlock()

	for _, ev := range batch {
		m.dispatch(ev)
	}
	if len(batch) > 0 {
		m.log.Debug("processed events", zap.Int("count", len(batch)))
	}
	return len(batch)
}

// Clear drops all queued events without dispatching them.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.queue = nil
	m.mu.Unlock()
}

func (m *Manager) dispatch(ev any) {
	m.mu.Lock()
	hs := m.handlers[reflect.TypeOf(ev)]
	m.mu.Unlock()

	for _, h := range hs {
		h.fn(ev)
	}
}
