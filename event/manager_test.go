package event_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arepy/arepy/event"
)

type KeyPressed struct {
	Key int
}

type Collision struct {
	A, B uint64
}

func TestManager(t *testing.T) {
	t.Run("emit is queued until processed", func(t *testing.T) {
		m := event.NewManager(nil)
		var got []int
		event.Subscribe(m, func(e KeyPressed) { got = append(got, e.Key) })

		m.Emit(KeyPressed{Key: 1})
		m.Emit(KeyPressed{Key: 2})
		assert.Empty(t, got)
		assert.Equal(t, 2, m.Pending())

		assert.Equal(t, 2, m.ProcessEvents())
		assert.Equal(t, []int{1, 2}, got)
		assert.Equal(t, 0, m.Pending())
	})

	t.Run("emit now dispatches immediately", func(t *testing.T) {
		m := event.NewManager(nil)
		calls := 0
		event.Subscribe(m, func(Collision) { calls++ })

		m.EmitNow(Collision{A: 1, B: 2})
		assert.Equal(t, 1, calls)
		assert.Equal(t, 0, m.Pending())
	})

	t.Run("handlers are keyed by exact type", func(t *testing.T) {
		m := event.NewManager(nil)
		keys, collisions := 0, 0
		event.Subscribe(m, func(KeyPressed) { keys++ })
		event.Subscribe(m, func(Collision) { collisions++ })
		event.Subscribe(m, func(*KeyPressed) { t.Fatal("pointer handler must not see values") })

		m.Emit(KeyPressed{})
		m.Emit(Collision{})
		m.Emit(Collision{})
		m.ProcessEvents()

		assert.Equal(t, 1, keys)
		assert.Equal(t, 2, collisions)
		assert.Equal(t, 1, m.Subscribers(reflect.TypeFor[KeyPressed]()))
	})

	t.Run("handlers run in subscription order", func(t *testing.T) {
		m := event.NewManager(nil)
		var order []string
		event.Subscribe(m, func(KeyPressed) { order = append(order, "first") })
		event.Subscribe(m, func(KeyPressed) { order = append(order, "second") })

		m.EmitNow(KeyPressed{})
		assert.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("unsubscribe", func(t *testing.T) {
		m := event.NewManager(nil)
		calls := 0
		sub := event.Subscribe(m, func(KeyPressed) { calls++ })
		other := event.Subscribe(m, func(KeyPressed) {})
		assert.Equal(t, reflect.TypeFor[KeyPressed](), sub.Event())

		require.True(t, m.Unsubscribe(sub))
		assert.False(t, m.Unsubscribe(sub))
		assert.False(t, m.Unsubscribe(event.Subscription{}))

		m.EmitNow(KeyPressed{})
		assert.Equal(t, 0, calls)
		assert.Equal(t, 1, m.Subscribers(other.Event()))
	})

	t.Run("events emitted while processing go to the next batch", func(t *testing.T) {
		m := event.NewManager(nil)
		var seen []uint64
		event.Subscribe(m, func(KeyPressed) { m.Emit(Collision{A: 7}) })
		event.Subscribe(m, func(c Collision) { seen = append(seen, c.A) })

		m.Emit(KeyPressed{})
		assert.Equal(t, 1, m.ProcessEvents())
		assert.Empty(t, seen)
		assert.Equal(t, 1, m.Pending())

		assert.Equal(t, 1, m.ProcessEvents())
		assert.Equal(t, []uint64{7}, seen)
	})

	t.Run("unsubscribe from a handler", func(t *testing.T) {
		m := event.NewManager(nil)
		calls := 0
		var sub event.Subscription
		sub = event.Subscribe(m, func(KeyPressed) {
			calls++
			m.Unsubscribe(sub)
		})

		m.Emit(KeyPressed{})
		m.Emit(KeyPressed{})
		m.ProcessEvents()
		assert.Equal(t, 1, calls)
	})

	t.Run("nil and unheard events", func(t *testing.T) {
		m := event.NewManager(nil)
		m.Emit(nil)
		m.EmitNow(nil)
		assert.Equal(t, 0, m.Pending())

		m.Emit(KeyPressed{})
		m.Clear()
		assert.Equal(t, 0, m.ProcessEvents())

		m.Emit(struct{}{})
		assert.Equal(t, 1, m.ProcessEvents())
	})
}

func BenchmarkEmitAndProcess(b *testing.B) {
	m := event.NewManager(nil)
	sum := 0
	event.Subscribe(m, func(e KeyPressed) { sum += e.Key })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Emit(KeyPressed{Key: i})
		m.ProcessEvents()
	}
}
