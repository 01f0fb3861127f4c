package ecs_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arepy/arepy/ecs"
)

type moveRow = struct {
	*Position
	*Velocity
}

type positionRow = struct{ *Position }

func TestRegistryComponents(t *testing.T) {
	t.Run("add get has remove", func(t *testing.T) {
		r := newTestRegistry()
		e, err := r.CreateEntity().Build()
		require.NoError(t, err)

		require.NoError(t, ecs.AddComponent(r, e, Position{X: 1, Y: 2}))
		assert.True(t, ecs.HasComponent[Position](r, e))

		pos, ok := ecs.GetComponent[Position](r, e)
		require.True(t, ok)
		assert.Equal(t, Position{X: 1, Y: 2}, *pos)

		pos.X = 10
		again, _ := ecs.GetComponent[Position](r, e)
		assert.Equal(t, float32(10), again.X, "pointer refers to pool storage")

		require.NoError(t, ecs.RemoveComponent[Position](r, e))
		assert.False(t, ecs.HasComponent[Position](r, e))
		_, ok = ecs.GetComponent[Position](r, e)
		assert.False(t, ok)
	})

	t.Run("absent component is not an error at registry level", func(t *testing.T) {
		r := newTestRegistry()
		e, _ := r.CreateEntity().Build()

		v, ok := ecs.GetComponent[Velocity](r, e)
		assert.Nil(t, v)
		assert.False(t, ok)

		v2, ok := r.Component(e, reflect.TypeFor[Health]())
		assert.Nil(t, v2)
		assert.False(t, ok)
	})

	t.Run("add overwrites", func(t *testing.T) {
		r := newTestRegistry()
		e, _ := ecs.Spawn(r, Health{Current: 5, Max: 10})

		require.NoError(t, ecs.AddComponent(r, e, Health{Current: 7, Max: 10}))
		h, _ := ecs.GetComponent[Health](r, e)
		assert.Equal(t, 7, h.Current)
	})

	t.Run("untyped add dereferences pointers", func(t *testing.T) {
		r := newTestRegistry()
		e, _ := r.CreateEntity().Build()

		require.NoError(t, r.AddComponentValue(e, &Name{Value: "ptr"}))
		require.NoError(t, r.AddComponentValue(e, Score(3)))

		n, ok := ecs.GetComponent[Name](r, e)
		require.True(t, ok)
		assert.Equal(t, "ptr", n.Value)

		s, ok := ecs.GetComponent[Score](r, e)
		require.True(t, ok)
		assert.Equal(t, Score(3), *s)

		assert.ErrorIs(t, r.AddComponentValue(e, nil), ecs.ErrInvalidComponent)
	})

	t.Run("unregistered types register on first use", func(t *testing.T) {
		type Late struct{ N int }
		r := newTestRegistry()
		before := r.Components().Len()
		e, _ := r.CreateEntity().Build()

		require.NoError(t, ecs.AddComponent(r, e, Late{N: 4}))
		assert.Equal(t, before+1, r.Components().Len())
		l, ok := ecs.GetComponent[Late](r, e)
		require.True(t, ok)
		assert.Equal(t, 4, l.N)
	})

	t.Run("removing a missing component is a no-op", func(t *testing.T) {
		r := newTestRegistry()
		e, _ := ecs.Spawn(r, Position{})
		r.Update()

		assert.NoError(t, ecs.RemoveComponent[Velocity](r, e))
		assert.NoError(t, r.RemoveComponentType(e, reflect.TypeFor[struct{ Unknown int }]()))
		assert.Equal(t, 0, r.Stats().PendingRemoved)
	})

	t.Run("has component agrees with the signature", func(t *testing.T) {
		r := newTestRegistry()
		e, _ := ecs.Spawn(r, Position{}, Name{Value: "n"})
		require.NoError(t, ecs.RemoveComponent[Name](r, e))
		require.NoError(t, ecs.AddComponent(r, e, Velocity{}))

		sig, err := r.Signature(e)
		require.NoError(t, err)
		for _, typ := range r.Components().Types() {
			id, _ := r.Components().Id(typ)
			assert.Equal(t, sig.Test(int(id)), r.HasComponentType(e, typ), typ.String())
		}
	})
}

func TestRegistryUpdate(t *testing.T) {
	t.Run("position and velocity scenario", func(t *testing.T) {
		r := newTestRegistry()
		both, err := ecs.NewQuery[ecs.With[moveRow]](r)
		require.NoError(t, err)
		posOnly, err := ecs.NewQuery[ecs.With[positionRow]](r)
		require.NoError(t, err)

		e, err := r.CreateEntity().
			With(Position{X: 1, Y: 1}).
			With(Velocity{DX: 2, DY: 0}).
			Build()
		require.NoError(t, err)

		assert.False(t, both.Contains(e), "membership waits for update")
		r.Update()
		assert.True(t, both.Contains(e))
		assert.True(t, posOnly.Contains(e))

		require.NoError(t, ecs.RemoveComponent[Velocity](r, e))
		r.Update()
		assert.False(t, both.Contains(e))
		assert.True(t, posOnly.Contains(e))
	})

	t.Run("components added after creation in the same frame", func(t *testing.T) {
		r := newTestRegistry()
		q, _ := ecs.NewQuery[ecs.With[moveRow]](r)

		e, _ := r.CreateEntity().Build()
		require.NoError(t, ecs.AddComponent(r, e, Position{}))
		require.NoError(t, ecs.AddComponent(r, e, Velocity{}))
		r.Update()

		assert.True(t, q.Contains(e))
	})

	t.Run("component added to an existing entity", func(t *testing.T) {
		r := newTestRegistry()
		q, _ := ecs.NewQuery[ecs.With[moveRow]](r)

		e, _ := ecs.Spawn(r, Position{})
		r.Update()
		assert.False(t, q.Contains(e))

		require.NoError(t, ecs.AddComponent(r, e, Velocity{}))
		r.Update()
		assert.True(t, q.Contains(e))
	})

	t.Run("remove and re-add in the same frame keeps membership", func(t *testing.T) {
		r := newTestRegistry()
		q, _ := ecs.NewQuery[ecs.With[moveRow]](r)
		e, _ := ecs.Spawn(r, Position{}, Velocity{})
		r.Update()

		require.NoError(t, ecs.RemoveComponent[Velocity](r, e))
		require.NoError(t, ecs.AddComponent(r, e, Velocity{DX: 3}))
		r.Update()

		assert.True(t, q.Contains(e))
	})

	t.Run("empty entity only matches zero requirement queries", func(t *testing.T) {
		r := newTestRegistry()
		all, _ := ecs.NewQuery[ecs.With[struct{}]](r)
		pos, _ := ecs.NewQuery[ecs.With[positionRow]](r)

		e, _ := r.CreateEntity().Build()
		r.Update()

		assert.True(t, all.Contains(e))
		assert.False(t, pos.Contains(e))
	})

	t.Run("kill is deferred", func(t *testing.T) {
		r := newTestRegistry()
		q, _ := ecs.NewQuery[ecs.With[positionRow]](r)
		e, _ := ecs.Spawn(r, Position{X: 4})
		r.Update()

		require.NoError(t, e.Kill())
		assert.True(t, r.Alive(e))
		assert.True(t, r.Dying(e))
		assert.True(t, q.Contains(e))
		assert.Equal(t, 1, r.EntityCount())

		r.Update()
		assert.False(t, r.Alive(e))
		assert.False(t, q.Contains(e))
		assert.Equal(t, 0, r.EntityCount())
	})

	t.Run("killing twice recycles the id once", func(t *testing.T) {
		r := newTestRegistry()
		e, _ := ecs.Spawn(r, Position{})
		require.NoError(t, r.Kill(e))
		require.NoError(t, r.Kill(e))
		r.Update()

		assert.Equal(t, 1, r.Stats().FreeIds)
	})

	t.Run("recycled ids start with an empty signature", func(t *testing.T) {
		r := newTestRegistry()
		pos, _ := ecs.NewQuery[ecs.With[positionRow]](r)

		a, _ := ecs.Spawn(r, Position{X: 9}, Velocity{}, Name{Value: "a"})
		r.Update()
		require.NoError(t, a.Kill())
		r.Update()

		b, err := r.CreateEntity().Build()
		require.NoError(t, err)
		assert.Equal(t, a.Id().Index(), b.Id().Index(), "index is reused")
		assert.NotEqual(t, a.Id(), b.Id(), "generation differs")

		sig, err := r.Signature(b)
		require.NoError(t, err)
		assert.True(t, sig.IsZero())

		_, ok := ecs.GetComponent[Position](r, b)
		assert.False(t, ok, "pool slots are cleared on destruction")

		r.Update()
		assert.False(t, pos.Contains(b))
	})

	t.Run("stale handles are rejected", func(t *testing.T) {
		r := newTestRegistry()
		a, _ := ecs.Spawn(r, Position{})
		require.NoError(t, a.Kill())
		r.Update()
		_, _ = r.CreateEntity().Build()

		assert.ErrorIs(t, ecs.AddComponent(r, a, Velocity{}), ecs.ErrStaleEntity)
		assert.ErrorIs(t, r.Kill(a), ecs.ErrStaleEntity)
		assert.False(t, ecs.HasComponent[Position](r, a))
		_, err := r.Signature(a)
		assert.ErrorIs(t, err, ecs.ErrStaleEntity)
	})

	t.Run("entity created and killed in one frame", func(t *testing.T) {
		r := newTestRegistry()
		q, _ := ecs.NewQuery[ecs.With[positionRow]](r)

		e, _ := ecs.Spawn(r, Position{})
		require.NoError(t, e.Kill())
		r.Update()

		assert.False(t, q.Contains(e))
		assert.Equal(t, 0, q.Len())
		assert.False(t, e.Alive())
	})

	t.Run("free ids are reused oldest first", func(t *testing.T) {
		r := newTestRegistry()
		a, _ := r.CreateEntity().Build()
		b, _ := r.CreateEntity().Build()
		require.NoError(t, b.Kill())
		require.NoError(t, a.Kill())
		r.Update()

		c, _ := r.CreateEntity().Build()
		d, _ := r.CreateEntity().Build()
		assert.Equal(t, b.Id().Index(), c.Id().Index())
		assert.Equal(t, a.Id().Index(), d.Id().Index())
	})

	t.Run("entities iterates live entities", func(t *testing.T) {
		r := newTestRegistry()
		a, _ := r.CreateEntity().Build()
		b, _ := r.CreateEntity().Build()
		c, _ := r.CreateEntity().Build()
		require.NoError(t, b.Kill())
		r.Update()

		var got []ecs.Entity
		for e := range r.Entities() {
			got = append(got, e)
		}
		assert.Equal(t, []ecs.Entity{a, c}, got)

		found, ok := r.Entity(c.Id())
		assert.True(t, ok)
		assert.Equal(t, c, found)
		_, ok = r.Entity(b.Id())
		assert.False(t, ok)
	})

	t.Run("membership equals matching after a drain", func(t *testing.T) {
		r := newTestRegistry()
		with, _ := ecs.NewQuery[ecs.With[moveRow]](r)
		without, _ := ecs.NewQuery[ecs.Without[struct{ *Dead }]](r)

		var entities []ecs.Entity
		for i := 0; i < 40; i++ {
			b := r.CreateEntity()
			if i%2 == 0 {
				b.With(Position{X: float32(i)})
			}
			if i%3 == 0 {
				b.With(Velocity{DX: 1})
			}
			if i%5 == 0 {
				b.With(Dead{})
			}
			e, err := b.Build()
			require.NoError(t, err)
			entities = append(entities, e)
		}
		r.Update()

		for i, e := range entities {
			switch {
			case i%7 == 0:
				require.NoError(t, e.Kill())
			case i%4 == 0:
				require.NoError(t, ecs.RemoveComponent[Position](r, e))
			case i%5 == 0:
				require.NoError(t, ecs.RemoveComponent[Dead](r, e))
			default:
				require.NoError(t, ecs.AddComponent(r, e, Velocity{}))
			}
		}
		r.Update()

		for _, e := range entities {
			sig, err := r.Signature(e)
			if err != nil {
				assert.False(t, with.Contains(e))
				assert.False(t, without.Contains(e))
				continue
			}
			assert.Equal(t, with.Matches(sig), with.Contains(e), "with %s", e)
			assert.Equal(t, without.Matches(sig), without.Contains(e), "without %s", e)
		}
	})
}
