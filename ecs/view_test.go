package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arepy/arepy/ecs"
)

func TestView(t *testing.T) {
	t.Run("fill and get", func(t *testing.T) {
		r := newTestRegistry()
		v, err := ecs.NewView[moveRow](r)
		require.NoError(t, err)

		e, _ := ecs.Spawn(r, Position{X: 1}, Velocity{DX: 2})
		lonely, _ := ecs.Spawn(r, Position{X: 3})

		row := v.Get(e)
		require.NotNil(t, row)
		assert.Equal(t, float32(1), row.Position.X)
		assert.Equal(t, float32(2), row.Velocity.DX)

		row.Position.X = 9
		assert.Equal(t, float32(9), ecs.MustGet[Position](e).X)

		assert.Nil(t, v.Get(lonely))
	})

	t.Run("optional fields", func(t *testing.T) {
		type row struct {
			*Position
			Name *Name `ecs:"optional"`
		}
		r := newTestRegistry()
		v, err := ecs.NewView[row](r)
		require.NoError(t, err)

		named, _ := ecs.Spawn(r, Position{}, Name{Value: "n"})
		plain, _ := ecs.Spawn(r, Position{})

		var out row
		require.True(t, v.Fill(named, &out))
		assert.Equal(t, "n", out.Name.Value)

		require.True(t, v.Fill(plain, &out))
		assert.Nil(t, out.Name, "optional field is reset when missing")
	})

	t.Run("stale entity", func(t *testing.T) {
		r := newTestRegistry()
		v, _ := ecs.NewView[positionRow](r)
		e, _ := ecs.Spawn(r, Position{})
		require.NoError(t, e.Kill())
		r.Update()

		assert.Nil(t, v.Get(e))
	})

	t.Run("entity of another registry", func(t *testing.T) {
		a := newTestRegistry()
		b := ecs.NewRegistry(ecs.WithComponentRegistry(a.Components()))
		v, _ := ecs.NewView[positionRow](a)

		_, _ = ecs.Spawn(a, Position{X: 42})
		foreign, _ := ecs.Spawn(b, Position{X: 7})

		var out positionRow
		assert.False(t, v.Fill(foreign, &out))
		assert.Nil(t, v.Get(foreign))
	})

	t.Run("spawn", func(t *testing.T) {
		type row struct {
			*Position
			*Velocity
			Name *Name `ecs:"optional"`
		}
		r := newTestRegistry()
		v, _ := ecs.NewView[row](r)

		e, err := v.Spawn(row{Position: &Position{X: 4}, Velocity: &Velocity{DY: 1}})
		require.NoError(t, err)
		assert.Equal(t, float32(4), ecs.MustGet[Position](e).X)
		ok, _ := ecs.Has[Name](e)
		assert.False(t, ok)

		_, err = v.Spawn(row{Position: &Position{}})
		assert.ErrorIs(t, err, ecs.ErrComponentNotFound)
	})

	t.Run("invalid layout", func(t *testing.T) {
		r := newTestRegistry()
		_, err := ecs.NewView[struct{ X int }](r)
		assert.ErrorIs(t, err, ecs.ErrInvalidQuery)
	})
}
