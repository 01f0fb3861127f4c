package bundle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arepy/arepy/config"
	"github.com/arepy/arepy/ecs"
	"github.com/arepy/arepy/engine"
	"github.com/arepy/arepy/engine/bundle"
)

type fakeTexture struct{ w, h int }

func (t fakeTexture) Size() (int, int) { return t.w, t.h }

type draw struct {
	textured bool
	src      engine.Rect
	dst      engine.Rect
	tint     engine.Color
}

type recordingRenderer struct {
	draws []draw
}

func (r *recordingRenderer) StartFrame()                                  { r.draws = nil }
func (r *recordingRenderer) EndFrame()                                    {}
func (r *recordingRenderer) Clear(engine.Color)                           {}
func (r *recordingRenderer) SetMaxFramerate(int)                          {}
func (r *recordingRenderer) FrameRate() float64                           { return 60 }
func (r *recordingRenderer) CreateTexture(string) (engine.Texture, error) { return fakeTexture{}, nil }
func (r *recordingRenderer) UnloadTexture(engine.Texture)                 {}
func (r *recordingRenderer) DrawText(string, int, int, engine.Color)      {}
func (r *recordingRenderer) DrawFPS(int, int)                             {}

func (r *recordingRenderer) DrawTexture(_ engine.Texture, src, dst engine.Rect, tint engine.Color) {
	r.draws = append(r.draws, draw{textured: true, src: src, dst: dst, tint: tint})
}

func (r *recordingRenderer) DrawRect(dst engine.Rect, c engine.Color) {
	r.draws = append(r.draws, draw{dst: dst, tint: c})
}

func newEngine(t *testing.T) (*engine.Engine, *ecs.World, *recordingRenderer) {
	t.Helper()
	rd := &recordingRenderer{}
	e, err := engine.New(config.Default(), engine.WithRenderer(rd), engine.WithLogger(zap.NewNop()))
	require.NoError(t, err)
	w, err := e.CreateWorld("bundle")
	require.NoError(t, err)
	_, err = bundle.Install(w)
	require.NoError(t, err)
	require.NoError(t, e.Init())
	t.Cleanup(func() { _ = e.Shutdown() })
	return e, w, rd
}

func TestVec2(t *testing.T) {
	v := bundle.Vec2{X: 30, Y: 40}
	assert.Equal(t, float32(50), v.Length())

	clamped := v.ClampLength(10)
	assert.InDelta(t, 6, clamped.X, 1e-5)
	assert.InDelta(t, 8, clamped.Y, 1e-5)

	assert.Equal(t, v, v.ClampLength(100))
	assert.Equal(t, bundle.Vec2{}, bundle.Vec2{}.ClampLength(1))
}

func TestMovementSystem(t *testing.T) {
	newRegistry := func(bounds *bundle.Bounds) *ecs.Registry {
		r := ecs.NewRegistry()
		ecs.AddResource(r, &ecs.FrameTime{Delta: 0.5})
		if bounds != nil {
			ecs.AddResource(r, bounds)
		}
		_, err := r.AddSystem(ecs.Physics, ecs.On, bundle.MovementSystem)
		require.NoError(t, err)
		return r
	}

	t.Run("acceleration then velocity", func(t *testing.T) {
		r := newRegistry(&bundle.Bounds{Max: bundle.Vec2{X: 1000, Y: 1000}})
		e, _ := ecs.Spawn(r,
			bundle.NewTransform(bundle.Vec2{X: 10, Y: 10}),
			bundle.RigidBody2D{Velocity: bundle.Vec2{X: 2}, Acceleration: bundle.Vec2{Y: 4}},
		)
		r.Update()
		r.Run(ecs.Physics)

		assert.Equal(t, bundle.Vec2{X: 11, Y: 11}, ecs.MustGet[bundle.Transform](e).Position)
		assert.Equal(t, bundle.Vec2{X: 2, Y: 2}, ecs.MustGet[bundle.RigidBody2D](e).Velocity)
	})

	t.Run("max speed caps velocity", func(t *testing.T) {
		r := newRegistry(&bundle.Bounds{Max: bundle.Vec2{X: 1000, Y: 1000}})
		e, _ := ecs.Spawn(r,
			bundle.NewTransform(bundle.Vec2{X: 500, Y: 500}),
			bundle.RigidBody2D{Velocity: bundle.Vec2{X: 30, Y: 40}, MaxSpeed: 10},
		)
		r.Update()
		r.Run(ecs.Physics)

		assert.InDelta(t, 10, ecs.MustGet[bundle.RigidBody2D](e).Velocity.Length(), 1e-4)
	})

	t.Run("bounces with damping", func(t *testing.T) {
		r := newRegistry(&bundle.Bounds{Max: bundle.Vec2{X: 100, Y: 100}, Damping: 0.5})
		right, _ := ecs.Spawn(r,
			bundle.NewTransform(bundle.Vec2{X: 95, Y: 50}),
			bundle.RigidBody2D{Velocity: bundle.Vec2{X: 20}},
		)
		left, _ := ecs.Spawn(r,
			bundle.NewTransform(bundle.Vec2{X: 1, Y: 50}),
			bundle.RigidBody2D{Velocity: bundle.Vec2{X: -4}},
		)
		r.Update()
		r.Run(ecs.Physics)

		assert.Equal(t, float32(100), ecs.MustGet[bundle.Transform](right).Position.X)
		assert.Equal(t, float32(-10), ecs.MustGet[bundle.RigidBody2D](right).Velocity.X)
		assert.Equal(t, float32(0), ecs.MustGet[bundle.Transform](left).Position.X)
		assert.Equal(t, float32(2), ecs.MustGet[bundle.RigidBody2D](left).Velocity.X)
	})

	t.Run("window is the default bounds", func(t *testing.T) {
		e, w, _ := newEngine(t)
		width, _ := e.Display().WindowSize()
		body, _ := ecs.Spawn(w.Registry(),
			bundle.NewTransform(bundle.Vec2{X: float32(width) - 10, Y: 100}),
			bundle.RigidBody2D{Velocity: bundle.Vec2{X: 100}},
		)
		w.Registry().Update()
		require.NoError(t, e.Frame(0.5))

		assert.Equal(t, float32(width), ecs.MustGet[bundle.Transform](body).Position.X)
		assert.Equal(t, float32(-100), ecs.MustGet[bundle.RigidBody2D](body).Velocity.X)
	})
}

func TestCamera2D(t *testing.T) {
	t.Run("world to screen", func(t *testing.T) {
		c := bundle.NewCamera2D(bundle.Vec2{X: 100, Y: 100}, bundle.Vec2{X: 400, Y: 300})
		assert.Equal(t, bundle.Vec2{X: 410, Y: 300}, c.ToScreen(bundle.Vec2{X: 110, Y: 100}))

		c.Zoom = 2
		assert.Equal(t, bundle.Vec2{X: 420, Y: 300}, c.ToScreen(bundle.Vec2{X: 110, Y: 100}))
	})

	t.Run("shake fades out", func(t *testing.T) {
		r := ecs.NewRegistry()
		clock := &ecs.FrameTime{Delta: 0.25}
		ecs.AddResource(r, clock)
		_, err := r.AddSystem(ecs.Update, ecs.On, bundle.CameraShakeSystem)
		require.NoError(t, err)

		cam := bundle.NewCamera2D(bundle.Vec2{}, bundle.Vec2{})
		cam.Shake(4, 1)
		e, _ := ecs.Spawn(r, cam)
		r.Update()

		r.Run(ecs.Update)
		c := ecs.MustGet[bundle.Camera2D](e)
		require.True(t, c.Shaking())
		p := c.ToScreen(bundle.Vec2{})
		assert.LessOrEqual(t, abs(p.X), float32(3))
		assert.LessOrEqual(t, abs(p.Y), float32(3))

		for i := 0; i < 3; i++ {
			r.Run(ecs.Update)
		}
		assert.False(t, c.Shaking())
		assert.Equal(t, bundle.Vec2{}, c.ToScreen(bundle.Vec2{}))
	})

	t.Run("zero duration does not shake", func(t *testing.T) {
		c := bundle.NewCamera2D(bundle.Vec2{}, bundle.Vec2{})
		c.Shake(10, 0)
		assert.False(t, c.Shaking())
	})
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func TestSpriteRenderer(t *testing.T) {
	t.Run("z order, textures and placeholders", func(t *testing.T) {
		e, w, rd := newEngine(t)
		e.Assets().AddTexture("ship", fakeTexture{w: 32, h: 16})

		_, _ = ecs.Spawn(w.Registry(),
			bundle.NewTransform(bundle.Vec2{X: 10, Y: 20}),
			bundle.Sprite{Asset: "ship", ZIndex: 2},
		)
		_, _ = ecs.Spawn(w.Registry(),
			bundle.Transform{Position: bundle.Vec2{X: 5, Y: 5}, Scale: bundle.Vec2{X: 2, Y: 2}, Origin: bundle.Vec2{X: 1, Y: 1}},
			bundle.Sprite{Asset: "missing", Size: bundle.Vec2{X: 8, Y: 8}, Tint: engine.Red},
		)
		w.Registry().Update()
		require.NoError(t, e.Frame(1.0/60))

		require.Len(t, rd.draws, 2)
		assert.Equal(t, draw{
			dst:  engine.Rect{X: 4, Y: 4, Width: 16, Height: 16},
			tint: engine.Red,
		}, rd.draws[0])
		assert.Equal(t, draw{
			textured: true,
			src:      engine.Rect{Width: 32, Height: 16},
			dst:      engine.Rect{X: 10, Y: 20, Width: 32, Height: 16},
			tint:     engine.White,
		}, rd.draws[1])
	})

	t.Run("drawn through the camera", func(t *testing.T) {
		e, w, rd := newEngine(t)
		e.Assets().AddTexture("tile", fakeTexture{w: 8, h: 8})

		cam := bundle.NewCamera2D(bundle.Vec2{X: 100, Y: 100}, bundle.Vec2{X: 400, Y: 300})
		cam.Zoom = 2
		_, _ = ecs.Spawn(w.Registry(), cam)
		_, _ = ecs.Spawn(w.Registry(),
			bundle.NewTransform(bundle.Vec2{X: 110, Y: 90}),
			bundle.Sprite{Asset: "tile", Src: engine.Rect{X: 8, Width: 4, Height: 4}},
		)
		w.Registry().Update()
		require.NoError(t, e.Frame(1.0/60))

		require.Len(t, rd.draws, 1)
		assert.Equal(t, engine.Rect{X: 8, Width: 4, Height: 4}, rd.draws[0].src)
		assert.Equal(t, engine.Rect{X: 420, Y: 280, Width: 8, Height: 8}, rd.draws[0].dst)
	})
}
