package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arepy/arepy/config"
	"github.com/arepy/arepy/ecs"
	"github.com/arepy/arepy/engine"
	"github.com/arepy/arepy/engine/bundle"
	"github.com/arepy/arepy/event"
)

type bunnyRow = struct {
	*Bunny
	*bundle.Transform
	*bundle.RigidBody2D
}

type fakeInput struct {
	down    bool
	pressed map[engine.Key]bool
}

func (in *fakeInput) PollEvents()                                  {}
func (in *fakeInput) IsKeyPressed(k engine.Key) bool               { return in.pressed[k] }
func (in *fakeInput) IsKeyDown(engine.Key) bool                    { return false }
func (in *fakeInput) IsKeyReleased(engine.Key) bool                { return false }
func (in *fakeInput) IsMouseButtonPressed(engine.MouseButton) bool { return false }
func (in *fakeInput) IsMouseButtonDown(engine.MouseButton) bool    { return in.down }
func (in *fakeInput) MousePosition() (float32, float32)            { return 100, 100 }
func (in *fakeInput) MouseWheel() float32                          { return 0 }

type countingRenderer struct {
	rects int
	texts []string
}

func (r *countingRenderer) StartFrame()                                                        {}
func (r *countingRenderer) EndFrame()                                                          {}
func (r *countingRenderer) Clear(engine.Color)                                                 {}
func (r *countingRenderer) SetMaxFramerate(int)                                                {}
func (r *countingRenderer) FrameRate() float64                                                 { return 60 }
func (r *countingRenderer) CreateTexture(string) (engine.Texture, error)                       { return nil, nil }
func (r *countingRenderer) UnloadTexture(engine.Texture)                                       {}
func (r *countingRenderer) DrawTexture(engine.Texture, engine.Rect, engine.Rect, engine.Color) {}
func (r *countingRenderer) DrawRect(engine.Rect, engine.Color)                                 { r.rects++ }
func (r *countingRenderer) DrawText(s string, _, _ int, _ engine.Color)                        { r.texts = append(r.texts, s) }
func (r *countingRenderer) DrawFPS(int, int)                                                   {}

func newBunnymark(t *testing.T) (*engine.Engine, *ecs.World, *spawner, *fakeInput, *countingRenderer) {
	t.Helper()
	in := &fakeInput{pressed: map[engine.Key]bool{}}
	rd := &countingRenderer{}
	e, err := engine.New(config.Default(), engine.WithInput(in), engine.WithRenderer(rd), engine.WithLogger(zap.NewNop()))
	require.NoError(t, err)
	w, err := e.CreateWorld("bunnymark")
	require.NoError(t, err)
	s := newSpawner(1, 10)
	require.NoError(t, setupWorld(e, w, s))
	require.NoError(t, e.Init())
	t.Cleanup(func() { _ = e.Shutdown() })
	return e, w, s, in, rd
}

func TestBunnymark(t *testing.T) {
	t.Run("clicking spawns bunnies", func(t *testing.T) {
		e, w, s, in, rd := newBunnymark(t)

		var added []BunniesAdded
		event.Subscribe(e.Events(), func(ev BunniesAdded) { added = append(added, ev) })

		in.down = true
		require.NoError(t, e.Frame(1.0/60))
		require.NoError(t, e.Frame(1.0/60))

		assert.Equal(t, 20, s.total)
		assert.Equal(t, 20, w.Registry().EntityCount())
		assert.Equal(t, []BunniesAdded{{Count: 10, Total: 10}, {Count: 10, Total: 20}}, added)
		assert.Contains(t, rd.texts, "bunnies: 20")
	})

	t.Run("bunnies stay on screen", func(t *testing.T) {
		e, w, s, _, _ := newBunnymark(t)
		require.NoError(t, s.spawn(w.Registry(), 50, 400, 300))
		w.Registry().Update()

		for i := 0; i < 600; i++ {
			require.NoError(t, e.Frame(1.0/60))
		}

		q, err := ecs.NewQuery[ecs.With[bunnyRow]](w.Registry())
		require.NoError(t, err)
		width, height := e.Display().WindowSize()
		for _, b := range ecs.Rows(q) {
			assert.GreaterOrEqual(t, b.Transform.Position.X, float32(0))
			assert.LessOrEqual(t, b.Transform.Position.X, float32(width-bunnySize))
			assert.GreaterOrEqual(t, b.Transform.Position.Y, float32(hudHeight))
			assert.LessOrEqual(t, b.Transform.Position.Y, float32(height-bunnySize))
		}
	})

	t.Run("squares without a texture", func(t *testing.T) {
		e, w, s, _, rd := newBunnymark(t)
		require.NoError(t, s.spawn(w.Registry(), 5, 0, 0))
		w.Registry().Update()
		require.NoError(t, e.Frame(1.0/60))
		assert.Equal(t, 6, rd.rects, "five bunnies and the hud bar")
	})

	t.Run("escape stops the engine", func(t *testing.T) {
		e, _, _, in, _ := newBunnymark(t)
		require.True(t, e.Running())
		in.pressed[engine.KeyEscape] = true
		require.NoError(t, e.Frame(1.0/60))
		assert.False(t, e.Running())
	})
}
