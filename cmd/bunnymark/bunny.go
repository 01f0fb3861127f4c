package main

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/arepy/arepy/ecs"
	"github.com/arepy/arepy/ecs/debugui"
	"github.com/arepy/arepy/engine"
	"github.com/arepy/arepy/engine/bundle"
	"github.com/arepy/arepy/event"
)

const (
	bunnySize = 16
	gravity   = 500
	hudHeight = 40
)

type Bunny struct{}

// BunniesAdded is emitted after a batch of bunnies is spawned.
type BunniesAdded struct {
	Count int
	Total int
}

type spawner struct {
	rng      *rand.Rand
	perFrame int
	total    int
}

func newSpawner(seed int64, perFrame int) *spawner {
	return &spawner{rng: rand.New(rand.NewSource(seed)), perFrame: perFrame}
}

// spawn creates n bunnies at (x, y) with random velocities and tints.
func (s *spawner) spawn(r *ecs.Registry, n int, x, y float32) error {
	for i := 0; i < n; i++ {
		_, err := r.CreateEntity().
			With(Bunny{}).
			With(bundle.NewTransform(bundle.Vec2{X: x, Y: y})).
			With(bundle.RigidBody2D{
				Velocity:     bundle.Vec2{X: s.rng.Float32()*400 - 200, Y: s.rng.Float32()*400 - 200},
				Acceleration: bundle.Vec2{Y: gravity},
			}).
			With(bundle.Sprite{
				Asset: "bunny",
				Size:  bundle.Vec2{X: bunnySize, Y: bunnySize},
				Tint: engine.Color{
					R: uint8(50 + s.rng.Intn(190)),
					G: uint8(80 + s.rng.Intn(160)),
					B: uint8(100 + s.rng.Intn(140)),
					A: 255,
				},
			}).
			Build()
		if err != nil {
			return err
		}
	}
	s.total += n
	return nil
}

func (s *spawner) inputSystem(reg *ecs.Registry, in engine.Input, events *event.Manager, log *zap.Logger) {
	if !in.IsMouseButtonDown(engine.MouseLeft) {
		return
	}
	x, y := in.MousePosition()
	if err := s.spawn(reg, s.perFrame, x, y); err != nil {
		log.Error("spawn bunnies", zap.Error(err))
		return
	}
	events.Emit(BunniesAdded{Count: s.perFrame, Total: s.total})
}

func controlSystem(in engine.Input, e *engine.Engine, debugger *ecs.Res[*debugui.Debugger]) {
	if in.IsKeyPressed(engine.KeyEscape) {
		e.Stop()
	}
	if in.IsKeyPressed(engine.KeyF1) {
		if d, ok := debugger.Get(); ok {
			d.Toggle()
		}
	}
}

// boundsSystem keeps the bounce area below the hud and inside the window.
func boundsSystem(display engine.Display, bounds *bundle.Bounds) {
	w, h := display.WindowSize()
	bounds.Min = bundle.Vec2{Y: hudHeight}
	bounds.Max = bundle.Vec2{X: float32(w - bunnySize), Y: float32(h - bunnySize)}
}

func hudSystem(q *ecs.Query[ecs.With[struct{ *Bunny }]], rd engine.Renderer2D, display engine.Display) {
	w, _ := display.WindowSize()
	rd.DrawRect(engine.Rect{Width: float32(w), Height: hudHeight}, engine.Black)
	rd.DrawText(fmt.Sprintf("bunnies: %d", q.Len()), 120, 12, engine.White)
	rd.DrawFPS(10, 12)
}

// setupWorld installs the bundle and registers the bunnymark systems on w.
func setupWorld(e *engine.Engine, w *ecs.World, s *spawner) error {
	if _, err := bundle.Install(w); err != nil {
		return err
	}
	ecs.AddResource(w.Registry(), &bundle.Bounds{Damping: 0.15})

	pipelines := []struct {
		p   ecs.Pipeline
		fns []any
	}{
		{ecs.Input, []any{s.inputSystem, controlSystem}},
		{ecs.Update, []any{boundsSystem}},
		{ecs.RenderUI, []any{hudSystem}},
	}
	for _, pl := range pipelines {
		if _, err := w.AddSystems(pl.p, pl.fns...); err != nil {
			return err
		}
	}

	log := e.Logger()
	event.Subscribe(e.Events(), func(ev BunniesAdded) {
		if ev.Total%1000 < ev.Count {
			log.Info("bunnies", zap.Int("total", ev.Total))
		}
	})
	return nil
}
