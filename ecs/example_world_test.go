package ecs_test

import (
	"fmt"

	"github.com/arepy/arepy/ecs"
)

type Transform struct {
	X, Y float32
}

type Speed struct {
	DX, DY float32
}

type Hitpoints struct {
	Current, Max int
}

func physicsSystem(q *ecs.Query[ecs.With[struct {
	*Transform
	*Speed
}]], clock *ecs.FrameTime) {
	for _, entity := range ecs.Rows(q) {
		entity.Transform.X += entity.Speed.DX * float32(clock.Delta)
		entity.Transform.Y += entity.Speed.DY * float32(clock.Delta)
	}
}

func healingSystem(q *ecs.Query[ecs.With[struct{ *Hitpoints }]], clock *ecs.FrameTime) {
	for _, entity := range ecs.Rows(q) {
		if entity.Hitpoints.Current < entity.Hitpoints.Max {
			entity.Hitpoints.Current += int(10 * clock.Delta)
			if entity.Hitpoints.Current > entity.Hitpoints.Max {
				entity.Hitpoints.Current = entity.Hitpoints.Max
			}
		}
	}
}

// ExampleWorld demonstrates a frame loop over a world. Systems declare the queries
// and resources they need as parameters; the registry resolves them once when the
// system is added and runs systems in registration order.
func ExampleWorld() {
	world := ecs.NewWorld("main")
	clock := &ecs.FrameTime{}
	ecs.AddResource(world.Registry(), clock)

	if _, err := world.AddSystems(ecs.Update, physicsSystem, healingSystem); err != nil {
		panic(err)
	}

	player, _ := world.CreateEntity().
		With(Transform{X: 0, Y: 0}).
		With(Speed{DX: 10, DY: 5}).
		With(Hitpoints{Current: 80, Max: 100}).
		Build()
	world.Update()

	for frame := 0; frame < 3; frame++ {
		clock.Advance(1.0)
		world.Run(ecs.Update)
		world.Update()
	}

	t := ecs.MustGet[Transform](player)
	hp := ecs.MustGet[Hitpoints](player)
	fmt.Printf("position (%.0f, %.0f) hp %d/%d\n", t.X, t.Y, hp.Current, hp.Max)

	// Output:
	// position (30, 15) hp 100/100
}
