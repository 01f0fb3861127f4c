package main

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/arepy/arepy/ecs"
)

type Position struct{ X, Y float64 }
type Velocity struct{ DX, DY float64 }
type Mass struct{ Kg float64 }

type Health struct {
	Current float64
	Max     float64
}

type Regen struct{ Rate float64 }
type Lifetime struct{ Remaining float64 }
type Score struct{ Points int }
type Frozen struct{}

// Totals is written by the ASYNC_UPDATE systems. Each system owns one field.
type Totals struct {
	Mass   float64
	Points int
	Frozen int
}

// prototypes returns fresh component values for a random entity.
var prototypes = []func(rng *rand.Rand) any{
	func(rng *rand.Rand) any { return Position{X: rng.Float64() * 1000, Y: rng.Float64() * 1000} },
	func(rng *rand.Rand) any { return Velocity{DX: rng.Float64()*2 - 1, DY: rng.Float64()*2 - 1} },
	func(rng *rand.Rand) any { return Mass{Kg: 1 + rng.Float64()*10} },
	func(rng *rand.Rand) any { return Health{Current: 50, Max: 100} },
	func(rng *rand.Rand) any { return Regen{Rate: rng.Float64() * 5} },
	func(rng *rand.Rand) any { return Lifetime{Remaining: rng.Float64() * 5} },
	func(rng *rand.Rand) any { return Score{Points: rng.Intn(10)} },
	func(rng *rand.Rand) any { return Frozen{} },
}

// spawnRandom creates an entity with between 1 and n distinct random components.
func spawnRandom(r *ecs.Registry, rng *rand.Rand, n int) (ecs.Entity, error) {
	b := r.CreateEntity()
	for _, i := range rng.Perm(len(prototypes))[:rng.Intn(n)+1] {
		b.With(prototypes[i](rng))
	}
	return b.Build()
}

type moveRow = struct {
	*Position
	*Velocity
}

type healRow = struct {
	*Health
	*Regen
}

type fallRow = struct {
	*Velocity
	*Mass
}

func movementSystem(q *ecs.Query[ecs.With[moveRow]], clock *ecs.FrameTime) {
	for _, row := range ecs.Rows(q) {
		row.Position.X += row.Velocity.DX * clock.Delta
		row.Position.Y += row.Velocity.DY * clock.Delta
	}
}

func regenSystem(q *ecs.Query[ecs.With[healRow]], clock *ecs.FrameTime) {
	for _, row := range ecs.Rows(q) {
		row.Health.Current = min(row.Health.Max, row.Health.Current+row.Regen.Rate*clock.Delta)
	}
}

// churn keeps the population steady: expired entities are killed and replaced.
type churn struct {
	rng           *rand.Rand
	maxComponents int
	killed        int
}

func (c *churn) lifetimeSystem(reg *ecs.Registry, q *ecs.Query[ecs.With[struct{ *Lifetime }]], clock *ecs.FrameTime) {
	for e, row := range ecs.Rows(q) {
		row.Lifetime.Remaining -= clock.Delta
		if row.Lifetime.Remaining > 0 {
			continue
		}
		if err := e.Kill(); err != nil {
			continue
		}
		c.killed++
		if _, err := spawnRandom(reg, c.rng, c.maxComponents); err != nil {
			reg.Logger().Error("spawn replacement", zap.Error(err))
		}
	}
}

func gravitySystem(q *ecs.Query[ecs.With[fallRow]], clock *ecs.FrameTime) {
	const g = 9.81
	for _, row := range ecs.Rows(q) {
		row.Velocity.DY += g * clock.Delta / row.Mass.Kg
	}
}

func massSystem(q *ecs.Query[ecs.With[struct{ *Mass }]], totals *Totals) {
	var sum float64
	for _, row := range ecs.Rows(q) {
		sum += row.Mass.Kg
	}
	totals.Mass = sum
}

func scoreSystem(q *ecs.Query[ecs.With[struct{ *Score }]], totals *Totals) {
	points := 0
	for _, row := range ecs.Rows(q) {
		points += row.Score.Points
	}
	totals.Points = points
}

func frozenSystem(q *ecs.Query[ecs.Without[struct{ *Frozen }]], reg *ecs.Registry, totals *Totals) {
	totals.Frozen = reg.EntityCount() - q.Len()
}

// setupWorld registers the stress systems on w and returns the churn state.
func setupWorld(w *ecs.World, rng *rand.Rand, maxComponents int) (*churn, *Totals, error) {
	c := &churn{rng: rng, maxComponents: maxComponents}
	totals := &Totals{}
	ecs.AddResource(w.Registry(), totals)

	pipelines := []struct {
		p   ecs.Pipeline
		fns []any
	}{
		{ecs.Update, []any{movementSystem, regenSystem, c.lifetimeSystem}},
		{ecs.Physics, []any{gravitySystem}},
		{ecs.AsyncUpdate, []any{massSystem, scoreSystem, frozenSystem}},
	}
	for _, pl := range pipelines {
		if _, err := w.AddSystems(pl.p, pl.fns...); err != nil {
			return nil, nil, err
		}
	}
	return c, totals, nil
}
