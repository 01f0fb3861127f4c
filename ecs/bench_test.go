package ecs_test

import (
	"testing"

	"github.com/arepy/arepy/ecs"
)

func BenchmarkSpawn(b *testing.B) {
	r := newTestRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ecs.Spawn(r, Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
	}
}

func BenchmarkSpawnAndKill(b *testing.B) {
	r := newTestRegistry()
	_, _ = ecs.NewQuery[ecs.With[moveRow]](r)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e, _ := ecs.Spawn(r, Position{X: 1.0, Y: 2.0}, Velocity{DX: 0.5, DY: 0.5})
		r.Update()
		_ = e.Kill()
		r.Update()
	}
}

func BenchmarkAddComponent(b *testing.B) {
	r := newTestRegistry()
	e, _ := r.CreateEntity().Build()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ecs.AddComponent(r, e, Position{X: float32(i)})
	}
}

func BenchmarkGetComponent(b *testing.B) {
	r := newTestRegistry()
	e, _ := ecs.Spawn(r, Position{X: 1.0, Y: 2.0})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ecs.GetComponent[Position](r, e)
	}
}

func BenchmarkHasComponent(b *testing.B) {
	r := newTestRegistry()
	e, _ := ecs.Spawn(r, Position{X: 1.0, Y: 2.0})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ecs.HasComponent[Position](r, e)
	}
}

func BenchmarkRows(b *testing.B) {
	r := newTestRegistry()
	for i := 0; i < 10000; i++ {
		_, _ = ecs.Spawn(r, Position{X: float32(i)}, Velocity{DX: 1})
	}
	r.Update()
	q, _ := ecs.NewQuery[ecs.With[moveRow]](r)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, row := range ecs.Rows(q) {
			row.Position.X += row.Velocity.DX
		}
	}
}

func BenchmarkRunPipeline(b *testing.B) {
	r := newTestRegistry()
	for i := 0; i < 1000; i++ {
		_, _ = ecs.Spawn(r, Position{}, Velocity{DX: 1})
	}
	r.Update()
	ecs.AddResource(r, &ecs.FrameTime{Delta: 1.0 / 60})
	_, _ = r.AddSystem(ecs.Update, ecs.On, func(q *ecs.Query[ecs.With[moveRow]], clock *ecs.FrameTime) {
		for _, row := range ecs.Rows(q) {
			row.Position.X += row.Velocity.DX * float32(clock.Delta)
		}
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Run(ecs.Update)
		r.Update()
	}
}
