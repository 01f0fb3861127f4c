package bundle

import (
	"github.com/arepy/arepy/ecs"
	"github.com/arepy/arepy/engine"
)

// Bounds is the resource MovementSystem keeps bodies inside. A body crossing an edge is
// clamped to it and its velocity on that axis turns back, scaled by 1-Damping.
type Bounds struct {
	Min, Max Vec2
	Damping  float32
}

type bodyRow = struct {
	*Transform
	*RigidBody2D
}

// MovementSystem integrates rigid bodies. Without a Bounds resource the window is used;
// a zero-sized window leaves bodies unbounded.
func MovementSystem(q *ecs.Query[ecs.With[bodyRow]], clock *ecs.FrameTime, bounds *ecs.Res[*Bounds], display engine.Display) {
	dt := float32(clock.Delta)
	box, ok := bounds.Get()
	if !ok {
		w, h := display.WindowSize()
		if w > 0 && h > 0 {
			box = &Bounds{Max: Vec2{float32(w), float32(h)}}
		}
	}

	for _, row := range ecs.Rows(q) {
		body, t := row.RigidBody2D, row.Transform
		body.Velocity = body.Velocity.Add(body.Acceleration.Scale(dt))
		if body.MaxSpeed > 0 {
			body.Velocity = body.Velocity.ClampLength(body.MaxSpeed)
		}
		t.Position = t.Position.Add(body.Velocity.Scale(dt))

		if box == nil {
			continue
		}
		bounce := 1 - box.Damping
		t.Position.X, body.Velocity.X = bounceAxis(t.Position.X, body.Velocity.X, box.Min.X, box.Max.X, bounce)
		t.Position.Y, body.Velocity.Y = bounceAxis(t.Position.Y, body.Velocity.Y, box.Min.Y, box.Max.Y, bounce)
	}
}

func bounceAxis(p, v, lo, hi, bounce float32) (float32, float32) {
	switch {
	case p < lo:
		return lo, abs(v) * bounce
	case p > hi:
		return hi, -abs(v) * bounce
	}
	return p, v
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
