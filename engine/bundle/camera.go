package bundle

import (
	"math/rand/v2"

	"github.com/arepy/arepy/ecs"
)

// Camera2D maps world positions to the screen as (p - Target) * Zoom + Offset. The sprite
// renderer uses the first camera entity it finds.
type Camera2D struct {
	Target Vec2
	Offset Vec2
	Zoom   float32

	intensity float32
	duration  float32
	remaining float32
	jitter    Vec2
}

// NewCamera2D returns an unzoomed camera looking at target.
func NewCamera2D(target, offset Vec2) Camera2D {
	return Camera2D{Target: target, Offset: offset, Zoom: 1}
}

// Shake jitters the camera by up to intensity pixels, fading out over duration seconds.
func (c *Camera2D) Shake(intensity, duration float32) {
	if duration <= 0 {
		return
	}
	c.intensity, c.duration, c.remaining = intensity, duration, duration
}

func (c *Camera2D) Shaking() bool { return c.remaining > 0 }

// ToScreen converts a world position to screen pixels.
func (c *Camera2D) ToScreen(p Vec2) Vec2 {
	return p.Sub(c.Target).Scale(c.zoom()).Add(c.Offset).Add(c.jitter)
}

func (c *Camera2D) zoom() float32 {
	if c.Zoom == 0 {
		return 1
	}
	return c.Zoom
}

type cameraRow = struct{ *Camera2D }

// CameraShakeSystem advances running camera shakes.
func CameraShakeSystem(q *ecs.Query[ecs.With[cameraRow]], clock *ecs.FrameTime) {
	dt := float32(clock.Delta)
	for _, row := range ecs.Rows(q) {
		c := row.Camera2D
		if c.remaining <= 0 {
			continue
		}
		c.remaining -= dt
		if c.remaining <= 0 {
			c.remaining = 0
			c.jitter = Vec2{}
			continue
		}
		strength := c.intensity * c.remaining / c.duration
		c.jitter = Vec2{
			X: (rand.Float32()*2 - 1) * strength,
			Y: (rand.Float32()*2 - 1) * strength,
		}
	}
}
