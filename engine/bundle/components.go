package bundle

import (
	"math"

	"github.com/arepy/arepy/engine"
)

// Vec2 is a 2D vector in pixels.
type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(o Vec2) Vec2      { return Vec2{v.X * o.X, v.Y * o.Y} }
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Length() float32      { return float32(math.Hypot(float64(v.X), float64(v.Y))) }

// ClampLength shortens v to at most limit.
func (v Vec2) ClampLength(limit float32) Vec2 {
	l := v.Length()
	if l <= limit || l == 0 {
		return v
	}
	return v.Scale(limit / l)
}

// Transform places an entity in the world. Origin is subtracted from Position when
// drawing; a zero Scale draws at 1.
type Transform struct {
	Position Vec2
	Scale    Vec2
	Origin   Vec2
}

// NewTransform returns a transform at pos with unit scale.
func NewTransform(pos Vec2) Transform {
	return Transform{Position: pos, Scale: Vec2{1, 1}}
}

func (t *Transform) scale() Vec2 {
	if t.Scale == (Vec2{}) {
		return Vec2{1, 1}
	}
	return t.Scale
}

// RigidBody2D moves its Transform every Physics step. Acceleration is applied before the
// velocity is capped to MaxSpeed; a zero MaxSpeed means no cap.
type RigidBody2D struct {
	Velocity     Vec2
	Acceleration Vec2
	MaxSpeed     float32
}

// Sprite draws a texture from the asset store at the entity's Transform.
type Sprite struct {
	Asset  string
	Src    engine.Rect  // zero: the whole texture
	Size   Vec2         // zero: the size of Src
	Tint   engine.Color // zero: White
	ZIndex int
}
