package ecs_test

import "github.com/arepy/arepy/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

type Dead struct{}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

type Inventory struct {
	Items []string
}

// Renderer stands in for an engine resource such as a 2D renderer.
type Renderer struct {
	Calls int
}

type Clock interface {
	Now() float64
}

type fixedClock float64

func (c fixedClock) Now() float64 { return float64(c) }

func newTestRegistry() *ecs.Registry {
	components := ecs.NewComponentRegistry()
	ecs.MustRegisterComponent[Position](components)
	ecs.MustRegisterComponent[Velocity](components)
	ecs.MustRegisterComponent[Name](components)
	ecs.MustRegisterComponent[Health](components)
	ecs.MustRegisterComponent[PlayerController](components)
	ecs.MustRegisterComponent[Dead](components)
	ecs.MustRegisterComponent[Score](components)
	ecs.MustRegisterComponent[Tag](components)
	ecs.MustRegisterComponent[Inventory](components)
	return ecs.NewRegistry(ecs.WithComponentRegistry(components))
}
