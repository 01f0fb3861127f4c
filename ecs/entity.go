package ecs

import (
	"fmt"
	"reflect"
	"weak"

	"github.com/rotisserie/eris"
)

// EntityId encodes the generation (upper 32 bits) and the entity index (lower 32 bits).
// Indices start at 1; the zero id never names a live entity.
type EntityId uint64

// NewEntityId creates an EntityId from a generation and an index.
func NewEntityId(generation uint32, index uint32) EntityId {
	return EntityId(uint64(generation)<<32 | uint64(index))
}

// Generation extracts the generation from the entity ID.
func (e EntityId) Generation() uint32 {
	return uint32(e >> 32)
}

// Index extracts the entity index from the entity ID.
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

func (e EntityId) String() string {
	return fmt.Sprintf("%d:%d", e.Index(), e.Generation())
}

// Entity is a handle to an entity. It owns no storage; components live in the registry's
// pools. The registry is held weakly so a handle never keeps a discarded world alive.
type Entity struct {
	id       EntityId
	registry weak.Pointer[Registry]
}

// Id returns the entity's id.
func (e Entity) Id() EntityId {
	return e.id
}

func (e Entity) String() string {
	return "Entity(" + e.id.String() + ")"
}

// Registry returns the registry that owns the entity.
func (e Entity) Registry() (*Registry, error) {
	r := e.registry.Value()
	if r == nil {
		return nil, eris.Wrapf(ErrRegistryNotSet, "entity %s", e.id)
	}
	return r, nil
}

// Alive reports whether the handle still names a live entity.
func (e Entity) Alive() bool {
	r := e.registry.Value()
	return r != nil && r.Alive(e)
}

// Kill schedules the entity for destruction at the next Registry.Update.
func (e Entity) Kill() error {
	r, err := e.Registry()
	if err != nil {
		return err
	}
	return r.Kill(e)
}

// Get returns the entity's T component.
func Get[T any](e Entity) (*T, error) {
	r, err := e.Registry()
	if err != nil {
		return nil, err
	}
	if err := r.checkAlive(e); err != nil {
		return nil, err
	}
	c, ok := GetComponent[T](r, e)
	if !ok {
		return nil, eris.Wrapf(ErrComponentNotFound, "%s on entity %s", reflect.TypeFor[T](), e.id)
	}
	return c, nil
}

// MustGet is Get for callers that already know the component is present.
func MustGet[T any](e Entity) *T {
	c, err := Get[T](e)
	if err != nil {
		panic(err)
	}
	return c
}

// Has reports whether the entity has a T component.
func Has[T any](e Entity) (bool, error) {
	r, err := e.Registry()
	if err != nil {
		return false, err
	}
	if err := r.checkAlive(e); err != nil {
		return false, err
	}
	return HasComponent[T](r, e), nil
}

// Remove removes the entity's T component.
func Remove[T any](e Entity) error {
	r, err := e.Registry()
	if err != nil {
		return err
	}
	return RemoveComponent[T](r, e)
}
