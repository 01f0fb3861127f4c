package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

type stagedComponent struct {
	typ   reflect.Type
	value any
}

// EntityBuilder stages components for a freshly created entity and commits them in one
// call. The entity id is reserved when the builder is created.
type EntityBuilder struct {
	registry   *Registry
	entity     Entity
	components []stagedComponent
	err        error
}

// CreateEntity reserves a new entity and returns a builder for its components. The entity
// joins matching queries at the next Update.
func (r *Registry) CreateEntity() *EntityBuilder {
	return &EntityBuilder{
		registry: r,
		entity:   r.handle(r.allocate()),
	}
}

// With stages a component. Pointer values are dereferenced. Staging a second component of
// the same type fails the builder; once failed, further calls are ignored.
func (b *EntityBuilder) With(component any) *EntityBuilder {
	if b.err != nil {
		return b
	}
	t, v, err := componentOf(component)
	if err != nil {
		b.err = err
		return b
	}
	for _, staged := range b.components {
		if staged.typ == t {
			b.err = eris.Wrapf(ErrDuplicateComponent, "%s on entity %s", t, b.entity.id)
			return b
		}
	}
	if _, err := b.registry.components.RegisterComponentType(t); err != nil {
		b.err = err
		return b
	}
	b.components = append(b.components, stagedComponent{typ: t, value: v})
	return b
}

// Err returns the first error recorded by With.
func (b *EntityBuilder) Err() error {
	return b.err
}

// Entity returns the reserved entity handle.
func (b *EntityBuilder) Entity() Entity {
	return b.entity
}

// Build commits the staged components. If staging failed nothing is committed, the
// reserved entity is killed and the staging error is returned.
func (b *EntityBuilder) Build() (Entity, error) {
	if b.err != nil {
		_ = b.registry.Kill(b.entity)
		return Entity{}, b.err
	}
	for _, c := range b.components {
		if err := b.registry.AddComponentValue(b.entity, c.value); err != nil {
			_ = b.registry.Kill(b.entity)
			return Entity{}, err
		}
	}
	return b.entity, nil
}

// Spawn creates an entity with the given components.
func Spawn(r *Registry, components ...any) (Entity, error) {
	b := r.CreateEntity()
	for _, c := range components {
		b.With(c)
	}
	return b.Build()
}
