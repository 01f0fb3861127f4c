package ecs

import (
	"reflect"
	"sync"

	"github.com/rotisserie/eris"
)

// ComponentId is the small integer assigned to a component type. It is the bit index of
// that type in every Signature.
type ComponentId uint8

// ComponentRegistry assigns ids to component types. Several registries may share one
// ComponentRegistry so that a type has the same id in every world of an engine.
//
// Ids are handed out in registration order, starting at zero, and are never reused.
type ComponentRegistry struct {
	mu        sync.RWMutex
	ids       map[reflect.Type]ComponentId
	types     []reflect.Type
	factories []func() componentPool
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		ids: make(map[reflect.Type]ComponentId),
	}
}

// RegisterComponent registers T and returns its id. Registering a type again returns the
// id it already has.
func RegisterComponent[T any](cr *ComponentRegistry) (ComponentId, error) {
	return cr.register(reflect.TypeFor[T](), func() componentPool {
		return &pool[T]{}
	})
}

// MustRegisterComponent is RegisterComponent for static setup code; it panics on error.
func MustRegisterComponent[T any](cr *ComponentRegistry) ComponentId {
	id, err := RegisterComponent[T](cr)
	if err != nil {
		panic(err)
	}
	return id
}

// RegisterComponentType registers a type known only at runtime.
func (cr *ComponentRegistry) RegisterComponentType(t reflect.Type) (ComponentId, error) {
	return cr.register(t, func() componentPool {
		return newDynamicPool(t)
	})
}

func (cr *ComponentRegistry) register(t reflect.Type, factory func() componentPool) (ComponentId, error) {
	if err := validateComponentType(t); err != nil {
		return 0, err
	}

	cr.mu.Lock()
	defer cr.mu.Unlock()

	if id, ok := cr.ids[t]; ok {
		return id, nil
	}
	if len(cr.types) >= MaxComponents {
		return 0, eris.Wrapf(ErrMaximumComponentsExceeded, "register %s: limit is %d", t, MaxComponents)
	}

	id := ComponentId(len(cr.types))
	cr.ids[t] = id
	cr.types = append(cr.types, t)
	cr.factories = append(cr.factories, factory)
	return id, nil
}

func validateComponentType(t reflect.Type) error {
	if t == nil {
		return eris.Wrap(ErrInvalidComponent, "nil type")
	}
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return eris.Wrapf(ErrInvalidComponent, "%s has kind %s", t, t.Kind())
	}
	return nil
}

// Id returns the id registered for t.
func (cr *ComponentRegistry) Id(t reflect.Type) (ComponentId, bool) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	id, ok := cr.ids[t]
	return id, ok
}

// Type returns the type registered under id, or nil.
func (cr *ComponentRegistry) Type(id ComponentId) reflect.Type {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	if int(id) >= len(cr.types) {
		return nil
	}
	return cr.types[id]
}

// Len returns the number of registered types.
func (cr *ComponentRegistry) Len() int {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return len(cr.types)
}

// Types returns the registered types ordered by id.
func (cr *ComponentRegistry) Types() []reflect.Type {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	out := make([]reflect.Type, len(cr.types))
	copy(out, cr.types)
	return out
}

func (cr *ComponentRegistry) newPool(id ComponentId) componentPool {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return cr.factories[id]()
}

// componentOf unwraps a component value, dereferencing pointers the way the builder and
// AddComponentValue accept them.
func componentOf(value any) (reflect.Type, any, error) {
	if value == nil {
		return nil, nil, eris.Wrap(ErrInvalidComponent, "nil component")
	}
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil, eris.Wrapf(ErrInvalidComponent, "nil %s", v.Type())
		}
		v = v.Elem()
	}
	t := v.Type()
	if err := validateComponentType(t); err != nil {
		return nil, nil, err
	}
	return t, v.Interface(), nil
}
