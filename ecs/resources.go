package ecs

import (
	"reflect"
	"slices"

	"github.com/rotisserie/eris"
)

// AddResource stores v in the registry's resource table under type T. T may be an
// interface, in which case systems declaring a parameter of that interface type receive v.
//
// Systems registered before a resource is replaced keep the instance they were given;
// use Res[T] for a parameter that always sees the current value.
func AddResource[T any](r *Registry, v T) {
	r.resources[reflect.TypeFor[T]()] = reflect.ValueOf(&v).Elem()
}

// GetResource returns the resource stored under T.
func GetResource[T any](r *Registry) (T, bool) {
	v, ok := r.resources[reflect.TypeFor[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	res, _ := v.Interface().(T)
	return res, true
}

// RemoveResource deletes the resource stored under T.
func RemoveResource[T any](r *Registry) {
	delete(r.resources, reflect.TypeFor[T]())
}

// SetResource stores v under t. v must be assignable to t.
func (r *Registry) SetResource(t reflect.Type, v any) error {
	if t == nil {
		return eris.Wrap(ErrInvalidResource, "nil resource type")
	}
	slot := reflect.New(t).Elem()
	if v != nil {
		val := reflect.ValueOf(v)
		if !val.Type().AssignableTo(t) {
			return eris.Wrapf(ErrInvalidResource, "%s is not assignable to %s", val.Type(), t)
		}
		slot.Set(val)
	}
	r.resources[t] = slot
	return nil
}

// Resource returns the resource stored under t.
func (r *Registry) Resource(t reflect.Type) (any, bool) {
	v, ok := r.resources[t]
	if !ok {
		return nil, false
	}
	return v.Interface(), true
}

// Resources returns the names of every resource type, sorted.
func (r *Registry) Resources() []string {
	names := make([]string, 0, len(r.resources))
	for t := range r.resources {
		names = append(names, t.String())
	}
	slices.Sort(names)
	return names
}

// Res is a late-bound handle to the resource stored under T. Unlike a plain resource
// parameter, it reads the table on every call, so it sees resources added or replaced
// after the system was registered.
type Res[T any] struct {
	registry *Registry
}

type resSlot interface {
	bindRes(r *Registry)
}

// NewRes creates a handle to resource T of r.
func NewRes[T any](r *Registry) *Res[T] {
	return &Res[T]{registry: r}
}

func (s *Res[T]) bindRes(r *Registry) {
	s.registry = r
}

// Get returns the current resource value.
func (s *Res[T]) Get() (T, bool) {
	if s.registry == nil {
		var zero T
		return zero, false
	}
	return GetResource[T](s.registry)
}

// MustGet returns the current resource value and panics if it is missing.
func (s *Res[T]) MustGet() T {
	v, ok := s.Get()
	if !ok {
		panic(eris.Wrapf(ErrInvalidResource, "resource %s not found", reflect.TypeFor[T]()))
	}
	return v
}

// Exists reports whether the resource is present.
func (s *Res[T]) Exists() bool {
	_, ok := s.Get()
	return ok
}
