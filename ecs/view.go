package ecs

import (
	"reflect"
	"unsafe"

	"github.com/rotisserie/eris"
)

// rowLayout describes a struct of component pointers.
type rowLayout struct {
	types    []reflect.Type
	optional []bool
	offsets  []uintptr
}

// parseRowLayout reads the pointer fields of t. Embedded fields are always required;
// named fields may carry `ecs:"optional"` when allowOptional is set.
func parseRowLayout(t reflect.Type, allowOptional bool) (rowLayout, error) {
	var layout rowLayout
	if t.Kind() != reflect.Struct {
		return layout, eris.Wrapf(ErrInvalidQuery, "%s is not a struct", t)
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Type.Kind() != reflect.Ptr {
			return layout, eris.Wrapf(ErrInvalidQuery, "field %s of %s is not a pointer", field.Name, t)
		}

		optional := false
		if tag := field.Tag.Get("ecs"); tag != "" {
			if tag != "optional" || field.Anonymous || !allowOptional {
				return layout, eris.Wrapf(ErrInvalidQuery, "invalid ecs tag %q on field %s of %s", tag, field.Name, t)
			}
			optional = true
		}

		layout.types = append(layout.types, field.Type.Elem())
		layout.optional = append(layout.optional, optional)
		layout.offsets = append(layout.offsets, field.Offset)
	}
	return layout, nil
}

// View fills structs of component pointers for single entities. T has the same shape as
// the type argument of With.
type View[T any] struct {
	registry *Registry
	ids      []ComponentId
	layout   rowLayout
}

// NewView creates a view over the registry's pools, registering any component type of T
// not seen yet.
func NewView[T any](r *Registry) (*View[T], error) {
	layout, err := parseRowLayout(reflect.TypeFor[T](), true)
	if err != nil {
		return nil, err
	}
	v := &View[T]{registry: r, layout: layout}
	for _, t := range layout.types {
		id, err := r.components.RegisterComponentType(t)
		if err != nil {
			return nil, err
		}
		v.ids = append(v.ids, id)
	}
	return v, nil
}

// Fill points the fields of *ptr at e's components. It returns false if e is not a live
// entity of the view's registry or lacks a required component; missing optional
// components are set to nil.
func (v *View[T]) Fill(e Entity, ptr *T) bool {
	if e.registry != v.registry.self || v.registry.record(e.id) == nil {
		return false
	}
	index := int(e.id.Index()) - 1
	structPtr := unsafe.Pointer(ptr)

	for i, id := range v.ids {
		var component unsafe.Pointer
		if p := v.registry.poolIfExists(id); p != nil {
			component = p.ptr(index)
		}
		if component == nil && !v.layout.optional[i] {
			return false
		}
		fieldPtr := unsafe.Add(structPtr, v.layout.offsets[i])
		*(*unsafe.Pointer)(fieldPtr) = component
	}
	return true
}

// Get returns a filled row for e, or nil if e lacks a required component.
func (v *View[T]) Get(e Entity) *T {
	var row T
	if !v.Fill(e, &row) {
		return nil
	}
	return &row
}

// Spawn creates an entity from the non-nil fields of data. A nil required field is an
// error.
func (v *View[T]) Spawn(data T) (Entity, error) {
	structPtr := unsafe.Pointer(&data)
	b := v.registry.CreateEntity()

	for i, t := range v.layout.types {
		component := *(*unsafe.Pointer)(unsafe.Add(structPtr, v.layout.offsets[i]))
		if component == nil {
			if !v.layout.optional[i] {
				b.err = eris.Wrapf(ErrComponentNotFound, "required %s is nil", t)
				break
			}
			continue
		}
		b.With(reflect.NewAt(t, component).Interface())
	}
	return b.Build()
}
