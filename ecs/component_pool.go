package ecs

import (
	"reflect"
	"unsafe"
)

const poolBlockSize = 64

// componentPool is a type-erased dense store of one component type, addressed by
// entity index - 1. Pools grow on demand and never shrink or compact, so a pointer
// returned by get stays valid until the slot is cleared.
type componentPool interface {
	set(index int, value any)
	get(index int) any
	ptr(index int) unsafe.Pointer
	clear(index int)
	has(index int) bool
	len() int
	count() int
}

// pool stores components of type T in fixed size blocks.
type pool[T any] struct {
	blocks []*[poolBlockSize]T
	filled []*[poolBlockSize]bool
	n      int
}

func (p *pool[T]) grow(index int) {
	for index/poolBlockSize >= len(p.blocks) {
		p.blocks = append(p.blocks, new([poolBlockSize]T))
		p.filled = append(p.filled, new([poolBlockSize]bool))
	}
}

func (p *pool[T]) put(index int, value T) *T {
	p.grow(index)
	b, s := index/poolBlockSize, index%poolBlockSize
	if !p.filled[b][s] {
		p.filled[b][s] = true
		p.n++
	}
	p.blocks[b][s] = value
	return &p.blocks[b][s]
}

func (p *pool[T]) set(index int, value any) {
	switch v := value.(type) {
	case T:
		p.put(index, v)
	case *T:
		p.put(index, *v)
	default:
		panic("component value does not match pool type")
	}
}

func (p *pool[T]) at(index int) *T {
	if index < 0 {
		return nil
	}
	b, s := index/poolBlockSize, index%poolBlockSize
	if b >= len(p.blocks) || !p.filled[b][s] {
		return nil
	}
	return &p.blocks[b][s]
}

func (p *pool[T]) get(index int) any {
	if c := p.at(index); c != nil {
		return c
	}
	return nil
}

func (p *pool[T]) ptr(index int) unsafe.Pointer {
	return unsafe.Pointer(p.at(index))
}

func (p *pool[T]) clear(index int) {
	if index < 0 {
		return
	}
	b, s := index/poolBlockSize, index%poolBlockSize
	if b >= len(p.blocks) || !p.filled[b][s] {
		return
	}
	var zero T
	p.blocks[b][s] = zero
	p.filled[b][s] = false
	p.n--
}

func (p *pool[T]) has(index int) bool {
	return p.at(index) != nil
}

func (p *pool[T]) len() int {
	return len(p.blocks) * poolBlockSize
}

func (p *pool[T]) count() int {
	return p.n
}

// dynamicPool backs component types registered through reflection only. Each block is a
// reflect-allocated array so element addresses stay stable as the pool grows.
type dynamicPool struct {
	typ    reflect.Type
	blocks []reflect.Value
	filled []*[poolBlockSize]bool
	n      int
}

func newDynamicPool(t reflect.Type) *dynamicPool {
	return &dynamicPool{typ: t}
}

func (p *dynamicPool) grow(index int) {
	for index/poolBlockSize >= len(p.blocks) {
		p.blocks = append(p.blocks, reflect.New(reflect.ArrayOf(poolBlockSize, p.typ)).Elem())
		p.filled = append(p.filled, new([poolBlockSize]bool))
	}
}

func (p *dynamicPool) set(index int, value any) {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr && v.Type().Elem() == p.typ {
		v = v.Elem()
	}
	if v.Type() != p.typ {
		panic("component value does not match pool type")
	}
	p.grow(index)
	b, s := index/poolBlockSize, index%poolBlockSize
	if !p.filled[b][s] {
		p.filled[b][s] = true
		p.n++
	}
	p.blocks[b].Index(s).Set(v)
}

func (p *dynamicPool) slot(index int) (reflect.Value, bool) {
	if index < 0 {
		return reflect.Value{}, false
	}
	b, s := index/poolBlockSize, index%poolBlockSize
	if b >= len(p.blocks) || !p.filled[b][s] {
		return reflect.Value{}, false
	}
	return p.blocks[b].Index(s), true
}

func (p *dynamicPool) get(index int) any {
	if v, ok := p.slot(index); ok {
		return v.Addr().Interface()
	}
	return nil
}

func (p *dynamicPool) ptr(index int) unsafe.Pointer {
	if v, ok := p.slot(index); ok {
		return v.Addr().UnsafePointer()
	}
	return nil
}

func (p *dynamicPool) clear(index int) {
	v, ok := p.slot(index)
	if !ok {
		return
	}
	v.SetZero()
	p.filled[index/poolBlockSize][index%poolBlockSize] = false
	p.n--
}

func (p *dynamicPool) has(index int) bool {
	_, ok := p.slot(index)
	return ok
}

func (p *dynamicPool) len() int {
	return len(p.blocks) * poolBlockSize
}

func (p *dynamicPool) count() int {
	return p.n
}
