package ecs

import (
	"iter"
	"reflect"
	"slices"
	"strings"
)

// QueryKind tells whether a query selects entities that have its components or entities
// that lack them.
type QueryKind uint8

const (
	QueryWith QueryKind = iota
	QueryWithout
)

func (k QueryKind) String() string {
	if k == QueryWithout {
		return "Without"
	}
	return "With"
}

// filter is implemented by With and Without.
type filter interface {
	kind() QueryKind
	rowType() reflect.Type
	newView(r *Registry) (any, error)
}

// With selects entities that have every component of T. T is a struct whose fields are
// pointers to component types:
//
//	ecs.Query[ecs.With[struct{ *Position; *Velocity }]]
//
// Named fields tagged `ecs:"optional"` are filled when present but not required.
type With[T any] struct{}

func (With[T]) kind() QueryKind { return QueryWith }
func (With[T]) rowType() reflect.Type { return reflect.TypeFor[T]() }
func (With[T]) newView(r *Registry) (any, error) {
	return NewView[T](r)
}

// Without selects entities that have none of the components of T.
type Without[T any] struct{}

func (Without[T]) kind() QueryKind { return QueryWithout }
func (Without[T]) rowType() reflect.Type { return reflect.TypeFor[T]() }
func (Without[T]) newView(*Registry) (any, error) { return nil, nil }

// queryState is the membership data shared by every Query value built for the same filter.
type queryState struct {
	filter     reflect.Type
	kind       QueryKind
	types      []reflect.Type
	components Signature
	signature  Signature
	set        entitySet
	view       any
}

// query returns the registry's state for filter type ft, creating and backfilling it on
// first use.
func (r *Registry) query(f filter, ft reflect.Type) (*queryState, error) {
	if q, ok := r.queryByFilter[ft]; ok {
		return q, nil
	}

	layout, err := parseRowLayout(f.rowType(), f.kind() == QueryWith)
	if err != nil {
		return nil, err
	}

	q := &queryState{
		filter: ft,
		kind:   f.kind(),
		set:    newEntitySet(64),
	}
	for i, t := range layout.types {
		id, err := r.components.RegisterComponentType(t)
		if err != nil {
			return nil, err
		}
		if layout.optional[i] {
			continue
		}
		q.types = append(q.types, t)
		q.components.Set(int(id), true)
	}
	q.signature = q.components
	if q.kind == QueryWithout {
		q.signature.Flip()
	}
	if q.view, err = f.newView(r); err != nil {
		return nil, err
	}

	for i := range r.entities {
		rec := &r.entities[i]
		if rec.alive && rec.synced && q.Matches(rec.signature) {
			q.set.add(r.handle(NewEntityId(rec.generation, uint32(i+1))))
		}
	}

	r.queries = append(r.queries, q)
	r.queryByFilter[ft] = q
	return q, nil
}

// Kind returns whether the query is a With or a Without query.
func (q *queryState) Kind() QueryKind {
	return q.kind
}

// Signature returns the signature used for matching. For Without queries it is the
// flipped exclusion set.
func (q *queryState) Signature() Signature {
	return q.signature
}

// Components returns the required (or excluded) component types in declaration order.
func (q *queryState) Components() []reflect.Type {
	return slices.Clone(q.types)
}

// Matches reports whether an entity with signature sig belongs in the query.
func (q *queryState) Matches(sig Signature) bool {
	if q.kind == QueryWithout {
		return sig.Matches(q.signature)
	}
	return q.signature.Matches(sig)
}

// Len returns the number of matched entities.
func (q *queryState) Len() int {
	return q.set.len()
}

// Contains reports whether e is a member.
func (q *queryState) Contains(e Entity) bool {
	return q.set.has(e)
}

// AddEntity adds e to the matched set. Adding a member again is a no-op.
func (q *queryState) AddEntity(e Entity) {
	q.set.add(e)
}

// RemoveEntity removes e from the matched set. Removing a non-member is a no-op.
func (q *queryState) RemoveEntity(e Entity) {
	q.set.remove(e.id)
}

// Entities iterates the live matched set. Membership only changes in Registry.Update, so
// systems may add, remove and kill while iterating; calling AddEntity or RemoveEntity
// during iteration is not supported.
func (q *queryState) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, e := range q.set.dense {
			if !yield(e) {
				return
			}
		}
	}
}

// Snapshot returns a copy of the matched set.
func (q *queryState) Snapshot() []Entity {
	return slices.Clone(q.set.dense)
}

func (q *queryState) String() string {
	names := make([]string, len(q.types))
	for i, t := range q.types {
		names[i] = t.Name()
	}
	return q.kind.String() + "[" + strings.Join(names, ", ") + "]"
}

// Query is a live set of entities matching the filter F, kept in sync by
// Registry.Update. Declare a *Query parameter on a system to have the scheduler build it;
// queries for the same filter share one matched set.
type Query[F filter] struct {
	*queryState
}

// querySlot is implemented by *Query so the scheduler can bind query parameters.
type querySlot interface {
	bind(r *Registry) error
}

// NewQuery returns the registry's query for F. Entities already synced by a previous
// Update are matched immediately.
func NewQuery[F filter](r *Registry) (*Query[F], error) {
	q := &Query[F]{}
	if err := q.bind(r); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *Query[F]) bind(r *Registry) error {
	var f F
	state, err := r.query(f, reflect.TypeFor[F]())
	if err != nil {
		return err
	}
	q.queryState = state
	return nil
}

// Rows iterates the query's entities together with a row of component pointers.
func Rows[T any](q *Query[With[T]]) iter.Seq2[Entity, T] {
	v := q.view.(*View[T])
	return func(yield func(Entity, T) bool) {
		var row T
		for _, e := range q.set.dense {
			if !v.Fill(e, &row) {
				continue
			}
			if !yield(e, row) {
				return
			}
		}
	}
}

// Row returns the component row for one member of the query.
func Row[T any](q *Query[With[T]], e Entity) (T, bool) {
	var row T
	if !q.Contains(e) {
		return row, false
	}
	ok := q.view.(*View[T]).Fill(e, &row)
	return row, ok
}
