package ecs

import (
	"iter"
	"reflect"
	"weak"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// entityRecord is the registry's per-index bookkeeping. Records are addressed by
// entity index - 1, the same logical index the component pools use.
type entityRecord struct {
	generation uint32
	alive      bool
	synced     bool
	signature  Signature
}

// Registry owns every entity, component pool, query, system and resource of one world.
//
// Component values and entity signatures change as soon as they are written. Query
// membership and entity destruction are deferred until Update, so systems can add,
// remove and kill freely while iterating a query.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	self       weak.Pointer[Registry]
	components *ComponentRegistry
	log        *zap.Logger

	entities []entityRecord
	freeIds  []uint32
	live     int
	pools    []componentPool

	pending pendingSyncs

	queries       []*queryState
	queryByFilter map[reflect.Type]*queryState

	systems      [pipelineCount][]*system
	nextSystemId SystemId
	resources    map[reflect.Type]reflect.Value
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithComponentRegistry makes the registry use a shared component id table.
func WithComponentRegistry(cr *ComponentRegistry) RegistryOption {
	return func(r *Registry) {
		r.components = cr
	}
}

// WithLogger sets the logger used for system registration and update diagnostics.
func WithLogger(log *zap.Logger) RegistryOption {
	return func(r *Registry) {
		r.log = log
	}
}

// WithInitialCapacity preallocates bookkeeping for n entities.
func WithInitialCapacity(n int) RegistryOption {
	return func(r *Registry) {
		r.entities = make([]entityRecord, 0, n)
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		pending:       newPendingSyncs(),
		queryByFilter: make(map[reflect.Type]*queryState),
		resources:     make(map[reflect.Type]reflect.Value),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.components == nil {
		r.components = NewComponentRegistry()
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	r.self = weak.Make(r)
	return r
}

// Components returns the component id table used by the registry.
func (r *Registry) Components() *ComponentRegistry {
	return r.components
}

// Logger returns the registry's logger.
func (r *Registry) Logger() *zap.Logger {
	return r.log
}

func (r *Registry) handle(id EntityId) Entity {
	return Entity{id: id, registry: r.self}
}

func (r *Registry) record(id EntityId) *entityRecord {
	index := id.Index()
	if index == 0 || int(index) > len(r.entities) {
		return nil
	}
	rec := &r.entities[index-1]
	if !rec.alive || rec.generation != id.Generation() {
		return nil
	}
	return rec
}

func (r *Registry) checkAlive(e Entity) error {
	if e.registry.Value() == nil {
		return eris.Wrapf(ErrRegistryNotSet, "entity %s", e.id)
	}
	if e.registry != r.self {
		return eris.Wrapf(ErrStaleEntity, "entity %s belongs to another registry", e.id)
	}
	if r.record(e.id) == nil {
		return eris.Wrapf(ErrStaleEntity, "entity %s", e.id)
	}
	return nil
}

// Alive reports whether e is a live entity of this registry. Entities queued for
// destruction stay alive until the next Update.
func (r *Registry) Alive(e Entity) bool {
	return e.registry == r.self && r.record(e.id) != nil
}

// Entity returns the handle for id if it names a live entity.
func (r *Registry) Entity(id EntityId) (Entity, bool) {
	if r.record(id) == nil {
		return Entity{}, false
	}
	return r.handle(id), true
}

// EntityCount returns the number of live entities, including ones queued for destruction.
func (r *Registry) EntityCount() int {
	return r.live
}

// Entities iterates live entities in index order.
func (r *Registry) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for i := range r.entities {
			rec := &r.entities[i]
			if !rec.alive {
				continue
			}
			if !yield(r.handle(NewEntityId(rec.generation, uint32(i+1)))) {
				return
			}
		}
	}
}

// Signature returns the entity's current component signature.
func (r *Registry) Signature(e Entity) (Signature, error) {
	if err := r.checkAlive(e); err != nil {
		return Signature{}, err
	}
	return r.record(e.id).signature, nil
}

// allocate reserves an id, reusing the oldest freed index first.
func (r *Registry) allocate() EntityId {
	var index uint32
	if len(r.freeIds) > 0 {
		index = r.freeIds[0]
		r.freeIds = r.freeIds[1:]
	} else {
		r.entities = append(r.entities, entityRecord{})
		index = uint32(len(r.entities))
	}

	rec := &r.entities[index-1]
	rec.alive = true
	rec.synced = false
	r.live++

	id := NewEntityId(rec.generation, index)
	r.pending.entityCreated(id)
	return id
}

// Kill queues e for destruction. Its components, signature and query membership are
// released at the next Update. Killing an entity twice before then is a no-op.
func (r *Registry) Kill(e Entity) error {
	if err := r.checkAlive(e); err != nil {
		return err
	}
	r.pending.entityKilled(e.id)
	return nil
}

// Dying reports whether e is queued for destruction.
func (r *Registry) Dying(e Entity) bool {
	return r.pending.isKilled(e.id)
}

func (r *Registry) pool(id ComponentId) componentPool {
	for int(id) >= len(r.pools) {
		r.pools = append(r.pools, nil)
	}
	if r.pools[id] == nil {
		r.pools[id] = r.components.newPool(id)
	}
	return r.pools[id]
}

func (r *Registry) poolIfExists(id ComponentId) componentPool {
	if int(id) >= len(r.pools) {
		return nil
	}
	return r.pools[id]
}

// AddComponent stores value on e, replacing any existing T component.
func AddComponent[T any](r *Registry, e Entity, value T) error {
	if err := r.checkAlive(e); err != nil {
		return err
	}
	id, err := RegisterComponent[T](r.components)
	if err != nil {
		return err
	}
	index := int(e.id.Index()) - 1
	if p, ok := r.pool(id).(*pool[T]); ok {
		p.put(index, value)
	} else {
		r.pool(id).set(index, value)
	}
	r.componentAdded(e.id, id)
	return nil
}

// AddComponentValue stores a component whose type is only known at runtime. Pointer
// values are dereferenced.
func (r *Registry) AddComponentValue(e Entity, value any) error {
	if err := r.checkAlive(e); err != nil {
		return err
	}
	t, v, err := componentOf(value)
	if err != nil {
		return err
	}
	id, err := r.components.RegisterComponentType(t)
	if err != nil {
		return err
	}
	r.pool(id).set(int(e.id.Index())-1, v)
	r.componentAdded(e.id, id)
	return nil
}

func (r *Registry) componentAdded(entity EntityId, id ComponentId) {
	r.entities[entity.Index()-1].signature.Set(int(id), true)
	r.pending.componentAdded(entity, id)
}

// GetComponent returns a pointer to e's T component. It reports false when the component
// is absent or the handle is stale.
func GetComponent[T any](r *Registry, e Entity) (*T, bool) {
	c, ok := r.Component(e, reflect.TypeFor[T]())
	if !ok {
		return nil, false
	}
	return c.(*T), true
}

// Component returns a pointer to e's component of type t.
func (r *Registry) Component(e Entity, t reflect.Type) (any, bool) {
	if e.registry != r.self || r.record(e.id) == nil {
		return nil, false
	}
	id, ok := r.components.Id(t)
	if !ok {
		return nil, false
	}
	p := r.poolIfExists(id)
	if p == nil {
		return nil, false
	}
	c := p.get(int(e.id.Index()) - 1)
	return c, c != nil
}

// RemoveComponent removes e's T component. Removing a component the entity does not
// have is a no-op.
func RemoveComponent[T any](r *Registry, e Entity) error {
	return r.RemoveComponentType(e, reflect.TypeFor[T]())
}

// RemoveComponentType removes e's component of type t.
func (r *Registry) RemoveComponentType(e Entity, t reflect.Type) error {
	if err := r.checkAlive(e); err != nil {
		return err
	}
	id, ok := r.components.Id(t)
	if !ok {
		return nil
	}
	rec := r.record(e.id)
	if !rec.signature.Test(int(id)) {
		return nil
	}
	rec.signature.ClearBit(int(id))
	r.pool(id).clear(int(e.id.Index()) - 1)
	r.pending.componentRemoved(e.id, id)
	return nil
}

// HasComponent reports whether e has a T component. It only consults the signature.
func HasComponent[T any](r *Registry, e Entity) bool {
	return r.HasComponentType(e, reflect.TypeFor[T]())
}

// HasComponentType reports whether e has a component of type t.
func (r *Registry) HasComponentType(e Entity, t reflect.Type) bool {
	if e.registry != r.self {
		return false
	}
	rec := r.record(e.id)
	if rec == nil {
		return false
	}
	id, ok := r.components.Id(t)
	return ok && rec.signature.Test(int(id))
}

// Update applies every pending change to query membership, in this order: component
// additions, component removals, entity creations, then entity destructions. Destroyed
// entities lose their components and signature before their index is recycled.
func (r *Registry) Update() {
	if r.pending.len() == 0 {
		return
	}
	added, removed := len(r.pending.added), len(r.pending.removed)
	created, killed := len(r.pending.created), len(r.pending.killed)

	for _, s := range r.pending.added {
		if rec := r.record(s.entity); rec != nil {
			r.syncAdded(r.handle(s.entity), rec.signature)
		}
	}
	for _, s := range r.pending.removed {
		if rec := r.record(s.entity); rec != nil {
			r.syncRemoved(r.handle(s.entity), rec.signature, s.component)
		}
	}
	for _, id := range r.pending.created {
		if rec := r.record(id); rec != nil {
			r.syncAdded(r.handle(id), rec.signature)
			rec.synced = true
		}
	}
	for _, id := range r.pending.killed {
		r.destroy(id)
	}
	r.pending.reset()

	r.log.Debug("registry update",
		zap.Int("added", added),
		zap.Int("removed", removed),
		zap.Int("created", created),
		zap.Int("killed", killed),
		zap.Int("entities", r.live),
	)
}

// syncAdded re-tests an entity against every query.
func (r *Registry) syncAdded(e Entity, sig Signature) {
	for _, q := range r.queries {
		if q.Matches(sig) {
			q.set.add(e)
		} else {
			q.set.remove(e.id)
		}
	}
}

// syncRemoved re-tests an entity against the queries that mention the removed type.
func (r *Registry) syncRemoved(e Entity, sig Signature, removed ComponentId) {
	for _, q := range r.queries {
		if !q.components.Test(int(removed)) {
			continue
		}
		if q.Matches(sig) {
			q.set.add(e)
		} else {
			q.set.remove(e.id)
		}
	}
}

func (r *Registry) destroy(id EntityId) {
	rec := r.record(id)
	if rec == nil {
		return
	}
	for _, q := range r.queries {
		q.set.remove(id)
	}
	index := int(id.Index()) - 1
	rec.signature.ForEachSet(func(c int) {
		if p := r.poolIfExists(ComponentId(c)); p != nil {
			p.clear(index)
		}
	})
	rec.signature.Clear()
	rec.alive = false
	rec.synced = false
	rec.generation++
	r.live--
	r.freeIds = append(r.freeIds, id.Index())
}
