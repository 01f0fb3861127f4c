package ecs

// World is a named container for one Registry. An engine may hold several worlds and
// runs one at a time.
type World struct {
	name     string
	registry *Registry
}

// NewWorld creates a world with an empty registry. The world registers itself as a
// *World resource.
func NewWorld(name string, opts ...RegistryOption) *World {
	w := &World{
		name:     name,
		registry: NewRegistry(opts...),
	}
	AddResource(w.registry, w)
	return w
}

// Name returns the world's name.
func (w *World) Name() string {
	return w.name
}

// Registry returns the world's registry.
func (w *World) Registry() *Registry {
	return w.registry
}

// CreateEntity starts building a new entity.
func (w *World) CreateEntity() *EntityBuilder {
	return w.registry.CreateEntity()
}

// AddSystem registers fn under p in the On state.
func (w *World) AddSystem(p Pipeline, fn any) (SystemId, error) {
	return w.registry.AddSystem(p, On, fn)
}

// AddSystems registers every fn under p in the On state, stopping at the first error.
func (w *World) AddSystems(p Pipeline, fns ...any) ([]SystemId, error) {
	ids := make([]SystemId, 0, len(fns))
	for _, fn := range fns {
		id, err := w.registry.AddSystem(p, On, fn)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// AddSystemWithState registers fn under p in the given state.
func (w *World) AddSystemWithState(p Pipeline, state SystemState, fn any) (SystemId, error) {
	return w.registry.AddSystem(p, state, fn)
}

// SetSystemState switches a system on or off.
func (w *World) SetSystemState(p Pipeline, id SystemId, state SystemState) error {
	return w.registry.SetSystemState(p, id, state)
}

// RemoveSystem unregisters a system.
func (w *World) RemoveSystem(p Pipeline, id SystemId) error {
	return w.registry.RemoveSystem(p, id)
}

// Update applies pending changes to query membership.
func (w *World) Update() {
	w.registry.Update()
}

// Run runs the On systems of p.
func (w *World) Run(p Pipeline) {
	w.registry.Run(p)
}
