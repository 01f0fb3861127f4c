package ecs

import "github.com/kamstrup/intmap"

// componentSync records a component change whose effect on query membership has not been
// applied yet.
type componentSync struct {
	entity    EntityId
	component ComponentId
}

// pendingSyncs buffers the structural changes made between two Registry.Update calls.
// Component data and signatures change immediately; only query membership and entity
// destruction wait for the drain.
type pendingSyncs struct {
	added   []componentSync
	removed []componentSync
	created []EntityId
	killed  []EntityId
	killSet *intmap.Map[EntityId, struct{}]
}

func newPendingSyncs() pendingSyncs {
	return pendingSyncs{
		killSet: intmap.New[EntityId, struct{}](64),
	}
}

func (p *pendingSyncs) componentAdded(entity EntityId, component ComponentId) {
	p.added = append(p.added, componentSync{entity: entity, component: component})
}

func (p *pendingSyncs) componentRemoved(entity EntityId, component ComponentId) {
	p.removed = append(p.removed, componentSync{entity: entity, component: component})
}

func (p *pendingSyncs) entityCreated(entity EntityId) {
	p.created = append(p.created, entity)
}

// entityKilled queues entity for destruction and reports whether it was newly queued.
func (p *pendingSyncs) entityKilled(entity EntityId) bool {
	if _, added := p.killSet.PutIfNotExists(entity, struct{}{}); !added {
		return false
	}
	p.killed = append(p.killed, entity)
	return true
}

func (p *pendingSyncs) isKilled(entity EntityId) bool {
	return p.killSet.Has(entity)
}

func (p *pendingSyncs) len() int {
	return len(p.added) + len(p.removed) + len(p.created) + len(p.killed)
}

// reset empties every buffer, keeping the backing arrays.
func (p *pendingSyncs) reset() {
	p.added = p.added[:0]
	p.removed = p.removed[:0]
	p.created = p.created[:0]
	p.killed = p.killed[:0]
	p.killSet.Clear()
}
