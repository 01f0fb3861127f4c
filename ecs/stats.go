package ecs

import "reflect"

// RegistryStats is a snapshot of a registry's storage and query state.
type RegistryStats struct {
	EntityCount    int
	Capacity       int
	FreeIds        int
	PendingAdded   int
	PendingRemoved int
	PendingCreated int
	PendingKilled  int
	ComponentTypes int
	Pools          []PoolStats
	Queries        []QueryStats
	Resources      []string
	SystemsByPhase map[Pipeline]int
}

// PoolStats describes one component pool.
type PoolStats struct {
	Id       ComponentId
	Type     reflect.Type
	Count    int
	Capacity int
}

// QueryStats describes one registered query.
type QueryStats struct {
	Name       string
	Kind       QueryKind
	Components []reflect.Type
	Matched    int
}

// Stats collects a RegistryStats snapshot.
func (r *Registry) Stats() RegistryStats {
	stats := RegistryStats{
		EntityCount:    r.live,
		Capacity:       len(r.entities),
		FreeIds:        len(r.freeIds),
		PendingAdded:   len(r.pending.added),
		PendingRemoved: len(r.pending.removed),
		PendingCreated: len(r.pending.created),
		PendingKilled:  len(r.pending.killed),
		ComponentTypes: r.components.Len(),
		Resources:      r.Resources(),
		SystemsByPhase: make(map[Pipeline]int, pipelineCount),
	}

	for i, p := range r.pools {
		if p == nil {
			continue
		}
		stats.Pools = append(stats.Pools, PoolStats{
			Id:       ComponentId(i),
			Type:     r.components.Type(ComponentId(i)),
			Count:    p.count(),
			Capacity: p.len(),
		})
	}

	for _, q := range r.queries {
		stats.Queries = append(stats.Queries, QueryStats{
			Name:       q.String(),
			Kind:       q.kind,
			Components: q.Components(),
			Matched:    q.Len(),
		})
	}

	for _, p := range Pipelines() {
		stats.SystemsByPhase[p] = len(r.systems[p])
	}
	return stats
}

// ComponentsOf returns pointers to every component of e, ordered by component id.
func (r *Registry) ComponentsOf(e Entity) []any {
	rec := r.record(e.id)
	if e.registry != r.self || rec == nil {
		return nil
	}
	var out []any
	index := int(e.id.Index()) - 1
	rec.signature.ForEachSet(func(c int) {
		if p := r.poolIfExists(ComponentId(c)); p != nil {
			if v := p.get(index); v != nil {
				out = append(out, v)
			}
		}
	})
	return out
}
