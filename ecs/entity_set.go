package ecs

import "github.com/kamstrup/intmap"

// entitySet is a sparse set of entities: a dense slice for iteration and an intmap from
// id to dense position. Removal swaps the last element into the hole.
type entitySet struct {
	dense []Entity
	index *intmap.Map[EntityId, int]
}

func newEntitySet(capacity int) entitySet {
	return entitySet{
		dense: make([]Entity, 0, capacity),
		index: intmap.New[EntityId, int](capacity),
	}
}

func (s *entitySet) add(e Entity) bool {
	if s.index.Has(e.id) {
		return false
	}
	s.index.Put(e.id, len(s.dense))
	s.dense = append(s.dense, e)
	return true
}

func (s *entitySet) remove(id EntityId) bool {
	pos, ok := s.index.Get(id)
	if !ok {
		return false
	}
	last := len(s.dense) - 1
	if pos != last {
		moved := s.dense[last]
		s.dense[pos] = moved
		s.index.Put(moved.id, pos)
	}
	s.dense[last] = Entity{}
	s.dense = s.dense[:last]
	s.index.Del(id)
	return true
}

// has matches the whole handle, so an entity of another registry with the same id is not
// a member.
func (s *entitySet) has(e Entity) bool {
	pos, ok := s.index.Get(e.id)
	return ok && s.dense[pos] == e
}

func (s *entitySet) len() int {
	return len(s.dense)
}
