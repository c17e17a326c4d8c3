package world

import "anthill.ai/internal/sim/model"

type AntID uint64

// Roster is an ordered set of ants with constant-time membership checks.
// Iteration follows insertion order.
type Roster struct {
	next  AntID
	ids   []AntID
	ants  []model.Ant
	index map[AntID]int
}

func NewRoster() *Roster {
	return &Roster{index: map[AntID]int{}}
}

func (r *Roster) Add(a model.Ant) AntID {
	r.next++
	id := r.next
	r.index[id] = len(r.ids)
	r.ids = append(r.ids, id)
	r.ants = append(r.ants, a)
	return id
}

func (r *Roster) Contains(id AntID) bool {
	_, ok := r.index[id]
	return ok
}

func (r *Roster) Get(id AntID) (model.Ant, bool) {
	i, ok := r.index[id]
	if !ok {
		return model.Ant{}, false
	}
	return r.ants[i], true
}

// Set replaces the state of a member; it reports false for unknown ids.
func (r *Roster) Set(id AntID, a model.Ant) bool {
	i, ok := r.index[id]
	if !ok {
		return false
	}
	r.ants[i] = a
	return true
}

// Remove drops id and keeps the order of the remaining ants.
func (r *Roster) Remove(id AntID) bool {
	i, ok := r.index[id]
	if !ok {
		return false
	}
	delete(r.index, id)
	r.ids = append(r.ids[:i], r.ids[i+1:]...)
	r.ants = append(r.ants[:i], r.ants[i+1:]...)
	for j := i; j < len(r.ids); j++ {
		r.index[r.ids[j]] = j
	}
	return true
}

func (r *Roster) Len() int { return len(r.ids) }

// Ants returns a copy of the members in roster order.
func (r *Roster) Ants() []model.Ant {
	out := make([]model.Ant, len(r.ants))
	copy(out, r.ants)
	return out
}

func (r *Roster) Each(fn func(id AntID, a model.Ant) bool) {
	for i, id := range r.ids {
		if !fn(id, r.ants[i]) {
			return
		}
	}
}
