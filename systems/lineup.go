package systems

import (
	"fmt"
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/resemblance/components"
)

// Candidate is one lineup member as handed to the presentation layer.
type Candidate struct {
	ID   uint32
	Slot int
	Body components.Body
}

// Lineup stores the candidates offered for the current generation.
// Each candidate is an entity holding its Body and Member components;
// IDs are never reused, so a stale ID from an earlier lineup is rejected.
type Lineup struct {
	world  *ecs.World
	mapper *ecs.Map2[components.Body, components.Member]
	filter *ecs.Filter2[components.Body, components.Member]

	byID   map[uint32]ecs.Entity
	nextID uint32
}

// NewLineup creates an empty lineup with its own ECS world.
func NewLineup() *Lineup {
	world := ecs.NewWorld()
	return &Lineup{
		world:  world,
		mapper: ecs.NewMap2[components.Body, components.Member](world),
		filter: ecs.NewFilter2[components.Body, components.Member](world),
		byID:   make(map[uint32]ecs.Entity),
		nextID: 1,
	}
}

// Add appends a candidate and returns its ID.
func (l *Lineup) Add(body components.Body, generation int) uint32 {
	id := l.nextID
	l.nextID++

	member := components.Member{ID: id, Slot: len(l.byID), Generation: generation}
	entity := l.mapper.NewEntity(&body, &member)
	l.byID[id] = entity
	return id
}

// Build clears the lineup and fills it with n children of parent.
func (l *Lineup) Build(gen *Generator, parent components.Body, n, generation int) error {
	l.Clear()
	for i := 0; i < n; i++ {
		child, err := gen.FromParent(parent)
		if err != nil {
			l.Clear()
			return fmt.Errorf("building lineup member %d: %w", i, err)
		}
		l.Add(child, generation)
	}
	return nil
}

// Get returns a copy of the candidate's body.
func (l *Lineup) Get(id uint32) (components.Body, bool) {
	entity, ok := l.byID[id]
	if !ok || !l.world.Alive(entity) {
		return components.Body{}, false
	}
	body, _ := l.mapper.Get(entity)
	return body.Clone(), true
}

// Contains reports whether id is in the current lineup.
func (l *Lineup) Contains(id uint32) bool {
	_, ok := l.byID[id]
	return ok
}

// Len returns the number of candidates.
func (l *Lineup) Len() int {
	return len(l.byID)
}

// Candidates returns copies of all candidates ordered by slot.
func (l *Lineup) Candidates() []Candidate {
	out := make([]Candidate, 0, len(l.byID))

	query := l.filter.Query()
	for query.Next() {
		body, member := query.Get()
		out = append(out, Candidate{ID: member.ID, Slot: member.Slot, Body: body.Clone()})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// Clear removes every candidate.
func (l *Lineup) Clear() {
	for id, entity := range l.byID {
		if l.world.Alive(entity) {
			l.world.RemoveEntity(entity)
		}
		delete(l.byID, id)
	}
}
