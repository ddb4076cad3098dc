package ecs

// Archetype groups every entity that currently owns the exact same set of
// components (spec.md §3). Two archetypes never share a bitfield
// (Invariant A3); entered/exited record the net membership delta since the
// last refresh (Invariant A2 holds immediately after refresh).
type Archetype struct {
	bitfield   *Bitset
	id         string
	components []*Descriptor
	entities   *Bitset
	entered    *Bitset
	exited     *Bitset

	// candidateCache memoizes isMatch(bitfield, query) per query instance,
	// spec.md §4.4 is_candidate.
	candidateCache map[*queryInstance]bool
}

// ID returns the archetype's canonical bitfield id.
func (a *Archetype) ID() string { return a.id }

// Components returns the archetype's component list. This is the fast
// path of get_entity_components (spec.md §4.3): a direct reference, no
// allocation, to be used whenever an entity's archetype is already known.
func (a *Archetype) Components() []*Descriptor { return a.components }

// Len reports how many entities currently belong to this archetype.
func (a *Archetype) Len() int { return a.entities.Popcount() }

func newArchetype(bitfield *Bitset, components []*Descriptor, entityCapacity int) *Archetype {
	return &Archetype{
		bitfield:       bitfield,
		id:             bitfield.stringify(),
		components:     components,
		entities:       NewBitset(entityCapacity),
		entered:        NewBitset(entityCapacity),
		exited:         NewBitset(entityCapacity),
		candidateCache: make(map[*queryInstance]bool),
	}
}

// refresh clears this archetype's entered/exited deltas. Per spec.md §9,
// this runs unconditionally for every archetype the manager iterates in
// archetypeManager.refresh, whether or not any query actually matched it.
func (a *Archetype) refresh() {
	a.entered.Clear()
	a.exited.Clear()
}

// archetypeManager maintains the set of archetypes, the per-entity
// archetype map, and per-query archetype incidence (spec.md §4.4).
type archetypeManager struct {
	componentCount int
	capacity       int
	root           *Archetype
	byID           map[string]*Archetype
	ordered        []*Archetype // insertion order, for deterministic refresh iteration
	entityArch     []*Archetype // length capacity, entityArch[e] is e's current archetype

	// queryArchetypes records which archetypes currently satisfy which
	// query instance, rebuilt from scratch on every refresh.
	queryArchetypes map[*queryInstance]map[*Archetype]bool
}

func newArchetypeManager(componentCount int) *archetypeManager {
	root := newArchetype(NewBitset(componentCount), nil, 0)
	return &archetypeManager{
		componentCount:  componentCount,
		root:            root,
		byID:            map[string]*Archetype{root.id: root},
		ordered:         []*Archetype{root},
		queryArchetypes: make(map[*queryInstance]map[*Archetype]bool),
	}
}

// init seats every entity slot in the root archetype. Two-phase
// construction mirrors spec.md §4.4: capacity may not be known when the
// manager itself is built.
func (m *archetypeManager) init(capacity int) {
	m.capacity = capacity
	for _, a := range m.ordered {
		resized := NewBitset(capacity)
		a.entities = resized.Clone()
		a.entered = NewBitset(capacity)
		a.exited = NewBitset(capacity)
	}
	m.entityArch = make([]*Archetype, capacity)
	for e := 0; e < capacity; e++ {
		m.entityArch[e] = m.root
		m.root.entities.Set(e, true)
	}
}

// entityArchetype returns the archetype entity currently belongs to.
func (m *archetypeManager) entityArchetype(entity int) *Archetype {
	return m.entityArch[entity]
}

// isEntityInRoot reports whether entity currently owns no components.
func (m *archetypeManager) isEntityInRoot(entity int) bool {
	return m.entityArch[entity] == m.root
}

// update recomputes entity's archetype from its current component
// instances and moves it there, recording the enter/exit delta. The mask
// is built straight from each instance's registry-assigned dense id
// (spec.md §4.4 step 1), so ordering of instances never affects identity.
func (m *archetypeManager) update(entity int, instances []*componentInstance) (*Archetype, error) {
	if entity < 0 || entity >= m.capacity {
		return nil, EntityNotFound{Entity: entity}
	}
	mask := NewBitset(m.componentCount)
	descriptors := make([]*Descriptor, len(instances))
	for i, inst := range instances {
		mask.Set(inst.id, true)
		descriptors[i] = inst.descriptor
	}

	current := m.entityArch[entity]
	if current != nil && current.bitfield.stringify() == mask.stringify() {
		return current, nil
	}

	id := mask.stringify()
	dest, ok := m.byID[id]
	if !ok {
		dest = newArchetype(mask.Clone(), descriptors, m.capacity)
		m.byID[id] = dest
		m.ordered = append(m.ordered, dest)
	}

	if current != nil {
		current.exited.Set(entity, true)
		current.entities.Set(entity, false)
	}
	dest.entered.Set(entity, true)
	dest.entities.Set(entity, true)
	m.entityArch[entity] = dest
	return dest, nil
}

// reset forcibly moves entity to the root archetype (used by destroyEntity).
func (m *archetypeManager) reset(entity int) {
	current := m.entityArch[entity]
	if current == m.root {
		return
	}
	if current != nil {
		current.exited.Set(entity, true)
		current.entities.Set(entity, false)
	}
	m.root.entered.Set(entity, true)
	m.root.entities.Set(entity, true)
	m.entityArch[entity] = m.root
}

// isCandidate memoizes candidacy of archetype against query on the
// archetype's own cache (spec.md §4.4 is_candidate).
func (m *archetypeManager) isCandidate(a *Archetype, q *queryInstance) bool {
	if v, ok := a.candidateCache[q]; ok {
		return v
	}
	v := isMatch(a.bitfield, q)
	a.candidateCache[q] = v
	return v
}

// populateIncidence adds every existing archetype currently matching q to
// q's incidence set, without touching any archetype's entered/exited delta.
// Idempotent and additive: called once when a query is first registered and
// again on every subsequent lookup, so archetypes created after
// registration are picked up without waiting for the next World.Refresh.
func (m *archetypeManager) populateIncidence(q *queryInstance) {
	set := m.queryArchetypes[q]
	if set == nil {
		set = make(map[*Archetype]bool)
		m.queryArchetypes[q] = set
	}
	for _, a := range m.ordered {
		if m.isCandidate(a, q) && !a.entities.IsEmpty() {
			set[a] = true
			q.archetypes[a] = true
		}
	}
}

// refresh rebuilds query-archetype incidence from scratch for the given
// snapshot of query instances, then clears every archetype's entered/
// exited bitsets unconditionally — including archetypes no query ever
// matches, per spec.md §9's documented quirk.
func (m *archetypeManager) refresh(queries []*queryInstance) {
	fresh := make(map[*queryInstance]map[*Archetype]bool, len(queries))
	for _, q := range queries {
		fresh[q] = make(map[*Archetype]bool)
	}

	for _, a := range m.ordered {
		for _, q := range queries {
			if m.isCandidate(a, q) && !a.entities.IsEmpty() {
				fresh[q][a] = true
				q.archetypes[a] = true
			}
		}
		a.refresh()
	}
	m.queryArchetypes = fresh
}

// destroy drops every archetype and resets the manager's maps.
func (m *archetypeManager) destroy() {
	m.byID = map[string]*Archetype{}
	m.ordered = nil
	m.queryArchetypes = map[*queryInstance]map[*Archetype]bool{}
	m.entityArch = nil
}
