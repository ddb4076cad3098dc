package ecs

// ArchetypeAPI is the world.Archetypes.* namespace (spec.md §6): archetype
// lookup and query execution against the archetype manager.
type ArchetypeAPI struct{ w *World }

// EntityArchetype returns entity's current archetype.
func (a ArchetypeAPI) EntityArchetype(entity int) (*Archetype, error) {
	if !a.w.Entities.IsActive(entity) {
		return nil, EntityNotFound{Entity: entity}
	}
	return a.w.arches.entityArchetype(entity), nil
}

// IsEntityInRoot reports whether entity currently owns no components.
func (a ArchetypeAPI) IsEntityInRoot(entity int) (bool, error) {
	if !a.w.Entities.IsActive(entity) {
		return false, EntityNotFound{Entity: entity}
	}
	return a.w.arches.isEntityInRoot(entity), nil
}

// Count returns the number of distinct archetypes currently in existence
// (including the root).
func (a ArchetypeAPI) Count() int { return len(a.w.arches.ordered) }

func (a ArchetypeAPI) resolve(q *Query) (*queryInstance, error) {
	w := a.w
	inst, err := w.qm.register(q)
	if err != nil {
		return nil, err
	}
	w.arches.populateIncidence(inst)
	return inst, nil
}

// QueryEntities returns every entity id currently matching q, ascending.
func (a ArchetypeAPI) QueryEntities(q *Query) ([]int, error) {
	inst, err := a.resolve(q)
	if err != nil {
		return nil, err
	}
	return a.w.qm.entities(inst), nil
}

// QueryComponents returns q's frozen name→descriptor component map.
func (a ArchetypeAPI) QueryComponents(q *Query) (map[string]*Descriptor, error) {
	inst, err := a.resolve(q)
	if err != nil {
		return nil, err
	}
	return a.w.qm.components(inst), nil
}

// QueryEntered returns every entity that entered one of q's matching
// archetypes since the last Refresh.
func (a ArchetypeAPI) QueryEntered(q *Query) ([]int, error) {
	return a.delta(q, func(arch *Archetype) *Bitset { return arch.entered })
}

// QueryExited returns every entity that exited one of q's matching
// archetypes since the last Refresh.
func (a ArchetypeAPI) QueryExited(q *Query) ([]int, error) {
	return a.delta(q, func(arch *Archetype) *Bitset { return arch.exited })
}

func (a ArchetypeAPI) delta(q *Query, pick func(*Archetype) *Bitset) ([]int, error) {
	w := a.w
	inst, err := a.resolve(q)
	if err != nil {
		return nil, err
	}
	result := NewBitset(w.capacity)
	for arch := range inst.archetypes {
		result.Or(pick(arch))
	}
	return result.TruthyIndices(), nil
}

// Cursor locks w for the lifetime of the returned iteration and walks
// every entity currently matching q (spec.md §4.3's cursor framing,
// generalized to a whole query rather than one component — grounded on the
// teacher's cursor.go lock-on-open/unlock-on-exhaust idiom). Structural
// mutation attempted while a Cursor is open is rejected unless queued via
// the Enqueue* methods; always Close a Cursor, typically via defer.
type Cursor struct {
	world *World
	ids   []int
	pos   int
	done  bool
}

// Cursor opens a locked iteration over q's current matches. The entity set
// is captured at open time; it does not observe structural changes made
// through the Enqueue* path until the cursor is closed and the world
// unlocks.
func (a ArchetypeAPI) Cursor(q *Query) (*Cursor, error) {
	ids, err := a.QueryEntities(q)
	if err != nil {
		return nil, err
	}
	a.w.Lock()
	return &Cursor{world: a.w, ids: ids}, nil
}

// Next advances the cursor, returning false (and closing the cursor) once
// exhausted.
func (c *Cursor) Next() bool {
	if c.done {
		return false
	}
	if c.pos >= len(c.ids) {
		c.Close()
		return false
	}
	c.pos++
	return true
}

// Entity returns the entity id at the cursor's current position.
func (c *Cursor) Entity() int { return c.ids[c.pos-1] }

// Close unlocks the world, draining any operations queued during
// iteration. Safe to call more than once.
func (c *Cursor) Close() error {
	if c.done {
		return nil
	}
	c.done = true
	return c.world.Unlock()
}
