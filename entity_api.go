package ecs

// EntityAPI is the world.Entities.* namespace (spec.md §6): entity
// lifecycle (create/destroy/occupancy) plus the supplemented parent/child
// relationship and destroy-callback features (SPEC_FULL.md "Supplemented
// features").
type EntityAPI struct{ w *World }

// Create acquires a fresh entity id and seats it in the root archetype.
// The second return is false iff the world has no free capacity (spec.md
// §8 scenario 6, capacity exhaustion — not an error, a normal outcome the
// caller must check).
func (a EntityAPI) Create() (int, bool, error) {
	w := a.w
	if err := w.checkUsable("create entity"); err != nil {
		return 0, false, err
	}
	if w.Locked() {
		return 0, false, LockedWorldError{}
	}
	id, ok := w.ids.Acquire()
	if !ok {
		return 0, false, nil
	}
	w.meta[id] = entityMeta{}
	w.arches.reset(id)
	return id, true, nil
}

// EnqueueCreate defers entity creation until the world next unlocks. The
// freshly created id cannot be observed by the caller directly — it exists
// to let bulk producers push work through the same queue other structural
// mutations use, not to hand back a usable id synchronously.
func (a EntityAPI) EnqueueCreate() {
	a.w.queue.enqueue(func(w *World) error {
		_, _, err := w.Entities.Create()
		return err
	})
}

// Destroy releases entity's id, clears its component ownership, moves it
// back to the root archetype, runs its destroy callback (if any), and
// recursively destroys any entity still parented to it.
func (a EntityAPI) Destroy(entity int) error {
	w := a.w
	if err := w.checkUsable("destroy entity"); err != nil {
		return err
	}
	if w.Locked() {
		return LockedWorldError{}
	}
	if err := a.destroy(entity); err != nil {
		return err
	}
	w.invalidateQueries()
	return nil
}

func (a EntityAPI) destroy(entity int) error {
	w := a.w
	if !w.ids.Occupied(entity) {
		return EntityNotFound{Entity: entity}
	}
	for child := 0; child < w.capacity; child++ {
		if w.meta[child].hasParent && w.meta[child].parent == entity {
			if err := a.destroy(child); err != nil {
				return err
			}
		}
	}
	if cb := w.meta[entity].onDestroy; cb != nil {
		cb(w, entity)
	}
	w.reg.clearEntity(entity)
	w.arches.reset(entity)
	w.meta[entity] = entityMeta{}
	w.ids.Release(entity)
	return nil
}

// EnqueueDestroy defers Destroy until the world next unlocks.
func (a EntityAPI) EnqueueDestroy(entity int) {
	a.w.queue.enqueue(func(w *World) error {
		return w.Entities.Destroy(entity)
	})
}

// IsEntity reports whether entity is a syntactically valid id for this
// world (in range), regardless of whether it is currently occupied.
func (a EntityAPI) IsEntity(entity int) bool {
	return entity >= 0 && entity < a.w.capacity
}

// IsActive reports whether entity currently holds an acquired id.
func (a EntityAPI) IsActive(entity int) bool {
	return a.IsEntity(entity) && a.w.ids.Occupied(entity)
}

// GetActive enumerates every currently occupied entity id, ascending.
func (a EntityAPI) GetActive() []int {
	out := make([]int, 0, a.w.ids.OccupiedCount())
	for e := 0; e < a.w.capacity; e++ {
		if a.w.ids.Occupied(e) {
			out = append(out, e)
		}
	}
	return out
}

// GetActiveCount returns the number of currently occupied entity ids.
func (a EntityAPI) GetActiveCount() int { return a.w.ids.OccupiedCount() }

// GetAvailableCount returns the number of entity ids still free to Create.
func (a EntityAPI) GetAvailableCount() int { return a.w.ids.AvailableCount() }

// SetParent records that child is destroyed whenever parent is. A child
// may have at most one parent; attempting a second is EntityRelationError.
func (a EntityAPI) SetParent(child, parent int) error {
	w := a.w
	if !a.IsActive(child) {
		return EntityNotFound{Entity: child}
	}
	if !a.IsActive(parent) {
		return EntityNotFound{Entity: parent}
	}
	if w.meta[child].hasParent {
		return EntityRelationError{Child: child, Parent: parent}
	}
	w.meta[child].hasParent = true
	w.meta[child].parent = parent
	return nil
}

// Parent returns child's parent id, if any.
func (a EntityAPI) Parent(child int) (int, bool) {
	m := a.w.meta[child]
	return m.parent, m.hasParent
}

// OnDestroy installs cb to run once, synchronously, when entity is
// destroyed. Installing a second callback replaces the first.
func (a EntityAPI) OnDestroy(entity int, cb EntityDestroyCallback) error {
	if !a.IsActive(entity) {
		return EntityNotFound{Entity: entity}
	}
	a.w.meta[entity].onDestroy = cb
	return nil
}

// Components returns entity's current component list via its archetype —
// the fast path of get_entity_components (spec.md §4.3).
func (a EntityAPI) Components(entity int) ([]*Descriptor, error) {
	w := a.w
	if !a.IsActive(entity) {
		return nil, EntityNotFound{Entity: entity}
	}
	return w.arches.entityArchetype(entity).Components(), nil
}

// ComponentsAsString is Components rendered as names, for logging and
// debugging (SPEC_FULL.md supplemented feature).
func (a EntityAPI) ComponentsAsString(entity int) ([]string, error) {
	descs, err := a.Components(entity)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(descs))
	for i, d := range descs {
		out[i] = d.Name()
	}
	return out, nil
}
