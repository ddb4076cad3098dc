package ecs

import "reflect"

// componentInstance is the world-local binding of a Descriptor (spec.md
// §3's "Component instance"): a dense id in [0, componentCount), and
// either a storage partition (non-tag components) or none (tags). Frozen
// after the registry is constructed.
type componentInstance struct {
	id         int
	descriptor *Descriptor
	partition  *partition // nil for tags
	owners     *Bitset
	changed    *Bitset
}

// registry is the component registry (spec.md §4.3): it owns every
// component's storage partition, its per-entity ownership bitset, and its
// per-entity changed bitset, for the lifetime of the World.
type registry struct {
	capacity    int
	instances   []*componentInstance
	byDescriptor map[*Descriptor]*componentInstance
	byName      map[string]*componentInstance
}

func newRegistry(capacity int, descriptors []*Descriptor) *registry {
	r := &registry{
		capacity:     capacity,
		instances:    make([]*componentInstance, len(descriptors)),
		byDescriptor: make(map[*Descriptor]*componentInstance, len(descriptors)),
		byName:       make(map[string]*componentInstance, len(descriptors)),
	}
	for i, d := range descriptors {
		inst := &componentInstance{
			id:         i,
			descriptor: d,
			owners:     NewBitset(capacity),
			changed:    NewBitset(capacity),
		}
		if !d.IsTag() {
			inst.partition = newPartition(capacity, d.schema)
		}
		r.instances[i] = inst
		r.byDescriptor[d] = inst
		r.byName[d.name] = inst
	}
	return r
}

// count returns the number of registered components.
func (r *registry) count() int { return len(r.instances) }

// instanceFor resolves a Descriptor to its world-local instance, or nil if
// the descriptor was never registered on this World.
func (r *registry) instanceFor(d *Descriptor) *componentInstance {
	return r.byDescriptor[d]
}

func (r *registry) mustInstance(d *Descriptor) (*componentInstance, error) {
	inst := r.instanceFor(d)
	if inst == nil {
		return nil, NotRegistered{Component: d.name}
	}
	return inst, nil
}

// addToEntity sets the ownership and changed bits for component on entity,
// optionally copying field values from data (a value of the component's
// declared type) into storage, and returns the entity's current component
// list computed directly from owner bits.
func (r *registry) addToEntity(d *Descriptor, entity int, data any) ([]*Descriptor, error) {
	inst, err := r.mustInstance(d)
	if err != nil {
		return nil, err
	}
	inst.owners.Set(entity, true)
	inst.changed.Set(entity, true)
	if data != nil && inst.partition != nil {
		writeFields(inst.partition, entity, data)
	}
	return r.getEntityComponentsSlow(entity), nil
}

// removeFromEntity clears the ownership and changed bits for component on
// entity. Storage is not zeroed — it is reclaimed on the next write, per
// spec.md §4.3.
func (r *registry) removeFromEntity(d *Descriptor, entity int) ([]*Descriptor, error) {
	inst, err := r.mustInstance(d)
	if err != nil {
		return nil, err
	}
	inst.owners.Set(entity, false)
	inst.changed.Set(entity, false)
	return r.getEntityComponentsSlow(entity), nil
}

// entityHas reports whether entity currently owns component.
func (r *registry) entityHas(d *Descriptor, entity int) bool {
	inst := r.instanceFor(d)
	if inst == nil {
		return false
	}
	return inst.owners.Get(entity)
}

// getChanged enumerates entities whose changed bit is set for component.
func (r *registry) getChanged(d *Descriptor) []int {
	inst := r.instanceFor(d)
	if inst == nil {
		return nil
	}
	return inst.changed.TruthyIndices()
}

// getOwners enumerates entities that currently own component.
func (r *registry) getOwners(d *Descriptor) []int {
	inst := r.instanceFor(d)
	if inst == nil {
		return nil
	}
	return inst.owners.TruthyIndices()
}

// getEntityComponentsSlow is the O(componentCount) fallback path of
// get_entity_components: scan every component's owner bit for entity. The
// fast path (archetype.components, no allocation of a fresh list beyond
// the slice itself) lives on World / archetypeManager, which has the
// entity's archetype on hand already.
func (r *registry) getEntityComponentsSlow(entity int) []*Descriptor {
	out := make([]*Descriptor, 0, len(r.instances))
	for _, inst := range r.instances {
		if inst.owners.Get(entity) {
			out = append(out, inst.descriptor)
		}
	}
	return out
}

// getEntityInstancesSlow is getEntityComponentsSlow's sibling returning
// world-local instances rather than descriptors, for archetypeManager.update
// which needs each component's dense id.
func (r *registry) getEntityInstancesSlow(entity int) []*componentInstance {
	out := make([]*componentInstance, 0, len(r.instances))
	for _, inst := range r.instances {
		if inst.owners.Get(entity) {
			out = append(out, inst)
		}
	}
	return out
}

// clearEntity clears ownership and changed bits for every component on
// entity, used by World.destroyEntity.
func (r *registry) clearEntity(entity int) {
	for _, inst := range r.instances {
		inst.owners.Set(entity, false)
		inst.changed.Set(entity, false)
	}
}

// refresh clears every component's changed bitset.
func (r *registry) refresh() {
	for _, inst := range r.instances {
		inst.changed.Clear()
	}
}

// markChanged sets the changed bit for entity on the component identified
// by descriptor, used by Field[T].Set after a value-changing write.
func (r *registry) markChanged(d *Descriptor, entity int) {
	if inst := r.instanceFor(d); inst != nil {
		inst.changed.Set(entity, true)
	}
}

// writeFields copies numeric fields from data (a value of the component's
// declared struct type) into the partition's typed-array regions,
// mirroring the teacher's reflect-based AddComponentWithValue.
func writeFields(p *partition, entity int, data any) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		idx, ok := p.byName[sf.Name]
		if !ok {
			continue
		}
		fv := v.Field(i)
		writeOneField(p, idx, entity, fv)
	}
}

func writeOneField(p *partition, fieldIdx, entity int, v reflect.Value) {
	name := p.fields[fieldIdx].name
	switch p.fields[fieldIdx].typ {
	case I8:
		fieldView[int8](p, name)[entity] = int8(v.Int())
	case U8:
		fieldView[uint8](p, name)[entity] = uint8(v.Uint())
	case I16:
		fieldView[int16](p, name)[entity] = int16(v.Int())
	case U16:
		fieldView[uint16](p, name)[entity] = uint16(v.Uint())
	case I32:
		fieldView[int32](p, name)[entity] = int32(v.Int())
	case U32:
		fieldView[uint32](p, name)[entity] = uint32(v.Uint())
	case F32:
		fieldView[float32](p, name)[entity] = float32(v.Float())
	case F64:
		fieldView[float64](p, name)[entity] = v.Float()
	}
}
