package ecs

import "reflect"

// ComponentAPI is the world.Components.* namespace (spec.md §6): attach/
// detach, ownership and change queries, and whole-value read/write for a
// component already on an entity.
type ComponentAPI struct{ w *World }

// AddToEntity attaches component to entity, optionally seeding its fields
// from data (a value of the component's declared struct type), and moves
// entity to its new archetype. With nil data the stored field values are
// left as they are: zero for a slot never written, otherwise whatever was
// last stored there, since removal and destruction do not zero storage.
func (c ComponentAPI) AddToEntity(d *Descriptor, entity int, data any) error {
	w := c.w
	if err := w.checkUsable("add component"); err != nil {
		return err
	}
	if w.Locked() {
		return LockedWorldError{}
	}
	return c.addToEntity(d, entity, data)
}

func (c ComponentAPI) addToEntity(d *Descriptor, entity int, data any) error {
	w := c.w
	if !w.Entities.IsActive(entity) {
		return EntityNotFound{Entity: entity}
	}
	if _, err := w.reg.addToEntity(d, entity, data); err != nil {
		return err
	}
	if _, err := w.arches.update(entity, w.reg.getEntityInstancesSlow(entity)); err != nil {
		return err
	}
	w.invalidateQueries()
	return nil
}

// EnqueueAddToEntity defers AddToEntity until the world next unlocks.
func (c ComponentAPI) EnqueueAddToEntity(d *Descriptor, entity int, data any) {
	c.w.queue.enqueue(func(w *World) error {
		return w.Components.AddToEntity(d, entity, data)
	})
}

// RemoveFromEntity detaches component from entity and moves it to its new
// archetype.
func (c ComponentAPI) RemoveFromEntity(d *Descriptor, entity int) error {
	w := c.w
	if err := w.checkUsable("remove component"); err != nil {
		return err
	}
	if w.Locked() {
		return LockedWorldError{}
	}
	if !w.Entities.IsActive(entity) {
		return EntityNotFound{Entity: entity}
	}
	if _, err := w.reg.removeFromEntity(d, entity); err != nil {
		return err
	}
	if _, err := w.arches.update(entity, w.reg.getEntityInstancesSlow(entity)); err != nil {
		return err
	}
	w.invalidateQueries()
	return nil
}

// EnqueueRemoveFromEntity defers RemoveFromEntity until the world next
// unlocks.
func (c ComponentAPI) EnqueueRemoveFromEntity(d *Descriptor, entity int) {
	c.w.queue.enqueue(func(w *World) error {
		return w.Components.RemoveFromEntity(d, entity)
	})
}

// EntityHas reports whether entity currently owns component.
func (c ComponentAPI) EntityHas(d *Descriptor, entity int) bool {
	return c.w.reg.entityHas(d, entity)
}

// GetInstance resolves a registered component by name.
func (c ComponentAPI) GetInstance(name string) (*Descriptor, bool) {
	inst, ok := c.w.reg.byName[name]
	if !ok {
		return nil, false
	}
	return inst.descriptor, true
}

// GetInstances returns every component descriptor this world was
// constructed with, in registration order.
func (c ComponentAPI) GetInstances() []*Descriptor {
	out := make([]*Descriptor, len(c.w.reg.instances))
	for i, inst := range c.w.reg.instances {
		out[i] = inst.descriptor
	}
	return out
}

// GetChanged enumerates entities whose component value changed since the
// last Refresh (spec.md §4.3 change tracking).
func (c ComponentAPI) GetChanged(d *Descriptor) []int { return c.w.reg.getChanged(d) }

// GetOwners enumerates entities that currently own component.
func (c ComponentAPI) GetOwners(d *Descriptor) []int { return c.w.reg.getOwners(d) }

// Registry returns every registered component descriptor (alias of
// GetInstances, named to match spec.md §6's `registry` accessor).
func (c ComponentAPI) Registry() []*Descriptor { return c.GetInstances() }

// Count returns the number of registered components.
func (c ComponentAPI) Count() int { return c.w.reg.count() }

// Query validates and constructs a Query (spec.md §4.5). It neither
// registers the query nor checks its descriptors against this world's
// registry; pass the result to ArchetypeAPI.QueryEntities et al.
func (c ComponentAPI) Query(all, any, none []*Descriptor) (*Query, error) {
	return NewQuery(all, any, none)
}

// GetEntityData reconstructs component's declared struct value for entity
// by reading every schema field out of storage. Returns ComponentNotFound
// if entity does not currently own component.
func (c ComponentAPI) GetEntityData(d *Descriptor, entity int) (any, error) {
	w := c.w
	if !w.reg.entityHas(d, entity) {
		return nil, ComponentNotFound{Component: d.Name()}
	}
	inst := w.reg.instanceFor(d)
	if inst == nil || inst.partition == nil {
		return reflect.New(d.kind).Elem().Interface(), nil
	}
	out := reflect.New(d.kind).Elem()
	for _, fl := range inst.partition.fields {
		readOneField(inst.partition, fl.name, entity, out.FieldByName(fl.name))
	}
	return out.Interface(), nil
}

// SetEntityData overwrites component's field values for entity from data
// (a value of the component's declared struct type), change-tracking each
// field individually exactly as Field[T].Set does.
func (c ComponentAPI) SetEntityData(d *Descriptor, entity int, data any) error {
	w := c.w
	if !w.reg.entityHas(d, entity) {
		return ComponentNotFound{Component: d.Name()}
	}
	inst := w.reg.instanceFor(d)
	if inst == nil || inst.partition == nil {
		return nil
	}
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()
	changed := false
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		if _, ok := inst.partition.byName[sf.Name]; !ok {
			continue
		}
		if writeOneFieldTracked(inst.partition, sf.Name, entity, v.Field(i)) {
			changed = true
		}
	}
	if changed {
		w.reg.markChanged(d, entity)
	}
	return nil
}

func readOneField(p *partition, name string, entity int, dst reflect.Value) {
	idx := p.byName[name]
	switch p.fields[idx].typ {
	case I8:
		dst.SetInt(int64(fieldView[int8](p, name)[entity]))
	case U8:
		dst.SetUint(uint64(fieldView[uint8](p, name)[entity]))
	case I16:
		dst.SetInt(int64(fieldView[int16](p, name)[entity]))
	case U16:
		dst.SetUint(uint64(fieldView[uint16](p, name)[entity]))
	case I32:
		dst.SetInt(int64(fieldView[int32](p, name)[entity]))
	case U32:
		dst.SetUint(uint64(fieldView[uint32](p, name)[entity]))
	case F32:
		dst.SetFloat(float64(fieldView[float32](p, name)[entity]))
	case F64:
		dst.SetFloat(fieldView[float64](p, name)[entity])
	}
}

// writeOneFieldTracked writes v into field name of entity in p, returning
// true iff the stored value actually changed.
func writeOneFieldTracked(p *partition, name string, entity int, v reflect.Value) bool {
	idx := p.byName[name]
	switch p.fields[idx].typ {
	case I8:
		view := fieldView[int8](p, name)
		nv := int8(v.Int())
		if view[entity] == nv {
			return false
		}
		view[entity] = nv
	case U8:
		view := fieldView[uint8](p, name)
		nv := uint8(v.Uint())
		if view[entity] == nv {
			return false
		}
		view[entity] = nv
	case I16:
		view := fieldView[int16](p, name)
		nv := int16(v.Int())
		if view[entity] == nv {
			return false
		}
		view[entity] = nv
	case U16:
		view := fieldView[uint16](p, name)
		nv := uint16(v.Uint())
		if view[entity] == nv {
			return false
		}
		view[entity] = nv
	case I32:
		view := fieldView[int32](p, name)
		nv := int32(v.Int())
		if view[entity] == nv {
			return false
		}
		view[entity] = nv
	case U32:
		view := fieldView[uint32](p, name)
		nv := uint32(v.Uint())
		if view[entity] == nv {
			return false
		}
		view[entity] = nv
	case F32:
		view := fieldView[float32](p, name)
		nv := float32(v.Float())
		if view[entity] == nv {
			return false
		}
		view[entity] = nv
	case F64:
		view := fieldView[float64](p, name)
		nv := v.Float()
		if view[entity] == nv {
			return false
		}
		view[entity] = nv
	}
	return true
}
