package ecs

import "reflect"

// Field is a compile-time-typed handle to one schema field of one
// component (spec.md §9 design note, option (b)), used in place of the
// source's dynamically-installed per-field getters/setters. The handle is
// keyed by field name; Get/Set resolve the component's partition and the
// field's region through the World on each call; Set
// performs the equality check and changed-bit update spec.md §4.3
// describes for the storage proxy.
type Field[T numeric] struct {
	desc *Descriptor
	name string
}

// FieldOf builds a Field handle for component d's field named name. T must
// match the field's declared ElementType — a mismatch panics here with a
// SpecError. An unknown field name, a tag component, or a descriptor the
// World does not know is not detected until the handle is first used, when
// the partition or view lookup panics.
func FieldOf[T numeric](d *Descriptor, name string) Field[T] {
	for _, fl := range d.schema {
		if fl.name != name {
			continue
		}
		if et, _ := elementTypeOf(reflect.TypeOf((*T)(nil)).Elem().Kind()); et != fl.typ {
			panic(SpecError{Reason: "field \"" + name + "\" is " + fl.typ.String() + ", not " + et.String()})
		}
	}
	return Field[T]{desc: d, name: name}
}

// Get reads the field's current value for entity in world w.
func (f Field[T]) Get(w *World, entity int) T {
	return f.raw(w)[entity]
}

// Set writes v for entity in world w, setting the component's changed bit
// for entity iff the stored value actually differs (spec.md §4.3, §8
// round-trip law).
func (f Field[T]) Set(w *World, entity int, v T) {
	view := f.raw(w)
	if view[entity] != v {
		view[entity] = v
		w.reg.markChanged(f.desc, entity)
	}
}

// Raw returns the field's direct typed-array view. Writes through it
// bypass change tracking entirely — documented and intentional, per
// spec.md §4.3.
func (f Field[T]) Raw(w *World) []T {
	return f.raw(w)
}

func (f Field[T]) raw(w *World) []T {
	inst := w.reg.instanceFor(f.desc)
	return fieldView[T](inst.partition, f.name)
}

// Proxy is a cursor-like, change-tracked accessor for one component field:
// the literal "mutable entity cursor" spec.md §4.3 describes, reseated
// with SetEntity before each read/write.
type Proxy[T numeric] struct {
	field  Field[T]
	world  *World
	entity int
}

// NewProxy binds a Proxy to component d's field named name within w.
func NewProxy[T numeric](w *World, d *Descriptor, name string) *Proxy[T] {
	return &Proxy[T]{field: FieldOf[T](d, name), world: w}
}

// SetEntity reseats the proxy's cursor. An out-of-range entity is an
// EntityNotFound error (spec.md §4.3).
func (p *Proxy[T]) SetEntity(entity int) error {
	if entity < 0 || entity >= p.world.capacity {
		return EntityNotFound{Entity: entity}
	}
	p.entity = entity
	return nil
}

// Entity returns the proxy's current cursor position.
func (p *Proxy[T]) Entity() int { return p.entity }

// Get reads the field's value at the current cursor position.
func (p *Proxy[T]) Get() T { return p.field.Get(p.world, p.entity) }

// Set writes v at the current cursor position, change-tracked.
func (p *Proxy[T]) Set(v T) { p.field.Set(p.world, p.entity, v) }
