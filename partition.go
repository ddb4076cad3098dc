package ecs

import "unsafe"

// numeric is the set of element types a schema field may hold — the eight
// typed-array kinds of spec.md §3/§6.
type numeric interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~float32 | ~float64
}

// fieldLayout records one schema field's name, element type, and byte
// offset into the partition's backing buffer.
type fieldLayout struct {
	name   string
	typ    ElementType
	offset int // byte offset of this field's array within the partition buffer
}

// partition is the portion of a component's storage owned by one non-tag
// component: a single contiguous byte buffer subdivided struct-of-arrays,
// one typed-array region per schema field, each region holding `capacity`
// elements (spec.md §4.2). Regions are laid out in schema field order;
// layouts are fixed once built.
type partition struct {
	capacity int
	fields   []fieldLayout
	byName   map[string]int // field name -> index into fields
	buf      []byte
	// footprint is the per-entity byte footprint (sum of one element of
	// every field) — descriptive accounting only, not the buffer's layout,
	// since the buffer itself is struct-of-arrays rather than per-entity
	// interleaved (spec.md §4.2 takes priority over the per-entity framing
	// in §3; see DESIGN.md).
	footprint int
}

// newPartition lays out one region per schema field, in order, each sized
// capacity * byteSize(type), and allocates one buffer holding all of them.
func newPartition(capacity int, schema []fieldLayout) *partition {
	p := &partition{
		capacity: capacity,
		fields:   make([]fieldLayout, len(schema)),
		byName:   make(map[string]int, len(schema)),
	}
	offset := 0
	for i, f := range schema {
		sz := f.typ.byteSize()
		p.fields[i] = fieldLayout{name: f.name, typ: f.typ, offset: offset}
		p.byName[f.name] = i
		offset += sz * capacity
		p.footprint += sz
	}
	p.buf = make([]byte, offset)
	return p
}

// fieldOffset returns the byte offset of a field's region, or -1 if the
// partition has no such field.
func (p *partition) fieldOffset(name string) int {
	i, ok := p.byName[name]
	if !ok {
		return -1
	}
	return p.fields[i].offset
}

// fieldView returns a typed slice of length capacity over the field's
// region. T must match the field's declared ElementType; fieldView itself
// does not check it. Its callers are Field[T] (proxy.go, whose FieldOf
// checks T against the schema) and the ElementType-switched readers and
// writers in registry.go and components_api.go; user code never calls it.
func fieldView[T numeric](p *partition, name string) []T {
	off := p.fieldOffset(name)
	if off < 0 {
		return nil
	}
	ptr := unsafe.Pointer(&p.buf[off])
	return unsafe.Slice((*T)(ptr), p.capacity)
}
