package ecs

import (
	"reflect"
	"strings"
)

// Reserved names spec.md §6 requires component/field construction to
// reject: the entity id column name itself, and three internal sentinel
// tokens for partition/system-hook wiring. That wiring is kept as fields
// on the relevant objects per spec.md §9's note on reserved symbolic keys,
// so no code uses these tokens as keys; the strings stay reserved so a
// user schema can never collide with them.
const (
	reservedID           = "id"
	reservedPartitionKey = "__partition__"
	reservedInitHookKey  = "__init_hook__"
	reservedDestroyHook  = "__destroy_hook__"
)

var reservedNames = map[string]bool{
	reservedID:           true,
	reservedPartitionKey: true,
	reservedInitHookKey:  true,
	reservedDestroyHook:  true,
}

// Descriptor is an immutable component description (spec.md §3's
// `Component<T>`). It is built once via NewComponent[T] and may be shared
// across multiple Worlds; each World binds it to a world-local instance
// (registry.go) with its own dense id and storage partition.
type Descriptor struct {
	name        string
	kind        reflect.Type
	schema      []fieldLayout // nil ⇒ tag component, no storage
	maxEntities uint32        // advisory only, see spec.md §9
}

// Name returns the component's human name.
func (d *Descriptor) Name() string { return d.name }

// IsTag reports whether the component carries no field storage.
func (d *Descriptor) IsTag() bool { return len(d.schema) == 0 }

// MaxEntities returns the advisory entity cap recorded at construction, or
// zero if none was set. The core never enforces this as a hard wall
// (spec.md §9).
func (d *Descriptor) MaxEntities() uint32 { return d.maxEntities }

// ComponentOption configures a Descriptor at construction.
type ComponentOption func(*Descriptor)

// WithMaxEntities records an advisory cap on the number of entities this
// component may be attached to.
func WithMaxEntities(n uint32) ComponentOption {
	return func(d *Descriptor) { d.maxEntities = n }
}

// NewComponent builds a Descriptor named name. T's exported fields become
// the schema: a field's Go numeric type (int8/uint8/int16/uint16/int32/
// uint32/float32/float64, or any of their named variants) maps to the
// matching ElementType tag. T with no exported numeric fields — most
// commonly `struct{}` — produces a tag component with no storage.
//
// NewComponent panics on a reserved component or field name, or when T is
// not a struct; these are construction-time programmer errors (spec.md
// §7). Fields of unsupported types are skipped, not rejected.
func NewComponent[T any](name string, opts ...ComponentOption) *Descriptor {
	if reservedNames[strings.ToLower(name)] {
		panic(SpecError{Reason: "component name \"" + name + "\" is reserved"})
	}
	d := &Descriptor{
		name: name,
		kind: reflect.TypeOf((*T)(nil)).Elem(),
	}
	d.schema = deriveSchema(d.kind)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// deriveSchema reflects over a struct type's exported fields and maps each
// to its ElementType. Non-numeric or unexported fields are skipped, which
// lets a component carry bookkeeping fields (e.g. an embedded marker) the
// core never touches.
func deriveSchema(t reflect.Type) []fieldLayout {
	if t.Kind() != reflect.Struct {
		panic(SpecError{Reason: "component type must be a struct, got " + t.Kind().String()})
	}
	schema := make([]fieldLayout, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		et, ok := elementTypeOf(f.Type.Kind())
		if !ok {
			continue
		}
		if reservedNames[strings.ToLower(f.Name)] {
			panic(SpecError{Reason: "field name \"" + f.Name + "\" is reserved"})
		}
		schema = append(schema, fieldLayout{name: f.Name, typ: et})
	}
	return schema
}

func elementTypeOf(k reflect.Kind) (ElementType, bool) {
	switch k {
	case reflect.Int8:
		return I8, true
	case reflect.Uint8:
		return U8, true
	case reflect.Int16:
		return I16, true
	case reflect.Uint16:
		return U16, true
	case reflect.Int32:
		return I32, true
	case reflect.Uint32:
		return U32, true
	case reflect.Float32:
		return F32, true
	case reflect.Float64:
		return F64, true
	default:
		return 0, false
	}
}
