package ecs

import "github.com/TheBitDrifter/bark"

// Factory aggregates the package's constructors behind a single
// zero-value-usable type, mirroring the teacher's Factory/api.go pattern of
// giving callers one entry point instead of a grab-bag of free functions.
// It carries no state; every method simply delegates.
type Factory struct{}

// NewWorld constructs a World bound to pool, per spec.
func (Factory) NewWorld(spec WorldSpec, pool idPool) (*World, error) {
	return NewWorld(spec, pool)
}

// NewQuery builds a validated Query.
func (Factory) NewQuery(all, any, none []*Descriptor) (*Query, error) {
	return NewQuery(all, any, none)
}

// MustNewQuery is NewQuery, panicking (with a stack trace attached via
// bark) on a construction error — for call sites building queries from a
// fixed, program-known component set where a failure can only mean a
// programmer error.
func (Factory) MustNewQuery(all, any, none []*Descriptor) *Query {
	q, err := NewQuery(all, any, none)
	if err != nil {
		panic(bark.AddTrace(err))
	}
	return q
}
