package ecs

import "fmt"

// CoreError is the marker every named error kind embeds, so callers can
// match on either the concrete kind or errors.As(&CoreError{}) generically
// (spec.md §6: "All derive from a single base error kind").
type CoreError struct{}

func (CoreError) coreError() {}

// Error lets *CoreError serve as an errors.As target; every named kind
// overrides it with its own message.
func (CoreError) Error() string { return "ecs: core error" }

// As, promoted to every named kind, makes errors.As(err, &CoreError{})
// match any of them.
func (CoreError) As(target any) bool {
	if p, ok := target.(*CoreError); ok {
		*p = CoreError{}
		return true
	}
	return false
}

type coreError interface {
	error
	coreError()
}

// SpecError reports a construction-time violation of an immutable spec
// (e.g. overlapping Query sets, a reserved component name, a malformed
// schema).
type SpecError struct {
	CoreError
	Reason string
}

func (e SpecError) Error() string { return fmt.Sprintf("ecs: invalid spec: %s", e.Reason) }

// EntityNotFound reports an operation addressed at an entity id that is
// out of range or not currently occupied.
type EntityNotFound struct {
	CoreError
	Entity int
}

func (e EntityNotFound) Error() string { return fmt.Sprintf("ecs: entity %d not found", e.Entity) }

// WorldStateError reports an operation attempted in a World state that
// does not permit it (spec.md §3 Invariant W1).
type WorldStateError struct {
	CoreError
	Op    string
	State WorldState
}

func (e WorldStateError) Error() string {
	return fmt.Sprintf("ecs: cannot %s: world is %s", e.Op, e.State)
}

// ComponentNotFound reports a query against a component the entity does
// not currently own.
type ComponentNotFound struct {
	CoreError
	Component string
}

func (e ComponentNotFound) Error() string {
	return fmt.Sprintf("ecs: component %q not found on entity", e.Component)
}

// NoComponentsFound reports an entity with an empty component set where
// the caller required at least one.
type NoComponentsFound struct {
	CoreError
	Entity int
}

func (e NoComponentsFound) Error() string {
	return fmt.Sprintf("ecs: entity %d has no components", e.Entity)
}

// NotRegistered reports an operation against a component descriptor the
// World was not constructed with.
type NotRegistered struct {
	CoreError
	Component string
}

func (e NotRegistered) Error() string {
	return fmt.Sprintf("ecs: component %q is not registered on this world", e.Component)
}

// LockedWorldError reports a mutation attempted while the world is locked
// by an in-progress query iteration; the caller should use the Enqueue*
// variant instead (see operation_queue.go).
type LockedWorldError struct {
	CoreError
}

func (e LockedWorldError) Error() string { return "ecs: world is locked by an active query" }

// EntityRelationError reports an attempt to give an entity a second parent.
type EntityRelationError struct {
	CoreError
	Child, Parent int
}

func (e EntityRelationError) Error() string {
	return fmt.Sprintf("ecs: entity %d already has a parent (attempted new parent %d)", e.Child, e.Parent)
}
