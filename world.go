package ecs

import (
	"github.com/TheBitDrifter/bark"
)

// WorldState tracks the lifecycle spec.md §3's Invariant W1 describes:
// a World must be initialized before entities may be created or destroyed,
// components attached or detached, or Refresh run, and those operations
// are rejected again after Destroy.
type WorldState int

const (
	StateUninitialized WorldState = iota
	StateInitialized
	StateDestroyed
	StateError
)

func (s WorldState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateDestroyed:
		return "destroyed"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// WorldSpec describes a World at construction (spec.md §3's World
// parameters): a fixed entity capacity and the closed set of components it
// will ever know about.
type WorldSpec struct {
	Capacity   uint32
	Components []*Descriptor
}

// entityMeta holds the supplemented per-entity bookkeeping spec.md leaves
// out of the distilled core: an optional parent link and an optional
// destroy callback (SPEC_FULL.md "Supplemented features").
type entityMeta struct {
	hasParent bool
	parent    int
	onDestroy EntityDestroyCallback
}

// EntityDestroyCallback runs once, synchronously, when its entity is
// destroyed — after its children are destroyed, before its components are
// cleared and before the id is released back to the pool.
type EntityDestroyCallback func(w *World, entity int)

// World composes every collaborator spec.md §3 names — the id pool, the
// component registry, the archetype manager, the query manager — behind
// the single state machine and public namespaced API described in §6,
// mirroring the teacher's Factory/api.go aggregation.
type World struct {
	state WorldState

	capacity       int
	componentCount int

	ids    idPool
	reg    *registry
	arches *archetypeManager
	qm     *queryManager

	meta []entityMeta

	lockDepth int
	queue     operationQueue

	Entities   EntityAPI
	Components ComponentAPI
	Archetypes ArchetypeAPI
}

// idPool is the narrow interface World depends on, satisfied by
// internal/idpool.Pool — kept local so World never imports the internal
// package's concrete type into its own exported surface.
type idPool interface {
	Capacity() int
	Acquire() (int, bool)
	Release(id int)
	Occupied(id int) bool
	OccupiedCount() int
	AvailableCount() int
}

// NewWorld constructs an uninitialized World from spec. Capacity must be
// positive and Components non-empty (spec.md §7 construction errors).
func NewWorld(spec WorldSpec, pool idPool) (*World, error) {
	if spec.Capacity == 0 {
		return nil, SpecError{Reason: "world capacity must be greater than zero"}
	}
	if len(spec.Components) == 0 {
		return nil, SpecError{Reason: "world must register at least one component"}
	}
	if int(spec.Capacity) != pool.Capacity() {
		return nil, SpecError{Reason: "id pool capacity does not match world capacity"}
	}

	capacity := int(spec.Capacity)
	reg := newRegistry(capacity, spec.Components)
	arches := newArchetypeManager(len(spec.Components))
	qm := newQueryManager(reg, capacity)

	w := &World{
		state:          StateUninitialized,
		capacity:       capacity,
		componentCount: len(spec.Components),
		ids:            pool,
		reg:            reg,
		arches:         arches,
		qm:             qm,
		meta:           make([]entityMeta, capacity),
	}
	w.Entities = EntityAPI{w: w}
	w.Components = ComponentAPI{w: w}
	w.Archetypes = ArchetypeAPI{w: w}
	return w, nil
}

// Init transitions the World from uninitialized to initialized, seating
// every entity slot in the root archetype and running one refresh so the
// world starts in a settled state (spec.md §3 Invariant A2).
func (w *World) Init() (err error) {
	defer func() {
		if r := recover(); r != nil {
			w.state = StateError
			err = bark.AddTrace(asError(r))
		}
	}()
	if w.state != StateUninitialized {
		return WorldStateError{Op: "init", State: w.state}
	}
	w.arches.init(w.capacity)
	w.state = StateInitialized
	Config.log().WithField("capacity", w.capacity).Debug("ecs: world initialized")
	return w.Refresh(false)
}

// Destroy transitions an initialized World to destroyed, tearing down its
// archetypes. Afterwards Init, Destroy, Refresh, Entities.Create/Destroy and
// Components.AddToEntity/RemoveFromEntity return WorldStateError; the other
// accessors do not check the state.
func (w *World) Destroy() error {
	if w.state != StateInitialized {
		return WorldStateError{Op: "destroy", State: w.state}
	}
	w.arches.destroy()
	w.state = StateDestroyed
	Config.log().Debug("ecs: world destroyed")
	return nil
}

// State reports the World's current lifecycle state.
func (w *World) State() WorldState { return w.state }

// Refresh runs one settle pass (spec.md §4.4/§4.5): re-derive query/
// archetype incidence, clear every archetype's entered/exited delta, and
// — unless retainChanged is true — clear every component's changed bits.
// Finally it bumps the query cache version so every query recomputes its
// result on next read.
func (w *World) Refresh(retainChanged bool) error {
	if w.state != StateInitialized {
		return WorldStateError{Op: "refresh", State: w.state}
	}
	if before := Config.refreshEvents.BeforeRefresh; before != nil {
		before(w)
	}
	snapshot := w.qm.snapshot()
	w.arches.refresh(snapshot)
	if !retainChanged {
		w.reg.refresh()
	}
	w.qm.invalidate()
	if after := Config.refreshEvents.AfterRefresh; after != nil {
		after(w)
	}
	return nil
}

// Lock marks the world as being iterated: structural mutations
// (Create/Destroy/AddToEntity/RemoveFromEntity) are rejected with
// LockedWorldError until the matching Unlock, in favor of their Enqueue*
// counterparts (operation_queue.go). Lock nests.
func (w *World) Lock() { w.lockDepth++ }

// Unlock reverses one Lock call; once the depth returns to zero, every
// operation queued while locked is drained in FIFO order.
func (w *World) Unlock() error {
	if w.lockDepth > 0 {
		w.lockDepth--
	}
	if w.lockDepth == 0 {
		return w.queue.drain(w)
	}
	return nil
}

// Locked reports whether the world currently rejects structural mutation.
func (w *World) Locked() bool { return w.lockDepth > 0 }

// invalidateQueries bumps the query cache version after a structural
// mutation (attach, detach, destroy) so a query's cached result set
// observes it on its very next read, per spec.md §4.6: these operations
// must invalidate query caches, not merely wait for the next
// caller-driven Refresh. This deliberately stops short of a full Refresh:
// Refresh also clears every archetype's entered/exited delta and (unless
// retainChanged) every component's changed bits, and a single attach/
// detach/destroy must not reset those deltas out from under a caller still
// reading them within the current frame.
func (w *World) invalidateQueries() {
	if w.state == StateInitialized {
		w.qm.invalidate()
	}
}

func (w *World) checkUsable(op string) error {
	if w.state != StateInitialized {
		return WorldStateError{Op: op, State: w.state}
	}
	return nil
}

func asError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return SpecError{Reason: "recovered panic"}
}
