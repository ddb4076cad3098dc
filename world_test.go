package ecs

import (
	"testing"

	"github.com/kilnforge/ecs/internal/idpool"
)

func newTestWorld(t *testing.T, capacity int, descs ...*Descriptor) *World {
	t.Helper()
	pool := idpool.New(capacity)
	w, err := NewWorld(WorldSpec{Capacity: uint32(capacity), Components: descs}, pool)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	if err := w.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return w
}

func TestWorldLifecycleRejectsOperationsOutOfState(t *testing.T) {
	pool := idpool.New(2)
	posDesc := NewComponent[position]("position")
	w, err := NewWorld(WorldSpec{Capacity: 2, Components: []*Descriptor{posDesc}}, pool)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	if _, _, err := w.Entities.Create(); err == nil {
		t.Fatal("Create before Init should be rejected")
	}
	if err := w.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := w.Init(); err == nil {
		t.Fatal("double Init should be rejected")
	}
	if err := w.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, _, err := w.Entities.Create(); err == nil {
		t.Fatal("Create after Destroy should be rejected")
	}
}

func TestWorldCapacityExhaustion(t *testing.T) {
	posDesc := NewComponent[position]("position")
	w := newTestWorld(t, 2, posDesc)

	if _, ok, err := w.Entities.Create(); err != nil || !ok {
		t.Fatalf("first Create: ok=%v err=%v", ok, err)
	}
	if _, ok, err := w.Entities.Create(); err != nil || !ok {
		t.Fatalf("second Create: ok=%v err=%v", ok, err)
	}
	if _, ok, err := w.Entities.Create(); err != nil || ok {
		t.Fatalf("third Create on a capacity-2 world should report ok=false, not an error: ok=%v err=%v", ok, err)
	}
}

func TestWorldAddComponentMovesArchetypeAndQueryObservesIt(t *testing.T) {
	posDesc := NewComponent[position]("position")
	velDesc := NewComponent[velocity]("velocity")
	w := newTestWorld(t, 4, posDesc, velDesc)

	e, _, _ := w.Entities.Create()

	q, err := w.Components.Query([]*Descriptor{posDesc}, nil, nil)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got, _ := w.Archetypes.QueryEntities(q); len(got) != 0 {
		t.Fatalf("no entity should match before any has position, got %v", got)
	}

	if err := w.Components.AddToEntity(posDesc, e, position{X: 1, Y: 2}); err != nil {
		t.Fatalf("AddToEntity: %v", err)
	}
	if got, _ := w.Archetypes.QueryEntities(q); len(got) != 1 || got[0] != e {
		t.Fatalf("QueryEntities = %v, want [%d]", got, e)
	}

	in, err := w.Archetypes.IsEntityInRoot(e)
	if err != nil || in {
		t.Fatalf("entity with position should have left root: in=%v err=%v", in, err)
	}
}

func TestWorldChangeTrackingHonorsEquality(t *testing.T) {
	posDesc := NewComponent[position]("position")
	w := newTestWorld(t, 2, posDesc)
	e, _, _ := w.Entities.Create()
	w.Components.AddToEntity(posDesc, e, position{X: 1, Y: 1})
	w.Refresh(false)

	xField := FieldOf[float32](posDesc, "X")
	if got := w.Components.GetChanged(posDesc); len(got) != 0 {
		t.Fatalf("GetChanged right after refresh = %v, want none", got)
	}

	xField.Set(w, e, 1) // same value: must not mark changed
	if got := w.Components.GetChanged(posDesc); len(got) != 0 {
		t.Fatalf("setting the same value should not mark changed, got %v", got)
	}

	xField.Set(w, e, 5) // different value: must mark changed
	if got := w.Components.GetChanged(posDesc); len(got) != 1 || got[0] != e {
		t.Fatalf("GetChanged = %v, want [%d]", got, e)
	}
}

func TestWorldDestroyEntityClearsEverything(t *testing.T) {
	posDesc := NewComponent[position]("position")
	w := newTestWorld(t, 2, posDesc)
	e, _, _ := w.Entities.Create()
	w.Components.AddToEntity(posDesc, e, position{X: 1})

	if err := w.Entities.Destroy(e); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if w.Entities.IsActive(e) {
		t.Fatal("entity should no longer be active after Destroy")
	}
	if !w.arches.isEntityInRoot(e) {
		t.Fatal("destroyed entity should be back in root")
	}
	if w.reg.entityHas(posDesc, e) {
		t.Fatal("destroyed entity should own no components")
	}

	e2, ok, _ := w.Entities.Create()
	if !ok {
		t.Fatal("capacity should be reclaimed after Destroy")
	}
	_ = e2
}

func TestWorldGetSetEntityData(t *testing.T) {
	posDesc := NewComponent[position]("position")
	w := newTestWorld(t, 2, posDesc)
	e, _, _ := w.Entities.Create()
	w.Components.AddToEntity(posDesc, e, position{X: 1, Y: 2})

	got, err := w.Components.GetEntityData(posDesc, e)
	if err != nil {
		t.Fatalf("GetEntityData: %v", err)
	}
	p := got.(position)
	if p.X != 1 || p.Y != 2 {
		t.Fatalf("GetEntityData = %+v, want {1 2}", p)
	}

	w.Refresh(false) // clear the changed bit AddToEntity set
	if err := w.Components.SetEntityData(posDesc, e, position{X: 9, Y: 9}); err != nil {
		t.Fatalf("SetEntityData: %v", err)
	}
	if got := w.Components.GetChanged(posDesc); len(got) != 1 {
		t.Fatalf("SetEntityData with a different value should mark changed, got %v", got)
	}
}

func TestWorldParentDestroyCascades(t *testing.T) {
	posDesc := NewComponent[position]("position")
	w := newTestWorld(t, 4, posDesc)
	parent, _, _ := w.Entities.Create()
	child, _, _ := w.Entities.Create()

	if err := w.Entities.SetParent(child, parent); err != nil {
		t.Fatalf("SetParent: %v", err)
	}
	if err := w.Entities.Destroy(parent); err != nil {
		t.Fatalf("Destroy parent: %v", err)
	}
	if w.Entities.IsActive(child) {
		t.Fatal("child should be destroyed along with its parent")
	}
}

func TestWorldLockRejectsStructuralMutationAndEnqueueDefers(t *testing.T) {
	posDesc := NewComponent[position]("position")
	w := newTestWorld(t, 4, posDesc)
	e, _, _ := w.Entities.Create()

	q, _ := w.Components.Query([]*Descriptor{posDesc}, nil, nil)
	cursor, err := w.Archetypes.Cursor(q)
	if err != nil {
		t.Fatalf("Cursor: %v", err)
	}
	if !w.Locked() {
		t.Fatal("opening a cursor should lock the world")
	}
	if err := w.Components.AddToEntity(posDesc, e, position{}); err == nil {
		t.Fatal("structural mutation while locked should be rejected")
	}
	w.Components.EnqueueAddToEntity(posDesc, e, position{X: 3})
	for cursor.Next() {
	}
	if w.Locked() {
		t.Fatal("cursor exhaustion should unlock the world")
	}
	if !w.Components.EntityHas(posDesc, e) {
		t.Fatal("queued AddToEntity should have run once the world unlocked")
	}
}

func TestWorldQueryEnteredAndExited(t *testing.T) {
	posDesc := NewComponent[position]("position")
	w := newTestWorld(t, 2, posDesc)
	e, _, _ := w.Entities.Create()

	q, _ := w.Components.Query([]*Descriptor{posDesc}, nil, nil)
	w.Components.AddToEntity(posDesc, e, position{})

	entered, err := w.Archetypes.QueryEntered(q)
	if err != nil {
		t.Fatalf("QueryEntered: %v", err)
	}
	if len(entered) != 1 || entered[0] != e {
		t.Fatalf("QueryEntered = %v, want [%d]", entered, e)
	}

	w.Refresh(false)
	entered, _ = w.Archetypes.QueryEntered(q)
	if len(entered) != 0 {
		t.Fatalf("QueryEntered after refresh = %v, want none", entered)
	}

	w.Components.RemoveFromEntity(posDesc, e)
	exited, err := w.Archetypes.QueryExited(q)
	if err != nil {
		t.Fatalf("QueryExited: %v", err)
	}
	if len(exited) != 1 || exited[0] != e {
		t.Fatalf("QueryExited = %v, want [%d]", exited, e)
	}
}

func TestWorldQueryComponentsIsAllUnionAnyOnly(t *testing.T) {
	posDesc := NewComponent[position]("position")
	velDesc := NewComponent[velocity]("velocity")
	tagDesc := NewComponent[tag]("flag")
	w := newTestWorld(t, 2, posDesc, velDesc, tagDesc)

	q, err := w.Components.Query([]*Descriptor{posDesc}, []*Descriptor{velDesc}, []*Descriptor{tagDesc})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	got, err := w.Archetypes.QueryComponents(q)
	if err != nil {
		t.Fatalf("QueryComponents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("QueryComponents = %v, want exactly the all ∪ any components (2)", got)
	}
	if _, ok := got[posDesc.Name()]; !ok {
		t.Errorf("QueryComponents missing all-set component %q", posDesc.Name())
	}
	if _, ok := got[velDesc.Name()]; !ok {
		t.Errorf("QueryComponents missing any-set component %q", velDesc.Name())
	}
	if _, ok := got[tagDesc.Name()]; ok {
		t.Errorf("QueryComponents must not include none-set component %q", tagDesc.Name())
	}
}

func TestWorldAddToEntityInvalidatesQueryCacheWithoutClearingDeltas(t *testing.T) {
	posDesc := NewComponent[position]("position")
	w := newTestWorld(t, 2, posDesc)
	other, _, _ := w.Entities.Create()
	w.Components.AddToEntity(posDesc, other, position{})
	w.Refresh(false)

	e, _, _ := w.Entities.Create()
	q, _ := w.Components.Query([]*Descriptor{posDesc}, nil, nil)
	if got, _ := w.Archetypes.QueryEntities(q); len(got) != 1 {
		t.Fatalf("QueryEntities before add = %v, want just %d", got, other)
	}

	if err := w.Components.AddToEntity(posDesc, e, position{}); err != nil {
		t.Fatalf("AddToEntity: %v", err)
	}
	got, err := w.Archetypes.QueryEntities(q)
	if err != nil {
		t.Fatalf("QueryEntities: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("QueryEntities after AddToEntity = %v, want both entities (cache must not be stale)", got)
	}

	entered, err := w.Archetypes.QueryEntered(q)
	if err != nil {
		t.Fatalf("QueryEntered: %v", err)
	}
	if len(entered) != 1 || entered[0] != e {
		t.Fatalf("QueryEntered = %v, want [%d] — AddToEntity's cache invalidation must not clear entered/exited deltas", entered, e)
	}
}
