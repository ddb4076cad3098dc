/*
Package ecs provides an Entity-Component-System (ECS) runtime: an
archetype-based storage core where entities sharing the same component set
are kept together for fast, branch-light iteration.

Core Concepts:

  - Entity: an integer id.
  - Component: a schema-described data container, or a tag with no storage.
  - Archetype: every entity currently owning the exact same component set.
  - Query: an all/any/none predicate over component sets, compiled once and
    incrementally revalidated against the archetype set.

Basic Usage:

	position := ecs.NewComponent[Position]("position")
	velocity := ecs.NewComponent[Velocity]("velocity")

	pool := idpool.New(1024)
	world, _ := ecs.NewWorld(ecs.WorldSpec{
		Capacity:   1024,
		Components: []*ecs.Descriptor{position, velocity},
	}, pool)
	world.Init()

	e, _, _ := world.Entities.Create()
	world.Components.AddToEntity(position, e, Position{X: 1})
	world.Components.AddToEntity(velocity, e, Velocity{X: 1})

	posX := ecs.FieldOf[float32](position, "X")
	velX := ecs.FieldOf[float32](velocity, "X")

	q, _ := world.Components.Query([]*ecs.Descriptor{position, velocity}, nil, nil)
	entities, _ := world.Archetypes.QueryEntities(q)
	for _, entity := range entities {
		posX.Set(world, entity, posX.Get(world, entity)+velX.Get(world, entity))
	}

	world.Refresh(false)

System scheduling, rendering, and networking are explicitly out of scope:
this package owns entities, components, archetypes, and queries only.
*/
package ecs
