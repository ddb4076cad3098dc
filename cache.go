package ecs

// resultPool is a free-list of capacity-sized Bitsets, recycled across
// query evaluations to avoid allocator churn (spec.md §3 "Lifetimes and
// ownership": "the query manager owns cached result bitsets; these are
// recycled through a free-list pool").
type resultPool struct {
	capacity int
	free     []*Bitset
}

func newResultPool(capacity int) *resultPool {
	return &resultPool{capacity: capacity}
}

// acquire returns a cleared Bitset of size capacity, reusing a released
// one if available.
func (p *resultPool) acquire() *Bitset {
	if n := len(p.free); n > 0 {
		b := p.free[n-1]
		p.free = p.free[:n-1]
		b.Clear()
		return b
	}
	return NewBitset(p.capacity)
}

// release returns b to the pool for reuse.
func (p *resultPool) release(b *Bitset) {
	p.free = append(p.free, b)
}

// queryManager compiles and caches Query predicates (spec.md §4.5). It
// holds the global cache version, the registered query instances, and the
// result-bitset pool.
type queryManager struct {
	registry *registry
	pool     *resultPool
	version  uint64
	strict   bool

	byQuery map[*Query]*queryInstance
	byID    map[string]*queryInstance
	ordered []*queryInstance // registration order, snapshotted before refresh iterates
}

func newQueryManager(r *registry, capacity int) *queryManager {
	return &queryManager{
		registry: r,
		pool:     newResultPool(capacity),
		version:  1, // never 0, so a cachedVersion of 0 is always stale
		byQuery:  make(map[*Query]*queryInstance),
		byID:     make(map[string]*queryInstance),
	}
}

// register resolves q to its compiled queryInstance, memoized by the
// Query's own identity first and by its compiled mask id second — two
// distinct Query values with identical semantics share one queryInstance
// and therefore one archetype/result cache.
func (qm *queryManager) register(q *Query) (*queryInstance, error) {
	if inst, ok := qm.byQuery[q]; ok {
		return inst, nil
	}
	compiled, err := compileQuery(q, qm.registry, qm.strict)
	if err != nil {
		return nil, err
	}
	if existing, ok := qm.byID[compiled.id]; ok {
		qm.byQuery[q] = existing
		return existing, nil
	}
	qm.byID[compiled.id] = compiled
	qm.byQuery[q] = compiled
	qm.ordered = append(qm.ordered, compiled)
	return compiled, nil
}

// snapshot materializes the currently registered query instances, to be
// iterated by archetypeManager.refresh without risk of the live
// registration map/slice being mutated mid-iteration (spec.md §9's
// "iterator exhaustion hazard" note).
func (qm *queryManager) snapshot() []*queryInstance {
	out := make([]*queryInstance, len(qm.ordered))
	copy(out, qm.ordered)
	return out
}

// invalidate bumps the global cache version, invalidating every query's
// cached entity result.
func (qm *queryManager) invalidate() {
	qm.version++
}

// invalidateOne marks a single query instance's cached result stale
// without disturbing any other query's cache.
func (qm *queryManager) invalidateOne(inst *queryInstance) {
	inst.cachedVersion = 0
}

// entities returns the query's matching entity ids, in ascending order and
// without duplicates, computing (and caching) the result if the cache is
// stale.
func (qm *queryManager) entities(inst *queryInstance) []int {
	if inst.entityCache == nil || inst.cachedVersion != qm.version {
		if inst.entityCache != nil {
			qm.pool.release(inst.entityCache)
		}
		result := qm.pool.acquire()
		for a := range inst.archetypes {
			result.Or(a.entities)
		}
		inst.entityCache = result
		inst.cachedVersion = qm.version
	}
	return inst.entityCache.TruthyIndices()
}

// components returns the query's frozen name→descriptor component map
// (the union of its all/any sets, resolved against this world).
func (qm *queryManager) components(inst *queryInstance) map[string]*Descriptor {
	return inst.components
}
