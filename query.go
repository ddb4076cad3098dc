package ecs

// Query is an immutable predicate over three disjoint component sets
// (spec.md §3): `all` must be present, `none` must be absent, and `any`
// (if non-empty) requires at least one present. Duplicates within a set
// are silently removed; a component listed in more than one set is a
// construction error.
type Query struct {
	all, any, none []*Descriptor
}

// NewQuery builds a Query from the given sets, de-duplicating within each
// and rejecting a component that appears in more than one set or an empty
// predicate (spec.md §4.5 predicate validation).
func NewQuery(all, any, none []*Descriptor) (*Query, error) {
	all = dedupe(all)
	any = dedupe(any)
	none = dedupe(none)
	if len(all) == 0 && len(any) == 0 && len(none) == 0 {
		return nil, SpecError{Reason: "query must specify at least one of all/any/none"}
	}
	seen := make(map[*Descriptor]string, len(all)+len(any)+len(none))
	for _, d := range all {
		seen[d] = "all"
	}
	for _, d := range any {
		if set, ok := seen[d]; ok {
			return nil, SpecError{Reason: "component \"" + d.name + "\" appears in both \"any\" and \"" + set + "\""}
		}
		seen[d] = "any"
	}
	for _, d := range none {
		if set, ok := seen[d]; ok {
			return nil, SpecError{Reason: "component \"" + d.name + "\" appears in both \"none\" and \"" + set + "\""}
		}
		seen[d] = "none"
	}
	return &Query{all: all, any: any, none: none}, nil
}

func dedupe(in []*Descriptor) []*Descriptor {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[*Descriptor]bool, len(in))
	out := make([]*Descriptor, 0, len(in))
	for _, d := range in {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

// queryInstance is the world-local compiled form of a Query (spec.md
// §3/§4.5): three component bitmasks, the set of currently matching
// archetypes, a frozen name→instance component map, and a dedup id.
type queryInstance struct {
	source     *Query
	and        *Bitset
	or         *Bitset
	not        *Bitset
	id         string
	components map[string]*Descriptor
	archetypes map[*Archetype]bool

	entityCache   *Bitset
	cachedVersion uint64 // 0 means "never computed" / forced stale
}

// isMatch implements spec.md §4.5's candidacy predicate: an entity-less
// (all-zero) target never matches; otherwise all/none are hard
// requirements and any (if non-empty) is a soft requirement.
func isMatch(target *Bitset, q *queryInstance) bool {
	if target.IsEmpty() {
		return false
	}
	if !target.ContainsAll(q.and) {
		return false
	}
	if !target.ContainsNone(q.not) {
		return false
	}
	if !q.or.IsEmpty() && target.ContainsNone(q.or) {
		return false
	}
	return true
}

// compileQuery resolves a Query against a world's registry into a
// queryInstance. Descriptors the world has no instance for are skipped
// rather than rejected — spec.md §9 documents this as ambiguous but
// preserved source behavior; strict mode below opts out of it.
func compileQuery(q *Query, r *registry, strict bool) (*queryInstance, error) {
	and := NewBitset(r.count())
	or := NewBitset(r.count())
	not := NewBitset(r.count())
	components := make(map[string]*Descriptor)

	// recordComponent is true for all/any — spec.md §3/§4.5 define the
	// cached component map as the union all ∪ any only; none-set
	// descriptors are used for the bitmask but never surfaced there.
	resolve := func(set []*Descriptor, mask *Bitset, recordComponent bool) error {
		for _, d := range set {
			inst := r.instanceFor(d)
			if inst == nil {
				if strict {
					return NotRegistered{Component: d.name}
				}
				continue
			}
			mask.Set(inst.id, true)
			if recordComponent {
				components[d.name] = d
			}
		}
		return nil
	}
	if err := resolve(q.all, and, true); err != nil {
		return nil, err
	}
	if err := resolve(q.any, or, true); err != nil {
		return nil, err
	}
	if err := resolve(q.none, not, false); err != nil {
		return nil, err
	}

	id := and.stringify() + ":" + or.stringify() + ":" + not.stringify()
	return &queryInstance{
		source:     q,
		and:        and,
		or:         or,
		not:        not,
		id:         id,
		components: components,
		archetypes: make(map[*Archetype]bool),
	}, nil
}
