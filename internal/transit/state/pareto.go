package state

import "sort"

// ParetoSet is a bounded, generic non-dominated set (spec §3 "Pareto set of
// T", §9 "pareto-set size management"). It is used both for per-stop
// Arrival sets (McRAPTOR) and for the Destination Arrival Set, which is why
// it is parameterized rather than duplicated.
type ParetoSet[T any] struct {
	cap       int
	members   []T
	dominates func(a, b T) bool // does a dominate b?
	rank      func(t T) [3]int64
	onEvict   func()
}

// NewParetoSet builds an empty pareto set. dominates(a, b) must report
// whether a dominates b under the configured comparator; rank produces the
// lexicographic key ((arrival, round, cost) or equivalent) used to decide
// which member to evict first once the set exceeds cap. onEvict, if
// non-nil, is called once per eviction for diagnostics (spec §9: "logging a
// diagnostic counter"); it must not allocate on the hot path beyond a
// counter increment.
func NewParetoSet[T any](cap int, dominates func(a, b T) bool, rank func(t T) [3]int64, onEvict func()) *ParetoSet[T] {
	return &ParetoSet[T]{cap: cap, dominates: dominates, rank: rank, onEvict: onEvict}
}

// Offer inserts candidate iff it is not dominated by any incumbent, evicting
// every incumbent the candidate itself dominates. Returns true iff it was
// added.
func (p *ParetoSet[T]) Offer(candidate T) bool {
	for _, m := range p.members {
		if p.dominates(m, candidate) {
			return false
		}
	}
	kept := p.members[:0]
	for _, m := range p.members {
		if !p.dominates(candidate, m) {
			kept = append(kept, m)
		}
	}
	p.members = append(kept, candidate)

	if p.cap > 0 && len(p.members) > p.cap {
		p.evictWorst()
	}
	return true
}

// evictWorst drops members beyond cap, worst-ranked (lexicographically
// largest) first. This trades theoretical pareto completeness for
// tractability (spec §9); reference scenarios are asserted never to reach
// the cap.
func (p *ParetoSet[T]) evictWorst() {
	sort.Slice(p.members, func(i, j int) bool {
		ri, rj := p.rank(p.members[i]), p.rank(p.members[j])
		return less3(ri, rj)
	})
	for len(p.members) > p.cap {
		p.members = p.members[:len(p.members)-1]
		if p.onEvict != nil {
			p.onEvict()
		}
	}
}

func less3(a, b [3]int64) bool {
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// Iter returns the current members. The slice is owned by the set; callers
// must not retain it across a subsequent Offer.
func (p *ParetoSet[T]) Iter() []T { return p.members }

// Len reports the current member count.
func (p *ParetoSet[T]) Len() int { return len(p.members) }
