package worker

import (
	"github.com/antigravity/transitcore/internal/transit/calc"
	"github.com/antigravity/transitcore/internal/transit/model"
	"github.com/antigravity/transitcore/internal/transit/pathmapper"
	"github.com/antigravity/transitcore/internal/transit/state"
)

// DASEntry is one non-dominated whole journey (spec §4.6), carrying its
// fully reconstructed leg list rather than a dangling reference into a state
// store. That matters for the BestTimes profile in particular: its
// predecessor arrays are overwritten in place on the next range-RAPTOR
// iteration, so a Path Mapper walk deferred past iteration-commit time would
// read stale data. Building legs eagerly, once, at the moment an entry
// survives the Destination Arrival Set keeps both profiles' entries equally
// safe to read after Run returns.
//
// Time is the entry's own "smaller changes in the efficient direction" time
// coordinate: destination arrival time for a forward (depart-at) search, or
// origin departure time for a reverse (arrive-by) one, where the arrival
// time is pinned by the query and what varies between candidates is how
// late you can still leave. calc.IsBetter already encodes which direction
// "better" runs, so DAS reuses it instead of hardcoding a sign.
type DASEntry struct {
	Legs           []pathmapper.Leg
	Time           int64
	NumTransfers   int64
	Cost           int64
	TravelDuration int64
	heuristic      bool
}

func (e *DASEntry) coords() [4]int64 {
	return [4]int64{e.Time, e.NumTransfers, e.Cost, e.TravelDuration}
}

// NewDASEntry derives an entry's dominance coordinates from its leg list,
// which the Path Mapper contract (spec §4.7) guarantees is already
// chronologically ordered with Access first and Egress last, regardless of
// which direction the underlying search ran in. round is the RAPTOR round the
// journey was committed at (round transit boardings, so round - 1 transfers,
// per spec: "numTransfers = previous.round - 1" at the moment of egress
// attachment); it is not
// recovered by counting Transfer legs, since an ordinary same-stop
// continuation onto a different pattern advances the round without ever
// producing an explicit Transfer leg.
func NewDASEntry(legs []pathmapper.Leg, dir model.Direction, cost int64, round int) *DASEntry {
	e := &DASEntry{Legs: legs, Cost: cost, NumTransfers: int64(round - 1)}
	if dir == model.Reverse {
		e.Time = legs[0].DepartureTime
	} else {
		e.Time = legs[len(legs)-1].ArrivalTime
	}
	for _, l := range legs {
		if l.Kind == pathmapper.Transit {
			e.TravelDuration += l.RideDuration()
		}
	}
	return e
}

// DefaultDASCap bounds the destination set the same way per-stop pareto sets
// are bounded (spec §9).
const DefaultDASCap = 16

// DAS is the Destination Arrival Set (spec §4.6): a bounded pareto set of
// whole-journey candidates compared on (time, transfers, cost, travel
// duration) with the epsilon-relaxed cost rule.
type DAS struct {
	set                            *state.ParetoSet[*DASEntry]
	c                              calc.Calculator
	eps                            float64
	allowNegativeTransferAllowance bool
}

// NewDAS builds an empty Destination Arrival Set. allowNegativeTransferAllowance
// is forwarded to Dominates4WithRelaxedCost on every comparison (spec §9 Open
// Question).
func NewDAS(c calc.Calculator, capacity int, eps float64, allowNegativeTransferAllowance bool, onEvict func()) *DAS {
	if capacity <= 0 {
		capacity = DefaultDASCap
	}
	d := &DAS{c: c, eps: eps, allowNegativeTransferAllowance: allowNegativeTransferAllowance}
	d.set = state.NewParetoSet[*DASEntry](capacity, d.dominates, d.rank, onEvict)
	return d
}

func (d *DAS) dominates(a, b *DASEntry) bool {
	timeNoWorse := !d.c.IsBetter(b.Time, a.Time)
	timeBetter := d.c.IsBetter(a.Time, b.Time)
	return state.Dominates4WithRelaxedCost(a.coords(), b.coords(), timeNoWorse, timeBetter, d.eps, d.allowNegativeTransferAllowance)
}

func (d *DAS) rank(e *DASEntry) [3]int64 {
	sign := int64(1)
	if d.c.Direction() == model.Reverse {
		sign = -1
	}
	return [3]int64{sign * e.Time, e.NumTransfers, e.Cost}
}

// Offer proposes a destination candidate, returning true iff it survives.
func (d *DAS) Offer(e *DASEntry) bool { return d.set.Offer(e) }

// SeedHeuristic offers an optimistic, non-reportable lower-bound candidate
// that only tightens dominance early (spec §12's heuristic pre-population);
// it never itself appears in Results.
func (d *DAS) SeedHeuristic(e *DASEntry) {
	e.heuristic = true
	d.set.Offer(e)
}

// Results returns the surviving, non-heuristic destination candidates.
func (d *DAS) Results() []*DASEntry {
	all := d.set.Iter()
	out := make([]*DASEntry, 0, len(all))
	for _, e := range all {
		if !e.heuristic {
			out = append(out, e)
		}
	}
	return out
}

// Len reports how many candidates (including heuristic seeds) currently
// survive.
func (d *DAS) Len() int { return d.set.Len() }
