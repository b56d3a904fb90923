package state

import (
	"github.com/antigravity/transitcore/internal/transit/calc"
	"github.com/antigravity/transitcore/internal/transit/model"
)

// DefaultParetoCap is the per-stop pareto set size cap recommended by spec
// §9 to keep McRAPTOR tractable.
const DefaultParetoCap = 32

// Pareto is the McRAPTOR state store (spec §4.5): one bounded pareto set per
// stop, keyed on (arrival time, round, cost[, fare tag]). Unlike BestTimes,
// there is no separate "per round" array — round is itself a dominance
// coordinate — but the store still tracks which arrivals were accepted
// during the current round, both to drive the next round's touched-stop set
// and to give the worker the exact bag of previous-round arrivals to
// re-board from.
type Pareto struct {
	numStops                       int
	calc                           calc.Calculator
	cap                            int
	evicted                        int64
	allowNegativeTransferAllowance bool

	sets []*ParetoSet[*Arrival] // one per stop, authoritative across all rounds

	// roundArrivals[k][stop] holds every arrival accepted into sets[stop]
	// while processing round k (access seeding counts as round 0).
	roundArrivals []map[model.StopIndex][]*Arrival
	touched       map[model.StopIndex]bool
}

// NewPareto allocates a store for numStops stops, each capped at
// perStopCap (DefaultParetoCap if <= 0). allowNegativeTransferAllowance is
// forwarded to ArrivalDominates on every comparison (spec §9 Open Question).
func NewPareto(numStops int, c calc.Calculator, perStopCap int, allowNegativeTransferAllowance bool) *Pareto {
	if perStopCap <= 0 {
		perStopCap = DefaultParetoCap
	}
	timeSign := int64(1)
	if c.Direction() == model.Reverse {
		timeSign = -1
	}
	p := &Pareto{numStops: numStops, calc: c, cap: perStopCap, allowNegativeTransferAllowance: allowNegativeTransferAllowance}
	p.sets = make([]*ParetoSet[*Arrival], numStops)
	rank := ArrivalRank(timeSign)
	for i := range p.sets {
		p.sets[i] = NewParetoSet[*Arrival](perStopCap, func(a, b *Arrival) bool {
			return ArrivalDominates(c, a, b, allowNegativeTransferAllowance)
		}, rank, func() { p.evicted++ })
	}
	p.ResetIteration()
	return p
}

// ResetIteration clears every stop's pareto set for a fresh departure-minute
// iteration.
func (p *Pareto) ResetIteration() {
	timeSign := int64(1)
	if p.calc.Direction() == model.Reverse {
		timeSign = -1
	}
	rank := ArrivalRank(timeSign)
	for i, s := range p.sets {
		i := i
		p.sets[i] = NewParetoSet[*Arrival](p.cap, func(a, b *Arrival) bool {
			return ArrivalDominates(p.calc, a, b, p.allowNegativeTransferAllowance)
		}, rank, func() { p.evicted++ })
		_ = s
	}
	p.roundArrivals = nil
	p.touched = make(map[model.StopIndex]bool)
}

// BeginRound prepares bookkeeping for the start of processing round k.
func (p *Pareto) BeginRound(round int) {
	for len(p.roundArrivals) <= round {
		p.roundArrivals = append(p.roundArrivals, make(map[model.StopIndex][]*Arrival))
	}
	p.touched = make(map[model.StopIndex]bool)
}

// SeedAccess offers an access arrival at round 0.
func (p *Pareto) SeedAccess(a *Arrival) bool {
	return p.offer(0, a)
}

// OfferTransit offers a transit arrival produced during round.
func (p *Pareto) OfferTransit(round int, a *Arrival) bool {
	return p.offer(round, a)
}

// OfferTransfer offers a transfer arrival produced during round (transfers
// keep the round of the transit leg that produced them, spec §4.5).
func (p *Pareto) OfferTransfer(round int, a *Arrival) bool {
	return p.offer(round, a)
}

func (p *Pareto) offer(round int, a *Arrival) bool {
	if !p.sets[a.Stop].Offer(a) {
		return false
	}
	for len(p.roundArrivals) <= round {
		p.roundArrivals = append(p.roundArrivals, make(map[model.StopIndex][]*Arrival))
	}
	p.roundArrivals[round][a.Stop] = append(p.roundArrivals[round][a.Stop], a)
	p.touched[a.Stop] = true
	return true
}

// PreviousRoundArrivals returns every non-dominated arrival accepted at stop
// while round-1 was being processed — the bag McRAPTOR re-boards from at the
// start of round (spec §4.3's reboarding rule, generalized to a bag instead
// of a single best time).
func (p *Pareto) PreviousRoundArrivals(round int, stop model.StopIndex) []*Arrival {
	if round-1 < 0 || round-1 >= len(p.roundArrivals) {
		return nil
	}
	return p.roundArrivals[round-1][stop]
}

// TouchedStops returns every stop that had at least one arrival accepted
// since the last BeginRound.
func (p *Pareto) TouchedStops() []model.StopIndex {
	out := make([]model.StopIndex, 0, len(p.touched))
	for s := range p.touched {
		out = append(out, s)
	}
	return out
}

// StopSet returns the current non-dominated arrivals at stop.
func (p *Pareto) StopSet(stop model.StopIndex) []*Arrival {
	return p.sets[stop].Iter()
}

// EvictedCount reports how many arrivals have been evicted for exceeding
// the per-stop cap, across the lifetime of this store (spec §9 diagnostic
// counter).
func (p *Pareto) EvictedCount() int64 { return p.evicted }

// MaxSetSize reports the largest per-stop pareto set size currently held,
// surfaced as a diagnostic (spec §6 "pareto-set sizes").
func (p *Pareto) MaxSetSize() int {
	max := 0
	for _, s := range p.sets {
		if n := s.Len(); n > max {
			max = n
		}
	}
	return max
}
