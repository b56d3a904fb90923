package state

import (
	"github.com/antigravity/transitcore/internal/transit/calc"
	"github.com/antigravity/transitcore/internal/transit/fare"
)

// ArrivalDominates implements the per-stop McRAPTOR comparator (spec §4.5):
// strict non-dominance on (arrival time, round, cost), with an optional
// fare-transfer-source tag coordinate. When both arrivals carry a tag and
// the tags differ, neither dominates the other on that coordinate alone, so
// both survive regardless of how the numeric coordinates compare. c decides
// which direction "better" runs on the time coordinate, so the same
// comparator serves forward and reverse search without branching.
//
// allowNegativeTransferAllowance disables the cost coordinate entirely (spec
// §9 Open Question): a fare observer permitted to grant a negative transfer
// allowance can make a journey that looks costlier now strictly cheaper
// later, so cost stops being monotonic along a round's pareto front and can
// no longer be used to prune. The core never interprets the allowance
// itself — it only drops the comparator's reliance on the theorem the
// allowance would otherwise violate, per the caller-supplied flag.
func ArrivalDominates(c calc.Calculator, a, b *Arrival, allowNegativeTransferAllowance bool) bool {
	if (a.FareTag != nil || b.FareTag != nil) && !fare.Equal(a.FareTag, b.FareTag) {
		return false
	}
	timeNoWorse := !c.IsBetter(b.ArrivalTime, a.ArrivalTime)
	timeBetter := c.IsBetter(a.ArrivalTime, b.ArrivalTime)
	if allowNegativeTransferAllowance {
		le := timeNoWorse && a.Round <= b.Round
		lt := timeBetter || a.Round < b.Round
		return le && lt
	}
	le := timeNoWorse && a.Round <= b.Round && a.Cost <= b.Cost
	lt := timeBetter || a.Round < b.Round || a.Cost < b.Cost
	return le && lt
}

// ArrivalRank produces the eviction key for a per-stop pareto set: worst
// sorts last and is evicted first. timeSign is +1 for forward search and -1
// for reverse, so "worst" (largest key) always means "latest to arrive" in
// direction-correct terms.
func ArrivalRank(timeSign int64) func(a *Arrival) [3]int64 {
	return func(a *Arrival) [3]int64 {
		return [3]int64{timeSign * a.ArrivalTime, int64(a.Round), a.Cost}
	}
}

// Dominates4WithRelaxedCost implements the Destination Arrival Set
// comparator (spec §4.6): (arrival time, transfers, cost, travel duration),
// with an epsilon-relaxed cost test ("relaxed cost dominance", spec §4.5/§9)
// — x's cost only needs to stay below y's cost times (1+eps) to count as "no
// worse", so a near-tied but otherwise-better alternative on the other three
// coordinates survives instead of being evicted by a marginally cheaper one.
// timeBetter must report whether x's arrival time is strictly better than
// y's under the search direction in effect. allowNegativeTransferAllowance
// drops the cost coordinate from both the "no worse" and "strictly better"
// tests, the same relaxation ArrivalDominates applies and for the same
// reason (spec §9 Open Question).
func Dominates4WithRelaxedCost(x, y [4]int64, timeNoWorse, timeBetter bool, eps float64, allowNegativeTransferAllowance bool) bool {
	if allowNegativeTransferAllowance {
		le := timeNoWorse && x[1] <= y[1] && x[3] <= y[3]
		lt := timeBetter || x[1] < y[1] || x[3] < y[3]
		return le && lt
	}
	costOK := x[2] <= y[2]
	if !costOK && eps > 0 {
		costOK = float64(x[2]) < float64(y[2])*(1+eps)
	}
	le := timeNoWorse && x[1] <= y[1] && costOK && x[3] <= y[3]
	lt := timeBetter || x[1] < y[1] || x[2] < y[2] || x[3] < y[3]
	return le && lt
}
