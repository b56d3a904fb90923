package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antigravity/transitcore/internal/transit/calc"
	"github.com/antigravity/transitcore/internal/transit/fare"
	"github.com/antigravity/transitcore/internal/transit/state"
)

func TestArrivalDominatesStrictlyBetterOnAll(t *testing.T) {
	c := calc.Forward{}
	a := &state.Arrival{ArrivalTime: 100, Round: 1, Cost: 5}
	b := &state.Arrival{ArrivalTime: 200, Round: 2, Cost: 10}
	assert.True(t, state.ArrivalDominates(c, a, b, false))
	assert.False(t, state.ArrivalDominates(c, b, a, false))
}

func TestArrivalDominatesTiedDoesNotDominate(t *testing.T) {
	c := calc.Forward{}
	a := &state.Arrival{ArrivalTime: 100, Round: 1, Cost: 5}
	b := &state.Arrival{ArrivalTime: 100, Round: 1, Cost: 5}
	assert.False(t, state.ArrivalDominates(c, a, b, false), "identical arrivals must not dominate each other")
}

func TestArrivalDominatesIncomparableWhenBetterOnOneWorseOnAnother(t *testing.T) {
	c := calc.Forward{}
	a := &state.Arrival{ArrivalTime: 90, Round: 2, Cost: 5}
	b := &state.Arrival{ArrivalTime: 100, Round: 1, Cost: 5}
	assert.False(t, state.ArrivalDominates(c, a, b, false))
	assert.False(t, state.ArrivalDominates(c, b, a, false))
}

func TestArrivalDominatesReverseDirectionFlipsTimeSense(t *testing.T) {
	c := calc.Reverse{}
	// In reverse search a later departure (closer to the deadline) is better.
	a := &state.Arrival{ArrivalTime: 200, Round: 1, Cost: 5}
	b := &state.Arrival{ArrivalTime: 100, Round: 1, Cost: 5}
	assert.True(t, state.ArrivalDominates(c, a, b, false))
}

func TestArrivalDominatesDifferingFareTagsNeverDominate(t *testing.T) {
	c := calc.Forward{}
	a := &state.Arrival{ArrivalTime: 100, Round: 1, Cost: 5, FareTag: &fare.Tag{Value: "x", ExpiresAt: 1000}}
	b := &state.Arrival{ArrivalTime: 200, Round: 2, Cost: 10, FareTag: &fare.Tag{Value: "y", ExpiresAt: 1000}}
	assert.False(t, state.ArrivalDominates(c, a, b, false))
}

func TestArrivalDominatesSameFareTagsComparedNormally(t *testing.T) {
	c := calc.Forward{}
	tag := &fare.Tag{Value: "x", ExpiresAt: 1000}
	a := &state.Arrival{ArrivalTime: 100, Round: 1, Cost: 5, FareTag: tag}
	b := &state.Arrival{ArrivalTime: 200, Round: 2, Cost: 10, FareTag: tag}
	assert.True(t, state.ArrivalDominates(c, a, b, false))
}

func TestArrivalRankOrdersByTimeThenRoundThenCost(t *testing.T) {
	rank := state.ArrivalRank(1)
	a := &state.Arrival{ArrivalTime: 50, Round: 1, Cost: 3}
	assert.Equal(t, [3]int64{50, 1, 3}, rank(a))

	revRank := state.ArrivalRank(-1)
	assert.Equal(t, [3]int64{-50, 1, 3}, revRank(a))
}

func TestDominates4WithRelaxedCostExactCost(t *testing.T) {
	x := [4]int64{100, 1, 10, 300}
	y := [4]int64{100, 1, 12, 300}
	assert.True(t, state.Dominates4WithRelaxedCost(x, y, true, false, 0, false))
	assert.False(t, state.Dominates4WithRelaxedCost(y, x, true, false, 0, false))
}

func TestDominates4WithRelaxedCostEpsilonAllowsSlightlyHigherCost(t *testing.T) {
	x := [4]int64{100, 1, 11, 250} // same time/round, shorter travel duration
	y := [4]int64{100, 1, 10, 300}
	// x's cost (11) is not <= y's (10), but within 20% epsilon of y's cost,
	// and x strictly improves travel duration, so x still dominates.
	assert.True(t, state.Dominates4WithRelaxedCost(x, y, true, false, 0.20, false))
}

func TestDominates4WithRelaxedCostZeroEpsilonIsStrict(t *testing.T) {
	x := [4]int64{100, 1, 11, 250}
	y := [4]int64{100, 1, 10, 300}
	assert.False(t, state.Dominates4WithRelaxedCost(x, y, true, false, 0, false))
}

func TestArrivalDominatesAllowNegativeTransferAllowanceIgnoresCost(t *testing.T) {
	c := calc.Forward{}
	// a is costlier but otherwise tied; under the ordinary rule neither
	// dominates (tied time/round, worse cost). With the allowance flag set,
	// cost drops out of the comparison entirely and a's equal time/round
	// alone still isn't strictly better, so it still doesn't dominate —
	// but b (cheaper, tied time/round) no longer dominates a either, since
	// cost can no longer be the deciding coordinate.
	a := &state.Arrival{ArrivalTime: 100, Round: 1, Cost: 50}
	b := &state.Arrival{ArrivalTime: 100, Round: 1, Cost: 5}
	assert.False(t, state.ArrivalDominates(c, b, a, true), "cost must not decide dominance once negative transfer allowances are permitted")

	// better strictly improves time and round on worse while costing more;
	// time and round alone should still let the costlier, earlier, lower-round
	// candidate dominate when the allowance flag is in effect.
	better := &state.Arrival{ArrivalTime: 100, Round: 1, Cost: 9999}
	worse := &state.Arrival{ArrivalTime: 150, Round: 2, Cost: 1}
	assert.True(t, state.ArrivalDominates(c, better, worse, true))
}

func TestDominates4WithRelaxedCostAllowNegativeTransferAllowanceIgnoresCost(t *testing.T) {
	cheaperButLater := [4]int64{150, 2, 1, 300}
	costlierButEarlier := [4]int64{100, 1, 9999, 300}
	assert.True(t, state.Dominates4WithRelaxedCost(costlierButEarlier, cheaperButLater, true, true, 0, true))
	assert.False(t, state.Dominates4WithRelaxedCost(cheaperButLater, costlierButEarlier, false, false, 0, true), "cost must not let the cheaper-but-later candidate dominate once the allowance flag is in effect")
}
