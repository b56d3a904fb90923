package tripsearch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antigravity/transitcore/internal/transit/model"
	"github.com/antigravity/transitcore/internal/transit/tripsearch"
)

func twoTripPattern() *model.Pattern {
	return &model.Pattern{
		Stops: []model.StopIndex{0, 1, 2},
		Trips: []model.TripSchedule{
			{Arrival: []int64{0, 60, 120}, Departure: []int64{0, 60, 120}},
			{Arrival: []int64{100, 160, 220}, Departure: []int64{100, 160, 220}},
		},
	}
}

func TestFindBoardableExactThreshold(t *testing.T) {
	p := twoTripPattern()
	idx, ok := tripsearch.FindBoardable(0, p, 0, 99, -1, tripsearch.AlwaysInService)
	assert.True(t, ok)
	assert.Equal(t, model.TripIndex(1), idx)

	_, ok = tripsearch.FindBoardable(0, p, 0, 100, -1, tripsearch.AlwaysInService)
	assert.False(t, ok, "departure == threshold must not be boardable")
}

func TestFindBoardableUpperBound(t *testing.T) {
	p := twoTripPattern()
	_, ok := tripsearch.FindBoardable(0, p, 0, -1, 1, tripsearch.AlwaysInService)
	assert.True(t, ok)
	idx, _ := tripsearch.FindBoardable(0, p, 0, -1, 1, tripsearch.AlwaysInService)
	assert.Equal(t, model.TripIndex(0), idx, "upperBound excludes trip 1")
}

func TestFindAlightableSymmetric(t *testing.T) {
	p := twoTripPattern()
	idx, ok := tripsearch.FindAlightable(0, p, 2, 221, -1, tripsearch.AlwaysInService)
	assert.True(t, ok)
	assert.Equal(t, model.TripIndex(1), idx)

	_, ok = tripsearch.FindAlightable(0, p, 2, 120, -1, tripsearch.AlwaysInService)
	assert.False(t, ok, "arrival == threshold must not be alightable")
}

func TestInServiceFilterSkipsTrip(t *testing.T) {
	p := twoTripPattern()
	notTrip1 := func(pattern model.PatternIndex, trip model.TripIndex) bool { return trip != 1 }
	idx, ok := tripsearch.FindBoardable(0, p, 0, -1, -1, notTrip1)
	assert.True(t, ok)
	assert.Equal(t, model.TripIndex(0), idx)
}

func TestForSelectsSearchByDirection(t *testing.T) {
	p := twoTripPattern()
	board := tripsearch.For(model.Forward)
	_, ok := board(0, p, 0, 50, -1, tripsearch.AlwaysInService)
	assert.True(t, ok)

	alight := tripsearch.For(model.Reverse)
	_, ok = alight(0, p, 2, 221, -1, tripsearch.AlwaysInService)
	assert.True(t, ok)
}

func TestLargePatternBinarySearchAgreesWithLinear(t *testing.T) {
	trips := make([]model.TripSchedule, tripsearch.BinaryThreshold+20)
	for i := range trips {
		t := int64(i * 60)
		trips[i] = model.TripSchedule{Arrival: []int64{t, t + 60}, Departure: []int64{t, t + 60}}
	}
	p := &model.Pattern{Stops: []model.StopIndex{0, 1}, Trips: trips}

	idx, ok := tripsearch.FindBoardable(0, p, 0, 3000, -1, tripsearch.AlwaysInService)
	assert.True(t, ok)
	assert.Equal(t, model.TripIndex(51), idx)
}
