package tdp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antigravity/transitcore/internal/transit/model"
	"github.com/antigravity/transitcore/internal/transit/tdp"
)

func validPattern() model.Pattern {
	return model.Pattern{
		Stops: []model.StopIndex{0, 1, 2},
		Trips: []model.TripSchedule{
			{Arrival: []int64{0, 60, 120}, Departure: []int64{0, 60, 120}},
			{Arrival: []int64{100, 160, 220}, Departure: []int64{100, 160, 220}},
		},
	}
}

func TestNewBuildsStopPatternIndex(t *testing.T) {
	stops := []model.Stop{{Index: 0}, {Index: 1}, {Index: 2}}
	p, err := tdp.New(stops, []model.Pattern{validPattern()}, nil)
	assert.NoError(t, err)
	assert.Equal(t, 3, p.NumberOfStops())
	assert.Equal(t, 1, p.NumberOfPatterns())

	refs := p.PatternsContainingStop(1)
	assert.Len(t, refs, 1)
	assert.Equal(t, model.PatternIndex(0), refs[0].Pattern)
	assert.Equal(t, 1, refs[0].Position)
}

func TestNewRejectsMalformedPattern(t *testing.T) {
	stops := []model.Stop{{Index: 0}, {Index: 1}}
	bad := model.Pattern{
		Stops: []model.StopIndex{0, 1},
		Trips: []model.TripSchedule{
			{Arrival: []int64{0, 60}, Departure: []int64{0, 60}},
			{Arrival: []int64{10, 40}, Departure: []int64{10, 40}}, // overtakes trip 0
		},
	}
	_, err := tdp.New(stops, []model.Pattern{bad}, nil)
	assert.Error(t, err)
}

func TestNewRejectsOutOfRangePatternStop(t *testing.T) {
	stops := []model.Stop{{Index: 0}}
	p := validPattern() // references stop 2, only 1 stop declared
	_, err := tdp.New(stops, []model.Pattern{p}, nil)
	assert.Error(t, err)
}

func TestNewRejectsOutOfRangeTransfer(t *testing.T) {
	stops := []model.Stop{{Index: 0}, {Index: 1}}
	transfers := map[model.StopIndex][]model.Transfer{
		0: {{FromStop: 0, ToStop: 5, Duration: 60}},
	}
	_, err := tdp.New(stops, nil, transfers)
	assert.Error(t, err)
}

func TestTransfersFromAndStopAccessors(t *testing.T) {
	stops := []model.Stop{{Index: 0, WheelchairAccessible: true}, {Index: 1}}
	transfers := map[model.StopIndex][]model.Transfer{
		0: {{FromStop: 0, ToStop: 1, Duration: 90, Cost: 1}},
	}
	p, err := tdp.New(stops, nil, transfers)
	assert.NoError(t, err)

	assert.True(t, p.Stop(0).WheelchairAccessible)
	got := p.TransfersFrom(0)
	assert.Len(t, got, 1)
	assert.Equal(t, model.StopIndex(1), got[0].ToStop)
	assert.Empty(t, p.TransfersFrom(1))
}

func TestGetPatternReturnsSamePattern(t *testing.T) {
	stops := []model.Stop{{Index: 0}, {Index: 1}, {Index: 2}}
	pattern := validPattern()
	p, err := tdp.New(stops, []model.Pattern{pattern}, nil)
	assert.NoError(t, err)
	assert.Equal(t, 2, p.GetPattern(0).NumTrips())
}
