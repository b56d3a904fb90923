package transit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity/transitcore/internal/transit"
	"github.com/antigravity/transitcore/internal/transit/model"
	"github.com/antigravity/transitcore/internal/transit/pathmapper"
	"github.com/antigravity/transitcore/internal/transit/tdp"
)

func oneTripProvider(t *testing.T) *tdp.InMemory {
	t.Helper()
	stops := []model.Stop{{Index: 0}, {Index: 1}}
	pattern := model.Pattern{
		Stops: []model.StopIndex{0, 1},
		Trips: []model.TripSchedule{{Arrival: []int64{100, 200}, Departure: []int64{100, 200}}},
	}
	p, err := tdp.New(stops, []model.Pattern{pattern}, nil)
	require.NoError(t, err)
	return p
}

func TestRunReturnsReconstructedPath(t *testing.T) {
	provider := oneTripProvider(t)
	req := &transit.Request{
		ID:                    "req-1",
		EarliestDepartureTime: 0,
		MaxTransfers:          0,
		AccessLegs:            []model.Leg{{Stop: 0}},
		EgressLegs:            []model.Leg{{Stop: 1}},
	}

	resp, err := transit.Run(context.Background(), provider, req)
	require.NoError(t, err)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.False(t, resp.Partial)
	require.Len(t, resp.Paths, 1)

	path := resp.Paths[0]
	require.Len(t, path.Legs, 3)
	assert.Equal(t, pathmapper.Access, path.Legs[0].Kind)
	assert.Equal(t, pathmapper.Egress, path.Legs[2].Kind)
	assert.Equal(t, int64(0), path.NumTransfers)
}

func TestValidateRejectsNegativeWindow(t *testing.T) {
	req := &transit.Request{SearchWindowSeconds: -1}
	err := req.Validate(10)
	require.Error(t, err)
	var terr *transit.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, transit.InvalidInput, terr.Kind)
}

func TestValidateRejectsNegativeMaxTransfers(t *testing.T) {
	req := &transit.Request{MaxTransfers: -1}
	err := req.Validate(10)
	require.Error(t, err)
}

func TestValidateRejectsOutOfRangeAccessLeg(t *testing.T) {
	req := &transit.Request{AccessLegs: []model.Leg{{Stop: 99}}}
	err := req.Validate(2)
	require.Error(t, err)
}

func TestValidateRejectsOutOfRangeEgressLeg(t *testing.T) {
	req := &transit.Request{EgressLegs: []model.Leg{{Stop: -1}}}
	err := req.Validate(2)
	require.Error(t, err)
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	req := &transit.Request{
		SearchWindowSeconds: 300,
		MaxTransfers:        3,
		AccessLegs:          []model.Leg{{Stop: 0}},
		EgressLegs:          []model.Leg{{Stop: 1}},
	}
	assert.NoError(t, req.Validate(2))
}

func TestRunRejectsInvalidRequestBeforeSearching(t *testing.T) {
	provider := oneTripProvider(t)
	req := &transit.Request{MaxTransfers: -1}
	_, err := transit.Run(context.Background(), provider, req)
	require.Error(t, err)
	var terr *transit.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, transit.InvalidInput, terr.Kind)
}

func TestRunReturnsPartialResponseOnCancellationInsteadOfError(t *testing.T) {
	provider := oneTripProvider(t)
	req := &transit.Request{
		AccessLegs: []model.Leg{{Stop: 0}},
		EgressLegs: []model.Leg{{Stop: 1}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resp, err := transit.Run(ctx, provider, req)
	assert.NoError(t, err, "a cancelled search is a partial result, not an error")
	assert.True(t, resp.Partial)
}

func TestRunNoPathsIsNotAnError(t *testing.T) {
	stops := []model.Stop{{Index: 0}, {Index: 1}}
	provider, err := tdp.New(stops, nil, nil)
	require.NoError(t, err)

	req := &transit.Request{
		AccessLegs: []model.Leg{{Stop: 0}},
		EgressLegs: []model.Leg{{Stop: 1}},
	}
	resp, err := transit.Run(context.Background(), provider, req)
	require.NoError(t, err)
	assert.Empty(t, resp.Paths)
	assert.False(t, resp.Partial)
}
