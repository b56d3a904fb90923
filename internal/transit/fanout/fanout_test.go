package fanout_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity/transitcore/internal/transit"
	"github.com/antigravity/transitcore/internal/transit/fanout"
	"github.com/antigravity/transitcore/internal/transit/model"
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

func TestRunPreservesInputOrderAcrossConcurrentRequests(t *testing.T) {
	provider := oneTripProvider(t)

	reqs := make([]*transit.Request, 0, 5)
	for i := 0; i < 5; i++ {
		reqs = append(reqs, &transit.Request{
			ID:         "req",
			AccessLegs: []model.Leg{{Stop: 0}},
			EgressLegs: []model.Leg{{Stop: 1}},
		})
	}

	responses, errs := fanout.Run(context.Background(), provider, reqs, 2)
	require.Len(t, responses, 5)
	require.Len(t, errs, 5)
	for i := range responses {
		assert.NoError(t, errs[i])
		require.NotNil(t, responses[i])
		assert.Len(t, responses[i].Paths, 1)
	}
}

func TestRunOneRequestsErrorDoesNotAbortSiblings(t *testing.T) {
	provider := oneTripProvider(t)

	good := &transit.Request{AccessLegs: []model.Leg{{Stop: 0}}, EgressLegs: []model.Leg{{Stop: 1}}}
	bad := &transit.Request{MaxTransfers: -1, AccessLegs: []model.Leg{{Stop: 0}}, EgressLegs: []model.Leg{{Stop: 1}}}

	responses, errs := fanout.Run(context.Background(), provider, []*transit.Request{good, bad, good}, 0)
	require.Len(t, responses, 3)
	assert.NoError(t, errs[0])
	assert.Error(t, errs[1])
	assert.NoError(t, errs[2])
	assert.NotNil(t, responses[0])
	assert.NotNil(t, responses[2])
}

func TestRunDefaultsLimitWhenNonPositive(t *testing.T) {
	provider := oneTripProvider(t)
	req := &transit.Request{AccessLegs: []model.Leg{{Stop: 0}}, EgressLegs: []model.Leg{{Stop: 1}}}

	responses, errs := fanout.Run(context.Background(), provider, []*transit.Request{req}, -1)
	require.Len(t, responses, 1)
	assert.NoError(t, errs[0])
}
