package pathmapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antigravity/transitcore/internal/transit/model"
	"github.com/antigravity/transitcore/internal/transit/pathmapper"
	"github.com/antigravity/transitcore/internal/transit/state"
)

func TestFromArrivalForwardReconstructsChronologicalOrder(t *testing.T) {
	root := &state.Arrival{Stop: 0, DepartureTime: 0, ArrivalTime: 0, Pred: state.Predecessor{Kind: state.AccessKind}}
	transit := &state.Arrival{
		Stop: 1, ArrivalTime: 100,
		Pred: state.Predecessor{Kind: state.TransitKind, BoardStop: 0, BoardTime: 0, Pattern: 1, Trip: 2, Prev: root},
	}
	xfer := &state.Arrival{
		Stop: 2, DepartureTime: 100, ArrivalTime: 110,
		Pred: state.Predecessor{Kind: state.TransferKind, FromStop: 1, Prev: transit},
	}

	legs := pathmapper.FromArrival(xfer, model.Forward)

	assert.Len(t, legs, 3)
	assert.Equal(t, pathmapper.Access, legs[0].Kind)
	assert.Equal(t, model.StopIndex(0), legs[0].ToStop)

	assert.Equal(t, pathmapper.Transit, legs[1].Kind)
	assert.Equal(t, model.StopIndex(0), legs[1].FromStop)
	assert.Equal(t, model.StopIndex(1), legs[1].ToStop)
	assert.Equal(t, int64(0), legs[1].DepartureTime)
	assert.Equal(t, int64(100), legs[1].ArrivalTime)
	assert.Equal(t, int64(100), legs[1].RideDuration())

	assert.Equal(t, pathmapper.Transfer, legs[2].Kind)
	assert.Equal(t, model.StopIndex(1), legs[2].FromStop)
	assert.Equal(t, model.StopIndex(2), legs[2].ToStop)
	assert.Equal(t, int64(100), legs[2].DepartureTime)
	assert.Equal(t, int64(110), legs[2].ArrivalTime)
}

func TestFromArrivalReverseAlreadyChronological(t *testing.T) {
	root := &state.Arrival{Stop: 2, DepartureTime: 500, ArrivalTime: 520, Pred: state.Predecessor{Kind: state.AccessKind}}
	dest := &state.Arrival{
		Stop: 1, ArrivalTime: 450,
		Pred: state.Predecessor{Kind: state.TransitKind, BoardStop: 2, BoardTime: 500, Pattern: 3, Trip: 4, Prev: root},
	}

	legs := pathmapper.FromArrival(dest, model.Reverse)

	assert.Len(t, legs, 2)
	assert.Equal(t, pathmapper.Transit, legs[0].Kind)
	assert.Equal(t, model.StopIndex(1), legs[0].FromStop)
	assert.Equal(t, model.StopIndex(2), legs[0].ToStop)
	assert.Equal(t, int64(450), legs[0].DepartureTime)
	assert.Equal(t, int64(500), legs[0].ArrivalTime)

	assert.Equal(t, pathmapper.Egress, legs[1].Kind)
	assert.Equal(t, model.StopIndex(2), legs[1].FromStop)
	assert.Equal(t, int64(500), legs[1].DepartureTime)
	assert.Equal(t, int64(520), legs[1].ArrivalTime)
}

type fakeChain map[int]state.Predecessor

func key(round int, stop model.StopIndex) int { return round*1000 + int(stop) }

func (c fakeChain) Predecessor(round int, stop model.StopIndex) state.Predecessor {
	return c[key(round, stop)]
}

func TestFromBestTimesWalksRoundsBackToAccess(t *testing.T) {
	c := fakeChain{}
	c[key(0, 0)] = state.Predecessor{Kind: state.AccessKind, DepartureTime: 0, ArrivalTime: 0}
	c[key(1, 1)] = state.Predecessor{Kind: state.TransitKind, BoardStop: 0, BoardTime: 0, ArrivalTime: 100, Pattern: 1, Trip: 2}
	c[key(1, 2)] = state.Predecessor{Kind: state.TransferKind, FromStop: 1, DepartureTime: 100, ArrivalTime: 110}

	legs := pathmapper.FromBestTimes(c, 1, 2, model.Forward)

	assert.Len(t, legs, 3)
	assert.Equal(t, pathmapper.Access, legs[0].Kind)
	assert.Equal(t, pathmapper.Transit, legs[1].Kind)
	assert.Equal(t, model.StopIndex(0), legs[1].FromStop)
	assert.Equal(t, model.StopIndex(1), legs[1].ToStop)
	assert.Equal(t, pathmapper.Transfer, legs[2].Kind)
	assert.Equal(t, model.StopIndex(1), legs[2].FromStop)
	assert.Equal(t, model.StopIndex(2), legs[2].ToStop)
}

func TestFromBestTimesTransferStaysInSameRound(t *testing.T) {
	c := fakeChain{}
	c[key(0, 0)] = state.Predecessor{Kind: state.AccessKind}
	c[key(2, 5)] = state.Predecessor{Kind: state.TransitKind, BoardStop: 0, ArrivalTime: 90}
	// Note: the transfer entry is written at round 2 (same round as the
	// transit leg that produced it), not round 3.
	c[key(2, 6)] = state.Predecessor{Kind: state.TransferKind, FromStop: 5, DepartureTime: 90, ArrivalTime: 95}

	legs := pathmapper.FromBestTimes(c, 2, 6, model.Forward)
	assert.Len(t, legs, 3)
	assert.Equal(t, pathmapper.Transfer, legs[2].Kind)
	assert.Equal(t, pathmapper.Transit, legs[1].Kind)
}
