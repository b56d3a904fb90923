package reference_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antigravity/transitcore/internal/transit/fare"
	"github.com/antigravity/transitcore/internal/transit/fare/reference"
)

func TestFirstBoardingAlwaysPaysBaseFare(t *testing.T) {
	obs := reference.FlatFareObserver{BaseFare: 275, TransferWindowSeconds: 7200}
	cost, tag := obs.OnBoard(fare.BoardingContext{BoardTime: 1000})
	assert.Equal(t, int64(275), cost)
	assert.NotNil(t, tag)
	assert.Equal(t, "fresh", tag.Value)
	assert.Equal(t, int64(1000+7200), tag.ExpiresAt)
}

func TestBoardingWithinWindowIsFree(t *testing.T) {
	obs := reference.FlatFareObserver{BaseFare: 275, TransferWindowSeconds: 7200}
	prevTag := &fare.Tag{Value: "fresh", ExpiresAt: 8000}

	cost, tag := obs.OnBoard(fare.BoardingContext{BoardTime: 5000, PreviousTag: prevTag})
	assert.Equal(t, int64(0), cost)
	assert.Equal(t, "used", tag.Value)
	assert.Equal(t, int64(8000), tag.ExpiresAt, "the free-transfer window does not extend on reuse")
}

func TestBoardingAfterWindowPaysAgain(t *testing.T) {
	obs := reference.FlatFareObserver{BaseFare: 275, TransferWindowSeconds: 7200}
	prevTag := &fare.Tag{Value: "fresh", ExpiresAt: 8000}

	cost, tag := obs.OnBoard(fare.BoardingContext{BoardTime: 9000, PreviousTag: prevTag})
	assert.Equal(t, int64(275), cost)
	assert.Equal(t, "fresh", tag.Value)
}

func TestBoardingExactlyAtExpiryIsStillFree(t *testing.T) {
	obs := reference.FlatFareObserver{BaseFare: 275, TransferWindowSeconds: 7200}
	prevTag := &fare.Tag{Value: "fresh", ExpiresAt: 8000}

	cost, _ := obs.OnBoard(fare.BoardingContext{BoardTime: 8000, PreviousTag: prevTag})
	assert.Equal(t, int64(0), cost)
}
