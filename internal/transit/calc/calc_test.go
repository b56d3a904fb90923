package calc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antigravity/transitcore/internal/transit/calc"
	"github.com/antigravity/transitcore/internal/transit/model"
)

func TestForwardArithmetic(t *testing.T) {
	c := calc.Forward{}
	assert.Equal(t, int64(130), c.Add(100, 30))
	assert.Equal(t, int64(70), c.Sub(100, 30))
	assert.True(t, c.IsBetter(10, 20))
	assert.False(t, c.IsBetter(20, 10))
	assert.Equal(t, int64(160), c.EarliestBoardTime(100, 60))
	assert.Equal(t, model.Forward, c.Direction())
}

func TestReverseArithmetic(t *testing.T) {
	c := calc.Reverse{}
	assert.Equal(t, int64(70), c.Add(100, 30))
	assert.Equal(t, int64(130), c.Sub(100, 30))
	assert.True(t, c.IsBetter(20, 10))
	assert.False(t, c.IsBetter(10, 20))
	assert.Equal(t, int64(100), c.EarliestBoardTime(100, 60))
	assert.Equal(t, model.Reverse, c.Direction())
}

func TestIterationMinutesOrder(t *testing.T) {
	fwd := calc.Forward{}.IterationMinutes(0, 180, 60)
	assert.Equal(t, []int64{180, 120, 60, 0}, fwd)

	rev := calc.Reverse{}.IterationMinutes(0, 180, 60)
	assert.Equal(t, []int64{0, 60, 120, 180}, rev)
}

func TestIterationMinutesZeroWindowIsSingleIteration(t *testing.T) {
	fwd := calc.Forward{}.IterationMinutes(100, 0, 60)
	assert.Equal(t, []int64{100}, fwd)
}

func TestStopPositionsDirection(t *testing.T) {
	p := &model.Pattern{Stops: []model.StopIndex{0, 1, 2, 3}}
	assert.Equal(t, []int{0, 1, 2, 3}, calc.Forward{}.StopPositions(p))
	assert.Equal(t, []int{3, 2, 1, 0}, calc.Reverse{}.StopPositions(p))
}

func TestForSelectsImplementation(t *testing.T) {
	assert.Equal(t, model.Forward, calc.For(model.Forward).Direction())
	assert.Equal(t, model.Reverse, calc.For(model.Reverse).Direction())
}
