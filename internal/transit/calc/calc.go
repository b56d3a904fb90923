// Package calc implements the Transit Calculator: direction-polymorphic time
// arithmetic so the range-RAPTOR worker can be written once and run forward
// (depart-at) or reverse (arrive-by) without branching (spec §4.1).
package calc

import (
	"math"

	"github.com/antigravity/transitcore/internal/transit/model"
)

// Calculator is injected into the worker at request start; two concrete
// implementations exist (Forward, Reverse).
type Calculator interface {
	// Add moves a time forward in the direction of travel.
	Add(t, delta int64) int64
	// Sub moves a time backward against the direction of travel.
	Sub(t, delta int64) int64
	// IsBetter reports whether a is a better arrival than b.
	IsBetter(a, b int64) bool
	// Unreached is the sentinel value for "no arrival yet".
	Unreached() int64
	// EarliestBoardTime applies board slack at the right point for this
	// direction: added at boarding forward, left untouched in reverse. The
	// reverse search applies no board slack anywhere else either.
	EarliestBoardTime(arrival, boardSlack int64) int64
	// IterationMinutes enumerates every departure-minute offset to run a
	// range-RAPTOR iteration at, in the direction-correct order.
	IterationMinutes(earliest, window, step int64) []int64
	// StopPositions returns the indices into pattern.Stops to sweep, in
	// pattern-direction order (ascending forward, descending reverse).
	StopPositions(pattern *model.Pattern) []int
	// OriginTime computes the journey's departure time at the origin given
	// the time of the first transit board and the access-leg duration.
	OriginTime(boardTime, accessDuration, boardSlack int64) int64
	// Direction reports which direction this calculator implements.
	Direction() model.Direction
}

// Forward implements depart-at search: time increases with travel.
type Forward struct{}

func (Forward) Add(t, delta int64) int64  { return t + delta }
func (Forward) Sub(t, delta int64) int64  { return t - delta }
func (Forward) IsBetter(a, b int64) bool  { return a < b }
func (Forward) Unreached() int64          { return math.MaxInt64 }
func (Forward) EarliestBoardTime(arrival, boardSlack int64) int64 {
	return arrival + boardSlack
}
func (Forward) Direction() model.Direction { return model.Forward }

// IterationMinutes enumerates from earliest+window down to earliest, so that
// range-RAPTOR processes the latest departure minute first. The worker
// resets its state store at the start of every minute, so no arrival state
// carries over from one minute to the next.
func (Forward) IterationMinutes(earliest, window, step int64) []int64 {
	if step <= 0 {
		step = 60
	}
	out := make([]int64, 0, window/step+1)
	for tau := earliest + window; tau >= earliest; tau -= step {
		out = append(out, tau)
	}
	if len(out) == 0 {
		out = append(out, earliest)
	}
	return out
}

func (Forward) StopPositions(pattern *model.Pattern) []int {
	n := pattern.NumStops()
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func (Forward) OriginTime(boardTime, accessDuration, boardSlack int64) int64 {
	return boardTime - (boardSlack + accessDuration)
}

// Reverse implements arrive-by search: the sign conventions of Forward are
// inverted so the same worker code produces a correct backward search.
type Reverse struct{}

func (Reverse) Add(t, delta int64) int64  { return t - delta }
func (Reverse) Sub(t, delta int64) int64  { return t + delta }
func (Reverse) IsBetter(a, b int64) bool  { return a > b }
func (Reverse) Unreached() int64          { return math.MinInt64 }
func (Reverse) EarliestBoardTime(arrival, boardSlack int64) int64 {
	return arrival // reverse search applies no board slack.
}
func (Reverse) Direction() model.Direction { return model.Reverse }

func (Reverse) IterationMinutes(earliest, window, step int64) []int64 {
	if step <= 0 {
		step = 60
	}
	out := make([]int64, 0, window/step+1)
	for tau := earliest; tau <= earliest+window; tau += step {
		out = append(out, tau)
	}
	if len(out) == 0 {
		out = append(out, earliest)
	}
	return out
}

func (Reverse) StopPositions(pattern *model.Pattern) []int {
	n := pattern.NumStops()
	out := make([]int, n)
	for i := range out {
		out[i] = n - 1 - i
	}
	return out
}

func (Reverse) OriginTime(boardTime, accessDuration, boardSlack int64) int64 {
	return boardTime + accessDuration
}

// For selects the calculator for a direction.
func For(d model.Direction) Calculator {
	if d == model.Reverse {
		return Reverse{}
	}
	return Forward{}
}
