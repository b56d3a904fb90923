// Package tripsearch implements the Trip Schedule Search: given a pattern, a
// stop position, and a time threshold, find the earliest boardable (forward)
// or latest alightable (reverse) trip (spec §4.2).
package tripsearch

import (
	"sort"

	"github.com/antigravity/transitcore/internal/transit/model"
)

// BinaryThreshold is the trip count above which FindBoardable/FindAlightable
// switch from a backward linear scan to a binary search plus short sweep.
const BinaryThreshold = 50

// backwardSweepWindow bounds the short linear re-check performed at a
// binary-search hint before the sweep toward the bound. The neighbouring trip
// past the hint already fails the threshold, so in practice that re-check
// stops after examining the hint trip itself.
const backwardSweepWindow = 8

// InServiceFunc reports whether a trip is running on the service day/pattern
// being searched. It is supplied by the caller at request time; the core
// never interprets calendars itself.
type InServiceFunc func(pattern model.PatternIndex, trip model.TripIndex) bool

// AlwaysInService is the default predicate: every trip is considered active.
func AlwaysInService(model.PatternIndex, model.TripIndex) bool { return true }

// NotFound is returned as the trip index when no boardable/alightable trip
// exists; callers should check the accompanying bool instead of comparing
// against this sentinel directly.
const NotFound model.TripIndex = -1

// FindBoardable returns the earliest trip on pattern whose departure at
// stopPos is strictly greater than threshold. If upperBound >= 0, only trips
// with index < upperBound are considered (the caller already boarded trip
// upperBound earlier in this round's sweep, so nothing at or after it can
// improve on that). Trips for which inService returns false are skipped;
// they do not interrupt the scan, since the non-overtaking invariant is a
// property of the schedule, not of which trips happen to run today.
func FindBoardable(patternIdx model.PatternIndex, pattern *model.Pattern, stopPos int, threshold int64, upperBound int, inService InServiceFunc) (model.TripIndex, bool) {
	n := pattern.NumTrips()
	if upperBound >= 0 && upperBound < n {
		n = upperBound
	}
	if n == 0 {
		return NotFound, false
	}
	if inService == nil {
		inService = AlwaysInService
	}

	if n <= BinaryThreshold {
		return boardLinearBackward(patternIdx, pattern, stopPos, threshold, n, inService)
	}

	// Binary search for the smallest index k with Departure[stopPos] > threshold,
	// ignoring service status. This assumes departures at stopPos ascend with
	// trip index; Pattern.Validate checks that only for departures at stop 0
	// (and for arrivals at every stop).
	k := sort.Search(n, func(i int) bool {
		return pattern.Trips[i].Departure[stopPos] > threshold
	})
	if k >= n {
		return NotFound, false
	}

	// Short backward sweep from the hint. Every index below k departs at or
	// before threshold (k is the smallest that does not), so this returns
	// trip k if it is in service and otherwise stops at k-1.
	for i := k; i >= 0 && k-i <= backwardSweepWindow; i-- {
		if pattern.Trips[i].Departure[stopPos] <= threshold {
			break
		}
		if inService(patternIdx, model.TripIndex(i)) {
			return model.TripIndex(i), true
		}
	}
	// Forward sweep from the hint toward the upper bound for the nearest
	// in-service trip.
	for i := k; i < n; i++ {
		if inService(patternIdx, model.TripIndex(i)) {
			return model.TripIndex(i), true
		}
	}
	return NotFound, false
}

func boardLinearBackward(patternIdx model.PatternIndex, pattern *model.Pattern, stopPos int, threshold int64, n int, inService InServiceFunc) (model.TripIndex, bool) {
	best := NotFound
	found := false
	for i := n - 1; i >= 0; i-- {
		dep := pattern.Trips[i].Departure[stopPos]
		if dep <= threshold {
			// Departures are ascending; every lower index also fails.
			break
		}
		if inService(patternIdx, model.TripIndex(i)) {
			best = model.TripIndex(i)
			found = true
			// Keep scanning: a smaller index is strictly better (it arrives
			// no later anywhere on the pattern) and may still be boardable.
		}
	}
	return best, found
}

// FindAlightable returns the latest trip on pattern whose arrival at stopPos
// is strictly less than threshold. If lowerBound >= 0, only trips with index
// > lowerBound are considered. Symmetric to FindBoardable.
func FindAlightable(patternIdx model.PatternIndex, pattern *model.Pattern, stopPos int, threshold int64, lowerBound int, inService InServiceFunc) (model.TripIndex, bool) {
	n := pattern.NumTrips()
	start := 0
	if lowerBound >= 0 {
		start = lowerBound + 1
	}
	if start >= n {
		return NotFound, false
	}
	if inService == nil {
		inService = AlwaysInService
	}

	count := n - start
	if count <= BinaryThreshold {
		return alightLinearForward(patternIdx, pattern, stopPos, threshold, start, n, inService)
	}

	// Binary search for the largest index k with Arrival[stopPos] < threshold:
	// equivalently, the smallest index j such that Arrival[stopPos] >= threshold,
	// and k = j-1.
	j := start + sort.Search(n-start, func(i int) bool {
		return pattern.Trips[start+i].Arrival[stopPos] >= threshold
	})
	k := j - 1
	if k < start {
		return NotFound, false
	}

	for i := k; i < n && i-k <= backwardSweepWindow; i++ {
		if pattern.Trips[i].Arrival[stopPos] >= threshold {
			break
		}
		if inService(patternIdx, model.TripIndex(i)) {
			return model.TripIndex(i), true
		}
	}
	for i := k; i >= start; i-- {
		if inService(patternIdx, model.TripIndex(i)) {
			return model.TripIndex(i), true
		}
	}
	return NotFound, false
}

func alightLinearForward(patternIdx model.PatternIndex, pattern *model.Pattern, stopPos int, threshold int64, start, n int, inService InServiceFunc) (model.TripIndex, bool) {
	best := NotFound
	found := false
	for i := start; i < n; i++ {
		arr := pattern.Trips[i].Arrival[stopPos]
		if arr >= threshold {
			break
		}
		if inService(patternIdx, model.TripIndex(i)) {
			best = model.TripIndex(i)
			found = true
		}
	}
	return best, found
}

// SearchFunc is the direction-selected trip search: board for forward,
// alight for reverse (spec §4.1's "trip-search factory").
type SearchFunc func(patternIdx model.PatternIndex, pattern *model.Pattern, stopPos int, threshold int64, bound int, inService InServiceFunc) (model.TripIndex, bool)

// For returns the board search for model.Forward and the alight search for
// model.Reverse.
func For(d model.Direction) SearchFunc {
	if d == model.Reverse {
		return FindAlightable
	}
	return FindBoardable
}
