// Package model defines the data types the transit search core operates on:
// stops, patterns, trip schedules, transfers, and access/egress legs. Values
// in this package are produced by a build pipeline external to this module
// and are treated as immutable for the lifetime of a search.
package model

import "fmt"

// StopIndex identifies a stop. Valid values are 0..NumStops-1.
type StopIndex int32

// PatternIndex identifies a pattern within a TransitDataProvider.
type PatternIndex int32

// TripIndex identifies a trip's position within a Pattern's Trips slice.
type TripIndex int32

// Direction selects forward (depart-at) or reverse (arrive-by) search.
type Direction uint8

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Profile selects the state-store variant used by a search.
type Profile uint8

const (
	// BestTimes runs single-criterion RAPTOR (earliest arrival only).
	BestTimes Profile = iota
	// MultiCriteria runs McRAPTOR, tracking pareto-optimal arrivals.
	MultiCriteria
)

// Stop is a single transit stop. The wheelchair flag is carried through
// unchanged; the core never branches on it (accessibility filtering, if any,
// happens in the access/egress leg list the caller supplies).
type Stop struct {
	Index                StopIndex
	WheelchairAccessible bool
}

// Transfer is a walking (or equivalent) connection between two stops that
// does not board a vehicle.
type Transfer struct {
	FromStop StopIndex
	ToStop   StopIndex
	Duration int64 // seconds
	Cost     int64
}

// Leg is an access or egress connection between a street location and a
// transit stop.
type Leg struct {
	Stop     StopIndex
	Duration int64 // seconds
	Cost     int64
}

// TripSchedule is one vehicle run through a Pattern: parallel arrival and
// departure arrays, one entry per stop in the pattern.
type TripSchedule struct {
	Arrival   []int64
	Departure []int64
	// ServiceID is an opaque calendar tag; the core never interprets it —
	// in-service filtering is a caller-supplied predicate (InServiceFunc).
	ServiceID int32
}

// NumStops returns the number of stops this trip schedule covers.
func (t *TripSchedule) NumStops() int { return len(t.Arrival) }

// Pattern groups trips that share the same ordered stop sequence.
type Pattern struct {
	Stops []StopIndex
	Trips []TripSchedule
}

// NumTrips returns the number of trips on this pattern.
func (p *Pattern) NumTrips() int { return len(p.Trips) }

// NumStops returns the number of stops in this pattern's stop sequence.
func (p *Pattern) NumStops() int { return len(p.Stops) }

// StopPosition returns the index of stop within this pattern's stop
// sequence, or -1 if the pattern does not visit it.
func (p *Pattern) StopPosition(stop StopIndex) int {
	for i, s := range p.Stops {
		if s == stop {
			return i
		}
	}
	return -1
}

// Validate checks the non-overtaking invariant required by the trip schedule
// search (§3, §4.2): trips within a pattern are ordered by departure at stop
// 0, and if trip a departs before trip b, a must arrive no later than b at
// every stop. It also checks that every trip's arrival/departure arrays
// match the pattern's stop count and that departure never precedes arrival
// at a stop.
func (p *Pattern) Validate() error {
	n := p.NumStops()
	if n < 2 {
		return fmt.Errorf("pattern has %d stops, need at least 2", n)
	}
	for ti, trip := range p.Trips {
		if len(trip.Arrival) != n || len(trip.Departure) != n {
			return fmt.Errorf("trip %d: schedule length %d/%d does not match %d pattern stops", ti, len(trip.Arrival), len(trip.Departure), n)
		}
		for i := 0; i < n; i++ {
			if trip.Departure[i] < trip.Arrival[i] {
				return fmt.Errorf("trip %d stop %d: departure %d precedes arrival %d", ti, i, trip.Departure[i], trip.Arrival[i])
			}
		}
		if ti > 0 {
			prev := p.Trips[ti-1]
			if prev.Departure[0] > trip.Departure[0] {
				return fmt.Errorf("trip %d departs stop 0 at %d, before trip %d's %d: trips must be sorted ascending", ti, trip.Departure[0], ti-1, prev.Departure[0])
			}
			for i := 0; i < n; i++ {
				if prev.Arrival[i] > trip.Arrival[i] {
					return fmt.Errorf("trip %d overtakes trip %d at stop %d (%d > %d): non-monotone schedule", ti, ti-1, i, prev.Arrival[i], trip.Arrival[i])
				}
			}
		}
	}
	return nil
}
