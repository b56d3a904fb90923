// Package state implements the State Store: per-worker, per-round arrival
// bookkeeping (spec §3, §4.4, §4.5). Two variants exist — BestTimes for
// single-criterion RAPTOR and Pareto for McRAPTOR — sharing enough
// vocabulary (Arrival, Predecessor) that the Path Mapper and Destination
// Arrival Set work identically against either.
package state

import (
	"github.com/antigravity/transitcore/internal/transit/fare"
	"github.com/antigravity/transitcore/internal/transit/model"
)

// Kind tags how an Arrival was reached.
type Kind uint8

const (
	AccessKind Kind = iota
	TransitKind
	TransferKind
)

// Predecessor records how an Arrival was reached, for path reconstruction
// (spec §4.7). Exactly one of the (BoardStop/BoardTime/Pattern/Trip) or
// (FromStop) groups is meaningful, selected by Kind; Access arrivals carry
// neither and close the chain.
type Predecessor struct {
	Kind      Kind
	BoardStop model.StopIndex
	BoardTime int64
	Pattern   model.PatternIndex
	Trip      model.TripIndex
	FromStop  model.StopIndex
	// ArrivalTime is the arrival time this predecessor recorded at the time
	// it was written. The BestTimes store (whose arrays are overwritten in
	// place across rounds) carries this so path reconstruction doesn't need
	// to re-derive it from a since-mutated array; the Pareto store leaves it
	// at zero and instead follows Prev, whose own ArrivalTime field on the
	// Arrival struct is authoritative.
	ArrivalTime int64
	// DepartureTime is the time this leg left its predecessor stop (the
	// board time for Transit, the upstream arrival time for Transfer/Access).
	DepartureTime int64
	// Cost mirrors ArrivalTime's role for the running cost total: the
	// BestTimes store has no separate Arrival object to hang it on, so it
	// travels alongside the predecessor instead.
	Cost int64
	Prev *Arrival
}

// Arrival is the central record of a search: a stop reached at a point in
// time, by a typed predecessor, carrying enough criteria (round, cost) to
// support both best-times and pareto dominance. Arrivals are append-only
// within a round and live for exactly one iteration (spec §3, §9: "a
// per-iteration arena gives all arrivals identical lifetime").
type Arrival struct {
	Stop           model.StopIndex
	Round          int
	ArrivalTime    int64
	DepartureTime  int64 // at the predecessor stop
	TravelDuration int64
	Cost           int64
	FareTag        *fare.Tag
	Pred           Predecessor
}
