// Package transit is the Request/Response contract described by spec §6: it
// wires the Range-RAPTOR Worker, Path Mapper, and Destination Arrival Set
// into the single entry point a caller (the HTTP handler, the CLI) actually
// calls.
package transit

import (
	"context"

	"github.com/pkg/errors"

	"github.com/antigravity/transitcore/internal/transit/fare"
	"github.com/antigravity/transitcore/internal/transit/model"
	"github.com/antigravity/transitcore/internal/transit/pathmapper"
	"github.com/antigravity/transitcore/internal/transit/tdp"
	"github.com/antigravity/transitcore/internal/transit/tripsearch"
	"github.com/antigravity/transitcore/internal/transit/worker"
)

// Kind categorizes a request-boundary failure (spec §7).
type Kind string

const (
	InvalidInput Kind = "invalid_input"
	Cancelled    Kind = "cancelled"
	InternalError Kind = "internal_error"
)

// Error is the structured, user-visible failure shape spec §7 calls for: a
// category plus a human-readable reason.
type Error struct {
	Kind   Kind
	Reason string
	cause  error
}

func (e *Error) Error() string { return string(e.Kind) + ": " + e.Reason }
func (e *Error) Unwrap() error { return e.cause }

func newError(kind Kind, reason string, cause error) *Error {
	return &Error{Kind: kind, Reason: reason, cause: cause}
}

// Request is the caller-supplied search (spec §6's "Request contract").
type Request struct {
	ID string // stamped by the caller at the dispatch boundary (uuid), never on the hot path

	EarliestDepartureTime int64
	SearchWindowSeconds   int64
	IterationStep         int64 // default 60s

	BoardSlackSeconds int64
	MaxTransfers      int // not defaulted: 0 allows direct rides only (raptorctl and the HTTP handler pass 3)

	AccessLegs []model.Leg
	EgressLegs []model.Leg

	Direction model.Direction
	Profile   model.Profile

	FareObserver fare.Observer
	InService    tripsearch.InServiceFunc

	ParetoCap  int
	DASCap     int
	DASEpsilon float64

	// AllowNegativeTransferAllowance disables the pareto-soundness theorem
	// that a fare observer's negative transfer allowance would otherwise
	// violate (spec §9 Open Question: exposed as a flag, never embedding
	// the fare logic that produces such allowances).
	AllowNegativeTransferAllowance bool

	// DebugFilter names stops, rounds, or patterns of interest for tracing.
	// Run does not read it and passes it to neither the worker nor Hooks;
	// Hooks receive every lifecycle event whether or not it is set.
	DebugFilter *DebugFilter

	Hooks worker.Hooks
}

// DebugFilter lists stops/rounds/patterns of interest for tracing. The core
// does not interpret it.
type DebugFilter struct {
	Stops    []model.StopIndex
	Rounds   []int
	Patterns []model.PatternIndex
}

// Validate rejects input-invariant violations at the request boundary (spec
// §7 kind 1), before any search work happens.
func (r *Request) Validate(numStops int) error {
	if r.SearchWindowSeconds < 0 {
		return newError(InvalidInput, "search window must be non-negative", nil)
	}
	if r.MaxTransfers < 0 {
		return newError(InvalidInput, "maxTransfers must be non-negative", nil)
	}
	for _, leg := range r.AccessLegs {
		if int(leg.Stop) < 0 || int(leg.Stop) >= numStops {
			return newError(InvalidInput, "access leg references out-of-range stop", nil)
		}
	}
	for _, leg := range r.EgressLegs {
		if int(leg.Stop) < 0 || int(leg.Stop) >= numStops {
			return newError(InvalidInput, "egress leg references out-of-range stop", nil)
		}
	}
	return nil
}

func (r *Request) step() int64 {
	if r.IterationStep <= 0 {
		return 60
	}
	return r.IterationStep
}

func (r *Request) maxRounds() int {
	return r.MaxTransfers + 1
}

// Path is one leg-by-leg journey in the response contract (spec §6).
type Path struct {
	Legs           []pathmapper.Leg
	NumTransfers   int64
	Cost           int64
	TravelDuration int64
}

// Response is the collection of Paths plus diagnostics spec §6 describes.
type Response struct {
	RequestID string
	Paths     []Path
	Counters  worker.Counters
	// Partial is set when the search was cancelled before completion (spec
	// §7 kind 2): Paths still holds whatever the DAS accumulated.
	Partial bool
}

// Run executes one request against provider, producing a Response or a
// structured *Error (spec §7). ctx cancellation is cooperative at the
// iteration boundary (spec §5): a cancelled context yields a partial
// Response, not an error, since "no path found"/"partial" are both
// legitimate non-error outcomes for a caller to branch on explicitly.
func Run(ctx context.Context, provider tdp.Provider, req *Request) (*Response, error) {
	if err := req.Validate(provider.NumberOfStops()); err != nil {
		return nil, err
	}

	cfg := worker.Config{
		Provider:                       provider,
		Direction:                      req.Direction,
		Profile:                        req.Profile,
		AccessLegs:                     req.AccessLegs,
		EgressLegs:                     req.EgressLegs,
		MaxRounds:                      req.maxRounds(),
		BoardSlack:                     req.BoardSlackSeconds,
		InService:                      req.InService,
		FareObserver:                   req.FareObserver,
		ParetoCap:                      req.ParetoCap,
		DASCap:                         req.DASCap,
		DASEpsilon:                     req.DASEpsilon,
		AllowNegativeTransferAllowance: req.AllowNegativeTransferAllowance,
	}

	w := worker.New(cfg, req.Hooks)
	das, counters, err := w.Run(ctx, req.EarliestDepartureTime, req.SearchWindowSeconds, req.step())

	resp := &Response{RequestID: req.ID, Counters: counters}
	if das != nil {
		for _, e := range das.Results() {
			resp.Paths = append(resp.Paths, Path{
				Legs: e.Legs, NumTransfers: e.NumTransfers, Cost: e.Cost, TravelDuration: e.TravelDuration,
			})
		}
	}

	if err != nil {
		if ctx.Err() != nil {
			resp.Partial = true
			return resp, nil
		}
		return resp, newError(InternalError, "search-internal inconsistency", errors.WithStack(err))
	}
	return resp, nil
}
