package worker

import (
	"github.com/antigravity/transitcore/internal/transit/calc"
	"github.com/antigravity/transitcore/internal/transit/fare"
	"github.com/antigravity/transitcore/internal/transit/model"
	"github.com/antigravity/transitcore/internal/transit/tdp"
	"github.com/antigravity/transitcore/internal/transit/tripsearch"
)

// Config configures one Range-RAPTOR Worker run (spec §4.3). AccessLegs and
// EgressLegs are always named for their real-world role (origin,
// destination) regardless of Direction. Which list seeds round 0 and which
// is attached at iteration-commit flips with Direction — a forward search
// fixes a departure and searches for the earliest arrival, so it seeds from
// access and attaches egress; a reverse search fixes an arrival and searches
// backward for the latest feasible departure, so it seeds from egress and
// attaches access. This is the same direction polymorphism the calculator
// applies to time arithmetic (spec §4.1), one layer up.
type Config struct {
	Provider   tdp.Provider
	Direction  model.Direction
	Profile    model.Profile
	AccessLegs []model.Leg
	EgressLegs []model.Leg
	MaxRounds  int
	BoardSlack int64

	InService    tripsearch.InServiceFunc
	FareObserver fare.Observer

	ParetoCap  int
	DASCap     int
	DASEpsilon float64

	// AllowNegativeTransferAllowance disables cost as a pareto-dominance
	// coordinate, both per-stop (state.ArrivalDominates) and at the
	// destination (state.Dominates4WithRelaxedCost), and is surfaced to the
	// fare observer on every boarding (fare.BoardingContext) so it can
	// decide whether to grant allowances that would otherwise violate that
	// theorem (spec §9 Open Question). The core never produces or interprets
	// the allowance itself.
	AllowNegativeTransferAllowance bool

	// BestTimeLimit optionally bounds the single-criterion search (spec
	// §4.4's optional cutoff). Zero means unbounded; a caller wanting a
	// literal epoch-zero cutoff is outside this engine's intended use.
	BestTimeLimit int64
}

func (c *Config) calc() calc.Calculator { return calc.For(c.Direction) }

func (c *Config) seedLegs() []model.Leg {
	if c.Direction == model.Reverse {
		return c.EgressLegs
	}
	return c.AccessLegs
}

func (c *Config) attachLegs() []model.Leg {
	if c.Direction == model.Reverse {
		return c.AccessLegs
	}
	return c.EgressLegs
}

func (c *Config) fareObserver() fare.Observer {
	if c.FareObserver == nil {
		return fare.Noop{}
	}
	return c.FareObserver
}

func (c *Config) inService() tripsearch.InServiceFunc {
	if c.InService == nil {
		return tripsearch.AlwaysInService
	}
	return c.InService
}

// Counters mirrors the diagnostic counters the response contract calls for
// (spec §6: "counters of iterations, rounds, patterns scanned, and
// pareto-set sizes").
type Counters struct {
	Iterations      int64
	Rounds          int64
	PatternsScanned int64
	TransfersTried  int64
	ParetoEvictions int64
	MaxParetoSet    int64
	DASEvictions    int64
}
