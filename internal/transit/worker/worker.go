// Package worker implements the Range-RAPTOR Worker (spec §4.3): the outer
// departure-minute iteration loop and inner round loop, run against either
// state-store profile (BestTimes or Pareto) and either search direction,
// committing survivors into a Destination Arrival Set each iteration.
package worker

import (
	"context"

	"github.com/antigravity/transitcore/internal/transit/calc"
	"github.com/antigravity/transitcore/internal/transit/fare"
	"github.com/antigravity/transitcore/internal/transit/model"
	"github.com/antigravity/transitcore/internal/transit/pathmapper"
	"github.com/antigravity/transitcore/internal/transit/state"
	"github.com/antigravity/transitcore/internal/transit/tdp"
	"github.com/antigravity/transitcore/internal/transit/tripsearch"
)

// Worker runs one request's search. It owns no network data of its own
// (that lives in Config.Provider, shared read-only across many concurrent
// workers per spec §5) and is not safe for concurrent use by more than one
// goroutine at a time.
type Worker struct {
	cfg   Config
	hooks Hooks
}

// New builds a Worker. A nil hooks uses NoopHooks.
func New(cfg Config, hooks Hooks) *Worker {
	if hooks == nil {
		hooks = NoopHooks{}
	}
	return &Worker{cfg: cfg, hooks: hooks}
}

// Run executes one range-RAPTOR sweep: one search per departure-minute in
// [earliest, earliest+window], accumulating every iteration's survivors into
// a single Destination Arrival Set (spec §4.3, §4.6). It returns whatever
// the DAS holds so far even when ctx is cancelled mid-sweep, alongside the
// error, so a caller can still report a partial result (spec §7).
func (w *Worker) Run(ctx context.Context, earliest, window, step int64) (*DAS, Counters, error) {
	c := w.cfg.calc()
	numStops := w.cfg.Provider.NumberOfStops()

	var counters Counters
	das := NewDAS(c, w.cfg.DASCap, w.cfg.DASEpsilon, w.cfg.AllowNegativeTransferAllowance, func() { counters.DASEvictions++ })

	limit := w.cfg.BestTimeLimit
	if limit == 0 {
		limit = c.Unreached()
	}

	var bt *state.BestTimes
	var pr *state.Pareto
	if w.cfg.Profile == model.MultiCriteria {
		pr = state.NewPareto(numStops, c, w.cfg.ParetoCap, w.cfg.AllowNegativeTransferAllowance)
	} else {
		bt = state.NewBestTimes(numStops, w.cfg.MaxRounds, c, limit)
	}

	for _, tau := range c.IterationMinutes(earliest, window, step) {
		if err := ctx.Err(); err != nil {
			return das, counters, err
		}
		w.hooks.OnSetupIteration(tau)
		counters.Iterations++

		var frontier []model.StopIndex
		if bt != nil {
			bt.ResetIteration()
			w.seedBestTimes(bt, c, tau)
		} else {
			pr.ResetIteration()
			w.seedPareto(pr, c, tau)
			frontier = pr.TouchedStops()
		}

		for k := 1; k <= w.cfg.MaxRounds; k++ {
			counters.Rounds++
			var reached bool
			if bt != nil {
				reached = w.roundBestTimes(bt, c, k, &counters)
			} else {
				pr.BeginRound(k)
				reached = w.roundPareto(pr, c, k, frontier, &counters)
				frontier = pr.TouchedStops()
			}
			w.hooks.OnRoundComplete(k, reached)
		}

		if bt != nil {
			w.commitBestTimes(bt, c, das)
		} else {
			w.commitPareto(pr, c, das)
			counters.ParetoEvictions = pr.EvictedCount()
			if sz := int64(pr.MaxSetSize()); sz > counters.MaxParetoSet {
				counters.MaxParetoSet = sz
			}
		}
		w.hooks.OnIterationComplete()
	}

	return das, counters, nil
}

func (w *Worker) seedBestTimes(s *state.BestTimes, c calc.Calculator, tau int64) {
	for _, leg := range w.cfg.seedLegs() {
		arr := c.Add(tau, leg.Duration)
		s.SeedAccess(leg.Stop, arr, tau, leg.Cost)
	}
}

func (w *Worker) seedPareto(s *state.Pareto, c calc.Calculator, tau int64) {
	for _, leg := range w.cfg.seedLegs() {
		arr := c.Add(tau, leg.Duration)
		s.SeedAccess(&state.Arrival{
			Stop: leg.Stop, Round: 0, ArrivalTime: arr, DepartureTime: tau, Cost: leg.Cost,
			Pred: state.Predecessor{Kind: state.AccessKind, ArrivalTime: arr, DepartureTime: tau, Cost: leg.Cost},
		})
	}
}

// fieldsFor returns which TripSchedule array to read when (re)boarding a
// trip and which to read when exiting it, for the given direction. Forward
// boards off Departure and exits via Arrival (the ordinary case). Reverse
// searches backward from a fixed arrival, so it commits to a trip using
// Arrival (the real alight end, spec §4.2's alight search) and then sweeps
// to progressively earlier stops reading Departure (the real board end).
func fieldsFor(dir model.Direction) (board, exit func(trip *model.TripSchedule, pos int) int64) {
	if dir == model.Reverse {
		return func(t *model.TripSchedule, pos int) int64 { return t.Arrival[pos] },
			func(t *model.TripSchedule, pos int) int64 { return t.Departure[pos] }
	}
	return func(t *model.TripSchedule, pos int) int64 { return t.Departure[pos] },
		func(t *model.TripSchedule, pos int) int64 { return t.Arrival[pos] }
}

func patternsTouchedBy(provider tdp.Provider, stops []model.StopIndex) []model.PatternIndex {
	seen := make(map[model.PatternIndex]bool)
	var out []model.PatternIndex
	for _, stop := range stops {
		for _, ref := range provider.PatternsContainingStop(stop) {
			if !seen[ref.Pattern] {
				seen[ref.Pattern] = true
				out = append(out, ref.Pattern)
			}
		}
	}
	return out
}

func stopSet(legs []model.Leg) map[model.StopIndex]bool {
	m := make(map[model.StopIndex]bool, len(legs))
	for _, l := range legs {
		m[l.Stop] = true
	}
	return m
}

// heldTripBT is the single trip a BestTimes pattern sweep currently rides,
// mirroring the teacher's simplified RAPTOR's "current trip" bookkeeping
// (internal/routing/raptor.go) generalized to run in either direction.
type heldTripBT struct {
	trip      model.TripIndex
	boardStop model.StopIndex
	boardTime int64
	boardCost int64
}

// roundBestTimes processes one round of the single-criterion search: for
// every pattern touched by a stop reached in round-1, ride it, exiting at
// every downstream stop to offer a new best-times arrival, then attempt to
// (re)board a better trip at every stop along the way. It finishes with the
// transfer phase and the round-k-to-round-(k+1) baseline carry (spec §4.4).
func (w *Worker) roundBestTimes(s *state.BestTimes, c calc.Calculator, round int, counters *Counters) bool {
	provider := w.cfg.Provider
	inService := w.cfg.inService()
	observer := w.cfg.fareObserver()
	boardField, exitField := fieldsFor(c.Direction())
	search := tripsearch.For(c.Direction())

	frontier := s.TouchedStops(round - 1)
	patterns := patternsTouchedBy(provider, frontier)

	for _, pidx := range patterns {
		pattern := provider.GetPattern(pidx)
		counters.PatternsScanned++
		var held *heldTripBT

		for _, pos := range c.StopPositions(pattern) {
			stop := pattern.Stops[pos]

			if held != nil {
				trip := &pattern.Trips[held.trip]
				exitTime := exitField(trip, pos)
				cost, _ := observer.OnBoard(fare.BoardingContext{
					Pattern: pidx, BoardStop: held.boardStop, AlightStop: stop,
					BoardTime: held.boardTime, AlightTime: exitTime,
					AllowNegativeTransferAllowance: w.cfg.AllowNegativeTransferAllowance,
				})
				pred := state.Predecessor{
					Kind: state.TransitKind, BoardStop: held.boardStop, BoardTime: held.boardTime,
					Pattern: pidx, Trip: held.trip, DepartureTime: held.boardTime,
					Cost: held.boardCost + cost,
				}
				s.OfferTransit(round, stop, exitTime, pred)
			}

			threshold := s.BestTransitTime(round-1, stop)
			if threshold != c.Unreached() {
				boardThreshold := c.EarliestBoardTime(threshold, w.cfg.BoardSlack)
				bound := -1
				if held != nil {
					bound = int(held.trip)
				}
				if tripIdx, ok := search(pidx, pattern, pos, boardThreshold, bound, inService); ok {
					best := s.BestRound(stop)
					held = &heldTripBT{
						trip: tripIdx, boardStop: stop,
						boardTime: boardField(&pattern.Trips[tripIdx], pos),
						boardCost: s.Predecessor(best, stop).Cost,
					}
				}
			}
		}
	}

	reached := w.transferPhaseBestTimes(s, c, round, counters)
	s.CarryForward(round)
	return reached
}

func (w *Worker) transferPhaseBestTimes(s *state.BestTimes, c calc.Calculator, round int, counters *Counters) bool {
	attach := stopSet(w.cfg.attachLegs())
	reached := false
	for _, stop := range s.TouchedStops(round) {
		at := s.BestTransitTime(round, stop)
		if at == c.Unreached() {
			continue
		}
		baseCost := s.Predecessor(round, stop).Cost
		if attach[stop] {
			reached = true
		}
		for _, t := range w.cfg.Provider.TransfersFrom(stop) {
			counters.TransfersTried++
			newTime := c.Add(at, t.Duration)
			pred := state.Predecessor{Kind: state.TransferKind, FromStop: stop, DepartureTime: at, Cost: baseCost + t.Cost}
			if s.OfferTransfer(round, t.ToStop, newTime, pred) && attach[t.ToStop] {
				reached = true
			}
		}
	}
	return reached
}

// commitBestTimes attaches the direction-appropriate outer leg to every
// reachable attach-stop and offers the resulting whole journey to das (spec
// §4.3 step 4, §4.6).
func (w *Worker) commitBestTimes(s *state.BestTimes, c calc.Calculator, das *DAS) {
	for _, leg := range w.cfg.attachLegs() {
		if s.BestOverall(leg.Stop) == c.Unreached() {
			continue
		}
		round := s.BestRound(leg.Stop)
		arrival := s.ArrivalAt(round, leg.Stop)
		chain := pathmapper.FromBestTimes(s, round, leg.Stop, w.cfg.Direction)
		legs := attachOuterLeg(chain, leg, w.cfg.Direction)
		das.Offer(NewDASEntry(legs, w.cfg.Direction, arrival.Cost+leg.Cost, round))
	}
}

// heldTripPareto is one trip a McRAPTOR pattern sweep is currently
// considering riding, sourced from a specific previous-round arrival. Unlike
// BestTimes's single current trip, several may be held at once since
// distinct previous-round arrivals can board distinct (or identically
// timed but differently costed) trips that are each individually
// pareto-relevant.
type heldTripPareto struct {
	trip      model.TripIndex
	boardStop model.StopIndex
	boardTime int64
	source    *state.Arrival
}

// maxHeldTrips bounds how many simultaneous boardings a McRAPTOR pattern
// sweep tracks, trading pareto completeness for tractability the same way
// ParetoSet's per-stop cap does (spec §9).
const maxHeldTrips = 8

// roundPareto processes one round of the multi-criteria search. frontier is
// the set of stops with a non-empty round-1 arrival bag, computed by the
// caller before BeginRound(round) reset the store's touched bookkeeping.
func (w *Worker) roundPareto(s *state.Pareto, c calc.Calculator, round int, frontier []model.StopIndex, counters *Counters) bool {
	provider := w.cfg.Provider
	inService := w.cfg.inService()
	observer := w.cfg.fareObserver()
	boardField, exitField := fieldsFor(c.Direction())
	search := tripsearch.For(c.Direction())

	patterns := patternsTouchedBy(provider, frontier)

	for _, pidx := range patterns {
		pattern := provider.GetPattern(pidx)
		counters.PatternsScanned++
		var held []heldTripPareto

		for _, pos := range c.StopPositions(pattern) {
			stop := pattern.Stops[pos]

			for _, h := range held {
				trip := &pattern.Trips[h.trip]
				exitTime := exitField(trip, pos)
				cost, tag := observer.OnBoard(fare.BoardingContext{
					PreviousTag: h.source.FareTag, Pattern: pidx, BoardStop: h.boardStop, AlightStop: stop,
					BoardTime: h.boardTime, AlightTime: exitTime,
					AllowNegativeTransferAllowance: w.cfg.AllowNegativeTransferAllowance,
				})
				rideDuration := exitTime - h.boardTime
				if rideDuration < 0 {
					rideDuration = -rideDuration
				}
				arrival := &state.Arrival{
					Stop: stop, Round: round, ArrivalTime: exitTime, DepartureTime: h.boardTime,
					TravelDuration: h.source.TravelDuration + rideDuration,
					Cost:           h.source.Cost + cost, FareTag: tag,
					Pred: state.Predecessor{
						Kind: state.TransitKind, BoardStop: h.boardStop, BoardTime: h.boardTime,
						Pattern: pidx, Trip: h.trip, Prev: h.source,
					},
				}
				s.OfferTransit(round, arrival)
			}

			if len(held) < maxHeldTrips {
				for _, prevArr := range s.PreviousRoundArrivals(round, stop) {
					boardThreshold := c.EarliestBoardTime(prevArr.ArrivalTime, w.cfg.BoardSlack)
					tripIdx, ok := search(pidx, pattern, pos, boardThreshold, -1, inService)
					if !ok {
						continue
					}
					if alreadyHeld(held, tripIdx) {
						continue
					}
					held = append(held, heldTripPareto{
						trip: tripIdx, boardStop: stop,
						boardTime: boardField(&pattern.Trips[tripIdx], pos),
						source:    prevArr,
					})
					if len(held) >= maxHeldTrips {
						break
					}
				}
			}
		}
	}

	return w.transferPhasePareto(s, c, round, counters)
}

func alreadyHeld(held []heldTripPareto, trip model.TripIndex) bool {
	for _, h := range held {
		if h.trip == trip {
			return true
		}
	}
	return false
}

func (w *Worker) transferPhasePareto(s *state.Pareto, c calc.Calculator, round int, counters *Counters) bool {
	attach := stopSet(w.cfg.attachLegs())
	reached := false
	for _, stop := range s.TouchedStops() {
		if attach[stop] {
			reached = true
		}
		for _, a := range s.PreviousRoundArrivals(round+1, stop) {
			for _, t := range w.cfg.Provider.TransfersFrom(stop) {
				counters.TransfersTried++
				newTime := c.Add(a.ArrivalTime, t.Duration)
				na := &state.Arrival{
					Stop: t.ToStop, Round: round, ArrivalTime: newTime, DepartureTime: a.ArrivalTime,
					TravelDuration: a.TravelDuration, Cost: a.Cost + t.Cost, FareTag: a.FareTag,
					Pred: state.Predecessor{Kind: state.TransferKind, FromStop: stop, Prev: a},
				}
				if s.OfferTransfer(round, na) && attach[t.ToStop] {
					reached = true
				}
			}
		}
	}
	return reached
}

func (w *Worker) commitPareto(s *state.Pareto, c calc.Calculator, das *DAS) {
	_ = c
	for _, leg := range w.cfg.attachLegs() {
		for _, a := range s.StopSet(leg.Stop) {
			chain := pathmapper.FromArrival(a, w.cfg.Direction)
			legs := attachOuterLeg(chain, leg, w.cfg.Direction)
			das.Offer(NewDASEntry(legs, w.cfg.Direction, a.Cost+leg.Cost, a.Round))
		}
	}
}

// attachOuterLeg appends (forward) or prepends (reverse) the real access or
// egress leg onto a reconstructed transit chain, completing the
// Access -> (Transit|Transfer)* -> Egress shape spec §4.7 describes. The
// chain's own endpoint already carries a literal, correct schedule
// timestamp (spec §4.1/§4.2's board/alight arrays are real clock times
// regardless of search direction), so the attach leg's other endpoint is
// plain arithmetic: a walk of fixed duration always takes that long in real
// time, independent of which direction the search happened to run in.
func attachOuterLeg(chain []pathmapper.Leg, leg model.Leg, dir model.Direction) []pathmapper.Leg {
	if dir == model.Reverse {
		access := pathmapper.Leg{
			Kind:          pathmapper.Access,
			ToStop:        leg.Stop,
			DepartureTime: chain[0].DepartureTime - leg.Duration,
			ArrivalTime:   chain[0].DepartureTime,
		}
		out := make([]pathmapper.Leg, 0, len(chain)+1)
		out = append(out, access)
		return append(out, chain...)
	}
	egress := pathmapper.Leg{
		Kind:          pathmapper.Egress,
		FromStop:      leg.Stop,
		DepartureTime: chain[len(chain)-1].ArrivalTime,
		ArrivalTime:   chain[len(chain)-1].ArrivalTime + leg.Duration,
	}
	return append(chain, egress)
}
