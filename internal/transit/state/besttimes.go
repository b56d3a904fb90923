package state

import (
	"github.com/antigravity/transitcore/internal/transit/calc"
	"github.com/antigravity/transitcore/internal/transit/model"
)

// BestTimes is the single-criterion RAPTOR state store (spec §4.4): per
// round and stop, the best transit-only arrival time, plus a per-stop
// best-overall (including transfers) used for the dominance test. It is
// owned by one worker for one request and reset at the start of each
// range-RAPTOR iteration.
type BestTimes struct {
	numStops  int
	maxRounds int
	calc      calc.Calculator
	limit     int64 // optional cutoff; calc.Unreached() disables it

	bestTime    [][]int64 // [round][stop], transit arrivals plus the CarryForward baseline
	bestOverall []int64   // [stop], min across rounds including transfers
	bestRound   []int     // [stop], round whose predecessor entry set bestOverall
	predecessor [][]Predecessor
	touched     [][]bool
}

// NewBestTimes allocates a store sized for numStops stops and maxRounds
// rounds (spec §4.3: maxRounds = maxTransfers+1).
func NewBestTimes(numStops, maxRounds int, c calc.Calculator, limit int64) *BestTimes {
	s := &BestTimes{
		numStops:  numStops,
		maxRounds: maxRounds,
		calc:      c,
		limit:     limit,
	}
	s.bestTime = make([][]int64, maxRounds+1)
	s.predecessor = make([][]Predecessor, maxRounds+1)
	s.touched = make([][]bool, maxRounds+1)
	for k := 0; k <= maxRounds; k++ {
		s.bestTime[k] = make([]int64, numStops)
		s.predecessor[k] = make([]Predecessor, numStops)
		s.touched[k] = make([]bool, numStops)
	}
	s.bestOverall = make([]int64, numStops)
	s.bestRound = make([]int, numStops)
	s.ResetIteration()
	return s
}

// ResetIteration clears all rounds for a fresh departure-minute iteration
// (spec §3 "Lifecycle": "cleared at start of iteration").
func (s *BestTimes) ResetIteration() {
	unreached := s.calc.Unreached()
	for k := 0; k <= s.maxRounds; k++ {
		row := s.bestTime[k]
		for i := range row {
			row[i] = unreached
		}
		tr := s.touched[k]
		for i := range tr {
			tr[i] = false
		}
	}
	for i := range s.bestOverall {
		s.bestOverall[i] = unreached
		s.bestRound[i] = 0
	}
}

// SeedAccess records an access arrival at stop for round 0 (spec §4.3 step
// 2). It always "wins" over whatever was there from a previous iteration
// since the store was just reset.
func (s *BestTimes) SeedAccess(stop model.StopIndex, arrivalTime, departureTime, cost int64) {
	s.bestTime[0][stop] = arrivalTime
	s.bestOverall[stop] = arrivalTime
	s.bestRound[stop] = 0
	s.predecessor[0][stop] = Predecessor{Kind: AccessKind, ArrivalTime: arrivalTime, DepartureTime: departureTime, Cost: cost}
	s.touched[0][stop] = true
}

// WithinLimit reports whether t is within the configured time limit (always
// true if no limit was configured).
func (s *BestTimes) WithinLimit(t int64) bool {
	if s.limit == s.calc.Unreached() {
		return true
	}
	return !s.calc.IsBetter(s.limit, t) // t no worse than limit
}

// OfferTransit proposes a transit arrival at stop during round. It is
// accepted iff it strictly improves bestOverall[stop] and is within the
// configured limit (spec §4.4 "Rejection rule").
func (s *BestTimes) OfferTransit(round int, stop model.StopIndex, arrivalTime int64, pred Predecessor) bool {
	if !s.WithinLimit(arrivalTime) {
		return false
	}
	if s.calc.IsBetter(arrivalTime, s.bestTime[round][stop]) {
		s.bestTime[round][stop] = arrivalTime
	}
	if s.calc.IsBetter(arrivalTime, s.bestOverall[stop]) {
		s.bestOverall[stop] = arrivalTime
		s.bestRound[stop] = round
		pred.ArrivalTime = arrivalTime
		s.predecessor[round][stop] = pred
		s.touched[round][stop] = true
		return true
	}
	return false
}

// OfferTransfer proposes a transfer arrival at stop during round. Transfers
// only ever improve bestOverall (they never write bestTime, which is
// transit-only per spec §4.4).
func (s *BestTimes) OfferTransfer(round int, stop model.StopIndex, arrivalTime int64, pred Predecessor) bool {
	if !s.WithinLimit(arrivalTime) {
		return false
	}
	if s.calc.IsBetter(arrivalTime, s.bestOverall[stop]) {
		s.bestOverall[stop] = arrivalTime
		s.bestRound[stop] = round
		pred.ArrivalTime = arrivalTime
		s.predecessor[round][stop] = pred
		s.touched[round][stop] = true
		return true
	}
	return false
}

// BestRound returns the round whose predecessor entry last set stop's
// bestOverall value — the round to start path reconstruction from (spec
// §4.7).
func (s *BestTimes) BestRound(stop model.StopIndex) int { return s.bestRound[stop] }

// CarryForward copies the current best-overall times (which include round
// k's own transfer arrivals) into round k's bestTime row wherever they beat
// what is there, so that a stop not
// reached again this round still reports its best known time (mirrors the
// teacher's `copy(rounds[k], rounds[k-1])` baseline-carry).
func (s *BestTimes) CarryForward(round int) {
	if round == 0 {
		return
	}
	for stop := 0; stop < s.numStops; stop++ {
		if s.calc.IsBetter(s.bestOverall[stop], s.bestTime[round][stop]) {
			s.bestTime[round][stop] = s.bestOverall[stop]
		}
	}
}

// BestOverall returns the best known arrival time at stop, across all rounds
// and transfers so far.
func (s *BestTimes) BestOverall(stop model.StopIndex) int64 { return s.bestOverall[stop] }

// BestTransitTime returns the best transit-only arrival time at stop for a
// given round (used by reboarding: spec §4.3 "earliest previous-round
// arrival time at this stop").
func (s *BestTimes) BestTransitTime(round int, stop model.StopIndex) int64 {
	return s.bestTime[round][stop]
}

// TouchedStops returns every stop touched (improved) during round.
func (s *BestTimes) TouchedStops(round int) []model.StopIndex {
	var out []model.StopIndex
	for i, touched := range s.touched[round] {
		if touched {
			out = append(out, model.StopIndex(i))
		}
	}
	return out
}

// Predecessor returns how stop was reached in round.
func (s *BestTimes) Predecessor(round int, stop model.StopIndex) Predecessor {
	return s.predecessor[round][stop]
}

// ArrivalAt materializes a full Arrival record for the given round/stop,
// used by the Path Mapper and Destination Arrival Set.
func (s *BestTimes) ArrivalAt(round int, stop model.StopIndex) *Arrival {
	pred := s.predecessor[round][stop]
	return &Arrival{
		Stop:          stop,
		Round:         round,
		ArrivalTime:   s.bestOverall[stop],
		DepartureTime: pred.DepartureTime,
		Cost:          pred.Cost,
		Pred:          pred,
	}
}
