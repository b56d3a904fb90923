// Package pathmapper implements the Path Mapper: reconstructing a readable
// journey from a terminal state-store entry back to its seed leg (spec
// §4.7). Two implementations exist behind the Kind/Leg vocabulary below, one
// per direction, differing "only in the direction they emit legs and in how
// they recover board/alight times from the reversed time axis" (spec §4.7).
//
// A forward search seeds round 0 from the real access legs (origin) and
// reconstructs by walking a terminal arrival's predecessor chain back to
// that Access entry, then reversing it into chronological order. A reverse
// search seeds round 0 from the real egress legs instead (the only way to
// fix a known arrival time and search backward for the latest feasible
// departure), so the predecessor chain's root is a *pseudo* access entry
// that is really the destination side of the journey; walking it back to
// that root already yields chronological order (the terminal argument is
// the chronologically earliest point, nearest the true origin), so no
// reversal is needed, and a Transit/Transfer leg's literal schedule fields
// must be read from the opposite ends of the Predecessor struct (§4.1's
// calculator already reads the opposite arrays for boarding/alighting; this
// is the same inversion one level up, at leg-construction time).
package pathmapper

import (
	"github.com/antigravity/transitcore/internal/transit/model"
	"github.com/antigravity/transitcore/internal/transit/state"
)

// Kind tags a reconstructed leg. Access and Egress only ever appear as the
// outermost legs of a Path; Access is always first, Egress always last,
// regardless of which direction the underlying search ran in.
type Kind uint8

const (
	Access Kind = iota
	Transit
	Transfer
	Egress
)

func (k Kind) String() string {
	switch k {
	case Access:
		return "access"
	case Transit:
		return "transit"
	case Transfer:
		return "transfer"
	case Egress:
		return "egress"
	default:
		return "unknown"
	}
}

// Leg is one segment of a reconstructed journey, oriented chronologically
// (FromStop departs no later than ToStop arrives) regardless of search
// direction.
type Leg struct {
	Kind          Kind
	FromStop      model.StopIndex
	ToStop        model.StopIndex
	DepartureTime int64
	ArrivalTime   int64
	Pattern       model.PatternIndex
	Trip          model.TripIndex
}

// RideDuration is ArrivalTime-DepartureTime for a Transit leg (spec §4.7).
func (l Leg) RideDuration() int64 { return l.ArrivalTime - l.DepartureTime }

// FromArrival walks a McRAPTOR Arrival's Prev chain (spec §4.5: direct,
// immutable references) into a chronologically-ordered leg list. The root
// of the chain (a state.AccessKind predecessor) is tagged Access for a
// forward search and Egress for a reverse one — see the package doc for why.
// Callers still need to prepend/append the real access or egress leg the
// chain's pseudo-seed stands in for; see worker.buildPath.
func FromArrival(dest *state.Arrival, dir model.Direction) []Leg {
	var legs []Leg
	for cur := dest; cur != nil; {
		switch cur.Pred.Kind {
		case state.AccessKind:
			legs = append(legs, seedLeg(dir, cur.Stop, cur.DepartureTime, cur.ArrivalTime))
			cur = nil
		case state.TransitKind:
			legs = append(legs, transitLeg(dir, cur.Pred.BoardStop, cur.Stop, cur.Pred.BoardTime, cur.ArrivalTime, cur.Pred.Pattern, cur.Pred.Trip))
			cur = cur.Pred.Prev
		case state.TransferKind:
			legs = append(legs, transferLeg(dir, cur.Pred.FromStop, cur.Stop, cur.DepartureTime, cur.ArrivalTime))
			cur = cur.Pred.Prev
		default:
			cur = nil
		}
	}
	return finish(legs, dir)
}

// chain is the minimal view FromBestTimes needs of the state store: it
// reads predecessor entries by (round, stop) instead of following pointers,
// since BestTimes overwrites its arrays in place rather than keeping an
// arrival object graph (spec §4.4).
type chain interface {
	Predecessor(round int, stop model.StopIndex) state.Predecessor
}

// FromBestTimes is FromArrival's counterpart for the single-criterion store
// (spec §4.4): it walks the (round, stop)-indexed predecessor arrays back to
// round 0's Access entry instead of an object chain. Transit predecessors
// step to round-1 at the boarded stop; transfer predecessors stay in the
// same round (transfers never chain, spec §4.4/§4.5).
func FromBestTimes(store chain, round int, stop model.StopIndex, dir model.Direction) []Leg {
	var legs []Leg
	r, s := round, stop
	for {
		pred := store.Predecessor(r, s)
		switch pred.Kind {
		case state.AccessKind:
			legs = append(legs, seedLeg(dir, s, pred.DepartureTime, pred.ArrivalTime))
			return finish(legs, dir)
		case state.TransitKind:
			legs = append(legs, transitLeg(dir, pred.BoardStop, s, pred.BoardTime, pred.ArrivalTime, pred.Pattern, pred.Trip))
			s = pred.BoardStop
			r = r - 1
		case state.TransferKind:
			legs = append(legs, transferLeg(dir, pred.FromStop, s, pred.DepartureTime, pred.ArrivalTime))
			s = pred.FromStop
		default:
			return finish(legs, dir)
		}
	}
}

// seedLeg builds the chain-root leg: a real Access (forward) or a pseudo
// seed standing in for the eventual Egress leg (reverse).
func seedLeg(dir model.Direction, stop model.StopIndex, departure, arrival int64) Leg {
	if dir == model.Reverse {
		return Leg{Kind: Egress, FromStop: stop, DepartureTime: departure, ArrivalTime: arrival}
	}
	return Leg{Kind: Access, ToStop: stop, DepartureTime: departure, ArrivalTime: arrival}
}

// transitLeg orients a Transit predecessor's two endpoints chronologically.
// Forward: BoardStop is the real-earlier (board) end, the arrival argument
// is the real-later (alight) end — the calculator's trip search read
// Departure at BoardStop and Arrival at the current stop. Reverse: the
// calculator read the *opposite* arrays (Arrival at BoardStop while
// identifying the trip — the real alight end — and Departure at the current
// stop while sweeping onward — the real board end, spec §4.1/§4.2), so
// BoardStop is real-later here and the swap below restores chronological
// order.
func transitLeg(dir model.Direction, boardStop, atStop model.StopIndex, boardTime, atTime int64, pattern model.PatternIndex, trip model.TripIndex) Leg {
	if dir == model.Reverse {
		return Leg{Kind: Transit, FromStop: atStop, ToStop: boardStop, DepartureTime: atTime, ArrivalTime: boardTime, Pattern: pattern, Trip: trip}
	}
	return Leg{Kind: Transit, FromStop: boardStop, ToStop: atStop, DepartureTime: boardTime, ArrivalTime: atTime, Pattern: pattern, Trip: trip}
}

func transferLeg(dir model.Direction, fromStop, atStop model.StopIndex, atDeparture, atArrival int64) Leg {
	if dir == model.Reverse {
		return Leg{Kind: Transfer, FromStop: atStop, ToStop: fromStop, DepartureTime: atArrival, ArrivalTime: atDeparture}
	}
	return Leg{Kind: Transfer, FromStop: fromStop, ToStop: atStop, DepartureTime: atDeparture, ArrivalTime: atArrival}
}

// finish puts a root-first chain (the order both walkers build it in) into
// final chronological order. Forward built the list from the chronologically
// latest leg to the earliest (dest -> Access root), so it must be reversed.
// Reverse built it from the chronologically earliest leg to the latest
// (dest, nearest the true origin -> pseudo-Egress root), which already is
// chronological order.
func finish(legs []Leg, dir model.Direction) []Leg {
	if dir == model.Forward {
		for i, j := 0, len(legs)-1; i < j; i, j = i+1, j-1 {
			legs[i], legs[j] = legs[j], legs[i]
		}
	}
	return legs
}
