// Package fare defines the optional Fare-Transfer Observer hook (spec §4.8).
// The core calls it when constructing each transit arrival and folds its
// output into the arrival's cost and dominance tag; it never interprets fare
// rules itself. A faithful NYC (or any other) fare engine is application
// code layered on top — see fare/reference for a minimal illustrative
// observer, not a faithful one.
package fare

import "github.com/antigravity/transitcore/internal/transit/model"

// Tag identifies which prior boarding may grant a fare discount on a
// subsequent one. Two tags are equal iff both the value and the expiry
// bucket match; otherwise arrivals carrying them are incomparable on that
// dominance coordinate (spec §4.8) — they never affect arrival-time or cost
// arithmetic directly.
type Tag struct {
	Value     string
	ExpiresAt int64
}

// Equal reports whether two (possibly nil) tags are the same for dominance
// purposes.
func Equal(a, b *Tag) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Value == b.Value && a.ExpiresAt == b.ExpiresAt
}

// BoardingContext carries everything an Observer needs to price a boarding:
// the previous arrival's own tag, the boarded pattern, and the stops/times
// of the boarding and the alighting that produced it.
type BoardingContext struct {
	PreviousTag  *Tag
	Pattern      model.PatternIndex
	BoardStop    model.StopIndex
	AlightStop   model.StopIndex
	BoardTime    int64
	AlightTime   int64

	// AllowNegativeTransferAllowance mirrors the request-level flag (spec §9
	// Open Question): when true, the core has already stopped relying on
	// cost as a dominance coordinate, so an observer is free to grant a
	// transfer allowance that makes this boarding cheaper than a strictly
	// earlier one without silently breaking pareto-set pruning elsewhere.
	AllowNegativeTransferAllowance bool
}

// Observer is consulted once per transit arrival constructed during search.
// It must be pure with respect to the arrival graph: it may consult
// immutable reference data (a fare table) but must never mutate state-store
// data.
type Observer interface {
	// OnBoard returns the monetary cost of this boarding (already reduced by
	// any recognized inbound transfer allowance) and the new transfer-source
	// tag the resulting arrival should carry.
	OnBoard(ctx BoardingContext) (cost int64, tag *Tag)
}

// Noop is the default observer: every boarding costs zero and carries no
// fare-transfer tag, so the pareto comparator never gains the tag
// coordinate.
type Noop struct{}

func (Noop) OnBoard(BoardingContext) (int64, *Tag) { return 0, nil }
