// Package reference is an illustrative Fare-Transfer Observer: a single
// flat-fare boarding cost with one free transfer inside a fixed window. It
// exists to exercise the fare.Observer hook end to end and is explicitly not
// a faithful model of any real transit agency's fare rules — those belong in
// application code, not in this core (spec §1, §9).
package reference

import "github.com/antigravity/transitcore/internal/transit/fare"

// FlatFareObserver grants one free transfer within TransferWindowSeconds of
// the previous boarding; every other boarding costs BaseFare.
type FlatFareObserver struct {
	BaseFare              int64
	TransferWindowSeconds int64
}

func (f FlatFareObserver) OnBoard(ctx fare.BoardingContext) (int64, *fare.Tag) {
	expires := ctx.BoardTime + f.TransferWindowSeconds
	if ctx.PreviousTag != nil && ctx.PreviousTag.Value != "used" && ctx.BoardTime <= ctx.PreviousTag.ExpiresAt {
		// Within the transfer window: this boarding is free, and it does not
		// grant a further transfer (one free transfer per fare payment).
		return 0, &fare.Tag{Value: "used", ExpiresAt: ctx.PreviousTag.ExpiresAt}
	}
	return f.BaseFare, &fare.Tag{Value: "fresh", ExpiresAt: expires}
}
