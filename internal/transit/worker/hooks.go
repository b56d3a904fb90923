package worker

// Hooks observes Range-RAPTOR Worker lifecycle events (spec §9): setup of a
// new departure-minute iteration, completion of a round, and completion of
// an iteration. Implementations must not allocate on the hot path; NoopHooks
// satisfies that trivially and is the default when a caller doesn't care.
type Hooks interface {
	OnSetupIteration(tau int64)
	OnRoundComplete(round int, destinationReached bool)
	OnIterationComplete()
}

// NoopHooks discards every event.
type NoopHooks struct{}

func (NoopHooks) OnSetupIteration(int64)    {}
func (NoopHooks) OnRoundComplete(int, bool) {}
func (NoopHooks) OnIterationComplete()      {}
