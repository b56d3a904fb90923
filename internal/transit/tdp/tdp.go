// Package tdp implements the Transit Data Provider: a read-only view onto a
// transit network (patterns, trips, stop lists, transfer table) that the
// search core treats as immutable for the duration of a request.
package tdp

import (
	"github.com/pkg/errors"

	"github.com/antigravity/transitcore/internal/transit/model"
)

// StopPatternRef names a (pattern, position) pair: the pattern contains the
// stop at that position in its stop sequence.
type StopPatternRef struct {
	Pattern  model.PatternIndex
	Position int
}

// Provider is the contract the search core consumes (spec §6). It is
// satisfied by InMemory, the only implementation in this module; callers are
// free to back it with something else (e.g. mmap'd data) as long as it is
// safe for concurrent read-only use by many workers.
type Provider interface {
	NumberOfStops() int
	NumberOfPatterns() int
	PatternsContainingStop(stop model.StopIndex) []StopPatternRef
	GetPattern(i model.PatternIndex) *model.Pattern
	TransfersFrom(stop model.StopIndex) []model.Transfer
	Stop(i model.StopIndex) model.Stop
}

// InMemory is a fully materialized, in-process TransitDataProvider.
type InMemory struct {
	stops        []model.Stop
	patterns     []model.Pattern
	transfers    map[model.StopIndex][]model.Transfer
	stopPatterns map[model.StopIndex][]StopPatternRef
}

// New validates the input and builds an InMemory provider. It rejects
// malformed patterns (§5 "Failure isolation": a malformed pattern is
// detected during TDP construction and rejected there; the core assumes the
// invariant holds from then on) and out-of-range transfer/stop references.
func New(stops []model.Stop, patterns []model.Pattern, transfers map[model.StopIndex][]model.Transfer) (*InMemory, error) {
	numStops := len(stops)
	for pi := range patterns {
		if err := patterns[pi].Validate(); err != nil {
			return nil, errors.Wrapf(err, "pattern %d failed input-invariant validation", pi)
		}
		for _, s := range patterns[pi].Stops {
			if int(s) < 0 || int(s) >= numStops {
				return nil, errors.Errorf("pattern %d references out-of-range stop %d (have %d stops)", pi, s, numStops)
			}
		}
	}
	for from, list := range transfers {
		if int(from) < 0 || int(from) >= numStops {
			return nil, errors.Errorf("transfer table references out-of-range origin stop %d", from)
		}
		for _, t := range list {
			if int(t.ToStop) < 0 || int(t.ToStop) >= numStops {
				return nil, errors.Errorf("transfer from stop %d references out-of-range destination %d", from, t.ToStop)
			}
		}
	}

	stopPatterns := make(map[model.StopIndex][]StopPatternRef, numStops)
	for pi := range patterns {
		for pos, s := range patterns[pi].Stops {
			stopPatterns[s] = append(stopPatterns[s], StopPatternRef{Pattern: model.PatternIndex(pi), Position: pos})
		}
	}

	return &InMemory{
		stops:        stops,
		patterns:     patterns,
		transfers:    transfers,
		stopPatterns: stopPatterns,
	}, nil
}

func (p *InMemory) NumberOfStops() int    { return len(p.stops) }
func (p *InMemory) NumberOfPatterns() int { return len(p.patterns) }

func (p *InMemory) PatternsContainingStop(stop model.StopIndex) []StopPatternRef {
	return p.stopPatterns[stop]
}

func (p *InMemory) GetPattern(i model.PatternIndex) *model.Pattern {
	return &p.patterns[i]
}

func (p *InMemory) TransfersFrom(stop model.StopIndex) []model.Transfer {
	return p.transfers[stop]
}

func (p *InMemory) Stop(i model.StopIndex) model.Stop {
	return p.stops[i]
}
