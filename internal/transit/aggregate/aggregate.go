// Package aggregate computes isochrones and stop-to-stop travel-time
// matrices by straightforward aggregation over a completed transit.Response
// (spec §1: "Derived products ... are produced by straightforward
// aggregation over this output"), not by running new search logic.
package aggregate

import (
	"sort"

	"github.com/antigravity/transitcore/internal/transit"
	"github.com/antigravity/transitcore/internal/transit/model"
	"github.com/antigravity/transitcore/internal/transit/pathmapper"
)

// destinationStop is the stop a journey's final leg ends at. Egress legs
// carry that stop as FromStop (the stop the street leg leaves from).
func destinationStop(l pathmapper.Leg) model.StopIndex {
	if l.Kind == pathmapper.Egress {
		return l.FromStop
	}
	return l.ToStop
}

// BestArrivalByStop reduces a range-RAPTOR response (one set of paths per
// sampled departure minute) to the single best arrival time per stop, the
// input an isochrone or a travel-time percentile is computed from.
func BestArrivalByStop(resp *transit.Response) map[model.StopIndex]int64 {
	best := make(map[model.StopIndex]int64)
	for _, p := range resp.Paths {
		if len(p.Legs) == 0 {
			continue
		}
		last := p.Legs[len(p.Legs)-1]
		if cur, ok := best[destinationStop(last)]; !ok || last.ArrivalTime < cur {
			best[destinationStop(last)] = last.ArrivalTime
		}
	}
	return best
}

// bestPathByStop is BestArrivalByStop's counterpart that keeps the winning
// path itself rather than just its arrival time, since a range-RAPTOR
// response can span multiple iteration minutes and each destination's best
// path may have boarded at a different departure time than another
// destination's.
func bestPathByStop(resp *transit.Response) map[model.StopIndex]*transit.Path {
	best := make(map[model.StopIndex]*transit.Path)
	for i := range resp.Paths {
		p := &resp.Paths[i]
		if len(p.Legs) == 0 {
			continue
		}
		last := p.Legs[len(p.Legs)-1]
		if cur, ok := best[destinationStop(last)]; !ok || last.ArrivalTime < cur.Legs[len(cur.Legs)-1].ArrivalTime {
			best[destinationStop(last)] = p
		}
	}
	return best
}

// Isochrone is the set of stops reachable within cutoffSeconds of
// departureTime, each with its best travel duration.
type Isochrone struct {
	DepartureTime int64
	CutoffSeconds int64
	Stops         map[model.StopIndex]int64 // stop -> travel duration
}

// BuildIsochrone filters a response's best-arrival-by-stop reduction down to
// stops reachable inside the cutoff.
func BuildIsochrone(resp *transit.Response, departureTime, cutoffSeconds int64) Isochrone {
	iso := Isochrone{DepartureTime: departureTime, CutoffSeconds: cutoffSeconds, Stops: map[model.StopIndex]int64{}}
	for stop, arrival := range BestArrivalByStop(resp) {
		dur := arrival - departureTime
		if dur >= 0 && dur <= cutoffSeconds {
			iso.Stops[stop] = dur
		}
	}
	return iso
}

// PercentileTravelTime returns the p-th percentile (0..100) travel duration
// across every path in resp, or -1 if resp has no paths. Used to summarize a
// range-RAPTOR window's spread of outcomes for a single destination stop.
func PercentileTravelTime(resp *transit.Response, p int) int64 {
	if len(resp.Paths) == 0 {
		return -1
	}
	durations := make([]int64, len(resp.Paths))
	for i, path := range resp.Paths {
		durations[i] = path.TravelDuration
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	idx := (len(durations) - 1) * p / 100
	return durations[idx]
}

// Matrix is a dense stop-to-stop best-travel-duration table, row-major by
// origin index into Origins.
type Matrix struct {
	Origins      []model.StopIndex
	Destinations []model.StopIndex
	Durations    [][]int64 // [originIdx][destIdx], -1 when unreached
}

// BuildMatrix assembles a dense matrix from one transit.Response per origin
// stop (the caller runs one fanout-dispatched request per origin and passes
// the results here in the same order as origins).
func BuildMatrix(origins []model.StopIndex, destinations []model.StopIndex, perOrigin []*transit.Response) Matrix {
	m := Matrix{Origins: origins, Destinations: destinations}
	m.Durations = make([][]int64, len(origins))
	for i, resp := range perOrigin {
		row := make([]int64, len(destinations))
		for j := range row {
			row[j] = -1
		}
		if resp != nil {
			best := bestPathByStop(resp)
			for j, dest := range destinations {
				if path, ok := best[dest]; ok {
					last := path.Legs[len(path.Legs)-1]
					row[j] = last.ArrivalTime - path.Legs[0].DepartureTime
				}
			}
		}
		m.Durations[i] = row
	}
	return m
}
