// Package diagserver mirrors worker.Counters into Prometheus metrics at the
// request boundary (spec §6 "counters of iterations, rounds, patterns
// scanned, and pareto-set sizes"; spec §5's no-shared-locks-on-the-hot-path
// rule keeps this entirely outside the worker's inner loops — a Collector
// publishes a plain Counters struct after Run returns, it never touches the
// worker while it runs).
package diagserver

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/antigravity/transitcore/internal/transit/worker"
)

// Collector registers and updates the process-wide diagnostic gauges.
type Collector struct {
	iterations      prometheus.Counter
	rounds          prometheus.Counter
	patternsScanned prometheus.Counter
	transfersTried  prometheus.Counter
	paretoEvictions prometheus.Counter
	dasEvictions    prometheus.Counter
	maxParetoSet    prometheus.Gauge
}

// NewCollector builds and registers a Collector against reg. main.go passes
// a dedicated prometheus.NewRegistry(), the same registry Handler serves.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transitcore_iterations_total", Help: "Range-RAPTOR departure-minute iterations run.",
		}),
		rounds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transitcore_rounds_total", Help: "RAPTOR rounds processed.",
		}),
		patternsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transitcore_patterns_scanned_total", Help: "Patterns swept across all rounds.",
		}),
		transfersTried: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transitcore_transfers_tried_total", Help: "Transfer offers attempted.",
		}),
		paretoEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transitcore_pareto_evictions_total", Help: "Per-stop pareto-set evictions due to cap.",
		}),
		dasEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "transitcore_das_evictions_total", Help: "Destination Arrival Set evictions due to cap.",
		}),
		maxParetoSet: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "transitcore_max_pareto_set_size", Help: "Largest per-stop pareto set observed in the last request.",
		}),
	}
	reg.MustRegister(c.iterations, c.rounds, c.patternsScanned, c.transfersTried, c.paretoEvictions, c.dasEvictions, c.maxParetoSet)
	return c
}

// Observe publishes one completed request's counters. Call once per request,
// at the dispatch boundary, after the worker returns.
func (c *Collector) Observe(counters worker.Counters) {
	c.iterations.Add(float64(counters.Iterations))
	c.rounds.Add(float64(counters.Rounds))
	c.patternsScanned.Add(float64(counters.PatternsScanned))
	c.transfersTried.Add(float64(counters.TransfersTried))
	c.paretoEvictions.Add(float64(counters.ParetoEvictions))
	c.dasEvictions.Add(float64(counters.DASEvictions))
	c.maxParetoSet.Set(float64(counters.MaxParetoSet))
}
