// Package fanout runs multiple independent transit.Run requests concurrently
// (spec §5: "multiple requests execute in parallel worker threads, each with
// independent SS instances"), bounded to avoid oversubscribing the host.
package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/antigravity/transitcore/internal/transit"
	"github.com/antigravity/transitcore/internal/transit/tdp"
)

// DefaultLimit bounds concurrent workers when a caller does not specify one.
const DefaultLimit = 8

// Run executes one transit.Run per request, at most limit at a time (<=0
// uses DefaultLimit). Each request gets its own Response slot in the
// returned slice, in input order; a request's own error does not cancel its
// siblings — a plain errgroup.Group is used and errgroup.WithContext's
// cancel-on-first-error is deliberately not, since one request's internal_error must not abort others
// sharing the same read-only provider (spec §5's independent-SS guarantee
// extends to independent failure domains).
func Run(ctx context.Context, provider tdp.Provider, reqs []*transit.Request, limit int) ([]*transit.Response, []error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	responses := make([]*transit.Response, len(reqs))
	errs := make([]error, len(reqs))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			resp, err := transit.Run(ctx, provider, req)
			responses[i] = resp
			errs[i] = err
			return nil
		})
	}
	_ = g.Wait() // individual errors are carried in errs, never aggregated into a group failure

	return responses, errs
}
