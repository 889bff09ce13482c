package store

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/marco/cinelist/internal/catalog"
)

// RefreshResult holds the outcome of reloading one category.
type RefreshResult struct {
	Category catalog.Category
	Movies   int
	Duration time.Duration
	Err      error
}

// RefreshStats summarises a RefreshAll run.
type RefreshStats struct {
	Results   []RefreshResult
	Refreshed int64
	Failed    int64
	Duration  time.Duration
}

// RefreshAll reloads page 1 of every category with at most workers requests
// in flight. Failures are recorded per category and do not stop the others.
// Results are returned in no guaranteed order.
func (s *Store) RefreshAll(ctx context.Context, workers int) RefreshStats {
	if workers <= 0 {
		workers = 1
	}
	started := time.Now()

	var refreshed, failed atomic.Int64
	p := pool.NewWithResults[RefreshResult]().WithMaxGoroutines(workers)

	for _, c := range catalog.Categories() {
		p.Go(func() RefreshResult {
			t := time.Now()
			// Check for cancellation before issuing the request
			if err := ctx.Err(); err != nil {
				failed.Add(1)
				return RefreshResult{Category: c, Err: err}
			}

			err := s.FetchCategory(ctx, c, 1)
			r := RefreshResult{
				Category: c,
				Movies:   len(CategoryMovies(s.State(), c)),
				Duration: time.Since(t),
				Err:      err,
			}
			if err != nil {
				failed.Add(1)
			} else {
				refreshed.Add(1)
			}
			return r
		})
	}

	results := p.Wait()
	stats := RefreshStats{
		Results:   results,
		Refreshed: refreshed.Load(),
		Failed:    failed.Load(),
		Duration:  time.Since(started),
	}
	s.logger.Info("categories refreshed",
		"refreshed", stats.Refreshed,
		"failed", stats.Failed,
		"duration_ms", stats.Duration.Milliseconds(),
	)
	return stats
}
