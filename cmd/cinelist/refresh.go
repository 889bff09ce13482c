package main

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/marco/cinelist/internal/config"
	"github.com/marco/cinelist/internal/store"
)

// refresher reloads every category on a fixed interval.
type refresher struct {
	st       *store.Store
	interval time.Duration
	workers  int
	onTick   func(store.RefreshStats)

	// inProgress prevents overlapping runs.
	inProgress atomic.Bool
}

func newRefresher(st *store.Store, cfg config.RefreshConfig, onTick func(store.RefreshStats)) *refresher {
	return &refresher{
		st:       st,
		interval: time.Duration(cfg.IntervalMinutes) * time.Minute,
		workers:  cfg.Workers,
		onTick:   onTick,
	}
}

// run blocks until ctx is done, optionally refreshing once immediately.
func (r *refresher) run(ctx context.Context, onStartup bool) {
	slog.Info("scheduled refresh started",
		"interval_minutes", r.interval.Minutes(),
		"run_on_startup", onStartup,
	)

	if onStartup {
		slog.Info("running initial refresh on startup")
		r.refreshOnce(ctx)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			slog.Info("scheduled refresh triggered",
				"interval_minutes", r.interval.Minutes(),
			)
			r.refreshOnce(ctx)

		case <-ctx.Done():
			slog.Info("scheduled refresh stopped")
			return
		}
	}
}

// refreshOnce performs a single refresh with overlap prevention
func (r *refresher) refreshOnce(ctx context.Context) {
	if !r.inProgress.CompareAndSwap(false, true) {
		slog.Warn("scheduled refresh skipped: previous refresh still running",
			"interval_minutes", r.interval.Minutes(),
			"suggestion", "consider increasing refresh.interval_minutes")
		return
	}
	defer r.inProgress.Store(false)

	stats := r.st.RefreshAll(ctx, r.workers)
	for _, res := range stats.Results {
		if res.Err != nil {
			slog.Warn("category refresh failed", "category", res.Category, "error", res.Err)
			continue
		}
		slog.Debug("category refreshed",
			"category", res.Category,
			"movies", res.Movies,
			"duration_ms", res.Duration.Milliseconds(),
		)
	}

	if r.onTick != nil {
		r.onTick(stats)
	}
}
