package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/marco/cinelist/internal/catalog"
	"github.com/marco/cinelist/internal/catalog/cache"
	"github.com/marco/cinelist/internal/config"
	"github.com/marco/cinelist/internal/movieutil"
	"github.com/marco/cinelist/internal/store"
)

var (
	configPath = flag.String("config", "./config/config.yaml", "Path to configuration file")
	envPath    = flag.String("env", ".env", "Path to an optional .env file")
	categories = flag.String("category", "popular", "Comma-separated categories to list (now_playing, popular, upcoming, top_rated, all)")
	pages      = flag.Int("pages", 1, "Number of pages to load per category")
	query      = flag.String("search", "", "Search movies by title")
	filter     = flag.String("filter", "", "Filter the loaded lists locally by title or overview")
	detailsID  = flag.Int("details", 0, "Show the detail page for a movie id")
	posterDir  = flag.String("poster-dir", "", "Download the poster of -details into this directory")
	addIDs     = flag.String("add", "", "Comma-separated movie ids from the loaded lists to add to the watchlist")
	sortBy     = flag.String("sort", "addedAt", "Watchlist sort field (title, release_date, vote_average, addedAt)")
	sortOrder  = flag.String("order", "desc", "Watchlist sort order (asc, desc)")
	filterBy   = flag.String("watchlist-filter", "all", "Watchlist filter (all, rating, year)")
	clearCache = flag.Bool("clear-cache", false, "Drop every cached catalog response before fetching")
	watch      = flag.Bool("watch", false, "Keep running, refreshing categories and reloading the config on change")
	verbose    = flag.Bool("verbose", false, "Show detailed logging")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run executes the command and returns its exit code.
func run() int {
	if _, err := config.LoadDotEnv(afero.NewOsFs(), *envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading env file: %v\n", err)
		return 1
	}

	cfg, err := config.Load(*configPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default()
		err = nil
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	logger, logCloser := newLogger(cfg.Logging, *verbose)
	defer logCloser.Close()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	respCache, err := openCache(ctx, cfg.Cache)
	if err != nil {
		slog.Warn("response cache unavailable, continuing without it", "backend", cfg.Cache.Backend, "error", err)
		respCache = nil
	}
	if respCache != nil {
		defer respCache.Close()
		if *clearCache {
			if err := respCache.Clear(ctx); err != nil {
				slog.Warn("failed to clear response cache", "error", err)
			} else {
				slog.Info("response cache cleared", "backend", cfg.Cache.Backend)
			}
		}
	}

	client := catalog.NewClientWithConfig(catalog.ClientConfig{
		AccessToken:      cfg.TMDB.AccessToken,
		BaseURL:          cfg.TMDB.BaseURL,
		ImageBaseURL:     cfg.TMDB.ImageBaseURL,
		Language:         cfg.TMDB.Language,
		Region:           cfg.TMDB.Region,
		HTTPClient:       &http.Client{Timeout: time.Duration(cfg.TMDB.TimeoutSeconds) * time.Second},
		RateLimitDelayMs: cfg.Options.RateLimitDelay,
		MaxAttempts:      cfg.Options.MaxAttempts,
		InitialBackoffMs: cfg.Options.InitialBackoffMs,
		RetryLogFunc: func(attempt, maxAttempts int, backoff time.Duration, err error) {
			slog.Warn("catalog request retry",
				"attempt", attempt,
				"max_attempts", maxAttempts,
				"backoff_ms", backoff.Milliseconds(),
				"error", err,
			)
		},
		Cache:    respCache,
		CacheTTL: time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
		CacheLogFunc: func(operation, key string, hit bool) {
			slog.Debug("catalog cache", "operation", operation, "key", key, "hit", hit)
		},
		Logger: logger,
	})

	if !cfg.HasCredential() {
		fmt.Fprintf(os.Stderr, "Warning: no TMDB Read Access Token configured (set tmdb.access_token or %s)\n", config.TokenEnvVar)
	}

	st := store.New(client, store.WithLogger(logger))
	if *verbose {
		unsubscribe := st.Subscribe(func(s store.State) {
			slog.Debug("state changed",
				"loading", store.IsAnyLoading(s),
				"errors", store.HasAnyError(s),
				"watchlist", store.WatchlistCount(s),
			)
		})
		defer unsubscribe()
	}

	cats, err := parseCategories(*categories)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	failures := 0
	for _, c := range cats {
		failures += loadCategory(ctx, st, c, *pages)
	}
	if *query != "" {
		if err := st.Search(ctx, *query, 1); err != nil {
			failures++
		}
		for i := 1; i < *pages; i++ {
			if err := st.SearchMore(ctx); err != nil {
				failures++
				break
			}
		}
	}

	if err := applyWatchlist(st, cats); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	out := os.Stdout
	snapshot := st.State()
	for _, c := range cats {
		meta, _ := catalog.CategoryInfo(c)
		printBucket(out, snapshot, store.CategoryBucket(c), meta.Name, movieutil.FilterBySearch(store.CategoryMovies(snapshot, c), *filter))
	}
	if store.IsSearchMode(snapshot) || store.Error(snapshot, store.BucketSearch) != "" {
		title := fmt.Sprintf("Search: %q", *query)
		printBucket(out, snapshot, store.BucketSearch, title, movieutil.FilterBySearch(store.SearchResults(snapshot), *filter))
	}

	if *detailsID > 0 {
		if full, err := st.FetchDetails(ctx, *detailsID); err != nil {
			printHeader(out, fmt.Sprintf("Movie %d", *detailsID))
			fmt.Fprintf(out, "  ❌ %s\n", store.Error(st.State(), store.BucketDetails))
			failures++
		} else {
			printDetails(out, *full, client.PosterURL(full.Details.Movie))
			if similar, err := client.FetchSimilar(ctx, *detailsID, 1); err != nil {
				slog.Warn("similar movies unavailable", "movie_id", *detailsID, "error", err)
			} else {
				printRelated(out, "Similar", similar.Results)
			}
			downloadPoster(ctx, client, full.Details.Movie)
		}
	}

	printWatchlist(out, st.State())

	if *watch {
		runWatchMode(ctx, cfg, client, st)
		return 0
	}

	if failures > 0 {
		return 1
	}
	return 0
}

func openCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	c, err := cache.Open(ctx, cache.Options{
		Backend:       cfg.Backend,
		Size:          cfg.Size,
		SQLitePath:    cfg.SQLitePath,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		Prefix:        cfg.Prefix,
	})
	if err != nil {
		return nil, err
	}
	if sq, ok := c.(*cache.SQLiteCache); ok {
		if n, err := sq.Purge(ctx); err != nil {
			slog.Warn("failed to purge expired cache entries", "error", err)
		} else if n > 0 {
			slog.Info("purged expired cache entries", "count", n)
		}
	}
	return c, nil
}

func parseCategories(s string) ([]catalog.Category, error) {
	if strings.TrimSpace(s) == "" || strings.EqualFold(strings.TrimSpace(s), "all") {
		return catalog.Categories(), nil
	}
	var out []catalog.Category
	for _, part := range strings.Split(s, ",") {
		c, err := catalog.ParseCategory(part)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// loadCategory fetches the first n pages of c and returns the number of failures.
func loadCategory(ctx context.Context, st *store.Store, c catalog.Category, n int) int {
	if err := st.FetchCategory(ctx, c, 1); err != nil {
		return 1
	}
	for i := 1; i < n; i++ {
		if !store.HasMore(st.State(), store.CategoryBucket(c)) {
			break
		}
		if err := st.LoadMore(ctx, c); err != nil {
			return 1
		}
	}
	return 0
}

// applyWatchlist adds the requested ids found in the loaded lists and sets
// the view preferences.
func applyWatchlist(st *store.Store, cats []catalog.Category) error {
	field, err := movieutil.ParseSortField(*sortBy)
	if err != nil {
		return err
	}
	order, err := movieutil.ParseSortOrder(*sortOrder)
	if err != nil {
		return err
	}
	if err := st.SetSortBy(field); err != nil {
		return err
	}
	if err := st.SetSortOrder(order); err != nil {
		return err
	}
	if err := st.SetFilterBy(store.FilterBy(strings.ToLower(*filterBy))); err != nil {
		return err
	}

	if *addIDs == "" {
		return nil
	}

	snapshot := st.State()
	known := make(map[int]catalog.Movie)
	for _, c := range cats {
		for _, m := range store.CategoryMovies(snapshot, c) {
			known[m.ID] = m
		}
	}
	for _, m := range store.SearchResults(snapshot) {
		known[m.ID] = m
	}

	var toAdd []catalog.Movie
	for _, part := range strings.Split(*addIDs, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fmt.Errorf("invalid movie id %q", part)
		}
		m, ok := known[id]
		if !ok {
			slog.Warn("movie not in any loaded list, skipping", "movie_id", id)
			continue
		}
		toAdd = append(toAdd, m)
	}
	st.AddManyToWatchlist(toAdd)
	return nil
}

func downloadPoster(ctx context.Context, client *catalog.Client, m catalog.Movie) {
	if *posterDir == "" || m.PosterPath == nil {
		return
	}
	out := filepath.Join(*posterDir, fmt.Sprintf("%d%s", m.ID, filepath.Ext(*m.PosterPath)))
	if err := client.DownloadImage(ctx, m.PosterPath, catalog.PosterSize, out); err != nil {
		slog.Warn("poster download failed", "movie_id", m.ID, "error", err)
		return
	}
	fmt.Printf("  ✓ Downloaded poster to %s\n", out)
}

// runWatchMode keeps the lists fresh and follows config changes until interrupted.
func runWatchMode(ctx context.Context, cfg *config.Config, client *catalog.Client, st *store.Store) {
	if _, err := os.Stat(*configPath); err == nil {
		w, err := config.Watch(config.WatcherConfig{Path: *configPath}, func(next *config.Config) {
			client.SetDefaultParams(next.TMDB.Language, next.TMDB.Region)
		})
		if err != nil {
			slog.Warn("config hot reload disabled", "error", err)
		} else {
			defer w.Stop()
		}
	}

	if cfg.Refresh.IntervalMinutes <= 0 {
		slog.Info("refresh.interval_minutes is 0, waiting for interrupt")
		<-ctx.Done()
		return
	}

	r := newRefresher(st, cfg.Refresh, func(stats store.RefreshStats) {
		fmt.Printf("Refreshed %d categories (%d failed) in %s\n", stats.Refreshed, stats.Failed, stats.Duration.Round(time.Millisecond))
	})
	r.run(ctx, cfg.Refresh.OnStartup)
}
