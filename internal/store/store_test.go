package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/marco/cinelist/internal/catalog"
	"github.com/marco/cinelist/internal/movieutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T, opts ...Option) (*Store, *MockCatalog) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mc := NewMockCatalog(ctrl)
	return New(mc, append([]Option{WithLogger(quietLogger())}, opts...)...), mc
}

func page(n, total int, movies ...catalog.Movie) *catalog.MovieListResponse {
	return &catalog.MovieListResponse{Page: n, Results: movies, TotalPages: total, TotalResults: len(movies)}
}

func TestFetchCategory_LoadMoreAppends(t *testing.T) {
	s, mc := newTestStore(t)
	ctx := context.Background()

	gomock.InOrder(
		mc.EXPECT().FetchByCategory(gomock.Any(), catalog.Popular, 1).Return(page(1, 2, movie(1, "A")), nil),
		mc.EXPECT().FetchByCategory(gomock.Any(), catalog.Popular, 2).Return(page(2, 2, movie(2, "B")), nil),
	)

	if err := s.FetchCategory(ctx, catalog.Popular, 1); err != nil {
		t.Fatalf("FetchCategory: %v", err)
	}
	if err := s.LoadMore(ctx, catalog.Popular); err != nil {
		t.Fatalf("LoadMore: %v", err)
	}
	// last page reached: no further request
	if err := s.LoadMore(ctx, catalog.Popular); err != nil {
		t.Fatalf("LoadMore at end: %v", err)
	}

	st := s.State()
	if got := ids(CategoryMovies(st, catalog.Popular)); !slices.Equal(got, []int{1, 2}) {
		t.Errorf("movies = %v, want [1 2]", got)
	}
	if HasMore(st, BucketPopular) {
		t.Error("HasMore should be false on the last page")
	}
}

func TestFetchCategory_FailureStoresMessage(t *testing.T) {
	s, mc := newTestStore(t)
	ctx := context.Background()

	apiErr := &catalog.Error{Kind: catalog.ErrHTTP, Message: "The resource you requested could not be found.", StatusCode: 404}
	gomock.InOrder(
		mc.EXPECT().FetchByCategory(gomock.Any(), catalog.NowPlaying, 1).Return(page(1, 3, movie(1, "A")), nil),
		mc.EXPECT().FetchByCategory(gomock.Any(), catalog.NowPlaying, 2).Return(nil, apiErr),
	)

	if err := s.FetchCategory(ctx, catalog.NowPlaying, 1); err != nil {
		t.Fatal(err)
	}
	err := s.FetchCategory(ctx, catalog.NowPlaying, 2)
	if !errors.Is(err, catalog.ErrHTTP) {
		t.Fatalf("err = %v, want ErrHTTP", err)
	}

	st := s.State()
	if e := Error(st, BucketNowPlaying); e != apiErr.Message {
		t.Errorf("stored error = %q", e)
	}
	if got := ids(CategoryMovies(st, catalog.NowPlaying)); !slices.Equal(got, []int{1}) {
		t.Errorf("movies = %v, loaded data must survive a failure", got)
	}
	if Error(st, BucketPopular) != "" {
		t.Error("other buckets must not be affected")
	}
}

func TestFetchCategory_InvalidCategory(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.FetchCategory(context.Background(), catalog.Category("latest"), 1)
	if !errors.Is(err, catalog.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestFetchCategory_OutOfOrderCompletion(t *testing.T) {
	s, mc := newTestStore(t)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	mc.EXPECT().FetchByCategory(gomock.Any(), catalog.TopRated, 1).Times(2).DoAndReturn(
		func(ctx context.Context, c catalog.Category, p int) (*catalog.MovieListResponse, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n == 1 {
				close(entered)
				<-release
				return page(1, 1, movie(1, "stale")), nil
			}
			return page(1, 1, movie(2, "fresh")), nil
		})

	done := make(chan error)
	go func() { done <- s.FetchCategory(ctx, catalog.TopRated, 1) }()
	<-entered

	if err := s.FetchCategory(ctx, catalog.TopRated, 1); err != nil {
		t.Fatal(err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	if got := ids(CategoryMovies(s.State(), catalog.TopRated)); !slices.Equal(got, []int{2}) {
		t.Errorf("movies = %v, the older response overwrote the newer one", got)
	}
}

func TestSearch_ClearWhileInFlight(t *testing.T) {
	s, mc := newTestStore(t)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	mc.EXPECT().Search(gomock.Any(), "heat", 1).DoAndReturn(
		func(ctx context.Context, q string, p int) (*catalog.MovieListResponse, error) {
			close(entered)
			<-release
			return page(1, 1, movie(949, "Heat")), nil
		})

	done := make(chan error)
	go func() { done <- s.Search(ctx, "heat", 1) }()
	<-entered
	if !Loading(s.State(), BucketSearch) {
		t.Error("search should be loading")
	}

	s.ClearSearch()
	close(release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	st := s.State()
	if SearchQuery(st) != "" || len(SearchResults(st)) != 0 || Loading(st, BucketSearch) {
		t.Errorf("cleared search was repopulated: %+v", st.Movies.Search)
	}
}

func TestSearchMore(t *testing.T) {
	s, mc := newTestStore(t)
	ctx := context.Background()

	gomock.InOrder(
		mc.EXPECT().Search(gomock.Any(), "alien", 1).Return(page(1, 2, movie(348, "Alien")), nil),
		mc.EXPECT().Search(gomock.Any(), "alien", 2).Return(page(2, 2, movie(679, "Aliens")), nil),
	)

	if err := s.Search(ctx, "alien", 1); err != nil {
		t.Fatal(err)
	}
	if err := s.SearchMore(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.SearchMore(ctx); err != nil {
		t.Fatal(err)
	}

	if got := ids(SearchResults(s.State())); !slices.Equal(got, []int{348, 679}) {
		t.Errorf("results = %v", got)
	}
}

func TestSearch_FailureUsesGenericMessage(t *testing.T) {
	s, mc := newTestStore(t)

	mc.EXPECT().Search(gomock.Any(), "x", 1).Return(nil, &catalog.Error{Kind: catalog.ErrUnknown})
	if err := s.Search(context.Background(), "x", 1); err == nil {
		t.Fatal("expected error")
	}
	if e := Error(s.State(), BucketSearch); e != "Failed to search movies" {
		t.Errorf("error = %q", e)
	}
}

func TestFetchDetails(t *testing.T) {
	s, mc := newTestStore(t)
	ctx := context.Background()

	full := &catalog.FullDetails{
		Details:         catalog.MovieDetails{Movie: movie(603, "The Matrix")},
		Credits:         catalog.EmptyCredits(603),
		Recommendations: []catalog.Movie{},
		Partial:         true,
	}
	gomock.InOrder(
		mc.EXPECT().FetchFullDetails(gomock.Any(), 603).Return(full, nil),
		mc.EXPECT().FetchFullDetails(gomock.Any(), 7).Return(nil, &catalog.Error{Kind: catalog.ErrUnauthorized, Message: "no token", StatusCode: 401}),
	)

	got, err := s.FetchDetails(ctx, 603)
	if err != nil || got.Details.ID != 603 {
		t.Fatalf("FetchDetails = %+v, %v", got, err)
	}
	if _, ok := MovieDetails(s.State(), 603); !ok {
		t.Error("details were not cached")
	}

	if _, err := s.FetchDetails(ctx, 7); !errors.Is(err, catalog.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
	if e := Error(s.State(), BucketDetails); e != "no token" {
		t.Errorf("details error = %q", e)
	}
}

func TestSubscribe(t *testing.T) {
	s, _ := newTestStore(t)

	var seen []int
	unsubscribe := s.Subscribe(func(st State) {
		seen = append(seen, WatchlistCount(st))
	})

	s.AddToWatchlist(movie(1, "A"))
	s.AddToWatchlist(movie(2, "B"))
	unsubscribe()
	unsubscribe()
	s.AddToWatchlist(movie(3, "C"))

	if !slices.Equal(seen, []int{1, 2}) {
		t.Errorf("listener saw %v, want [1 2]", seen)
	}
}

func TestWatchlistOperations(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s, _ := newTestStore(t, WithClock(func() time.Time { return now }))

	s.AddToWatchlist(movie(1, "A"))
	if items := WatchlistItems(s.State()); !items[0].AddedAt.Equal(now) {
		t.Errorf("AddedAt = %v, want %v", items[0].AddedAt, now)
	}

	if s.ToggleWatchlist(movie(1, "A")) {
		t.Error("toggle of a saved movie should remove it")
	}
	if !s.ToggleWatchlist(movie(2, "B")) {
		t.Error("toggle of an unsaved movie should add it")
	}

	s.AddManyToWatchlist([]catalog.Movie{movie(2, "B"), movie(3, "C"), movie(4, "D")})
	s.RemoveManyFromWatchlist([]int{3})
	if got := ids(s.State().Watchlist.Movies()); !slices.Equal(got, []int{2, 4}) {
		t.Errorf("watchlist = %v, want [2 4]", got)
	}

	s.RemoveFromWatchlist(2)
	if IsInWatchlist(s.State(), 2) {
		t.Error("movie 2 still saved")
	}
	s.ClearWatchlist()
	if WatchlistCount(s.State()) != 0 {
		t.Error("watchlist not cleared")
	}
}

func TestPreferenceSetters(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.SetSortBy(movieutil.SortTitle); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSortOrder(movieutil.Asc); err != nil {
		t.Fatal(err)
	}
	if err := s.SetFilterBy(FilterRating); err != nil {
		t.Fatal(err)
	}

	for _, err := range []error{
		s.SetSortBy("popularity"),
		s.SetSortOrder("up"),
		s.SetFilterBy("genre"),
	} {
		if !errors.Is(err, catalog.ErrInvalidArgument) {
			t.Errorf("err = %v, want ErrInvalidArgument", err)
		}
	}

	w := s.State().Watchlist
	if w.SortBy != movieutil.SortTitle || w.SortOrder != movieutil.Asc || w.FilterBy != FilterRating {
		t.Errorf("preferences = %s %s %s", w.SortBy, w.SortOrder, w.FilterBy)
	}
}

func TestRefreshAll(t *testing.T) {
	s, mc := newTestStore(t)

	mc.EXPECT().FetchByCategory(gomock.Any(), gomock.Any(), 1).Times(4).DoAndReturn(
		func(ctx context.Context, c catalog.Category, p int) (*catalog.MovieListResponse, error) {
			if c == catalog.Upcoming {
				return nil, &catalog.Error{Kind: catalog.ErrNetwork, Message: "offline"}
			}
			return page(1, 1, movie(1, string(c)), movie(2, string(c))), nil
		})

	stats := s.RefreshAll(context.Background(), 2)
	if stats.Refreshed != 3 || stats.Failed != 1 || len(stats.Results) != 4 {
		t.Fatalf("stats = %+v", stats)
	}

	st := s.State()
	for _, c := range catalog.Categories() {
		want := 2
		if c == catalog.Upcoming {
			want = 0
		}
		if got := len(CategoryMovies(st, c)); got != want {
			t.Errorf("%s has %d movies, want %d", c, got, want)
		}
	}
	if e := Error(st, BucketUpcoming); e != "offline" {
		t.Errorf("upcoming error = %q", e)
	}
}

func TestRefreshAll_CancelledContext(t *testing.T) {
	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := s.RefreshAll(ctx, 4)
	if stats.Failed != 4 || stats.Refreshed != 0 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestSearch_BlankQueryResetsToFirstPage(t *testing.T) {
	s, mc := newTestStore(t)

	mc.EXPECT().Search(gomock.Any(), "   ", 3).Return(catalog.EmptyListResponse(), nil)
	if err := s.Search(context.Background(), "   ", 3); err != nil {
		t.Fatal(err)
	}

	st := s.State()
	if p := Pagination(st, BucketSearch); p != (PageCursor{CurrentPage: 1, TotalPages: 0}) {
		t.Errorf("pagination = %+v, want page 1 of 0", p)
	}
	if HasMore(st, BucketSearch) {
		t.Error("blank search reports more pages")
	}
}

func TestWithState_SeedsWatchlist(t *testing.T) {
	seed := Initial()
	seed.Watchlist.Items = []WatchlistItem{
		{Movie: movie(603, "The Matrix"), AddedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	s, _ := newTestStore(t, WithState(seed))

	if !IsInWatchlist(s.State(), 603) {
		t.Fatal("seeded item missing")
	}
	if added := s.ToggleWatchlist(movie(603, "The Matrix")); added {
		t.Error("toggle on a seeded item should remove it")
	}
	if WatchlistCount(s.State()) != 0 {
		t.Errorf("count = %d", WatchlistCount(s.State()))
	}
	if len(seed.Watchlist.Items) != 1 {
		t.Error("seed state was modified")
	}
}
