package store

import (
	"slices"

	"github.com/marco/cinelist/internal/catalog"
)

// Selectors are plain functions over a snapshot.

func CategoryMovies(s State, c catalog.Category) []catalog.Movie {
	return s.Movies.Categories[c].Movies
}

func SearchResults(s State) []catalog.Movie {
	return s.Movies.Search.Movies
}

func SearchQuery(s State) string {
	return s.Movies.Search.Query
}

// IsSearchMode reports whether a query is active.
func IsSearchMode(s State) bool {
	return s.Movies.Search.Query != ""
}

// list returns the paged list behind b; details has none.
func list(s State, b Bucket) (ListState, bool) {
	if b == BucketSearch {
		return s.Movies.Search.ListState, true
	}
	l, ok := s.Movies.Categories[catalog.Category(b)]
	return l, ok
}

// Loading reports whether b has a request in flight.
func Loading(s State, b Bucket) bool {
	if b == BucketDetails {
		return s.Movies.Details.Loading
	}
	l, _ := list(s, b)
	return l.Loading
}

// Error returns the message stored for b, or "".
func Error(s State, b Bucket) string {
	if b == BucketDetails {
		return s.Movies.Details.Error
	}
	l, _ := list(s, b)
	return l.Error
}

func IsAnyLoading(s State) bool {
	return slices.ContainsFunc(Buckets(), func(b Bucket) bool { return Loading(s, b) })
}

func HasAnyError(s State) bool {
	return slices.ContainsFunc(Buckets(), func(b Bucket) bool { return Error(s, b) != "" })
}

func Pagination(s State, b Bucket) PageCursor {
	l, _ := list(s, b)
	return l.Pagination
}

// HasMore reports whether another page of b can be requested.
func HasMore(s State, b Bucket) bool {
	p := Pagination(s, b)
	return p.CurrentPage > 0 && p.CurrentPage < p.TotalPages
}

// MovieDetails returns the cached detail page for id.
func MovieDetails(s State, id int) (catalog.FullDetails, bool) {
	d, ok := s.Movies.Details.Entries[id]
	return d, ok
}

func WatchlistItems(s State) []WatchlistItem {
	return s.Watchlist.Items
}

func WatchlistCount(s State) int {
	return s.Watchlist.Count()
}

func IsInWatchlist(s State, id int) bool {
	return s.Watchlist.Contains(id)
}

// VisibleWatchlist collects the filtered, sorted watchlist.
func VisibleWatchlist(s State) []WatchlistItem {
	return slices.Collect(s.Watchlist.Visible())
}

// MovieWithStatus pairs a movie with its watchlist membership.
type MovieWithStatus struct {
	catalog.Movie
	InWatchlist bool
}

// WithWatchlistStatus marks each movie that is also in the watchlist.
func WithWatchlistStatus(s State, movies []catalog.Movie) []MovieWithStatus {
	saved := make(map[int]bool, len(s.Watchlist.Items))
	for _, it := range s.Watchlist.Items {
		saved[it.ID] = true
	}
	out := make([]MovieWithStatus, len(movies))
	for i, m := range movies {
		out[i] = MovieWithStatus{Movie: m, InWatchlist: saved[m.ID]}
	}
	return out
}
