package store

import (
	"time"

	"github.com/marco/cinelist/internal/catalog"
	"github.com/marco/cinelist/internal/movieutil"
)

// Bucket names one independently loading part of the movies slice.
type Bucket string

const (
	BucketNowPlaying Bucket = Bucket(catalog.NowPlaying)
	BucketPopular    Bucket = Bucket(catalog.Popular)
	BucketUpcoming   Bucket = Bucket(catalog.Upcoming)
	BucketTopRated   Bucket = Bucket(catalog.TopRated)
	BucketSearch     Bucket = "search"
	BucketDetails    Bucket = "details"
)

// Buckets lists every bucket, categories first.
func Buckets() []Bucket {
	return []Bucket{BucketNowPlaying, BucketPopular, BucketUpcoming, BucketTopRated, BucketSearch, BucketDetails}
}

// CategoryBucket returns the bucket holding category c.
func CategoryBucket(c catalog.Category) Bucket {
	return Bucket(c)
}

const (
	msgFetchMovies  = "Failed to fetch movies"
	msgSearchMovies = "Failed to search movies"
	msgFetchDetails = "Failed to fetch movie details"
)

// PageCursor is the cursor of a paged list. Zero values mean nothing loaded yet.
type PageCursor struct {
	CurrentPage int
	TotalPages  int
}

// ListState is one paged movie list with its load status.
type ListState struct {
	Movies     []catalog.Movie
	Loading    bool
	Error      string
	Pagination PageCursor

	// seq is the sequence number of the latest request for this list.
	seq uint64
}

// SearchState is the search list plus the query that produced it.
type SearchState struct {
	ListState
	Query string
}

// DetailsState caches detail pages by movie id.
type DetailsState struct {
	Entries map[int]catalog.FullDetails
	Loading bool
	Error   string

	// seq gates the shared Loading and Error fields. latest holds the
	// newest request per movie id.
	seq    uint64
	latest map[int]uint64
}

// MoviesState is the movies slice.
type MoviesState struct {
	Categories map[catalog.Category]ListState
	Search     SearchState
	Details    DetailsState
}

// FilterBy restricts which watchlist items are visible.
type FilterBy string

const (
	FilterAll    FilterBy = "all"
	FilterRating FilterBy = "rating"
	FilterYear   FilterBy = "year"
)

// Valid reports whether f is one of the accepted filters.
func (f FilterBy) Valid() bool {
	return f == FilterAll || f == FilterRating || f == FilterYear
}

const (
	ratingThreshold = 7.0
	recentYear      = 2020
)

// Keep reports whether the filter admits m.
func (f FilterBy) Keep(m catalog.Movie) bool {
	switch f {
	case FilterRating:
		return m.VoteAverage >= ratingThreshold
	case FilterYear:
		return movieutil.YearFromDate(m.ReleaseDate) >= recentYear
	default:
		return true
	}
}

// WatchlistItem is a saved movie and the time it was added.
type WatchlistItem struct {
	catalog.Movie
	AddedAt time.Time
}

// WatchlistState is the watchlist slice. Items are kept in insertion order
// and never share an id.
type WatchlistState struct {
	Items     []WatchlistItem
	SortBy    movieutil.SortField
	SortOrder movieutil.SortOrder
	FilterBy  FilterBy
}

// State is a snapshot of the whole store. Snapshots are values: later
// actions never change a snapshot already handed out.
type State struct {
	Movies    MoviesState
	Watchlist WatchlistState
}

func emptyList() ListState {
	return ListState{Movies: []catalog.Movie{}}
}

// Initial returns the state a new store starts from.
func Initial() State {
	categories := make(map[catalog.Category]ListState, len(catalog.Categories()))
	for _, c := range catalog.Categories() {
		categories[c] = emptyList()
	}
	return State{
		Movies: MoviesState{
			Categories: categories,
			Search:     SearchState{ListState: emptyList()},
			Details:    DetailsState{Entries: map[int]catalog.FullDetails{}},
		},
		Watchlist: WatchlistState{
			Items:     []WatchlistItem{},
			SortBy:    movieutil.SortAddedAt,
			SortOrder: movieutil.Desc,
			FilterBy:  FilterAll,
		},
	}
}
