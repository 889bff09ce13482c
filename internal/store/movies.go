package store

import (
	"maps"
	"slices"

	"github.com/marco/cinelist/internal/catalog"
)

// Reduce applies a to s and returns the next state. It never modifies s or
// anything reachable from it.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case CategoryRequested, CategoryLoaded, CategoryFailed,
		SearchRequested, SearchLoaded, SearchFailed, SearchCleared, SearchQuerySet,
		DetailsRequested, DetailsLoaded, DetailsFailed, ErrorCleared:
		s.Movies = reduceMovies(s.Movies, a)
	default:
		s.Watchlist = reduceWatchlist(s.Watchlist, a)
	}
	return s
}

func reduceMovies(m MoviesState, a Action) MoviesState {
	switch a := a.(type) {
	case CategoryRequested:
		l, ok := m.Categories[a.Category]
		if !ok || a.Seq < l.seq {
			return m
		}
		m.Categories = withCategory(m.Categories, a.Category, l.requested(a.Seq))

	case CategoryLoaded:
		l, ok := m.Categories[a.Category]
		if !ok || a.Seq < l.seq {
			return m
		}
		m.Categories = withCategory(m.Categories, a.Category, l.loaded(a.Page, a.Movies, a.TotalPages))

	case CategoryFailed:
		l, ok := m.Categories[a.Category]
		if !ok || a.Seq < l.seq {
			return m
		}
		m.Categories = withCategory(m.Categories, a.Category, l.failed(a.Message, msgFetchMovies))

	case SearchRequested:
		if a.Seq < m.Search.seq {
			return m
		}
		m.Search.ListState = m.Search.requested(a.Seq)

	case SearchLoaded:
		if a.Seq < m.Search.seq {
			return m
		}
		m.Search.ListState = m.Search.loaded(a.Page, a.Movies, a.TotalPages)
		m.Search.Query = a.Query

	case SearchFailed:
		if a.Seq < m.Search.seq {
			return m
		}
		m.Search.ListState = m.Search.failed(a.Message, msgSearchMovies)

	case SearchCleared:
		cleared := SearchState{ListState: emptyList()}
		cleared.seq = max(m.Search.seq, a.Seq)
		m.Search = cleared

	case SearchQuerySet:
		m.Search.Query = a.Query

	case DetailsRequested:
		if a.Seq < m.Details.latest[a.MovieID] {
			return m
		}
		m.Details.latest = withLatestSeq(m.Details.latest, a.MovieID, a.Seq)
		if a.Seq >= m.Details.seq {
			m.Details.Loading = true
			m.Details.Error = ""
			m.Details.seq = a.Seq
		}

	case DetailsLoaded:
		id := a.Details.Details.ID
		if a.Seq < m.Details.latest[id] {
			return m
		}
		entries := maps.Clone(m.Details.Entries)
		if entries == nil {
			entries = map[int]catalog.FullDetails{}
		}
		entries[id] = a.Details
		m.Details.Entries = entries
		if a.Seq >= m.Details.seq {
			m.Details.Loading = false
		}

	case DetailsFailed:
		if a.Seq < m.Details.latest[a.MovieID] {
			return m
		}
		if a.Seq >= m.Details.seq {
			m.Details.Loading = false
			m.Details.Error = orDefault(a.Message, msgFetchDetails)
		}

	case ErrorCleared:
		switch a.Bucket {
		case BucketSearch:
			m.Search.Error = ""
		case BucketDetails:
			m.Details.Error = ""
		default:
			c := catalog.Category(a.Bucket)
			if l, ok := m.Categories[c]; ok && l.Error != "" {
				l.Error = ""
				m.Categories = withCategory(m.Categories, c, l)
			}
		}
	}
	return m
}

func withCategory(in map[catalog.Category]ListState, c catalog.Category, l ListState) map[catalog.Category]ListState {
	out := maps.Clone(in)
	out[c] = l
	return out
}

func withLatestSeq(in map[int]uint64, id int, seq uint64) map[int]uint64 {
	out := maps.Clone(in)
	if out == nil {
		out = map[int]uint64{}
	}
	out[id] = seq
	return out
}

func (l ListState) requested(seq uint64) ListState {
	l.Loading = true
	l.Error = ""
	l.seq = seq
	return l
}

// loaded replaces the list for page 1 and appends for later pages.
// Duplicates across pages are kept.
func (l ListState) loaded(page int, movies []catalog.Movie, totalPages int) ListState {
	if page <= 1 {
		l.Movies = slices.Clone(movies)
	} else {
		l.Movies = slices.Concat(l.Movies, movies)
	}
	if l.Movies == nil {
		l.Movies = []catalog.Movie{}
	}
	l.Loading = false
	l.Pagination = PageCursor{CurrentPage: max(page, 1), TotalPages: totalPages}
	return l
}

// failed keeps the loaded movies and records the error message.
func (l ListState) failed(message, fallback string) ListState {
	l.Loading = false
	l.Error = orDefault(message, fallback)
	return l
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
