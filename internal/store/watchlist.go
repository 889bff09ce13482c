package store

import (
	"iter"
	"slices"

	"github.com/marco/cinelist/internal/catalog"
	"github.com/marco/cinelist/internal/movieutil"
)

func reduceWatchlist(w WatchlistState, a Action) WatchlistState {
	switch a := a.(type) {
	case WatchlistAdded:
		if w.Contains(a.Movie.ID) {
			return w
		}
		w.Items = append(slices.Clip(w.Items), WatchlistItem{Movie: a.Movie, AddedAt: a.At})

	case WatchlistRemoved:
		if !w.Contains(a.MovieID) {
			return w
		}
		w.Items = slices.DeleteFunc(slices.Clone(w.Items), func(it WatchlistItem) bool {
			return it.ID == a.MovieID
		})

	case WatchlistAddedMany:
		seen := make(map[int]bool, len(w.Items)+len(a.Movies))
		for _, it := range w.Items {
			seen[it.ID] = true
		}
		items := slices.Clip(w.Items)
		for _, m := range a.Movies {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			items = append(items, WatchlistItem{Movie: m, AddedAt: a.At})
		}
		w.Items = items

	case WatchlistRemovedMany:
		drop := make(map[int]bool, len(a.MovieIDs))
		for _, id := range a.MovieIDs {
			drop[id] = true
		}
		w.Items = slices.DeleteFunc(slices.Clone(w.Items), func(it WatchlistItem) bool {
			return drop[it.ID]
		})

	case WatchlistCleared:
		w.Items = []WatchlistItem{}

	case SortBySet:
		if a.SortBy.Valid() {
			w.SortBy = a.SortBy
		}

	case SortOrderSet:
		if a.SortOrder.Valid() {
			w.SortOrder = a.SortOrder
		}

	case FilterBySet:
		if a.FilterBy.Valid() {
			w.FilterBy = a.FilterBy
		}
	}
	if w.Items == nil {
		w.Items = []WatchlistItem{}
	}
	return w
}

// Contains reports whether movieID is in the watchlist.
func (w WatchlistState) Contains(movieID int) bool {
	return slices.ContainsFunc(w.Items, func(it WatchlistItem) bool {
		return it.ID == movieID
	})
}

// Count returns the number of saved movies.
func (w WatchlistState) Count() int {
	return len(w.Items)
}

func (w WatchlistState) compare(a, b WatchlistItem) int {
	var c int
	if w.SortBy == movieutil.SortAddedAt {
		c = a.AddedAt.Compare(b.AddedAt)
	} else {
		c = movieutil.CompareMovies(a.Movie, b.Movie, w.SortBy)
	}
	return movieutil.Directed(c, w.SortOrder)
}

// Sorted yields every item ordered by SortBy and SortOrder. Ordering happens
// when iteration starts, so the sequence can be ranged over repeatedly.
func (w WatchlistState) Sorted() iter.Seq[WatchlistItem] {
	return w.sortedWhere(func(WatchlistItem) bool { return true })
}

// Visible is Sorted restricted to the items FilterBy admits.
func (w WatchlistState) Visible() iter.Seq[WatchlistItem] {
	return w.sortedWhere(func(it WatchlistItem) bool { return w.FilterBy.Keep(it.Movie) })
}

func (w WatchlistState) sortedWhere(keep func(WatchlistItem) bool) iter.Seq[WatchlistItem] {
	return func(yield func(WatchlistItem) bool) {
		items := make([]WatchlistItem, 0, len(w.Items))
		for _, it := range w.Items {
			if keep(it) {
				items = append(items, it)
			}
		}
		slices.SortStableFunc(items, w.compare)
		for _, it := range items {
			if !yield(it) {
				return
			}
		}
	}
}

// Movies returns the saved movies in insertion order.
func (w WatchlistState) Movies() []catalog.Movie {
	out := make([]catalog.Movie, len(w.Items))
	for i, it := range w.Items {
		out[i] = it.Movie
	}
	return out
}
