package store

import (
	"context"

	"github.com/marco/cinelist/internal/catalog"
	"github.com/marco/cinelist/internal/movieutil"
)

// FetchCategory loads one page of category c. Page 1 replaces the list,
// later pages append to it. A failure is recorded on the bucket and returned.
func (s *Store) FetchCategory(ctx context.Context, c catalog.Category, page int) error {
	if !c.Valid() {
		return catalog.InvalidArgument("Invalid category: %s", c)
	}
	page = max(page, 1)

	seq := s.begin(func(seq uint64) Action {
		return CategoryRequested{Category: c, Page: page, Seq: seq}
	})

	resp, err := s.catalog.FetchByCategory(ctx, c, page)
	if err != nil {
		s.logger.Warn("category fetch failed",
			"category", c,
			"page", page,
			"error", err,
		)
		s.Dispatch(CategoryFailed{Category: c, Message: catalog.Message(err), Seq: seq})
		return err
	}

	s.Dispatch(CategoryLoaded{
		Category:   c,
		Page:       servedPage(resp, page),
		Movies:     resp.Results,
		TotalPages: resp.TotalPages,
		Seq:        seq,
	})
	return nil
}

// LoadMore fetches the page after the last loaded one. It does nothing while
// the category is loading or when every page is already loaded.
func (s *Store) LoadMore(ctx context.Context, c catalog.Category) error {
	st := s.State()
	b := CategoryBucket(c)
	if Loading(st, b) || !HasMore(st, b) {
		return nil
	}
	return s.FetchCategory(ctx, c, Pagination(st, b).CurrentPage+1)
}

// Search runs query and stores the results in the search bucket. A blank
// query yields an empty result set.
func (s *Store) Search(ctx context.Context, query string, page int) error {
	page = max(page, 1)

	seq := s.begin(func(seq uint64) Action {
		return SearchRequested{Query: query, Page: page, Seq: seq}
	})

	resp, err := s.catalog.Search(ctx, query, page)
	if err != nil {
		s.logger.Warn("search failed",
			"page", page,
			"error", err,
		)
		s.Dispatch(SearchFailed{Query: query, Message: catalog.Message(err), Seq: seq})
		return err
	}

	s.Dispatch(SearchLoaded{
		Query:      query,
		Page:       servedPage(resp, page),
		Movies:     resp.Results,
		TotalPages: resp.TotalPages,
		Seq:        seq,
	})
	return nil
}

// servedPage is the page the catalog answered with, falling back to the
// requested one. A blank search answers with an empty page 1.
func servedPage(resp *catalog.MovieListResponse, requested int) int {
	if resp.Page > 0 {
		return resp.Page
	}
	return requested
}

// SearchMore fetches the next page of the active query.
func (s *Store) SearchMore(ctx context.Context) error {
	st := s.State()
	if !IsSearchMode(st) || Loading(st, BucketSearch) || !HasMore(st, BucketSearch) {
		return nil
	}
	return s.Search(ctx, SearchQuery(st), Pagination(st, BucketSearch).CurrentPage+1)
}

// ClearSearch empties the search bucket. Searches still in flight are
// ignored when they complete.
func (s *Store) ClearSearch() {
	s.begin(func(seq uint64) Action { return SearchCleared{Seq: seq} })
}

// SetSearchQuery records the query being typed without running it.
func (s *Store) SetSearchQuery(query string) {
	s.Dispatch(SearchQuerySet{Query: query})
}

// ClearError drops the error message stored for b.
func (s *Store) ClearError(b Bucket) {
	s.Dispatch(ErrorCleared{Bucket: b})
}

// FetchDetails loads the detail page for movieID into the details cache.
func (s *Store) FetchDetails(ctx context.Context, movieID int) (*catalog.FullDetails, error) {
	seq := s.begin(func(seq uint64) Action {
		return DetailsRequested{MovieID: movieID, Seq: seq}
	})

	full, err := s.catalog.FetchFullDetails(ctx, movieID)
	if err != nil {
		s.logger.Warn("details fetch failed",
			"movie_id", movieID,
			"error", err,
		)
		s.Dispatch(DetailsFailed{MovieID: movieID, Message: catalog.Message(err), Seq: seq})
		return nil, err
	}
	if full.Partial {
		s.logger.Info("details loaded without some sections", "movie_id", movieID)
	}

	s.Dispatch(DetailsLoaded{Details: *full, Seq: seq})
	return full, nil
}

// AddToWatchlist saves m. Saving a movie twice keeps the first timestamp.
func (s *Store) AddToWatchlist(m catalog.Movie) {
	s.Dispatch(WatchlistAdded{Movie: m, At: s.now()})
}

// RemoveFromWatchlist removes movieID if present.
func (s *Store) RemoveFromWatchlist(movieID int) {
	s.Dispatch(WatchlistRemoved{MovieID: movieID})
}

// AddManyToWatchlist saves every movie not already present, in order.
func (s *Store) AddManyToWatchlist(movies []catalog.Movie) {
	s.Dispatch(WatchlistAddedMany{Movies: movies, At: s.now()})
}

// RemoveManyFromWatchlist removes every listed id that is present.
func (s *Store) RemoveManyFromWatchlist(movieIDs []int) {
	s.Dispatch(WatchlistRemovedMany{MovieIDs: movieIDs})
}

// ClearWatchlist removes every saved movie.
func (s *Store) ClearWatchlist() {
	s.Dispatch(WatchlistCleared{})
}

// ToggleWatchlist adds m when absent and removes it otherwise. It reports
// whether m is saved afterwards.
func (s *Store) ToggleWatchlist(m catalog.Movie) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Watchlist.Contains(m.ID) {
		s.applyLocked(WatchlistRemoved{MovieID: m.ID})
		return false
	}
	s.applyLocked(WatchlistAdded{Movie: m, At: s.now()})
	return true
}

func (s *Store) SetSortBy(field movieutil.SortField) error {
	if !field.Valid() {
		return catalog.InvalidArgument("Invalid sort field: %s", field)
	}
	s.Dispatch(SortBySet{SortBy: field})
	return nil
}

func (s *Store) SetSortOrder(order movieutil.SortOrder) error {
	if !order.Valid() {
		return catalog.InvalidArgument("Invalid sort order: %s", order)
	}
	s.Dispatch(SortOrderSet{SortOrder: order})
	return nil
}

func (s *Store) SetFilterBy(filter FilterBy) error {
	if !filter.Valid() {
		return catalog.InvalidArgument("Invalid filter: %s", filter)
	}
	s.Dispatch(FilterBySet{FilterBy: filter})
	return nil
}
