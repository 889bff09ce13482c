package store

import (
	"time"

	"github.com/marco/cinelist/internal/catalog"
	"github.com/marco/cinelist/internal/movieutil"
)

// Action is an event applied by Reduce.
type Action interface {
	isAction()
}

// Movie list actions. Seq ties a completion to the request that started it.
type (
	CategoryRequested struct {
		Category catalog.Category
		Page     int
		Seq      uint64
	}
	CategoryLoaded struct {
		Category   catalog.Category
		Page       int
		Movies     []catalog.Movie
		TotalPages int
		Seq        uint64
	}
	CategoryFailed struct {
		Category catalog.Category
		Message  string
		Seq      uint64
	}

	SearchRequested struct {
		Query string
		Page  int
		Seq   uint64
	}
	SearchLoaded struct {
		Query      string
		Page       int
		Movies     []catalog.Movie
		TotalPages int
		Seq        uint64
	}
	SearchFailed struct {
		Query   string
		Message string
		Seq     uint64
	}
	// SearchCleared resets the search bucket. Its Seq supersedes any
	// search still in flight.
	SearchCleared struct {
		Seq uint64
	}
	SearchQuerySet struct {
		Query string
	}

	DetailsRequested struct {
		MovieID int
		Seq     uint64
	}
	DetailsLoaded struct {
		Details catalog.FullDetails
		Seq     uint64
	}
	DetailsFailed struct {
		MovieID int
		Message string
		Seq     uint64
	}

	ErrorCleared struct {
		Bucket Bucket
	}
)

// Watchlist actions.
type (
	WatchlistAdded struct {
		Movie catalog.Movie
		At    time.Time
	}
	WatchlistRemoved struct {
		MovieID int
	}
	WatchlistAddedMany struct {
		Movies []catalog.Movie
		At     time.Time
	}
	WatchlistRemovedMany struct {
		MovieIDs []int
	}
	WatchlistCleared struct{}

	SortBySet struct {
		SortBy movieutil.SortField
	}
	SortOrderSet struct {
		SortOrder movieutil.SortOrder
	}
	FilterBySet struct {
		FilterBy FilterBy
	}
)

func (CategoryRequested) isAction()    {}
func (CategoryLoaded) isAction()       {}
func (CategoryFailed) isAction()       {}
func (SearchRequested) isAction()      {}
func (SearchLoaded) isAction()         {}
func (SearchFailed) isAction()         {}
func (SearchCleared) isAction()        {}
func (SearchQuerySet) isAction()       {}
func (DetailsRequested) isAction()     {}
func (DetailsLoaded) isAction()        {}
func (DetailsFailed) isAction()        {}
func (ErrorCleared) isAction()         {}
func (WatchlistAdded) isAction()       {}
func (WatchlistRemoved) isAction()     {}
func (WatchlistAddedMany) isAction()   {}
func (WatchlistRemovedMany) isAction() {}
func (WatchlistCleared) isAction()     {}
func (SortBySet) isAction()            {}
func (SortOrderSet) isAction()         {}
func (FilterBySet) isAction()          {}
