package movieutil

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/marco/cinelist/internal/catalog"
)

// SortField names the key a movie list is ordered by.
type SortField string

const (
	SortTitle       SortField = "title"
	SortReleaseDate SortField = "release_date"
	SortVoteAverage SortField = "vote_average"
	// SortAddedAt orders watchlist items by insertion time. Plain movie
	// lists have no such timestamp and keep their order under it.
	SortAddedAt SortField = "addedAt"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// SortFields lists every accepted SortField.
func SortFields() []SortField {
	return []SortField{SortTitle, SortReleaseDate, SortVoteAverage, SortAddedAt}
}

// Valid reports whether f is one of the accepted fields.
func (f SortField) Valid() bool {
	return slices.Contains(SortFields(), f)
}

// Valid reports whether o is Asc or Desc.
func (o SortOrder) Valid() bool {
	return o == Asc || o == Desc
}

// ParseSortField validates a user-supplied sort field.
func ParseSortField(s string) (SortField, error) {
	f := SortField(strings.TrimSpace(s))
	if !f.Valid() {
		return "", fmt.Errorf("invalid sort field %q", s)
	}
	return f, nil
}

// ParseSortOrder validates a user-supplied sort order.
func ParseSortOrder(s string) (SortOrder, error) {
	o := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	if !o.Valid() {
		return "", fmt.Errorf("invalid sort order %q", s)
	}
	return o, nil
}

// releaseTime places unparseable dates before every real date.
func releaseTime(m catalog.Movie) time.Time {
	t, _ := ParseDate(m.ReleaseDate)
	return t
}

// CompareMovies orders two movies ascending by field. Titles compare
// case-insensitively. It returns 0 for SortAddedAt.
func CompareMovies(a, b catalog.Movie, field SortField) int {
	switch field {
	case SortTitle:
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case SortReleaseDate:
		return releaseTime(a).Compare(releaseTime(b))
	case SortVoteAverage:
		return cmp.Compare(a.VoteAverage, b.VoteAverage)
	default:
		return 0
	}
}

// Directed flips an ascending comparison result for Desc.
func Directed(c int, order SortOrder) int {
	if order == Desc {
		return -c
	}
	return c
}

// SortMovies returns a sorted copy of movies. Equal keys keep their input order.
func SortMovies(movies []catalog.Movie, field SortField, order SortOrder) []catalog.Movie {
	out := slices.Clone(movies)
	slices.SortStableFunc(out, func(a, b catalog.Movie) int {
		return Directed(CompareMovies(a, b, field), order)
	})
	return out
}
