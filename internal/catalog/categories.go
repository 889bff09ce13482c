package catalog

import "strings"

// Category is one of the fixed movie list endpoints.
type Category string

const (
	NowPlaying Category = "now_playing"
	Popular    Category = "popular"
	Upcoming   Category = "upcoming"
	TopRated   Category = "top_rated"
)

// CategoryMeta describes a category for display.
type CategoryMeta struct {
	ID          Category
	Name        string
	Description string
	Endpoint    string
}

var categories = []CategoryMeta{
	{NowPlaying, "Now Playing", "Movies currently in theaters", "/movie/now_playing"},
	{Popular, "Popular", "Most popular movies right now", "/movie/popular"},
	{Upcoming, "Upcoming", "Movies coming soon to theaters", "/movie/upcoming"},
	{TopRated, "Top Rated", "Highest rated movies of all time", "/movie/top_rated"},
}

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = c.ID
	}
	return out
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	_, ok := CategoryInfo(c)
	return ok
}

// CategoryInfo returns display metadata for c.
func CategoryInfo(c Category) (CategoryMeta, bool) {
	for _, m := range categories {
		if m.ID == c {
			return m, true
		}
	}
	return CategoryMeta{}, false
}

// ParseCategory accepts the API identifier ("top_rated") or a hyphenated
// form ("top-rated"), case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !c.Valid() {
		return "", invalidArgument("Invalid category: %s", s)
	}
	return c, nil
}
