package movieutil

import (
	"strings"

	"github.com/mozillazg/go-unidecode"

	"github.com/marco/cinelist/internal/catalog"
)

// fold lower-cases s and strips accents so "Amélie" matches "amelie".
func fold(s string) string {
	return strings.ToLower(unidecode.Unidecode(s))
}

// FilterBySearch keeps movies whose title or overview contains query.
// A blank query returns movies unchanged.
func FilterBySearch(movies []catalog.Movie, query string) []catalog.Movie {
	q := fold(strings.TrimSpace(query))
	if q == "" {
		return movies
	}

	out := make([]catalog.Movie, 0, len(movies))
	for _, m := range movies {
		if strings.Contains(fold(m.Title), q) || strings.Contains(fold(m.Overview), q) {
			out = append(out, m)
		}
	}
	return out
}
