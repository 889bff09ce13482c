package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/marco/cinelist/internal/catalog"
	"github.com/marco/cinelist/internal/movieutil"
	"github.com/marco/cinelist/internal/store"
)

const overviewWidth = 90

func repeat(s string, count int) string {
	return strings.Repeat(s, count)
}

func printHeader(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, repeat("=", len(title)))
}

func printMovies(w io.Writer, st store.State, movies []catalog.Movie) {
	for i, m := range store.WithWatchlistStatus(st, movies) {
		mark := " "
		if m.InWatchlist {
			mark = "✓"
		}
		fmt.Fprintf(w, "%s %3d. %-40s %s  %3d%%  [id %d]\n",
			mark,
			i+1,
			movieutil.Truncate(m.Title, 37),
			movieutil.FormatDate(m.ReleaseDate, false),
			movieutil.PercentageScore(m.VoteAverage),
			m.ID,
		)
	}
}

// printBucket renders a category or the search list with its status.
func printBucket(w io.Writer, st store.State, b store.Bucket, title string, movies []catalog.Movie) {
	printHeader(w, title)
	if msg := store.Error(st, b); msg != "" {
		fmt.Fprintf(w, "  ❌ %s\n", msg)
	}
	if len(movies) == 0 {
		fmt.Fprintln(w, "  (no movies)")
		return
	}
	printMovies(w, st, movies)

	p := store.Pagination(st, b)
	fmt.Fprintf(w, "  page %d of %d", p.CurrentPage, p.TotalPages)
	if store.HasMore(st, b) {
		fmt.Fprint(w, " (more available)")
	}
	fmt.Fprintln(w)
}

func printDetails(w io.Writer, full catalog.FullDetails, posterURL string) {
	d := full.Details
	printHeader(w, fmt.Sprintf("%s (%d)", d.Title, movieutil.YearFromDate(d.ReleaseDate)))
	if d.Tagline != "" {
		fmt.Fprintf(w, "  %q\n", d.Tagline)
	}

	runtime := 0
	if d.Runtime != nil {
		runtime = *d.Runtime
	}
	fmt.Fprintf(w, "  Released: %s   Runtime: %s   Score: %d%% (%s votes)\n",
		movieutil.FormatDate(d.ReleaseDate, true),
		movieutil.FormatRuntime(runtime),
		movieutil.PercentageScore(d.VoteAverage),
		movieutil.FormatVotes(d.VoteCount),
	)
	fmt.Fprintf(w, "  Budget: %s   Revenue: %s\n", movieutil.FormatMoney(d.Budget), movieutil.FormatMoney(d.Revenue))

	if len(d.Genres) > 0 {
		names := make([]string, len(d.Genres))
		for i, g := range d.Genres {
			names[i] = g.Name
		}
		fmt.Fprintf(w, "  Genres: %s\n", strings.Join(names, ", "))
	}
	if directors := full.Credits.Directors(); len(directors) > 0 {
		fmt.Fprintf(w, "  Directed by: %s\n", strings.Join(directors, ", "))
	}
	if cast := full.Credits.TopCast(5); len(cast) > 0 {
		fmt.Fprintln(w, "  Cast:")
		for _, c := range cast {
			fmt.Fprintf(w, "    %s as %s\n", c.Name, c.Character)
		}
	}
	if posterURL != "" {
		fmt.Fprintf(w, "  Poster: %s\n", posterURL)
	}
	if d.Overview != "" {
		fmt.Fprintf(w, "\n  %s\n", movieutil.Truncate(d.Overview, overviewWidth*3))
	}

	printRelated(w, "Recommended", full.Recommendations)
	if full.Partial {
		fmt.Fprintln(w, "\n  Some sections could not be loaded.")
	}
}

// printRelated lists up to five titles under a heading inside a detail page.
func printRelated(w io.Writer, heading string, movies []catalog.Movie) {
	if len(movies) == 0 {
		return
	}
	fmt.Fprintf(w, "\n  %s:\n", heading)
	for _, m := range movies[:min(5, len(movies))] {
		fmt.Fprintf(w, "    - %s (%d)\n", m.Title, movieutil.YearFromDate(m.ReleaseDate))
	}
}

func printWatchlist(w io.Writer, st store.State) {
	wl := st.Watchlist
	printHeader(w, fmt.Sprintf("Watchlist (%d) sorted by %s %s, filter %s",
		store.WatchlistCount(st), wl.SortBy, wl.SortOrder, wl.FilterBy))

	items := store.VisibleWatchlist(st)
	if len(items) == 0 {
		fmt.Fprintln(w, "  (empty)")
		return
	}
	for i, it := range items {
		fmt.Fprintf(w, "  %3d. %-40s %s  %.1f  added %s\n",
			i+1,
			movieutil.Truncate(it.Title, 37),
			movieutil.FormatDate(it.ReleaseDate, false),
			it.VoteAverage,
			it.AddedAt.Format("15:04:05"),
		)
	}
}
