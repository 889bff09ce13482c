// Package movieutil holds presentation helpers for catalog movies:
// formatting, local search filtering and sorting.
package movieutil

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	dateLayout = "2006-01-02"
	unknown    = "Unknown"
)

// FormatRuntime renders minutes as "2h 15m", "2h" or "45m".
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return unknown
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// ParseDate parses a catalog release date (YYYY-MM-DD).
func ParseDate(date string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders a release date as "02 Jan 2006", or as "02/01/2006"
// when long is set.
func FormatDate(date string, long bool) string {
	t, ok := ParseDate(date)
	if !ok {
		return unknown
	}
	if long {
		return t.Format("02/01/2006")
	}
	return t.Format("02 Jan 2006")
}

// YearFromDate returns the year of a release date, or 0.
func YearFromDate(date string) int {
	t, ok := ParseDate(date)
	if !ok {
		return 0
	}
	return t.Year()
}

// PercentageScore converts a 0-10 vote average into a rounded 0-100 score.
func PercentageScore(vote float64) int {
	return int(math.Round(vote * 10))
}

// Truncate cuts text to its first max runes and appends "..." when
// anything was removed.
func Truncate(text string, max int) string {
	runes := []rune(text)
	if max < 0 || len(runes) <= max {
		return text
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}

// FormatMoney renders whole dollars with thousands separators.
func FormatMoney(amount int64) string {
	if amount <= 0 {
		return unknown
	}
	return "$" + humanize.Comma(amount)
}

// FormatVotes renders a vote count compactly: 950, 12.3k, 1.2M.
func FormatVotes(count int) string {
	if count < 1000 {
		return humanize.Comma(int64(count))
	}
	s := humanize.SIWithDigits(float64(count), 1, "")
	return strings.ReplaceAll(s, " ", "")
}
