// Package calendar generates the date windows the habit views are drawn
// from. All arithmetic is done in whole local calendar days; callers pass
// the "today" they evaluated once so one render pass never straddles midnight.
package calendar

import (
	"fmt"
	"time"
)

// KeyLayout is the canonical date key format
const KeyLayout = "2006-01-02"

// GridWeeks is the number of week columns in the year grid
const GridWeeks = 52

var (
	dayAbbrevs = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	dayNames   = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
)

// Day is one cell of a rendered window
type Day struct {
	Key     string
	Date    time.Time
	Weekday time.Weekday
	Future  bool // after today; drawn as a placeholder, never togglable
}

// Grid is the year view: week columns, oldest first, each Sunday..Saturday
type Grid struct {
	Weeks [GridWeeks][7]Day
}

// Today truncates now to local midnight
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// Key formats a day as YYYY-MM-DD
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// ParseKey parses a canonical date key. The result is midnight UTC of that
// calendar day and is only meant for day arithmetic and weekday lookup.
func ParseKey(key string) (time.Time, error) {
	t, err := time.Parse(KeyLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date key %q: %w", key, err)
	}
	return t, nil
}

// Weekday returns the day of week a key falls on
func Weekday(key string) (time.Weekday, error) {
	t, err := ParseKey(key)
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}

// DayAbbrev returns the English three-letter weekday for a key, or "" if
// the key is not a valid date
func DayAbbrev(key string) string {
	w, err := Weekday(key)
	if err != nil {
		return ""
	}
	return dayAbbrevs[w]
}

// Abbrev returns the three-letter name of a weekday
func Abbrev(w time.Weekday) string {
	return dayAbbrevs[w%7]
}

// DayName returns the full English name of a weekday
func DayName(w time.Weekday) string {
	return dayNames[w%7]
}

// IsFuture reports whether key falls strictly after today
func IsFuture(key string, today time.Time) (bool, error) {
	if _, err := ParseKey(key); err != nil {
		return false, err
	}
	// canonical keys order lexicographically the same as chronologically
	return key > Key(Today(today)), nil
}

// LastNDays returns n days ending at today inclusive, oldest first
func LastNDays(today time.Time, n int) []Day {
	if n <= 0 {
		return nil
	}
	today = Today(today)

	days := make([]Day, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, newDay(today.AddDate(0, 0, -i), today))
	}
	return days
}

// YearGrid lays out 52 calendar weeks ending with the current week. Cells
// after today in the last column are marked Future.
func YearGrid(today time.Time) Grid {
	today = Today(today)
	start := today.AddDate(0, 0, -int(today.Weekday())-(GridWeeks-1)*7)

	var g Grid
	for w := 0; w < GridWeeks; w++ {
		for d := 0; d < 7; d++ {
			g.Weeks[w][d] = newDay(start.AddDate(0, 0, w*7+d), today)
		}
	}
	return g
}

// Days flattens the grid into chronological order
func (g Grid) Days() []Day {
	days := make([]Day, 0, GridWeeks*7)
	for _, week := range g.Weeks {
		days = append(days, week[:]...)
	}
	return days
}

// Keys returns every non-future key in the grid, oldest first
func (g Grid) Keys() []string {
	keys := make([]string, 0, GridWeeks*7)
	for _, d := range g.Days() {
		if !d.Future {
			keys = append(keys, d.Key)
		}
	}
	return keys
}

func newDay(t, today time.Time) Day {
	return Day{
		Key:     Key(t),
		Date:    t,
		Weekday: t.Weekday(),
		Future:  t.After(today),
	}
}
