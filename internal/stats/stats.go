// Package stats derives streak and completion metrics from a habit's
// completion map. Everything here is pure; callers recompute on demand.
package stats

import (
	"math"
	"slices"
	"time"

	"github.com/jgoulah/minihabits/internal/calendar"
)

const (
	// WindowDays is the trailing window used for the completion rate
	WindowDays = 30
	// FormationDays is the consecutive-day milestone for a formed habit
	FormationDays = 21
)

// Stats holds the derived metrics for one habit
type Stats struct {
	CurrentStreak    int       `json:"current_streak"`
	LongestStreak    int       `json:"longest_streak"`
	TotalCompletions int       `json:"total_completions"`
	CompletionRate   int       `json:"completion_rate"` // 0-100 over the last WindowDays
	LastThirtyDays   Window    `json:"last_thirty_days"`
	BestDay          BestDay   `json:"best_day"`
	HabitFormation   Formation `json:"habit_formation"`
}

// Window counts completions in a fixed trailing window
type Window struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// BestDay is the weekday with the highest completion ratio
type BestDay struct {
	Weekday time.Weekday `json:"weekday"`
	Name    string       `json:"name"`
	Rate    int          `json:"rate"`
}

// Formation tracks progress toward FormationDays consecutive completions
type Formation struct {
	Progress   int     `json:"progress"`
	Remaining  int     `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// Formed reports whether the milestone has been reached
func (f Formation) Formed() bool {
	return f.Remaining == 0
}

// Compute derives all metrics relative to the calendar day of today
func Compute(completed map[string]bool, today time.Time) Stats {
	today = calendar.Today(today)

	window := completionWindow(completed, today)
	return Stats{
		CurrentStreak:    CurrentStreak(completed, today),
		LongestStreak:    LongestStreak(completed),
		TotalCompletions: TotalCompletions(completed),
		CompletionRate:   int(math.Round(float64(window.Completed) / float64(window.Total) * 100)),
		LastThirtyDays:   window,
		BestDay:          bestDay(completed),
		HabitFormation:   formation(completed, today),
	}
}

// CurrentStreak counts consecutive completed days ending today. An
// unfinished today does not break a streak that ran through yesterday.
func CurrentStreak(completed map[string]bool, today time.Time) int {
	start := calendar.Today(today)
	if !completed[calendar.Key(start)] {
		start = start.AddDate(0, 0, -1)
	}
	return walkBack(completed, start, 0)
}

// LongestStreak is the longest run of completed, consecutive calendar days.
// An explicit false and a missing day both end a run.
func LongestStreak(completed map[string]bool) int {
	longest, run := 0, 0
	var prev time.Time
	keys := make([]string, 0, len(completed))
	for key := range completed {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		day, err := calendar.ParseKey(key)
		if err != nil {
			continue
		}
		if !completed[key] {
			run = 0
			continue
		}
		if run > 0 && !prev.AddDate(0, 0, 1).Equal(day) {
			run = 0
		}
		run++
		prev = day
		longest = max(longest, run)
	}
	return longest
}

// TotalCompletions counts days marked complete
func TotalCompletions(completed map[string]bool) int {
	total := 0
	for key, done := range completed {
		if !done {
			continue
		}
		if _, err := calendar.ParseKey(key); err == nil {
			total++
		}
	}
	return total
}

// LastCompleted returns the most recent completed day
func LastCompleted(completed map[string]bool) (time.Time, bool) {
	var last string
	for key, done := range completed {
		if done && key > last {
			if _, err := calendar.ParseKey(key); err == nil {
				last = key
			}
		}
	}
	if last == "" {
		return time.Time{}, false
	}
	t, _ := calendar.ParseKey(last)
	return t, true
}

func completionWindow(completed map[string]bool, today time.Time) Window {
	w := Window{Total: WindowDays}
	for i := 0; i < WindowDays; i++ {
		if completed[calendar.Key(today.AddDate(0, 0, -i))] {
			w.Completed++
		}
	}
	return w
}

// bestDay uses only recorded days as the denominator. Ties keep the
// earliest weekday, starting from Sunday.
func bestDay(completed map[string]bool) BestDay {
	var done, recorded [7]int
	for key, ok := range completed {
		w, err := calendar.Weekday(key)
		if err != nil {
			continue
		}
		recorded[w]++
		if ok {
			done[w]++
		}
	}

	best, bestRate := time.Sunday, 0.0
	for w := time.Sunday; w <= time.Saturday; w++ {
		if recorded[w] == 0 {
			continue
		}
		if rate := float64(done[w]) / float64(recorded[w]); rate > bestRate {
			best, bestRate = w, rate
		}
	}

	return BestDay{
		Weekday: best,
		Name:    calendar.DayName(best),
		Rate:    int(math.Round(bestRate * 100)),
	}
}

// formation walks back from today itself; unlike CurrentStreak an
// unfinished today means no progress.
func formation(completed map[string]bool, today time.Time) Formation {
	progress := walkBack(completed, today, FormationDays)
	return Formation{
		Progress:   progress,
		Remaining:  max(0, FormationDays-progress),
		Percentage: math.Min(100, float64(progress)/FormationDays*100),
	}
}

// walkBack counts completed days from start going backwards, stopping at
// the first miss or after limit days when limit > 0
func walkBack(completed map[string]bool, start time.Time, limit int) int {
	n := 0
	for day := start; completed[calendar.Key(day)]; day = day.AddDate(0, 0, -1) {
		n++
		if limit > 0 && n >= limit {
			break
		}
	}
	return n
}
