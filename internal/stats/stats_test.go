package stats

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/minihabits/internal/calendar"
)

// Friday afternoon; Compute must truncate to the calendar day
var today = time.Date(2024, time.March, 15, 17, 45, 0, 0, time.UTC)

// run marks n consecutive days ending offset days before today
func run(m map[string]bool, offset, n int) map[string]bool {
	for i := 0; i < n; i++ {
		m[calendar.Key(today.AddDate(0, 0, -(offset+i)))] = true
	}
	return m
}

func TestComputeEmpty(t *testing.T) {
	for _, completed := range []map[string]bool{nil, {}} {
		s := Compute(completed, today)
		assert.Zero(t, s.CurrentStreak)
		assert.Zero(t, s.LongestStreak)
		assert.Zero(t, s.TotalCompletions)
		assert.Zero(t, s.CompletionRate)
		assert.Equal(t, Window{Total: 30, Completed: 0}, s.LastThirtyDays)
		assert.Equal(t, BestDay{Weekday: time.Sunday, Name: "Sunday", Rate: 0}, s.BestDay)
		assert.Equal(t, Formation{Progress: 0, Remaining: 21, Percentage: 0}, s.HabitFormation)
	}
}

func TestComputeRunEndingToday(t *testing.T) {
	s := Compute(run(map[string]bool{}, 0, 5), today)
	assert.Equal(t, 5, s.CurrentStreak)
	assert.Equal(t, 5, s.LongestStreak)
	assert.Equal(t, 5, s.TotalCompletions)
	assert.Equal(t, 5, s.HabitFormation.Progress)
	assert.Equal(t, 16, s.HabitFormation.Remaining)
	assert.Equal(t, 17, s.CompletionRate) // 5/30
}

func TestComputeTodayNotYetDone(t *testing.T) {
	completed := run(map[string]bool{}, 1, 7)
	s := Compute(completed, today)
	assert.Equal(t, 7, s.CurrentStreak)
	assert.Zero(t, s.HabitFormation.Progress)
	assert.Equal(t, 21, s.HabitFormation.Remaining)

	// an explicit false today behaves the same
	completed[calendar.Key(today)] = false
	s = Compute(completed, today)
	assert.Equal(t, 7, s.CurrentStreak)
	assert.Zero(t, s.HabitFormation.Progress)
}

func TestComputeBrokenRun(t *testing.T) {
	completed := run(map[string]bool{}, 0, 3)
	completed[calendar.Key(today.AddDate(0, 0, -3))] = false
	run(completed, 4, 10)

	s := Compute(completed, today)
	assert.Equal(t, 10, s.LongestStreak)
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 13, s.TotalCompletions)
}

func TestLongestStreakGapResetsRun(t *testing.T) {
	// same shape as above but the break day was removed instead of set false
	completed := run(map[string]bool{}, 0, 3)
	run(completed, 4, 10)
	assert.Equal(t, 10, LongestStreak(completed))
	assert.Equal(t, 3, CurrentStreak(completed, today))
}

func TestLongestStreakIgnoresMalformedKeys(t *testing.T) {
	completed := run(map[string]bool{}, 0, 4)
	completed["garbage"] = true
	completed["2024-13-01"] = true
	assert.Equal(t, 4, LongestStreak(completed))
	assert.Equal(t, 4, TotalCompletions(completed))
}

func TestComputeFormationComplete(t *testing.T) {
	s := Compute(run(map[string]bool{}, 0, 21), today)
	assert.Equal(t, 21, s.HabitFormation.Progress)
	assert.Zero(t, s.HabitFormation.Remaining)
	assert.Equal(t, 100.0, s.HabitFormation.Percentage)
	assert.True(t, s.HabitFormation.Formed())

	s = Compute(run(map[string]bool{}, 0, 40), today)
	assert.Equal(t, 21, s.HabitFormation.Progress)
	assert.Equal(t, 40, s.CurrentStreak)
	assert.Equal(t, 100, s.CompletionRate)
	assert.Equal(t, Window{Total: 30, Completed: 30}, s.LastThirtyDays)
}

func TestCompletionRateWindow(t *testing.T) {
	completed := map[string]bool{}
	// day 30 counts, day 31 does not
	completed[calendar.Key(today.AddDate(0, 0, -29))] = true
	completed[calendar.Key(today.AddDate(0, 0, -30))] = true
	s := Compute(completed, today)
	assert.Equal(t, 1, s.LastThirtyDays.Completed)
	assert.Equal(t, 3, s.CompletionRate)
}

func TestBestDay(t *testing.T) {
	completed := map[string]bool{
		"2024-03-11": true,  // Mon
		"2024-03-04": false, // Mon
		"2024-03-12": true,  // Tue
		"2024-03-05": true,  // Tue
		"2024-03-13": false, // Wed
	}
	b := Compute(completed, today).BestDay
	assert.Equal(t, time.Tuesday, b.Weekday)
	assert.Equal(t, "Tuesday", b.Name)
	assert.Equal(t, 100, b.Rate)
}

func TestBestDayTieKeepsEarliestWeekday(t *testing.T) {
	completed := map[string]bool{
		"2024-03-14": true, // Thu
		"2024-03-12": true, // Tue
		"2024-03-16": true, // Sat
	}
	b := Compute(completed, today).BestDay
	assert.Equal(t, time.Tuesday, b.Weekday)
	assert.Equal(t, 100, b.Rate)
}

func TestBestDayAllFalse(t *testing.T) {
	b := Compute(map[string]bool{"2024-03-13": false}, today).BestDay
	assert.Equal(t, "Sunday", b.Name)
	assert.Zero(t, b.Rate)
}

func TestLastCompleted(t *testing.T) {
	_, ok := LastCompleted(map[string]bool{"2024-03-10": false})
	assert.False(t, ok)

	last, ok := LastCompleted(map[string]bool{"2024-03-10": true, "2024-03-12": true, "2024-03-14": false, "zzz": true})
	require.True(t, ok)
	assert.Equal(t, "2024-03-12", calendar.Key(last))
}

func TestComputeBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		completed := map[string]bool{}
		for d := 0; d < 90; d++ {
			switch rng.Intn(3) {
			case 0:
				completed[calendar.Key(today.AddDate(0, 0, -d))] = true
			case 1:
				completed[calendar.Key(today.AddDate(0, 0, -d))] = false
			}
		}

		s := Compute(completed, today)
		assert.GreaterOrEqual(t, s.CompletionRate, 0)
		assert.LessOrEqual(t, s.CompletionRate, 100)
		assert.LessOrEqual(t, s.CurrentStreak, s.TotalCompletions)
		assert.LessOrEqual(t, s.CurrentStreak, s.LongestStreak)
		assert.GreaterOrEqual(t, s.HabitFormation.Progress, 0)
		assert.LessOrEqual(t, s.HabitFormation.Progress, FormationDays)
		if s.HabitFormation.Progress < FormationDays {
			assert.Equal(t, FormationDays, s.HabitFormation.Progress+s.HabitFormation.Remaining)
		}
		assert.GreaterOrEqual(t, s.BestDay.Rate, 0)
		assert.LessOrEqual(t, s.BestDay.Rate, 100)
	}
}
