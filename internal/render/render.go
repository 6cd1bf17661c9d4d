// Package render draws habits for the terminal: the five-day strip, the
// year grid and the per-habit stats card.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jgoulah/minihabits/internal/calendar"
	"github.com/jgoulah/minihabits/internal/stats"
	"github.com/jgoulah/minihabits/pkg/models"
)

const (
	nameWidth = 20
	cellWidth = 5

	markDone   = "●"
	markMissed = "○"
	gridDone   = "■"
	gridMissed = "·"
	gridFuture = " "
	barFilled  = "█"
	barEmpty   = "░"
)

var (
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	streakStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("202"))
	cellStyle   = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Strip renders one row per habit with a mark for each day and the
// current streak
func Strip(habits []models.Habit, days []calendar.Day, today time.Time) string {
	if len(habits) == 0 {
		return "No habits yet. Add one with: minihabits add <name>\n"
	}

	var b strings.Builder
	b.WriteString(pad("", nameWidth))
	for _, d := range days {
		b.WriteString(cellStyle.Render(calendar.Abbrev(d.Weekday)))
	}
	b.WriteString("  Streak\n")

	for _, h := range habits {
		b.WriteString(pad(h.Name, nameWidth))
		for _, d := range days {
			switch {
			case d.Future:
				b.WriteString(cellStyle.Render(""))
			case h.Done(d.Key):
				b.WriteString(cellStyle.Render(doneStyle.Render(markDone)))
			default:
				b.WriteString(cellStyle.Render(mutedStyle.Render(markMissed)))
			}
		}
		streak := stats.CurrentStreak(h.Completed, today)
		b.WriteString("  " + streakStyle.Render(fmt.Sprintf("%d", streak)) + "\n")
	}

	return b.String()
}

// YearGrid renders a habit's 52-week history, one row per weekday
func YearGrid(h models.Habit, g calendar.Grid) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(h.Name) + "\n")
	b.WriteString(pad("", 4) + monthHeader(g) + "\n")

	for wd := 0; wd < 7; wd++ {
		b.WriteString(pad(calendar.Abbrev(time.Weekday(wd)), 4))
		for w := 0; w < calendar.GridWeeks; w++ {
			d := g.Weeks[w][wd]
			switch {
			case d.Future:
				b.WriteString(gridFuture)
			case h.Done(d.Key):
				b.WriteString(doneStyle.Render(gridDone))
			default:
				b.WriteString(mutedStyle.Render(gridMissed))
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// monthHeader labels the week column holding the first of each month
func monthHeader(g calendar.Grid) string {
	header := []rune(strings.Repeat(" ", calendar.GridWeeks))
	for w := 0; w < calendar.GridWeeks; w++ {
		for _, d := range g.Weeks[w] {
			if d.Date.Day() != 1 {
				continue
			}
			label := d.Date.Format("Jan")
			if w+len(label) <= calendar.GridWeeks && header[w] == ' ' && (w == 0 || header[w-1] == ' ') {
				copy(header[w:], []rune(label))
			}
		}
	}
	return strings.TrimRight(string(header), " ")
}

// Card renders the detail view for one habit. prev and next name the
// neighbouring habits and may be empty.
func Card(h models.Habit, s stats.Stats, prev, next string, today time.Time) string {
	var lines []string
	lines = append(lines, titleStyle.Render(h.Name), "")

	f := s.HabitFormation
	lines = append(lines, progressBar(f.Progress, stats.FormationDays)+fmt.Sprintf(" %.0f%%", f.Percentage))
	if f.Formed() {
		lines = append(lines, "Habit Formed! 🎉")
	} else {
		lines = append(lines, fmt.Sprintf("%d days to form habit", f.Remaining))
	}
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d/%d days completed", f.Progress, stats.FormationDays)), "")

	lines = append(lines,
		fmt.Sprintf("Current Streak   %s", streakStyle.Render(fmt.Sprintf("%d", s.CurrentStreak))),
		fmt.Sprintf("Longest Streak   %d", s.LongestStreak),
		fmt.Sprintf("Monthly Success  %d%% (%d of %d days)", s.CompletionRate, s.LastThirtyDays.Completed, s.LastThirtyDays.Total),
		fmt.Sprintf("Best Day         %s (%d%% success rate)", bestDayLabel(s.BestDay), s.BestDay.Rate),
		fmt.Sprintf("Completions      %s", humanize.Comma(int64(s.TotalCompletions))),
		fmt.Sprintf("Last Completed   %s", lastCompleted(h, today)),
	)

	if prev != "" || next != "" {
		nav := ""
		if prev != "" {
			nav += "← " + prev
		}
		if next != "" {
			if nav != "" {
				nav += "  |  "
			}
			nav += next + " →"
		}
		lines = append(lines, "", mutedStyle.Render(nav))
	}

	return cardStyle.Render(strings.Join(lines, "\n")) + "\n"
}

func bestDayLabel(b stats.BestDay) string {
	if b.Rate == 0 {
		return "-"
	}
	return calendar.Abbrev(b.Weekday) + "."
}

func lastCompleted(h models.Habit, today time.Time) string {
	last, ok := stats.LastCompleted(h.Completed)
	if !ok {
		return "never"
	}
	todayKey := calendar.Key(calendar.Today(today))
	if calendar.Key(last) == todayKey {
		return "today"
	}
	// both sides at UTC midnight so the difference is whole days
	ref, _ := calendar.ParseKey(todayKey)
	return humanize.RelTime(last, ref, "ago", "from now")
}

func progressBar(done, total int) string {
	done = min(max(done, 0), total)
	return doneStyle.Render(strings.Repeat(barFilled, done)) + mutedStyle.Render(strings.Repeat(barEmpty, total-done))
}

// pad truncates or right-pads s to width runes
func pad(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width-2]) + "… "
	}
	return s + strings.Repeat(" ", width-len(r))
}
