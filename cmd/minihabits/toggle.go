package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jgoulah/minihabits/internal/calendar"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle [habit] [date]",
	Short: "Mark or unmark a habit as done for a day",
	Long: `Flips completion of one day for a habit, given by id or name.
The date defaults to today and may be YYYY-MM-DD, today, yesterday or Nd for N days ago.
Future days cannot be toggled.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runToggle,
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}

func runToggle(cmd *cobra.Command, args []string) error {
	tr, closeStore, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	dateArg := ""
	if len(args) > 1 {
		dateArg = args[1]
	}
	key, err := parseDay(dateArg, tr.Today())
	if err != nil {
		return err
	}

	h, err := tr.Resolve(args[0])
	if err != nil {
		return err
	}

	done, err := tr.Toggle(cmd.Context(), h.ID, key)
	if err != nil {
		return fmt.Errorf("toggling %s: %w", h.Name, err)
	}

	if done {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s done on %s (%s)\n", h.Name, key, calendar.DayAbbrev(key))
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "○ %s cleared on %s (%s)\n", h.Name, key, calendar.DayAbbrev(key))
	}
	return nil
}

// parseDay turns a date argument into a date key relative to today
func parseDay(s string, today time.Time) (string, error) {
	switch strings.ToLower(s) {
	case "", "today":
		return calendar.Key(today), nil
	case "yesterday":
		return calendar.Key(today.AddDate(0, 0, -1)), nil
	}

	// Try absolute date format first
	if _, err := calendar.ParseKey(s); err == nil {
		return s, nil
	}

	// Try relative format (e.g., "7d" for 7 days ago)
	if len(s) > 1 && s[len(s)-1] == 'd' {
		if days, err := strconv.Atoi(s[:len(s)-1]); err == nil && days >= 0 {
			return calendar.Key(today.AddDate(0, 0, -days)), nil
		}
	}

	return "", fmt.Errorf("invalid date format: %s (use YYYY-MM-DD, today, yesterday or Nd for N days ago)", s)
}
