package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jgoulah/minihabits/internal/calendar"
	"github.com/jgoulah/minihabits/internal/habits"
	"github.com/jgoulah/minihabits/internal/render"
)

var gridCmd = &cobra.Command{
	Use:   "grid [habit]",
	Short: "Show a year of history for a habit",
	Long:  `Draws the last 52 weeks as a grid with one row per weekday. Days after today are left blank.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGrid,
}

func init() {
	rootCmd.AddCommand(gridCmd)
}

func runGrid(cmd *cobra.Command, args []string) error {
	tr, closeStore, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	h, err := tr.Resolve(args[0])
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), render.YearGrid(h, calendar.YearGrid(tr.Today())))
	return nil
}

// habitName returns the name for id, or "" when id is empty or unknown
func habitName(s habits.State, id string) string {
	if h, ok := s.Find(id); ok {
		return h.Name
	}
	return ""
}
