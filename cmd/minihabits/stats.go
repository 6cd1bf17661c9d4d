package main

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/spf13/cobra"

	"github.com/jgoulah/minihabits/internal/render"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats [habit]",
	Short: "Show streaks and statistics for a habit",
	Long: `Shows the current and longest streak, the 30-day success rate, the best weekday
and progress toward a formed habit (21 consecutive days including today).`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	tr, closeStore, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	h, s, err := tr.Stats(args[0])
	if err != nil {
		return err
	}

	if statsJSON {
		out, err := json.Marshal(s, jsontext.WithIndent("  "))
		if err != nil {
			return fmt.Errorf("encoding stats: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	prevID, nextID, err := tr.State().Neighbors(h.ID)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), render.Card(h, s, habitName(tr.State(), prevID), habitName(tr.State(), nextID), tr.Today()))
	return nil
}
