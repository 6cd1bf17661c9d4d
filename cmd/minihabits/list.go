package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jgoulah/minihabits/internal/calendar"
	"github.com/jgoulah/minihabits/internal/render"
)

var listDays int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all habits with the last few days",
	Long:  `Displays every habit with its completion marks for the most recent days and its current streak.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listDays, "days", 5, "Number of days to show, ending today")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if listDays < 1 {
		return fmt.Errorf("--days must be at least 1")
	}

	tr, blobs, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer blobs.Close()

	out := cmd.OutOrStdout()
	today := tr.Today()
	fmt.Fprint(out, render.Strip(tr.Habits(), calendar.LastNDays(today, listDays), today))

	saved, ok, err := blobs.UpdatedAt(cmd.Context(), cfg.GetStorageKey())
	if err != nil {
		logger.Warn("reading save time", zap.Error(err))
		return nil
	}
	if ok {
		fmt.Fprintf(out, "\nLast saved %s\n", humanize.RelTime(saved, now(), "ago", "from now"))
	}
	return nil
}
