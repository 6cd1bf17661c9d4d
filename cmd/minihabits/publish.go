package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jgoulah/minihabits/internal/calendar"
	"github.com/jgoulah/minihabits/internal/publisher"
	"github.com/jgoulah/minihabits/internal/stats"
	"github.com/jgoulah/minihabits/pkg/models"
)

var publishHabit string

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish habit statistics to Home Assistant",
	Long:  `Computes current statistics for each habit and publishes them over MQTT and/or the Home Assistant HTTP API, as configured.`,
	Args:  cobra.NoArgs,
	RunE:  runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishHabit, "habit", "", "Only publish this habit (id or name)")
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "=== Publish started at %s ===\n", now().Format("2006-01-02 15:04:05 MST"))

	pub, err := publisher.New(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("creating publisher: %w", err)
	}
	defer pub.Close()

	if !pub.Enabled() {
		return fmt.Errorf("neither MQTT nor Home Assistant is enabled in config")
	}

	tr, closeStore, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	list := tr.Habits()
	if publishHabit != "" {
		h, err := tr.Resolve(publishHabit)
		if err != nil {
			return err
		}
		list = []models.Habit{h}
	}

	if len(list) == 0 {
		fmt.Fprintln(out, "No habits to publish")
		return nil
	}

	today := tr.Today()
	date := calendar.Key(today)
	published := 0
	for i, h := range list {
		s := stats.Compute(h.Completed, today)
		fmt.Fprintf(out, "[%d/%d] Publishing %s (streak %d)... ", i+1, len(list), h.Name, s.CurrentStreak)
		if err := pub.Publish(cmd.Context(), h, s, date); err != nil {
			fmt.Fprintf(out, "FAILED: %v\n", err)
			logger.Warn("publishing habit", zap.String("habit_id", h.ID), zap.Error(err))
			continue
		}
		fmt.Fprintln(out, "✓")
		published++
	}

	fmt.Fprintf(out, "Successfully published %d/%d habits\n", published, len(list))
	if published < len(list) {
		return fmt.Errorf("%d habits failed to publish", len(list)-published)
	}
	return nil
}
