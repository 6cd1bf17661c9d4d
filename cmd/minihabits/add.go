package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new habit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	tr, closeStore, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	h, err := tr.Add(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("adding habit: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s (%s)\n", h.Name, h.ID)
	return nil
}
