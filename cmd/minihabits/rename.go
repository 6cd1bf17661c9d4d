package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename [habit] [new name]",
	Short: "Rename a habit",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)
}

func runRename(cmd *cobra.Command, args []string) error {
	tr, closeStore, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	old, err := tr.Resolve(args[0])
	if err != nil {
		return err
	}

	h, err := tr.Rename(cmd.Context(), old.ID, strings.Join(args[1:], " "))
	if err != nil {
		return fmt.Errorf("renaming %s: %w", old.Name, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Renamed %s to %s\n", old.Name, h.Name)
	return nil
}
