package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete [habit]",
	Short: "Delete a habit and its history",
	Long:  `Removes a habit, given by id or name, together with all of its recorded days. This cannot be undone.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	tr, closeStore, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	h, err := tr.Resolve(args[0])
	if err != nil {
		return err
	}

	if !deleteYes {
		fmt.Fprintf(cmd.OutOrStdout(), "Delete %s? This action cannot be undone. [y/N] ", h.Name)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
			return nil
		}
	}

	if _, err := tr.Delete(cmd.Context(), h.ID); err != nil {
		return fmt.Errorf("deleting %s: %w", h.Name, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", h.Name)
	return nil
}
