package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the habit document as JSON",
	Long:  `Writes the full habit list in its stored JSON form, to stdout or a file, for backup.`,
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	tr, closeStore, err := openTracker(cmd.Context())
	if err != nil {
		return err
	}
	defer closeStore()

	data, err := tr.Export()
	if err != nil {
		return err
	}

	if exportOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	if err := os.WriteFile(exportOutput, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d habits to %s\n", len(tr.Habits()), exportOutput)
	return nil
}
