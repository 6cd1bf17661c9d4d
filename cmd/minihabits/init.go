package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jgoulah/minihabits/internal/config"
)

var (
	initBackend string
	initForce   bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Writes a config file selecting the storage backend and location.
The storage path comes from --db when given, otherwise the backend default is used.
An existing config file is kept unless --force is set.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initBackend, "backend", config.BackendSQLite, "Storage backend (sqlite or file)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}

	c := &config.Config{Storage: config.StorageConfig{Backend: initBackend, Path: dbPath}}
	if err := c.Validate(); err != nil {
		return err
	}
	if err := config.Save(path, c); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s (%s storage at %s)\n", path, c.GetBackend(), c.GetStoragePath())
	return nil
}
