package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jgoulah/minihabits/internal/config"
	"github.com/jgoulah/minihabits/internal/database"
	"github.com/jgoulah/minihabits/internal/habits"
	"github.com/jgoulah/minihabits/internal/logging"
)

var (
	cfgFile string
	dbPath  string

	cfg    *config.Config
	logger = zap.NewNop()

	// now decides what today is for every command
	now = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "minihabits",
	Short: "Track daily habits and streaks",
	Long: `minihabits keeps a list of habits, records which days each one was done
and shows streaks and statistics derived from that calendar.
The whole list is stored as one JSON document in a local SQLite file or directory.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "storage location (default is ./habits.db)")
}

// setup loads the config and builds the logger before any subcommand runs
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err = logging.New(cfg.GetLogLevel())
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	return nil
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// loadConfig loads the configuration file; --db wins over config and env
func loadConfig() (*config.Config, error) {
	c, err := config.Load(getConfigPath())
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		c.Storage.Path = dbPath
	}
	return c, nil
}

type blobStore interface {
	habits.BlobStore
	UpdatedAt(ctx context.Context, key string) (time.Time, bool, error)
	Close() error
}

// openBlobStore opens the configured storage backend
func openBlobStore() (blobStore, error) {
	path := cfg.GetStoragePath()

	switch cfg.GetBackend() {
	case config.BackendFile:
		return database.NewFileStore(path)
	default:
		// Ensure directory exists
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		return database.New(path)
	}
}

// openTracker loads the habit list; the returned func closes storage
func openTracker(ctx context.Context) (*habits.Tracker, func(), error) {
	tr, blobs, err := openSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	return tr, func() { blobs.Close() }, nil
}

// openSession is openTracker for commands that also read storage metadata.
// The caller closes blobs.
func openSession(ctx context.Context) (*habits.Tracker, blobStore, error) {
	blobs, err := openBlobStore()
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}

	store := habits.NewStore(blobs, cfg.GetStorageKey(), logger)
	tr, err := habits.Open(ctx, store, logger, habits.WithClock(now))
	if err != nil {
		blobs.Close()
		return nil, nil, err
	}

	return tr, blobs, nil
}
