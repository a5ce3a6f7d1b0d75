// Package cli implements the command-line interface for Lensa.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lensa-guide/lensa/internal/config"
	"github.com/lensa-guide/lensa/internal/store"
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config *config.Config
	Store  *store.Store
	Logger *slog.Logger
}

// Close releases resources held by cmdContext
func (c *cmdContext) Close() {
	if c.Store != nil {
		c.Store.Close()
	}
}

// initContext initializes config, logger, and store
func initContext() *cmdContext {
	cfg, err := config.Load()
	if err != nil {
		exitError("%v", err)
	}

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		exitError("failed to open store: %v", err)
	}

	return &cmdContext{Config: cfg, Store: st, Logger: newLogger(cfg.LogLevel)}
}

// newLogger builds a text slog logger at the configured level, to stderr so
// command output stays clean.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

var rootCmd = &cobra.Command{
	Use:   "lensa",
	Short: "Museum artwork recognition",
	Long: `Lensa recognizes museum artworks from photographs. It maintains a local
catalog of artworks from the Met Collection API, builds a feature database
from their images, and matches query photos against it.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(recognizeCmd)
	rootCmd.AddCommand(narrateCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(showCmd)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}
