package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lensa-guide/lensa/internal/catalog"
	"github.com/lensa-guide/lensa/internal/config"
	"github.com/lensa-guide/lensa/internal/store"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new Lensa workspace",
	Long: `Initialize a new Lensa workspace in the current directory.
This creates a .lensa directory holding the configuration, the SQLite
database, and the images and audio directories.`,
	Run: runInit,
}

var initMetURL string

func init() {
	initCmd.Flags().StringVar(&initMetURL, "met-url", catalog.DefaultBaseURL, "Met Collection API base URL")
}

func runInit(cmd *cobra.Command, args []string) {
	// Check if already initialized
	if _, err := config.FindLensaRoot(); err == nil {
		exitError("lensa workspace already exists")
	}

	fmt.Printf("Initializing Lensa workspace...\n")
	fmt.Printf("Met API: %s\n", initMetURL)

	cfg, err := config.Initialize(initMetURL)
	if err != nil {
		exitError("failed to initialize config: %v", err)
	}

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		exitError("failed to create store: %v", err)
	}
	defer st.Close()

	if err := st.Initialize(); err != nil {
		exitError("failed to initialize store: %v", err)
	}

	fmt.Printf("\nInitialized empty Lensa workspace in .lensa/\n")
	fmt.Printf("Run 'lensa catalog' to fetch artworks, then 'lensa build' to extract features.\n")
}
