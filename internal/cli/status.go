package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lensa-guide/lensa/internal/ingest"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show workspace status",
	Long:  `Show the state of the catalog and the feature database.`,
	Run:   runStatus,
}

func runStatus(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	artworks, err := c.Store.CountArtworks()
	if err != nil {
		exitError("failed to count artworks: %v", err)
	}

	features, err := c.Store.CountDescriptorRecords(c.Config.FeatureKind)
	if err != nil {
		exitError("failed to count feature records: %v", err)
	}

	lastBuild, _ := c.Store.GetValue(ingest.LastBuildKey)
	if lastBuild == "" {
		lastBuild = "never"
	}

	fmt.Printf("Workspace: %s\n", c.Config.LensaPath())
	fmt.Printf("Artworks in catalog:   %d\n", artworks)
	fmt.Printf("Feature records (%s): %d\n", c.Config.FeatureKind, features)
	fmt.Printf("Last feature build:    %s\n", lastBuild)

	switch {
	case artworks == 0:
		color.New(color.FgYellow).Println("\nCatalog is empty. Run 'lensa catalog' first.")
	case features == 0:
		color.New(color.FgYellow).Println("\nNo feature records. Run 'lensa build' to extract features.")
	case features < artworks:
		color.New(color.FgYellow).Printf("\n%d artworks have no feature record. Run 'lensa build' to refresh.\n", artworks-features)
	default:
		color.New(color.FgGreen).Println("\nReady for recognition.")
	}
}
