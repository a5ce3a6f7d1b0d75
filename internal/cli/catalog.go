package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lensa-guide/lensa/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Fetch artworks from the Met Collection API",
	Long: `Fetch highlighted artworks from the Met Collection API, save their
metadata into the catalog, and download their primary images.`,
	Run: runCatalog,
}

var (
	catalogLimit int
	catalogDelay time.Duration
)

func init() {
	catalogCmd.Flags().IntVar(&catalogLimit, "limit", 100, "Number of artworks to save")
	catalogCmd.Flags().DurationVar(&catalogDelay, "delay", 100*time.Millisecond, "Delay between API requests")
}

func runCatalog(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	if err := c.Store.Initialize(); err != nil {
		exitError("failed to initialize store: %v", err)
	}

	client := catalog.NewClient(c.Config.MetBaseURL)
	pipeline := catalog.NewPipeline(client, c.Store, c.Config.ImagesPath(), c.Logger)
	pipeline.RequestDelay = catalogDelay

	fmt.Printf("Fetching up to %d artworks from %s\n", catalogLimit, client.BaseURL)

	summary, err := pipeline.Run(context.Background(), catalogLimit)
	if err != nil {
		exitError("catalog pipeline failed: %v", err)
	}

	fmt.Println(renderPairs("Catalog summary", [][2]string{
		{"Candidates checked", fmt.Sprint(summary.CandidatesChecked)},
		{"Saved to catalog", fmt.Sprint(summary.Saved)},
		{"Images downloaded", fmt.Sprint(summary.ImagesDownloaded)},
		{"Failed object fetches", fmt.Sprint(summary.FetchFailed)},
		{"Missing image records", fmt.Sprint(summary.MissingImage)},
		{"Database save failures", fmt.Sprint(summary.DBFailed)},
		{"Image download failures", fmt.Sprint(summary.DownloadFailed)},
		{"API call failures", fmt.Sprint(summary.APIErrors)},
	}))

	if summary.Saved < catalogLimit {
		fmt.Printf("Warning: saved %d artworks, below the requested %d.\n", summary.Saved, catalogLimit)
	}
}
