package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lensa-guide/lensa/internal/feature"
	"github.com/lensa-guide/lensa/internal/ingest"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the feature database from reference images",
	Long: `Extract binary feature descriptors from every reference image in the
workspace images directory and store them, replacing any previous
descriptors per artwork.`,
	Run: runBuild,
}

var buildImagesDir string

func init() {
	buildCmd.Flags().StringVar(&buildImagesDir, "images-dir", "", "Directory with reference images (default: workspace images dir)")
}

func runBuild(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	imagesDir := buildImagesDir
	if imagesDir == "" {
		imagesDir = c.Config.ImagesPath()
	}

	extractor := feature.NewCensusExtractor()
	extractor.MaxFeatures = c.Config.MaxFeatures

	pipeline := ingest.NewPipeline(c.Store, extractor, c.Config.LockPath(), c.Logger)

	fmt.Printf("Extracting features from %s\n", imagesDir)

	summary, err := pipeline.BuildFeatureDatabase(imagesDir)
	if err != nil {
		exitError("feature build failed: %v", err)
	}

	fmt.Println(renderPairs("Feature extraction summary", [][2]string{
		{"Images found", fmt.Sprint(summary.ImagesFound)},
		{"Saved features", fmt.Sprint(summary.SavedFeatures)},
		{"Skipped: no Met ID", fmt.Sprint(summary.SkippedNoMetID)},
		{"Skipped: not in catalog", fmt.Sprint(summary.SkippedNotInDB)},
		{"Skipped: load error", fmt.Sprint(summary.SkippedLoadError)},
		{"Skipped: no features", fmt.Sprint(summary.SkippedNoFeatures)},
		{"Skipped: store error", fmt.Sprint(summary.SkippedStoreError)},
	}))
}
