package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lensa-guide/lensa/internal/feature"
	"github.com/lensa-guide/lensa/internal/matching"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize <image>",
	Short: "Recognize an artwork from a photograph",
	Long: `Compare a query photograph against every stored descriptor record and
print the best matching artwork, or report that no confident match was
found.`,
	Args: cobra.ExactArgs(1),
	Run:  runRecognize,
}

var (
	recognizeConfidence float64
	recognizeRatio      float64
	recognizeMinGood    int
)

func init() {
	recognizeCmd.Flags().Float64Var(&recognizeConfidence, "confidence-threshold", 0, "Reject matches below this confidence (default: configured value)")
	recognizeCmd.Flags().Float64Var(&recognizeRatio, "ratio-test", 0, "Distinctiveness ratio threshold (default: configured value)")
	recognizeCmd.Flags().IntVar(&recognizeMinGood, "min-good-matches", 0, "Minimum good matches required (default: configured value)")
}

func runRecognize(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	opts := c.Config.RecognitionOptions()
	if recognizeConfidence > 0 {
		opts.ConfidenceThreshold = recognizeConfidence
	}
	if recognizeRatio > 0 {
		opts.RatioThreshold = recognizeRatio
	}
	if recognizeMinGood > 0 {
		opts.MinGoodMatches = recognizeMinGood
	}

	extractor := feature.NewCensusExtractor()
	extractor.MaxFeatures = c.Config.MaxFeatures

	recognizer := matching.NewRecognizer(c.Store, extractor, c.Logger)

	result, ok, err := recognizer.RecognizeFile(args[0], opts)
	if err != nil {
		exitError("%v", err)
	}

	if !ok {
		color.New(color.FgYellow).Println("No confident match (below threshold or insufficient evidence)")
		return
	}

	color.New(color.FgGreen).Println("Recognized artwork:")
	fmt.Println(renderPairs("", [][2]string{
		{"Title", result.Artwork.Title},
		{"Artist", result.Artwork.Artist},
		{"Date", result.Artwork.Date},
		{"Department", result.Artwork.Department},
		{"Met object ID", fmt.Sprint(result.Artwork.MetObjectID)},
		{"Confidence", fmt.Sprintf("%.4f", result.Confidence)},
		{"Good matches", fmt.Sprint(result.GoodMatches)},
		{"Query features", fmt.Sprint(result.QueryFeatures)},
	}))

	if result.Artwork.AudioFilePath != "" {
		fmt.Printf("Narration: %s\n", result.Artwork.AudioFilePath)
	}
}
