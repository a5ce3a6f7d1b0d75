package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lensa-guide/lensa/internal/narration"
)

var narrateCmd = &cobra.Command{
	Use:   "narrate",
	Short: "Generate audio narrations for cataloged artworks",
	Long: `Build a narration script for every artwork in the catalog and render it
to an MP3 file in the workspace audio directory.`,
	Run: runNarrate,
}

var (
	narratePreview int64
	narrateLang    string
)

func init() {
	narrateCmd.Flags().Int64Var(&narratePreview, "preview", 0, "Print the script for one artwork ID instead of generating audio")
	narrateCmd.Flags().StringVar(&narrateLang, "lang", "en", "Narration language")
}

func runNarrate(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	if narratePreview > 0 {
		artwork, found, err := c.Store.GetArtwork(narratePreview)
		if err != nil {
			exitError("failed to load artwork: %v", err)
		}
		if !found {
			exitError("artwork %d not found", narratePreview)
		}

		script := narration.BuildScript(artwork)
		fmt.Printf("Narration preview for: %s\n\n%s\n\nLength: %d characters\n", artwork.Title, script, len(script))
		return
	}

	generator := narration.NewGenerator(c.Store, narration.NewTTSClient(narrateLang), c.Config.AudioPath(), c.Logger)

	summary, err := generator.GenerateAll(context.Background())
	if err != nil {
		exitError("narration generation failed: %v", err)
	}

	fmt.Println(renderPairs("Narration summary", [][2]string{
		{"Artworks", fmt.Sprint(summary.Artworks)},
		{"Generated", fmt.Sprint(summary.Generated)},
		{"Failed", fmt.Sprint(summary.Failed)},
	}))
}
