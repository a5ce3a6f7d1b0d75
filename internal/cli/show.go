package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lensa-guide/lensa/internal/models"
)

var showCmd = &cobra.Command{
	Use:   "show <artwork-id>",
	Short: "Show a cataloged artwork",
	Long:  `Show the catalog entry for an artwork by its local ID or Met object ID.`,
	Args:  cobra.ExactArgs(1),
	Run:   runShow,
}

var showByMetID bool

func init() {
	showCmd.Flags().BoolVar(&showByMetID, "met", false, "Look up by Met object ID instead of local ID")
}

func runShow(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		exitError("invalid artwork ID: %s", args[0])
	}

	var artwork models.Artwork
	var found bool
	if showByMetID {
		artwork, found, err = c.Store.GetArtworkByMetID(id)
	} else {
		artwork, found, err = c.Store.GetArtwork(id)
	}
	if err != nil {
		exitError("failed to load artwork: %v", err)
	}
	if !found {
		exitError("artwork %d not found", id)
	}

	fmt.Println(renderPairs("", [][2]string{
		{"ID", fmt.Sprint(artwork.ID)},
		{"Met object ID", fmt.Sprint(artwork.MetObjectID)},
		{"Title", artwork.Title},
		{"Artist", artwork.Artist},
		{"Date", artwork.Date},
		{"Medium", artwork.Medium},
		{"Department", artwork.Department},
		{"Image URL", artwork.ImageURL},
		{"Narration", artwork.AudioFilePath},
	}))
}
