// Command lensa is the museum guide CLI: catalog artworks, build the
// feature database, and recognize artworks from photographs.
package main

import (
	"os"

	"github.com/lensa-guide/lensa/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
