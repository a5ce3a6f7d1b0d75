package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// renderPairs renders a two-column name/value table.
func renderPairs(title string, pairs [][2]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if title != "" {
		tw.SetTitle(title)
	}
	for _, p := range pairs {
		tw.AppendRow(table.Row{p[0], p[1]})
	}
	return tw.Render()
}
