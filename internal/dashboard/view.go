package dashboard

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"assettracker/pkg/models"
)

const barWidth = 40

// Render writes the dashboard: stat cards, an In/Out bar chart and the asset table.
func Render(w io.Writer, s State) error {
	var b strings.Builder

	if s.Loading {
		b.WriteString("Loading...\n\n")
	}

	renderCards(&b, s.Stats)
	b.WriteString("\n")
	renderChart(&b, s.Stats)
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	return RenderTable(w, s.Assets)
}

func renderCards(b *strings.Builder, stats models.Stats) {
	fmt.Fprintf(b, "Total Assets: %d | In Stock: %d | Checked Out: %d\n", stats.Total, stats.InStock, stats.OutStock)
}

func renderChart(b *strings.Builder, stats models.Stats) {
	fmt.Fprintf(b, "In  %-*s %d\n", barWidth, bar(stats.InStock, stats.Total), stats.InStock)
	fmt.Fprintf(b, "Out %-*s %d\n", barWidth, bar(stats.OutStock, stats.Total), stats.OutStock)
}

func bar(n, total int) string {
	if total == 0 || n <= 0 {
		return ""
	}
	width := n * barWidth / total
	if width == 0 {
		width = 1
	}
	return strings.Repeat("#", width)
}

// RenderTable writes one row per asset with the actions it currently offers.
func RenderTable(w io.Writer, assets []models.Asset) error {
	if len(assets) == 0 {
		_, err := io.WriteString(w, "No assets yet.\n")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSERIAL\tDESCRIPTION\tSTATUS\tLOCATION\tACTIONS")
	for _, a := range assets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", a.ID, a.SerialNumber, a.Description, a.Status, a.Location, actions(a))
	}
	return tw.Flush()
}

func actions(a models.Asset) string {
	if a.IsAvailable() {
		return "checkout, delete"
	}
	return "checkin, delete"
}
