// Package report renders the end-of-run weather summary.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/i474232898/weather-monitor/internal/weather"
)

// Options controls optional parts of the summary block.
type Options struct {
	Chart       bool
	ChartHeight int
	ChartWidth  int
}

// WriteSummary prints the four summary lines, preceded by a blank line and a
// heading. Empty aggregates print as NaN.
func WriteSummary(w io.Writer, snap weather.SummarySnapshot, opts Options) error {
	lines := []string{
		"",
		"Summary for the Day:",
		fmt.Sprintf("Average Temperature: %s°C", formatTemp(snap.Average)),
		fmt.Sprintf("Maximum Temperature: %s°C", formatTemp(snap.Max)),
		fmt.Sprintf("Minimum Temperature: %s°C", formatTemp(snap.Min)),
		fmt.Sprintf("Dominant Weather Condition: %s", snap.Dominant),
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}

	if opts.Chart && len(snap.Temperatures) > 1 {
		if _, err := fmt.Fprintln(w, RenderChart(snap.Temperatures, opts.ChartWidth, opts.ChartHeight)); err != nil {
			return err
		}
	}
	return nil
}

// RenderChart plots temperatures in reading order.
func RenderChart(temps []float64, width, height int) string {
	if width < 20 {
		width = 60
	}
	if height < 3 {
		height = 10
	}
	return asciigraph.Plot(temps,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("Temperature (°C) by reading"),
	)
}

func formatTemp(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%.2f", v)
}
