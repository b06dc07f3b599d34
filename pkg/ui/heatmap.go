// This file renders the temporal tab: the 7×24 weekday/hour commit
// heatmap. Cell intensity comes from pkg/charts; the ramp lives in the
// theme so terminals that can't blend alpha still get five shades.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/commitpulse/commitpulse/pkg/charts"
	"github.com/commitpulse/commitpulse/pkg/model"
)

const heatCell = "██"

func renderHeatmap(theme Theme, buckets []model.TemporalBucket, width int) string {
	grid := charts.BuildHeatGrid(buckets)

	var b strings.Builder
	b.WriteString(theme.PrimaryBold.Render("Commits by weekday and hour") + "\n\n")

	// Hour scale, one label every three columns.
	b.WriteString("     ")
	for h := 0; h < model.HoursPerDay; h += 3 {
		b.WriteString(theme.MutedText.Render(padRight(fmt.Sprintf("%02d", h), 6)))
	}
	b.WriteString("\n")

	for d, day := range model.Weekdays {
		b.WriteString(theme.BarLabel.Render(padRight(day, 5)))
		for h := 0; h < model.HoursPerDay; h++ {
			level := charts.Level(grid.Intensity(d, h), HeatSteps)
			b.WriteString(theme.Heat[level].Render(heatCell))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + theme.MutedText.Render("     less "))
	for i := range theme.Heat {
		b.WriteString(theme.Heat[i].Render("██"))
	}
	b.WriteString(theme.MutedText.Render(" more") + "\n")

	if grid.Max == 0 {
		b.WriteString("\n" + theme.MutedText.Render("  no commits in range") + "\n")
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(b.String())
}
