// This file renders the hotspots tab: the files that changed most often
// inside the filtered range, as a proportional bar list.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/commitpulse/commitpulse/pkg/charts"
	"github.com/commitpulse/commitpulse/pkg/model"
)

const hotspotBarWidth = 30

func renderHotspots(theme Theme, hotspots []model.Hotspot, width int) string {
	var b strings.Builder
	b.WriteString(theme.PrimaryBold.Render("Hotspots") + "\n")
	b.WriteString(theme.MutedText.Render("files changed most often in range") + "\n\n")

	if len(hotspots) == 0 {
		b.WriteString(theme.MutedText.Render("  no file changes in range") + "\n")
		return lipgloss.NewStyle().MaxWidth(width).Render(b.String())
	}

	max := charts.MaxChanges(hotspots)
	fileWidth := width - hotspotBarWidth - 12
	if fileWidth < 20 {
		fileWidth = 20
	}
	for i, h := range hotspots {
		bar := theme.BarFill.Render(charts.Bar(h.Changes, max, hotspotBarWidth))
		b.WriteString(fmt.Sprintf(" %2d. %s %s %s\n",
			i+1,
			padRight(truncate(h.File, fileWidth), fileWidth),
			bar,
			theme.SecondaryText.Render(fmt.Sprintf("%d", h.Changes)),
		))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(b.String())
}
