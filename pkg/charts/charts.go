// Package charts normalizes backend-aggregated data for rendering: bar
// lengths proportional to a set's maximum and the fixed 7×24 commit
// heatmap. The package is presentation-agnostic — it produces cell
// counts and intensities; pkg/ui and pkg/export decide colors.
package charts

import (
	"strings"

	"github.com/commitpulse/commitpulse/pkg/model"
)

// Heat intensity constants, matching the dashboard's visual language:
// an empty cell is faintly visible rather than fully transparent, and
// non-empty cells occupy [MinIntensity, 1].
const (
	ZeroIntensity = 0.05
	MinIntensity  = 0.1
)

// Ratio returns value/max, or 0 when max is not positive. Every divide
// in this package funnels through here so an all-zero input set can
// never divide by zero.
func Ratio(value, max int) float64 {
	if max <= 0 {
		return 0
	}
	return float64(value) / float64(max)
}

// BarCells converts a value into a bar length out of width cells. A
// non-zero value always occupies at least one cell so tiny values stay
// visible next to large ones.
func BarCells(value, max, width int) int {
	if width <= 0 || value <= 0 {
		return 0
	}
	cells := int(Ratio(value, max) * float64(width))
	if cells < 1 {
		cells = 1
	}
	if cells > width {
		cells = width
	}
	return cells
}

// Bar renders a plain text bar of proportional length.
func Bar(value, max, width int) string {
	return strings.Repeat("█", BarCells(value, max, width))
}

// MaxChanges returns the largest change count in a hotspot list.
func MaxChanges(hotspots []model.Hotspot) int {
	max := 0
	for _, h := range hotspots {
		if h.Changes > max {
			max = h.Changes
		}
	}
	return max
}

// HeatGrid is the dense 7×24 day/hour commit grid. Rows follow
// model.Weekdays order; missing buckets in the sparse source default to
// zero.
type HeatGrid struct {
	Cells [len(model.Weekdays)][model.HoursPerDay]int
	Max   int
}

// BuildHeatGrid fills the dense grid from the backend's sparse bucket
// list. Buckets with unknown day labels or out-of-range hours are
// dropped rather than guessed at.
func BuildHeatGrid(buckets []model.TemporalBucket) HeatGrid {
	dayIndex := make(map[string]int, len(model.Weekdays))
	for i, d := range model.Weekdays {
		dayIndex[d] = i
	}

	var g HeatGrid
	for _, b := range buckets {
		row, ok := dayIndex[b.Day]
		if !ok || b.Hour < 0 || b.Hour >= model.HoursPerDay {
			continue
		}
		g.Cells[row][b.Hour] += b.Commits
		if g.Cells[row][b.Hour] > g.Max {
			g.Max = g.Cells[row][b.Hour]
		}
	}
	return g
}

// Intensity maps a cell to a visual weight. Zero commits yield the fixed
// ZeroIntensity; anything else lands in [MinIntensity, 1], linear in the
// cell's ratio to the grid maximum. An all-zero grid (Max == 0) renders
// entirely at ZeroIntensity.
func (g HeatGrid) Intensity(day, hour int) float64 {
	if day < 0 || day >= len(model.Weekdays) || hour < 0 || hour >= model.HoursPerDay {
		return ZeroIntensity
	}
	count := g.Cells[day][hour]
	if count == 0 || g.Max == 0 {
		return ZeroIntensity
	}
	return MinIntensity + Ratio(count, g.Max)*(1-MinIntensity)
}

// Level quantizes an intensity into one of steps ramp positions
// (0 .. steps-1) for terminals that can't blend alpha.
func Level(intensity float64, steps int) int {
	if steps <= 1 {
		return 0
	}
	if intensity < 0 {
		intensity = 0
	}
	if intensity > 1 {
		intensity = 1
	}
	level := int(intensity * float64(steps))
	if level >= steps {
		level = steps - 1
	}
	return level
}
