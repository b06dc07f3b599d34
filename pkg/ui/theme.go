package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Adaptive palette. Light mode uses darker shades for contrast on white
// backgrounds (WCAG AA, ratio >= 4.5:1).
var (
	ColorText    = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#F8F8F2"}
	ColorSubtext = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#6272A4"}

	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}
	ColorInfo      = lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"}

	ColorBorder    = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"}
	ColorHighlight = lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"}
)

// heatRamp are the five intensity steps of the temporal heatmap, dimmest
// first. Indexed through charts.Level so an all-zero grid stays at the
// faint base shade.
var heatRamp = [...]lipgloss.AdaptiveColor{
	{Light: "#E6E5FC", Dark: "#2A2850"},
	{Light: "#B9B5F5", Dark: "#3E3A78"},
	{Light: "#8C86EE", Dark: "#5650A0"},
	{Light: "#5F58E7", Dark: "#716BD0"},
	{Light: "#2F2BF0", Dark: "#938DFF"},
}

// HeatSteps is the quantization granularity of the heatmap ramp.
const HeatSteps = len(heatRamp)

// Theme bundles the colors and pre-computed styles of the dashboard.
// Styles are created once at startup, not per frame.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Header   lipgloss.Style
	Tab      lipgloss.Style
	TabOn    lipgloss.Style
	Card     lipgloss.Style
	CardNum  lipgloss.Style
	CardName lipgloss.Style

	MutedText     lipgloss.Style
	InfoText      lipgloss.Style
	SuccessText   lipgloss.Style
	WarningText   lipgloss.Style
	DangerText    lipgloss.Style
	SecondaryText lipgloss.Style
	PrimaryBold   lipgloss.Style

	BarFill  lipgloss.Style
	BarLabel lipgloss.Style

	Heat []lipgloss.Style // one style per ramp step
}

// DefaultTheme returns the standard adaptive theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer:  r,
		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Subtext:   ColorSubtext,
		Border:    ColorBorder,
		Highlight: ColorHighlight,
	}

	t.Base = r.NewStyle().Foreground(ColorText)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Tab = r.NewStyle().Foreground(ColorMuted).Padding(0, 1)
	t.TabOn = r.NewStyle().Foreground(t.Primary).Bold(true).Underline(true).Padding(0, 1)

	t.Card = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 2)
	t.CardNum = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.CardName = r.NewStyle().Foreground(ColorMuted)

	t.MutedText = r.NewStyle().Foreground(ColorMuted)
	t.InfoText = r.NewStyle().Foreground(ColorInfo)
	t.SuccessText = r.NewStyle().Foreground(ColorSuccess)
	t.WarningText = r.NewStyle().Foreground(ColorWarning)
	t.DangerText = r.NewStyle().Foreground(ColorDanger)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)

	t.BarFill = r.NewStyle().Foreground(t.Primary)
	t.BarLabel = r.NewStyle().Foreground(ColorSubtext)

	t.Heat = make([]lipgloss.Style, len(heatRamp))
	for i, c := range heatRamp {
		t.Heat[i] = r.NewStyle().Foreground(c)
	}

	return t
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
