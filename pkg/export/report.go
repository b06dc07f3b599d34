// Package export provides report export for cpulse: static chart
// snapshots (SVG or PNG) and a SQLite bundle of the current working set
// for ad-hoc SQL. Exports are explicit, user-triggered outputs — the
// in-memory snapshot stays the only state the dashboard itself uses.
package export

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/commitpulse/commitpulse/pkg/charts"
	"github.com/commitpulse/commitpulse/pkg/model"
)

// ReportOptions controls chart snapshot export behaviour.
type ReportOptions struct {
	Path     string         // Output path; format inferred from extension when Format empty
	Format   string         // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title    string         // Optional title rendered in the header block
	Snapshot model.Snapshot // The working set and derived views to render
}

var (
	colorBackdrop = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	colorHeaderBG = color.RGBA{0xf3, 0xf4, 0xf6, 0xff}
	colorText     = color.RGBA{0x11, 0x11, 0x11, 0xff}
	colorSubtle   = color.RGBA{0x66, 0x66, 0x66, 0xff}
	colorBar      = color.RGBA{0x2f, 0x2b, 0xf0, 0xff}
	colorBarAlt   = color.RGBA{0x6b, 0x80, 0xbf, 0xff}
	colorHeatBase = color.RGBA{0x2f, 0x2b, 0xf0, 0xff}
)

const (
	reportWidth   = 960
	marginX       = 32
	headerHeight  = 86
	sectionGap    = 28
	rowHeight     = 18
	heatCellW     = 34
	heatCellH     = 16
	barAreaWidth  = 560
	labelColWidth = 300
)

// SaveChartReport renders the snapshot's activity timeline, contributor
// ranking, hotspots, and temporal heatmap into a single image.
func SaveChartReport(opts ReportOptions) error {
	if opts.Snapshot.FetchedAt.IsZero() && len(opts.Snapshot.Commits) == 0 {
		return fmt.Errorf("nothing to export: no snapshot loaded")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".png":
			format = "png"
		default:
			format = "svg"
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path += ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create parent dir: %w", err)
		}
	}

	layout := buildReportLayout(opts)
	if format == "svg" {
		return renderReportSVG(opts, layout)
	}
	return renderReportPNG(opts, layout)
}

type reportSection struct {
	Title string
	Y     int
	Rows  int
}

type reportLayout struct {
	Width, Height int
	Activity      reportSection
	Contributors  reportSection
	Hotspots      reportSection
	Heatmap       reportSection
	Grid          charts.HeatGrid
}

func buildReportLayout(opts ReportOptions) reportLayout {
	snap := opts.Snapshot
	l := reportLayout{Width: reportWidth, Grid: charts.BuildHeatGrid(snap.Temporal)}

	y := headerHeight + sectionGap
	l.Activity = reportSection{Title: "Commit activity by day", Y: y, Rows: len(snap.Stats.CommitActivity.Labels)}
	y += sectionHeight(l.Activity.Rows)
	l.Contributors = reportSection{Title: "Top contributors", Y: y, Rows: len(snap.Stats.TopContributors)}
	y += sectionHeight(l.Contributors.Rows)
	l.Hotspots = reportSection{Title: "Hotspots (top changed files)", Y: y, Rows: len(snap.Hotspots)}
	y += sectionHeight(l.Hotspots.Rows)
	l.Heatmap = reportSection{Title: "Commits by weekday and hour", Y: y, Rows: len(model.Weekdays)}
	y += 30 + len(model.Weekdays)*(heatCellH+2) + 30
	l.Height = y + sectionGap
	return l
}

func sectionHeight(rows int) int {
	if rows == 0 {
		rows = 1 // room for the "no data" line
	}
	return 30 + rows*rowHeight + sectionGap
}

type barRow struct {
	Label string
	Value int
}

func activityRows(a model.CommitActivity) []barRow {
	rows := make([]barRow, len(a.Labels))
	for i, label := range a.Labels {
		rows[i] = barRow{Label: label, Value: a.Data[i]}
	}
	return rows
}

func contributorRows(cs []model.ContributorStat) []barRow {
	rows := make([]barRow, len(cs))
	for i, c := range cs {
		rows[i] = barRow{Label: c.Author, Value: c.Commits}
	}
	return rows
}

func hotspotRows(hs []model.Hotspot) []barRow {
	rows := make([]barRow, len(hs))
	for i, h := range hs {
		rows[i] = barRow{Label: h.File, Value: h.Changes}
	}
	return rows
}

func maxRowValue(rows []barRow) int {
	max := 0
	for _, r := range rows {
		if r.Value > max {
			max = r.Value
		}
	}
	return max
}

func heatAlpha(intensity float64) uint8 {
	return uint8(255 * intensity)
}

func specLine(spec model.FilterSpec) string {
	parts := []string{spec.ProjectKey + "/" + spec.RepoName}
	if spec.BranchName != "" {
		parts = append(parts, "branch "+spec.BranchName)
	}
	if spec.AuthorEmail != "" {
		parts = append(parts, "author "+spec.AuthorEmail)
	}
	if !spec.Since.IsZero() {
		parts = append(parts, spec.Since.Format("2006-01-02")+" .. "+spec.Until.Format("2006-01-02"))
	}
	return strings.Join(parts, ", ")
}

func truncateLabel(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// --- SVG renderer ----------------------------------------------------------

func renderReportSVG(opts ReportOptions, l reportLayout) error {
	file, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	snap := opts.Snapshot
	canvas := svg.New(file)
	canvas.Start(l.Width, l.Height)
	canvas.Rect(0, 0, l.Width, l.Height, "fill:"+css(colorBackdrop))
	canvas.Roundrect(16, 16, l.Width-32, headerHeight-24, 10, 10, "fill:"+css(colorHeaderBG))

	title := opts.Title
	if title == "" {
		title = "Commit analytics report"
	}
	textStyle := "fill:%s;font-size:%dpx;font-family:monospace"
	canvas.Text(marginX, 44, title, fmt.Sprintf(textStyle+";font-weight:bold", css(colorText), 16))
	canvas.Text(marginX, 64, specLine(snap.Spec), fmt.Sprintf(textStyle, css(colorSubtle), 12))
	summary := fmt.Sprintf("%d commits, %d lines changed, %d contributors",
		snap.Stats.Summary.TotalCommits, snap.Stats.Summary.TotalLinesChanged, snap.Stats.Summary.ActiveContributors)
	canvas.Text(l.Width-marginX-len(summary)*7, 44, summary, fmt.Sprintf(textStyle, css(colorSubtle), 12))

	drawBarSectionSVG(canvas, l.Activity, activityRows(snap.Stats.CommitActivity), colorBar)
	drawBarSectionSVG(canvas, l.Contributors, contributorRows(snap.Stats.TopContributors), colorBarAlt)
	drawBarSectionSVG(canvas, l.Hotspots, hotspotRows(snap.Hotspots), colorBar)
	drawHeatmapSVG(canvas, l)

	canvas.End()
	return nil
}

func drawBarSectionSVG(canvas *svg.SVG, sec reportSection, rows []barRow, barColor color.RGBA) {
	textStyle := "fill:%s;font-size:%dpx;font-family:monospace"
	canvas.Text(marginX, sec.Y, sec.Title, fmt.Sprintf(textStyle+";font-weight:bold", css(colorText), 14))
	if len(rows) == 0 {
		canvas.Text(marginX, sec.Y+rowHeight, "no data", fmt.Sprintf(textStyle, css(colorSubtle), 12))
		return
	}
	max := maxRowValue(rows)
	for i, r := range rows {
		y := sec.Y + 12 + i*rowHeight
		canvas.Text(marginX, y+12, truncateLabel(r.Label, 40), fmt.Sprintf(textStyle, css(colorSubtle), 12))
		w := charts.BarCells(r.Value, max, barAreaWidth)
		canvas.Rect(labelColWidth, y, w, rowHeight-4, "fill:"+css(barColor))
		canvas.Text(labelColWidth+w+6, y+12, fmt.Sprintf("%d", r.Value), fmt.Sprintf(textStyle, css(colorText), 12))
	}
}

func drawHeatmapSVG(canvas *svg.SVG, l reportLayout) {
	textStyle := "fill:%s;font-size:%dpx;font-family:monospace"
	canvas.Text(marginX, l.Heatmap.Y, l.Heatmap.Title, fmt.Sprintf(textStyle+";font-weight:bold", css(colorText), 14))
	top := l.Heatmap.Y + 14
	for h := 0; h < model.HoursPerDay; h += 3 {
		canvas.Text(marginX+60+h*(heatCellW/2), top+10, fmt.Sprintf("%02d", h), fmt.Sprintf(textStyle, css(colorSubtle), 10))
	}
	for d, day := range model.Weekdays {
		y := top + 16 + d*(heatCellH+2)
		canvas.Text(marginX, y+12, day, fmt.Sprintf(textStyle, css(colorSubtle), 11))
		for h := 0; h < model.HoursPerDay; h++ {
			x := marginX + 60 + h*(heatCellW/2)
			alpha := l.Grid.Intensity(d, h)
			style := fmt.Sprintf("fill:%s;fill-opacity:%.2f", css(colorHeatBase), alpha)
			canvas.Rect(x, y, heatCellW/2-2, heatCellH, style)
		}
	}
}

// --- PNG renderer ----------------------------------------------------------

func renderReportPNG(opts ReportOptions, l reportLayout) error {
	snap := opts.Snapshot
	dc := gg.NewContext(l.Width, l.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()

	dc.SetColor(colorHeaderBG)
	dc.DrawRoundedRectangle(16, 16, float64(l.Width)-32, float64(headerHeight)-24, 10)
	dc.Fill()

	dc.SetFontFace(basicfont.Face7x13)

	title := opts.Title
	if title == "" {
		title = "Commit analytics report"
	}
	dc.SetColor(colorText)
	dc.DrawString(title, marginX, 44)
	dc.SetColor(colorSubtle)
	dc.DrawString(specLine(snap.Spec), marginX, 64)

	drawBarSectionPNG(dc, l.Activity, activityRows(snap.Stats.CommitActivity), colorBar)
	drawBarSectionPNG(dc, l.Contributors, contributorRows(snap.Stats.TopContributors), colorBarAlt)
	drawBarSectionPNG(dc, l.Hotspots, hotspotRows(snap.Hotspots), colorBar)
	drawHeatmapPNG(dc, l)

	return dc.SavePNG(opts.Path)
}

func drawBarSectionPNG(dc *gg.Context, sec reportSection, rows []barRow, barColor color.RGBA) {
	dc.SetColor(colorText)
	dc.DrawString(sec.Title, marginX, float64(sec.Y))
	if len(rows) == 0 {
		dc.SetColor(colorSubtle)
		dc.DrawString("no data", marginX, float64(sec.Y+rowHeight))
		return
	}
	max := maxRowValue(rows)
	for i, r := range rows {
		y := float64(sec.Y + 12 + i*rowHeight)
		dc.SetColor(colorSubtle)
		dc.DrawString(truncateLabel(r.Label, 40), marginX, y+12)
		w := charts.BarCells(r.Value, max, barAreaWidth)
		dc.SetColor(barColor)
		dc.DrawRectangle(labelColWidth, y, float64(w), rowHeight-4)
		dc.Fill()
		dc.SetColor(colorText)
		dc.DrawString(fmt.Sprintf("%d", r.Value), labelColWidth+float64(w)+6, y+12)
	}
}

func drawHeatmapPNG(dc *gg.Context, l reportLayout) {
	dc.SetColor(colorText)
	dc.DrawString(l.Heatmap.Title, marginX, float64(l.Heatmap.Y))
	top := l.Heatmap.Y + 14
	dc.SetColor(colorSubtle)
	for h := 0; h < model.HoursPerDay; h += 3 {
		dc.DrawString(fmt.Sprintf("%02d", h), float64(marginX+60+h*(heatCellW/2)), float64(top+10))
	}
	for d, day := range model.Weekdays {
		y := float64(top + 16 + d*(heatCellH+2))
		dc.SetColor(colorSubtle)
		dc.DrawString(day, marginX, y+12)
		for h := 0; h < model.HoursPerDay; h++ {
			x := float64(marginX + 60 + h*(heatCellW/2))
			c := colorHeatBase
			cell := color.NRGBA{R: c.R, G: c.G, B: c.B, A: heatAlpha(l.Grid.Intensity(d, h))}
			dc.SetColor(cell)
			dc.DrawRectangle(x, y, heatCellW/2-2, heatCellH)
			dc.Fill()
		}
	}
}
