package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/commitpulse/commitpulse/pkg/metrics"
	"github.com/commitpulse/commitpulse/pkg/model"
	"github.com/commitpulse/commitpulse/pkg/testutil"
)

func testSnapshot(t *testing.T) model.Snapshot {
	t.Helper()
	g := testutil.NewDefault()
	snap := g.Snapshot(g.Commits(12, 6*time.Hour))
	snap.Stats = metrics.Aggregate(snap.Commits)
	return snap
}

func TestSaveChartReportSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.svg")
	err := SaveChartReport(ReportOptions{Path: path, Snapshot: testSnapshot(t), Title: "Weekly report"})
	if err != nil {
		t.Fatalf("SaveChartReport: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "<svg") {
		t.Error("output is not SVG")
	}
	if !strings.Contains(out, "Weekly report") {
		t.Error("title missing from report")
	}
	if !strings.Contains(out, "PROJ/backend") {
		t.Error("filter scope missing from report")
	}
	for _, section := range []string{"Commit activity by day", "Top contributors", "Hotspots", "Commits by weekday and hour"} {
		if !strings.Contains(out, section) {
			t.Errorf("section %q missing", section)
		}
	}
}

func TestSaveChartReportPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.png")
	err := SaveChartReport(ReportOptions{Path: path, Format: "png", Snapshot: testSnapshot(t)})
	if err != nil {
		t.Fatalf("SaveChartReport: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Error("output is not a PNG file")
	}
}

func TestSaveChartReportInfersFormat(t *testing.T) {
	dir := t.TempDir()
	snap := testSnapshot(t)

	png := filepath.Join(dir, "out.png")
	if err := SaveChartReport(ReportOptions{Path: png, Snapshot: snap}); err != nil {
		t.Fatalf("png by extension: %v", err)
	}
	data, err := os.ReadFile(png)
	if err != nil {
		t.Fatal(err)
	}
	if string(data[1:4]) != "PNG" {
		t.Error(".png path did not produce a PNG")
	}

	// No extension defaults to SVG and appends the extension.
	bare := filepath.Join(dir, "out")
	if err := SaveChartReport(ReportOptions{Path: bare, Snapshot: snap}); err != nil {
		t.Fatalf("bare path: %v", err)
	}
	if _, err := os.Stat(bare + ".svg"); err != nil {
		t.Errorf("expected %s.svg: %v", bare, err)
	}
}

func TestSaveChartReportRejectsBadInput(t *testing.T) {
	snap := testSnapshot(t)

	if err := SaveChartReport(ReportOptions{Path: "x.svg"}); err == nil {
		t.Error("empty snapshot accepted")
	}
	if err := SaveChartReport(ReportOptions{Path: "x.gif", Format: "gif", Snapshot: snap}); err == nil {
		t.Error("unsupported format accepted")
	}
	if err := SaveChartReport(ReportOptions{Format: "svg", Snapshot: snap}); err == nil {
		t.Error("missing path accepted")
	}
}

func TestSaveChartReportEmptyViews(t *testing.T) {
	// A snapshot with commits but no hotspots or buckets still renders,
	// with "no data" placeholders instead of bars.
	g := testutil.NewDefault()
	snap := model.Snapshot{
		Spec:      testutil.Spec(),
		Commits:   g.Commits(3, time.Hour),
		FetchedAt: time.Now(),
	}
	snap.Stats = metrics.Aggregate(snap.Commits)
	snap.Stats.TopContributors = nil
	snap.Stats.CommitActivity = model.CommitActivity{}

	path := filepath.Join(t.TempDir(), "sparse.svg")
	if err := SaveChartReport(ReportOptions{Path: path, Snapshot: snap}); err != nil {
		t.Fatalf("SaveChartReport: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "no data") {
		t.Error("empty sections missing the placeholder")
	}
}

func TestTruncateLabel(t *testing.T) {
	if got := truncateLabel("short.go", 40); got != "short.go" {
		t.Errorf("truncateLabel short = %q", got)
	}
	long := strings.Repeat("a/", 30) + "file.go"
	got := truncateLabel(long, 40)
	if len([]rune(got)) != 40 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncateLabel long = %q", got)
	}
}
