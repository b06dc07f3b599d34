// This file implements the interactive export flow for the --export flag
// and the dashboard's export key. It picks a format and output path, then
// dispatches to the chart or SQLite writer.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/commitpulse/commitpulse/pkg/model"
)

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func exportForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !stdinIsTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// DefaultFileName suggests an output name from the snapshot's repo and
// the current time, e.g. "cpulse-backend-20260901-1504.svg".
func DefaultFileName(snap model.Snapshot, format string) string {
	repo := snap.Spec.RepoName
	if repo == "" {
		repo = "report"
	}
	stamp := time.Now().Format("20060102-1504")
	ext := format
	if ext == "sqlite" {
		ext = "sqlite3"
	}
	return fmt.Sprintf("cpulse-%s-%s.%s", repo, stamp, ext)
}

// Run exports snap to path in the given format without any prompting.
// format must be "svg", "png" or "sqlite".
func Run(format, path string, snap model.Snapshot) error {
	switch format {
	case "svg", "png":
		return SaveChartReport(ReportOptions{Path: path, Format: format, Snapshot: snap})
	case "sqlite":
		return ExportSQLite(path, snap)
	default:
		return fmt.Errorf("unknown export format %q (want svg, png or sqlite)", format)
	}
}

// RunExportWizard walks the user through format and path selection and
// performs the export. It returns the written path.
func RunExportWizard(snap model.Snapshot, defaultDir string) (string, error) {
	format := "svg"
	form := exportForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Export format").
				Options(
					huh.NewOption("SVG chart report", "svg"),
					huh.NewOption("PNG chart report", "png"),
					huh.NewOption("SQLite database (working set)", "sqlite"),
				).
				Value(&format),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}

	if defaultDir == "" {
		defaultDir = "."
	}
	path := filepath.Join(defaultDir, DefaultFileName(snap, format))
	pathForm := exportForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output path").
				Value(&path).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	)
	if err := pathForm.Run(); err != nil {
		return "", err
	}

	if err := Run(format, path, snap); err != nil {
		return "", err
	}
	return path, nil
}
