// This file renders the commits tab: the raw working set as a scrollable
// table, entry point for the per-commit detail modal.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"

	"github.com/commitpulse/commitpulse/pkg/metrics"
	"github.com/commitpulse/commitpulse/pkg/model"
)

const commitTableHeight = 16

func newCommitTable(theme Theme) table.Model {
	columns := []table.Column{
		{Title: "Sha", Width: 8},
		{Title: "Date", Width: 16},
		{Title: "Author", Width: 18},
		{Title: "Subject", Width: 44},
		{Title: "+/-", Width: 11},
		{Title: "Score", Width: 6},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(commitTableHeight),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(theme.Primary).
		BorderForeground(theme.Border).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(ColorText).
		Background(theme.Highlight).
		Bold(true)
	t.SetStyles(styles)
	return t
}

func commitRows(commits []model.CommitRecord) []table.Row {
	rows := make([]table.Row, len(commits))
	for i, c := range commits {
		date := "—"
		if !c.CommitDate.IsZero() {
			date = c.CommitDate.Format("2006-01-02 15:04")
		}
		score := "—"
		if c.TotalScore != nil {
			score = fmt.Sprintf("%.0f", *c.TotalScore)
		} else {
			// No LLM evaluation yet; show the deterministic fallback.
			score = fmt.Sprintf("%.0f*", metrics.Score(c))
		}
		rows[i] = table.Row{
			c.ShortSha(),
			date,
			truncate(c.AuthorName, 18),
			truncate(firstLine(c.Message), 44),
			fmt.Sprintf("+%d/-%d", c.AddedLines, c.DeletedLines),
			score,
		}
	}
	return rows
}

// selectedSha maps the table cursor back to the commit hash. The table
// shows the abbreviated hash; detail fetches need the full one.
func selectedSha(t table.Model, commits []model.CommitRecord) string {
	idx := t.Cursor()
	if idx < 0 || idx >= len(commits) {
		return ""
	}
	return commits[idx].Sha
}
