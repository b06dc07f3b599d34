// This file renders the overview tab: headline stat cards, the top
// contributor ranking, and the per-day activity chart.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/commitpulse/commitpulse/pkg/charts"
	"github.com/commitpulse/commitpulse/pkg/metrics"
	"github.com/commitpulse/commitpulse/pkg/model"
)

const (
	contributorBarWidth = 24
	activityBarWidth    = 40
)

func renderStatCards(theme Theme, s model.Summary, width int) string {
	card := func(value, name string) string {
		content := lipgloss.JoinVertical(lipgloss.Center,
			theme.CardNum.Render(value),
			theme.CardName.Render(name),
		)
		return theme.Card.Render(content)
	}

	last := "—"
	if !s.LastCommitDate.IsZero() {
		last = FormatTimeRel(s.LastCommitDate.Time)
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card(fmt.Sprintf("%d", s.TotalCommits), "commits"),
		card(fmt.Sprintf("%d", s.TotalLinesChanged), "lines changed"),
		card(fmt.Sprintf("%d", s.ActiveContributors), "contributors"),
		card(last, "last commit"),
	)
	return lipgloss.NewStyle().MaxWidth(width).Render(cards)
}

func renderContributors(theme Theme, title string, rows []model.ContributorStat, width int) string {
	var b strings.Builder
	b.WriteString(theme.PrimaryBold.Render(title) + "\n")
	if len(rows) == 0 {
		b.WriteString(theme.MutedText.Render("  no commits in range") + "\n")
		return b.String()
	}

	max := 0
	for _, row := range rows {
		if row.Commits > max {
			max = row.Commits
		}
	}
	nameWidth := 22
	for _, row := range rows {
		bar := theme.BarFill.Render(charts.Bar(row.Commits, max, contributorBarWidth))
		kpi := ""
		if row.AverageKPI != nil {
			kpi = theme.InfoText.Render(fmt.Sprintf("  kpi %.1f", *row.AverageKPI))
		}
		b.WriteString(fmt.Sprintf("  %s %s %s%s\n",
			padRight(truncate(row.Author, nameWidth), nameWidth),
			bar,
			theme.SecondaryText.Render(fmt.Sprintf("%d", row.Commits)),
			kpi,
		))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(b.String())
}

func renderActivity(theme Theme, a model.CommitActivity, width int) string {
	var b strings.Builder
	b.WriteString(theme.PrimaryBold.Render("Commit activity") + "\n")
	if len(a.Labels) == 0 {
		b.WriteString(theme.MutedText.Render("  no commits in range") + "\n")
		return b.String()
	}

	max := 0
	for _, n := range a.Data {
		if n > max {
			max = n
		}
	}
	for i, label := range a.Labels {
		bar := theme.BarFill.Render(charts.Bar(a.Data[i], max, activityBarWidth))
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			theme.BarLabel.Render(label),
			bar,
			theme.SecondaryText.Render(fmt.Sprintf("%d", a.Data[i])),
		))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(b.String())
}

// renderAuthorSummary renders the per-author panel shown when the spec
// filters on a single author email.
func renderAuthorSummary(theme Theme, email string, s metrics.AuthorSummary, width int) string {
	var b strings.Builder
	b.WriteString(theme.PrimaryBold.Render("Author focus: "+email) + "\n")
	if s.TotalCommits == 0 {
		b.WriteString(theme.MutedText.Render("  no commits by this author in range") + "\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("  %s · %s commits · avg kpi %s\n",
		theme.Base.Render(s.Author),
		theme.Base.Render(fmt.Sprintf("%d", s.TotalCommits)),
		theme.InfoText.Render(fmt.Sprintf("%.1f", s.AverageKPI)),
	))
	return lipgloss.NewStyle().MaxWidth(width).Render(b.String())
}

func renderOverview(theme Theme, snap model.Snapshot, width int, byKPI bool) string {
	title := "Top contributors"
	rows := snap.Stats.TopContributors
	if byKPI {
		// KPI ranking is client-side over the working set, so it reflects
		// the same commits the table shows.
		title = "Top contributors (by avg KPI)"
		rows = metrics.RankByKPI(snap.Commits)
	}

	sections := []string{
		renderStatCards(theme, snap.Stats.Summary, width),
		"",
		renderContributors(theme, title, rows, width),
		renderActivity(theme, snap.Stats.CommitActivity, width),
	}
	if email := snap.Spec.AuthorEmail; email != "" {
		sections = append(sections, renderAuthorSummary(theme, email, metrics.SummarizeAuthor(snap.Commits, email), width))
	}
	return strings.Join(sections, "\n")
}
