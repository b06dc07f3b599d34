// This file implements the per-commit detail modal: the full LLM
// evaluation, fetched lazily when a commit is opened and discarded when
// the modal closes.
package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/commitpulse/commitpulse/pkg/model"
)

type detailModal struct {
	theme   Theme
	sha     string
	detail  model.CommitDetail
	loading bool
	copied  bool // flash feedback for clipboard copy
}

func newDetailModal(theme Theme, sha string) detailModal {
	return detailModal{theme: theme, sha: sha, loading: true}
}

func (d *detailModal) setResult(msg detailMsg) {
	if msg.sha != d.sha {
		return // response for a commit the user already navigated away from
	}
	d.loading = false
	d.detail = msg.detail
}

// copySha puts the full commit hash on the system clipboard and returns
// the status line to show.
func (d *detailModal) copySha() string {
	if err := clipboard.WriteAll(d.sha); err != nil {
		return fmt.Sprintf("clipboard error: %v", err)
	}
	d.copied = true
	return fmt.Sprintf("copied %s to clipboard", d.sha)
}

func scoreBar(theme Theme, name string, value float64) string {
	const scale = 5
	filled := int(value + 0.5)
	if filled > scale {
		filled = scale
	}
	if filled < 0 {
		filled = 0
	}
	bar := theme.BarFill.Render(strings.Repeat("■", filled)) +
		theme.MutedText.Render(strings.Repeat("□", scale-filled))
	return fmt.Sprintf("  %s %s %s", padRight(name, 12), bar, theme.SecondaryText.Render(fmt.Sprintf("%.1f", value)))
}

func (d detailModal) View(width, height int) string {
	boxWidth := width - 8
	if boxWidth > 90 {
		boxWidth = 90
	}
	if boxWidth < 40 {
		boxWidth = 40
	}

	var b strings.Builder
	shortSha := d.sha
	if len(shortSha) > 7 {
		shortSha = shortSha[:7]
	}
	b.WriteString(d.theme.Header.Render("Commit "+shortSha) + "\n\n")

	switch {
	case d.loading:
		b.WriteString(d.theme.MutedText.Render("loading evaluation…") + "\n")
	default:
		b.WriteString(d.theme.Base.Render(truncate(firstLine(d.detail.Message), boxWidth-4)) + "\n")
		meta := d.detail.AuthorName
		if !d.detail.CommitDate.IsZero() {
			meta += " · " + d.detail.CommitDate.Format("2006-01-02 15:04")
		}
		b.WriteString(d.theme.MutedText.Render(meta) + "\n\n")

		b.WriteString(d.theme.PrimaryBold.Render("Evaluation") + "\n")
		b.WriteString(scoreBar(d.theme, "Size", d.detail.LLMScores.Size) + "\n")
		b.WriteString(scoreBar(d.theme, "Quality", d.detail.LLMScores.Quality) + "\n")
		b.WriteString(scoreBar(d.theme, "Complexity", d.detail.LLMScores.Complexity) + "\n")
		b.WriteString(scoreBar(d.theme, "Comment", d.detail.LLMScores.Comment) + "\n")

		if rec := strings.TrimSpace(d.detail.LLMRecommendations); rec != "" {
			b.WriteString("\n" + d.theme.PrimaryBold.Render("Recommendations") + "\n")
			b.WriteString(renderMarkdown(rec, boxWidth-4))
		}
	}

	footer := "esc close · y copy sha"
	if d.copied {
		footer = "copied ✓"
	}
	b.WriteString("\n" + d.theme.MutedText.Render(footer))

	box := d.theme.Card.
		BorderForeground(d.theme.Primary).
		Width(boxWidth).
		Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// renderMarkdown renders the recommendation text through glamour,
// falling back to the raw text if the renderer fails.
func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n") + "\n"
}
