package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// relSteps are the recency buckets used by the header's "fetched …"
// stamp and the last-commit stat card, coarsest-useful unit first.
var relSteps = []struct {
	limit time.Duration
	div   time.Duration
	unit  string
}{
	{time.Hour, time.Minute, "m"},
	{24 * time.Hour, time.Hour, "h"},
	{7 * 24 * time.Hour, 24 * time.Hour, "d"},
	{30 * 24 * time.Hour, 7 * 24 * time.Hour, "w"},
	{365 * 24 * time.Hour, 30 * 24 * time.Hour, "mo"},
}

// FormatTimeRel renders t relative to now: "just now" under a minute
// (future stamps included), then m/h/d/w/mo buckets, "1y+ ago" beyond.
func FormatTimeRel(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	d := time.Since(t)
	if d < time.Minute {
		return "just now"
	}
	for _, s := range relSteps {
		if d < s.limit {
			return fmt.Sprintf("%d%s ago", int(d/s.div), s.unit)
		}
	}
	return "1y+ ago"
}

// truncate shortens s to maxWidth terminal cells, ellipsis terminated,
// counting wide runes as two cells.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth-1, "") + "…"
}

// padRight pads string s with spaces on the right to length width
func padRight(s string, width int) string {
	runeCount := utf8.RuneCountInString(s)
	if runeCount >= width {
		return s
	}
	return s + strings.Repeat(" ", width-runeCount)
}

// firstLine returns the commit subject: everything before the first
// newline, trimmed.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
