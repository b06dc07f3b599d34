// Package metrics derives the dashboard aggregates from a raw commit
// working set. Every function here is pure: no I/O, no clock reads, and
// identical output for identical input regardless of call order.
package metrics

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/commitpulse/commitpulse/pkg/model"
)

// TopContributorLimit caps the contributor ranking.
const TopContributorLimit = 5

// Aggregate computes DashboardStats from a commit list.
//
// The caller supplies commits in backend order, newest first; the last
// commit date is read from the first record and the function never sorts
// its input. Contributors are deduplicated by display name, not email —
// two records sharing a name but not an email count once. That mirrors
// the backend's own grouping and is intentional.
//
// An empty input yields zeroed summary fields and empty (non-nil)
// containers, never an error.
func Aggregate(commits []model.CommitRecord) model.DashboardStats {
	stats := model.DashboardStats{
		TopContributors: []model.ContributorStat{},
		CommitActivity:  model.CommitActivity{Labels: []string{}, Data: []int{}},
	}

	stats.Summary.TotalCommits = len(commits)
	if len(commits) == 0 {
		return stats
	}
	stats.Summary.LastCommitDate = commits[0].CommitDate

	seen := make(map[string]int) // author -> index into ranking slice
	ranking := make([]model.ContributorStat, 0, 8)
	byDay := make(map[string]int)

	for _, c := range commits {
		stats.Summary.TotalLinesChanged += c.LinesChanged()

		idx, ok := seen[c.AuthorName]
		if !ok {
			idx = len(ranking)
			seen[c.AuthorName] = idx
			ranking = append(ranking, model.ContributorStat{Author: c.AuthorName})
		}
		ranking[idx].Commits++

		if !c.CommitDate.IsZero() {
			byDay[c.CommitDate.Format("2006-01-02")]++
		}
	}
	stats.Summary.ActiveContributors = len(ranking)

	// Stable sort keeps first-encountered order on ties.
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Commits > ranking[j].Commits
	})
	if len(ranking) > TopContributorLimit {
		ranking = ranking[:TopContributorLimit]
	}
	stats.TopContributors = ranking

	labels := make([]string, 0, len(byDay))
	for day := range byDay {
		labels = append(labels, day)
	}
	sort.Strings(labels)
	data := make([]int, len(labels))
	for i, day := range labels {
		data[i] = byDay[day]
	}
	stats.CommitActivity = model.CommitActivity{Labels: labels, Data: data}

	return stats
}

// RankByKPI is the KPI-ranked contributor variant: authors ordered
// descending by their mean commit score, first-encountered order breaking
// ties, capped at TopContributorLimit. Commits without an LLM score fall
// back to the deterministic score (see Score).
func RankByKPI(commits []model.CommitRecord) []model.ContributorStat {
	type authorScores struct {
		stat   model.ContributorStat
		scores []float64
	}

	seen := make(map[string]int)
	authors := make([]*authorScores, 0, 8)
	for _, c := range commits {
		idx, ok := seen[c.AuthorName]
		if !ok {
			idx = len(authors)
			seen[c.AuthorName] = idx
			authors = append(authors, &authorScores{stat: model.ContributorStat{Author: c.AuthorName}})
		}
		authors[idx].stat.Commits++
		authors[idx].scores = append(authors[idx].scores, Score(c))
	}

	ranked := make([]model.ContributorStat, len(authors))
	for i, a := range authors {
		mean := stat.Mean(a.scores, nil)
		s := a.stat
		s.AverageKPI = &mean
		ranked[i] = s
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].AverageKPI > *ranked[j].AverageKPI
	})
	if len(ranked) > TopContributorLimit {
		ranked = ranked[:TopContributorLimit]
	}
	return ranked
}

// AuthorSummary describes one contributor's slice of the working set.
type AuthorSummary struct {
	Author       string
	TotalCommits int
	AverageKPI   float64
}

// SummarizeAuthor filters the working set by author email and reports
// commit count and mean KPI. The zero AuthorSummary means the email
// matched nothing.
func SummarizeAuthor(commits []model.CommitRecord, email string) AuthorSummary {
	var sum AuthorSummary
	var scores []float64
	for _, c := range commits {
		if c.AuthorEmail != email {
			continue
		}
		if sum.Author == "" {
			sum.Author = c.AuthorName
		}
		sum.TotalCommits++
		scores = append(scores, Score(c))
	}
	if len(scores) > 0 {
		sum.AverageKPI = stat.Mean(scores, nil)
	}
	return sum
}
