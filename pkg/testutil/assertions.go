package testutil

import (
	"math"
	"testing"

	"github.com/commitpulse/commitpulse/pkg/model"
)

// AssertCommitCount verifies the expected number of commits.
func AssertCommitCount(t *testing.T, commits []model.CommitRecord, expected int) {
	t.Helper()
	if len(commits) != expected {
		t.Errorf("expected %d commits, got %d", expected, len(commits))
	}
}

// AssertNoDuplicateShas verifies all commit hashes are unique.
func AssertNoDuplicateShas(t *testing.T, commits []model.CommitRecord) {
	t.Helper()
	seen := make(map[string]bool)
	for _, c := range commits {
		if seen[c.Sha] {
			t.Errorf("duplicate commit sha: %s", c.Sha)
		}
		seen[c.Sha] = true
	}
}

// AssertSortedDesc verifies contributor rows are sorted descending by
// commit count.
func AssertSortedDesc(t *testing.T, rows []model.ContributorStat) {
	t.Helper()
	for i := 1; i < len(rows); i++ {
		if rows[i].Commits > rows[i-1].Commits {
			t.Errorf("contributors not sorted at %d: %d before %d",
				i, rows[i-1].Commits, rows[i].Commits)
		}
	}
}

// AssertActivityAligned verifies the activity labels/data parallel-slice
// contract and that labels are sorted ascending and unique.
func AssertActivityAligned(t *testing.T, a model.CommitActivity) {
	t.Helper()
	if len(a.Labels) != len(a.Data) {
		t.Fatalf("labels/data length mismatch: %d vs %d", len(a.Labels), len(a.Data))
	}
	for i := 1; i < len(a.Labels); i++ {
		if a.Labels[i] <= a.Labels[i-1] {
			t.Errorf("activity labels not strictly ascending at %d: %q then %q",
				i, a.Labels[i-1], a.Labels[i])
		}
	}
}

// AssertFloatEqual compares floats to a fixed tolerance.
func AssertFloatEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}
