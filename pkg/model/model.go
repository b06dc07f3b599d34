// Package model defines the domain types shared across commitpulse:
// filter specifications, raw commit records, and the aggregate views
// derived from them. Types here carry no behavior beyond validation and
// wire (de)serialization; aggregation lives in pkg/metrics.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Weekdays lists the seven weekday labels used by the temporal heatmap,
// Monday first. The backend emits these exact labels in TemporalBucket.Day.
var Weekdays = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// HoursPerDay is the number of hour buckets per weekday row.
const HoursPerDay = 24

// Instant is a time.Time that tolerates the backend's timestamp dialects:
// RFC 3339 with or without sub-second precision, and bare ISO 8601 without
// a zone (emitted by the collector for naive datetimes).
type Instant struct {
	time.Time
}

var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON parses any of the accepted timestamp layouts. A null or
// empty value yields the zero Instant.
func (i *Instant) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		i.Time = time.Time{}
		return nil
	}
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			i.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON emits RFC 3339 with millisecond precision, or null for the
// zero Instant.
func (i Instant) MarshalJSON() ([]byte, error) {
	if i.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + i.Format("2006-01-02T15:04:05.000Z07:00") + `"`), nil
}

// CommitRecord is one raw commit as returned by the commit list endpoint.
// TotalScore is nil until an LLM evaluation has completed for the commit;
// nil must stay distinguishable from an explicit zero score.
type CommitRecord struct {
	Sha          string   `json:"sha"`
	AuthorName   string   `json:"author_name"`
	AuthorEmail  string   `json:"author_email,omitempty"`
	Message      string   `json:"message"`
	CommitDate   Instant  `json:"commit_date"`
	AddedLines   int      `json:"added_lines"`
	DeletedLines int      `json:"deleted_lines"`
	TotalScore   *float64 `json:"total_score_100,omitempty"`
}

// LinesChanged returns added plus deleted lines.
func (c CommitRecord) LinesChanged() int {
	return c.AddedLines + c.DeletedLines
}

// ShortSha returns the familiar 7-character abbreviation.
func (c CommitRecord) ShortSha() string {
	if len(c.Sha) <= 7 {
		return c.Sha
	}
	return c.Sha[:7]
}

// ContributorStat is one row of the top-contributors ranking. AverageKPI
// is present only for the KPI-ranked variant supplied by the backend.
type ContributorStat struct {
	Author     string   `json:"author"`
	Commits    int      `json:"commits"`
	AverageKPI *float64 `json:"average_kpi,omitempty"`
}

// Summary holds the headline figures of the dashboard.
type Summary struct {
	TotalCommits       int     `json:"total_commits"`
	TotalLinesChanged  int     `json:"total_lines_changed"`
	ActiveContributors int     `json:"active_contributors"`
	LastCommitDate     Instant `json:"last_commit_date"`
}

// CommitActivity is the per-day commit timeline. Labels are calendar days
// ("2006-01-02"), sorted ascending and unique; Data[i] counts commits on
// Labels[i]. len(Labels) == len(Data) always.
type CommitActivity struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

// DashboardStats is the derived aggregate view over one commit working
// set. It is recomputed wholesale on every refresh and never persisted.
type DashboardStats struct {
	Summary         Summary           `json:"summary"`
	TopContributors []ContributorStat `json:"top_contributors"`
	CommitActivity  CommitActivity    `json:"commit_activity"`
}

// Hotspot ranks a file by how often it changed within the filtered set.
// The backend caps the list at ten entries, sorted descending by Changes.
type Hotspot struct {
	File    string `json:"file"`
	Changes int    `json:"changes"`
}

// TemporalBucket is one cell of the day/hour commit heatmap. The source
// list is sparse; absent (day, hour) pairs mean zero commits.
type TemporalBucket struct {
	Day     string `json:"day"`
	Hour    int    `json:"hour"`
	Commits int    `json:"commits"`
}

// LLMScores are the four per-commit evaluation axes, each on a 0–5 scale.
type LLMScores struct {
	Size       float64 `json:"size"`
	Quality    float64 `json:"quality"`
	Complexity float64 `json:"complexity"`
	Comment    float64 `json:"comment"`
}

// CommitDetail is the full LLM evaluation for a single commit, fetched
// lazily for the detail view and never cached across commits.
type CommitDetail struct {
	Message            string    `json:"message"`
	AuthorName         string    `json:"author_name"`
	CommitDate         Instant   `json:"commit_date"`
	LLMScores          LLMScores `json:"llm_scores"`
	LLMRecommendations string    `json:"llm_recommendations"`
}

// CollectionStatus reports the backend collection job. Exactly one
// logical job exists at a time; there are no job identifiers.
type CollectionStatus struct {
	IsRunning bool   `json:"is_running"`
	Message   string `json:"message"`
}

// ProjectRef, RepositoryRef and BranchRef are reference-data entries used
// to populate the cascading filter form.
type ProjectRef struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type RepositoryRef struct {
	Name string `json:"name"`
}

type BranchRef struct {
	Name string `json:"name"`
}

// Snapshot bundles everything one refresh cycle fetched for a FilterSpec.
// A snapshot is published atomically: either all fields reflect the same
// fetch, or the snapshot is discarded whole.
type Snapshot struct {
	Spec      FilterSpec
	Commits   []CommitRecord
	Stats     DashboardStats
	Hotspots  []Hotspot
	Temporal  []TemporalBucket
	FetchedAt time.Time
}
