package model

import (
	"errors"
	"net/url"
	"time"
)

// BranchAll is the wildcard branch selection. It widens collection to
// every branch and is omitted from query parameters like an empty value.
const BranchAll = "all"

// Validation errors for FilterSpec.
var (
	ErrMissingProject = errors.New("filter: project key is required")
	ErrMissingRepo    = errors.New("filter: repository name is required")
	ErrInvertedRange  = errors.New("filter: since is after until")
	ErrMissingDates   = errors.New("filter: since and until are required")
)

// FilterSpec is the immutable scope of one analysis request. A new
// request always constructs a new spec; nothing mutates one in place.
// Build specs through NewFilterSpec so the date range is normalized.
type FilterSpec struct {
	ProjectKey  string    `json:"project_key"`
	RepoName    string    `json:"repo_name"`
	BranchName  string    `json:"branch_name,omitempty"`
	AuthorEmail string    `json:"author_email,omitempty"`
	Since       time.Time `json:"since"`
	Until       time.Time `json:"until"`
}

// NewFilterSpec builds a spec with the date range normalized: since is
// truncated to midnight and until extended to end of day (23:59:59.999),
// both in the timezone the dates were supplied in. Normalization happens
// here, at construction, not at the backend.
func NewFilterSpec(projectKey, repoName, branchName, authorEmail string, since, until time.Time) FilterSpec {
	return FilterSpec{
		ProjectKey:  projectKey,
		RepoName:    repoName,
		BranchName:  branchName,
		AuthorEmail: authorEmail,
		Since:       StartOfDay(since),
		Until:       EndOfDay(until),
	}
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay extends t to 23:59:59.999 the same day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999_000_000, t.Location())
}

// Validate reports whether the spec can back a collection request.
func (f FilterSpec) Validate() error {
	if f.ProjectKey == "" {
		return ErrMissingProject
	}
	if f.RepoName == "" {
		return ErrMissingRepo
	}
	if f.Since.IsZero() || f.Until.IsZero() {
		return ErrMissingDates
	}
	if f.Since.After(f.Until) {
		return ErrInvertedRange
	}
	return nil
}

// IsZero reports whether no spec has been submitted yet.
func (f FilterSpec) IsZero() bool {
	return f == FilterSpec{}
}

// Query encodes the spec as filter query parameters. Absent fields are
// omitted entirely, never sent as empty strings; the BranchAll wildcard
// counts as absent. Dates are serialized as RFC 3339 instants.
func (f FilterSpec) Query() url.Values {
	q := url.Values{}
	if f.ProjectKey != "" {
		q.Set("project_key", f.ProjectKey)
	}
	if f.RepoName != "" {
		q.Set("repo_name", f.RepoName)
	}
	if f.BranchName != "" && f.BranchName != BranchAll {
		q.Set("branch_name", f.BranchName)
	}
	if f.AuthorEmail != "" {
		q.Set("author_email", f.AuthorEmail)
	}
	if !f.Since.IsZero() {
		q.Set("since", f.Since.Format("2006-01-02T15:04:05.000Z07:00"))
	}
	if !f.Until.IsZero() {
		q.Set("until", f.Until.Format("2006-01-02T15:04:05.000Z07:00"))
	}
	return q
}
