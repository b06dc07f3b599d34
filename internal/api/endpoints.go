package api

import (
	"context"
	"net/url"

	"github.com/commitpulse/commitpulse/pkg/model"
)

// Endpoint paths, kept in one place so tests and the client agree.
const (
	pathStartCollection  = "/api/admin/start-collection"
	pathCollectionStatus = "/api/admin/collection-status"
	pathCommits          = "/api/data/commits"
	pathDashboardStats   = "/api/metrics/dashboard_stats"
	pathHotspots         = "/api/metrics/hotspots"
	pathTemporal         = "/api/metrics/temporal_patterns"
	pathProjects         = "/api/refs/projects"
	pathRepositories     = "/api/refs/repositories"
	pathBranches         = "/api/refs/branches"
)

// StartCollection asks the backend to start a collection job scoped by
// the spec and returns the backend's status message. A second job while
// one runs is refused by the backend with HTTP 409; the client guards
// against issuing that request in the first place (pkg/collector).
func (c *Client) StartCollection(ctx context.Context, spec model.FilterSpec) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.post(ctx, pathStartCollection, spec, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// CollectionStatus reports whether a collection job is running and the
// backend's human-readable progress message.
func (c *Client) CollectionStatus(ctx context.Context) (model.CollectionStatus, error) {
	var status model.CollectionStatus
	err := c.get(ctx, pathCollectionStatus, nil, &status)
	return status, err
}

// Commits fetches the commit list matching the spec, newest first.
func (c *Client) Commits(ctx context.Context, spec model.FilterSpec) ([]model.CommitRecord, error) {
	var commits []model.CommitRecord
	err := c.get(ctx, pathCommits, spec.Query(), &commits)
	return commits, err
}

// DashboardStats fetches the backend-computed aggregate view. The TUI
// derives its own stats from the commit list (pkg/metrics); this
// endpoint backs the robot summary mode.
func (c *Client) DashboardStats(ctx context.Context, spec model.FilterSpec) (model.DashboardStats, error) {
	var stats model.DashboardStats
	err := c.get(ctx, pathDashboardStats, spec.Query(), &stats)
	return stats, err
}

// Hotspots fetches the file-change ranking, already capped to ten and
// sorted descending by the backend.
func (c *Client) Hotspots(ctx context.Context, spec model.FilterSpec) ([]model.Hotspot, error) {
	var hotspots []model.Hotspot
	err := c.get(ctx, pathHotspots, spec.Query(), &hotspots)
	return hotspots, err
}

// Temporal fetches the sparse day/hour bucket list.
func (c *Client) Temporal(ctx context.Context, spec model.FilterSpec) ([]model.TemporalBucket, error) {
	var buckets []model.TemporalBucket
	err := c.get(ctx, pathTemporal, spec.Query(), &buckets)
	return buckets, err
}

// CommitDetail fetches one commit's full LLM evaluation.
func (c *Client) CommitDetail(ctx context.Context, sha string) (model.CommitDetail, error) {
	var detail model.CommitDetail
	err := c.get(ctx, pathCommits+"/"+url.PathEscape(sha)+"/details", nil, &detail)
	return detail, err
}

// Projects lists the projects available for analysis.
func (c *Client) Projects(ctx context.Context) ([]model.ProjectRef, error) {
	var projects []model.ProjectRef
	err := c.get(ctx, pathProjects, nil, &projects)
	return projects, err
}

// Repositories lists the repositories of one project.
func (c *Client) Repositories(ctx context.Context, projectKey string) ([]model.RepositoryRef, error) {
	q := url.Values{}
	q.Set("project_key", projectKey)
	var repos []model.RepositoryRef
	err := c.get(ctx, pathRepositories, q, &repos)
	return repos, err
}

// Branches lists the branches of one repository.
func (c *Client) Branches(ctx context.Context, projectKey, repoName string) ([]model.BranchRef, error) {
	q := url.Values{}
	q.Set("project_key", projectKey)
	q.Set("repo_name", repoName)
	var branches []model.BranchRef
	err := c.get(ctx, pathBranches, q, &branches)
	return branches, err
}
