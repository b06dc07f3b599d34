// Package ui implements the commitpulse terminal dashboard. This file
// holds the message types and the tea.Cmd constructors that perform all
// backend I/O off the event loop.
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/commitpulse/commitpulse/internal/api"
	"github.com/commitpulse/commitpulse/pkg/collector"
	"github.com/commitpulse/commitpulse/pkg/export"
	"github.com/commitpulse/commitpulse/pkg/model"
	"github.com/commitpulse/commitpulse/pkg/watcher"
)

// Messages carry the generation of the analysis context that issued the
// command. A filter change bumps the generation, so results from a torn
// down context arrive with a stale tag and are dropped instead of
// overwriting the new context's views.
type (
	pollTickMsg struct{}

	statusMsg struct {
		gen    int
		status model.CollectionStatus
		err    error
	}

	snapshotMsg struct {
		gen  int
		snap model.Snapshot
		err  error
	}

	startResultMsg struct {
		gen     int
		message string
		err     error
	}

	detailMsg struct {
		sha    string
		detail model.CommitDetail
		err    error
	}

	projectsMsg struct {
		projects []model.ProjectRef
		err      error
	}

	repositoriesMsg struct {
		projectKey string
		repos      []model.RepositoryRef
		err        error
	}

	branchesMsg struct {
		repoName string
		branches []model.BranchRef
		err      error
	}

	configChangedMsg struct{}

	exportDoneMsg struct {
		path string
		err  error
	}

	copyFlashExpiredMsg struct{}
)

const requestTimeout = 30 * time.Second

// pollTickCmd schedules the next status poll.
func pollTickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = collector.PollInterval
	}
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return pollTickMsg{}
	})
}

func pollStatusCmd(client *api.Client, gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		status, err := client.CollectionStatus(ctx)
		return statusMsg{gen: gen, status: status, err: err}
	}
}

func startCollectionCmd(client *api.Client, gen int, spec model.FilterSpec) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		message, err := client.StartCollection(ctx, spec)
		return startResultMsg{gen: gen, message: message, err: err}
	}
}

func fetchSnapshotCmd(client *api.Client, gen int, spec model.FilterSpec) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		snap, err := client.FetchSnapshot(ctx, spec)
		return snapshotMsg{gen: gen, snap: snap, err: err}
	}
}

func fetchDetailCmd(client *api.Client, sha string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		detail, err := client.CommitDetail(ctx, sha)
		return detailMsg{sha: sha, detail: detail, err: err}
	}
}

func fetchProjectsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		projects, err := client.Projects(ctx)
		return projectsMsg{projects: projects, err: err}
	}
}

func fetchRepositoriesCmd(client *api.Client, projectKey string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		repos, err := client.Repositories(ctx, projectKey)
		return repositoriesMsg{projectKey: projectKey, repos: repos, err: err}
	}
}

func fetchBranchesCmd(client *api.Client, projectKey, repoName string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		branches, err := client.Branches(ctx, projectKey, repoName)
		return branchesMsg{repoName: repoName, branches: branches, err: err}
	}
}

// watchConfigCmd blocks on the watcher's change channel and re-arms
// itself from Update after each delivery.
func watchConfigCmd(w *watcher.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		<-w.Changes()
		return configChangedMsg{}
	}
}

func exportCmd(format, path string, snap model.Snapshot) tea.Cmd {
	return func() tea.Msg {
		err := export.Run(format, path, snap)
		return exportDoneMsg{path: path, err: err}
	}
}

func copyFlashCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return copyFlashExpiredMsg{}
	})
}
