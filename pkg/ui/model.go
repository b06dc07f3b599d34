// This file implements the root bubbletea model: the filter view, the
// dashboard tabs, the collection poll loop, and teardown between
// analysis contexts.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/commitpulse/commitpulse/internal/api"
	"github.com/commitpulse/commitpulse/pkg/collector"
	"github.com/commitpulse/commitpulse/pkg/config"
	"github.com/commitpulse/commitpulse/pkg/debug"
	"github.com/commitpulse/commitpulse/pkg/export"
	"github.com/commitpulse/commitpulse/pkg/model"
	"github.com/commitpulse/commitpulse/pkg/version"
	"github.com/commitpulse/commitpulse/pkg/watcher"
)

type view int

const (
	viewFilter view = iota
	viewDashboard
)

type tab int

const (
	tabOverview tab = iota
	tabCommits
	tabHotspots
	tabHeatmap
	tabCount
)

func (t tab) String() string {
	switch t {
	case tabCommits:
		return "Commits"
	case tabHotspots:
		return "Hotspots"
	case tabHeatmap:
		return "Heatmap"
	default:
		return "Overview"
	}
}

// Model is the root TUI model.
type Model struct {
	theme   Theme
	client  *api.Client
	cfg     config.Config
	watcher *watcher.Watcher

	view          view
	tab           tab
	width, height int

	form filterForm
	ctrl *collector.Controller

	// gen is the analysis-context generation. Submitting a new filter
	// bumps it; in-flight results tagged with an older generation are
	// dropped on arrival instead of overwriting the new context.
	gen     int
	polling bool

	snap        model.Snapshot
	hasSnap     bool
	loadingSnap bool
	rankByKPI   bool // overview contributor panel ranks by avg KPI instead of count

	commitTable table.Model
	modal       *detailModal

	statusText    string
	statusIsError bool
}

// NewModel builds the root model. The watcher may be nil when config
// watching is disabled.
func NewModel(client *api.Client, cfg config.Config, w *watcher.Watcher) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	return Model{
		theme:       theme,
		client:      client,
		cfg:         cfg,
		watcher:     w,
		view:        viewFilter,
		form:        newFilterForm(theme, cfg.Filter),
		ctrl:        collector.New(),
		commitTable: newCommitTable(theme),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{fetchProjectsCmd(m.client)}
	if cmd := watchConfigCmd(m.watcher); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := msg.Height - 10
		if h < 5 {
			h = 5
		}
		if h > commitTableHeight {
			h = commitTableHeight
		}
		m.commitTable.SetHeight(h)
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)

	case projectsMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("loading projects: %v", msg.err))
			return m, nil
		}
		m.form.SetProjects(msg.projects, m.cfg.Filter.ProjectKey)
		if key := m.form.SelectedProject(); key != "" {
			m.form.loadingRepos = true
			return m, fetchRepositoriesCmd(m.client, key)
		}
		return m, nil

	case repositoriesMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("loading repositories: %v", msg.err))
			return m, nil
		}
		m.form.SetRepositories(msg.projectKey, msg.repos, m.cfg.Filter.RepoName)
		if repo := m.form.SelectedRepo(); repo != "" {
			m.form.loadingBranches = true
			return m, fetchBranchesCmd(m.client, msg.projectKey, repo)
		}
		return m, nil

	case branchesMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("loading branches: %v", msg.err))
			return m, nil
		}
		m.form.SetBranches(msg.repoName, msg.branches, m.cfg.Filter.BranchName)
		return m, nil

	case startResultMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			m.ctrl.StartFailed(msg.err)
			// The backend's message is shown verbatim, 409s included.
			m.setError(msg.err.Error())
			return m, nil
		}
		m.ctrl.StartSucceeded(msg.message)
		m.setStatus(msg.message)
		return m, nil

	case pollTickMsg:
		if !m.polling {
			return m, nil
		}
		return m, tea.Batch(
			pollStatusCmd(m.client, m.gen),
			pollTickCmd(m.cfg.PollInterval()),
		)

	case statusMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if msg.err != nil {
			// Poll failures are logged, never surfaced; the next tick
			// retries at the normal cadence.
			debug.LogErr("status poll", msg.err)
			return m, nil
		}
		refresh := m.ctrl.Observe(msg.status)
		if m.ctrl.Message() != "" {
			m.setStatus(m.ctrl.Message())
		}
		if refresh {
			if spec, ok := m.ctrl.LastSpec(); ok {
				m.loadingSnap = true
				return m, fetchSnapshotCmd(m.client, m.gen, spec)
			}
		}
		return m, nil

	case snapshotMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loadingSnap = false
		if msg.err != nil {
			// A failed cycle resets the views; stale data is never shown.
			m.snap = model.Snapshot{}
			m.hasSnap = false
			m.commitTable.SetRows(nil)
			m.setError(fmt.Sprintf("refresh failed: %v", msg.err))
			return m, nil
		}
		m.snap = msg.snap
		m.hasSnap = true
		m.commitTable.SetRows(commitRows(m.snap.Commits))
		return m, nil

	case detailMsg:
		if m.modal == nil || msg.sha != m.modal.sha {
			return m, nil
		}
		if msg.err != nil {
			// The modal has no retry in place: a failed fetch closes it
			// and the error lands on the status line.
			m.modal = nil
			m.setError(fmt.Sprintf("commit detail: %v", msg.err))
			return m, nil
		}
		m.modal.setResult(msg)
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("export failed: %v", msg.err))
		} else {
			m.setStatus("exported " + msg.path)
		}
		return m, nil

	case configChangedMsg:
		cmds := []tea.Cmd{watchConfigCmd(m.watcher)}
		cfg, err := config.Load()
		if err != nil {
			m.setError(fmt.Sprintf("config reload failed: %v", err))
			return m, tea.Batch(cmds...)
		}
		m.cfg = cfg
		m.client.SetToken(cfg.Backend.Token)
		m.setStatus("configuration reloaded")
		return m, tea.Batch(cmds...)

	case copyFlashExpiredMsg:
		if m.modal != nil {
			m.modal.copied = false
		}
		return m, nil
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The modal swallows everything but its own keys.
	if m.modal != nil {
		switch msg.String() {
		case "esc", "q":
			m.modal = nil
		case "y":
			status := m.modal.copySha()
			m.setStatus(status)
			return m, copyFlashCmd()
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	}

	if m.view == viewFilter {
		return m.updateFilterKeys(msg)
	}
	return m.updateDashboardKeys(msg)
}

func (m Model) updateFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" && m.form.focusedInput() == nil {
		return m, tea.Quit
	}
	if msg.String() == "esc" && m.hasSnap {
		m.view = viewDashboard
		return m, nil
	}

	form, cmd, action := m.form.Update(msg)
	m.form = form
	switch action {
	case formActionLoadRepos:
		return m, tea.Batch(cmd, fetchRepositoriesCmd(m.client, m.form.SelectedProject()))
	case formActionLoadBranches:
		return m, tea.Batch(cmd, fetchBranchesCmd(m.client, m.form.SelectedProject(), m.form.SelectedRepo()))
	case formActionSubmit:
		return m.submitFilter(cmd)
	}
	return m, cmd
}

// submitFilter tears down the previous analysis context and starts a new
// one: generation bump, collection start, and an optimistic first fetch.
func (m Model) submitFilter(prev tea.Cmd) (tea.Model, tea.Cmd) {
	spec, err := m.form.Spec()
	if err != nil {
		m.setError(err.Error())
		return m, prev
	}

	if err := m.ctrl.Start(spec); err != nil {
		m.setError(err.Error())
		return m, prev
	}

	m.gen++
	m.view = viewDashboard
	m.tab = tabOverview
	m.loadingSnap = true
	m.setStatus(m.ctrl.Message())

	cmds := []tea.Cmd{
		prev,
		startCollectionCmd(m.client, m.gen, spec),
		fetchSnapshotCmd(m.client, m.gen, spec),
	}
	if !m.polling {
		m.polling = true
		cmds = append(cmds, pollTickCmd(m.cfg.PollInterval()))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "f", "esc":
		m.view = viewFilter
		return m, nil
	case "tab":
		m.tab = (m.tab + 1) % tabCount
		return m, nil
	case "shift+tab":
		m.tab = (m.tab + tabCount - 1) % tabCount
		return m, nil
	case "1", "2", "3", "4":
		m.tab = tab(int(msg.String()[0] - '1'))
		return m, nil
	case "k":
		m.rankByKPI = !m.rankByKPI
		return m, nil
	case "r":
		if spec, ok := m.ctrl.LastSpec(); ok {
			m.loadingSnap = true
			return m, fetchSnapshotCmd(m.client, m.gen, spec)
		}
		return m, nil
	case "e":
		if !m.hasSnap {
			m.setError("nothing to export yet")
			return m, nil
		}
		path := filepath.Join(exportDir(m.cfg), export.DefaultFileName(m.snap, "svg"))
		m.setStatus("exporting " + path)
		return m, exportCmd("svg", path, m.snap)
	case "enter":
		if m.tab == tabCommits {
			if sha := selectedSha(m.commitTable, m.snap.Commits); sha != "" {
				modal := newDetailModal(m.theme, sha)
				m.modal = &modal
				return m, fetchDetailCmd(m.client, sha)
			}
		}
		return m, nil
	}

	if m.tab == tabCommits {
		var cmd tea.Cmd
		m.commitTable, cmd = m.commitTable.Update(msg)
		return m, cmd
	}
	return m, nil
}

func exportDir(cfg config.Config) string {
	if cfg.Export.Dir != "" {
		return cfg.Export.Dir
	}
	return "."
}

func (m *Model) setStatus(text string) {
	m.statusText = text
	m.statusIsError = false
}

func (m *Model) setError(text string) {
	m.statusText = text
	m.statusIsError = true
}

func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 100
	}
	height := m.height
	if height <= 0 {
		height = 30
	}

	if m.modal != nil {
		return m.modal.View(width, height)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader(width) + "\n\n")

	if m.view == viewFilter {
		b.WriteString(m.form.View(width))
	} else {
		b.WriteString(m.renderTabs() + "\n\n")
		b.WriteString(m.renderContent(width))
	}

	b.WriteString("\n" + m.renderStatusLine(width))
	return b.String()
}

func (m Model) renderHeader(width int) string {
	title := m.theme.Header.Render("cpulse " + version.Version)

	scope := ""
	if m.hasSnap || m.view == viewDashboard {
		if spec, ok := m.ctrl.LastSpec(); ok {
			scope = spec.ProjectKey + "/" + spec.RepoName
			if spec.BranchName != "" && spec.BranchName != model.BranchAll {
				scope += "@" + spec.BranchName
			}
		}
	}

	job := ""
	switch m.ctrl.State() {
	case collector.Requested, collector.Running:
		job = m.theme.WarningText.Render("● collecting")
	default:
		if m.hasSnap {
			job = m.theme.SuccessText.Render("● idle")
		}
	}

	parts := []string{title}
	if scope != "" {
		parts = append(parts, m.theme.SecondaryText.Render(scope))
	}
	if job != "" {
		parts = append(parts, job)
	}
	if m.hasSnap {
		parts = append(parts, m.theme.MutedText.Render("fetched "+FormatTimeRel(m.snap.FetchedAt)))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(parts, "  "))
}

func (m Model) renderTabs() string {
	var parts []string
	for t := tabOverview; t < tabCount; t++ {
		label := fmt.Sprintf("%d %s", int(t)+1, t)
		if t == m.tab {
			parts = append(parts, m.theme.TabOn.Render(label))
		} else {
			parts = append(parts, m.theme.Tab.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderContent(width int) string {
	if !m.hasSnap {
		if m.loadingSnap {
			return m.theme.MutedText.Render("loading working set…")
		}
		return m.theme.MutedText.Render("no data yet — collection in progress")
	}

	switch m.tab {
	case tabCommits:
		return m.commitTable.View()
	case tabHotspots:
		return renderHotspots(m.theme, m.snap.Hotspots, width)
	case tabHeatmap:
		return renderHeatmap(m.theme, m.snap.Temporal, width)
	default:
		return renderOverview(m.theme, m.snap, width, m.rankByKPI)
	}
}

func (m Model) renderStatusLine(width int) string {
	status := m.statusText
	if status == "" {
		status = "ready"
	}
	style := m.theme.MutedText
	if m.statusIsError {
		style = m.theme.DangerText
	}
	line := style.Render(status)
	if m.loadingSnap {
		line += "  " + m.theme.MutedText.Render("(refreshing…)")
	}

	help := "tab switch · enter detail · k kpi rank · r refresh · e export · f filter · q quit"
	if m.view == viewFilter {
		help = "enter analyze · esc dashboard · ctrl+c quit"
	}

	return lipgloss.NewStyle().MaxWidth(width).Render(line) + "\n" + m.theme.MutedText.Render(help)
}
