// This file implements the analysis filter form: cascading project →
// repository → branch selection backed by the reference-data endpoints,
// plus author and date-range inputs.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/commitpulse/commitpulse/pkg/config"
	"github.com/commitpulse/commitpulse/pkg/model"
)

const dateLayout = "2006-01-02"

type filterField int

const (
	fieldProject filterField = iota
	fieldRepo
	fieldBranch
	fieldAuthor
	fieldSince
	fieldUntil
	fieldCount
)

// formAction tells the root model what a form update requires of it.
type formAction int

const (
	formActionNone formAction = iota
	// formActionLoadRepos fires when the project selection changed; the
	// repository and branch lists are stale and must be refetched.
	formActionLoadRepos
	// formActionLoadBranches fires when the repository selection changed.
	formActionLoadBranches
	// formActionSubmit fires on enter with a valid spec.
	formActionSubmit
)

// filterForm is the analysis scope form. Project, repository and branch
// are pick-lists fed by the backend's reference data; author and dates
// are free text. The form never mutates a submitted spec — Spec() builds
// a fresh one on every submit.
type filterForm struct {
	theme Theme
	focus filterField

	projects   []model.ProjectRef
	projectIdx int
	repos      []model.RepositoryRef
	repoIdx    int
	branches   []string
	branchIdx  int

	loadingProjects bool
	loadingRepos    bool
	loadingBranches bool

	author textinput.Model
	since  textinput.Model
	until  textinput.Model

	errText string
}

func newFilterForm(theme Theme, defaults config.FilterConfig) filterForm {
	lookback := defaults.LookbackDays
	if lookback < 1 {
		lookback = 7
	}
	now := time.Now()

	author := textinput.New()
	author.Placeholder = "any author"
	author.CharLimit = 120
	author.SetValue(defaults.AuthorEmail)

	since := textinput.New()
	since.Placeholder = dateLayout
	since.CharLimit = len(dateLayout)
	since.SetValue(now.AddDate(0, 0, -lookback).Format(dateLayout))

	until := textinput.New()
	until.Placeholder = dateLayout
	until.CharLimit = len(dateLayout)
	until.SetValue(now.Format(dateLayout))

	f := filterForm{
		theme:           theme,
		branches:        []string{model.BranchAll},
		loadingProjects: true,
		author:          author,
		since:           since,
		until:           until,
	}
	f.setFocus(fieldProject)
	return f
}

// SetProjects installs the project list, keeping a previously chosen key
// selected when it is still present.
func (f *filterForm) SetProjects(projects []model.ProjectRef, preferredKey string) {
	f.projects = projects
	f.loadingProjects = false
	f.projectIdx = 0
	for i, p := range projects {
		if p.Key == preferredKey {
			f.projectIdx = i
			break
		}
	}
	f.repos = nil
	f.repoIdx = 0
	f.resetBranches()
}

// SetRepositories installs the repository list for the current project.
func (f *filterForm) SetRepositories(projectKey string, repos []model.RepositoryRef, preferredName string) {
	if projectKey != f.SelectedProject() {
		return // stale response from a superseded selection
	}
	f.repos = repos
	f.loadingRepos = false
	f.repoIdx = 0
	for i, r := range repos {
		if r.Name == preferredName {
			f.repoIdx = i
			break
		}
	}
	f.resetBranches()
}

// SetBranches installs the branch list for the current repository. The
// wildcard entry is always first.
func (f *filterForm) SetBranches(repoName string, branches []model.BranchRef, preferredName string) {
	if repoName != f.SelectedRepo() {
		return
	}
	f.branches = make([]string, 0, len(branches)+1)
	f.branches = append(f.branches, model.BranchAll)
	for _, b := range branches {
		f.branches = append(f.branches, b.Name)
	}
	f.loadingBranches = false
	f.branchIdx = 0
	for i, name := range f.branches {
		if name == preferredName {
			f.branchIdx = i
			break
		}
	}
}

func (f *filterForm) resetBranches() {
	f.branches = []string{model.BranchAll}
	f.branchIdx = 0
}

// SelectedProject returns the focused project key, or "" before the
// reference data has loaded.
func (f *filterForm) SelectedProject() string {
	if f.projectIdx >= len(f.projects) {
		return ""
	}
	return f.projects[f.projectIdx].Key
}

// SelectedRepo returns the focused repository name.
func (f *filterForm) SelectedRepo() string {
	if f.repoIdx >= len(f.repos) {
		return ""
	}
	return f.repos[f.repoIdx].Name
}

func (f *filterForm) selectedBranch() string {
	if f.branchIdx >= len(f.branches) {
		return model.BranchAll
	}
	return f.branches[f.branchIdx]
}

// Spec builds and validates a fresh FilterSpec from the current inputs.
func (f *filterForm) Spec() (model.FilterSpec, error) {
	since, err := time.ParseInLocation(dateLayout, strings.TrimSpace(f.since.Value()), time.Local)
	if err != nil {
		return model.FilterSpec{}, fmt.Errorf("since: want %s", dateLayout)
	}
	until, err := time.ParseInLocation(dateLayout, strings.TrimSpace(f.until.Value()), time.Local)
	if err != nil {
		return model.FilterSpec{}, fmt.Errorf("until: want %s", dateLayout)
	}
	spec := model.NewFilterSpec(
		f.SelectedProject(),
		f.SelectedRepo(),
		f.selectedBranch(),
		strings.TrimSpace(f.author.Value()),
		since, until,
	)
	if err := spec.Validate(); err != nil {
		return model.FilterSpec{}, err
	}
	return spec, nil
}

func (f *filterForm) setFocus(field filterField) {
	f.focus = field
	f.author.Blur()
	f.since.Blur()
	f.until.Blur()
	switch field {
	case fieldAuthor:
		f.author.Focus()
	case fieldSince:
		f.since.Focus()
	case fieldUntil:
		f.until.Focus()
	}
}

// Update handles one key event. The returned action tells the caller
// which reference data to (re)load or that the form was submitted.
func (f filterForm) Update(msg tea.Msg) (filterForm, tea.Cmd, formAction) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil, formActionNone
	}

	switch key.String() {
	case "tab", "down":
		f.setFocus((f.focus + 1) % fieldCount)
		return f, nil, formActionNone
	case "shift+tab", "up":
		f.setFocus((f.focus + fieldCount - 1) % fieldCount)
		return f, nil, formActionNone
	case "left", "right":
		if action := f.cycle(key.String() == "right"); action != formActionNone {
			return f, nil, action
		}
	case "enter":
		if _, err := f.Spec(); err != nil {
			f.errText = err.Error()
			return f, nil, formActionNone
		}
		f.errText = ""
		return f, nil, formActionSubmit
	}

	if input := f.focusedInput(); input != nil {
		updated, cmd := input.Update(msg)
		*input = updated
		return f, cmd, formActionNone
	}
	return f, nil, formActionNone
}

func (f *filterForm) focusedInput() *textinput.Model {
	switch f.focus {
	case fieldAuthor:
		return &f.author
	case fieldSince:
		return &f.since
	case fieldUntil:
		return &f.until
	}
	return nil
}

// cycle moves a pick-list selection and reports which downstream data is
// now stale.
func (f *filterForm) cycle(forward bool) formAction {
	step := func(idx, size int) int {
		if size == 0 {
			return 0
		}
		if forward {
			return (idx + 1) % size
		}
		return (idx + size - 1) % size
	}
	switch f.focus {
	case fieldProject:
		if len(f.projects) < 2 {
			return formActionNone
		}
		f.projectIdx = step(f.projectIdx, len(f.projects))
		f.repos = nil
		f.repoIdx = 0
		f.resetBranches()
		f.loadingRepos = true
		return formActionLoadRepos
	case fieldRepo:
		if len(f.repos) < 2 {
			return formActionNone
		}
		f.repoIdx = step(f.repoIdx, len(f.repos))
		f.resetBranches()
		f.loadingBranches = true
		return formActionLoadBranches
	case fieldBranch:
		f.branchIdx = step(f.branchIdx, len(f.branches))
	}
	return formActionNone
}

func (f filterForm) View(width int) string {
	label := func(field filterField, name string) string {
		if f.focus == field {
			return f.theme.PrimaryBold.Render("▸ " + name)
		}
		return f.theme.MutedText.Render("  " + name)
	}
	pick := func(value string, loading bool) string {
		if loading {
			return f.theme.MutedText.Render("loading…")
		}
		if value == "" {
			return f.theme.MutedText.Render("—")
		}
		return f.theme.Base.Render("◂ " + value + " ▸")
	}

	var b strings.Builder
	b.WriteString(f.theme.Header.Render("Analysis scope") + "\n\n")
	b.WriteString(fmt.Sprintf("%s  %s\n", padRight(label(fieldProject, "Project"), 16), pick(f.SelectedProject(), f.loadingProjects)))
	b.WriteString(fmt.Sprintf("%s  %s\n", padRight(label(fieldRepo, "Repository"), 16), pick(f.SelectedRepo(), f.loadingRepos)))
	b.WriteString(fmt.Sprintf("%s  %s\n", padRight(label(fieldBranch, "Branch"), 16), pick(f.selectedBranch(), f.loadingBranches)))
	b.WriteString(fmt.Sprintf("%s  %s\n", padRight(label(fieldAuthor, "Author email"), 16), f.author.View()))
	b.WriteString(fmt.Sprintf("%s  %s\n", padRight(label(fieldSince, "Since"), 16), f.since.View()))
	b.WriteString(fmt.Sprintf("%s  %s\n", padRight(label(fieldUntil, "Until"), 16), f.until.View()))

	if f.errText != "" {
		b.WriteString("\n" + f.theme.DangerText.Render(f.errText) + "\n")
	}
	b.WriteString("\n" + f.theme.MutedText.Render("tab/shift+tab move · ←/→ pick · enter analyze") + "\n")

	return lipgloss.NewStyle().MaxWidth(width).Render(b.String())
}
