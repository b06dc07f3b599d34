package ui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/commitpulse/commitpulse/internal/api"
	"github.com/commitpulse/commitpulse/pkg/config"
	"github.com/commitpulse/commitpulse/pkg/model"
	"github.com/commitpulse/commitpulse/pkg/testutil"
)

// newTestModel builds a root model whose client points at a dead address.
// Tests never execute the returned commands, so no request is ever made.
func newTestModel() Model {
	return NewModel(api.New("http://127.0.0.1:0"), config.DefaultConfig(), nil)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out, cmd
}

func testSnap() model.Snapshot {
	g := testutil.NewDefault()
	return g.Snapshot(g.Commits(5, time.Hour))
}

func TestSnapshotInstalled(t *testing.T) {
	m := newTestModel()

	m, _ = update(t, m, snapshotMsg{gen: 0, snap: testSnap()})
	if !m.hasSnap {
		t.Fatal("snapshot not installed")
	}
	if got := len(m.commitTable.Rows()); got != 5 {
		t.Errorf("commit table rows = %d, want 5", got)
	}
}

func TestStaleSnapshotDropped(t *testing.T) {
	m := newTestModel()
	m.gen = 2

	m, _ = update(t, m, snapshotMsg{gen: 1, snap: testSnap()})
	if m.hasSnap {
		t.Error("snapshot from a torn-down context was installed")
	}
}

func TestSnapshotErrorResetsWorkingSet(t *testing.T) {
	m := newTestModel()
	m, _ = update(t, m, snapshotMsg{gen: 0, snap: testSnap()})

	m, _ = update(t, m, snapshotMsg{gen: 0, err: errors.New("backend down")})
	if m.hasSnap || len(m.snap.Commits) != 0 {
		t.Error("failed refresh left stale view data in place")
	}
	if got := len(m.commitTable.Rows()); got != 0 {
		t.Errorf("commit table still holds %d stale rows", got)
	}
	if !m.statusIsError {
		t.Error("refresh failure not surfaced")
	}
}

func TestCompletionEdgeTriggersFetch(t *testing.T) {
	m := newTestModel()
	if err := m.ctrl.Start(testutil.Spec()); err != nil {
		t.Fatal(err)
	}

	// Idle before the job was ever seen running: no fetch.
	m, cmd := update(t, m, statusMsg{gen: 0, status: model.CollectionStatus{IsRunning: false}})
	if cmd != nil || m.loadingSnap {
		t.Fatal("idle poll before a running poll triggered a fetch")
	}

	m, cmd = update(t, m, statusMsg{gen: 0, status: model.CollectionStatus{IsRunning: true}})
	if m.loadingSnap {
		t.Fatal("running poll triggered a fetch")
	}

	// The running→idle edge fetches with the spec on record.
	m, cmd = update(t, m, statusMsg{gen: 0, status: model.CollectionStatus{IsRunning: false}})
	if cmd == nil || !m.loadingSnap {
		t.Fatal("completion edge did not trigger a snapshot fetch")
	}
}

func TestStaleStatusDropped(t *testing.T) {
	m := newTestModel()
	if err := m.ctrl.Start(testutil.Spec()); err != nil {
		t.Fatal(err)
	}
	m.ctrl.Observe(model.CollectionStatus{IsRunning: true})
	m.gen = 1

	// An edge reported under the old generation must not refresh.
	m, cmd := update(t, m, statusMsg{gen: 0, status: model.CollectionStatus{IsRunning: false}})
	if cmd != nil || m.loadingSnap {
		t.Error("stale status message triggered a fetch")
	}
}

func TestPollFailureIsSilent(t *testing.T) {
	m := newTestModel()
	m.setStatus("all good")

	m, cmd := update(t, m, statusMsg{gen: 0, err: errors.New("connection refused")})
	if cmd != nil {
		t.Error("poll failure produced a command")
	}
	if m.statusIsError || m.statusText != "all good" {
		t.Errorf("poll failure surfaced to the user: %q", m.statusText)
	}
}

func TestStartResultErrorShownVerbatim(t *testing.T) {
	m := newTestModel()
	if err := m.ctrl.Start(testutil.Spec()); err != nil {
		t.Fatal(err)
	}

	refusal := &api.StatusError{Code: 409, Message: "Collection already in progress"}
	m, _ = update(t, m, startResultMsg{gen: 0, err: refusal})

	if m.statusText != "Collection already in progress" {
		t.Errorf("status = %q, want the backend message verbatim", m.statusText)
	}
	if !m.statusIsError {
		t.Error("refusal not shown as an error")
	}
	if m.ctrl.Busy() {
		t.Error("controller still busy after a refused start")
	}
}

func TestPollTickWithoutPollingIsInert(t *testing.T) {
	m := newTestModel()
	m, cmd := update(t, m, pollTickMsg{})
	if cmd != nil {
		t.Error("tick produced a poll without an armed loop")
	}
	_ = m
}

func TestPollTickReArms(t *testing.T) {
	m := newTestModel()
	m.polling = true
	_, cmd := update(t, m, pollTickMsg{})
	if cmd == nil {
		t.Error("armed loop did not poll and re-arm")
	}
}

func TestDashboardTabKeys(t *testing.T) {
	m := newTestModel()
	m.view = viewDashboard

	m, _ = update(t, m, keyMsg("tab"))
	if m.tab != tabCommits {
		t.Errorf("tab after forward cycle = %v", m.tab)
	}
	m, _ = update(t, m, keyMsg("shift+tab"))
	if m.tab != tabOverview {
		t.Errorf("tab after backward cycle = %v", m.tab)
	}
	m, _ = update(t, m, keyMsg("3"))
	if m.tab != tabHotspots {
		t.Errorf("tab after '3' = %v", m.tab)
	}
	m, _ = update(t, m, keyMsg("shift+tab"))
	if m.tab != tabCommits {
		t.Errorf("backward from hotspots = %v", m.tab)
	}
}

func TestKPIRankToggleKey(t *testing.T) {
	m := newTestModel()
	m.view = viewDashboard

	m, _ = update(t, m, keyMsg("k"))
	if !m.rankByKPI {
		t.Fatal("'k' did not enable KPI ranking")
	}
	m, _ = update(t, m, keyMsg("k"))
	if m.rankByKPI {
		t.Error("'k' did not toggle back to count ranking")
	}
}

func TestExportWithoutSnapshotRefused(t *testing.T) {
	m := newTestModel()
	m.view = viewDashboard

	m, cmd := update(t, m, keyMsg("e"))
	if cmd != nil {
		t.Error("export ran without a snapshot")
	}
	if !m.statusIsError {
		t.Error("no error shown for empty export")
	}
}

func TestSubmitFilterStartsNewContext(t *testing.T) {
	m := newTestModel()
	m.form = loadedForm()
	m.form.since.SetValue("2026-01-03")
	m.form.until.SetValue("2026-01-09")

	m, cmd := update(t, m, keyMsg("enter"))
	if cmd == nil {
		t.Fatalf("submit produced no command, errText = %q", m.form.errText)
	}
	if m.gen != 1 {
		t.Errorf("generation = %d, want 1", m.gen)
	}
	if m.view != viewDashboard {
		t.Error("submit did not switch to the dashboard")
	}
	if !m.polling {
		t.Error("poll loop not armed")
	}
	if !m.ctrl.Busy() {
		t.Error("controller not tracking the new job")
	}

	// A second submit while the job runs is refused locally.
	m.view = viewFilter
	m, _ = update(t, m, keyMsg("enter"))
	if m.gen != 1 {
		t.Errorf("generation after refused submit = %d", m.gen)
	}
	if !m.statusIsError {
		t.Error("refused submit not surfaced")
	}
}

func TestDetailFetchFailureClosesModal(t *testing.T) {
	m := newTestModel()
	modal := newDetailModal(m.theme, "aaa1111")
	m.modal = &modal

	m, _ = update(t, m, detailMsg{sha: "aaa1111", err: errors.New("backend down")})
	if m.modal != nil {
		t.Fatal("modal still open after a failed detail fetch")
	}
	if !m.statusIsError {
		t.Error("detail failure not surfaced on the status line")
	}
}

func TestDetailFailureForAnotherCommitKeepsModal(t *testing.T) {
	m := newTestModel()
	modal := newDetailModal(m.theme, "aaa1111")
	m.modal = &modal

	m, _ = update(t, m, detailMsg{sha: "bbb2222", err: errors.New("backend down")})
	if m.modal == nil {
		t.Error("failure for another commit closed the open modal")
	}
	if m.statusIsError {
		t.Error("stale failure surfaced on the status line")
	}
}

func TestDetailModalDropsMismatchedSha(t *testing.T) {
	modal := newDetailModal(TestTheme(), "aaa1111")

	modal.setResult(detailMsg{sha: "bbb2222", detail: model.CommitDetail{Message: "wrong"}})
	if !modal.loading {
		t.Error("result for another commit was installed")
	}

	modal.setResult(detailMsg{sha: "aaa1111", detail: model.CommitDetail{Message: "right"}})
	if modal.loading || modal.detail.Message != "right" {
		t.Error("matching result not installed")
	}
}
