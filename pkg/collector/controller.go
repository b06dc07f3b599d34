// Package collector tracks the lifecycle of the backend collection job:
// starting it, folding in polled status reports, and deciding when the
// running→idle transition should refresh the dependent views.
//
// The Controller is a plain state machine with no I/O of its own. The UI
// event loop owns the timer and the HTTP calls; it feeds results back in
// through Start/StartFailed/Observe. That keeps the transition semantics
// — the single-job guard and the edge-triggered refresh — directly
// testable without a backend.
package collector

import (
	"errors"
	"time"

	"github.com/commitpulse/commitpulse/pkg/model"
)

// PollInterval is the fixed status-poll cadence. Collection jobs run for
// minutes; a fixed 5 s period keeps perceived latency predictable where
// backoff would not.
const PollInterval = 5 * time.Second

// ErrJobRunning is returned by Start while a job is already tracked as
// running. There is no queue: the caller simply may not start a second
// job until the current one settles.
var ErrJobRunning = errors.New("collector: a collection job is already running")

// State is the controller's job-tracking state.
type State int

const (
	// Idle is the initial and terminal-resting state.
	Idle State = iota
	// Requested means Start succeeded locally and the backend call is in
	// flight or accepted; polling has not yet confirmed the job.
	Requested
	// Running means the most recent poll reported an active job.
	Running
)

func (s State) String() string {
	switch s {
	case Requested:
		return "requested"
	case Running:
		return "running"
	default:
		return "idle"
	}
}

// Controller drives one logical collection job at a time.
//
// The previous-poll flag and the last-submitted spec are explicit fields
// here rather than hidden globals: Observe updates both atomically with
// each poll, which is exactly what the edge detection needs.
type Controller struct {
	state       State
	prevRunning bool
	message     string

	lastSpec model.FilterSpec
	hasSpec  bool
}

// New returns a Controller in the Idle state with no spec on record.
func New() *Controller {
	return &Controller{}
}

// Start registers a new job for the given spec. While a job is tracked
// as running it returns ErrJobRunning and changes nothing. On success
// the controller moves to Requested and retains the spec for the
// eventual completion refresh.
//
// Start does not touch the previous-poll flag: the refresh edge is
// defined purely over polled statuses, so an idle report before the
// poller has ever seen the job running fires nothing. The caller is
// expected to follow a nil return with the backend start request and an
// optimistic first fetch for the same spec, which covers the job that
// finishes faster than the first poll.
func (c *Controller) Start(spec model.FilterSpec) error {
	if c.state != Idle {
		return ErrJobRunning
	}
	c.state = Requested
	c.lastSpec = spec
	c.hasSpec = true
	c.message = "Collection requested..."
	return nil
}

// StartSucceeded records the backend's acknowledgement message. The
// state stays Requested; polling will observe Running or Idle.
func (c *Controller) StartSucceeded(message string) {
	if message != "" {
		c.message = message
	}
}

// StartFailed reverts a failed start to Idle so the user can retry.
func (c *Controller) StartFailed(err error) {
	c.state = Idle
	if err != nil {
		c.message = err.Error()
	}
}

// Observe folds one polled status into the controller and reports
// whether the dependent views should refresh now. A refresh fires only
// on the running→idle transition, and only when a spec is on record; a
// poll that reports idle after an idle poll — first load, or no job ever
// started — fires nothing.
func (c *Controller) Observe(status model.CollectionStatus) (refresh bool) {
	refresh = c.prevRunning && !status.IsRunning && c.hasSpec

	c.prevRunning = status.IsRunning
	if status.Message != "" {
		c.message = status.Message
	}
	if status.IsRunning {
		c.state = Running
	} else {
		c.state = Idle
	}
	return refresh
}

// State returns the current job-tracking state.
func (c *Controller) State() State { return c.state }

// Busy reports whether starting another job would be refused.
func (c *Controller) Busy() bool { return c.state != Idle }

// Message returns the latest status message, verbatim from the backend
// when one has been received.
func (c *Controller) Message() string { return c.message }

// LastSpec returns the spec that initiated the tracked job, and whether
// any job was ever started.
func (c *Controller) LastSpec() (model.FilterSpec, bool) {
	return c.lastSpec, c.hasSpec
}
