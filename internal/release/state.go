// Package release drives a release: the publish state machine over the
// plan, the release-prep composite flow and the publish lock.
package release

import (
	"fmt"
	"time"

	"github.com/zjrosen/releasetrain/internal/check"
	"github.com/zjrosen/releasetrain/internal/history"
	"github.com/zjrosen/releasetrain/internal/publish"
)

// State is the orchestrator state of a run.
type State string

const (
	NotStarted State = "not-started"
	Validating State = "validating"
	Publishing State = "publishing"
	Completed  State = "completed"
	Halted     State = "halted"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Completed || s == Halted
}

// Run is one publish invocation. It is not persisted for resuming: a new
// invocation re-derives progress from the registry.
type Run struct {
	ID     string
	Target string
	DryRun bool
	// Plan is the resolved, ordered selection of package names.
	Plan []string
	// Start is the plan index publishing began at (non-zero with --start-from).
	Start int
	// Cursor is the plan index of the last completed package, Start-1 before
	// the first one completes.
	Cursor     int
	State      State
	Reason     string
	Steps      []publish.Result
	Checks     *check.Result
	StartedAt  time.Time
	FinishedAt time.Time

	recordID int64
}

// ResumeFrom names the package a later invocation should pass to
// --start-from, or "" when nothing remains.
func (r *Run) ResumeFrom() string {
	next := r.Cursor + 1
	if next < 0 || next >= len(r.Plan) {
		return ""
	}
	return r.Plan[next]
}

// Remaining returns the packages not yet completed.
func (r *Run) Remaining() []string {
	next := max(r.Cursor+1, 0)
	if next >= len(r.Plan) {
		return nil
	}
	return r.Plan[next:]
}

// Count returns how many steps ended with outcome o.
func (r *Run) Count(o publish.Outcome) int {
	n := 0
	for _, s := range r.Steps {
		if s.Outcome == o {
			n++
		}
	}
	return n
}

func (r *Run) String() string {
	return fmt.Sprintf("run %s (%s, %d/%d done)", r.ID, r.State, r.Cursor+1, len(r.Plan))
}

func (r *Run) toHistory() *history.Run {
	h := &history.Run{
		ID:         r.recordID,
		GUID:       r.ID,
		Target:     r.Target,
		DryRun:     r.DryRun,
		State:      string(r.State),
		Cursor:     r.Cursor,
		Reason:     r.Reason,
		Packages:   r.Plan,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
	for i, s := range r.Steps {
		h.Steps = append(h.Steps, history.Step{
			Position: r.Start + i,
			Package:  s.Package,
			Outcome:  string(s.Outcome),
			Reason:   s.Reason,
			Duration: s.Duration,
		})
	}
	return h
}
