// Package history defines the audit record of publish runs. The record is
// written for operators and never read back to decide how a run resumes.
package history

import (
	"context"
	"fmt"
	"time"
)

// Run is one recorded publish invocation.
type Run struct {
	// ID is the database row id, zero until first saved.
	ID     int64
	GUID   string
	Target string
	DryRun bool
	// State is the orchestrator state name at the time of saving.
	State string
	// Cursor is the plan index of the last completed step, -1 before the first.
	Cursor     int
	Reason     string
	Packages   []string // the resolved plan
	StartedAt  time.Time
	FinishedAt time.Time // zero while running
	Steps      []Step
}

// Step is the outcome of one package within a run.
type Step struct {
	Position int
	Package  string
	Outcome  string
	Reason   string
	Duration time.Duration
}

// Finished reports whether the run reached a terminal state.
func (r *Run) Finished() bool {
	return !r.FinishedAt.IsZero()
}

// Repository persists runs.
type Repository interface {
	// Save inserts the run when ID is zero and sets ID, otherwise updates it.
	// Steps are replaced wholesale.
	Save(ctx context.Context, run *Run) error
	// FindByGUID returns the run with the given GUID or *RunNotFoundError.
	FindByGUID(ctx context.Context, guid string) (*Run, error)
	// Recent returns up to limit runs, newest first. limit <= 0 returns all.
	Recent(ctx context.Context, limit int) ([]*Run, error)
}

// RunNotFoundError is returned when a run does not exist.
type RunNotFoundError struct {
	GUID string
}

func (e *RunNotFoundError) Error() string {
	return fmt.Sprintf("run not found: %s", e.GUID)
}
