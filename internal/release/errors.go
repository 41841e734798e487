package release

import (
	"fmt"
	"strings"
)

// InterruptedError is returned when a run is cancelled. The run is halted at
// its cursor and can be resumed from ResumeFrom.
type InterruptedError struct {
	ResumeFrom string
	Err        error
}

func (e *InterruptedError) Error() string {
	if e.ResumeFrom == "" {
		return "release interrupted"
	}
	return fmt.Sprintf("release interrupted; resume with --start-from %s", e.ResumeFrom)
}

func (e *InterruptedError) Unwrap() error { return e.Err }

// Stage is a step of the release-prep flow.
type Stage string

// Prep stages, in order.
const (
	StageBump     Stage = "bump"
	StageBindings Stage = "bindings"
	StageTests    Stage = "tests"
	StageCheck    Stage = "check"
)

// Stages lists the prep stages in run order.
var Stages = []Stage{StageBump, StageBindings, StageTests, StageCheck}

// StageError reports the prep stage that stopped the flow.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("release-prep stopped at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// LockHeldError is returned when another publish holds the lock.
type LockHeldError struct {
	Path string
	PID  string
}

func (e *LockHeldError) Error() string {
	holder := strings.TrimSpace(e.PID)
	if holder == "" {
		holder = "unknown"
	}
	return fmt.Sprintf("another publish is running (lock %s held by pid %s); remove the file if that process is gone", e.Path, holder)
}
