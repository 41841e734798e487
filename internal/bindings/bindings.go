// Package bindings regenerates the pregenerated FFI bindings by invoking the
// workspace's external generator script.
package bindings

import (
	"context"
	"fmt"
	"strings"
)

// Profiles accepted by the generator.
const (
	ProfileDebug   = "debug"
	ProfileRelease = "release"
)

// Submodule handling modes.
const (
	SubmodulesAuto   = "auto"
	SubmodulesUpdate = "update"
	SubmodulesSkip   = "skip"
)

// Request describes one regeneration.
type Request struct {
	// Crates limits regeneration to these packages. Empty means all.
	Crates     []string
	Profile    string
	Submodules string
	DryRun     bool
}

// Validate checks the profile and submodule mode.
func (r Request) Validate() error {
	switch r.Profile {
	case ProfileDebug, ProfileRelease:
	default:
		return fmt.Errorf("invalid profile %q (want %s or %s)", r.Profile, ProfileDebug, ProfileRelease)
	}
	switch r.Submodules {
	case SubmodulesAuto, SubmodulesUpdate, SubmodulesSkip:
	default:
		return fmt.Errorf("invalid submodules mode %q (want auto, update or skip)", r.Submodules)
	}
	return nil
}

// Args renders the request as generator arguments.
func (r Request) Args() []string {
	crates := "all"
	if len(r.Crates) > 0 {
		crates = strings.Join(r.Crates, ",")
	}
	args := []string{"--crates", crates, "--profile", r.Profile, "--submodules", r.Submodules}
	if r.DryRun {
		args = append(args, "--dry-run")
	}
	return args
}

// Runner regenerates bindings.
type Runner interface {
	Run(ctx context.Context, req Request) error
}

// CommandError reports a failed generator run.
type CommandError struct {
	Command  []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("binding generator %s failed", strings.Join(e.Command, " "))
	if e.ExitCode != 0 {
		msg += fmt.Sprintf(" (exit %d)", e.ExitCode)
	}
	if tail := lastLine(e.Stderr); tail != "" {
		msg += ": " + tail
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
