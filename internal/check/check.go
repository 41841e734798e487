// Package check implements the pre-publish validation suite. Every enabled
// check runs and reports, and the aggregate fails if any one failed.
package check

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/zjrosen/releasetrain/internal/config"
)

// Check names, in run order.
const (
	Versions  = "versions"
	Artifacts = "artifacts"
	Git       = "git"
	Lockfile  = "lockfile"
	Docs      = "docs"
	Tests     = "tests"
)

// Names lists every check in run order.
var Names = []string{Versions, Artifacts, Git, Lockfile, Docs, Tests}

// Status is the outcome of one check.
type Status string

const (
	Pass    Status = "pass"
	Fail    Status = "fail"
	Skipped Status = "skipped"
)

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Detail   string        `json:"detail,omitempty"`
	Problems []string      `json:"problems,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Result aggregates every check of one run.
type Result struct {
	Checks []CheckResult `json:"checks"`
}

// Passed reports whether no check failed. Skipped checks do not fail the run.
func (r *Result) Passed() bool {
	return len(r.Failures()) == 0
}

// Failures returns the failed checks.
func (r *Result) Failures() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if c.Status == Fail {
			out = append(out, c)
		}
	}
	return out
}

// Get returns the named check result.
func (r *Result) Get(name string) (CheckResult, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return CheckResult{}, false
}

// Count returns how many checks ended with status s.
func (r *Result) Count(s Status) int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == s {
			n++
		}
	}
	return n
}

// Err returns a *FailedError naming the failed checks, or nil.
func (r *Result) Err() error {
	failures := r.Failures()
	if len(failures) == 0 {
		return nil
	}
	names := make([]string, 0, len(failures))
	for _, c := range failures {
		names = append(names, c.Name)
	}
	return &FailedError{Checks: names}
}

// FailedError is returned when the aggregate validation failed.
type FailedError struct {
	Checks []string
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("pre-publish validation failed: %s", strings.Join(e.Checks, ", "))
}

// Doc build scopes.
const (
	DocScopeSys = "sys"
	DocScopeAll = "all"
)

// Options selects and tunes checks.
type Options struct {
	Skip map[string]bool
	// ExpectedVersion, when set, must equal every package's version.
	ExpectedVersion string

	ArtifactPath     string
	MinArtifactBytes int64
	OfflineEnv       string
	DocScope         string
}

// OptionsFromConfig builds Options from the checks configuration.
func OptionsFromConfig(c config.ChecksConfig) Options {
	opts := Options{
		Skip:             make(map[string]bool),
		ArtifactPath:     c.ArtifactPath,
		MinArtifactBytes: c.MinArtifactBytes,
		OfflineEnv:       c.OfflineEnv,
		DocScope:         c.DocScope,
	}
	for name, skip := range map[string]bool{
		Versions:  c.SkipVersions,
		Artifacts: c.SkipArtifacts,
		Git:       c.SkipGit,
		Lockfile:  c.SkipLockfile,
		Docs:      c.SkipDocs,
		Tests:     c.SkipTests,
	} {
		if skip {
			opts.Skip[name] = true
		}
	}
	return opts
}

// SkipCheck marks name as skipped. Unknown names are an error.
func (o *Options) SkipCheck(name string) error {
	if !slices.Contains(Names, name) {
		return fmt.Errorf("unknown check %q (known: %s)", name, strings.Join(Names, ", "))
	}
	if o.Skip == nil {
		o.Skip = make(map[string]bool)
	}
	o.Skip[name] = true
	return nil
}
