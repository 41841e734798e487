package check

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/zjrosen/releasetrain/internal/cargo"
	"github.com/zjrosen/releasetrain/internal/config"
	"github.com/zjrosen/releasetrain/internal/git"
	"github.com/zjrosen/releasetrain/internal/log"
	"github.com/zjrosen/releasetrain/internal/version"
	"github.com/zjrosen/releasetrain/internal/workspace"
)

// lockfileChange matches a cargo update line that would modify Cargo.lock.
var lockfileChange = regexp.MustCompile(`(?m)^\s*(Updating|Adding|Removing|Downgrading|Upgrading)\s+\S+\s+v\d`)

// maxListed bounds how many offending paths a failure lists.
const maxListed = 10

// Validator runs pre-publish checks against a workspace.
type Validator struct {
	ws    *workspace.Workspace
	cargo cargo.CargoExecutor
	git   git.GitExecutor
	now   func() time.Time
}

// NewValidator creates a Validator.
func NewValidator(ws *workspace.Workspace, c cargo.CargoExecutor, g git.GitExecutor) *Validator {
	return &Validator{ws: ws, cargo: c, git: g, now: time.Now}
}

type checkFunc func(ctx context.Context, pkgs []workspace.Package, opts Options) CheckResult

// Check runs every check not skipped in opts against pkgs. It always returns
// a complete result; use Result.Err for the aggregate verdict.
func (v *Validator) Check(ctx context.Context, pkgs []workspace.Package, opts Options) *Result {
	funcs := map[string]checkFunc{
		Versions:  v.checkVersions,
		Artifacts: v.checkArtifacts,
		Git:       v.checkGit,
		Lockfile:  v.checkLockfile,
		Docs:      v.checkDocs,
		Tests:     v.checkTests,
	}

	result := &Result{}
	for _, name := range Names {
		if opts.Skip[name] {
			log.Info(log.CatCheck, "Check skipped", "check", name)
			result.Checks = append(result.Checks, CheckResult{Name: name, Status: Skipped})
			continue
		}
		if err := ctx.Err(); err != nil {
			result.Checks = append(result.Checks, CheckResult{Name: name, Status: Fail, Detail: "interrupted"})
			continue
		}
		start := v.now()
		res := funcs[name](ctx, pkgs, opts)
		res.Name = name
		res.Duration = v.now().Sub(start)
		if res.Status == Fail {
			log.Warn(log.CatCheck, "Check failed", "check", name, "detail", res.Detail, "problems", len(res.Problems))
		} else {
			log.Info(log.CatCheck, "Check passed", "check", name, "duration", res.Duration)
		}
		result.Checks = append(result.Checks, res)
	}
	return result
}

func failed(detail string, problems ...string) CheckResult {
	return CheckResult{Status: Fail, Detail: detail, Problems: problems}
}

func passed(detail string) CheckResult {
	return CheckResult{Status: Pass, Detail: detail}
}

func (v *Validator) checkVersions(_ context.Context, pkgs []workspace.Package, opts Options) CheckResult {
	if len(pkgs) == 0 {
		return passed("no packages")
	}
	expected := opts.ExpectedVersion
	if expected == "" {
		expected = pkgs[0].Version
	}
	divergent := make(map[string]string)
	for _, p := range pkgs {
		if p.Version != expected {
			divergent[p.Name] = p.Version
		}
	}
	if len(divergent) > 0 {
		err := &version.VersionMismatchError{Expected: expected, Divergent: divergent}
		return failed(err.Error(), sortedPairs(divergent)...)
	}
	return passed(fmt.Sprintf("all %d packages at %s", len(pkgs), expected))
}

func sortedPairs(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k, val := range m {
		out = append(out, k+": "+val)
	}
	slices.Sort(out)
	return out
}

func (v *Validator) checkArtifacts(_ context.Context, pkgs []workspace.Package, opts Options) CheckResult {
	fs := v.ws.Fs()
	var problems []string
	checked := 0
	for _, p := range pkgs {
		if !p.NeedsArtifacts() {
			continue
		}
		paths := p.Artifacts
		if len(paths) == 0 {
			paths = []string{opts.ArtifactPath}
		}
		for _, rel := range paths {
			checked++
			full := v.ws.Path(filepath.Join(p.Dir, rel))
			info, err := fs.Stat(full)
			switch {
			case os.IsNotExist(err):
				problems = append(problems, fmt.Sprintf("%s: missing %s", p.Name, rel))
			case err != nil:
				problems = append(problems, fmt.Sprintf("%s: %s: %v", p.Name, rel, err))
			case info.Size() < opts.MinArtifactBytes:
				problems = append(problems, fmt.Sprintf("%s: %s too small (%d bytes)", p.Name, rel, info.Size()))
			}
		}
	}
	if len(problems) > 0 {
		return failed("generated artifacts missing or incomplete, regenerate bindings", problems...)
	}
	if checked == 0 {
		return passed("no packages need generated artifacts")
	}
	return passed(fmt.Sprintf("%d artifacts present", checked))
}

func (v *Validator) checkGit(ctx context.Context, _ []workspace.Package, _ Options) CheckResult {
	if !v.git.IsGitRepo(ctx) {
		return failed("not a git repository")
	}
	status, err := v.git.Status(ctx)
	if err != nil {
		return failed(fmt.Sprintf("git status failed: %v", err))
	}
	entries := slices.DeleteFunc(status, func(e git.StatusEntry) bool { return isStateFile(e.Path) })
	if len(entries) == 0 {
		return passed("working tree is clean")
	}
	problems := make([]string, 0, min(len(entries), maxListed))
	for i, e := range entries {
		if i == maxListed {
			problems = append(problems, fmt.Sprintf("... and %d more", len(entries)-maxListed))
			break
		}
		problems = append(problems, e.Code+" "+e.Path)
	}
	return failed(fmt.Sprintf("%d uncommitted changes in working tree", len(entries)), problems...)
}

// isStateFile reports whether a status path lies in releasetrain's own state
// directory (history, lock, logs, traces). The config file there is not state.
func isStateFile(path string) bool {
	parts := strings.Split(strings.TrimSuffix(path, "/"), "/")
	for i, p := range parts {
		if p == config.DirName {
			return i != len(parts)-2 || parts[i+1] != config.FileName
		}
	}
	return false
}

func (v *Validator) checkLockfile(ctx context.Context, _ []workspace.Package, _ Options) CheckResult {
	out, err := v.cargo.UpdateDryRun(ctx)
	if err != nil {
		return failed(fmt.Sprintf("cargo update check failed: %v", err))
	}
	if changes := lockfileChange.FindAllString(out, -1); len(changes) > 0 {
		for i := range changes {
			changes[i] = strings.TrimSpace(changes[i])
		}
		return failed("Cargo.lock is outdated, run cargo update", changes...)
	}
	return passed("Cargo.lock is up to date")
}

func (v *Validator) checkDocs(ctx context.Context, pkgs []workspace.Package, opts Options) CheckResult {
	var env []string
	if opts.OfflineEnv != "" {
		env = []string{opts.OfflineEnv + "=1"}
	}
	var problems []string
	built := 0
	for _, p := range pkgs {
		if opts.DocScope != DocScopeAll && !p.NeedsArtifacts() {
			continue
		}
		built++
		if err := v.cargo.Check(ctx, p.Name, env); err != nil {
			if ctx.Err() != nil {
				return failed("interrupted")
			}
			problems = append(problems, fmt.Sprintf("%s: %v", p.Name, err))
		}
	}
	if len(problems) > 0 {
		return failed("offline documentation build failed", problems...)
	}
	return passed(fmt.Sprintf("%d packages build offline", built))
}

func (v *Validator) checkTests(ctx context.Context, _ []workspace.Package, _ Options) CheckResult {
	if err := v.cargo.Test(ctx); err != nil {
		return failed(fmt.Sprintf("tests failed: %v", err))
	}
	return passed("all tests passed")
}
