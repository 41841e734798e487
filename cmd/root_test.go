package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/releasetrain/internal/bindings"
	"github.com/zjrosen/releasetrain/internal/cargo"
	"github.com/zjrosen/releasetrain/internal/check"
	"github.com/zjrosen/releasetrain/internal/config"
	"github.com/zjrosen/releasetrain/internal/git"
	"github.com/zjrosen/releasetrain/internal/mocks"
	"github.com/zjrosen/releasetrain/internal/plan"
	"github.com/zjrosen/releasetrain/internal/publish"
	"github.com/zjrosen/releasetrain/internal/registry"
	"github.com/zjrosen/releasetrain/internal/release"
	"github.com/zjrosen/releasetrain/internal/testutil"
	"github.com/zjrosen/releasetrain/internal/version"
	"github.com/zjrosen/releasetrain/internal/workspace"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"usage", usageErrorf("bad flag"), ExitUsage},
		{"unknown package", &workspace.UnknownPackageError{Name: "ghost"}, ExitUsage},
		{"not in plan", fmt.Errorf("resolve: %w", &plan.NotInPlanError{Name: "a"}), ExitUsage},
		{"invalid version", version.Validate("1.0"), ExitUsage},
		{"same version", fmt.Errorf("%w: 1.0.0", version.ErrSameVersion), ExitUsage},
		{"unknown command", errors.New(`unknown command "frob" for "releasetrain"`), ExitUsage},
		{"order violation", &plan.OrderViolation{Package: "b", Missing: []string{"a"}}, ExitValidation},
		{"version mismatch", &version.VersionMismatchError{Expected: "0.1.0", Divergent: map[string]string{"b": "0.0.9"}}, ExitValidation},
		{"bump validation", &version.ValidationError{Problems: []version.Problem{{Path: "README.md", Reason: "file not found"}}}, ExitValidation},
		{"checks failed", &check.FailedError{Checks: []string{check.Git}}, ExitValidation},
		{"prep tests failed", &release.StageError{Stage: release.StageTests, Err: errors.New("cargo test failed")}, ExitValidation},
		{"prep tests interrupted", &release.StageError{Stage: release.StageTests, Err: context.Canceled}, ExitRuntime},
		{"prep check failed", &release.StageError{Stage: release.StageCheck, Err: &check.FailedError{Checks: []string{check.Docs}}}, ExitValidation},
		{"prep bindings crashed", &release.StageError{Stage: release.StageBindings, Err: &bindings.CommandError{Command: []string{"gen"}, ExitCode: 1}}, ExitRuntime},
		{"publish failure", &publish.PublishFailure{Package: "a", Version: "0.1.0", Reason: "403"}, ExitPublish},
		{"interrupted", &release.InterruptedError{ResumeFrom: "b", Err: context.Canceled}, ExitRuntime},
		{"lock held", &release.LockHeldError{Path: "publish.lock", PID: "42"}, ExitRuntime},
		{"io", os.ErrPermission, ExitRuntime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

// fakes holds the collaborators injected into commands.
type fakes struct {
	cargo    *mocks.MockCargoExecutor
	git      *mocks.MockGitExecutor
	lookup   *mocks.MockLookup
	bindings *mocks.MockRunner
}

// setup writes a three package workspace (a <- b <- c, all at 0.1.0) with a
// config file and installs fake collaborators.
func setup(t *testing.T, order ...string) (string, *fakes) {
	t.Helper()
	if len(order) == 0 {
		order = []string{"a", "b", "c"}
	}
	root := t.TempDir()
	cfgs := testutil.NewBuilder(t, afero.NewOsFs(), root).
		WithVersion("0.1.0").
		WithCrate("a", testutil.Kind(config.KindCore)).
		WithCrate("b", testutil.Kind(config.KindBackend), testutil.DependsOn("a")).
		WithCrate("c", testutil.Kind(config.KindApplication), testutil.DependsOn("a", "b")).
		Build()

	pkgs := make([]map[string]any, 0, len(cfgs))
	for _, c := range cfgs {
		pkgs = append(pkgs, map[string]any{"name": c.Name, "path": c.Path, "kind": c.Kind})
	}
	doc := map[string]any{
		"root":     root,
		"packages": pkgs,
		"plan":     order,
		"bump":     map[string]any{"doc_files": []string{}},
		"registry": map[string]any{"wait_seconds": 0},
		"metrics":  map[string]any{"textfile_path": "metrics.prom"},
	}
	data, err := yaml.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(root, config.DirName, config.FileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, data, 0o600))

	f := &fakes{
		cargo:    mocks.NewMockCargoExecutor(t),
		git:      mocks.NewMockGitExecutor(t),
		lookup:   mocks.NewMockLookup(t),
		bindings: mocks.NewMockRunner(t),
	}
	origCargo, origGit, origLookup, origRunner, origSleeper, origTTY := newCargo, newGit, newLookup, newBindingsRunner, newSleeper, stdinIsTerminal
	newCargo = func(string, io.Writer) cargo.CargoExecutor { return f.cargo }
	newGit = func(string) git.GitExecutor { return f.git }
	newLookup = func(cargo.CargoExecutor) registry.Lookup { return f.lookup }
	newBindingsRunner = func(*env) bindings.Runner { return f.bindings }
	newSleeper = func() publish.Sleeper { return func(context.Context, time.Duration) error { return nil } }
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() {
		newCargo, newGit, newLookup, newBindingsRunner, newSleeper, stdinIsTerminal = origCargo, origGit, origLookup, origRunner, origSleeper, origTTY
	})
	return path, f
}

// resetFlags restores every flag of every command to its default.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args against the config at cfgPath.
func execute(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	return run(t, append([]string{"--config", cfgPath}, args...)...)
}

// run runs the root command with args and returns everything it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	bindFlags()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func readManifest(t *testing.T, cfgPath, pkg string) string {
	t.Helper()
	root := filepath.Dir(filepath.Dir(cfgPath))
	data, err := os.ReadFile(filepath.Join(root, pkg, "Cargo.toml"))
	require.NoError(t, err)
	return string(data)
}

func TestBump_DryRunWritesNothing(t *testing.T) {
	cfgPath, _ := setup(t)

	out, err := execute(t, cfgPath, "bump", "0.2.0", "--dry-run")
	require.NoError(t, err)
	require.Contains(t, out, "Would bump 3 packages 0.1.0 -> 0.2.0")
	require.Contains(t, out, `+version = "0.2.0"`)
	require.NotContains(t, out, "Next steps")
	require.Contains(t, readManifest(t, cfgPath, "a"), `version = "0.1.0"`)
}

func TestBump_WritesAndPrintsNextSteps(t *testing.T) {
	cfgPath, _ := setup(t)

	out, err := execute(t, cfgPath, "bump", "0.2.0")
	require.NoError(t, err)
	require.Contains(t, out, "Bumped 3 packages 0.1.0 -> 0.2.0")
	require.Contains(t, out, "Next steps")
	for _, pkg := range []string{"a", "b", "c"} {
		require.Contains(t, readManifest(t, cfgPath, pkg), `version = "0.2.0"`)
	}
}

func TestBump_UsageErrors(t *testing.T) {
	cfgPath, _ := setup(t)

	_, err := execute(t, cfgPath, "bump", "1.0")
	require.Equal(t, ExitUsage, ExitCode(err))

	_, err = execute(t, cfgPath, "bump", "0.1.0")
	require.Equal(t, ExitUsage, ExitCode(err))

	_, err = execute(t, cfgPath, "bump")
	require.Equal(t, ExitUsage, ExitCode(err))

	_, err = execute(t, cfgPath, "bump", "0.2.0", "--crates", "ghost")
	require.Equal(t, ExitUsage, ExitCode(err))

	_, err = execute(t, cfgPath, "bump", "0.2.0", "--no-such-flag")
	require.Equal(t, ExitUsage, ExitCode(err))
}

func TestBump_VersionMismatch(t *testing.T) {
	cfgPath, _ := setup(t)

	_, err := execute(t, cfgPath, "bump", "0.2.0", "--old-version", "0.0.9")
	var mismatch *version.VersionMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, ExitValidation, ExitCode(err))
}

func TestPlan_JSON(t *testing.T) {
	cfgPath, _ := setup(t)

	out, err := execute(t, cfgPath, "plan", "--json")
	require.NoError(t, err)

	var decoded struct {
		Valid    bool     `json:"valid"`
		Packages []string `json:"packages"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.True(t, decoded.Valid)
	require.Equal(t, []string{"a", "b", "c"}, decoded.Packages)
}

func TestPlan_OrderViolation(t *testing.T) {
	cfgPath, _ := setup(t, "b", "a", "c")

	out, err := execute(t, cfgPath, "plan")
	require.Equal(t, ExitValidation, ExitCode(err))
	require.Contains(t, out, "Publish plan (3 packages)")
}

func TestPlanSet(t *testing.T) {
	cfgPath, _ := setup(t)

	_, err := execute(t, cfgPath, "plan", "set", "b", "a")
	require.Equal(t, ExitValidation, ExitCode(err), "invalid orders are not saved")

	out, err := execute(t, cfgPath, "plan", "set", "a", "b")
	require.NoError(t, err)
	require.Contains(t, out, "Saved 2 packages")

	out, err = execute(t, cfgPath, "plan", "--json")
	require.NoError(t, err)
	var decoded struct {
		Packages []string `json:"packages"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Equal(t, []string{"a", "b"}, decoded.Packages)
}

func TestCheck_SkipFlags(t *testing.T) {
	cfgPath, _ := setup(t)

	out, err := execute(t, cfgPath, "check", "--skip-git", "--skip-lockfile", "--skip-docs", "--skip-tests")
	require.NoError(t, err)
	require.Contains(t, out, "versions")
	require.Contains(t, out, "2 checks passed")
}

func TestCheck_FailureExitCode(t *testing.T) {
	cfgPath, f := setup(t)
	f.git.EXPECT().IsGitRepo(mock.Anything).Return(true)
	f.git.EXPECT().Status(mock.Anything).Return([]git.StatusEntry{{Code: " M", Path: "a/src/lib.rs"}}, nil)

	out, err := execute(t, cfgPath, "check", "--skip-lockfile", "--skip-docs", "--skip-tests", "--json")
	require.Equal(t, ExitValidation, ExitCode(err))

	var decoded struct {
		Passed bool `json:"passed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.False(t, decoded.Passed)
}

func TestPublish_DryRunRecordsHistory(t *testing.T) {
	cfgPath, f := setup(t)
	f.lookup.EXPECT().IsPublished(mock.Anything, "a", "0.1.0").Return(true, nil).Once()
	f.lookup.EXPECT().IsPublished(mock.Anything, "b", "0.1.0").Return(false, nil).Once()
	f.lookup.EXPECT().IsPublished(mock.Anything, "c", "0.1.0").Return(false, nil).Once()

	out, err := execute(t, cfgPath, "publish", "--dry-run", "--skip-checks")
	require.NoError(t, err)
	require.Contains(t, out, "Publishing order:")
	require.Contains(t, out, "Dry run complete: 2 would publish, 1 already published")
	require.Contains(t, out, "already-published")

	root := filepath.Dir(filepath.Dir(cfgPath))
	require.NoFileExists(t, filepath.Join(root, config.DirName, config.LockFile), "dry runs take no lock")
	metricsText, err := os.ReadFile(filepath.Join(root, "metrics.prom"))
	require.NoError(t, err)
	require.Contains(t, string(metricsText), `releasetrain_packages_total{outcome="would-publish"} 2`)

	out, err = execute(t, cfgPath, "history", "--json")
	require.NoError(t, err)
	var runs []struct {
		State  string `json:"state"`
		DryRun bool   `json:"dry_run"`
		Steps  []any  `json:"steps"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	require.Equal(t, "completed", runs[0].State)
	require.True(t, runs[0].DryRun)
	require.Len(t, runs[0].Steps, 3)
}

func TestPublish_FailureNamesResumePoint(t *testing.T) {
	cfgPath, f := setup(t)
	f.lookup.EXPECT().IsPublished(mock.Anything, "a", "0.1.0").Return(true, nil).Once()
	f.lookup.EXPECT().IsPublished(mock.Anything, "b", "0.1.0").Return(false, nil).Once()
	f.cargo.EXPECT().Publish(mock.Anything, cargo.PublishOptions{Package: "b"}).
		Return(&cargo.CommandError{Args: []string{"publish", "-p", "b"}, ExitCode: 101, Stderr: "error: 403 Forbidden"}).Once()

	out, err := execute(t, cfgPath, "publish", "--skip-checks", "--yes")
	require.Equal(t, ExitPublish, ExitCode(err))
	require.Contains(t, out, "Release halted")
	require.Contains(t, out, "releasetrain publish --start-from b")

	root := filepath.Dir(filepath.Dir(cfgPath))
	require.NoFileExists(t, filepath.Join(root, config.DirName, config.LockFile), "lock is released")
}

func TestPublish_ResumeWithStartFrom(t *testing.T) {
	cfgPath, f := setup(t)
	f.lookup.EXPECT().IsPublished(mock.Anything, "c", "0.1.0").Return(false, nil).Once()
	f.cargo.EXPECT().Publish(mock.Anything, cargo.PublishOptions{Package: "c", NoVerify: true}).Return(nil).Once()
	f.lookup.EXPECT().Invalidate(mock.Anything, "c").Return().Once()

	out, err := execute(t, cfgPath, "publish", "--skip-checks", "--start-from", "c", "--no-verify")
	require.NoError(t, err)
	require.Contains(t, out, "1 published")
}

func TestPublish_LockHeld(t *testing.T) {
	cfgPath, _ := setup(t)
	root := filepath.Dir(filepath.Dir(cfgPath))
	require.NoError(t, os.WriteFile(filepath.Join(root, config.DirName, config.LockFile), []byte("4242\n"), 0o600))

	_, err := execute(t, cfgPath, "publish", "--skip-checks")
	var held *release.LockHeldError
	require.ErrorAs(t, err, &held)
	require.Equal(t, ExitRuntime, ExitCode(err))
	require.Contains(t, err.Error(), "pid 4242")
}

func TestPublish_UsageErrors(t *testing.T) {
	cfgPath, _ := setup(t)

	_, err := execute(t, cfgPath, "publish", "--crates", "ghost")
	require.Equal(t, ExitUsage, ExitCode(err))

	_, err = execute(t, cfgPath, "publish", "--crates", "a", "--start-from", "c")
	require.Equal(t, ExitUsage, ExitCode(err))

	_, err = execute(t, cfgPath, "publish", "--wait", "-1")
	require.Equal(t, ExitUsage, ExitCode(err))
}

func TestPublish_OrderViolationHaltsBeforePublishing(t *testing.T) {
	cfgPath, _ := setup(t, "b", "a", "c")

	_, err := execute(t, cfgPath, "publish", "--dry-run")
	var violation *plan.OrderViolation
	require.ErrorAs(t, err, &violation)
	require.Equal(t, ExitValidation, ExitCode(err))
}

func TestBindings(t *testing.T) {
	cfgPath, f := setup(t)
	f.bindings.EXPECT().Run(mock.Anything, bindings.Request{
		Crates:     []string{"a"},
		Profile:    bindings.ProfileDebug,
		Submodules: bindings.SubmodulesSkip,
	}).Return(nil).Once()

	out, err := execute(t, cfgPath, "bindings", "--crates", "a", "--profile", "debug")
	require.NoError(t, err)
	require.Contains(t, out, "Bindings regenerated")

	_, err = execute(t, cfgPath, "bindings", "--profile", "fast")
	require.Equal(t, ExitUsage, ExitCode(err))
}

func TestReleasePrep_StopsAtFailingTests(t *testing.T) {
	cfgPath, f := setup(t)
	f.bindings.EXPECT().Run(mock.Anything, mock.Anything).Return(nil).Once()
	f.cargo.EXPECT().Test(mock.Anything).Return(errors.New("cargo test --workspace --lib failed (exit 101)")).Once()

	out, err := execute(t, cfgPath, "release-prep", "0.2.0")
	require.Equal(t, ExitValidation, ExitCode(err))
	require.Contains(t, out, "release-prep stopped at tests")
	require.Contains(t, readManifest(t, cfgPath, "b"), `version = "0.2.0"`, "the bump is kept")
}

func TestInit(t *testing.T) {
	cfgPath, _ := setup(t)
	root := filepath.Dir(filepath.Dir(cfgPath))
	out, err := execute(t, cfgPath, "init", "--root", root, "--force")
	require.NoError(t, err)
	require.Contains(t, out, "Wrote "+cfgPath)

	_, err = execute(t, cfgPath, "init", "--root", root)
	require.Equal(t, ExitUsage, ExitCode(err))
}

// gitCommitAll turns dir into a repository with everything committed.
func gitCommitAll(t *testing.T, dir string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	for _, args := range [][]string{
		{"init", "-q"},
		{"add", "-A"},
		{"-c", "user.name=test", "-c", "user.email=test@example.com", "commit", "-q", "-m", "release"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
}

func TestPublish_StateFilesKeepTreeClean(t *testing.T) {
	cfgPath, f := setup(t)
	root := filepath.Dir(filepath.Dir(cfgPath))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("metrics.prom\n"), 0o600))
	gitCommitAll(t, root)
	newGit = func(dir string) git.GitExecutor { return git.NewRealExecutor(dir) }
	f.lookup.EXPECT().IsPublished(mock.Anything, mock.Anything, "0.1.0").Return(true, nil)

	// The dry run leaves the history database behind.
	_, err := execute(t, cfgPath, "publish", "--dry-run", "--skip-checks")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(root, config.DirName, config.HistoryFile))

	out, err := execute(t, cfgPath, "publish", "--yes", "--skip-lockfile", "--skip-docs", "--skip-tests")
	require.NoError(t, err, out)
	require.Contains(t, out, "Release complete: 0 published, 3 already published")
}

func TestConfigLookupFollowsRoot(t *testing.T) {
	cfgPath, _ := setup(t)
	root := filepath.Dir(filepath.Dir(cfgPath))

	out, err := run(t, "--root", root, "plan", "--json")
	require.NoError(t, err)
	var decoded struct {
		Packages []string `json:"packages"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Equal(t, []string{"a", "b", "c"}, decoded.Packages)
}
