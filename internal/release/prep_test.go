package release

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/releasetrain/internal/bindings"
	"github.com/zjrosen/releasetrain/internal/check"
	"github.com/zjrosen/releasetrain/internal/mocks"
	"github.com/zjrosen/releasetrain/internal/version"
	"github.com/zjrosen/releasetrain/internal/workspace"
)

type fakeTests struct {
	err   error
	calls int
}

func (f *fakeTests) Test(context.Context) error {
	f.calls++
	return f.err
}

func newPrep(t *testing.T, f *fixture, runner bindings.Runner, tests TestRunner) *Prep {
	t.Helper()
	return NewPrep(PrepConfig{
		Bumper:   version.NewStore(f.ws),
		Bindings: runner,
		Tests:    tests,
		Checker:  f.checker,
		Reload: func() ([]workspace.Package, error) {
			f.reload(t)
			return f.ws.Packages(), nil
		},
	})
}

func TestPrep_RunsAllStages(t *testing.T) {
	f := abcWorkspace(t)
	runner := mocks.NewMockRunner(t)
	req := bindings.Request{Crates: []string{"all"}, Profile: bindings.ProfileRelease, Submodules: bindings.SubmodulesAuto}
	runner.EXPECT().Run(mock.Anything, req).Return(nil).Once()
	tests := &fakeTests{}

	res, err := newPrep(t, f, runner, tests).Run(context.Background(), PrepRequest{
		Target:   "0.2.0",
		Bindings: req,
		Checks:   check.Options{Skip: map[string]bool{check.Docs: true}},
	})
	require.NoError(t, err)

	var stages []Stage
	for _, s := range res.Stages {
		stages = append(stages, s.Stage)
	}
	require.Equal(t, Stages, stages)
	require.Equal(t, "0.2.0", res.Bump.New)
	require.Equal(t, 1, tests.calls)

	require.Equal(t, 1, f.checker.calls)
	require.Equal(t, "0.2.0", f.checker.opts.ExpectedVersion)
	require.True(t, f.checker.opts.Skip[check.Tests])
	require.True(t, f.checker.opts.Skip[check.Git])
	require.True(t, f.checker.opts.Skip[check.Docs])
	for _, p := range f.ws.Packages() {
		require.Equal(t, "0.2.0", p.Version, "checks see the bumped workspace")
	}
}

func TestPrep_DoesNotMutateCallerSkips(t *testing.T) {
	f := abcWorkspace(t)
	runner := mocks.NewMockRunner(t)
	runner.EXPECT().Run(mock.Anything, mock.Anything).Return(nil)
	skip := map[string]bool{check.Docs: true}

	_, err := newPrep(t, f, runner, &fakeTests{}).Run(context.Background(), PrepRequest{
		Target: "0.2.0",
		Checks: check.Options{Skip: skip},
	})
	require.NoError(t, err)
	require.Equal(t, map[string]bool{check.Docs: true}, skip)
}

func TestPrep_StopsAtFirstFailure(t *testing.T) {
	f := abcWorkspace(t)
	runner := mocks.NewMockRunner(t)
	runner.EXPECT().Run(mock.Anything, mock.Anything).
		Return(&bindings.CommandError{Command: []string{"gen"}, ExitCode: 2, Stderr: "clang not found"}).Once()
	tests := &fakeTests{}

	res, err := newPrep(t, f, runner, tests).Run(context.Background(), PrepRequest{Target: "0.2.0"})
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, StageBindings, stageErr.Stage)
	var cmdErr *bindings.CommandError
	require.ErrorAs(t, err, &cmdErr)

	require.Len(t, res.Stages, 1)
	require.NotNil(t, res.Bump, "the bump stays applied")
	require.Zero(t, tests.calls)
	require.Zero(t, f.checker.calls)
}

func TestPrep_TestFailure(t *testing.T) {
	f := abcWorkspace(t)
	runner := mocks.NewMockRunner(t)
	runner.EXPECT().Run(mock.Anything, mock.Anything).Return(nil).Once()

	_, err := newPrep(t, f, runner, &fakeTests{err: errors.New("2 tests failed")}).
		Run(context.Background(), PrepRequest{Target: "0.2.0"})
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, StageTests, stageErr.Stage)
	require.Contains(t, err.Error(), "2 tests failed")
}

func TestPrep_BumpFailureWritesNothing(t *testing.T) {
	f := abcWorkspace(t)
	runner := mocks.NewMockRunner(t)

	_, err := newPrep(t, f, runner, &fakeTests{}).Run(context.Background(), PrepRequest{Target: "0.1.0"})
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, StageBump, stageErr.Stage)
	require.ErrorIs(t, err, version.ErrSameVersion)
}

func TestPrep_CheckFailure(t *testing.T) {
	f := abcWorkspace(t)
	runner := mocks.NewMockRunner(t)
	runner.EXPECT().Run(mock.Anything, mock.Anything).Return(nil).Once()
	f.checker.result = &check.Result{Checks: []check.CheckResult{{Name: check.Artifacts, Status: check.Fail}}}

	res, err := newPrep(t, f, runner, &fakeTests{}).Run(context.Background(), PrepRequest{Target: "0.2.0"})
	var failed *check.FailedError
	require.ErrorAs(t, err, &failed)
	require.Equal(t, []string{check.Artifacts}, failed.Checks)
	require.Len(t, res.Stages, 3)
	require.Same(t, f.checker.result, res.Checks)
}

func TestPrep_Cancelled(t *testing.T) {
	f := abcWorkspace(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newPrep(t, f, mocks.NewMockRunner(t), &fakeTests{}).Run(ctx, PrepRequest{Target: "0.2.0"})
	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	require.Equal(t, StageBump, stageErr.Stage)
	require.ErrorIs(t, err, context.Canceled)
}
