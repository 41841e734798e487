package presentation

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/releasetrain/internal/check"
	"github.com/zjrosen/releasetrain/internal/history"
	"github.com/zjrosen/releasetrain/internal/plan"
	"github.com/zjrosen/releasetrain/internal/publish"
	"github.com/zjrosen/releasetrain/internal/pubsub"
	"github.com/zjrosen/releasetrain/internal/release"
	"github.com/zjrosen/releasetrain/internal/testutil"
	"github.com/zjrosen/releasetrain/internal/version"
	"github.com/zjrosen/releasetrain/internal/workspace"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func standardPlan(t *testing.T) *plan.Plan {
	t.Helper()
	fs := afero.NewMemMapFs()
	cfgs := testutil.NewBuilder(t, fs, "/ws").WithStandardWorkspace().Build()
	ws, err := workspace.Load(fs, "/ws", cfgs)
	require.NoError(t, err)
	p, err := plan.New(ws, testutil.StandardPlan())
	require.NoError(t, err)
	return p
}

func TestFromPlan(t *testing.T) {
	p := standardPlan(t)
	dto := FromPlan(p, nil)

	require.True(t, dto.Valid)
	require.Equal(t, testutil.StandardPlan(), dto.Packages)
	require.Len(t, dto.Tiers, 5)
	require.Equal(t, "core", dto.Tiers[0].Tier)

	core := dto.Tiers[0].Packages
	require.Equal(t, "imgui-sys", core[0].Name)
	require.Equal(t, 0, core[0].Position)
	require.True(t, core[0].NeedsArtifacts)
	require.NotNil(t, core[0].DependsOn, "always present in JSON")
	require.Equal(t, []string{"imgui-sys"}, core[1].DependsOn)
	require.False(t, core[0].Application)

	apps := dto.Tiers[len(dto.Tiers)-1].Packages
	require.Equal(t, "app", apps[0].Name)
	require.True(t, apps[0].Application)

	bad := FromPlan(p, errors.New("imgui depends on imgui-sys"))
	require.False(t, bad.Valid)
	require.Equal(t, "imgui depends on imgui-sys", bad.Violation)
}

func TestFormatter_Plan(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(&buf).FormatPlan(FromPlan(standardPlan(t), nil)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, true, decoded["valid"])
	require.NotContains(t, decoded, "violation")
	require.Len(t, decoded["tiers"], 5)
}

func TestPrinter_Plan(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Plan(FromPlan(standardPlan(t), nil))
	out := stripANSI(buf.String())

	require.Contains(t, out, "Publish plan (6 packages)")
	require.Contains(t, out, "backends")
	require.Contains(t, out, " 1. imgui-sys 0.4.0")
	require.Contains(t, out, "app 0.4.0 <- imgui, imgui-wgpu")
	require.Contains(t, out, "dependency order is valid")
	require.Less(t, strings.Index(out, "imgui-sys"), strings.Index(out, "plot-sys"))
}

func TestPrinter_Checks(t *testing.T) {
	r := &check.Result{Checks: []check.CheckResult{
		{Name: check.Versions, Status: check.Pass, Detail: "6 packages at 0.4.0"},
		{Name: check.Artifacts, Status: check.Fail, Detail: "1 missing", Problems: []string{"plot-sys: missing src/bindings_pregenerated.rs"}},
		{Name: check.Tests, Status: check.Skipped},
	}}
	var buf bytes.Buffer
	NewPrinter(&buf).Checks(r)
	out := stripANSI(buf.String())

	require.Contains(t, out, "✓ versions")
	require.Contains(t, out, "✗ artifacts")
	require.Contains(t, out, "plot-sys: missing src/bindings_pregenerated.rs")
	require.Contains(t, out, "skipped")
	require.Contains(t, out, "1 of 3 checks failed")
}

func TestPrinter_BumpDryRunShowsDiff(t *testing.T) {
	r := &version.BumpResult{
		Old: "0.4.0", New: "0.5.0", DryRun: true,
		Packages:  []string{"imgui"},
		Files:     []version.FileChange{{Path: "imgui/Cargo.toml", Kind: version.FileManifest, Changes: []version.Change{{Line: 3}}, Diff: "--- a/imgui/Cargo.toml\n+++ b/imgui/Cargo.toml\n@@ -3 +3 @@\n-version = \"0.4.0\"\n+version = \"0.5.0\"\n"}},
		Unchanged: []string{"docs/README.md"},
		Warnings:  []string{"imgui/Cargo.toml: imgui-sys = \"=0.3.0\" left unchanged"},
	}
	var buf bytes.Buffer
	NewPrinter(&buf).Bump(r)
	out := stripANSI(buf.String())

	require.Contains(t, out, "Would bump 1 packages 0.4.0 -> 0.5.0")
	require.Contains(t, out, "imgui/Cargo.toml (manifest, 1 changes)")
	require.Contains(t, out, "docs/README.md (no changes needed)")
	require.Contains(t, out, "left unchanged")
	require.Contains(t, out, "+version = \"0.5.0\"")
}

func TestPrinter_RunSummary(t *testing.T) {
	halted := &release.Run{
		Plan:   []string{"a", "b", "c"},
		Cursor: 0,
		State:  release.Halted,
		Reason: "publishing b 0.2.0 failed: 403",
		Steps:  []publish.Result{{Package: "a", Outcome: publish.Published}},
	}
	var buf bytes.Buffer
	NewPrinter(&buf).Run(halted)
	out := stripANSI(buf.String())
	require.Contains(t, out, "Release halted")
	require.Contains(t, out, "releasetrain publish --start-from b")

	buf.Reset()
	NewPrinter(&buf).Run(&release.Run{State: release.Completed, DryRun: true, Steps: []publish.Result{
		{Outcome: publish.WouldPublish}, {Outcome: publish.AlreadyPublished},
	}})
	require.Contains(t, stripANSI(buf.String()), "1 would publish, 1 already published")
}

func TestPrinter_Progress(t *testing.T) {
	events := make(chan pubsub.Event[release.Event], 3)
	events <- pubsub.Event[release.Event]{Type: pubsub.RunStarted, Payload: release.Event{RunID: "r1", Total: 2}}
	events <- pubsub.Event[release.Event]{Type: pubsub.StepStarted, Payload: release.Event{Package: "a", Position: 0, Total: 2}}
	events <- pubsub.Event[release.Event]{Type: pubsub.StepFinished, Payload: release.Event{Package: "a", Outcome: publish.AlreadyPublished, Duration: time.Second}}
	close(events)

	var buf bytes.Buffer
	NewPrinter(&buf).Progress(events)
	out := stripANSI(buf.String())
	require.Contains(t, out, "run r1: 2 packages")
	require.Contains(t, out, "[1/2] a")
	require.Contains(t, out, "already-published 1s")
}

func TestFromHistory_ResumePoint(t *testing.T) {
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := FromHistoryList([]*history.Run{
		{GUID: "r2", Target: "0.5.0", State: "halted", Cursor: 1, Packages: []string{"a", "b", "c"}, StartedAt: started,
			Steps: []history.Step{{Position: 0, Package: "a", Outcome: "published"}, {Position: 1, Package: "b", Outcome: "published"}, {Position: 2, Package: "c", Outcome: "failed", Reason: "403"}}},
		{GUID: "r1", Target: "0.5.0", DryRun: true, State: "completed", Cursor: 2, Packages: []string{"a", "b", "c"}, StartedAt: started.Add(-time.Hour)},
	})
	require.Len(t, runs, 2)
	require.Equal(t, "c", runs[0].ResumeFrom)
	require.Len(t, runs[0].Steps, 3)
	require.Empty(t, runs[1].ResumeFrom)
	require.NotNil(t, runs[1].Steps)

	var buf bytes.Buffer
	NewPrinter(&buf).History(runs)
	out := stripANSI(buf.String())
	require.Contains(t, out, "STARTED")
	require.Contains(t, out, "[resume: c]")
	require.Contains(t, out, "0.5.0 (dry)")
	require.Contains(t, out, "2/3")
	require.Contains(t, out, "3/3")

	buf.Reset()
	NewPrinter(&buf).History(nil)
	require.Contains(t, buf.String(), "No runs recorded.")
}

func TestNextSteps(t *testing.T) {
	bump := NextSteps(AfterBump, "0.5.0")
	require.Contains(t, bump, "CHANGELOG.md")
	require.Contains(t, bump, "cargo test --workspace")
	require.Contains(t, bump, "Release v0.5.0")

	prep := NextSteps(AfterPrep, "0.5.0")
	require.NotContains(t, prep, "cargo test")
	require.Contains(t, prep, "releasetrain publish --dry-run")
}

func TestRenderer_NextSteps(t *testing.T) {
	r, err := NewRenderer(80, "notty")
	require.NoError(t, err)

	var buf bytes.Buffer
	NewPrinter(&buf).NextSteps(r, AfterPrep, "0.5.0")
	out := stripANSI(buf.String())
	require.Contains(t, out, "Next steps")
	require.Contains(t, out, "CHANGELOG.md")
}
