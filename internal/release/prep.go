package release

import (
	"context"
	"maps"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/releasetrain/internal/bindings"
	"github.com/zjrosen/releasetrain/internal/check"
	"github.com/zjrosen/releasetrain/internal/log"
	"github.com/zjrosen/releasetrain/internal/metrics"
	"github.com/zjrosen/releasetrain/internal/tracing"
	"github.com/zjrosen/releasetrain/internal/version"
	"github.com/zjrosen/releasetrain/internal/workspace"
)

// Bumper rewrites the workspace version.
type Bumper interface {
	Bump(opts version.Options) (*version.BumpResult, error)
}

// TestRunner runs the workspace test suite.
type TestRunner interface {
	Test(ctx context.Context) error
}

var _ Bumper = (*version.Store)(nil)

// PrepConfig wires a Prep flow. Reload re-reads the workspace after the bump
// so the check stage sees the new versions.
type PrepConfig struct {
	Bumper   Bumper
	Bindings bindings.Runner
	Tests    TestRunner
	Checker  Checker
	Reload   func() ([]workspace.Package, error)

	Metrics *metrics.Metrics
	Tracer  trace.Tracer
}

// PrepRequest configures release-prep.
type PrepRequest struct {
	Target   string
	Old      string
	DocFiles []string
	Bindings bindings.Request
	Checks   check.Options
}

// StageResult records one completed stage.
type StageResult struct {
	Stage    Stage
	Duration time.Duration
}

// PrepResult reports how far release-prep got.
type PrepResult struct {
	Bump   *version.BumpResult
	Checks *check.Result
	Stages []StageResult
}

// Prep runs bump, bindings regeneration, tests and checks in order.
type Prep struct {
	cfg    PrepConfig
	tracer trace.Tracer
}

// NewPrep creates a Prep flow.
func NewPrep(cfg PrepConfig) *Prep {
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(tracing.ServiceName)
	}
	return &Prep{cfg: cfg, tracer: tracer}
}

// Run executes the stages, stopping at the first failure with *StageError.
// The partial result is always returned.
func (p *Prep) Run(ctx context.Context, req PrepRequest) (result *PrepResult, err error) {
	result = &PrepResult{}
	ctx, span := tracing.Start(ctx, p.tracer, tracing.SpanPrep,
		attribute.String(tracing.AttrTargetVersion, req.Target),
		attribute.String(tracing.AttrOldVersion, req.Old),
	)
	defer func() { tracing.End(span, err) }()

	stages := []struct {
		stage Stage
		span  string
		run   func(ctx context.Context) error
	}{
		{StageBump, tracing.SpanBump, func(context.Context) error {
			res, err := p.cfg.Bumper.Bump(version.Options{Target: req.Target, Old: req.Old, DocFiles: req.DocFiles})
			if err != nil {
				return err
			}
			result.Bump = res
			if p.cfg.Metrics != nil {
				p.cfg.Metrics.ObserveBump(len(res.Files))
			}
			return nil
		}},
		{StageBindings, tracing.SpanBindings, func(ctx context.Context) error {
			return p.cfg.Bindings.Run(ctx, req.Bindings)
		}},
		{StageTests, tracing.SpanTest, p.cfg.Tests.Test},
		{StageCheck, tracing.SpanCheck, func(ctx context.Context) error {
			return p.check(ctx, req, result)
		}},
	}

	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return result, &StageError{Stage: s.stage, Err: err}
		}
		log.Info(log.CatRelease, "Release-prep stage", "stage", s.stage)
		sctx, sspan := tracing.Start(ctx, p.tracer, s.span, attribute.String(tracing.AttrStage, string(s.stage)))
		start := time.Now()
		serr := s.run(sctx)
		tracing.End(sspan, serr)
		if serr != nil {
			log.ErrorErr(log.CatRelease, "Release-prep stage failed", serr, "stage", s.stage)
			return result, &StageError{Stage: s.stage, Err: serr}
		}
		result.Stages = append(result.Stages, StageResult{Stage: s.stage, Duration: time.Since(start)})
	}
	log.Info(log.CatRelease, "Release-prep complete", "version", req.Target)
	return result, nil
}

// check validates the bumped workspace. Tests already ran as their own stage
// and the bump itself leaves the tree dirty, so both checks are skipped.
func (p *Prep) check(ctx context.Context, req PrepRequest, result *PrepResult) error {
	pkgs, err := p.cfg.Reload()
	if err != nil {
		return err
	}
	opts := req.Checks
	opts.Skip = maps.Clone(opts.Skip)
	if opts.Skip == nil {
		opts.Skip = make(map[string]bool)
	}
	opts.Skip[check.Tests] = true
	opts.Skip[check.Git] = true
	opts.ExpectedVersion = req.Target

	res := p.cfg.Checker.Check(ctx, pkgs, opts)
	result.Checks = res
	if p.cfg.Metrics != nil {
		for _, c := range res.Checks {
			p.cfg.Metrics.ObserveCheck(c.Name, string(c.Status))
		}
	}
	return res.Err()
}
