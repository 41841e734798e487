package release

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/releasetrain/internal/check"
	"github.com/zjrosen/releasetrain/internal/history"
	"github.com/zjrosen/releasetrain/internal/log"
	"github.com/zjrosen/releasetrain/internal/metrics"
	"github.com/zjrosen/releasetrain/internal/plan"
	"github.com/zjrosen/releasetrain/internal/publish"
	"github.com/zjrosen/releasetrain/internal/pubsub"
	"github.com/zjrosen/releasetrain/internal/tracing"
	"github.com/zjrosen/releasetrain/internal/workspace"
)

// Checker runs the pre-publish validation suite.
type Checker interface {
	Check(ctx context.Context, pkgs []workspace.Package, opts check.Options) *check.Result
}

// Publisher publishes one package.
type Publisher interface {
	Publish(ctx context.Context, pkg, version string, opts publish.Options) publish.Result
}

var (
	_ Checker   = (*check.Validator)(nil)
	_ Publisher = (*publish.Publisher)(nil)
)

// Config wires an Orchestrator. Plan, Checker and Publisher are required.
type Config struct {
	Plan      *plan.Plan
	Checker   Checker
	Publisher Publisher

	History history.Repository // optional audit record
	Metrics *metrics.Metrics   // optional
	Tracer  trace.Tracer       // optional
	Events  *Events            // optional progress events

	Now   func() time.Time
	NewID func() string
}

// PublishRequest configures one publish run.
type PublishRequest struct {
	// Crates narrows the plan to these packages, keeping plan order.
	Crates []string
	// StartFrom resumes at this package of the (narrowed) plan.
	StartFrom string
	DryRun    bool
	Wait      time.Duration
	NoVerify  bool
	// SkipChecks disables the pre-publish validation suite.
	SkipChecks bool
	Checks     check.Options
}

// Orchestrator runs publish sequences.
type Orchestrator struct {
	plan      *plan.Plan
	checker   Checker
	publisher Publisher
	history   history.Repository
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	events    *Events
	now       func() time.Time
	newID     func() string
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(cfg Config) *Orchestrator {
	o := &Orchestrator{
		plan:      cfg.Plan,
		checker:   cfg.Checker,
		publisher: cfg.Publisher,
		history:   cfg.History,
		metrics:   cfg.Metrics,
		tracer:    cfg.Tracer,
		events:    cfg.Events,
		now:       cfg.Now,
		newID:     cfg.NewID,
	}
	if o.tracer == nil {
		o.tracer = noop.NewTracerProvider().Tracer(tracing.ServiceName)
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}
	return o
}

// Resolve narrows the plan to req.Crates and locates req.StartFrom. Unknown
// names yield *workspace.UnknownPackageError, names outside the plan
// *plan.NotInPlanError.
func (o *Orchestrator) Resolve(req PublishRequest) (*plan.Plan, int, error) {
	sel, err := o.plan.Select(req.Crates)
	if err != nil {
		return nil, 0, err
	}
	if req.StartFrom == "" {
		return sel, 0, nil
	}
	start, err := sel.IndexOf(req.StartFrom)
	if err != nil {
		return nil, 0, err
	}
	return sel, start, nil
}

// Publish runs the state machine for one invocation. Selection errors are
// returned before a run exists. Otherwise the returned run is terminal and
// the error, if any, is one of *plan.OrderViolation, *check.FailedError,
// *publish.PublishFailure or *InterruptedError.
func (o *Orchestrator) Publish(ctx context.Context, req PublishRequest) (run *Run, err error) {
	sel, start, err := o.Resolve(req)
	if err != nil {
		return nil, err
	}
	pkgs := sel.Packages()

	run = &Run{
		ID:        o.newID(),
		DryRun:    req.DryRun,
		Plan:      sel.Names(),
		Start:     start,
		Cursor:    start - 1,
		State:     NotStarted,
		StartedAt: o.now(),
	}
	if len(pkgs) > 0 {
		run.Target = pkgs[0].Version
	}

	ctx, span := tracing.Start(ctx, o.tracer, tracing.SpanPublish,
		attribute.String(tracing.AttrRunID, run.ID),
		attribute.String(tracing.AttrTargetVersion, run.Target),
		attribute.Bool(tracing.AttrDryRun, run.DryRun),
		attribute.Int(tracing.AttrPlanLength, len(run.Plan)),
		attribute.Int(tracing.AttrStartIndex, start),
	)
	defer func() {
		span.SetAttributes(
			attribute.String(tracing.AttrState, string(run.State)),
			attribute.Int(tracing.AttrCursor, run.Cursor),
		)
		tracing.End(span, err)
	}()

	log.Info(log.CatRelease, "Starting publish run", "run", run.ID, "target", run.Target,
		"packages", len(run.Plan), "start", start, "dry_run", run.DryRun)
	o.emit(pubsub.RunStarted, run, Event{Total: len(run.Plan), Position: start})

	o.transition(ctx, run, Validating)
	if err := o.validate(ctx, run, sel, pkgs, req); err != nil {
		return run, err
	}

	o.transition(ctx, run, Publishing)
	opts := publish.Options{DryRun: req.DryRun, Wait: req.Wait, NoVerify: req.NoVerify}
	for i := start; i < len(pkgs); i++ {
		if ctx.Err() != nil {
			return run, o.interrupt(ctx, run, ctx.Err())
		}
		res := o.step(ctx, run, i, pkgs[i], opts)
		if res.Outcome == publish.Failed {
			if ctx.Err() != nil {
				return run, o.interrupt(ctx, run, ctx.Err())
			}
			failure := res.Failure()
			o.halt(ctx, run, failure.Error())
			return run, failure
		}
		run.Cursor = i
		o.save(ctx, run)
		if res.Interrupted {
			return run, o.interrupt(ctx, run, context.Canceled)
		}
	}

	run.FinishedAt = o.now()
	o.transition(ctx, run, Completed)
	log.Info(log.CatRelease, "Publish run completed", "run", run.ID,
		"published", run.Count(publish.Published), "already", run.Count(publish.AlreadyPublished),
		"would_publish", run.Count(publish.WouldPublish))
	o.emit(pubsub.RunCompleted, run, Event{Total: len(run.Plan)})
	o.observeRun(run)
	return run, nil
}

// validate runs the dependency validator over the configured plan and the
// selection, then the pre-publish checks. Check failures halt real runs only.
func (o *Orchestrator) validate(ctx context.Context, run *Run, sel *plan.Plan, pkgs []workspace.Package, req PublishRequest) error {
	vctx, span := tracing.Start(ctx, o.tracer, tracing.SpanValidate)

	err := o.plan.Validate()
	if err == nil {
		err = sel.Validate()
	}
	if err != nil {
		tracing.End(span, err)
		o.halt(ctx, run, err.Error())
		return err
	}
	for pkg, deps := range sel.Outside() {
		log.Warn(log.CatRelease, "Dependencies outside the selection are assumed published",
			"package", pkg, "dependencies", strings.Join(deps, ","))
	}

	if req.SkipChecks {
		log.Info(log.CatRelease, "Pre-publish checks skipped")
		tracing.End(span, nil)
		return nil
	}

	result := o.checker.Check(vctx, pkgs, req.Checks)
	run.Checks = result
	for _, c := range result.Checks {
		span.AddEvent(tracing.EventCheckEnded, trace.WithAttributes(
			attribute.String(tracing.AttrCheck, c.Name),
			attribute.String(tracing.AttrCheckStatus, string(c.Status)),
		))
		if o.metrics != nil {
			o.metrics.ObserveCheck(c.Name, string(c.Status))
		}
	}
	err = result.Err()
	tracing.End(span, err)

	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return o.interrupt(ctx, run, ctx.Err())
	case req.DryRun:
		log.Warn(log.CatRelease, "Pre-publish checks failed, continuing dry run", "error", err)
		return nil
	default:
		o.halt(ctx, run, err.Error())
		return err
	}
}

func (o *Orchestrator) step(ctx context.Context, run *Run, i int, pkg workspace.Package, opts publish.Options) publish.Result {
	ctx, span := tracing.Start(ctx, o.tracer, tracing.SpanPackage,
		attribute.String(tracing.AttrPackage, pkg.Name),
		attribute.Int(tracing.AttrPosition, i),
	)
	o.emit(pubsub.StepStarted, run, Event{Package: pkg.Name, Position: i, Total: len(run.Plan)})

	res := o.publisher.Publish(ctx, pkg.Name, pkg.Version, opts)
	span.SetAttributes(attribute.String(tracing.AttrOutcome, string(res.Outcome)))
	tracing.End(span, res.Failure())

	run.Steps = append(run.Steps, res)
	if o.metrics != nil {
		o.metrics.ObservePackage(string(res.Outcome), res.Duration)
	}
	o.emit(pubsub.StepFinished, run, Event{
		Package:  pkg.Name,
		Position: i,
		Total:    len(run.Plan),
		Outcome:  res.Outcome,
		Reason:   res.Reason,
		Duration: res.Duration,
	})
	return res
}

func (o *Orchestrator) transition(ctx context.Context, run *Run, to State) {
	log.Debug(log.CatRelease, "State transition", "run", run.ID, "from", run.State, "to", to, "cursor", run.Cursor)
	run.State = to
	o.save(ctx, run)
}

func (o *Orchestrator) halt(ctx context.Context, run *Run, reason string) {
	run.Reason = reason
	run.FinishedAt = o.now()
	log.Error(log.CatRelease, "Publish run halted", "run", run.ID, "cursor", run.Cursor,
		"resume_from", run.ResumeFrom(), "reason", reason)
	trace.SpanFromContext(ctx).AddEvent(tracing.EventHalted, trace.WithAttributes(
		attribute.Int(tracing.AttrCursor, run.Cursor),
	))
	o.transition(ctx, run, Halted)
	o.emit(pubsub.RunHalted, run, Event{Reason: reason, Total: len(run.Plan), Position: run.Cursor + 1, Package: run.ResumeFrom()})
	o.observeRun(run)
}

func (o *Orchestrator) interrupt(ctx context.Context, run *Run, cause error) error {
	if cause == nil {
		cause = context.Canceled
	}
	// The run is being torn down; history must still record the halt.
	o.halt(context.WithoutCancel(ctx), run, "interrupted")
	return &InterruptedError{ResumeFrom: run.ResumeFrom(), Err: cause}
}

func (o *Orchestrator) save(ctx context.Context, run *Run) {
	if o.history == nil {
		return
	}
	h := run.toHistory()
	if err := o.history.Save(context.WithoutCancel(ctx), h); err != nil {
		log.ErrorErr(log.CatHistory, "Failed to record run", err, "run", run.ID)
		return
	}
	run.recordID = h.ID
}

func (o *Orchestrator) emit(t pubsub.EventType, run *Run, ev Event) {
	if o.events == nil {
		return
	}
	ev.RunID = run.ID
	ev.State = run.State
	o.events.Publish(t, ev)
}

func (o *Orchestrator) observeRun(run *Run) {
	if o.metrics == nil || !run.State.Terminal() {
		return
	}
	o.metrics.ObserveRun(string(run.State), run.DryRun, run.Cursor, run.FinishedAt)
}

// IsInterrupted reports whether err came from a cancelled run.
func IsInterrupted(err error) bool {
	var ie *InterruptedError
	return errors.As(err, &ie)
}
