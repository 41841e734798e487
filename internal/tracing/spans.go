package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys.
const (
	AttrRunID         = "release.run_id"
	AttrTargetVersion = "release.target_version"
	AttrOldVersion    = "release.old_version"
	AttrDryRun        = "release.dry_run"
	AttrPlanLength    = "release.plan_length"
	AttrStartIndex    = "release.start_index"
	AttrCursor        = "release.cursor"
	AttrState         = "release.state"
	AttrPackage       = "package.name"
	AttrPosition      = "package.position"
	AttrOutcome       = "publish.outcome"
	AttrStage         = "prep.stage"
	AttrCheck         = "check.name"
	AttrCheckStatus   = "check.status"
)

// Span names.
const (
	SpanBump        = "release.bump"
	SpanPublish     = "release.publish"
	SpanPrep        = "release.prep"
	SpanValidate    = "release.validate"
	SpanCheck       = "release.check"
	SpanBindings    = "release.bindings"
	SpanTest        = "release.test"
	SpanPackage     = "publish.package"
	EventHalted     = "run.halted"
	EventCheckEnded = "check.finished"
)

// Start opens an internal span with attrs.
func Start(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// End records err on span (if any), sets the status and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
