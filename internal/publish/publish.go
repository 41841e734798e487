// Package publish uploads a single package, skipping versions the registry
// already has.
package publish

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/releasetrain/internal/cargo"
	"github.com/zjrosen/releasetrain/internal/log"
	"github.com/zjrosen/releasetrain/internal/registry"
)

// Outcome is the result kind of one publish step.
type Outcome string

// Publish outcomes. AlreadyPublished is a success.
const (
	WouldPublish     Outcome = "would-publish"
	Published        Outcome = "published"
	AlreadyPublished Outcome = "already-published"
	Failed           Outcome = "failed"
)

// Succeeded reports whether the outcome lets a run continue.
func (o Outcome) Succeeded() bool {
	return o != Failed
}

// Result describes one publish step.
type Result struct {
	Package  string
	Version  string
	Outcome  Outcome
	Reason   string // set when Outcome is Failed
	Err      error  // underlying failure, if any
	Duration time.Duration
	// Interrupted is set when the context was cancelled during the
	// post-publish wait. The package itself was published.
	Interrupted bool
}

// PublishFailure names the package a run stopped at and why.
type PublishFailure struct {
	Package string
	Version string
	Reason  string
	Err     error
}

func (e *PublishFailure) Error() string {
	return fmt.Sprintf("publishing %s %s failed: %s", e.Package, e.Version, e.Reason)
}

func (e *PublishFailure) Unwrap() error { return e.Err }

// Failure returns the result as a *PublishFailure, or nil when it succeeded.
func (r Result) Failure() error {
	if r.Outcome != Failed {
		return nil
	}
	return &PublishFailure{Package: r.Package, Version: r.Version, Reason: r.Reason, Err: r.Err}
}

// Options configures one publish step.
type Options struct {
	DryRun bool
	// Wait is the fixed delay after a successful upload, giving the registry
	// time to index the version before dependents are published.
	Wait     time.Duration
	NoVerify bool
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Publisher publishes packages through cargo.
type Publisher struct {
	cargo  cargo.CargoExecutor
	lookup registry.Lookup
	sleep  Sleeper
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithSleeper replaces the post-publish wait implementation.
func WithSleeper(s Sleeper) Option {
	return func(p *Publisher) { p.sleep = s }
}

// New creates a Publisher.
func New(c cargo.CargoExecutor, lookup registry.Lookup, opts ...Option) *Publisher {
	p := &Publisher{cargo: c, lookup: lookup, sleep: SleepContext}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish publishes version of pkg unless the registry already has it.
// The registry is consulted first even in dry-run mode.
func (p *Publisher) Publish(ctx context.Context, pkg, version string, opts Options) Result {
	start := time.Now()
	res := p.publish(ctx, pkg, version, opts)
	res.Duration = time.Since(start)
	return res
}

func (p *Publisher) publish(ctx context.Context, pkg, version string, opts Options) Result {
	res := Result{Package: pkg, Version: version}

	published, err := p.lookup.IsPublished(ctx, pkg, version)
	switch {
	case err != nil && ctx.Err() != nil:
		return failed(res, "interrupted", ctx.Err())
	case err != nil && opts.DryRun:
		log.Warn(log.CatPublish, "Registry lookup failed, assuming unpublished for dry run", "package", pkg, "error", err)
	case err != nil:
		return failed(res, fmt.Sprintf("registry lookup failed: %v", err), err)
	case published:
		log.Info(log.CatPublish, "Already published, skipping", "package", pkg, "version", version)
		res.Outcome = AlreadyPublished
		return res
	}

	if opts.DryRun {
		log.Info(log.CatPublish, "Dry run, would publish", "package", pkg, "version", version)
		res.Outcome = WouldPublish
		return res
	}

	log.Info(log.CatPublish, "Publishing", "package", pkg, "version", version, "no_verify", opts.NoVerify)
	if err := p.cargo.Publish(ctx, cargo.PublishOptions{Package: pkg, NoVerify: opts.NoVerify}); err != nil {
		if errors.Is(err, cargo.ErrAlreadyUploaded) {
			log.Warn(log.CatPublish, "Registry reports version already uploaded", "package", pkg, "version", version)
			p.lookup.Invalidate(ctx, pkg)
			res.Outcome = AlreadyPublished
			return res
		}
		if ctx.Err() != nil {
			return failed(res, "interrupted", ctx.Err())
		}
		return failed(res, err.Error(), err)
	}
	p.lookup.Invalidate(ctx, pkg)
	res.Outcome = Published

	if opts.Wait > 0 {
		log.Info(log.CatPublish, "Waiting for registry to index", "package", pkg, "wait", opts.Wait)
		if err := p.sleep(ctx, opts.Wait); err != nil {
			res.Interrupted = true
		}
	}
	return res
}

func failed(res Result, reason string, err error) Result {
	log.ErrorErr(log.CatPublish, "Publish failed", err, "package", res.Package, "version", res.Version)
	res.Outcome = Failed
	res.Reason = reason
	res.Err = err
	return res
}
