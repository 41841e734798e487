// Package plan holds the ordered publish plan and the dependency order check.
package plan

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zjrosen/releasetrain/internal/log"
	"github.com/zjrosen/releasetrain/internal/workspace"
)

// Plan is an ordered sequence of workspace packages.
// The order is authored; it is never computed or re-sorted.
type Plan struct {
	ws    *workspace.Workspace
	order []string
}

// New builds a plan over ws. Every name must be a workspace package and may
// appear only once.
func New(ws *workspace.Workspace, order []string) (*Plan, error) {
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if !ws.Has(name) {
			return nil, &workspace.UnknownPackageError{Name: name, Known: ws.Names()}
		}
		if seen[name] {
			return nil, fmt.Errorf("package %q appears more than once in the publish plan", name)
		}
		seen[name] = true
	}
	return &Plan{ws: ws, order: slices.Clone(order)}, nil
}

// Names returns the plan order.
func (p *Plan) Names() []string {
	return slices.Clone(p.order)
}

// Len returns the number of steps.
func (p *Plan) Len() int { return len(p.order) }

// Contains reports whether name is part of the plan.
func (p *Plan) Contains(name string) bool {
	return slices.Contains(p.order, name)
}

// Packages resolves the plan to workspace packages, in order.
func (p *Plan) Packages() []workspace.Package {
	pkgs, _ := p.ws.Lookup(p.order) // names were checked in New
	return pkgs
}

// Select narrows the plan to the requested names, keeping plan order.
// Requested names must be workspace packages that are part of the plan.
func (p *Plan) Select(names []string) (*Plan, error) {
	if len(names) == 0 {
		return p, nil
	}
	requested := make(map[string]bool, len(names))
	for _, name := range names {
		if !p.ws.Has(name) {
			return nil, &workspace.UnknownPackageError{Name: name, Known: p.ws.Names()}
		}
		if !p.Contains(name) {
			return nil, &NotInPlanError{Name: name}
		}
		requested[name] = true
	}
	var order []string
	for _, name := range p.order {
		if requested[name] {
			order = append(order, name)
		}
	}
	log.Debug(log.CatPlan, "Selected plan subset", "requested", len(names), "steps", len(order))
	return &Plan{ws: p.ws, order: order}, nil
}

// IndexOf returns the position of name in the plan.
func (p *Plan) IndexOf(name string) (int, error) {
	if !p.ws.Has(name) {
		return -1, &workspace.UnknownPackageError{Name: name, Known: p.ws.Names()}
	}
	i := slices.Index(p.order, name)
	if i < 0 {
		return -1, &NotInPlanError{Name: name}
	}
	return i, nil
}

// Validate runs the dependency order check over the plan.
func (p *Plan) Validate() error {
	return Validate(p.order, p.Packages())
}

// Outside returns, per package, the dependencies that are not part of the plan.
// Those are assumed to be published already.
func (p *Plan) Outside() map[string][]string {
	out := make(map[string][]string)
	for _, pkg := range p.Packages() {
		for _, dep := range pkg.Dependencies {
			if !p.Contains(dep) {
				out[pkg.Name] = append(out[pkg.Name], dep)
			}
		}
	}
	return out
}

// TierGroup is a run of plan steps sharing a tier.
type TierGroup struct {
	Tier     workspace.Tier
	Packages []workspace.Package
}

// Groups splits the plan into consecutive runs of the same tier.
func (p *Plan) Groups() []TierGroup {
	var groups []TierGroup
	for _, pkg := range p.Packages() {
		tier := pkg.Tier()
		if n := len(groups); n > 0 && groups[n-1].Tier == tier {
			groups[n-1].Packages = append(groups[n-1].Packages, pkg)
			continue
		}
		groups = append(groups, TierGroup{Tier: tier, Packages: []workspace.Package{pkg}})
	}
	return groups
}

// NotInPlanError is returned when a workspace package is requested but the
// publish plan does not include it.
type NotInPlanError struct {
	Name string
}

func (e *NotInPlanError) Error() string {
	return fmt.Sprintf("package %q is not part of the publish plan", e.Name)
}

// OrderViolation reports a package whose in-plan dependencies do not all
// precede it.
type OrderViolation struct {
	Package string
	Missing []string
}

func (e *OrderViolation) Error() string {
	return fmt.Sprintf("publish order violation: %s depends on %s, which must be published earlier",
		e.Package, strings.Join(e.Missing, ", "))
}
