package plan

import (
	"slices"

	"github.com/zjrosen/releasetrain/internal/workspace"
)

// Validate checks that for every package in order, each dependency that is
// also in order appears strictly earlier. Dependencies outside order are
// ignored. The first violating package in plan order is reported as an
// *OrderViolation; packages missing from pkgs have no known dependencies.
func Validate(order []string, pkgs []workspace.Package) error {
	byName := make(map[string]workspace.Package, len(pkgs))
	for _, p := range pkgs {
		byName[p.Name] = p
	}
	inPlan := make(map[string]bool, len(order))
	for _, name := range order {
		inPlan[name] = true
	}

	published := make(map[string]bool, len(order))
	for _, name := range order {
		var missing []string
		for _, dep := range byName[name].Dependencies {
			if inPlan[dep] && !published[dep] {
				missing = append(missing, dep)
			}
		}
		if len(missing) > 0 {
			slices.Sort(missing)
			return &OrderViolation{Package: name, Missing: missing}
		}
		published[name] = true
	}
	return nil
}
