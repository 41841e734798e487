package plan

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/releasetrain/internal/workspace"
)

func pkg(name string, deps ...string) workspace.Package {
	slices.Sort(deps)
	return workspace.Package{Name: name, Dependencies: deps}
}

func TestValidate(t *testing.T) {
	pkgs := []workspace.Package{
		pkg("sys"),
		pkg("core", "sys"),
		pkg("backend", "core"),
		pkg("ext-sys", "sys"),
		pkg("ext", "core", "ext-sys"),
	}

	tests := []struct {
		name        string
		order       []string
		wantPackage string
		wantMissing []string
	}{
		{
			name:  "valid full order",
			order: []string{"sys", "core", "backend", "ext-sys", "ext"},
		},
		{
			name:  "valid alternative order",
			order: []string{"sys", "ext-sys", "core", "ext", "backend"},
		},
		{
			name:  "subset ignores dependencies outside the plan",
			order: []string{"backend", "ext"},
		},
		{
			name:        "dependency after dependent",
			order:       []string{"core", "sys"},
			wantPackage: "core",
			wantMissing: []string{"sys"},
		},
		{
			name:        "reports every missing dependency of the first violator",
			order:       []string{"sys", "ext", "core", "ext-sys"},
			wantPackage: "ext",
			wantMissing: []string{"core", "ext-sys"},
		},
		{
			name:        "first violation in plan order wins",
			order:       []string{"backend", "ext", "core", "ext-sys"},
			wantPackage: "backend",
			wantMissing: []string{"core"},
		},
		{
			name:  "empty plan",
			order: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.order, pkgs)
			if tt.wantPackage == "" {
				require.NoError(t, err)
				return
			}
			var violation *OrderViolation
			require.ErrorAs(t, err, &violation)
			require.Equal(t, tt.wantPackage, violation.Package)
			require.Equal(t, tt.wantMissing, violation.Missing)
		})
	}
}

func TestOrderViolation_Error(t *testing.T) {
	err := &OrderViolation{Package: "ext", Missing: []string{"core", "ext-sys"}}
	require.Equal(t, "publish order violation: ext depends on core, ext-sys, which must be published earlier", err.Error())
}

// drawDAG generates packages p0..pn-1 where each package depends only on
// lower-numbered packages, so index order is always a valid plan.
func drawDAG(r *rapid.T) ([]string, []workspace.Package) {
	n := rapid.IntRange(1, 12).Draw(r, "n")
	names := make([]string, n)
	pkgs := make([]workspace.Package, n)
	for i := range n {
		names[i] = fmt.Sprintf("p%d", i)
		var deps []string
		for j := range i {
			if rapid.Bool().Draw(r, fmt.Sprintf("edge-%d-%d", i, j)) {
				deps = append(deps, names[j])
			}
		}
		pkgs[i] = pkg(names[i], deps...)
	}
	return names, pkgs
}

func TestValidate_TopologicalOrderAlwaysPasses(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		order, pkgs := drawDAG(r)
		require.NoError(r, Validate(order, pkgs))
	})
}

func TestValidate_SubsetOfValidOrderPasses(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		order, pkgs := drawDAG(r)
		var subset []string
		for _, name := range order {
			if rapid.Bool().Draw(r, "keep-"+name) {
				subset = append(subset, name)
			}
		}
		require.NoError(r, Validate(subset, pkgs))
	})
}

func TestValidate_MovingDependencyLaterIsDetected(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		order, pkgs := drawDAG(r)

		// Pick a package with at least one dependency.
		var candidates []int
		for i, p := range pkgs {
			if len(p.Dependencies) > 0 {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			r.Skip("no edges drawn")
		}
		i := rapid.SampledFrom(candidates).Draw(r, "dependent")
		dep := rapid.SampledFrom(pkgs[i].Dependencies).Draw(r, "dependency")

		// Move dep to the very end of the plan.
		moved := slices.DeleteFunc(slices.Clone(order), func(n string) bool { return n == dep })
		moved = append(moved, dep)

		err := Validate(moved, pkgs)
		var violation *OrderViolation
		require.ErrorAs(r, err, &violation)
		require.NotEqual(r, dep, violation.Package)
		require.Contains(r, violation.Missing, dep)
	})
}
