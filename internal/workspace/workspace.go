// Package workspace loads the publishable packages of a cargo workspace.
//
// The set of packages, their kinds and paths come from configuration; versions,
// native link names and in-workspace dependency edges are read from each
// package's Cargo.toml. The resulting Workspace is the single source of truth
// the plan, version and check packages work from.
package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/zjrosen/releasetrain/internal/config"
	"github.com/zjrosen/releasetrain/internal/log"
)

// ManifestName is the file name of a package manifest.
const ManifestName = "Cargo.toml"

// ErrInheritedVersion is returned for manifests using `version.workspace = true`.
// Every package carries its own version field so the bump can edit it in place.
var ErrInheritedVersion = errors.New("workspace-inherited version is not supported")

// Package is one publishable unit of the workspace.
type Package struct {
	Name    string
	Version string
	Kind    string
	// Dir is the package directory relative to the workspace root.
	Dir string
	// Dependencies holds the in-workspace packages this one depends on
	// (normal and build dependencies, sorted).
	Dependencies []string
	// Links is the manifest's package.links value, set for crates wrapping a native library.
	Links string
	// Artifacts overrides the default generated artifact paths, relative to Dir.
	Artifacts []string
}

// Manifest returns the manifest path relative to the workspace root.
func (p Package) Manifest() string {
	return filepath.Join(p.Dir, ManifestName)
}

// Tier returns the publish tier implied by the package kind.
func (p Package) Tier() Tier {
	return TierOf(p.Kind)
}

// NeedsArtifacts reports whether the package ships pregenerated native bindings.
func (p Package) NeedsArtifacts() bool {
	switch p.Kind {
	case config.KindExtensionSys:
		return true
	case config.KindCore:
		return p.Links != ""
	}
	return false
}

// IsApplication reports whether the package is an application-tier package.
func (p Package) IsApplication() bool {
	return p.Kind == config.KindApplication
}

// DependsOn reports whether name is a direct in-workspace dependency.
func (p Package) DependsOn(name string) bool {
	_, found := slices.BinarySearch(p.Dependencies, name)
	return found
}

// UnknownPackageError is returned when a name does not match any workspace package.
type UnknownPackageError struct {
	Name  string
	Known []string
}

func (e *UnknownPackageError) Error() string {
	return fmt.Sprintf("unknown package %q (known: %s)", e.Name, strings.Join(e.Known, ", "))
}

// Workspace is the loaded package registry.
type Workspace struct {
	root  string
	fs    afero.Fs
	names []string
	pkgs  map[string]*Package
}

// Load reads the manifests of the configured packages from fs.
func Load(fs afero.Fs, root string, cfgs []config.PackageConfig) (*Workspace, error) {
	if err := config.ValidatePackages(cfgs); err != nil {
		return nil, err
	}

	w := &Workspace{
		root:  root,
		fs:    fs,
		names: make([]string, 0, len(cfgs)),
		pkgs:  make(map[string]*Package, len(cfgs)),
	}
	for _, c := range cfgs {
		w.names = append(w.names, c.Name)
		w.pkgs[c.Name] = &Package{Name: c.Name, Kind: c.Kind, Dir: filepath.Clean(c.Path), Artifacts: c.Artifacts}
	}

	for _, c := range cfgs {
		pkg := w.pkgs[c.Name]
		m, err := w.readManifest(pkg.Manifest())
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", c.Name, err)
		}
		if m.Package.Name != c.Name {
			return nil, fmt.Errorf("package %s: manifest %s declares name %q", c.Name, pkg.Manifest(), m.Package.Name)
		}
		version, err := m.version()
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", c.Name, err)
		}
		pkg.Version = version
		pkg.Links = m.Package.Links

		deps := make(map[string]bool)
		for _, name := range m.dependencyNames() {
			if _, ok := w.pkgs[name]; ok && name != c.Name {
				deps[name] = true
			}
		}
		for _, name := range c.Dependencies {
			if _, ok := w.pkgs[name]; !ok {
				return nil, fmt.Errorf("dependency %q referenced by %s is not a workspace package", name, c.Name)
			}
			deps[name] = true
		}
		pkg.Dependencies = make([]string, 0, len(deps))
		for name := range deps {
			pkg.Dependencies = append(pkg.Dependencies, name)
		}
		slices.Sort(pkg.Dependencies)
	}

	log.Debug(log.CatWorkspace, "Loaded workspace", "root", root, "packages", len(w.names))
	return w, nil
}

func (w *Workspace) readManifest(rel string) (*manifest, error) {
	data, err := afero.ReadFile(w.fs, w.Path(rel))
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", rel, err)
	}
	return &m, nil
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string { return w.root }

// Fs returns the filesystem the workspace was loaded from.
func (w *Workspace) Fs() afero.Fs { return w.fs }

// Path joins a workspace-relative path onto the root.
func (w *Workspace) Path(rel string) string {
	return filepath.Join(w.root, rel)
}

// Names returns package names in configuration order.
func (w *Workspace) Names() []string {
	return slices.Clone(w.names)
}

// Get returns the named package.
func (w *Workspace) Get(name string) (Package, bool) {
	p, ok := w.pkgs[name]
	if !ok {
		return Package{}, false
	}
	return *p, true
}

// Has reports whether name is a workspace package.
func (w *Workspace) Has(name string) bool {
	_, ok := w.pkgs[name]
	return ok
}

// Packages returns every package in configuration order.
func (w *Workspace) Packages() []Package {
	out := make([]Package, 0, len(w.names))
	for _, name := range w.names {
		out = append(out, *w.pkgs[name])
	}
	return out
}

// Lookup resolves names to packages, failing on the first unknown name.
func (w *Workspace) Lookup(names []string) ([]Package, error) {
	out := make([]Package, 0, len(names))
	for _, name := range names {
		p, ok := w.pkgs[name]
		if !ok {
			return nil, &UnknownPackageError{Name: name, Known: w.Names()}
		}
		out = append(out, *p)
	}
	return out, nil
}
