package testutil

import (
	"strings"

	"github.com/zjrosen/releasetrain/internal/config"
)

// crateData holds everything needed to write one crate.
type crateData struct {
	name         string
	path         string
	kind         string
	version      string
	links        string
	artifactSize int
	deps         []string
	buildDeps    []string
	devDeps      []string
	extraDeps    []string
	external     []string
	pins         map[string]string
}

func defaultCrate(name string) crateData {
	return crateData{
		name: name,
		path: name,
		kind: config.KindExtensionHighLevel,
		pins: make(map[string]string),
	}
}

// pin returns the version requirement written for dep: an explicit Pin, or
// the MAJOR.MINOR of the workspace version.
func (c crateData) pin(dep, workspaceVersion string) string {
	if p, ok := c.pins[dep]; ok {
		return p
	}
	parts := strings.SplitN(workspaceVersion, ".", 3)
	if len(parts) < 2 {
		return workspaceVersion
	}
	return parts[0] + "." + parts[1]
}

// CrateOption configures a crate.
type CrateOption func(*crateData)

// Path sets the crate directory relative to the workspace root.
func Path(p string) CrateOption {
	return func(c *crateData) { c.path = p }
}

// Kind sets the package kind.
func Kind(k string) CrateOption {
	return func(c *crateData) { c.kind = k }
}

// Version sets an explicit crate version.
func Version(v string) CrateOption {
	return func(c *crateData) { c.version = v }
}

// Links sets package.links.
func Links(l string) CrateOption {
	return func(c *crateData) { c.links = l }
}

// Artifact writes src/bindings_pregenerated.rs with size bytes.
func Artifact(size int) CrateOption {
	return func(c *crateData) { c.artifactSize = size }
}

// DependsOn adds path+version dependencies on other workspace crates.
func DependsOn(names ...string) CrateOption {
	return func(c *crateData) { c.deps = append(c.deps, names...) }
}

// BuildDependsOn adds build-dependencies on other workspace crates.
func BuildDependsOn(names ...string) CrateOption {
	return func(c *crateData) { c.buildDeps = append(c.buildDeps, names...) }
}

// DevDependsOn adds path-only dev-dependencies.
func DevDependsOn(names ...string) CrateOption {
	return func(c *crateData) { c.devDeps = append(c.devDeps, names...) }
}

// ExtraDependsOn declares dependencies in configuration only.
func ExtraDependsOn(names ...string) CrateOption {
	return func(c *crateData) { c.extraDeps = append(c.extraDeps, names...) }
}

// External adds a raw dependency line, e.g. `log = "0.4"`.
func External(line string) CrateOption {
	return func(c *crateData) { c.external = append(c.external, line) }
}

// Pin overrides the version requirement written for a workspace dependency.
func Pin(dep, requirement string) CrateOption {
	return func(c *crateData) { c.pins[dep] = requirement }
}
