// Package testutil builds throwaway cargo workspaces for tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/releasetrain/internal/config"
)

// DefaultVersion is the version crates are created with unless overridden.
const DefaultVersion = "0.4.0"

// Builder accumulates crates and documents and writes them as a cargo workspace.
type Builder struct {
	t       *testing.T
	fs      afero.Fs
	root    string
	version string
	crates  []crateData
	docs    map[string]string
	order   []string
}

// NewBuilder creates a builder writing to root on fs.
func NewBuilder(t *testing.T, fs afero.Fs, root string) *Builder {
	t.Helper()
	return &Builder{t: t, fs: fs, root: root, version: DefaultVersion, docs: make(map[string]string)}
}

// WithVersion sets the version used by crates without an explicit Version option.
func (b *Builder) WithVersion(v string) *Builder {
	b.version = v
	return b
}

// WithCrate adds a crate with optional configuration.
func (b *Builder) WithCrate(name string, opts ...CrateOption) *Builder {
	c := defaultCrate(name)
	for _, opt := range opts {
		opt(&c)
	}
	b.crates = append(b.crates, c)
	return b
}

// WithDoc adds a document at a workspace-relative path.
func (b *Builder) WithDoc(path, content string) *Builder {
	if _, ok := b.docs[path]; !ok {
		b.order = append(b.order, path)
	}
	b.docs[path] = content
	return b
}

// Build writes every crate manifest, artifact and document and returns the
// package configuration describing them.
func (b *Builder) Build() []config.PackageConfig {
	b.t.Helper()

	paths := make(map[string]string, len(b.crates))
	for _, c := range b.crates {
		paths[c.name] = c.path
	}

	var members []string
	cfgs := make([]config.PackageConfig, 0, len(b.crates))
	for _, c := range b.crates {
		if c.version == "" {
			c.version = b.version
		}
		b.write(filepath.Join(c.path, "Cargo.toml"), b.manifest(c, paths))
		b.write(filepath.Join(c.path, "src", "lib.rs"), "")
		if c.artifactSize > 0 {
			b.write(filepath.Join(c.path, "src", "bindings_pregenerated.rs"), strings.Repeat("/", c.artifactSize))
		}
		members = append(members, fmt.Sprintf("    %q,", c.path))
		cfgs = append(cfgs, config.PackageConfig{Name: c.name, Path: c.path, Kind: c.kind, Dependencies: c.extraDeps})
	}

	b.write("Cargo.toml", "[workspace]\nresolver = \"2\"\nmembers = [\n"+strings.Join(members, "\n")+"\n]\n")
	for _, path := range b.order {
		b.write(path, b.docs[path])
	}
	return cfgs
}

func (b *Builder) manifest(c crateData, paths map[string]string) string {
	var sb strings.Builder
	sb.WriteString("[package]\n")
	fmt.Fprintf(&sb, "name = %q\n", c.name)
	fmt.Fprintf(&sb, "version = %q\n", c.version)
	sb.WriteString("edition = \"2021\"\n")
	if c.links != "" {
		fmt.Fprintf(&sb, "links = %q\n", c.links)
	}

	writeDeps := func(section string, deps []string) {
		if len(deps) == 0 && (section != "dependencies" || len(c.external) == 0) {
			return
		}
		fmt.Fprintf(&sb, "\n[%s]\n", section)
		for _, dep := range deps {
			rel, err := filepath.Rel(c.path, paths[dep])
			require.NoError(b.t, err)
			fmt.Fprintf(&sb, "%s = { path = %q, version = %q }\n", dep, filepath.ToSlash(rel), c.pin(dep, b.version))
		}
		if section == "dependencies" {
			for _, ext := range c.external {
				sb.WriteString(ext + "\n")
			}
		}
	}
	writeDeps("dependencies", c.deps)
	writeDeps("build-dependencies", c.buildDeps)
	if len(c.devDeps) > 0 {
		sb.WriteString("\n[dev-dependencies]\n")
		for _, dep := range c.devDeps {
			rel, err := filepath.Rel(c.path, paths[dep])
			require.NoError(b.t, err)
			fmt.Fprintf(&sb, "%s = { path = %q }\n", dep, filepath.ToSlash(rel))
		}
	}
	return sb.String()
}

func (b *Builder) write(rel, content string) {
	b.t.Helper()
	path := filepath.Join(b.root, rel)
	require.NoError(b.t, b.fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(b.t, afero.WriteFile(b.fs, path, []byte(content), 0o644))
}
