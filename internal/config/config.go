// Package config provides configuration types and defaults for releasetrain.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/zjrosen/releasetrain/internal/log"
)

// Workspace-relative locations of releasetrain's own files.
const (
	DirName     = ".releasetrain"
	FileName    = "config.yaml"
	HistoryFile = "history.db"
	LockFile    = "publish.lock"
	LogFile     = "debug.log"
)

// Package kinds. The kind determines the publish tier and whether the package
// ships pregenerated native bindings.
const (
	KindCore               = "core"
	KindBackend            = "backend"
	KindExtensionSys       = "extension-sys"
	KindExtensionHighLevel = "extension-highlevel"
	KindApplication        = "application"
)

// Registry lookup modes.
const (
	LookupIndex  = "index"
	LookupSearch = "search"
)

// PackageConfig declares one publishable package of the workspace.
type PackageConfig struct {
	Name string `mapstructure:"name"`
	Path string `mapstructure:"path"` // directory holding Cargo.toml, relative to the workspace root
	Kind string `mapstructure:"kind"`
	// Dependencies adds in-workspace edges on top of those read from the manifest.
	Dependencies []string `mapstructure:"dependencies"`
	// Artifacts overrides checks.artifact_path for this package.
	Artifacts []string `mapstructure:"artifacts"`
}

// Config holds all configuration options for releasetrain.
type Config struct {
	Root     string          `mapstructure:"root"` // workspace root (default: current directory)
	Packages []PackageConfig `mapstructure:"packages"`
	Plan     []string        `mapstructure:"plan"`
	Bump     BumpConfig      `mapstructure:"bump"`
	Registry RegistryConfig  `mapstructure:"registry"`
	Checks   ChecksConfig    `mapstructure:"checks"`
	Bindings BindingsConfig  `mapstructure:"bindings"`
	History  HistoryConfig   `mapstructure:"history"`
	Metrics  MetricsConfig   `mapstructure:"metrics"`
	Tracing  TracingConfig   `mapstructure:"tracing"`
	Debug    bool            `mapstructure:"debug"`
}

// BumpConfig holds version bump options.
type BumpConfig struct {
	// DocFiles lists README/compatibility documents whose version references
	// are rewritten together with the manifests.
	DocFiles []string `mapstructure:"doc_files"`
}

// RegistryConfig holds registry and publish options.
type RegistryConfig struct {
	Lookup   string `mapstructure:"lookup"`    // "index" (default) or "search"
	IndexURL string `mapstructure:"index_url"` // sparse index base URL
	Cargo    string `mapstructure:"cargo"`     // cargo binary
	// WaitSeconds is the fixed post-publish propagation delay.
	WaitSeconds     int  `mapstructure:"wait_seconds"`
	NoVerify        bool `mapstructure:"no_verify"`
	CacheTTLSeconds int  `mapstructure:"cache_ttl_seconds"`
	TimeoutSeconds  int  `mapstructure:"timeout_seconds"` // per index request
}

// ChecksConfig holds pre-publish validation options.
type ChecksConfig struct {
	SkipVersions  bool `mapstructure:"skip_versions"`
	SkipArtifacts bool `mapstructure:"skip_artifacts"`
	SkipGit       bool `mapstructure:"skip_git"`
	SkipLockfile  bool `mapstructure:"skip_lockfile"`
	SkipDocs      bool `mapstructure:"skip_docs"`
	SkipTests     bool `mapstructure:"skip_tests"`

	ArtifactPath     string `mapstructure:"artifact_path"`      // relative to each package dir
	MinArtifactBytes int64  `mapstructure:"min_artifact_bytes"` // smaller files count as missing
	OfflineEnv       string `mapstructure:"offline_env"`        // env flag forcing offline doc builds
	DocScope         string `mapstructure:"doc_scope"`          // "sys" (default) or "all"
}

// BindingsConfig configures the external binding generator.
type BindingsConfig struct {
	Command    []string `mapstructure:"command"`
	Profile    string   `mapstructure:"profile"`    // debug or release
	Submodules string   `mapstructure:"submodules"` // auto, update or skip
}

// HistoryConfig controls the run history database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // default: <root>/.releasetrain/history.db
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	// TextfilePath, when set, receives the run metrics in Prometheus text
	// format (node_exporter textfile collector).
	TextfilePath string `mapstructure:"textfile_path"`
}

// TracingConfig holds distributed tracing configuration for release runs.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	// Default: "file"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: <root>/.releasetrain/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// Package returns the package with the given name.
func (c Config) Package(name string) (PackageConfig, bool) {
	for _, p := range c.Packages {
		if p.Name == name {
			return p, true
		}
	}
	return PackageConfig{}, false
}

// PackageNames returns every configured package name in declaration order.
func (c Config) PackageNames() []string {
	names := make([]string, len(c.Packages))
	for i, p := range c.Packages {
		names[i] = p.Name
	}
	return names
}

// StateDir returns the directory holding releasetrain's own files.
func (c Config) StateDir() string {
	return filepath.Join(c.Root, DirName)
}

// HistoryPath returns the configured history database path or its default.
func (c Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(c.StateDir(), HistoryFile)
}

// TracesPath returns the configured trace file path or its default.
func (c Config) TracesPath() string {
	if c.Tracing.FilePath != "" {
		return c.Tracing.FilePath
	}
	return filepath.Join(c.StateDir(), "traces.jsonl")
}

// DefaultPackages describes the dear-imgui-rs workspace.
func DefaultPackages() []PackageConfig {
	return []PackageConfig{
		{Name: "dear-imgui-sys", Path: "dear-imgui-sys", Kind: KindCore},
		{Name: "dear-imgui-rs", Path: "dear-imgui", Kind: KindCore},
		{Name: "dear-imgui-winit", Path: "backends/dear-imgui-winit", Kind: KindBackend},
		{Name: "dear-imgui-wgpu", Path: "backends/dear-imgui-wgpu", Kind: KindBackend},
		{Name: "dear-imgui-glow", Path: "backends/dear-imgui-glow", Kind: KindBackend},
		{Name: "dear-implot-sys", Path: "extensions/dear-implot-sys", Kind: KindExtensionSys},
		{Name: "dear-imnodes-sys", Path: "extensions/dear-imnodes-sys", Kind: KindExtensionSys},
		{Name: "dear-imguizmo-sys", Path: "extensions/dear-imguizmo-sys", Kind: KindExtensionSys},
		{Name: "dear-implot3d-sys", Path: "extensions/dear-implot3d-sys", Kind: KindExtensionSys},
		{Name: "dear-imguizmo-quat-sys", Path: "extensions/dear-imguizmo-quat-sys", Kind: KindExtensionSys},
		{Name: "dear-implot", Path: "extensions/dear-implot", Kind: KindExtensionHighLevel},
		{Name: "dear-imnodes", Path: "extensions/dear-imnodes", Kind: KindExtensionHighLevel},
		{Name: "dear-imguizmo", Path: "extensions/dear-imguizmo", Kind: KindExtensionHighLevel},
		{Name: "dear-implot3d", Path: "extensions/dear-implot3d", Kind: KindExtensionHighLevel},
		{Name: "dear-imguizmo-quat", Path: "extensions/dear-imguizmo-quat", Kind: KindExtensionHighLevel},
		{Name: "dear-file-browser", Path: "extensions/dear-file-browser", Kind: KindExtensionHighLevel},
		{Name: "dear-app", Path: "dear-app", Kind: KindApplication},
	}
}

// DefaultPlan returns the declared publish order for DefaultPackages.
func DefaultPlan() []string {
	return []string{
		// core
		"dear-imgui-sys",
		"dear-imgui-rs",
		// backends
		"dear-imgui-winit",
		"dear-imgui-wgpu",
		"dear-imgui-glow",
		// extension sys crates
		"dear-implot-sys",
		"dear-imnodes-sys",
		"dear-imguizmo-sys",
		"dear-implot3d-sys",
		"dear-imguizmo-quat-sys",
		// extension high-level crates
		"dear-implot",
		"dear-imnodes",
		"dear-imguizmo",
		"dear-implot3d",
		"dear-imguizmo-quat",
		"dear-file-browser",
		// application
		"dear-app",
	}
}

// DefaultDocFiles lists the README files carrying version references.
func DefaultDocFiles() []string {
	return []string{
		"README.md",
		"backends/dear-imgui-wgpu/README.md",
		"backends/dear-imgui-glow/README.md",
		"backends/dear-imgui-winit/README.md",
		"dear-app/README.md",
		"extensions/dear-implot/README.md",
		"extensions/dear-imnodes/README.md",
		"extensions/dear-imguizmo/README.md",
		"extensions/dear-implot3d/README.md",
		"extensions/dear-imguizmo-quat/README.md",
		"extensions/dear-file-browser/README.md",
	}
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Packages: DefaultPackages(),
		Plan:     DefaultPlan(),
		Bump: BumpConfig{
			DocFiles: DefaultDocFiles(),
		},
		Registry: RegistryConfig{
			Lookup:          LookupIndex,
			IndexURL:        "https://index.crates.io",
			Cargo:           "cargo",
			WaitSeconds:     30,
			CacheTTLSeconds: 60,
			TimeoutSeconds:  15,
		},
		Checks: ChecksConfig{
			ArtifactPath:     "src/bindings_pregenerated.rs",
			MinArtifactBytes: 1000,
			OfflineEnv:       "DOCS_RS",
			DocScope:         "sys",
		},
		Bindings: BindingsConfig{
			Command:    []string{"python", "tools/update_submodule_and_bindings.py"},
			Profile:    "release",
			Submodules: "skip",
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

var validKinds = []string{KindCore, KindBackend, KindExtensionSys, KindExtensionHighLevel, KindApplication}

// ValidKind reports whether kind is one of the known package kinds.
func ValidKind(kind string) bool {
	return slices.Contains(validKinds, kind)
}

// Validate checks the whole configuration.
func Validate(c Config) error {
	if err := ValidatePackages(c.Packages); err != nil {
		return err
	}
	if err := ValidatePlan(c.Plan, c.Packages); err != nil {
		return err
	}
	if err := ValidateRegistry(c.Registry); err != nil {
		return err
	}
	if err := ValidateChecks(c.Checks); err != nil {
		return err
	}
	if err := ValidateBindings(c.Bindings); err != nil {
		return err
	}
	return ValidateTracing(c.Tracing)
}

// ValidatePackages checks the package registry for errors.
func ValidatePackages(pkgs []PackageConfig) error {
	if len(pkgs) == 0 {
		return fmt.Errorf("packages: at least one package is required")
	}
	seen := make(map[string]bool, len(pkgs))
	for i, p := range pkgs {
		if p.Name == "" {
			return fmt.Errorf("package %d: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("package %d (%s): duplicate name", i, p.Name)
		}
		seen[p.Name] = true
		if p.Path == "" {
			return fmt.Errorf("package %d (%s): path is required", i, p.Name)
		}
		if filepath.IsAbs(p.Path) {
			return fmt.Errorf("package %d (%s): path must be relative to the workspace root, got %q", i, p.Name, p.Path)
		}
		if !ValidKind(p.Kind) {
			return fmt.Errorf("package %d (%s): invalid kind %q (must be one of %v)", i, p.Name, p.Kind, validKinds)
		}
	}
	return nil
}

// ValidatePlan checks that the plan names known packages exactly once.
// Dependency order is checked separately, against the loaded manifests.
func ValidatePlan(plan []string, pkgs []PackageConfig) error {
	if len(plan) == 0 {
		return fmt.Errorf("plan: at least one package is required")
	}
	known := make(map[string]bool, len(pkgs))
	for _, p := range pkgs {
		known[p.Name] = true
	}
	seen := make(map[string]bool, len(plan))
	for i, name := range plan {
		if !known[name] {
			return fmt.Errorf("plan position %d: unknown package %q", i, name)
		}
		if seen[name] {
			return fmt.Errorf("plan position %d: package %q listed twice", i, name)
		}
		seen[name] = true
	}
	return nil
}

// ValidateRegistry checks registry options.
func ValidateRegistry(r RegistryConfig) error {
	switch r.Lookup {
	case "", LookupIndex, LookupSearch:
	default:
		return fmt.Errorf("registry.lookup must be %q or %q, got %q", LookupIndex, LookupSearch, r.Lookup)
	}
	if r.WaitSeconds < 0 {
		return fmt.Errorf("registry.wait_seconds must not be negative, got %d", r.WaitSeconds)
	}
	if r.CacheTTLSeconds < 0 {
		return fmt.Errorf("registry.cache_ttl_seconds must not be negative, got %d", r.CacheTTLSeconds)
	}
	if r.Lookup != LookupSearch && r.IndexURL == "" {
		return fmt.Errorf("registry.index_url is required for index lookups")
	}
	return nil
}

// ValidateChecks checks pre-publish validation options.
func ValidateChecks(c ChecksConfig) error {
	if c.MinArtifactBytes < 0 {
		return fmt.Errorf("checks.min_artifact_bytes must not be negative, got %d", c.MinArtifactBytes)
	}
	switch c.DocScope {
	case "", "sys", "all":
	default:
		return fmt.Errorf("checks.doc_scope must be \"sys\" or \"all\", got %q", c.DocScope)
	}
	return nil
}

// ValidateBindings checks binding generator options.
func ValidateBindings(b BindingsConfig) error {
	switch b.Profile {
	case "", "debug", "release":
	default:
		return fmt.Errorf("bindings.profile must be \"debug\" or \"release\", got %q", b.Profile)
	}
	switch b.Submodules {
	case "", "auto", "update", "skip":
	default:
		return fmt.Errorf("bindings.submodules must be \"auto\", \"update\" or \"skip\", got %q", b.Submodules)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}
	return nil
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
