package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaults_AreValid(t *testing.T) {
	require.NoError(t, Validate(Defaults()))
}

func TestDefaults_PlanCoversEveryPackage(t *testing.T) {
	cfg := Defaults()
	require.ElementsMatch(t, cfg.PackageNames(), cfg.Plan)
	require.Len(t, cfg.Plan, 17)
	require.Equal(t, "dear-imgui-sys", cfg.Plan[0])
	require.Equal(t, "dear-app", cfg.Plan[len(cfg.Plan)-1])
}

func TestConfig_Package(t *testing.T) {
	cfg := Defaults()

	p, ok := cfg.Package("dear-imgui-rs")
	require.True(t, ok)
	require.Equal(t, "dear-imgui", p.Path)
	require.Equal(t, KindCore, p.Kind)

	_, ok = cfg.Package("nope")
	require.False(t, ok)
}

func TestConfig_Paths(t *testing.T) {
	cfg := Config{Root: "/ws"}
	require.Equal(t, filepath.Join("/ws", ".releasetrain", "history.db"), cfg.HistoryPath())
	require.Equal(t, filepath.Join("/ws", ".releasetrain", "traces.jsonl"), cfg.TracesPath())

	cfg.History.Path = "/tmp/h.db"
	require.Equal(t, "/tmp/h.db", cfg.HistoryPath())
}

func TestValidatePackages(t *testing.T) {
	tests := []struct {
		name    string
		pkgs    []PackageConfig
		wantErr string
	}{
		{
			name: "valid",
			pkgs: []PackageConfig{{Name: "a", Path: "a", Kind: KindCore}},
		},
		{
			name:    "empty",
			pkgs:    nil,
			wantErr: "at least one package",
		},
		{
			name:    "missing name",
			pkgs:    []PackageConfig{{Path: "a", Kind: KindCore}},
			wantErr: "name is required",
		},
		{
			name: "duplicate",
			pkgs: []PackageConfig{
				{Name: "a", Path: "a", Kind: KindCore},
				{Name: "a", Path: "b", Kind: KindCore},
			},
			wantErr: "duplicate name",
		},
		{
			name:    "missing path",
			pkgs:    []PackageConfig{{Name: "a", Kind: KindCore}},
			wantErr: "path is required",
		},
		{
			name:    "absolute path",
			pkgs:    []PackageConfig{{Name: "a", Path: "/abs/a", Kind: KindCore}},
			wantErr: "must be relative",
		},
		{
			name:    "bad kind",
			pkgs:    []PackageConfig{{Name: "a", Path: "a", Kind: "plugin"}},
			wantErr: "invalid kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackages(tt.pkgs)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidatePlan(t *testing.T) {
	pkgs := []PackageConfig{
		{Name: "a", Path: "a", Kind: KindCore},
		{Name: "b", Path: "b", Kind: KindBackend},
	}

	require.NoError(t, ValidatePlan([]string{"a", "b"}, pkgs))
	require.NoError(t, ValidatePlan([]string{"b"}, pkgs), "plan may name a subset")

	err := ValidatePlan(nil, pkgs)
	require.ErrorContains(t, err, "at least one package")

	err = ValidatePlan([]string{"a", "c"}, pkgs)
	require.ErrorContains(t, err, `unknown package "c"`)

	err = ValidatePlan([]string{"a", "b", "a"}, pkgs)
	require.ErrorContains(t, err, "listed twice")
}

func TestValidateRegistry(t *testing.T) {
	require.NoError(t, ValidateRegistry(Defaults().Registry))
	require.NoError(t, ValidateRegistry(RegistryConfig{Lookup: LookupSearch}))

	require.ErrorContains(t, ValidateRegistry(RegistryConfig{Lookup: "ftp"}), "registry.lookup")
	require.ErrorContains(t, ValidateRegistry(RegistryConfig{Lookup: LookupIndex, IndexURL: "x", WaitSeconds: -1}), "wait_seconds")
	require.ErrorContains(t, ValidateRegistry(RegistryConfig{Lookup: LookupIndex}), "index_url")
}

func TestValidateChecksAndBindings(t *testing.T) {
	require.NoError(t, ValidateChecks(ChecksConfig{}))
	require.ErrorContains(t, ValidateChecks(ChecksConfig{DocScope: "some"}), "doc_scope")
	require.ErrorContains(t, ValidateChecks(ChecksConfig{MinArtifactBytes: -5}), "min_artifact_bytes")

	require.NoError(t, ValidateBindings(BindingsConfig{Profile: "debug", Submodules: "auto"}))
	require.ErrorContains(t, ValidateBindings(BindingsConfig{Profile: "fast"}), "bindings.profile")
	require.ErrorContains(t, ValidateBindings(BindingsConfig{Submodules: "always"}), "bindings.submodules")
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TracingConfig
		wantErr bool
	}{
		{"empty uses defaults", TracingConfig{}, false},
		{"file exporter", TracingConfig{Enabled: true, Exporter: "file", SampleRate: 1}, false},
		{"bad exporter", TracingConfig{Exporter: "jaeger"}, true},
		{"sample rate too high", TracingConfig{SampleRate: 1.5}, true},
		{"sample rate negative", TracingConfig{SampleRate: -0.1}, true},
		{"otlp without endpoint", TracingConfig{Enabled: true, Exporter: "otlp"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(DefaultConfigTemplate())))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	defaults := Defaults()
	require.Equal(t, defaults.Packages, cfg.Packages)
	require.Equal(t, defaults.Plan, cfg.Plan)
	require.Equal(t, defaults.Bump, cfg.Bump)
	require.Equal(t, defaults.Registry, cfg.Registry)
	require.Equal(t, defaults.Checks, cfg.Checks)
	require.Equal(t, defaults.Bindings, cfg.Bindings)
	require.Equal(t, defaults.History, cfg.History)
	require.Equal(t, defaults.Tracing, cfg.Tracing)
	require.NoError(t, Validate(cfg))
}

func TestWriteDefaultConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", DirName, FileName)

	require.NoError(t, WriteDefaultConfig(configPath))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}
