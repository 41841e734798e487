package testutil

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/releasetrain/internal/config"
)

func TestBuilder_WithCrate(t *testing.T) {
	fs := afero.NewMemMapFs()

	cfgs := NewBuilder(t, fs, "/ws").
		WithCrate("core", Kind(config.KindCore), Links("native"), Artifact(10)).
		WithCrate("ext", Path("extensions/ext"), DependsOn("core"), External(`log = "0.4"`)).
		Build()

	require.Equal(t, []config.PackageConfig{
		{Name: "core", Path: "core", Kind: config.KindCore},
		{Name: "ext", Path: "extensions/ext", Kind: config.KindExtensionHighLevel},
	}, cfgs)

	data, err := afero.ReadFile(fs, "/ws/core/Cargo.toml")
	require.NoError(t, err)
	require.Contains(t, string(data), `name = "core"`)
	require.Contains(t, string(data), `version = "0.4.0"`)
	require.Contains(t, string(data), `links = "native"`)

	data, err = afero.ReadFile(fs, "/ws/extensions/ext/Cargo.toml")
	require.NoError(t, err)
	require.Contains(t, string(data), `core = { path = "../../core", version = "0.4" }`)
	require.Contains(t, string(data), `log = "0.4"`)

	info, err := fs.Stat(filepath.Join("/ws", "core", "src", "bindings_pregenerated.rs"))
	require.NoError(t, err)
	require.EqualValues(t, 10, info.Size())

	data, err = afero.ReadFile(fs, "/ws/Cargo.toml")
	require.NoError(t, err)
	require.Contains(t, string(data), `"extensions/ext",`)
}

func TestBuilder_VersionAndPins(t *testing.T) {
	fs := afero.NewMemMapFs()

	NewBuilder(t, fs, "/ws").
		WithVersion("1.2.3").
		WithCrate("a").
		WithCrate("b", DependsOn("a"), Pin("a", "1.2.3")).
		WithCrate("c", Version("9.9.9"), DependsOn("a")).
		Build()

	data, err := afero.ReadFile(fs, "/ws/b/Cargo.toml")
	require.NoError(t, err)
	require.Contains(t, string(data), `version = "1.2.3"`)
	require.Contains(t, string(data), `a = { path = "../a", version = "1.2.3" }`)

	data, err = afero.ReadFile(fs, "/ws/c/Cargo.toml")
	require.NoError(t, err)
	require.Contains(t, string(data), `version = "9.9.9"`)
	require.Contains(t, string(data), `a = { path = "../a", version = "1.2" }`)
}

func TestBuilder_StandardWorkspace(t *testing.T) {
	fs := afero.NewMemMapFs()

	cfgs := NewBuilder(t, fs, "/ws").WithStandardWorkspace().Build()

	names := make([]string, len(cfgs))
	for i, c := range cfgs {
		names[i] = c.Name
	}
	require.Equal(t, StandardPlan(), names)
	require.NoError(t, config.ValidatePackages(cfgs))

	data, err := afero.ReadFile(fs, "/ws/README.md")
	require.NoError(t, err)
	require.Equal(t, StandardReadme, string(data))
}
