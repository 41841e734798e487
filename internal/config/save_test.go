package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestSavePlan_CreatesNewFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), DirName, FileName)

	require.NoError(t, SavePlan(configPath, []string{"a", "b"}))

	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())
	require.Equal(t, []string{"a", "b"}, v.GetStringSlice("plan"))
}

func TestSavePlan_PreservesOtherConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	initial := `# workspace settings
registry:
  wait_seconds: 10 # shorter for testing
plan:
  - old
`
	require.NoError(t, os.WriteFile(configPath, []byte(initial), 0o600))

	require.NoError(t, SavePlan(configPath, []string{"core", "app"}))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "# workspace settings")
	require.Contains(t, string(data), "# shorter for testing")
	require.NotContains(t, string(data), "old")

	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())
	require.Equal(t, []string{"core", "app"}, v.GetStringSlice("plan"))
	require.Equal(t, 10, v.GetInt("registry.wait_seconds"))
}

func TestSavePlan_AppendsMissingKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(configPath, []byte("debug: true\n"), 0o600))

	require.NoError(t, SavePlan(configPath, []string{"x"}))

	v := viper.New()
	v.SetConfigFile(configPath)
	require.NoError(t, v.ReadInConfig())
	require.True(t, v.GetBool("debug"))
	require.Equal(t, []string{"x"}, v.GetStringSlice("plan"))
}

func TestSavePlan_RejectsInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(configPath, []byte("plan: [unclosed\n"), 0o600))

	err := SavePlan(configPath, []string{"x"})
	require.ErrorContains(t, err, "parsing config")

	// Original content untouched
	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	require.Equal(t, "plan: [unclosed\n", string(data))
}

func TestSavePlan_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, FileName)

	require.NoError(t, SavePlan(configPath, []string{"a"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, FileName, entries[0].Name())
}
