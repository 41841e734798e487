package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRewriter_Manifest(t *testing.T) {
	rw := newRewriter("0.4.0", "0.5.0", []string{"core", "core-sys"})

	in := `[package]
name = "ext"
version = "0.4.0"

[dependencies]
core = { path = "../core", version = "0.4" }
renamed = { package = "core-sys", path = "../core-sys", version = "=0.4.0" }
serde = { version = "0.4" }
log = "0.4"
core-sys = "^0.4"

[dependencies.other]
version = "0.4"

[target.'cfg(unix)'.build-dependencies.core]
path = "../core"
version = "0.4"

[dev-dependencies]
core = { path = "../core" }
`
	want := `[package]
name = "ext"
version = "0.5.0"

[dependencies]
core = { path = "../core", version = "0.5" }
renamed = { package = "core-sys", path = "../core-sys", version = "=0.5.0" }
serde = { version = "0.4" }
log = "0.4"
core-sys = "^0.5"

[dependencies.other]
version = "0.4"

[target.'cfg(unix)'.build-dependencies.core]
path = "../core"
version = "0.5"

[dev-dependencies]
core = { path = "../core" }
`
	res := rw.manifest(in)
	require.Equal(t, want, res.content)
	require.Equal(t, 1, res.versions)
	require.Empty(t, res.stale)
	require.Len(t, res.changes, 5)
}

func TestRewriter_ManifestOnlyFirstPackageVersion(t *testing.T) {
	rw := newRewriter("0.4.0", "0.5.0", nil)

	res := rw.manifest("[package]\nversion = \"0.4.0\"\n\n[features]\nversion = \"0.4.0\"\n")
	require.Equal(t, "[package]\nversion = \"0.5.0\"\n\n[features]\nversion = \"0.4.0\"\n", res.content)
}

func TestRewriter_Doc(t *testing.T) {
	rw := newRewriter("0.4.0", "0.5.0", []string{"dear-imgui-rs", "dear-implot", "dear-implot-sys"})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"table row", "| dear-implot | 0.4.x | 0.9 |", "| dear-implot | 0.5.x | 0.9 |"},
		{"generic table row", "| Crate | 0.4.x |", "| Crate | 0.5.x |"},
		{"other minor untouched", "| dear-implot | 0.3.x |", "| dear-implot | 0.3.x |"},
		{"example", `dear-imgui-rs = "0.4"`, `dear-imgui-rs = "0.5"`},
		{"full example", `dear-implot-sys = "0.4.0"`, `dear-implot-sys = "0.5.0"`},
		{"inline version key", `dear-implot = { version = "0.4", features = ["x"] }`, `dear-implot = { version = "0.5", features = ["x"] }`},
		{"foreign crate untouched", `wgpu = "0.4"`, `wgpu = "0.4"`},
		{"prefix-sharing name untouched", `my-dear-implot = "0.4"`, `my-dear-implot = "0.4"`},
		{"two references on a line", `dear-imgui-rs = "0.4" and dear-implot = "0.4"`, `dear-imgui-rs = "0.5" and dear-implot = "0.5"`},
		{
			"dependency table snippet",
			"[dependencies.dear-imgui-rs]\nversion = \"0.4\"\nfeatures = [\"docking\"]\n",
			"[dependencies.dear-imgui-rs]\nversion = \"0.5\"\nfeatures = [\"docking\"]\n",
		},
		{"foreign dependency table untouched", "[dependencies.wgpu]\nversion = \"0.4\"\n", "[dependencies.wgpu]\nversion = \"0.4\"\n"},
		{"code fence ends the table", "[dependencies.dear-implot]\n```\nversion = \"0.4\"\n", "[dependencies.dear-implot]\n```\nversion = \"0.4\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changes := rw.doc(tt.in)
			require.Equal(t, tt.want, got)
			if tt.in == tt.want {
				require.Empty(t, changes)
			} else {
				require.Len(t, changes, 1)
			}
		})
	}
}

func TestBumpRequirement(t *testing.T) {
	rw := newRewriter("0.4.0", "1.0.0", nil)

	got, ok := rw.bumpRequirement("0.4")
	require.True(t, ok)
	require.Equal(t, "1.0", got)

	got, ok = rw.bumpRequirement("= 0.4.0")
	require.True(t, ok)
	require.Equal(t, "= 1.0.0", got)

	_, ok = rw.bumpRequirement("0.3")
	require.False(t, ok)
}
