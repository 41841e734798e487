package testutil

import "github.com/zjrosen/releasetrain/internal/config"

// WithStandardWorkspace adds a small workspace covering every tier:
//
//	imgui-sys -> imgui -> imgui-wgpu
//	imgui-sys -> plot-sys -> plot -> app
func (b *Builder) WithStandardWorkspace() *Builder {
	return b.
		WithCrate("imgui-sys", Kind(config.KindCore), Links("dear_imgui"), Artifact(2048)).
		WithCrate("imgui", Path("imgui-rs"), Kind(config.KindCore), DependsOn("imgui-sys")).
		WithCrate("imgui-wgpu", Path("backends/imgui-wgpu"), Kind(config.KindBackend), DependsOn("imgui"), External(`wgpu = "0.4"`)).
		WithCrate("plot-sys", Path("extensions/plot-sys"), Kind(config.KindExtensionSys), BuildDependsOn("imgui-sys"), Artifact(2048)).
		WithCrate("plot", Path("extensions/plot"), Kind(config.KindExtensionHighLevel), DependsOn("imgui", "plot-sys"), DevDependsOn("imgui-wgpu")).
		WithCrate("app", Kind(config.KindApplication), DependsOn("imgui", "imgui-wgpu", "plot")).
		WithDoc("README.md", StandardReadme)
}

// StandardPlan is a valid publish order for WithStandardWorkspace.
func StandardPlan() []string {
	return []string{"imgui-sys", "imgui", "imgui-wgpu", "plot-sys", "plot", "app"}
}

// StandardReadme is a README carrying the version references a bump rewrites.
const StandardReadme = `# imgui

| Crate | Version |
|-------|---------|
| imgui | 0.4.x |
| plot | 0.4.x |

` + "```toml" + `
[dependencies]
imgui = "0.4"
plot = { version = "0.4" }
wgpu = "0.4"
` + "```" + `
`
