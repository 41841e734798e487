package config

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# releasetrain configuration

# Workspace root (default: current directory)
# root: /path/to/workspace

# Publishable packages. Kinds: core, backend, extension-sys,
# extension-highlevel, application. In-workspace dependencies are read from
# each Cargo.toml; "dependencies" adds extra edges.
packages:
  - name: dear-imgui-sys
    path: dear-imgui-sys
    kind: core
  - name: dear-imgui-rs
    path: dear-imgui
    kind: core
  - name: dear-imgui-winit
    path: backends/dear-imgui-winit
    kind: backend
  - name: dear-imgui-wgpu
    path: backends/dear-imgui-wgpu
    kind: backend
  - name: dear-imgui-glow
    path: backends/dear-imgui-glow
    kind: backend
  - name: dear-implot-sys
    path: extensions/dear-implot-sys
    kind: extension-sys
  - name: dear-imnodes-sys
    path: extensions/dear-imnodes-sys
    kind: extension-sys
  - name: dear-imguizmo-sys
    path: extensions/dear-imguizmo-sys
    kind: extension-sys
  - name: dear-implot3d-sys
    path: extensions/dear-implot3d-sys
    kind: extension-sys
  - name: dear-imguizmo-quat-sys
    path: extensions/dear-imguizmo-quat-sys
    kind: extension-sys
  - name: dear-implot
    path: extensions/dear-implot
    kind: extension-highlevel
  - name: dear-imnodes
    path: extensions/dear-imnodes
    kind: extension-highlevel
  - name: dear-imguizmo
    path: extensions/dear-imguizmo
    kind: extension-highlevel
  - name: dear-implot3d
    path: extensions/dear-implot3d
    kind: extension-highlevel
  - name: dear-imguizmo-quat
    path: extensions/dear-imguizmo-quat
    kind: extension-highlevel
  - name: dear-file-browser
    path: extensions/dear-file-browser
    kind: extension-highlevel
  - name: dear-app
    path: dear-app
    kind: application

# Publish order. Every package must come after the workspace packages it
# depends on; 'releasetrain plan' checks this.
plan:
  - dear-imgui-sys
  - dear-imgui-rs
  - dear-imgui-winit
  - dear-imgui-wgpu
  - dear-imgui-glow
  - dear-implot-sys
  - dear-imnodes-sys
  - dear-imguizmo-sys
  - dear-implot3d-sys
  - dear-imguizmo-quat-sys
  - dear-implot
  - dear-imnodes
  - dear-imguizmo
  - dear-implot3d
  - dear-imguizmo-quat
  - dear-file-browser
  - dear-app

bump:
  # Documents whose version references move with the manifests
  doc_files:
    - README.md
    - backends/dear-imgui-wgpu/README.md
    - backends/dear-imgui-glow/README.md
    - backends/dear-imgui-winit/README.md
    - dear-app/README.md
    - extensions/dear-implot/README.md
    - extensions/dear-imnodes/README.md
    - extensions/dear-imguizmo/README.md
    - extensions/dear-implot3d/README.md
    - extensions/dear-imguizmo-quat/README.md
    - extensions/dear-file-browser/README.md

registry:
  lookup: index                       # "index" (sparse index) or "search" (cargo search)
  index_url: https://index.crates.io
  cargo: cargo
  wait_seconds: 30                    # fixed delay after each publish
  no_verify: false
  cache_ttl_seconds: 60
  timeout_seconds: 15

checks:
  artifact_path: src/bindings_pregenerated.rs
  min_artifact_bytes: 1000
  offline_env: DOCS_RS                # set to 1 for the offline doc build
  doc_scope: sys                      # "sys" or "all"
  # skip_git: true

bindings:
  command: ["python", "tools/update_submodule_and_bindings.py"]
  profile: release                    # debug or release
  submodules: skip                    # auto, update or skip

history:
  enabled: true
  # path: .releasetrain/history.db

metrics:
  # textfile_path: /var/lib/node_exporter/releasetrain.prom

tracing:
  enabled: false
  exporter: file                      # none, file, stdout, otlp
  # file_path: .releasetrain/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
`
}
