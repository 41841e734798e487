package workspace

import "fmt"

// manifest is the subset of Cargo.toml releasetrain reads.
type manifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version any    `toml:"version"`
		Links   string `toml:"links"`
	} `toml:"package"`
	Dependencies      map[string]any            `toml:"dependencies"`
	BuildDependencies map[string]any            `toml:"build-dependencies"`
	Target            map[string]targetManifest `toml:"target"`
}

type targetManifest struct {
	Dependencies      map[string]any `toml:"dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
}

func (m *manifest) version() (string, error) {
	switch v := m.Package.Version.(type) {
	case string:
		if v == "" {
			return "", fmt.Errorf("manifest has an empty package.version")
		}
		return v, nil
	case map[string]any:
		if inherit, _ := v["workspace"].(bool); inherit {
			return "", ErrInheritedVersion
		}
	case nil:
		return "", fmt.Errorf("manifest has no package.version")
	}
	return "", fmt.Errorf("manifest has an unsupported package.version value %v", m.Package.Version)
}

// dependencyNames returns the registry names of normal and build
// dependencies, honouring `package = "..."` renames. Dev-dependencies are not
// part of the published dependency graph and are skipped.
func (m *manifest) dependencyNames() []string {
	var names []string
	add := func(deps map[string]any) {
		for key, spec := range deps {
			name := key
			if table, ok := spec.(map[string]any); ok {
				if renamed, ok := table["package"].(string); ok && renamed != "" {
					name = renamed
				}
			}
			names = append(names, name)
		}
	}
	add(m.Dependencies)
	add(m.BuildDependencies)
	for _, t := range m.Target {
		add(t.Dependencies)
		add(t.BuildDependencies)
	}
	return names
}
