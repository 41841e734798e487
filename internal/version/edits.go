package version

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Change is one rewritten line.
type Change struct {
	Line   int
	Before string
	After  string
}

const requirement = `([=^~]?\s*\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?)`

var (
	headerPattern        = regexp.MustCompile(`^\s*\[\[?\s*([^\]]+?)\s*\]\]?`)
	versionKeyPattern    = regexp.MustCompile(`^(\s*version\s*=\s*["'])([^"']*)(["'])`)
	inlineDepPattern     = regexp.MustCompile(`^\s*([A-Za-z0-9_-]+|"[^"]+")\s*=\s*\{(.*)\}`)
	inlineVersionPattern = regexp.MustCompile(`(\bversion\s*=\s*["'])([^"']*)(["'])`)
	inlinePackagePattern = regexp.MustCompile(`\bpackage\s*=\s*["']([^"']+)["']`)
	simpleDepPattern     = regexp.MustCompile(`^(\s*([A-Za-z0-9_-]+)\s*=\s*["'])([^"']*)(["'])`)
)

// rewriter computes the line edits of one bump.
type rewriter struct {
	old, new           string
	oldMinor, newMinor string
	names              map[string]bool

	table   *regexp.Regexp
	example *regexp.Regexp
	inline  *regexp.Regexp
}

// newRewriter prepares edits from one version to another touching references
// to names only.
func newRewriter(from, to string, names []string) *rewriter {
	r := &rewriter{
		old:      from,
		new:      to,
		oldMinor: MajorMinor(from),
		newMinor: MajorMinor(to),
		names:    make(map[string]bool, len(names)),
	}
	sorted := slices.Clone(names)
	// Longest first so "plot-sys" is tried before "plot".
	slices.SortFunc(sorted, func(a, b string) int { return len(b) - len(a) })
	quoted := make([]string, len(sorted))
	for i, n := range sorted {
		r.names[n] = true
		quoted[i] = regexp.QuoteMeta(n)
	}
	alt := strings.Join(quoted, "|")

	r.table = regexp.MustCompile(`(\|\s*(?:Crate|` + alt + `)\s*\|\s*)(\d+\.\d+)(\.x\s*\|)`)
	r.example = regexp.MustCompile(`((?:^|[^A-Za-z0-9_-])(?:` + alt + `)\s*=\s*["'])` + requirement + `(["'])`)
	r.inline = regexp.MustCompile(`(^\s*(?:` + alt + `)\s*=\s*\{[^}]*?\bversion\s*=\s*["'])` + requirement + `(["'])`)
	return r
}

// bumpRequirement maps a requirement on the old version to the new one,
// keeping any comparison operator. Requirements on other versions are left alone.
func (r *rewriter) bumpRequirement(req string) (string, bool) {
	base := strings.TrimLeft(req, "=^~ ")
	op := req[:len(req)-len(base)]
	switch base {
	case r.old:
		return op + r.new, true
	case r.oldMinor:
		return op + r.newMinor, true
	}
	return "", false
}

func (r *rewriter) bumpTableMinor(minor string) (string, bool) {
	if minor == r.oldMinor {
		return r.newMinor, true
	}
	return "", false
}

// manifestResult is the outcome of rewriting one Cargo.toml.
type manifestResult struct {
	content  string
	changes  []Change
	versions int      // package.version fields rewritten
	stale    []string // workspace dependency pins on neither old version form
}

// manifest rewrites the package version and the requirements on workspace
// packages in a Cargo.toml.
func (r *rewriter) manifest(content string) manifestResult {
	var res manifestResult
	lines := strings.SplitAfter(content, "\n")
	section := ""
	for i, line := range lines {
		if m := headerPattern.FindStringSubmatch(line); m != nil {
			section = m[1]
			continue
		}

		updated := line
		switch {
		case section == "package":
			if m := versionKeyPattern.FindStringSubmatch(line); m != nil && m[2] == r.old && res.versions == 0 {
				updated = replaceGroup(versionKeyPattern, line, 2, func(string) (string, bool) { return r.new, true })
				res.versions++
			}

		case isDependencySection(section):
			updated = r.dependencyLine(line, &res)

		default:
			if dep, ok := dependencyTable(section); ok && r.names[dep] {
				if m := versionKeyPattern.FindStringSubmatch(line); m != nil {
					updated = r.pin(versionKeyPattern, line, dep, m[2], &res)
				}
			}
		}

		if updated != line {
			lines[i] = updated
			res.changes = append(res.changes, Change{
				Line:   i + 1,
				Before: strings.TrimRight(line, "\r\n"),
				After:  strings.TrimRight(updated, "\r\n"),
			})
		}
	}
	res.content = strings.Join(lines, "")
	return res
}

func (r *rewriter) dependencyLine(line string, res *manifestResult) string {
	if m := inlineDepPattern.FindStringSubmatch(line); m != nil {
		name := strings.Trim(m[1], `"`)
		if p := inlinePackagePattern.FindStringSubmatch(m[2]); p != nil {
			name = p[1]
		}
		if !r.names[name] {
			return line
		}
		v := inlineVersionPattern.FindStringSubmatch(line)
		if v == nil {
			return line // path-only, nothing to pin
		}
		return r.pin(inlineVersionPattern, line, name, v[2], res)
	}
	if m := simpleDepPattern.FindStringSubmatch(line); m != nil && r.names[m[2]] {
		return r.pin(simpleDepPattern, line, m[2], m[3], res)
	}
	return line
}

// pin rewrites the requirement captured by re (group 2 or 3, whichever holds
// req) or records it as stale.
func (r *rewriter) pin(re *regexp.Regexp, line, dep, req string, res *manifestResult) string {
	bumped, ok := r.bumpRequirement(req)
	if !ok {
		res.stale = append(res.stale, fmt.Sprintf("%s = %q", dep, req))
		return line
	}
	group := 2
	if re == simpleDepPattern {
		group = 3
	}
	return replaceGroup(re, line, group, func(string) (string, bool) { return bumped, true })
}

// doc rewrites version references to the given packages in free text:
// compatibility table cells, `name = "X.Y"` examples, inline version keys and
// `version` keys under a `[dependencies.<name>]` snippet header.
func (r *rewriter) doc(content string) (string, []Change) {
	var changes []Change
	lines := strings.SplitAfter(content, "\n")
	section := ""
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			section = ""
		} else if m := headerPattern.FindStringSubmatch(line); m != nil {
			section = m[1]
		}

		updated := replaceGroup(r.table, line, 2, r.bumpTableMinor)
		updated = replaceGroup(r.example, updated, 2, r.bumpRequirement)
		updated = replaceGroup(r.inline, updated, 2, r.bumpRequirement)
		if dep, ok := dependencyTable(section); ok && r.names[dep] {
			updated = replaceGroup(versionKeyPattern, updated, 2, r.bumpRequirement)
		}
		if updated != line {
			lines[i] = updated
			changes = append(changes, Change{
				Line:   i + 1,
				Before: strings.TrimRight(line, "\r\n"),
				After:  strings.TrimRight(updated, "\r\n"),
			})
		}
	}
	return strings.Join(lines, ""), changes
}

func isDependencySection(section string) bool {
	last := section
	if i := strings.LastIndex(section, "."); i >= 0 {
		last = section[i+1:]
	}
	switch last {
	case "dependencies", "build-dependencies", "dev-dependencies":
		return true
	}
	return false
}

// dependencyTable returns the dependency name of a `[dependencies.<name>]` style section.
func dependencyTable(section string) (string, bool) {
	i := strings.LastIndex(section, ".")
	if i < 0 || !isDependencySection(section[:i]) {
		return "", false
	}
	return strings.Trim(section[i+1:], `"'`), true
}

// replaceGroup replaces capture group n of every match of re in s with fn's
// result. Matches for which fn reports false are left untouched.
func replaceGroup(re *regexp.Regexp, s string, n int, fn func(string) (string, bool)) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}
	var sb strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[2*n], m[2*n+1]
		if start < 0 {
			continue
		}
		repl, ok := fn(s[start:end])
		if !ok {
			continue
		}
		sb.WriteString(s[last:start])
		sb.WriteString(repl)
		last = end
	}
	sb.WriteString(s[last:])
	return sb.String()
}
