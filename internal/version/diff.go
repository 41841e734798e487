package version

import (
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// unifiedDiff renders a line diff of before and after with file headers.
// Only changed lines are shown, prefixed with - and +.
func unifiedDiff(path, before, after string) string {
	if before == after {
		return ""
	}
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	sb.WriteString("--- a/" + path + "\n")
	sb.WriteString("+++ b/" + path + "\n")
	line := 1
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		n := strings.Count(d.Text, "\n")
		if !strings.HasSuffix(d.Text, "\n") {
			n++
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			line += n
		case diffmatchpatch.DiffDelete:
			writeHunk(&sb, line, "-", text)
			line += n
		case diffmatchpatch.DiffInsert:
			writeHunk(&sb, -1, "+", text)
		}
	}
	return sb.String()
}

func writeHunk(sb *strings.Builder, line int, prefix, text string) {
	if line > 0 {
		sb.WriteString("@@ line " + strconv.Itoa(line) + " @@\n")
	}
	for _, l := range strings.Split(text, "\n") {
		sb.WriteString(prefix + l + "\n")
	}
}
