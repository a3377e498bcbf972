package context

import (
	"strings"
)

// ExtractKeywords scans a finished Robot Framework script's *** Test Cases
// *** section and returns the distinct keyword names it invokes, per the
// line-tokenization rule in §4.2: a line belongs to a keyword call when it
// starts with leading whitespace (it is not a Test Case title) and its
// first non-space token is not itself a Robot Framework section marker, a
// comment, or a bare variable assignment target.
func ExtractKeywords(script string) []string {
	lines := strings.Split(script, "\n")

	inTestCases := false
	seen := make(map[string]struct{})
	var ordered []string

	for _, line := range lines {
		trimmed := strings.TrimRight(line, "\r")
		if isSectionHeader(trimmed) {
			inTestCases = strings.Contains(strings.ToLower(trimmed), "test cases")
			continue
		}
		if !inTestCases {
			continue
		}
		if strings.TrimSpace(trimmed) == "" {
			continue
		}
		// Test case titles start at column 0; keyword calls and their
		// arguments are indented under the title.
		if !strings.HasPrefix(trimmed, " ") && !strings.HasPrefix(trimmed, "\t") {
			continue
		}

		name := firstKeywordToken(trimmed)
		if name == "" {
			continue
		}
		if strings.HasPrefix(name, "#") {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		ordered = append(ordered, name)
	}

	return ordered
}

func isSectionHeader(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "***") && strings.HasSuffix(t, "***")
}

// firstKeywordToken splits an indented test-body line on Robot Framework's
// two-or-more-spaces (or tab) cell separator and returns the keyword name
// cell: it skips a leading variable-assignment cell such as "${result}=",
// and for a bracketed setting like "[Teardown]" or "[Setup]" returns the
// keyword named in the following cell rather than the setting itself.
func firstKeywordToken(line string) string {
	fields := splitCells(line)

	i := 0
	for i < len(fields) {
		f := strings.TrimSpace(fields[i])
		if f == "" {
			i++
			continue
		}
		if strings.HasPrefix(f, "${") || strings.HasPrefix(f, "@{") || strings.HasPrefix(f, "&{") {
			i++
			continue
		}
		if isBracketedSetting(f) {
			i++
			continue
		}
		return f
	}
	return ""
}

func isBracketedSetting(cell string) bool {
	return strings.HasPrefix(cell, "[") && strings.HasSuffix(cell, "]")
}

func splitCells(line string) []string {
	// Robot Framework's plain-text format separates cells with two or more
	// spaces, or a tab.
	replaced := strings.ReplaceAll(line, "\t", "  ")
	var cells []string
	for _, part := range strings.Split(replaced, "  ") {
		if strings.TrimSpace(part) != "" {
			cells = append(cells, part)
		}
	}
	return cells
}
