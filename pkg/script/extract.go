// Package script post-processes raw agent output into a clean Robot
// Framework script and parses the validator's verdict out of whatever
// form the model chose to express it in.
package script

import (
	"regexp"
	"strings"
)

// fencePattern matches opening ```<lang> and closing ``` markdown fences.
// Only the fence markers are stripped — not the content between them —
// so that a script wrapped in a single fence survives intact.
var fencePattern = regexp.MustCompile("(?m)^```[a-zA-Z0-9]*\\s*$")

var (
	settingsHeaderPattern  = regexp.MustCompile(`(?i)\*{3}\s*Settings\s*\*{3}`)
	variablesHeaderPattern = regexp.MustCompile(`(?i)\*{3}\s*Variables\s*\*{3}`)
	testCasesHeaderPattern = regexp.MustCompile(`(?i)\*{3}\s*Test Cases\s*\*{3}`)
)

// Extract turns raw model output into a clean script body. The model
// sometimes wraps its answer in markdown fences, repeats the Settings
// block after an explanatory preamble, or trails off with blank lines —
// Extract recovers the single intended script from all of these.
func Extract(raw string) string {
	body := fencePattern.ReplaceAllString(raw, "")

	if idx := lastIndex(settingsHeaderPattern, body); idx >= 0 {
		body = body[idx:]
	} else if idx := firstIndex(variablesHeaderPattern, body); idx >= 0 {
		body = body[idx:]
	} else if idx := firstIndex(testCasesHeaderPattern, body); idx >= 0 {
		body = body[idx:]
	}

	return strings.TrimRight(body, "\n\r\t ") + "\n"
}

func firstIndex(re *regexp.Regexp, s string) int {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return -1
	}
	return loc[0]
}

func lastIndex(re *regexp.Regexp, s string) int {
	matches := re.FindAllStringIndex(s, -1)
	if len(matches) == 0 {
		return -1
	}
	return matches[len(matches)-1][0]
}
