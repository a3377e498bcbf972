package agent

import "regexp"

// fullURLPattern matches an explicit http(s) URL anywhere in the query text.
var fullURLPattern = regexp.MustCompile(`https?://[^\s"'<>]+`)

// bareDomainPattern matches a bare domain with a recognized TLD, e.g.
// "example.com" or "app.example.co.uk".
var bareDomainPattern = regexp.MustCompile(`\b([a-zA-Z0-9][a-zA-Z0-9-]*(?:\.[a-zA-Z0-9][a-zA-Z0-9-]*)+\.(?:com|org|net|io|dev|co|app))\b`)

// prepositionWordPattern matches a single bare word following a navigation
// preposition ("on", "at", "from", "visit", "go to", "open"), e.g.
// "go to shop" or "visit example".
var prepositionWordPattern = regexp.MustCompile(`(?i)\b(?:on|at|from|visit|go to|open)\s+([a-zA-Z0-9][a-zA-Z0-9-]*)\b`)

// ExtractURL tries, in order: a full http(s) URL, a bare domain with a
// recognized TLD, then a word following a navigation preposition
// (synthesized as https://www.<word>.com). Returns "" when none match; the
// identifier then passes that empty URL on to the probe collaborator.
func ExtractURL(query string) string {
	if m := fullURLPattern.FindString(query); m != "" {
		return m
	}
	if m := bareDomainPattern.FindStringSubmatch(query); m != nil {
		return "https://" + m[1]
	}
	if m := prepositionWordPattern.FindStringSubmatch(query); m != nil {
		return "https://www." + m[1] + ".com"
	}
	return ""
}
