package script

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_StripsFencesAndPreamble(t *testing.T) {
	raw := "Sure, here is the script:\n```robot\n*** Settings ***\nLibrary    SeleniumLibrary\n\n*** Test Cases ***\nOpen the page\n    Open Browser    https://example.com    chrome\n```\n\n"

	out := Extract(raw)

	assert.True(t, strings.HasPrefix(out, "*** Settings ***"))
	assert.NotContains(t, out, "```")
	assert.False(t, strings.HasSuffix(out, "\n\n"))
}

func TestExtract_LastSettingsOccurrenceWins(t *testing.T) {
	raw := "*** Settings ***\nLibrary    Old\n\nOn reflection, here is the corrected script:\n\n*** Settings ***\nLibrary    SeleniumLibrary\n*** Test Cases ***\nStep\n    Open Browser    https://example.com    chrome\n"

	out := Extract(raw)

	assert.Equal(t, 1, strings.Count(out, "*** Settings ***"))
	assert.Contains(t, out, "Library    SeleniumLibrary")
	assert.NotContains(t, out, "Library    Old")
}

func TestExtract_FallsBackToTestCasesWhenNoSettings(t *testing.T) {
	raw := "some preamble\n*** Test Cases ***\nStep\n    Log    hi\n"

	out := Extract(raw)

	assert.True(t, strings.HasPrefix(out, "*** Test Cases ***"))
}

func TestExtract_StripsTrailingBlankLines(t *testing.T) {
	raw := "*** Settings ***\nLibrary    SeleniumLibrary\n\n\n\n"

	out := Extract(raw)

	assert.Equal(t, "*** Settings ***\nLibrary    SeleniumLibrary\n", out)
}
