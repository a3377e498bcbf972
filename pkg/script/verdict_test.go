package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdict_BareJSON(t *testing.T) {
	v, err := ParseVerdict(`{"valid": true, "reason": "looks good"}`)
	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Equal(t, "looks good", v.Reason)
}

func TestParseVerdict_FencedJSON(t *testing.T) {
	v, err := ParseVerdict("Here is my verdict:\n```json\n{\"valid\": false, \"reason\": \"missing teardown\"}\n```\n")
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Equal(t, "missing teardown", v.Reason)
}

func TestParseVerdict_RegexExtractableFragment(t *testing.T) {
	v, err := ParseVerdict("I believe {\"valid\": true, \"reason\": \"ok\"} is correct, thanks.")
	require.NoError(t, err)
	assert.True(t, v.Valid)
}

func TestParseVerdict_SeparateFieldMatches(t *testing.T) {
	v, err := ParseVerdict("The model said... \"valid\": false and separately \"reason\": \"script never closes the browser\"")
	require.NoError(t, err)
	assert.False(t, v.Valid)
}

func TestParseVerdict_PlainTextInvalidOutranksValid(t *testing.T) {
	v, err := ParseVerdict("This looks mostly VALID but I consider it INVALID overall.")
	require.NoError(t, err)
	assert.False(t, v.Valid)
}

func TestParseVerdict_PlainTextValid(t *testing.T) {
	v, err := ParseVerdict("The script is VALID.")
	require.NoError(t, err)
	assert.True(t, v.Valid)
}

func TestParseVerdict_Unparsable(t *testing.T) {
	_, err := ParseVerdict("I have no opinion on this script.")
	assert.ErrorIs(t, err, ErrUnparsableVerdict)
}
