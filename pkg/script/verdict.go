package script

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/robotforge/robotforge/pkg/models"
)

// ErrUnparsableVerdict is returned when none of the five accepted verdict
// forms could be recovered from the validator's raw text. Callers must
// never forward the raw text to the user on this error.
var ErrUnparsableVerdict = errors.New("script: could not parse validator verdict")

var fencedJSONPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
var jsonObjectPattern = regexp.MustCompile(`(?s)\{[^{}]*"valid"[^{}]*"reason"[^{}]*\}`)
var validFieldPattern = regexp.MustCompile(`(?i)"valid"\s*:\s*(true|false)`)
var reasonFieldPattern = regexp.MustCompile(`(?i)"reason"\s*:\s*"((?:[^"\\]|\\.)*)"`)
var validTokenPattern = regexp.MustCompile(`(?i)\bVALID\b`)
var invalidTokenPattern = regexp.MustCompile(`(?i)\bINVALID\b`)

type rawVerdict struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}

// ParseVerdict recovers a ValidatorVerdict from raw validator text. It
// tries, in order: bare JSON, fenced JSON, a regex-extractable JSON
// fragment, separate valid/reason field matches, then plain VALID/INVALID
// tokens (INVALID outranks VALID when both appear). The first strategy
// that successfully parses wins.
func ParseVerdict(text string) (*models.ValidatorVerdict, error) {
	trimmed := strings.TrimSpace(text)

	if v, ok := tryJSON(trimmed); ok {
		return v, nil
	}
	if m := fencedJSONPattern.FindStringSubmatch(text); m != nil {
		if v, ok := tryJSON(m[1]); ok {
			return v, nil
		}
	}
	if m := jsonObjectPattern.FindString(text); m != "" {
		if v, ok := tryJSON(m); ok {
			return v, nil
		}
	}
	if vm := validFieldPattern.FindStringSubmatch(text); vm != nil {
		v := &models.ValidatorVerdict{Valid: strings.EqualFold(vm[1], "true")}
		if rm := reasonFieldPattern.FindStringSubmatch(text); rm != nil {
			v.Reason = rm[1]
		}
		return v, nil
	}
	if invalidTokenPattern.MatchString(text) {
		return &models.ValidatorVerdict{Valid: false, Reason: strings.TrimSpace(text)}, nil
	}
	if validTokenPattern.MatchString(text) {
		return &models.ValidatorVerdict{Valid: true, Reason: strings.TrimSpace(text)}, nil
	}

	return nil, ErrUnparsableVerdict
}

func tryJSON(s string) (*models.ValidatorVerdict, bool) {
	var rv rawVerdict
	if err := json.Unmarshal([]byte(s), &rv); err != nil {
		return nil, false
	}
	return &models.ValidatorVerdict{Valid: rv.Valid, Reason: rv.Reason}, true
}
