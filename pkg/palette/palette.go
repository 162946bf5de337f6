// Package palette validates seed colors and extracts palettes from model output.
package palette

import (
	"encoding/json"
	"regexp"

	"github.com/wallseed/wallseed/pkg/models"
)

var hexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidHex reports whether s is exactly "#" followed by six hex digits.
func ValidHex(s string) bool {
	return hexPattern.MatchString(s)
}

// Parse reads text as a JSON object and keeps every known role whose value is
// a valid hex color. It returns false when text is not an object or no role
// survives, and never fails otherwise.
func Parse(text string) (models.Palette, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err != nil || obj == nil {
		return nil, false
	}

	out := models.Palette{}
	for _, role := range models.Roles {
		raw, ok := obj[string(role)]
		if !ok {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			continue
		}
		if ValidHex(value) {
			out[role] = value
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// ParseEnvelope unwraps a {"response": "..."} body and parses its text.
func ParseEnvelope(text string) (models.Palette, bool) {
	var env models.GenerateResponse
	if err := json.Unmarshal([]byte(text), &env); err != nil {
		return nil, false
	}
	return Parse(env.Response)
}

// Stage is one attempt at pulling a palette out of a response body.
type Stage func(text string) (models.Palette, bool)

// Stages is the ordered fallback used by Extract: the body as a bare palette
// first, then the generate envelope.
var Stages = []Stage{Parse, ParseEnvelope}

// Extract runs Stages in order and returns the first palette found.
func Extract(text string) (models.Palette, bool) {
	for _, stage := range Stages {
		if p, ok := stage(text); ok {
			return p, true
		}
	}
	return nil, false
}
