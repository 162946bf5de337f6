package palette

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wallseed/wallseed/pkg/models"
)

func TestValidHex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"#A1B2C3", true},
		{"#a1b2c3", true},
		{"#000000", true},
		{"#FfFfFf", true},
		{"123456", false},
		{"#12345", false},
		{"#1234567", false},
		{"#12345G", false},
		{" #123456", false},
		{"#123456\n", false},
		{"", false},
		{"##12345", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidHex(tt.in), "ValidHex(%q)", tt.in)
	}
}

func TestParseKeepsOnlyValidRoles(t *testing.T) {
	t.Parallel()

	text := `{
		"primary_hex": "#82A3FF",
		"secondary_hex": "82A3FF",
		"tertiary_hex": 42,
		"accent1_hex": "#ff8800",
		"mystery_hex": "#010203"
	}`

	p, ok := Parse(text)
	require.True(t, ok)
	assert.Equal(t, models.Palette{
		models.RolePrimary: "#82A3FF",
		models.RoleAccent1: "#ff8800",
	}, p)
}

func TestParseAbsentCases(t *testing.T) {
	t.Parallel()

	for _, text := range []string{
		"",
		"not json",
		`"#82A3FF"`,
		`[{"primary_hex": "#82A3FF"}]`,
		`null`,
		`42`,
		`{}`,
		`{"primary_hex": "red"}`,
		`{"unknown": "#82A3FF"}`,
	} {
		p, ok := Parse(text)
		assert.False(t, ok, "Parse(%q)", text)
		assert.Nil(t, p, "Parse(%q)", text)
	}
}

func TestParseIsIdempotent(t *testing.T) {
	t.Parallel()

	first, ok := Parse(`{"primary_hex":"#112233","neutral2_hex":"#AABBCC","extra":"x"}`)
	require.True(t, ok)

	encoded, err := json.Marshal(first)
	require.NoError(t, err)

	second, ok := Parse(string(encoded))
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestParseEnvelope(t *testing.T) {
	t.Parallel()

	body := `{"model":"llava","response":"{\"primary_hex\":\"#123ABC\"}","done":true}`
	p, ok := ParseEnvelope(body)
	require.True(t, ok)
	assert.Equal(t, models.Palette{models.RolePrimary: "#123ABC"}, p)

	_, ok = ParseEnvelope(`{"response":"I think the main color is blue."}`)
	assert.False(t, ok)

	_, ok = ParseEnvelope(`not json`)
	assert.False(t, ok)
}

func TestExtractPrefersRawBody(t *testing.T) {
	t.Parallel()

	// A body that is both a palette and an envelope resolves through the raw stage.
	body := `{"primary_hex":"#111111","response":"{\"primary_hex\":\"#222222\"}"}`
	p, ok := Extract(body)
	require.True(t, ok)
	assert.Equal(t, "#111111", p[models.RolePrimary])
}

func TestExtractFallsBackToEnvelope(t *testing.T) {
	t.Parallel()

	p, ok := Extract(`{"response":"{\"accent2_hex\":\"#0A0B0C\"}"}`)
	require.True(t, ok)
	assert.Equal(t, models.Palette{models.RoleAccent2: "#0A0B0C"}, p)

	_, ok = Extract(`{"response":""}`)
	assert.False(t, ok)
}

func TestPaletteValuesFollowRoleOrder(t *testing.T) {
	t.Parallel()

	p := models.Palette{
		models.RoleNeutral2: "#000002",
		models.RolePrimary:  "#000001",
		models.RoleAccent1:  "#000003",
	}
	assert.Equal(t, []string{"#000001", "#000003", "#000002"}, p.Values())
}
