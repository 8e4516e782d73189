package listnorm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"json array", `["AI","Web"]`, []string{"AI", "Web"}},
		{"newline separated", "AI\nWeb\n", []string{"AI", "Web"}},
		{"crlf separated", "AI\r\nWeb", []string{"AI", "Web"}},
		{"comma separated", "AI, Web", []string{"AI", "Web"}},
		{"empty string", "   ", []string{}},
		{"array with blanks and numbers", `[" AI ", "", 42]`, []string{"AI", "42"}},
		{"malformed json splits", `["AI", "Web"`, []string{`["AI"`, `"Web"`}},
		{"json object is split", `{"a":1}`, []string{`{"a":1}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestFlexibleListUnmarshal(t *testing.T) {
	var req struct {
		Tracks     FlexibleList `json:"tracks"`
		Timeline   FlexibleList `json:"timeline"`
		Organizers FlexibleList `json:"organizers"`
		Skills     FlexibleList `json:"skills"`
	}

	body := `{"tracks": ["AI", " ", "Web"], "timeline": "Kickoff\nDemo", "skills": null}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, []string{"AI", "Web"}, req.Tracks.List())
	assert.Equal(t, []string{"Kickoff", "Demo"}, req.Timeline.List())
	assert.Nil(t, req.Organizers.List())
	assert.False(t, req.Skills.Present)
}

func TestFlexibleListEmptyStringIsPresent(t *testing.T) {
	var l FlexibleList
	require.NoError(t, json.Unmarshal([]byte(`""`), &l))
	assert.True(t, l.Present)
	assert.Equal(t, []string{}, l.List())
}
