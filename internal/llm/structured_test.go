package llm

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Title     string  `json:"title"`
	TotalTime float64 `json:"totalTime"`
}

func TestSanitize_CleanJSON(t *testing.T) {
	raw := `{"title":"Sprint day","totalTime":45}`
	assert.Equal(t, raw, Sanitize(raw))
}

func TestSanitize_FencedWithProse(t *testing.T) {
	raw := "Here is your menu:\n```json\n{\"title\":\"Aerobic\",\"menu\":[]}\n```\nEnjoy the session!"
	assert.Equal(t, `{"title":"Aerobic","menu":[]}`, Sanitize(raw))
}

func TestSanitize_UnlabelledFence(t *testing.T) {
	raw := "```\n{\"title\":\"x\"}\n```"
	assert.Equal(t, `{"title":"x"}`, Sanitize(raw))
}

func TestSanitize_SurroundingTextNoFence(t *testing.T) {
	raw := "Sure! {\"title\":\"x\",\"menu\":[{\"name\":\"Main\"}]} Let me know."
	assert.Equal(t, `{"title":"x","menu":[{"name":"Main"}]}`, Sanitize(raw))
}

func TestSanitize_InvalidReturnsOriginal(t *testing.T) {
	raw := "prefix {\"title\": broken} suffix"
	assert.Equal(t, raw, Sanitize(raw))
}

func TestSanitize_NoObjectReturnsOriginal(t *testing.T) {
	raw := "I could not build a menu today."
	assert.Equal(t, raw, Sanitize(raw))
}

func TestSanitize_RoundTrip(t *testing.T) {
	objects := []map[string]any{
		{"title": "A", "totalTime": 30.0},
		{"menu": []any{map[string]any{"name": "Warm-up", "items": []any{}}}},
		{"nested": map[string]any{"braces": "{not a fence}"}},
		{},
	}
	for i, obj := range objects {
		data, err := json.Marshal(obj)
		require.NoError(t, err)

		var back map[string]any
		require.NoError(t, json.Unmarshal([]byte(Sanitize("```json\n"+string(data)+"\n```")), &back), "case %d", i)
		assert.Equal(t, obj, back, "case %d", i)
	}
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFence("```JSON\n{\"a\":1}\n```"))
	assert.Equal(t, "plain", StripCodeFence("  plain \n"))
}

func TestExtractJSON_FencedJSON(t *testing.T) {
	raw := "```json\n{\"title\":\"status\",\"totalTime\":40}\n```"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "status", result.Title)
	assert.Equal(t, 40.0, result.TotalTime)
}

func TestExtractJSON_RepairsComments(t *testing.T) {
	raw := "{\n  \"title\": \"x\", // the title\n  \"totalTime\": .5\n}"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "x", result.Title)
	assert.Equal(t, 0.5, result.TotalTime)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON[testPayload]("I don't know what you mean.", nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_RejectsNonObject(t *testing.T) {
	for _, raw := range []string{"null", "```json\nnull\n```", "[1, 2]", "true", "3.5"} {
		got, err := ExtractJSON[map[string]any](raw, nil)
		assert.ErrorIs(t, err, ErrInvalidOutput, "input %q", raw)
		assert.Nil(t, got, "input %q", raw)
	}
}

func TestExtractJSON_InvalidJSON(t *testing.T) {
	_, err := ExtractJSON[testPayload](`{"title":"x", broken}`, nil)
	assert.ErrorIs(t, err, ErrInvalidOutput)
}

func TestExtractJSON_ValidationFailure(t *testing.T) {
	validator := func(p testPayload) error {
		if p.TotalTime <= 0 {
			return fmt.Errorf("totalTime must be positive, got %f", p.TotalTime)
		}
		return nil
	}
	_, err := ExtractJSON(`{"title":"x","totalTime":0}`, validator)
	assert.ErrorIs(t, err, ErrInvalidOutput)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"trailing commas", `{"a": [1, 2,], "b": 3,}`, `{"a": [1, 2], "b": 3}`},
		{"leading decimals", `{"x": .5, "y": -.25, "z": [.1]}`, `{"x": 0.5, "y": -0.25, "z": [0.1]}`},
		{"line comment", "{\"a\": 1 // note\n}", "{\"a\": 1 \n}"},
		{"block comment", `{/* c */"a": 1}`, `{"a": 1}`},
		{"strings untouched", `{"s": "x // y, .5 /* z */,]"}`, `{"s": "x // y, .5 /* z */,]"}`},
		{"escaped quote", `{"s": "a\"//b", "n": .5}`, `{"s": "a\"//b", "n": 0.5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repairJSON(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, json.Valid([]byte(got)))
		})
	}
}

func TestExtractJSON_RepairsTrailingComma(t *testing.T) {
	raw := "Here you go:\n{\"title\": \"Sprint\", \"totalTime\": 45,}\nEnjoy!"
	result, err := ExtractJSON[testPayload](raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Sprint", result.Title)
	assert.Equal(t, 45.0, result.TotalTime)
}
