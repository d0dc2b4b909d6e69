package menu

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

const validMenuJSON = `{
  "title": "Threshold Tuesday",
  "menu": [
    {"name": "Warm-up", "items": [
      {"description": "400 easy free", "distance": 400, "sets": 1, "circle": "8:00"}
    ]},
    {"name": "Main Set", "items": [
      {"description": "100 x 8 descend", "distance": "100m", "sets": 8, "circle": "1:45", "equipment": "paddles", "notes": "hold pace"}
    ]},
    {"name": "Cool-down", "items": [
      {"description": "200 choice", "distance": 200, "sets": 1, "circle": "4:00"}
    ]}
  ],
  "totalTime": 99,
  "intensity": "high",
  "targetSkills": ["pacing", "turns"]
}`

func parse(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, Validate(parse(t, validMenuJSON)))
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name string
		json string
		path string
	}{
		{"not an object", `[1,2]`, "$"},
		{"missing title", `{"menu":[],"totalTime":1}`, "title"},
		{"title not string", `{"title":3,"menu":[],"totalTime":1}`, "title"},
		{"menu not array", `{"title":"t","menu":{},"totalTime":1}`, "menu"},
		{"totalTime missing", `{"title":"t","menu":[]}`, "totalTime"},
		{"totalTime string", `{"title":"t","menu":[],"totalTime":"30"}`, "totalTime"},
		{"section name", `{"title":"t","menu":[{"items":[]}],"totalTime":1}`, "menu[0].name"},
		{"section items", `{"title":"t","menu":[{"name":"Main","items":"none"}],"totalTime":1}`, "menu[0].items"},
		{"item description missing", `{"title":"t","menu":[{"name":"Main","items":[{"distance":100,"sets":1,"circle":"1:30"}]}],"totalTime":1}`, "menu[0].items[0].description"},
		{"item description empty", `{"title":"t","menu":[{"name":"Main","items":[{"description":"","distance":100,"sets":1,"circle":"1:30"}]}],"totalTime":1}`, "menu[0].items[0].description"},
		{"item distance bool", `{"title":"t","menu":[{"name":"Main","items":[{"description":"d","distance":true,"sets":1,"circle":"1:30"}]}],"totalTime":1}`, "menu[0].items[0].distance"},
		{"item sets word", `{"title":"t","menu":[{"name":"Main","items":[{"description":"d","distance":100,"sets":"four","circle":"1:30"}]}],"totalTime":1}`, "menu[0].items[0].sets"},
		{"item circle number", `{"title":"t","menu":[{"name":"Main","items":[{"description":"d","distance":100,"sets":1,"circle":90}]}],"totalTime":1}`, "menu[0].items[0].circle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(parse(t, tt.json))
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.path, ve.Path)
		})
	}
}

func TestValidate_ShortCircuitsOnFirstFailure(t *testing.T) {
	err := Validate(parse(t, `{"menu":"x"}`))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title", ve.Path)
}

func TestIsValid_LogsFailingField(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ok := IsValid(parse(t, `{"title":"t","menu":[{"name":"Main","items":[{"description":"d","distance":100,"sets":"four","circle":"1:30"}]}],"totalTime":1}`), logger)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "menu[0].items[0].sets")

	assert.True(t, IsValid(parse(t, validMenuJSON), nil))
	assert.False(t, IsValid(nil, nil))
}

func TestDecode(t *testing.T) {
	m, err := Decode(parse(t, validMenuJSON))
	require.NoError(t, err)

	assert.Equal(t, "Threshold Tuesday", m.Title)
	assert.Equal(t, "high", m.Intensity)
	assert.Equal(t, []string{"pacing", "turns"}, m.TargetSkills)
	require.Len(t, m.Sections, 3)
	assert.Equal(t, domain.RoleWarmUp, m.Sections[0].Role)
	assert.Equal(t, domain.RoleMain, m.Sections[1].Role)
	assert.Equal(t, domain.RoleCoolDown, m.Sections[2].Role)

	main := m.Sections[1].Items[0]
	assert.Equal(t, "100m", main.Distance)
	assert.Equal(t, 8, main.Sets)
	assert.Equal(t, "paddles", main.Equipment)
	assert.Equal(t, "400", m.Sections[0].Items[0].Distance)
	assert.Zero(t, m.TotalTime, "times are derived later, never trusted")
}

func TestDecode_ClampsSets(t *testing.T) {
	m, err := Decode(parse(t, `{"title":"t","menu":[{"name":"Main","items":[
		{"description":"a","distance":50,"sets":0,"circle":"1:00"},
		{"description":"b","distance":50.9,"sets":2.6,"circle":"1:00"}]}],"totalTime":0}`))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Sections[0].Items[0].Sets)
	assert.Equal(t, 3, m.Sections[0].Items[1].Sets)
	assert.Equal(t, "50", m.Sections[0].Items[1].Distance)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(parse(t, `{"title":"t"}`))
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}
