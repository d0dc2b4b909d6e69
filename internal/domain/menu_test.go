package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLoadLevels_OrderedSet(t *testing.T) {
	levels, err := ParseLoadLevels([]string{"high", "LOW", " high ", ""})
	require.NoError(t, err)
	assert.Equal(t, []LoadLevel{LoadLow, LoadHigh}, levels)
	assert.Equal(t, "low/high", LoadLabel(levels))
}

func TestParseLoadLevels_Unknown(t *testing.T) {
	_, err := ParseLoadLevels([]string{"extreme"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extreme")
}

func TestResolveRole(t *testing.T) {
	cases := map[string]SectionRole{
		"Warm-up":          RoleWarmUp,
		"warmup":           RoleWarmUp,
		"Cool-down":        RoleCoolDown,
		"COOLDOWN":         RoleCoolDown,
		"Kick":             RoleKick,
		"Pull Set":         RolePull,
		"Technique Drills": RoleDrill,
		"Main Set":         RoleMain,
		"Main Kick Set":    RoleMain,
		"Main Drill":       RoleMain,
		"Pull to main":     RoleMain,
		"Kick Drills":      RoleDrill,
		"Sprint":           RoleOther,
		"ウォームアップ":          RoleOther,
	}
	for name, want := range cases {
		assert.Equal(t, want, ResolveRole(name), "name %q", name)
	}
}

func TestTrimRank_OtherIsProtected(t *testing.T) {
	assert.Less(t, RoleCoolDown.TrimRank(), RoleDrill.TrimRank())
	assert.Less(t, RoleWarmUp.TrimRank(), RoleMain.TrimRank())
	assert.Greater(t, RoleOther.TrimRank(), RoleMain.TrimRank())
}

func TestGeneratedMenu_CloneIsDeep(t *testing.T) {
	m := GeneratedMenu{
		Title:        "t",
		TargetSkills: []string{"turns"},
		Sections: []MenuSection{
			{Name: "Main", Items: []MenuItem{{Description: "100 x 4", Sets: 4}}},
		},
	}
	c := m.Clone()
	c.Sections[0].Items[0].Sets = 1
	c.TargetSkills[0] = "starts"

	assert.Equal(t, 4, m.Sections[0].Items[0].Sets)
	assert.Equal(t, "turns", m.TargetSkills[0])
	assert.Equal(t, 1, m.ItemCount())
}

func TestGenerationRequest_Validate(t *testing.T) {
	valid := GenerationRequest{LoadLevels: []LoadLevel{LoadMedium}, Duration: 30, Provider: ProviderOpenAI}
	require.NoError(t, valid.Validate())

	r := valid
	r.Duration = 0
	assert.ErrorIs(t, r.Validate(), ErrInvalidDuration)

	r = valid
	r.LoadLevels = nil
	assert.ErrorIs(t, r.Validate(), ErrNoLoadLevels)

	r = valid
	r.LoadLevels = []LoadLevel{"extreme"}
	assert.ErrorIs(t, r.Validate(), ErrInvalidLoadLevel)

	r = valid
	r.Provider = "mistral"
	assert.ErrorIs(t, r.Validate(), ErrUnknownProvider)
}

func TestDurationFilter_Contains(t *testing.T) {
	f := DurationFilter{Min: 48, Max: 72}
	assert.True(t, f.Contains(48))
	assert.True(t, f.Contains(72))
	assert.False(t, f.Contains(73))
}
