package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

func TestBuildPrompts_System(t *testing.T) {
	p := BuildPrompts([]domain.LoadLevel{domain.LoadMedium}, 45, "", "")

	for _, role := range []string{"Warm-up", "Kick", "Pull", "Drill", "Main", "Cool-down"} {
		assert.Contains(t, p.System, role)
	}
	assert.Contains(t, p.System, "MUST NOT exceed 45 minutes")
	assert.Contains(t, p.System, `"100m x 4 free" means distance 100 and sets 4`)
	assert.Contains(t, p.System, "Do not use Markdown code fences")
	assert.Contains(t, p.System, `"targetSkills"`)
}

func TestBuildPrompts_User(t *testing.T) {
	p := BuildPrompts([]domain.LoadLevel{domain.LoadLow, domain.LoadHigh}, 60, "  focus on turns ", "- Past menu: x (58 min, similarity 0.91)")

	assert.Contains(t, p.User, "Load level: low/high")
	assert.Contains(t, p.User, "Duration: 60 minutes")
	assert.Contains(t, p.User, "Coach notes: focus on turns\n")
	assert.Contains(t, p.User, "Reference menus")
	assert.Contains(t, p.User, "similarity 0.91")
}

func TestBuildPrompts_OmitsEmptyBlocks(t *testing.T) {
	p := BuildPrompts([]domain.LoadLevel{domain.LoadLow}, 30, "", "")
	assert.NotContains(t, p.User, "Coach notes")
	assert.NotContains(t, p.User, "Reference menus")
}

func TestBuildPrompts_Deterministic(t *testing.T) {
	levels := []domain.LoadLevel{domain.LoadMedium}
	assert.Equal(t, BuildPrompts(levels, 30, "n", "r"), BuildPrompts(levels, 30, "n", "r"))
}
