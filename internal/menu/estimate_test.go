package menu

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

func TestParseDistance(t *testing.T) {
	cases := map[string]int{
		"200":   200,
		"200m":  200,
		"1,500": 1500,
		"":      0,
		"easy":  0,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseDistance(in), "input %q", in)
	}
}

func TestParseCircle(t *testing.T) {
	assert.InDelta(t, 1.5, ParseCircle("1:30"), 1e-9)
	assert.InDelta(t, 2.0, ParseCircle("2"), 1e-9)
	assert.InDelta(t, 2.0, ParseCircle("2:"), 1e-9)
	assert.InDelta(t, 0.75, ParseCircle(" 0:45 "), 1e-9)
	assert.Zero(t, ParseCircle("fast"))
	assert.Zero(t, ParseCircle(""))
}

func TestItemTime(t *testing.T) {
	assert.Equal(t, 12, ItemTime(domain.MenuItem{Distance: "100", Circle: "1:30", Sets: 8}))
	assert.Equal(t, 1, ItemTime(domain.MenuItem{Distance: "25", Circle: "0:30", Sets: 1}), "floor at one minute")
	assert.Equal(t, 1, ItemTime(domain.MenuItem{Distance: "kick", Circle: "1:00", Sets: 4}))
	assert.Equal(t, 23, ItemTime(domain.MenuItem{Distance: "100", Circle: "2:30", Sets: 9}), "22.5 rounds up")
}

func TestEstimate_Totals(t *testing.T) {
	m := domain.GeneratedMenu{
		Title:     "t",
		TotalTime: 999,
		Sections: []domain.MenuSection{
			{Name: "Warm-up", TotalTime: 50, Items: []domain.MenuItem{
				{Description: "a", Distance: "400", Circle: "2:30", Sets: 1, Time: 40},
			}},
			{Name: "Main", Items: []domain.MenuItem{
				{Description: "b", Distance: "100", Circle: "1:30", Sets: 8},
				{Description: "c", Distance: "50", Circle: "1:00", Sets: 4},
			}},
		},
	}

	got := Estimate(m)
	assert.Equal(t, 10, got.Sections[0].Items[0].Time)
	assert.Equal(t, 10, got.Sections[0].TotalTime)
	assert.Equal(t, 14, got.Sections[1].TotalTime)
	assert.Equal(t, 24, got.TotalTime)

	assert.Equal(t, 999, m.TotalTime, "input is not mutated")
	assert.Equal(t, 40, m.Sections[0].Items[0].Time)
}

func TestEstimate_IdempotentProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 200; trial++ {
		m := randomMenu(rng)
		once := Estimate(m)
		assert.Equal(t, once, Estimate(once), "trial %d", trial)
	}
}
