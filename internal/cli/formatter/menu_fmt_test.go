package formatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/swimmenu/internal/domain"
	"github.com/alexanderramin/swimmenu/internal/testutil"
)

func TestFormatMenu(t *testing.T) {
	got := stripANSI(FormatMenu(testutil.NewTestMenu("Tuesday Threshold")))

	assert.Contains(t, got, "TUESDAY THRESHOLD")
	assert.Contains(t, got, "30m · medium · pacing")
	assert.Contains(t, got, "Warm-up  8m")
	assert.Contains(t, got, "Main  18m")
	assert.Contains(t, got, "Cool-down  4m")
	assert.Contains(t, got, "100m")
	assert.Contains(t, got, "x6")
	assert.Contains(t, got, "@1:45")
	assert.Contains(t, got, "paddles")
	assert.Contains(t, got, "50m x 8 fast (hold pace)")
}

func TestFormatGenerated_WarnsWhenOverBudget(t *testing.T) {
	m := testutil.NewTestMenu("Long One")

	got := stripANSI(FormatGenerated("menu-1", m, false, 25))
	assert.Contains(t, got, "! menu runs 30m, over the requested 25m")
	assert.Contains(t, got, "saved as menu-1")

	got = stripANSI(FormatGenerated("menu-1", m, true, 30))
	assert.NotContains(t, got, "over the requested")
}

func TestFormatRecord(t *testing.T) {
	rec := testutil.NewTestRecord("Stored",
		testutil.WithRecordID("m-1"),
		testutil.WithLoadLevels(domain.LoadLow, domain.LoadHigh),
		testutil.WithCreatedAt(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	)

	got := stripANSI(FormatRecord(rec))
	assert.Contains(t, got, "STORED")
	assert.Contains(t, got, "m-1  LOW/HIGH · requested 30m · openai · Mar 1, 2024")
	assert.Contains(t, got, "notes: turn practice")
}

func TestFormatMenuList(t *testing.T) {
	assert.Contains(t, stripANSI(FormatMenuList(nil)), "No menus stored yet")

	recs := []*domain.MenuRecord{
		testutil.NewTestRecord("First", testutil.WithRecordID("a1")),
		testutil.NewTestRecord("Second", testutil.WithRecordID("b2"), testutil.WithTotalTime(45)),
	}
	got := stripANSI(FormatMenuList(recs))
	assert.Contains(t, got, "ID")
	assert.Contains(t, got, "TITLE")
	assert.Contains(t, got, "First")
	assert.Contains(t, got, "45m")
	assert.Contains(t, got, "MEDIUM")
}

func TestFormatSearchHits(t *testing.T) {
	assert.Contains(t, stripANSI(FormatSearchHits(nil)), "No similar menus found")

	got := stripANSI(FormatSearchHits([]domain.RetrievalHit{
		{ID: "m-9", Similarity: 0.91, Metadata: domain.MenuMetadata{Title: "Kick Focus", TotalTime: 40, Intensity: "low"}},
	}))
	assert.Contains(t, got, "MATCH")
	assert.Contains(t, got, " 91%")
	assert.Contains(t, got, "Kick Focus")
	assert.Contains(t, got, "40m")
}
