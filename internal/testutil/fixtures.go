package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

// NewTestMenu returns a timed three-section menu totalling 30 minutes.
func NewTestMenu(title string) domain.GeneratedMenu {
	return domain.GeneratedMenu{
		Title: title,
		Sections: []domain.MenuSection{
			{Name: "Warm-up", Role: domain.RoleWarmUp, TotalTime: 8, Items: []domain.MenuItem{
				{Description: "200m x 2 easy free", Distance: "200", Sets: 2, Circle: "2:00", Time: 8},
			}},
			{Name: "Main", Role: domain.RoleMain, TotalTime: 18, Items: []domain.MenuItem{
				{Description: "100m x 6 build", Distance: "100", Sets: 6, Circle: "1:45", Equipment: "paddles", Time: 11},
				{Description: "50m x 8 fast", Distance: "50", Sets: 8, Circle: "1:45", Notes: "hold pace", Time: 7},
			}},
			{Name: "Cool-down", Role: domain.RoleCoolDown, TotalTime: 4, Items: []domain.MenuItem{
				{Description: "200 easy choice", Distance: "200", Sets: 1, Circle: "2:00", Time: 4},
			}},
		},
		TotalTime:    30,
		Intensity:    "medium",
		TargetSkills: []string{"pacing"},
	}
}

// RecordOption customizes a test MenuRecord.
type RecordOption func(*domain.MenuRecord)

func WithTotalTime(minutes int) RecordOption {
	return func(r *domain.MenuRecord) {
		r.Menu.TotalTime = minutes
		r.Metadata.TotalTime = minutes
	}
}

func WithCreatedAt(t time.Time) RecordOption {
	return func(r *domain.MenuRecord) {
		r.CreatedAt = t
	}
}

func WithRecordID(id string) RecordOption {
	return func(r *domain.MenuRecord) {
		r.ID = id
	}
}

func WithLoadLevels(levels ...domain.LoadLevel) RecordOption {
	return func(r *domain.MenuRecord) {
		r.LoadLevels = levels
	}
}

// NewTestRecord returns a persisted-shape record around NewTestMenu.
func NewTestRecord(title string, opts ...RecordOption) *domain.MenuRecord {
	m := NewTestMenu(title)
	r := &domain.MenuRecord{
		ID:                uuid.NewString(),
		Menu:              m,
		RequestedDuration: 30,
		LoadLevels:        []domain.LoadLevel{domain.LoadMedium},
		Notes:             "turn practice",
		Provider:          domain.ProviderOpenAI,
		Metadata: domain.MenuMetadata{
			Title:       title,
			Description: "medium load, 3 sections (Warm-up, Main, Cool-down)",
			TotalTime:   m.TotalTime,
			Intensity:   m.Intensity,
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
