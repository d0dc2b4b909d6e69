package menu

import (
	"math"
	"strconv"
	"strings"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

// Decode validates candidate and converts it into a typed menu. Each
// section's role is resolved here, once. Item and section times are
// left at zero for Estimate to derive.
func Decode(candidate any) (domain.GeneratedMenu, error) {
	if err := Validate(candidate); err != nil {
		return domain.GeneratedMenu{}, err
	}
	root := candidate.(map[string]any)

	m := domain.GeneratedMenu{
		Title:     root["title"].(string),
		Intensity: stringField(root, "intensity"),
	}
	if skills, ok := root["targetSkills"].([]any); ok {
		for _, s := range skills {
			if str, ok := s.(string); ok && str != "" {
				m.TargetSkills = append(m.TargetSkills, str)
			}
		}
	}

	for _, rawSection := range root["menu"].([]any) {
		sec := rawSection.(map[string]any)
		name := sec["name"].(string)
		section := domain.MenuSection{
			Name: name,
			Role: domain.ResolveRole(name),
		}
		for _, rawItem := range sec["items"].([]any) {
			it := rawItem.(map[string]any)
			section.Items = append(section.Items, domain.MenuItem{
				Description: it["description"].(string),
				Distance:    distanceString(it["distance"]),
				Sets:        setsValue(it["sets"]),
				Circle:      it["circle"].(string),
				Equipment:   stringField(it, "equipment"),
				Notes:       stringField(it, "notes"),
			})
		}
		m.Sections = append(m.Sections, section)
	}
	return m, nil
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

func distanceString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return strconv.FormatInt(int64(toFloat(v)), 10)
}

// setsValue rounds a numeric repetition count and clamps it to at least 1.
func setsValue(v any) int {
	n := int(math.Round(toFloat(v)))
	if n < 1 {
		return 1
	}
	return n
}
