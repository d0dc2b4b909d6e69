package domain

import "time"

// MenuItem is a single drill. Time is always derived from Distance,
// Circle and Sets and never trusted from model output.
type MenuItem struct {
	Description string `json:"description" yaml:"description"`
	Distance    string `json:"distance" yaml:"distance"`
	Sets        int    `json:"sets" yaml:"sets"`
	Circle      string `json:"circle" yaml:"circle"`
	Equipment   string `json:"equipment,omitempty" yaml:"equipment,omitempty"`
	Notes       string `json:"notes,omitempty" yaml:"notes,omitempty"`
	Time        int    `json:"time" yaml:"time"`
}

// MenuSection is a named group of items.
type MenuSection struct {
	Name      string      `json:"name" yaml:"name"`
	Role      SectionRole `json:"role" yaml:"role"`
	Items     []MenuItem  `json:"items" yaml:"items"`
	TotalTime int         `json:"totalTime" yaml:"totalTime"`
}

// ResolvedRole returns the section's role, resolving it from the name
// for sections built without going through menu decoding.
func (s MenuSection) ResolvedRole() SectionRole {
	if s.Role != "" {
		return s.Role
	}
	return ResolveRole(s.Name)
}

// GeneratedMenu is a complete training plan.
type GeneratedMenu struct {
	Title        string        `json:"title" yaml:"title"`
	Sections     []MenuSection `json:"menu" yaml:"menu"`
	TotalTime    int           `json:"totalTime" yaml:"totalTime"`
	Intensity    string        `json:"intensity,omitempty" yaml:"intensity,omitempty"`
	TargetSkills []string      `json:"targetSkills,omitempty" yaml:"targetSkills,omitempty"`
}

// Clone returns a deep copy of m.
func (m GeneratedMenu) Clone() GeneratedMenu {
	out := m
	if m.TargetSkills != nil {
		out.TargetSkills = append([]string(nil), m.TargetSkills...)
	}
	if m.Sections != nil {
		out.Sections = make([]MenuSection, len(m.Sections))
		for i, s := range m.Sections {
			s.Items = append([]MenuItem(nil), s.Items...)
			out.Sections[i] = s
		}
	}
	return out
}

// ItemCount returns the number of items across all sections.
func (m GeneratedMenu) ItemCount() int {
	n := 0
	for _, s := range m.Sections {
		n += len(s.Items)
	}
	return n
}

// MenuMetadata is the searchable summary stored alongside a menu.
type MenuMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TotalTime   int    `json:"totalTime"`
	Intensity   string `json:"intensity,omitempty"`
}

// MenuRecord is a persisted menu with the request that produced it.
type MenuRecord struct {
	ID                string        `json:"id"`
	Menu              GeneratedMenu `json:"menu"`
	RequestedDuration int           `json:"requestedDuration"`
	LoadLevels        []LoadLevel   `json:"loadLevels"`
	Notes             string        `json:"notes,omitempty"`
	Provider          ProviderKey   `json:"provider"`
	Metadata          MenuMetadata  `json:"metadata"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// RetrievalHit is one nearest-neighbour result from the retrieval store.
type RetrievalHit struct {
	ID         string       `json:"id"`
	Metadata   MenuMetadata `json:"metadata"`
	Similarity float64      `json:"similarity"`
}

// DurationFilter bounds retrieval results by total time in minutes.
type DurationFilter struct {
	Min int
	Max int
}

// Contains reports whether minutes lies inside the filter window.
func (f DurationFilter) Contains(minutes int) bool {
	return minutes >= f.Min && minutes <= f.Max
}
