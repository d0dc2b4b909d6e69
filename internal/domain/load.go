package domain

import (
	"fmt"
	"strings"
)

// LoadLevel is the coarse training intensity chosen by the requester.
type LoadLevel string

const (
	LoadLow    LoadLevel = "low"
	LoadMedium LoadLevel = "medium"
	LoadHigh   LoadLevel = "high"
)

// AllLoadLevels lists load levels in canonical order.
var AllLoadLevels = []LoadLevel{LoadLow, LoadMedium, LoadHigh}

// Valid reports whether l is one of the known load levels.
func (l LoadLevel) Valid() bool {
	switch l {
	case LoadLow, LoadMedium, LoadHigh:
		return true
	}
	return false
}

// ParseLoadLevels normalizes raw level names into an ordered set.
// Duplicates collapse and the result follows low, medium, high order.
func ParseLoadLevels(raw []string) ([]LoadLevel, error) {
	seen := make(map[LoadLevel]bool, len(raw))
	for _, r := range raw {
		l := LoadLevel(strings.ToLower(strings.TrimSpace(r)))
		if l == "" {
			continue
		}
		if !l.Valid() {
			return nil, fmt.Errorf("unknown load level %q (want low, medium or high)", r)
		}
		seen[l] = true
	}
	out := make([]LoadLevel, 0, len(seen))
	for _, l := range AllLoadLevels {
		if seen[l] {
			out = append(out, l)
		}
	}
	return out, nil
}

// LoadLabel joins levels into the combined label used in prompts and
// metadata, e.g. "low/high".
func LoadLabel(levels []LoadLevel) string {
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = string(l)
	}
	return strings.Join(parts, "/")
}
