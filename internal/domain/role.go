package domain

import "strings"

// SectionRole classifies a menu section for trimming purposes.
type SectionRole string

const (
	RoleCoolDown SectionRole = "cool_down"
	RoleDrill    SectionRole = "drill"
	RoleKick     SectionRole = "kick"
	RolePull     SectionRole = "pull"
	RoleWarmUp   SectionRole = "warm_up"
	RoleMain     SectionRole = "main"
	RoleOther    SectionRole = "other"
)

// roleTags is ordered by trim priority: earlier entries are trimmed first.
// A section name containing "main" is always RoleMain; otherwise it
// resolves to the first tag it contains.
var roleTags = []struct {
	tag  string
	role SectionRole
}{
	{"down", RoleCoolDown},
	{"drill", RoleDrill},
	{"kick", RoleKick},
	{"pull", RolePull},
	{"warm", RoleWarmUp},
	{"main", RoleMain},
}

// ResolveRole maps a section name onto a role by case-insensitive
// substring match against the English role tags, "main" first. Names that match no
// tag resolve to RoleOther.
func ResolveRole(name string) SectionRole {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "main") {
		return RoleMain
	}
	for _, rt := range roleTags {
		if strings.Contains(lower, rt.tag) {
			return rt.role
		}
	}
	return RoleOther
}

// TrimRank orders roles for reconciliation. Lower ranks are trimmed
// first. RoleOther sits next to RoleMain at the protected end.
func (r SectionRole) TrimRank() int {
	for i, rt := range roleTags {
		if rt.role == r {
			return i
		}
	}
	return len(roleTags)
}
