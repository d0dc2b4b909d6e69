package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/swimmenu/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// LoadStyle returns the color for a load level.
func LoadStyle(l domain.LoadLevel) lipgloss.Style {
	switch l {
	case domain.LoadHigh:
		return StyleRed
	case domain.LoadMedium:
		return StyleYellow
	case domain.LoadLow:
		return StyleGreen
	default:
		return StyleDim
	}
}

// LoadBadge renders levels as colored labels joined by "/", e.g. "LOW/HIGH".
func LoadBadge(levels []domain.LoadLevel) string {
	if len(levels) == 0 {
		return StyleDim.Render("--")
	}
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = LoadStyle(l).Render(strings.ToUpper(string(l)))
	}
	return strings.Join(parts, StyleDim.Render("/"))
}

// RoleStyle colors section headings by their trimming role.
func RoleStyle(r domain.SectionRole) lipgloss.Style {
	switch r {
	case domain.RoleMain:
		return StyleHeader
	case domain.RoleWarmUp, domain.RoleCoolDown:
		return StyleBlue.Bold(true)
	case domain.RoleKick, domain.RolePull, domain.RoleDrill:
		return StylePurple.Bold(true)
	default:
		return StyleBold
	}
}

// Header renders an uppercase heading with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
