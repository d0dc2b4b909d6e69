package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/swimmenu/internal/cli/formatter"
	"github.com/alexanderramin/swimmenu/internal/domain"
)

// swimHuhTheme returns a huh theme using the formatter palette.
func swimHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// generateAnswers collects the interactive generate form's values.
type generateAnswers struct {
	Levels       []string
	Duration     string
	Notes        string
	Provider     string
	UseRetrieval bool
}

// newGenerateForm builds the form shown by "generate --interactive".
// Fields start from ans so flag values act as defaults.
func newGenerateForm(ans *generateAnswers, providers []domain.ProviderKey) *huh.Form {
	levelOpts := make([]huh.Option[string], 0, len(domain.AllLoadLevels))
	for _, l := range domain.AllLoadLevels {
		levelOpts = append(levelOpts, huh.NewOption(strings.ToUpper(string(l)), string(l)))
	}
	providerOpts := make([]huh.Option[string], 0, len(providers))
	for _, p := range providers {
		providerOpts = append(providerOpts, huh.NewOption(string(p), string(p)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Load levels").
				Options(levelOpts...).
				Value(&ans.Levels).
				Validate(func(v []string) error {
					if len(v) == 0 {
						return fmt.Errorf("pick at least one level")
					}
					return nil
				}),
			huh.NewInput().
				Title("Duration (minutes)").
				Placeholder("60").
				Value(&ans.Duration).
				Validate(validatePositiveInt),
			huh.NewInput().
				Title("Coach notes").
				Placeholder("focus on turns").
				Value(&ans.Notes),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Provider").
				Options(providerOpts...).
				Value(&ans.Provider),
			huh.NewConfirm().
				Title("Use similar stored menus as context?").
				Affirmative("Yes").
				Negative("No").
				Value(&ans.UseRetrieval),
		),
	).WithTheme(swimHuhTheme()).WithShowHelp(false)
}

// validatePositiveInt accepts a positive integer, ignoring surrounding space.
func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}
