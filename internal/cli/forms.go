package cli

import (
	"fmt"

	"github.com/alexanderramin/costbook/internal/cli/formatter"
	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// runForm is replaced in tests that exercise interactive paths.
var runForm = func(f *huh.Form) error { return f.Run() }

// costbookHuhTheme matches the formatter palette.
func costbookHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// nodeFormValues holds the text fields of the interactive node form.
type nodeFormValues struct {
	Code string
	Name string
	Qty  string
	Unit string
	Rate string
}

// nodeForm prompts for the fields still missing from v.
func nodeForm(v *nodeFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Code").Placeholder("1.2").Value(&v.Code),
			huh.NewInput().Title("Name").Value(&v.Name).Validate(validateRequired),
			huh.NewInput().Title("Quantity").Placeholder("1").Value(&v.Qty).Validate(validateNonNegativeDecimal),
			huh.NewInput().Title("Unit").Placeholder("m3").Value(&v.Unit),
			huh.NewInput().Title("Rate").Placeholder("0.00").Value(&v.Rate).Validate(validateNonNegativeDecimal),
		),
	).WithTheme(costbookHuhTheme()).WithShowHelp(false)
}

func validateRequired(s string) error {
	if s == "" {
		return fmt.Errorf("required")
	}
	return nil
}

// validateNonNegativeDecimal accepts empty or a decimal >= 0.
func validateNonNegativeDecimal(s string) error {
	if s == "" {
		return nil
	}
	d, err := domain.ParseDecimal(s)
	if err != nil || d.IsNegative() {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}
