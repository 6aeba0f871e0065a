package forms

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/reactvid-cli/tui/styles"
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func button(bg, text lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Background(bg).Foreground(text).Padding(0, 1)
}

// Theme returns a huh theme that matches the TUI colour palette.
func Theme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused field styles
	f := &t.Focused
	f.Base = f.Base.
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Selection).
		PaddingLeft(1)
	f.Title = fg(styles.Heading).Bold(true)
	f.NoteTitle = fg(styles.Comment).Bold(true)
	f.Description = fg(styles.Muted)
	f.ErrorIndicator = fg(styles.Heading).Bold(true)
	f.ErrorMessage = fg(styles.Heading)
	f.SelectSelector = fg(styles.Comment).SetString("▸ ")
	f.MultiSelectSelector = f.SelectSelector
	f.Option = fg(styles.Text)
	f.SelectedOption = fg(styles.Comment)
	f.SelectedPrefix = fg(styles.Comment).SetString("[✓] ")
	f.UnselectedOption = fg(styles.Muted)
	f.UnselectedPrefix = fg(styles.Muted).SetString("[ ] ")
	f.NextIndicator = fg(styles.Muted)
	f.PrevIndicator = fg(styles.Muted)
	f.TextInput.Cursor = fg(styles.Comment)
	f.TextInput.Placeholder = fg(styles.Frame)
	f.TextInput.Prompt = fg(styles.Comment)
	f.TextInput.Text = fg(styles.Text)
	f.FocusedButton = button(styles.Selection, styles.Text).Bold(true)
	f.BlurredButton = button(styles.Frame, styles.Muted)
	f.Next = f.FocusedButton
	f.Card = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(styles.Frame).Padding(0, 1)

	// Blurred field styles
	b := &t.Blurred
	b.Base = b.Base.
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true).
		PaddingLeft(1)
	b.Title = fg(styles.Muted)
	b.NoteTitle = fg(styles.Muted)
	b.Description = fg(styles.Frame)
	b.ErrorIndicator = fg(styles.Heading)
	b.ErrorMessage = fg(styles.Heading)
	b.SelectSelector = lipgloss.NewStyle().SetString("  ")
	b.MultiSelectSelector = b.SelectSelector
	b.Option = fg(styles.Muted)
	b.SelectedOption = fg(styles.Muted)
	b.SelectedPrefix = fg(styles.Muted).SetString("[✓] ")
	b.UnselectedOption = fg(styles.Frame)
	b.UnselectedPrefix = fg(styles.Frame).SetString("[ ] ")
	b.TextInput.Cursor = fg(styles.Frame)
	b.TextInput.Placeholder = fg(styles.Frame)
	b.TextInput.Prompt = fg(styles.Frame)
	b.TextInput.Text = fg(styles.Muted)
	b.FocusedButton = button(styles.Frame, styles.Muted)
	b.BlurredButton = button(styles.Base, styles.Frame)
	b.Next = b.FocusedButton
	b.Card = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(styles.Base).Padding(0, 1)

	return t
}
