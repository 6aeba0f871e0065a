package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/reactvid-cli/tui/styles"
)

// HelpGroup is a titled set of key bindings shown in the help overlay.
type HelpGroup struct {
	Title    string
	Bindings []key.Binding
}

// HelpOverlay renders the keybinding help centred in a width x height area.
func HelpOverlay(groups []HelpGroup, width, height int) string {
	titleStyle := lipgloss.NewStyle().Foreground(styles.Comment).Bold(true).Padding(0, 1)
	groupStyle := lipgloss.NewStyle().Foreground(styles.Heading).Bold(true).MarginTop(1)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Muted).Bold(true).Width(12)
	descStyle := lipgloss.NewStyle().Foreground(styles.Text)

	lines := []string{titleStyle.Render("Keybindings")}
	for _, g := range groups {
		lines = append(lines, groupStyle.Render(g.Title))
		for _, b := range g.Bindings {
			if !b.Enabled() {
				continue
			}
			h := b.Help()
			lines = append(lines, "  "+keyStyle.Render(h.Key)+descStyle.Render(h.Desc))
		}
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).Render("Press any key to close"))

	panel := lipgloss.NewStyle().
		Background(styles.Surface).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Selection).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}
