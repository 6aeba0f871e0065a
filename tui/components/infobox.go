// Package components provides reusable TUI components.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/user/reactvid-cli/tui/styles"
)

// RenderInfoBox renders a bordered box with a tab-style header and content lines.
// Content lines are rendered as-is (caller handles styling); lines wider than
// the box are cut.
func RenderInfoBox(title string, contentLines []string, width int) string {
	if width < 4 {
		return ""
	}
	innerWidth := width - 2

	headerStyle := lipgloss.NewStyle().Foreground(styles.Heading).Bold(true)
	frameStyle := lipgloss.NewStyle().Foreground(styles.Frame)

	// Tab header: ╭─ Title ─────╮
	headerText := headerStyle.Render(" " + ansi.Truncate(title, innerWidth-3, "…") + " ")
	fillWidth := innerWidth - 1 - lipgloss.Width(headerText)
	if fillWidth < 0 {
		fillWidth = 0
	}
	lines := []string{
		frameStyle.Render("╭─") + headerText + frameStyle.Render(strings.Repeat("─", fillWidth)+"╮"),
	}

	for _, line := range contentLines {
		if lipgloss.Width(line) > innerWidth {
			line = ansi.Truncate(line, innerWidth, "")
		}
		pad := innerWidth - lipgloss.Width(line)
		lines = append(lines, frameStyle.Render("│")+line+strings.Repeat(" ", pad)+frameStyle.Render("│"))
	}

	lines = append(lines, frameStyle.Render("╰"+strings.Repeat("─", innerWidth)+"╯"))
	return strings.Join(lines, "\n")
}

// truncate shortens s to fit width display columns, ending in "...".
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	if width <= 3 {
		return ansi.Truncate(s, width, "")
	}
	return ansi.Truncate(s, width, "...")
}
