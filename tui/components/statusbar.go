package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/reactvid-cli/pkg/timeutil"
	"github.com/user/reactvid-cli/tui/styles"
)

// StatusBarState holds the playback and session state for the status bar.
type StatusBarState struct {
	Paused   bool
	TimePos  float64
	Duration float64
	// Title and Provider describe the loaded video
	Title    string
	Provider string
	// SortOrder is "asc" or "desc"
	SortOrder string
	// Capturing is set while a live transcript feed is followed
	Capturing bool
	// PlayerLost is set when the player stopped answering
	PlayerLost bool
}

// StatusBar renders a single-line status bar: play state, position, video
// title on the left; sort order and capture state on the right.
func StatusBar(state StatusBarState, width int) string {
	playIcon := "▶"
	if state.Paused {
		playIcon = "⏸"
	}
	if state.PlayerLost {
		playIcon = "✗"
	}

	left := fmt.Sprintf(" %s %s / %s", playIcon, timeutil.Format(state.TimePos), timeutil.Format(state.Duration))

	sortIcon := "↓ newest"
	if state.SortOrder == "asc" {
		sortIcon = "↑ oldest"
	}
	right := sortIcon
	if state.Capturing {
		right = "● REC  " + right
	}
	right += " "

	titleWidth := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	title := ""
	if titleWidth > 0 && state.Title != "" {
		label := state.Title
		if state.Provider != "" {
			label += " · " + state.Provider
		}
		title = "  " + truncate(label, titleWidth)
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(title) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	content := left + title + strings.Repeat(" ", padding) + right

	return lipgloss.NewStyle().
		Background(styles.Surface).
		Foreground(styles.Text).
		Bold(true).
		Width(width).
		Render(content)
}
