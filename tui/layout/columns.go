package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/reactvid-cli/tui/styles"
)

// Responsive layout constants.
const (
	MinTerminalWidth  = 60 // below this width only the annotation list is shown
	SideHideThreshold = 90 // below this width the side panel is hidden
	SideMinWidth      = 28 // side panel width between the threshold and 120 columns
)

// ComputeColumnWidths splits the terminal between the annotation list and
// the side panel (transcript and stats).
// At >=120 width: the side panel takes 40%. At 90-119: it gets SideMinWidth.
// Below 90: the list takes everything.
func ComputeColumnWidths(termWidth int) (list, side int, showSide bool) {
	showSide = termWidth >= SideHideThreshold
	if !showSide {
		return termWidth, 0, false
	}

	// One border character between the columns
	usable := termWidth - 1
	if termWidth >= 120 {
		side = usable * 2 / 5
	} else {
		side = SideMinWidth
	}
	list = usable - side
	return list, side, true
}

// JoinColumns joins pre-rendered column strings side by side with border separators.
// Each column is normalized to the given height and padded to its width.
func JoinColumns(columns []string, widths []int, height int) string {
	borderStr := lipgloss.NewStyle().
		Foreground(styles.Frame).
		Render("│")

	colLines := make([][]string, len(columns))
	for i, col := range columns {
		colLines[i] = NormalizeLines(strings.Split(col, "\n"), height)
	}

	rows := make([]string, 0, height)
	for row := 0; row < height; row++ {
		parts := make([]string, 0, len(colLines))
		for i, lines := range colLines {
			parts = append(parts, PadToWidth(lines[row], widths[i]))
		}
		rows = append(rows, strings.Join(parts, borderStr))
	}

	return strings.Join(rows, "\n")
}
