package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/reactvid-cli/tui/styles"
)

// ExportProgressState holds the state for the export progress display.
type ExportProgressState struct {
	Active  bool
	Format  string
	Percent int
	// Path is set once the export finished
	Path string
	Err  error
}

// ExportProgress renders a bordered box with a progress bar, then the
// output path or the error once the export ends.
func ExportProgress(state ExportProgressState, width int) string {
	if !state.Active || width < 10 {
		return ""
	}

	greenStyle := lipgloss.NewStyle().Foreground(styles.Green)
	amberStyle := lipgloss.NewStyle().Foreground(styles.Reaction)
	innerW := max(width-4, 6)

	pct := max(0, min(state.Percent, 100))
	barWidth := max(innerW-6, 4)
	filled := barWidth * pct / 100
	bar := greenStyle.Render(strings.Repeat("█", filled)) + amberStyle.Render(strings.Repeat("░", barWidth-filled))
	lines := []string{" " + bar + styles.PrimaryText.Render(fmt.Sprintf(" %3d%%", pct))}

	switch {
	case state.Err != nil:
		lines = append(lines, " "+styles.Warning.Render(truncate(state.Err.Error(), innerW)))
	case state.Path != "":
		lines = append(lines, " "+styles.Success.Render("Saved "+truncate(state.Path, innerW-6)))
	default:
		lines = append(lines, " "+styles.SecondaryText.Render("Exporting..."))
	}

	return RenderInfoBox("Export "+state.Format, lines, width)
}
