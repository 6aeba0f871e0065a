package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/pkg/timeutil"
	"github.com/user/reactvid-cli/tui/styles"
)

// TimelineHeight is the number of lines Timeline renders.
const TimelineHeight = 4

// Timeline renders a progress bar with one marker per annotation in a
// bordered box. Comment markers are ◆ and reaction markers ●; when both
// fall in one cell the reaction wins.
func Timeline(timePos, duration float64, items []annotation.Annotation, width int) string {
	if width < 20 {
		return ""
	}
	innerWidth := width - 2

	timeDisplay := fmt.Sprintf(" %s / %s ", timeutil.Format(timePos), timeutil.Format(duration))
	barWidth := innerWidth - lipgloss.Width(timeDisplay) - 1
	if barWidth < 10 {
		barWidth = 10
	}

	fillPos := barCell(timePos, duration, barWidth)
	markers := make([]annotation.Kind, barWidth)
	if duration > 0 {
		for _, a := range items {
			cell := barCell(float64(a.Timestamp), duration, barWidth)
			if markers[cell] != annotation.KindReaction {
				markers[cell] = a.Kind
			}
		}
	}

	filledStyle := lipgloss.NewStyle().Foreground(styles.Selection)
	emptyStyle := lipgloss.NewStyle().Foreground(styles.Frame)
	headStyle := lipgloss.NewStyle().Foreground(styles.Heading).Bold(true)

	var bar, indicator strings.Builder
	for i := 0; i < barWidth; i++ {
		switch {
		case markers[i] == annotation.KindReaction:
			bar.WriteString(styles.ReactionText.Render("●"))
		case markers[i] == annotation.KindComment:
			bar.WriteString(styles.CommentText.Render("◆"))
		case i < fillPos:
			bar.WriteString(filledStyle.Render("━"))
		case i == fillPos:
			bar.WriteString(headStyle.Render("╸"))
		default:
			bar.WriteString(emptyStyle.Render("─"))
		}
		if i == fillPos {
			indicator.WriteString(headStyle.Render("▲"))
		} else {
			indicator.WriteString(" ")
		}
	}

	timeStyle := lipgloss.NewStyle().Foreground(styles.Text).Bold(true)
	lines := []string{
		" " + bar.String() + timeStyle.Render(timeDisplay),
		" " + indicator.String(),
	}
	return RenderInfoBox("Timeline", lines, width)
}

// barCell maps a time to a bar cell, clamped to the bar.
func barCell(t, duration float64, width int) int {
	if duration <= 0 || width <= 1 {
		return 0
	}
	cell := int(math.Round(float64(width-1) * t / duration))
	return max(0, min(cell, width-1))
}
