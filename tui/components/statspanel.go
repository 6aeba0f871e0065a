package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/pkg/timeutil"
	"github.com/user/reactvid-cli/transcript"
	"github.com/user/reactvid-cli/tui/styles"
)

// maxEmojiRows caps the reaction bar graph.
const maxEmojiRows = 5

// StatsPanel renders annotation counts and a bar graph of reactions.
func StatsPanel(st annotation.Stats, width int) string {
	if width < 10 {
		return ""
	}

	lines := []string{
		styles.PrimaryText.Render(fmt.Sprintf(" Comments:  %d", st.Comments)),
		styles.PrimaryText.Render(fmt.Sprintf(" Reactions: %d", st.Reactions)),
	}
	if st.Total() > 0 {
		lines = append(lines, styles.SecondaryText.Render(" Average:   "+timeutil.Format(float64(st.AvgTimestamp))))
	}

	if len(st.EmojiCounts) > 0 {
		lines = append(lines, "")
		maxCount := st.EmojiCounts[0].Count
		barMaxWidth := max(width-12, 3)
		barStyle := lipgloss.NewStyle().Foreground(styles.Reaction)
		countStyle := lipgloss.NewStyle().Foreground(styles.Comment)
		for _, ec := range st.EmojiCounts[:min(len(st.EmojiCounts), maxEmojiRows)] {
			barLen := max(ec.Count*barMaxWidth/maxCount, 1)
			lines = append(lines, fmt.Sprintf(" %s %s %s",
				ec.Emoji,
				barStyle.Render(strings.Repeat("█", barLen)),
				countStyle.Render(fmt.Sprintf("%d", ec.Count)),
			))
		}
	}

	return RenderInfoBox("Stats", lines, width)
}

// SidePanel stacks the stats box over the transcript box in height lines.
func SidePanel(st annotation.Stats, segments []transcript.Segment, language string, capturing bool, timePos float64, width, height int) string {
	stats := StatsPanel(st, width)
	remaining := height - lipgloss.Height(stats)
	return joinSections(stats, TranscriptPanel(segments, language, capturing, timePos, width, remaining))
}
