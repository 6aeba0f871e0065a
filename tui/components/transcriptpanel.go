package components

import (
	"fmt"
	"strings"

	"github.com/user/reactvid-cli/transcript"
	"github.com/user/reactvid-cli/tui/styles"
)

// TranscriptPanel renders the transcript around the playback position in a
// box of at most height lines. The segment being spoken is highlighted.
func TranscriptPanel(segments []transcript.Segment, language string, capturing bool, timePos float64, width, height int) string {
	rows := height - 2
	if rows < 1 || width < 10 {
		return ""
	}

	title := "Transcript · " + language
	if capturing {
		title += " · ● live"
	}

	if len(segments) == 0 {
		return RenderInfoBox(title, []string{styles.Placeholder.Render(" No transcript. Use 'transcript import'.")}, width)
	}

	current := currentSegment(segments, timePos)
	start := max(0, min(current-rows/3, len(segments)-rows))
	end := min(start+rows, len(segments))

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		seg := segments[i]
		line := fmt.Sprintf(" %s %s", seg.Time(), seg.Text)
		line = truncate(line, width-2)
		if i == current {
			lines = append(lines, styles.Highlight.Render(line))
		} else {
			lines = append(lines, styles.SecondaryText.Render(line))
		}
	}
	return RenderInfoBox(title, lines, width)
}

// currentSegment is the index of the last segment starting at or before
// timePos, or 0. segments must be sorted by timestamp.
func currentSegment(segments []transcript.Segment, timePos float64) int {
	idx := 0
	for i, seg := range segments {
		if float64(seg.Timestamp) > timePos {
			break
		}
		idx = i
	}
	return idx
}

// joinSections stacks rendered boxes.
func joinSections(sections ...string) string {
	var out []string
	for _, s := range sections {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}
