package layout

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// PadToWidth fits s into exactly width cells. Wide runes that would
// straddle the edge are dropped whole.
func PadToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	if gap := width - ansi.StringWidth(s); gap > 0 {
		s += strings.Repeat(" ", gap)
	}
	return s
}

// NormalizeLines returns exactly height lines, cutting or padding with blanks.
func NormalizeLines(lines []string, height int) []string {
	out := make([]string, max(height, 0))
	copy(out, lines)
	return out
}
