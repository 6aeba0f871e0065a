package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/tui/styles"
)

// AnnotationListState holds the selection and scroll position of the list.
type AnnotationListState struct {
	Items         []annotation.Annotation
	SelectedIndex int
	ScrollOffset  int
}

// SetItems replaces the items, keeping the selection on the same id when
// it still exists.
func (s *AnnotationListState) SetItems(items []annotation.Annotation) {
	var selectedID string
	if sel := s.Selected(); sel != nil {
		selectedID = sel.ID
	}
	s.Items = items
	s.SelectedIndex = 0
	for i, a := range items {
		if a.ID == selectedID {
			s.SelectedIndex = i
			break
		}
	}
}

// Select moves the selection to the item with id.
func (s *AnnotationListState) Select(id string) {
	for i, a := range s.Items {
		if a.ID == id {
			s.SelectedIndex = i
			return
		}
	}
}

// MoveUp moves the selection up in the list.
func (s *AnnotationListState) MoveUp() {
	if s.SelectedIndex > 0 {
		s.SelectedIndex--
	}
}

// MoveDown moves the selection down in the list.
func (s *AnnotationListState) MoveDown() {
	if s.SelectedIndex < len(s.Items)-1 {
		s.SelectedIndex++
	}
}

// Selected returns the selected annotation, or nil when the list is empty.
func (s *AnnotationListState) Selected() *annotation.Annotation {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Items) {
		return nil
	}
	return &s.Items[s.SelectedIndex]
}

// scroll keeps the selection inside a window of rows lines.
func (s *AnnotationListState) scroll(rows int) {
	if s.SelectedIndex < s.ScrollOffset {
		s.ScrollOffset = s.SelectedIndex
	} else if s.SelectedIndex >= s.ScrollOffset+rows {
		s.ScrollOffset = s.SelectedIndex - rows + 1
	}
	maxOffset := max(len(s.Items)-rows, 0)
	s.ScrollOffset = max(0, min(s.ScrollOffset, maxOffset))
}

// AnnotationList renders the annotations as a table of height lines
// (header included). Rows whose [t, t+window) contains timePos are marked
// with ▸.
func AnnotationList(state *AnnotationListState, width, height int, timePos float64, window int) string {
	if height < 2 || width < 20 {
		return ""
	}
	rows := height - 1

	const timeWidth = 8
	textWidth := width - timeWidth - 6

	headerStyle := lipgloss.NewStyle().Foreground(styles.Muted).Bold(true).Underline(true)
	lines := []string{headerStyle.Render(fmt.Sprintf("  %-*s  %s", timeWidth, "Time", "Comment"))}

	if len(state.Items) == 0 {
		lines = append(lines, styles.Placeholder.Render("  No comments yet. Press c to comment or r to react."))
		return strings.Join(lines, "\n")
	}

	state.scroll(rows)
	end := min(state.ScrollOffset+rows, len(state.Items))
	for i := state.ScrollOffset; i < end; i++ {
		a := state.Items[i]
		lines = append(lines, renderRow(a, i == state.SelectedIndex, active(a, timePos, window), timeWidth, textWidth, width))
	}
	return strings.Join(lines, "\n")
}

func active(a annotation.Annotation, timePos float64, window int) bool {
	t := float64(a.Timestamp)
	return timePos >= t && timePos < t+float64(window)
}

func renderRow(a annotation.Annotation, selected, playing bool, timeWidth, textWidth, width int) string {
	cursor := " "
	if playing {
		cursor = "▸"
	}

	timeStyle := styles.CommentText
	text := a.Text
	if a.IsReaction() {
		timeStyle = styles.ReactionText
		text = a.Emoji + " " + text
	}
	text = truncate(text, textWidth)

	if selected {
		content := fmt.Sprintf("%s %-*s  %s", cursor, timeWidth, a.Time(), text)
		return styles.Highlight.Width(width).Render(content)
	}
	return fmt.Sprintf("%s %s  %s", cursor, timeStyle.Render(fmt.Sprintf("%-*s", timeWidth, a.Time())), styles.PrimaryText.Render(text))
}
