package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/transcript"
)

func sample() []annotation.Annotation {
	return []annotation.Annotation{
		{ID: "c", Timestamp: 90, Kind: annotation.KindReaction, Text: "lol", Emoji: "😂"},
		{ID: "b", Timestamp: 30, Kind: annotation.KindComment, Text: "middle"},
		{ID: "a", Timestamp: 0, Kind: annotation.KindComment, Text: "start"},
	}
}

func TestRenderInfoBoxWidth(t *testing.T) {
	box := RenderInfoBox("Title", []string{"short", strings.Repeat("x", 50)}, 20)
	lines := strings.Split(box, "\n")
	require.Len(t, lines, 4)
	for _, l := range lines {
		assert.Equal(t, 20, lipgloss.Width(l))
	}
	assert.Equal(t, "", RenderInfoBox("x", nil, 3))
}

func TestTimelineMarkers(t *testing.T) {
	out := Timeline(30, 120, sample(), 60)
	assert.Equal(t, TimelineHeight, len(strings.Split(out, "\n")))
	assert.Contains(t, out, "◆")
	assert.Contains(t, out, "●")
	assert.Contains(t, out, "0:30 / 2:00")
}

func TestBarCell(t *testing.T) {
	assert.Equal(t, 0, barCell(0, 100, 11))
	assert.Equal(t, 5, barCell(50, 100, 11))
	assert.Equal(t, 10, barCell(500, 100, 11))
	assert.Equal(t, 0, barCell(-5, 100, 11))
	assert.Equal(t, 0, barCell(50, 0, 11))
}

func TestAnnotationListSelection(t *testing.T) {
	var s AnnotationListState
	s.SetItems(sample())
	s.MoveDown()
	require.Equal(t, "b", s.Selected().ID)

	// Re-sorting keeps the selected id.
	items := sample()
	items[0], items[2] = items[2], items[0]
	s.SetItems(items)
	assert.Equal(t, "b", s.Selected().ID)

	s.MoveUp()
	s.MoveUp()
	assert.Equal(t, 0, s.SelectedIndex)

	s.Select("c")
	assert.Equal(t, 2, s.SelectedIndex)

	s.SetItems(nil)
	assert.Nil(t, s.Selected())
}

func TestAnnotationListRender(t *testing.T) {
	s := &AnnotationListState{}
	out := AnnotationList(s, 60, 5, 0, 3)
	assert.Contains(t, out, "No comments yet")

	s.SetItems(sample())
	out = AnnotationList(s, 60, 5, 31, 3)
	assert.Contains(t, out, "1:30")
	assert.Contains(t, out, "😂 lol")
	assert.Contains(t, out, "▸ ")
	assert.LessOrEqual(t, len(strings.Split(out, "\n")), 5)
}

func TestAnnotationListScrollsToSelection(t *testing.T) {
	var items []annotation.Annotation
	for i := 0; i < 20; i++ {
		items = append(items, annotation.Annotation{ID: string(rune('a' + i)), Timestamp: i, Kind: annotation.KindComment, Text: "row"})
	}
	s := &AnnotationListState{}
	s.SetItems(items)
	s.Select("t")
	AnnotationList(s, 60, 6, 0, 3)
	assert.Equal(t, 15, s.ScrollOffset)
}

func TestCurrentSegment(t *testing.T) {
	segs := []transcript.Segment{{Timestamp: 0, Text: "a"}, {Timestamp: 10, Text: "b"}, {Timestamp: 20, Text: "c"}}
	assert.Equal(t, 0, currentSegment(segs, 5))
	assert.Equal(t, 1, currentSegment(segs, 10))
	assert.Equal(t, 2, currentSegment(segs, 99))
}

func TestExportProgress(t *testing.T) {
	assert.Equal(t, "", ExportProgress(ExportProgressState{}, 40))

	out := ExportProgress(ExportProgressState{Active: true, Format: "ZIP bundle", Percent: 50}, 40)
	assert.Contains(t, out, " 50%")

	out = ExportProgress(ExportProgressState{Active: true, Percent: 100, Err: errors.New("boom")}, 40)
	assert.Contains(t, out, "boom")
}

func TestStatusBar(t *testing.T) {
	out := StatusBar(StatusBarState{Paused: true, TimePos: 65, Duration: 3600, Title: "Clip", Provider: "YouTube", SortOrder: "asc", Capturing: true}, 80)
	assert.Equal(t, 80, lipgloss.Width(out))
	assert.Contains(t, out, "1:05 / 1:00:00")
	assert.Contains(t, out, "Clip · YouTube")
	assert.Contains(t, out, "REC")
}
