package tui

import (
	"fmt"
	"strings"

	"github.com/user/reactvid-cli/tui/components"
	"github.com/user/reactvid-cli/tui/layout"
)

// renderListColumn renders the annotation table inside a bordered box.
func (m *Model) renderListColumn(width, height int) string {
	// InfoBox adds a top and bottom border line
	innerHeight := max(height-2, 3)

	list := components.AnnotationList(&m.list, width-2, innerHeight, m.statusBar.TimePos, highlightWindow)
	title := fmt.Sprintf("Comments (%d)", len(m.list.Items))
	box := components.RenderInfoBox(title, strings.Split(list, "\n"), width)
	return layout.Container{Width: width, Height: height}.Render(box)
}

// renderSideColumn renders stats over the transcript.
func (m *Model) renderSideColumn(width, height int) string {
	ts := m.sess.Transcript()
	if ts == nil {
		return layout.Container{Width: width, Height: height}.Render(
			components.StatsPanel(m.stats, width))
	}
	return layout.Container{Width: width, Height: height}.Render(
		components.SidePanel(m.stats, ts.Sorted(), ts.Language(), ts.Capturing(), m.statusBar.TimePos, width, height))
}

// renderColumns lays out the list and, when wide enough, the side panel.
func (m *Model) renderColumns(height int) string {
	listW, sideW, showSide := layout.ComputeColumnWidths(m.width)
	if !showSide {
		return m.renderListColumn(listW, height)
	}
	return layout.JoinColumns(
		[]string{m.renderListColumn(listW, height), m.renderSideColumn(sideW, height)},
		[]int{listW, sideW},
		height,
	)
}
