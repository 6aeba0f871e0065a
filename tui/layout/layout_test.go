package layout

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestComputeColumnWidths(t *testing.T) {
	list, side, show := ComputeColumnWidths(80)
	assert.False(t, show)
	assert.Equal(t, 80, list)
	assert.Equal(t, 0, side)

	list, side, show = ComputeColumnWidths(100)
	assert.True(t, show)
	assert.Equal(t, SideMinWidth, side)
	assert.Equal(t, 99, list+side)

	list, side, show = ComputeColumnWidths(151)
	assert.True(t, show)
	assert.Equal(t, 60, side)
	assert.Equal(t, 90, list)
}

func TestPadToWidth(t *testing.T) {
	assert.Equal(t, "ab   ", PadToWidth("ab", 5))
	assert.Equal(t, "abc", PadToWidth("abcdef", 3))
	assert.Equal(t, "", PadToWidth("abc", 0))
	assert.Equal(t, 4, lipgloss.Width(PadToWidth("🔥🔥🔥", 4)))
}

func TestContainerRender(t *testing.T) {
	out := Container{Width: 4, Height: 3}.Render("a\nb")
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3)
	for _, l := range lines {
		assert.Equal(t, 4, lipgloss.Width(l))
	}

	out = Container{Width: 10, Height: 2}.Render("1\n2\n3\n4")
	lines = strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[1], "↓ 3 more")
}

func TestJoinColumns(t *testing.T) {
	out := JoinColumns([]string{"left", "right\nsecond"}, []int{6, 7}, 2)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2)
	for _, l := range lines {
		assert.Equal(t, 14, lipgloss.Width(l))
	}
}
