package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/pkg/export"
)

func TestReactionText(t *testing.T) {
	assert.Equal(t, "so good", ReactionFormResult{Emoji: "🔥", Text: " so good "}.ReactionText())
	assert.Equal(t, "Reacted with 🔥", ReactionFormResult{Emoji: "🔥"}.ReactionText())
}

func TestNewReactionFormDefaultsEmoji(t *testing.T) {
	var r ReactionFormResult
	require.NotNil(t, NewReactionForm(10, &r))
	assert.Equal(t, annotation.Reactions[0], r.Emoji)
}

func TestNewExportFormDefaultsToHTML(t *testing.T) {
	var f export.Format
	require.NotNil(t, NewExportForm(false, &f))
	assert.Equal(t, export.FormatHTML, f)
}

func TestExportFormats(t *testing.T) {
	formats := exportFormats(false)
	assert.Contains(t, formats, export.FormatPDF)
	assert.NotContains(t, formats, export.FormatSRT)
	assert.Contains(t, exportFormats(true), export.FormatSRT)
}

func TestRequireText(t *testing.T) {
	assert.Error(t, requireText("   "))
	assert.NoError(t, requireText("hi"))
}

func TestThemeBuilds(t *testing.T) {
	assert.NotNil(t, Theme())
}
