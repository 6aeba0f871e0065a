// Package forms provides huh-based form components for the TUI.
package forms

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/pkg/export"
	"github.com/user/reactvid-cli/pkg/timeutil"
)

// NewConfirmForm creates a yes/no form for a destructive action. The
// result pointer is bound to the confirm field.
func NewConfirmForm(title, description, affirmative string, confirmed *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative(affirmative).
				Negative("Cancel").
				Value(confirmed),
		),
	).WithTheme(Theme())
}

// CommentFormResult holds the text of a completed comment form.
type CommentFormResult struct {
	Text string
}

// NewCommentForm creates a form for a comment at timestamp.
func NewCommentForm(timestamp float64, result *CommentFormResult) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(fmt.Sprintf("Comment @ %s", timeutil.Format(timestamp))),
			huh.NewText().
				Title("Text").
				CharLimit(2000).
				Lines(3).
				Value(&result.Text).
				Validate(requireText),
		),
	).WithTheme(Theme())
}

// ReactionFormResult holds the emoji and label of a completed reaction form.
type ReactionFormResult struct {
	Emoji string
	Text  string
}

// NewReactionForm creates an emoji picker with an optional label.
func NewReactionForm(timestamp float64, result *ReactionFormResult) *huh.Form {
	options := make([]huh.Option[string], 0, len(annotation.Reactions))
	for _, e := range annotation.Reactions {
		options = append(options, huh.NewOption(e, e))
	}
	if result.Emoji == "" {
		result.Emoji = annotation.Reactions[0]
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title(fmt.Sprintf("React @ %s", timeutil.Format(timestamp))),
			huh.NewSelect[string]().
				Title("Reaction").
				Options(options...).
				Inline(true).
				Value(&result.Emoji),
			huh.NewInput().
				Title("Label").
				Description("Optional").
				Value(&result.Text),
		),
	).WithTheme(Theme())
}

// ReactionText is the label stored with a reaction: the typed text, or a
// default naming the emoji.
func (r ReactionFormResult) ReactionText() string {
	if t := strings.TrimSpace(r.Text); t != "" {
		return t
	}
	return "Reacted with " + r.Emoji
}

func exportFormats(hasTranscript bool) []export.Format {
	formats := append([]export.Format(nil), export.Formats...)
	if hasTranscript {
		formats = append(formats, export.FormatSRT)
	}
	return formats
}

// NewExportForm creates a format picker. SRT is offered only when the
// video has a transcript.
func NewExportForm(hasTranscript bool, format *export.Format) *huh.Form {
	options := make([]huh.Option[export.Format], 0, len(export.Formats)+1)
	for _, f := range exportFormats(hasTranscript) {
		options = append(options, huh.NewOption(f.Label(), f))
	}
	if *format == "" {
		*format = export.FormatHTML
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[export.Format]().
				Title("Export").
				Description("Files are written to the output directory").
				Options(options...).
				Value(format),
		),
	).WithTheme(Theme())
}

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("text is required")
	}
	return nil
}
