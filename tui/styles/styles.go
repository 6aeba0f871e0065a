// Package styles provides Lipgloss styles for the TUI using the Ciapre colour palette.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette - Ciapre (warm, earthy) theme from Gogh
const (
	// Base is the main background colour
	Base = lipgloss.Color("#191C27")
	// Surface is the status bar and panel background
	Surface = lipgloss.Color("#181818")
	// Frame is the border colour
	Frame = lipgloss.Color("#5C4F4B")
	// Selection marks the selected row and focused fields
	Selection = lipgloss.Color("#724D7C")
	// Muted is secondary text
	Muted = lipgloss.Color("#AEA47A")
	// Text is the primary text colour
	Text = lipgloss.Color("#F3DBB2")
	// Heading is used for box titles and the playhead
	Heading = lipgloss.Color("#D33061")
	// Comment marks comment annotations
	Comment = lipgloss.Color("#3097C6")
	// Reaction marks emoji reactions
	Reaction = lipgloss.Color("#CC8B3F")
	// Red is used for warnings and errors
	Red = lipgloss.Color("#AC3835")
	// Green is used for success messages and progress
	Green = lipgloss.Color("#A6A75D")
)

// Highlight is the style for the selected row
var Highlight = lipgloss.NewStyle().
	Background(Selection).
	Foreground(Text).
	Bold(true)

// PrimaryText is the style for primary text content
var PrimaryText = lipgloss.NewStyle().
	Foreground(Text)

// SecondaryText is the style for less prominent text
var SecondaryText = lipgloss.NewStyle().
	Foreground(Muted)

// Placeholder is the style for empty-state hints
var Placeholder = lipgloss.NewStyle().
	Foreground(Frame).
	Italic(true)

// CommentText colours comment timestamps and markers
var CommentText = lipgloss.NewStyle().
	Foreground(Comment)

// ReactionText colours reaction timestamps and markers
var ReactionText = lipgloss.NewStyle().
	Foreground(Reaction)

// Warning is the style for warning messages
var Warning = lipgloss.NewStyle().
	Foreground(Red).
	Bold(true)

// Success is the style for success messages
var Success = lipgloss.NewStyle().
	Foreground(Green).
	Bold(true)
