// Package annotation holds the timestamped comments and reactions attached
// to one video, kept in display order and persisted through a db.KV.
package annotation

import (
	"errors"
	"fmt"

	"github.com/user/reactvid-cli/pkg/timeutil"
)

// Kind distinguishes plain comments from emoji reactions.
type Kind string

const (
	KindComment  Kind = "comment"
	KindReaction Kind = "reaction"
)

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindComment, KindReaction:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown annotation kind %q", s)
}

// SortOrder is the store-wide display direction.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortOrder validates a sort order name.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case Ascending, Descending:
		return SortOrder(s), nil
	}
	return "", fmt.Errorf("sort order must be asc or desc, got %q", s)
}

// Reactions is the emoji palette offered by the reaction picker.
var Reactions = []string{"👍", "❤️", "😂", "😮", "😢", "😡", "🔥", "👏", "🎉", "🤔", "💯", "👀"}

var (
	// ErrEmptyText is returned when annotation text is blank after trimming.
	ErrEmptyText = errors.New("annotation text is empty")
	// ErrMissingEmoji is returned when a reaction has no emoji.
	ErrMissingEmoji = errors.New("reaction needs an emoji")
	// ErrNotFound is returned when no annotation has the given id.
	ErrNotFound = errors.New("annotation not found")
	// ErrPersist wraps persistence failures. The in-memory change still applies.
	ErrPersist = errors.New("annotations not saved")
)

// Annotation is one comment or reaction. Annotations are immutable once created.
type Annotation struct {
	ID        string `json:"id"`
	Timestamp int    `json:"timestamp"`
	Kind      Kind   `json:"type"`
	Text      string `json:"text"`
	Emoji     string `json:"emoji,omitempty"`
}

// Time is the display form of the timestamp.
func (a Annotation) Time() string {
	return timeutil.Format(float64(a.Timestamp))
}

// IsReaction reports whether a is a reaction.
func (a Annotation) IsReaction() bool {
	return a.Kind == KindReaction
}

// Stats summarizes a set of annotations.
type Stats struct {
	Comments     int
	Reactions    int
	AvgTimestamp int
	// EmojiCounts is ordered by count, highest first.
	EmojiCounts []EmojiCount
}

// EmojiCount is the number of reactions using one emoji.
type EmojiCount struct {
	Emoji string
	Count int
}

// Total is the number of annotations counted.
func (s Stats) Total() int {
	return s.Comments + s.Reactions
}
