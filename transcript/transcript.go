// Package transcript stores the timestamped spoken-word lines of a video.
// Segments come from bulk import, manual entry or a live capture feed and
// can be promoted into comment annotations.
package transcript

import (
	"errors"
	"strings"

	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/pkg/timeutil"
)

var (
	// ErrNoSegments is returned when an import yields nothing.
	ErrNoSegments = errors.New("no transcript segments found")
	// ErrEmptyText is returned when a manual segment has no text.
	ErrEmptyText = errors.New("transcript text is empty")
	// ErrPersist wraps persistence failures. The in-memory change still applies.
	ErrPersist = errors.New("transcript not saved")
)

// Languages are the tags offered for labeling a transcript.
var Languages = []string{"en-US", "en-GB", "fr-FR", "es-ES", "de-DE", "it-IT", "pt-BR", "ja-JP", "ko-KR", "zh-CN"}

// DefaultLanguage labels imports that do not name one.
const DefaultLanguage = "en-US"

// CueDuration is the fixed subtitle cue length in seconds.
const CueDuration = 3

// Segment is one transcript line. Confidence is only set by live capture.
type Segment struct {
	Timestamp  int      `json:"timestamp"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Time is the display form of the timestamp.
func (s Segment) Time() string {
	return timeutil.Format(float64(s.Timestamp))
}

// Key returns the persistence key for a video's transcript.
func Key(namespace, videoID string) string {
	return namespace + "_transcript_" + videoID
}

// Parse splits raw text into segments using the Matchers table. Lines that
// match no pattern are spaced three seconds apart after the last matched
// timestamp.
func Parse(raw string) []Segment {
	var (
		segments  []Segment
		baseline  int
		unmatched int
	)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if m, ok := matchLine(Matchers, line); ok {
			baseline = m.Timestamp
			if m.Text != "" {
				segments = append(segments, Segment{Timestamp: m.Timestamp, Text: m.Text})
			}
			continue
		}
		segments = append(segments, Segment{
			Timestamp: baseline + CueDuration*unmatched,
			Text:      line,
		})
		unmatched++
	}
	return segments
}

// Promote adds segment to the annotation store as a comment at its own timestamp.
func Promote(seg Segment, annotations *annotation.Store) (annotation.Annotation, error) {
	return annotations.Add(seg.Text, float64(seg.Timestamp), annotation.KindComment, "")
}
