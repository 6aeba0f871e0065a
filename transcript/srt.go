package transcript

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/user/reactvid-cli/pkg/timeutil"
)

// FormatSubtitles renders segments as SRT cues numbered from 1 in
// ascending timestamp order. Each cue lasts CueDuration seconds.
func FormatSubtitles(segments []Segment) string {
	var b strings.Builder
	for i, seg := range sortedCopy(segments) {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1,
			timeutil.FormatSRT(seg.Timestamp),
			timeutil.FormatSRT(seg.Timestamp+CueDuration),
			seg.Text,
		)
	}
	return b.String()
}

// ParseSubtitles reads SRT cues back into segments. Multi-line cue text is
// joined with spaces and end times are ignored.
func ParseSubtitles(r io.Reader) ([]Segment, error) {
	var (
		segments []Segment
		start    = -1
		text     []string
	)
	flush := func() {
		if start >= 0 && len(text) > 0 {
			segments = append(segments, Segment{Timestamp: start, Text: strings.Join(text, " ")})
		}
		start = -1
		text = nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		switch {
		case line == "":
			flush()
		case strings.Contains(line, "-->"):
			from, _, _ := strings.Cut(line, "-->")
			ts, err := timeutil.ParseSRT(from)
			if err != nil {
				return nil, fmt.Errorf("cue %d: %w", len(segments)+1, err)
			}
			start = ts
		case start < 0 && isDigitOnly(line):
			// sequence number
		case start >= 0:
			text = append(text, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	return segments, nil
}

func isDigitOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Lines renders segments as "[time] text" lines in ascending order.
func Lines(segments []Segment) string {
	var b strings.Builder
	for _, seg := range sortedCopy(segments) {
		fmt.Fprintf(&b, "[%s] %s\n", seg.Time(), seg.Text)
	}
	return b.String()
}
