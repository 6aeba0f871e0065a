package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format formats seconds as M:SS below one hour and H:MM:SS from one hour on
// (e.g. 0:59, 1:01:01). Non-finite, zero and negative input renders as 0:00.
func Format(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return "0:00"
	}
	total := int(math.Floor(seconds))
	hours := total / 3600
	mins := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// Parse converts free-form timestamp text to whole seconds.
// Uses colon count: 3 parts = H:M:S, 2 parts = M:S, anything else is read as a
// leading integer. Components are not range-checked, so "99:99" is 6039.
// Unparseable text yields 0 and the result is never negative.
func Parse(text string) int {
	parts := strings.Split(strings.TrimSpace(text), ":")

	var total int
	switch len(parts) {
	case 3:
		h, okH := component(parts[0])
		m, okM := component(parts[1])
		s, okS := component(parts[2])
		if !okH || !okM || !okS {
			return 0
		}
		total = h*3600 + m*60 + s
	case 2:
		m, okM := component(parts[0])
		s, okS := component(parts[1])
		if !okM || !okS {
			return 0
		}
		total = m*60 + s
	default:
		total = leadingInt(text)
	}

	if total < 0 {
		return 0
	}
	return total
}

// component parses one colon-separated field. Blank fields count as zero.
func component(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// leadingInt reads the integer prefix of s ("12abc" is 12, "abc" is 0).
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// FormatSRT formats whole seconds as a subtitle cue time (HH:MM:SS,mmm).
func FormatSRT(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d,000", h, m, s)
}

// ParseSRT parses a subtitle cue time (HH:MM:SS,mmm) into whole seconds.
// Milliseconds are discarded.
func ParseSRT(text string) (int, error) {
	var h, m, s, ms int
	text = strings.Replace(strings.TrimSpace(text), ".", ",", 1)
	if n, err := fmt.Sscanf(text, "%d:%d:%d,%d", &h, &m, &s, &ms); n != 4 || err != nil {
		return 0, fmt.Errorf("expected HH:MM:SS,mmm, got '%s'", text)
	}
	return h*3600 + m*60 + s, nil
}
