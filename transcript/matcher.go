package transcript

import (
	"regexp"
	"strings"

	"github.com/user/reactvid-cli/pkg/timeutil"
)

// Match is a line recognized by a Matcher.
type Match struct {
	Timestamp int
	Text      string
}

// Matcher recognizes one timestamped line shape.
type Matcher interface {
	Match(line string) (Match, bool)
}

// RegexpMatcher matches lines with a pattern whose first group is the
// timestamp and second group is the text.
type RegexpMatcher struct {
	Name    string
	Pattern *regexp.Regexp
}

func (m RegexpMatcher) Match(line string) (Match, bool) {
	sub := m.Pattern.FindStringSubmatch(line)
	if len(sub) < 3 {
		return Match{}, false
	}
	return Match{
		Timestamp: timeutil.Parse(sub[1]),
		Text:      strings.TrimSpace(sub[2]),
	}, true
}

const stamp = `(\d{1,2}:\d{2}(?::\d{2})?)`

// Matchers is the ordered table ImportBulk tries; the first match wins.
// Append to it to accept new line shapes.
var Matchers = []Matcher{
	// "0:05 - text", "1:02:03 – text", "0:05: text". The text must not start
	// with a digit so "1:02:03 text" is not split as "1:02" + "03 text".
	RegexpMatcher{Name: "separated", Pattern: regexp.MustCompile(`^` + stamp + `\s*[-–:]\s*(\D.*)$`)},
	// "[0:05] text"
	RegexpMatcher{Name: "bracketed", Pattern: regexp.MustCompile(`^\[` + stamp + `\]\s*(.+)$`)},
	// "0:05 text"
	RegexpMatcher{Name: "plain", Pattern: regexp.MustCompile(`^` + stamp + `\s+(.+)$`)},
}

// matchLine runs the table against one line.
func matchLine(matchers []Matcher, line string) (Match, bool) {
	for _, m := range matchers {
		if match, ok := m.Match(line); ok {
			return match, true
		}
	}
	return Match{}, false
}
