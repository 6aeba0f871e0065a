package export

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	dateLayout    = "2006-01-02 15:04:05"
	separatorLine = "=================================================="
)

// Text renders a title block followed by one "[time] emoji text" entry per
// annotation, entries separated by blank lines.
func Text(s Snapshot) ([]byte, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "%s\n", ToolName)
	fmt.Fprintf(&b, "Video: %s\n", s.title())
	fmt.Fprintf(&b, "Platform: %s\n", s.Video.Provider.DisplayName())
	fmt.Fprintf(&b, "Date: %s\n", s.generatedAt().Format(dateLayout))
	b.WriteString(separatorLine + "\n\n")

	for _, a := range s.Annotations {
		parts := []string{"[" + a.Time() + "]"}
		if a.Emoji != "" {
			parts = append(parts, a.Emoji)
		}
		parts = append(parts, a.Text)
		b.WriteString(strings.Join(parts, " ") + "\n\n")
	}
	return b.Bytes(), nil
}
