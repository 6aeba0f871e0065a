package export

import (
	"bytes"
	"fmt"
	"strings"
)

const csvHeader = "timestamp,time,type,emoji,text"

// CSV renders one row per annotation in display order. Every string field
// is quoted, so spreadsheets never reinterpret times like 1:05.
func CSV(s Snapshot) ([]byte, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}

	var b bytes.Buffer
	b.WriteString(csvHeader + "\n")
	for _, a := range s.Annotations {
		fmt.Fprintf(&b, "%d,%s,%s,%s,%s\n",
			a.Timestamp,
			quote(a.Time()),
			quote(string(a.Kind)),
			quote(a.Emoji),
			quote(a.Text),
		)
	}
	return b.Bytes(), nil
}

// quote wraps a field in double quotes, doubling internal quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
