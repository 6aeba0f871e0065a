package export

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/pkg/timeutil"
	"github.com/user/reactvid-cli/platform"
	"github.com/user/reactvid-cli/transcript"
)

//go:embed templates/export.html.tmpl
var pageTemplateText string

var pageFuncs = template.FuncMap{
	"formatTime": func(seconds any) string {
		switch v := seconds.(type) {
		case int:
			return timeutil.Format(float64(v))
		case float64:
			return timeutil.Format(v)
		}
		return "0:00"
	},
}

var pageTemplate = template.Must(template.New("export").Funcs(pageFuncs).Parse(pageTemplateText))

const (
	// tooltipLen is the longest comment text shown in a marker tooltip.
	tooltipLen = 30
	// highlightWindow is how long, in seconds, a comment stays highlighted
	// during local playback.
	highlightWindow = 3
	// fallbackDuration positions markers when no duration is known at all.
	fallbackDuration = 300
)

// Page modes.
const (
	modeEmbed       = "embed"
	modeLocal       = "local"
	modeLink        = "link"
	modeUnavailable = "unavailable"
)

// Media locates a local video for the page: a data URI for a single-file
// export or a relative file name inside a bundle.
type Media struct {
	Src string
}

type pageComment struct {
	ID        string
	Timestamp int
	Time      string
	Kind      string
	Emoji     string
	Text      string
	Tooltip   string
	Position  float64
	Link      string
}

type pageData struct {
	ToolName        string
	Title           string
	ProviderName    string
	GeneratedAt     string
	Mode            string
	EmbedURL        string
	SeekPrefix      string
	SeekSuffix      string
	WatchURL        string
	ThumbnailURL    string
	VideoSrc        template.URL
	MIMEType        string
	Duration        float64
	HighlightWindow int
	Comments        []pageComment
	Stats           annotation.Stats
	Transcript      []transcript.Segment
}

// HTML renders the interactive page. For local videos media must locate
// the file; for remote videos it is ignored.
func HTML(s Snapshot, media Media) ([]byte, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}

	data := buildPage(s, media)
	var b bytes.Buffer
	if err := pageTemplate.Execute(&b, data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return b.Bytes(), nil
}

func buildPage(s Snapshot, media Media) pageData {
	v := s.Video
	duration := v.Duration()

	data := pageData{
		ToolName:        ToolName,
		Title:           s.title(),
		ProviderName:    v.Provider.DisplayName(),
		GeneratedAt:     s.generatedAt().Format(dateLayout),
		Duration:        duration,
		HighlightWindow: highlightWindow,
		Stats:           annotation.Summarize(s.Annotations),
		Transcript:      sortedSegments(s.Transcript),
	}

	switch {
	case v.IsLocal() && media.Src != "":
		data.Mode = modeLocal
		// Trusted: a MediaFilename result or our own base64 encoding.
		data.VideoSrc = template.URL(media.Src)
		data.MIMEType = v.MIMEType
	case v.Provider.Known() && platform.EmbedURL(v.Provider, v.ID) != "":
		data.Mode = modeEmbed
		data.EmbedURL = platform.EmbedURL(v.Provider, v.ID)
		data.SeekPrefix, data.SeekSuffix = platform.SeekURL(v.Provider, v.ID)
	case v.Provider.Known() && v.WatchURL() != "":
		data.Mode = modeLink
		data.WatchURL = v.WatchURL()
		data.ThumbnailURL = platform.ThumbnailURL(v.Provider, v.ID)
	default:
		data.Mode = modeUnavailable
	}

	for _, a := range s.Annotations {
		data.Comments = append(data.Comments, pageComment{
			ID:        a.ID,
			Timestamp: a.Timestamp,
			Time:      a.Time(),
			Kind:      string(a.Kind),
			Emoji:     a.Emoji,
			Text:      a.Text,
			Tooltip:   truncate(a.Text, tooltipLen),
			Position:  MarkerPosition(a.Timestamp, duration),
			Link:      platform.TimeLink(v.Provider, v.ID, a.Timestamp),
		})
	}
	return data
}

// MarkerPosition is the timeline offset of a timestamp as a percentage,
// clamped to [0, 100]. A non-positive duration falls back to 300 seconds.
func MarkerPosition(timestamp int, duration float64) float64 {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		duration = fallbackDuration
	}
	pos := float64(timestamp) / duration * 100
	return math.Max(0, math.Min(pos, 100))
}

// truncate shortens s to n characters plus "..." when it is longer.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func sortedSegments(segments []transcript.Segment) []transcript.Segment {
	out := append([]transcript.Segment(nil), segments...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

// DataURI encodes r as a base64 data URI with the given MIME type.
func DataURI(mimeType string, r io.Reader) (string, error) {
	var b strings.Builder
	b.WriteString("data:" + mimeType + ";base64,")
	enc := base64.NewEncoder(base64.StdEncoding, &b)
	if _, err := io.Copy(enc, r); err != nil {
		return "", fmt.Errorf("encode video: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode video: %w", err)
	}
	return b.String(), nil
}
