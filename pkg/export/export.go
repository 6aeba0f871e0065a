// Package export turns a snapshot of a video's annotations and transcript
// into downloadable documents: CSV, plain text, JSON, a printable PDF, a
// self-contained interactive HTML page, and a ZIP bundle.
//
// Every producer is a pure function of its Snapshot.
package export

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/platform"
	"github.com/user/reactvid-cli/transcript"
)

// ToolName heads text exports and page titles.
const ToolName = "ReactVid Export"

// Version is written into bundle data files.
const Version = "2.0"

// Format names an export variant.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatText Format = "txt"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
	FormatZIP  Format = "zip"
	FormatSRT  Format = "srt"
)

// Formats lists the annotation export variants in menu order.
var Formats = []Format{FormatCSV, FormatText, FormatJSON, FormatPDF, FormatHTML, FormatZIP}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatText, FormatJSON, FormatPDF, FormatHTML, FormatZIP, FormatSRT:
		return f, nil
	case "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Suffix is appended to the sanitized video title to name the output file.
func (f Format) Suffix() string {
	switch f {
	case FormatCSV:
		return "_comments.csv"
	case FormatText:
		return "_comments.txt"
	case FormatJSON:
		return "_comments.json"
	case FormatPDF:
		return "_comments.pdf"
	case FormatHTML:
		return "_export.html"
	case FormatZIP:
		return ".zip"
	case FormatSRT:
		return "_transcript.srt"
	}
	return "." + string(f)
}

// Label is the human-readable format name.
func (f Format) Label() string {
	switch f {
	case FormatCSV:
		return "CSV"
	case FormatText:
		return "Text"
	case FormatJSON:
		return "JSON"
	case FormatPDF:
		return "PDF"
	case FormatHTML:
		return "Interactive HTML"
	case FormatZIP:
		return "ZIP bundle"
	case FormatSRT:
		return "Subtitles"
	}
	return string(f)
}

var (
	// ErrNothingToExport is returned when there are no annotations or no video.
	ErrNothingToExport = errors.New("nothing to export")
	// ErrNoVideo is returned when no video is loaded. It matches ErrNothingToExport.
	ErrNoVideo = fmt.Errorf("no video loaded: %w", ErrNothingToExport)
	// ErrNoTranscript is returned by subtitle export when the transcript is empty.
	ErrNoTranscript = errors.New("transcript is empty")
)

// Error identifies which export failed.
type Error struct {
	Format Format
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s export failed: %v", e.Format.Label(), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Snapshot is the immutable input of every producer.
type Snapshot struct {
	Video       platform.Video
	Annotations []annotation.Annotation
	Transcript  []transcript.Segment
	GeneratedAt time.Time
}

// Validate is the shared precondition: a loaded video and at least one annotation.
func Validate(s Snapshot) error {
	if !s.Video.Loaded() {
		return ErrNoVideo
	}
	if len(s.Annotations) == 0 {
		return ErrNothingToExport
	}
	return nil
}

// Check applies the precondition of format f: subtitles need a transcript,
// every other format needs annotations.
func (f Format) Check(s Snapshot) error {
	if f != FormatSRT {
		return Validate(s)
	}
	if !s.Video.Loaded() {
		return ErrNoVideo
	}
	if len(s.Transcript) == 0 {
		return ErrNoTranscript
	}
	return nil
}

func (s Snapshot) title() string {
	if s.Video.Title != "" {
		return s.Video.Title
	}
	return platform.DefaultTitle(s.Video.Provider)
}

func (s Snapshot) generatedAt() time.Time {
	if s.GeneratedAt.IsZero() {
		return time.Now()
	}
	return s.GeneratedAt
}

var (
	unsafeChars = regexp.MustCompile(`[^\w\s.-]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// maxFilenameLen caps sanitized names for cross-platform validity.
const maxFilenameLen = 100

// SanitizeFilename strips everything except letters, digits, underscore,
// whitespace, dot and hyphen, turns whitespace runs into underscores and
// caps the length. An empty result becomes "export".
func SanitizeFilename(name string) string {
	if s := sanitize(name); s != "" {
		return s
	}
	return "export"
}

func sanitize(name string) string {
	s := unsafeChars.ReplaceAllString(name, "")
	s = whitespace.ReplaceAllString(s, "_")
	if len(s) > maxFilenameLen {
		s = s[:maxFilenameLen]
	}
	return s
}

// MediaFilename sanitizes a video file name for use inside a bundle and as
// a relative link, keeping its extension. A name with nothing usable left
// becomes "video" plus the extension.
func MediaFilename(name string) string {
	ext := strings.ToLower(sanitize(path.Ext(name)))
	if ext == "." {
		ext = ""
	}
	stem := sanitize(strings.TrimSuffix(name, path.Ext(name)))
	stem = strings.Trim(stem, "._")
	if stem == "" {
		stem = "video"
	}
	if ext == "" {
		ext = ".mp4"
	}
	if len(stem)+len(ext) > maxFilenameLen {
		stem = stem[:maxFilenameLen-len(ext)]
	}
	return stem + ext
}

// Filename returns the output file name for a video title and format.
func Filename(title string, f Format) string {
	return SanitizeFilename(title) + f.Suffix()
}
