package export

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/user/reactvid-cli/annotation"
)

// compressionLevel is the deflate level used for every bundle entry.
const compressionLevel = 6

// VideoFile is the local video copied into a bundle.
type VideoFile struct {
	// Name is the file name inside the bundle.
	Name   string
	Reader io.Reader
	Size   int64
}

// Present reports whether there is video content to copy.
func (v VideoFile) Present() bool {
	return v.Reader != nil && v.Name != ""
}

type bundleVideo struct {
	VideoRef
	Duration  float64 `json:"duration"`
	LocalFile *string `json:"localFile"`
}

type bundleStats struct {
	DocumentStats
	AvgTimestamp int `json:"avgTimestamp"`
}

// bundleDocument is the data.json of a bundle. Its video and stats fields
// shadow the embedded Document's, so DecodeJSON still reads it.
type bundleDocument struct {
	Document
	Video         bundleVideo `json:"video"`
	Stats         bundleStats `json:"stats"`
	ExportVersion string      `json:"exportVersion"`
}

type bundleEntry struct {
	name string
	data []byte
}

// Bundle writes a ZIP archive to w. Every entry lives in a folder named
// after the sanitized video title; the video keeps a sanitized copy of its
// own name. progress, when set, receives a
// percentage as bytes are written and ends at 100.
func Bundle(w io.Writer, s Snapshot, video VideoFile, progress func(int)) error {
	if err := Validate(s); err != nil {
		return err
	}

	if video.Present() {
		video.Name = MediaFilename(video.Name)
	}
	entries, err := bundleEntries(s, video)
	if err != nil {
		return err
	}

	total := video.Size
	for _, e := range entries {
		total += int64(len(e.data))
	}
	pw := &progressWriter{total: total, report: progress}

	folder := SanitizeFilename(s.title())
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, compressionLevel)
	})

	for _, e := range entries {
		if err := writeEntry(zw, path.Join(folder, e.name), bytes.NewReader(e.data), pw); err != nil {
			return err
		}
	}
	if video.Present() {
		if err := writeEntry(zw, path.Join(folder, video.Name), video.Reader, pw); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish archive: %w", err)
	}
	pw.done()
	return nil
}

func bundleEntries(s Snapshot, video VideoFile) ([]bundleEntry, error) {
	media := Media{}
	if video.Present() {
		media.Src = video.Name
	}
	page, err := HTML(s, media)
	if err != nil {
		return nil, err
	}
	data, err := bundleData(s, video)
	if err != nil {
		return nil, err
	}
	csv, err := CSV(s)
	if err != nil {
		return nil, err
	}
	txt, err := Text(s)
	if err != nil {
		return nil, err
	}

	entries := []bundleEntry{
		{"index.html", page},
		{"data.json", data},
		{"comments.csv", csv},
		{"comments.txt", txt},
	}
	if len(s.Transcript) > 0 {
		srt, err := SRT(s)
		if err != nil {
			return nil, err
		}
		entries = append(entries, bundleEntry{"transcript.srt", srt})
	}

	names := make([]string, 0, len(entries)+2)
	for _, e := range entries {
		names = append(names, e.name)
	}
	names = append(names, "README.md")
	if video.Present() {
		names = append(names, video.Name)
	}
	entries = append(entries, bundleEntry{"README.md", readme(s, names)})
	return entries, nil
}

func bundleData(s Snapshot, video VideoFile) ([]byte, error) {
	doc := newDocument(s)
	st := annotation.Summarize(s.Annotations)

	var localFile *string
	if video.Present() {
		name := video.Name
		localFile = &name
	}

	return marshalIndent(bundleDocument{
		Document: doc,
		Video: bundleVideo{
			VideoRef:  doc.Video,
			Duration:  s.Video.Duration(),
			LocalFile: localFile,
		},
		Stats: bundleStats{
			DocumentStats: doc.Stats,
			AvgTimestamp:  st.AvgTimestamp,
		},
		ExportVersion: Version,
	})
}

func readme(s Snapshot, files []string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.title())
	fmt.Fprintf(&b, "Exported by %s %s on %s.\n\n", ToolName, Version, s.generatedAt().Format(dateLayout))
	if url := s.Video.WatchURL(); url != "" {
		fmt.Fprintf(&b, "Source: %s\n\n", url)
	}
	b.WriteString("## Files\n\n")
	for _, f := range files {
		fmt.Fprintf(&b, "- `%s`%s\n", f, describeFile(f))
	}
	b.WriteString("\nOpen `index.html` in a browser to replay the annotations.\n")
	return []byte(b.String())
}

func describeFile(name string) string {
	switch name {
	case "index.html":
		return ": interactive player with timeline"
	case "data.json":
		return ": all annotations and the transcript, re-importable"
	case "comments.csv":
		return ": annotations for spreadsheets"
	case "comments.txt":
		return ": annotations as plain text"
	case "transcript.srt":
		return ": transcript as subtitles"
	case "README.md":
		return ": this file"
	}
	return ": original video"
}

func writeEntry(zw *zip.Writer, name string, r io.Reader, pw *progressWriter) error {
	f, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(io.MultiWriter(f, pw), r); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// progressWriter counts bytes and reports whole percentages when they change.
type progressWriter struct {
	total   int64
	written int64
	last    int
	report  func(int)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if p.report == nil || p.total <= 0 {
		return len(b), nil
	}
	pct := int(p.written * 100 / p.total)
	if pct > 99 {
		// 100 is reserved for a finished archive.
		pct = 99
	}
	if pct > p.last {
		p.last = pct
		p.report(pct)
	}
	return len(b), nil
}

func (p *progressWriter) done() {
	if p.report != nil {
		p.report(100)
	}
}
