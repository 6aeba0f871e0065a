package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/platform"
	"github.com/user/reactvid-cli/transcript"
)

var fixedTime = time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

func youtubeSnapshot() Snapshot {
	return Snapshot{
		Video: platform.Video{
			Provider:        platform.YouTube,
			ID:              "dQw4w9WgXcQ",
			Title:           "Never Gonna: Give/You Up",
			DurationSeconds: 200,
		},
		Annotations: []annotation.Annotation{
			{ID: "a2", Timestamp: 100, Kind: annotation.KindReaction, Text: "Great", Emoji: "🔥"},
			{ID: "a1", Timestamp: 65, Kind: annotation.KindComment, Text: `Say "hi"`},
		},
		Transcript: []transcript.Segment{
			{Timestamp: 13, Text: "second line"},
			{Timestamp: 10, Text: "first line"},
		},
		GeneratedAt: fixedTime,
	}
}

func TestProducersRequireContent(t *testing.T) {
	producers := map[string]func(Snapshot) ([]byte, error){
		"csv":  CSV,
		"text": Text,
		"json": JSON,
		"pdf":  PDF,
		"html": func(s Snapshot) ([]byte, error) { return HTML(s, Media{}) },
		"zip": func(s Snapshot) ([]byte, error) {
			var b bytes.Buffer
			return b.Bytes(), Bundle(&b, s, VideoFile{}, nil)
		},
	}

	empty := youtubeSnapshot()
	empty.Annotations = nil
	noVideo := youtubeSnapshot()
	noVideo.Video = platform.Video{}

	for name, produce := range producers {
		t.Run(name, func(t *testing.T) {
			_, err := produce(empty)
			assert.ErrorIs(t, err, ErrNothingToExport)

			_, err = produce(noVideo)
			assert.ErrorIs(t, err, ErrNoVideo)
			assert.ErrorIs(t, err, ErrNothingToExport)
		})
	}
}

func TestCSV(t *testing.T) {
	data, err := CSV(youtubeSnapshot())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "timestamp,time,type,emoji,text", lines[0])
	assert.Equal(t, `100,"1:40","reaction","🔥","Great"`, lines[1])
	assert.Equal(t, `65,"1:05","comment","","Say ""hi"""`, lines[2])
}

func TestText(t *testing.T) {
	data, err := Text(youtubeSnapshot())
	require.NoError(t, err)

	want := "ReactVid Export\n" +
		"Video: Never Gonna: Give/You Up\n" +
		"Platform: YouTube\n" +
		"Date: 2024-03-09 14:30:00\n" +
		strings.Repeat("=", 50) + "\n\n" +
		"[1:40] 🔥 Great\n\n" +
		"[1:05] Say \"hi\"\n\n"
	assert.Equal(t, want, string(data))
}

func TestJSONRoundTrip(t *testing.T) {
	s := youtubeSnapshot()
	data, err := JSON(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"emoji": null`)
	assert.Contains(t, string(data), `"exportDate": "2024-03-09T14:30:00Z"`)

	doc, err := DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Stats.TotalComments)
	assert.Equal(t, 1, doc.Stats.TotalReactions)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", doc.Video.URL)
	assert.ElementsMatch(t, s.Annotations, doc.Annotations())
	assert.Equal(t, s.Transcript, doc.Transcript)

	v := doc.VideoMetadata()
	assert.Equal(t, platform.YouTube, v.Provider)
	assert.Equal(t, "dQw4w9WgXcQ", v.ID)
}

func TestAnnotationIDsOnlyInDataExports(t *testing.T) {
	s := youtubeSnapshot()
	data, err := JSON(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id": "a1"`)
	assert.Contains(t, string(data), `"id": "a2"`)

	for name, produce := range map[string]func(Snapshot) ([]byte, error){"csv": CSV, "text": Text} {
		data, err := produce(s)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "a1", name)
		assert.NotContains(t, string(data), "a2", name)
	}
}

func TestDecodeJSONRejectsGarbage(t *testing.T) {
	_, err := DecodeJSON([]byte("{not json"))
	assert.Error(t, err)

	_, err = DecodeJSON([]byte(`{"comments": []}`))
	assert.Error(t, err)
}

func TestHTMLEmbed(t *testing.T) {
	s := youtubeSnapshot()
	s.Annotations = append(s.Annotations,
		annotation.Annotation{ID: "a3", Timestamp: 900, Kind: annotation.KindComment, Text: strings.Repeat("x", 40)})

	data, err := HTML(s, Media{})
	require.NoError(t, err)
	page := string(data)

	assert.Contains(t, page, `src="https://www.youtube.com/embed/dQw4w9WgXcQ?rel=0&amp;modestbranding=1"`)
	assert.Contains(t, page, `var mode = "embed"`)
	assert.Contains(t, page, `left: 50.00%`)
	assert.Contains(t, page, `left: 100.00%`, "markers past the end are clamped")
	assert.Contains(t, page, strings.Repeat("x", 30)+"...")
	assert.Contains(t, page, `marker-dot reaction`)
	assert.Contains(t, page, "first line")
	assert.Less(t, strings.Index(page, "first line"), strings.Index(page, "second line"))
	assert.Contains(t, page, `id="markers-bar"`)
	assert.Contains(t, page, "var duration = 200;")
}

func TestHTMLModes(t *testing.T) {
	tiktok := youtubeSnapshot()
	tiktok.Video = platform.Video{Provider: platform.TikTok, ID: "7231338487075638570", SourceURL: "https://www.tiktok.com/@user/video/7231338487075638570"}
	data, err := HTML(tiktok, Media{})
	require.NoError(t, err)
	assert.Contains(t, string(data), "Watch on TikTok")

	unknown := youtubeSnapshot()
	unknown.Video = platform.Video{ID: "mystery"}
	data, err = HTML(unknown, Media{})
	require.NoError(t, err)
	assert.Contains(t, string(data), "Video not available")

	local := youtubeSnapshot()
	local.Video = platform.Video{Provider: platform.Upload, ID: "upload_clip.mp4_4", Title: "clip", MIMEType: "video/mp4"}
	uri, err := DataURI("video/mp4", strings.NewReader("abcd"))
	require.NoError(t, err)
	assert.Equal(t, "data:video/mp4;base64,YWJjZA==", uri)

	data, err = HTML(local, Media{Src: uri})
	require.NoError(t, err)
	page := string(data)
	assert.Contains(t, page, `<source src="data:video/mp4;base64,YWJjZA=="`)
	assert.Contains(t, page, `var mode = "local"`)

	data, err = HTML(local, Media{})
	require.NoError(t, err)
	assert.Contains(t, string(data), "Video not available", "local video without media has nothing to play")
}

func TestMarkerPosition(t *testing.T) {
	assert.Equal(t, 0.0, MarkerPosition(0, 200))
	assert.Equal(t, 50.0, MarkerPosition(100, 200))
	assert.Equal(t, 100.0, MarkerPosition(500, 200))
	assert.Equal(t, 10.0, MarkerPosition(30, 0), "unknown duration falls back to 300s")
	assert.Equal(t, 0.0, MarkerPosition(-5, 200))
}

func TestSRT(t *testing.T) {
	data, err := SRT(youtubeSnapshot())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "1\n00:00:10,000 --> 00:00:13,000\nfirst line\n\n"))

	s := youtubeSnapshot()
	s.Transcript = nil
	_, err = SRT(s)
	assert.ErrorIs(t, err, ErrNoTranscript)
}

func TestBundle(t *testing.T) {
	s := youtubeSnapshot()
	s.Video = platform.Video{Provider: platform.Upload, ID: "upload_clip.mp4_10", Title: "My clip!", MIMEType: "video/mp4", DurationSeconds: 120}

	var percents []int
	var buf bytes.Buffer
	video := VideoFile{Name: "clip.mp4", Reader: strings.NewReader("0123456789"), Size: 10}
	require.NoError(t, Bundle(&buf, s, video, func(p int) { percents = append(percents, p) }))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	files := map[string]string{}
	for _, f := range zr.File {
		assert.Equal(t, zip.Deflate, f.Method)
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		files[f.Name] = string(data)
	}

	for _, name := range []string{"index.html", "data.json", "comments.csv", "comments.txt", "transcript.srt", "README.md", "clip.mp4"} {
		assert.Contains(t, files, "My_clip/"+name)
	}
	assert.Equal(t, "0123456789", files["My_clip/clip.mp4"])
	assert.Contains(t, files["My_clip/index.html"], `<source src="clip.mp4"`)
	assert.Contains(t, files["My_clip/README.md"], "`clip.mp4`")

	data := files["My_clip/data.json"]
	assert.Contains(t, data, `"localFile": "clip.mp4"`)
	assert.Contains(t, data, `"id": "a1"`)
	assert.Contains(t, data, `"duration": 120`)
	assert.Contains(t, data, `"exportVersion": "2.0"`)
	assert.Contains(t, data, `"avgTimestamp": 83`)

	doc, err := DecodeJSON([]byte(data))
	require.NoError(t, err)
	assert.Len(t, doc.Annotations(), 2)
	assert.Equal(t, 1, doc.Stats.TotalReactions)

	require.NotEmpty(t, percents)
	assert.Equal(t, 100, percents[len(percents)-1])
	assert.IsIncreasing(t, percents)
}

func TestBundleSanitizesVideoName(t *testing.T) {
	s := youtubeSnapshot()
	s.Video = platform.Video{Provider: platform.Upload, ID: "upload_x_4", Title: "Final", MIMEType: "video/mp4"}

	var buf bytes.Buffer
	video := VideoFile{Name: "match #3 <final>?.mp4", Reader: strings.NewReader("abcd"), Size: 4}
	require.NoError(t, Bundle(&buf, s, video, nil))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	files := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		files[f.Name] = string(data)
	}

	assert.Equal(t, "abcd", files["Final/match_3_final.mp4"])
	assert.Contains(t, files["Final/index.html"], `<source src="match_3_final.mp4"`)
	assert.Contains(t, files["Final/data.json"], `"localFile": "match_3_final.mp4"`)
	assert.Contains(t, files["Final/README.md"], "`match_3_final.mp4`")
	for name := range files {
		assert.NotContains(t, name, "#")
		assert.NotContains(t, name, "<")
	}
}

func TestMediaFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"clip.mp4", "clip.mp4"},
		{"match #3 <final>?.mp4", "match_3_final.mp4"},
		{"???", "video.mp4"},
		{".mp4", "video.mp4"},
		{"../../etc/passwd", "etcpasswd.mp4"},
		{"Holiday.MOV", "Holiday.mov"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MediaFilename(tt.in), "input %q", tt.in)
	}
	assert.LessOrEqual(t, len(MediaFilename(strings.Repeat("a", 150)+".webm")), 100)
}

func TestPDF(t *testing.T) {
	data, err := PDF(youtubeSnapshot())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Contains(t, string(data), "%%EOF")

	long := youtubeSnapshot()
	for i := 0; i < 40; i++ {
		long.Annotations = append(long.Annotations,
			annotation.Annotation{ID: "x", Timestamp: i, Kind: annotation.KindComment, Text: strings.Repeat("word ", 60)})
	}
	more, err := PDF(long)
	require.NoError(t, err)
	pages := strings.Count(string(more), "/Type /Page") - strings.Count(string(more), "/Type /Pages")
	assert.Greater(t, pages, 1)
}

func TestBundleWithoutTranscriptOrVideo(t *testing.T) {
	s := youtubeSnapshot()
	s.Transcript = nil

	var buf bytes.Buffer
	require.NoError(t, Bundle(&buf, s, VideoFile{}, nil))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.NotContains(t, names, "Never_Gonna_GiveYou_Up/transcript.srt")
	assert.Contains(t, names, "Never_Gonna_GiveYou_Up/index.html")

	rc, err := zr.Open("Never_Gonna_GiveYou_Up/data.json")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"localFile": null`)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"My clip!", "My_clip"},
		{"Never Gonna: Give/You Up", "Never_Gonna_GiveYou_Up"},
		{"a  b\tc", "a_b_c"},
		{"???", "export"},
		{"", "export"},
		{"keep.dots-and_underscores", "keep.dots-and_underscores"},
		{strings.Repeat("a", 150), strings.Repeat("a", 100)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), "input %q", tt.in)
	}
	assert.Equal(t, "My_clip_comments.csv", Filename("My clip", FormatCSV))
	assert.Equal(t, "export.zip", Filename("", FormatZIP))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("TEXT")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "My_clip_comments.pdf", Filename("My clip", f))

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}

func TestErrorUnwraps(t *testing.T) {
	err := error(&Error{Format: FormatHTML, Err: ErrNothingToExport})
	assert.True(t, errors.Is(err, ErrNothingToExport))
	assert.Equal(t, "Interactive HTML export failed: nothing to export", err.Error())
}
