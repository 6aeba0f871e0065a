package session

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/db"
	"github.com/user/reactvid-cli/pkg/export"
	"github.com/user/reactvid-cli/platform"
	"github.com/user/reactvid-cli/player"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC) }

func newSession(t *testing.T, kv db.KV) *Session {
	t.Helper()
	return New(kv, Options{Namespace: "test", Now: fixedNow})
}

func youtubeVideo() platform.Video {
	return platform.Video{Provider: platform.YouTube, ID: "dQw4w9WgXcQ", Title: "Test Video", DurationSeconds: 200}
}

// titledPlayer reports a media title like the mpv client does.
type titledPlayer struct {
	*player.Manual
	title  string
	closed bool
}

func (p *titledPlayer) Title() (string, error) { return p.title, nil }

func (p *titledPlayer) Close() error {
	p.closed = true
	return p.Manual.Close()
}

func TestAnnotateRequiresVideo(t *testing.T) {
	s := newSession(t, db.NewMemoryKV())
	_, err := s.Annotate("hello", annotation.KindComment, "")
	assert.ErrorIs(t, err, ErrNoVideo)
}

func TestAnnotateUsesPlayerTime(t *testing.T) {
	s := newSession(t, db.NewMemoryKV())
	p := player.NewManual(200)
	require.NoError(t, s.Load(youtubeVideo(), p))
	require.NoError(t, p.Seek(65.7))

	a, err := s.Annotate("nice", annotation.KindComment, "")
	require.NoError(t, err)
	assert.Equal(t, 65, a.Timestamp)

	r, err := s.AnnotateAt(10, "wow", annotation.KindReaction, "🔥")
	require.NoError(t, err)
	assert.Equal(t, 10, r.Timestamp)
	assert.Equal(t, 2, s.Annotations().Len())
}

func TestLoadSwitchesVideoAndClosesPlayer(t *testing.T) {
	kv := db.NewMemoryKV()
	s := newSession(t, kv)
	first := &titledPlayer{Manual: player.NewManual(0)}
	require.NoError(t, s.Load(youtubeVideo(), first))
	_, err := s.AnnotateAt(5, "first video", annotation.KindComment, "")
	require.NoError(t, err)

	other := platform.Video{Provider: platform.Vimeo, ID: "76979871"}
	require.NoError(t, s.Load(other, player.NewManual(0)))
	assert.True(t, first.closed)
	assert.Equal(t, 0, s.Annotations().Len())

	require.NoError(t, s.Load(youtubeVideo(), nil))
	require.Equal(t, 1, s.Annotations().Len())
	assert.Equal(t, "first video", s.Annotations().List()[0].Text)
}

func TestRestore(t *testing.T) {
	kv := db.NewMemoryKV()
	s := newSession(t, kv)
	ok, err := s.Restore(nil)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Load(youtubeVideo(), nil))
	_, err = s.AnnotateAt(30, "persisted", annotation.KindComment, "")
	require.NoError(t, err)

	restored := newSession(t, kv)
	ok, err = restored.Restore(nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dQw4w9WgXcQ", restored.Video().ID)
	assert.Equal(t, 1, restored.Annotations().Len())
}

func TestRestoreIgnoresMalformed(t *testing.T) {
	kv := db.NewMemoryKV()
	require.NoError(t, kv.Set("test_current", "{broken"))
	ok, err := newSession(t, kv).Restore(nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRefreshMetadata(t *testing.T) {
	kv := db.NewMemoryKV()
	s := newSession(t, kv)
	p := &titledPlayer{Manual: player.NewManual(212.5), title: "Real Title"}
	video := youtubeVideo()
	video.DurationSeconds = 0
	require.NoError(t, s.Load(video, p))

	require.NoError(t, s.RefreshMetadata(context.Background()))
	assert.Equal(t, "Real Title", s.Video().Title)
	assert.Equal(t, 212.5, s.Video().DurationSeconds)

	raw, ok, err := kv.Get("test_current")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, "Real Title")
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newSession(t, nil)
	require.NoError(t, s.Load(youtubeVideo(), nil))
	_, err := s.AnnotateAt(1, "one", annotation.KindComment, "")
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Annotations[0].Text = "changed"
	assert.Equal(t, "one", s.Annotations().List()[0].Text)
	assert.Equal(t, fixedNow(), snap.GeneratedAt)
}

func TestExportWritesFile(t *testing.T) {
	s := newSession(t, db.NewMemoryKV())
	require.NoError(t, s.Load(youtubeVideo(), nil))
	_, err := s.AnnotateAt(65, `Say "hi"`, annotation.KindComment, "")
	require.NoError(t, err)

	dir := t.TempDir()
	var last int
	path, err := s.Export(export.FormatCSV, dir, func(p int) { last = p })
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Test_Video_comments.csv"), path)
	assert.Equal(t, 100, last)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `65,"1:05","comment","","Say ""hi"""`)
}

func TestExportNothingWritesNoFile(t *testing.T) {
	s := newSession(t, nil)
	require.NoError(t, s.Load(youtubeVideo(), nil))

	dir := t.TempDir()
	for _, f := range export.Formats {
		_, err := s.Export(f, dir, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, export.ErrNothingToExport)

		var exportErr *export.Error
		require.True(t, errors.As(err, &exportErr))
		assert.Equal(t, f, exportErr.Format)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportInProgress(t *testing.T) {
	s := newSession(t, nil)
	require.NoError(t, s.Load(youtubeVideo(), nil))
	_, err := s.AnnotateAt(1, "one", annotation.KindComment, "")
	require.NoError(t, err)

	s.exporting.Store(true)
	_, err = s.Export(export.FormatJSON, t.TempDir(), nil)
	assert.ErrorIs(t, err, ErrExportInProgress)

	s.exporting.Store(false)
	_, err = s.Export(export.FormatJSON, t.TempDir(), nil)
	assert.NoError(t, err)
}

func TestExportAsyncWhileEditing(t *testing.T) {
	s := newSession(t, db.NewMemoryKV())
	require.NoError(t, s.Load(youtubeVideo(), nil))
	for i := 0; i < 50; i++ {
		_, err := s.AnnotateAt(float64(i), "note", annotation.KindComment, "")
		require.NoError(t, err)
	}

	ch := s.ExportAsync(export.FormatCSV, t.TempDir())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.Annotations().ToggleSortOrder()
			if i%20 == 0 {
				_, _ = s.AnnotateAt(float64(i), "late", annotation.KindComment, "")
			}
		}
	}()

	var final Progress
	for msg := range ch {
		final = msg
	}
	wg.Wait()

	require.True(t, final.Done)
	require.NoError(t, final.Err)
	data, err := os.ReadFile(final.Path)
	require.NoError(t, err)
	// The file reflects the state at the time of the call.
	assert.Equal(t, 50, strings.Count(string(data), ",\"note\""))
	assert.NotContains(t, string(data), "late")
}

func TestExportValidatesBeforeCreatingDir(t *testing.T) {
	s := newSession(t, nil)
	require.NoError(t, s.Load(youtubeVideo(), nil))

	dir := filepath.Join(t.TempDir(), "not", "yet")
	_, err := s.Export(export.FormatCSV, dir, nil)
	require.ErrorIs(t, err, export.ErrNothingToExport)
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))

	_, err = s.Export(export.FormatSRT, dir, nil)
	require.ErrorIs(t, err, export.ErrNoTranscript)
	_, statErr = os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestExportLocalHTMLAndBundle(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(videoPath, []byte("fake video"), 0644))

	video, err := platform.FromLocalFile(videoPath)
	require.NoError(t, err)

	s := newSession(t, db.NewMemoryKV())
	require.NoError(t, s.Load(video, nil))
	_, err = s.AnnotateAt(2, "local note", annotation.KindComment, "")
	require.NoError(t, err)

	out := filepath.Join(dir, "out")
	htmlPath, err := s.Export(export.FormatHTML, out, nil)
	require.NoError(t, err)
	page, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(page), "data:video/mp4;base64,")

	var msgs []Progress
	for msg := range s.ExportAsync(export.FormatZIP, out) {
		msgs = append(msgs, msg)
	}
	require.NotEmpty(t, msgs)
	final := msgs[len(msgs)-1]
	require.True(t, final.Done)
	require.NoError(t, final.Err)
	assert.Equal(t, filepath.Join(out, "clip.zip"), final.Path)

	zr, err := zip.OpenReader(final.Path)
	require.NoError(t, err)
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "clip/clip.mp4")
	assert.Contains(t, names, "clip/index.html")
}

func TestImportJSON(t *testing.T) {
	src := newSession(t, nil)
	require.NoError(t, src.Load(youtubeVideo(), nil))
	_, err := src.AnnotateAt(10, "hello", annotation.KindComment, "")
	require.NoError(t, err)
	_, err = src.AnnotateAt(20, "wow", annotation.KindReaction, "😂")
	require.NoError(t, err)
	_, err = src.Transcript().Add(5, "spoken")
	require.NoError(t, err)

	data, err := export.JSON(src.Snapshot())
	require.NoError(t, err)

	dst := newSession(t, db.NewMemoryKV())
	n, err := dst.ImportJSON(data)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "dQw4w9WgXcQ", dst.Video().ID)
	assert.Equal(t, 1, dst.Transcript().Len())

	other := newSession(t, nil)
	require.NoError(t, other.Load(platform.Video{Provider: platform.Vimeo, ID: "1"}, nil))
	_, err = other.ImportJSON(data)
	assert.ErrorIs(t, err, ErrVideoMismatch)

	_, err = dst.ImportJSON([]byte(strings.Repeat("x", 3)))
	assert.Error(t, err)
}
