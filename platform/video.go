package platform

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// MaxEmbedSize is the largest local file inlined into a single-file HTML export.
const MaxEmbedSize = 100 * 1024 * 1024

// Video is the metadata of the loaded video. It is derived at load time and
// only Title and DurationSeconds change once the player reports them.
type Video struct {
	Provider        Provider `json:"provider"`
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	DurationSeconds float64  `json:"duration"`
	// SourceURL is the URL the user supplied; empty for local files.
	SourceURL string `json:"url,omitempty"`
	LocalPath string `json:"localPath,omitempty"`
	MIMEType  string `json:"mimeType,omitempty"`
	Size      int64  `json:"size,omitempty"`
}

// IsLocal reports whether the video is a local upload.
func (v Video) IsLocal() bool {
	return v.Provider == Upload
}

// Loaded reports whether v identifies a video.
func (v Video) Loaded() bool {
	return v.ID != ""
}

// WatchURL is the canonical page for the video, or "" when there is none.
func (v Video) WatchURL() string {
	if v.IsLocal() {
		return ""
	}
	return WatchURL(v.Provider, v.ID, v.SourceURL)
}

// Duration returns DurationSeconds, or the provider default when unknown.
func (v Video) Duration() float64 {
	if v.DurationSeconds > 0 {
		return v.DurationSeconds
	}
	return DefaultDuration(v.Provider)
}

// Resolve maps a pasted URL to a Video.
func Resolve(rawURL string) (Video, error) {
	p := Detect(rawURL)
	if p == Unknown {
		return Video{}, fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
	}
	id := ExtractID(rawURL, p)
	if id == "" {
		return Video{}, fmt.Errorf("%w: no %s video id in %s", ErrUnsupportedURL, p.DisplayName(), rawURL)
	}
	return Video{
		Provider:  p,
		ID:        id,
		Title:     DefaultTitle(p),
		SourceURL: strings.TrimSpace(rawURL),
	}, nil
}

// FromLocalFile builds a Video for a file on disk. The id is derived from
// the file name and size so reopening the same file finds its annotations.
func FromLocalFile(path string) (Video, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Video{}, fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(absPath)
	if os.IsNotExist(err) {
		return Video{}, fmt.Errorf("video file not found: %s", absPath)
	}
	if err != nil {
		return Video{}, fmt.Errorf("failed to access video file: %w", err)
	}
	if info.IsDir() {
		return Video{}, fmt.Errorf("path is a directory, not a video file: %s", absPath)
	}

	base := filepath.Base(absPath)
	return Video{
		Provider:  Upload,
		ID:        fmt.Sprintf("upload_%s_%d", base, info.Size()),
		Title:     strings.TrimSuffix(base, filepath.Ext(base)),
		LocalPath: absPath,
		MIMEType:  MIMEType(absPath),
		Size:      info.Size(),
	}, nil
}

// MIMEType guesses a video MIME type from the file extension.
func MIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp4", ".m4v":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	case ".mkv":
		return "video/x-matroska"
	case ".ogv", ".ogg":
		return "video/ogg"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// Open resolves either a URL or a local file path.
func Open(target string) (Video, error) {
	if _, err := os.Stat(target); err == nil {
		return FromLocalFile(target)
	}
	return Resolve(target)
}
