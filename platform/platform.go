// Package platform maps pasted video URLs and local files to a provider tag,
// a provider-specific video id, and the watch/embed URLs exports link to.
package platform

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Provider identifies where a video is hosted. The empty Provider is unknown.
type Provider string

const (
	Unknown       Provider = ""
	YouTube       Provider = "youtube"
	YouTubeShorts Provider = "youtube_shorts"
	TikTok        Provider = "tiktok"
	Vimeo         Provider = "vimeo"
	Dailymotion   Provider = "dailymotion"
	Twitch        Provider = "twitch"
	Facebook      Provider = "facebook"
	Instagram     Provider = "instagram"
	Odysee        Provider = "odysee"
	VK            Provider = "vk"
	Upload        Provider = "upload"
)

var (
	// ErrUnsupportedURL is returned when no provider or video id can be extracted.
	ErrUnsupportedURL = errors.New("platform: unsupported video URL")
)

var displayNames = map[Provider]string{
	YouTube:       "YouTube",
	YouTubeShorts: "YouTube Shorts",
	TikTok:        "TikTok",
	Vimeo:         "Vimeo",
	Dailymotion:   "Dailymotion",
	Twitch:        "Twitch",
	Facebook:      "Facebook",
	Instagram:     "Instagram",
	Odysee:        "Odysee",
	VK:            "VK",
	Upload:        "Local",
}

// DisplayName returns the human-readable provider name, or "Unknown".
func (p Provider) DisplayName() string {
	if name, ok := displayNames[p]; ok {
		return name
	}
	return "Unknown"
}

// Known reports whether p is one of the supported providers.
func (p Provider) Known() bool {
	_, ok := displayNames[p]
	return ok
}

// Providers returns every supported provider in display order.
func Providers() []Provider {
	return []Provider{YouTube, YouTubeShorts, TikTok, Vimeo, Dailymotion, Twitch, Facebook, Instagram, Odysee, VK, Upload}
}

// idPatterns are tried in order; the first capture group is the video id.
var idPatterns = map[Provider][]*regexp.Regexp{
	YouTube: {
		regexp.MustCompile(`(?i)(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`),
		regexp.MustCompile(`^([a-zA-Z0-9_-]{11})$`),
	},
	YouTubeShorts: {
		regexp.MustCompile(`(?i)youtube\.com/shorts/([a-zA-Z0-9_-]{11})`),
	},
	TikTok: {
		regexp.MustCompile(`(?i)tiktok\.com/@[^/]+/video/(\d+)`),
		regexp.MustCompile(`(?i)vm\.tiktok\.com/([^/]+)`),
		regexp.MustCompile(`(?i)tiktok\.com/.*?/video/(\d+)`),
	},
	Vimeo: {
		regexp.MustCompile(`(?i)vimeo\.com/([0-9]+)`),
		regexp.MustCompile(`(?i)vimeo\.com/channels/[^/]+/([0-9]+)`),
		regexp.MustCompile(`(?i)player\.vimeo\.com/video/([0-9]+)`),
	},
	Dailymotion: {
		regexp.MustCompile(`(?i)dailymotion\.com/video/([a-zA-Z0-9]+)`),
		regexp.MustCompile(`(?i)dai\.ly/([a-zA-Z0-9]+)`),
	},
	Twitch: {
		regexp.MustCompile(`(?i)twitch\.tv/videos/(\d+)`),
		regexp.MustCompile(`(?i)clips\.twitch\.tv/([a-zA-Z0-9-]+)`),
	},
	Facebook: {
		regexp.MustCompile(`(?i)facebook\.com/[^/]+/videos/(\d+)`),
		regexp.MustCompile(`(?i)facebook\.com/watch/\?v=(\d+)`),
		regexp.MustCompile(`(?i)fb\.watch/([a-zA-Z0-9_-]+)`),
		regexp.MustCompile(`(?i)facebook\.com/.*?/videos/(\d+)`),
	},
	Instagram: {
		regexp.MustCompile(`(?i)instagram\.com/p/([a-zA-Z0-9_-]+)`),
		regexp.MustCompile(`(?i)instagram\.com/reel/([a-zA-Z0-9_-]+)`),
		regexp.MustCompile(`(?i)instagram\.com/reels/([a-zA-Z0-9_-]+)`),
	},
	Odysee: {
		regexp.MustCompile(`(?i)odysee\.com/@[^/]+/([^/?]+)`),
	},
	VK: {
		regexp.MustCompile(`(?i)vk\.com/video-?(\d+_\d+)`),
	},
}

// hostMarkers maps URL substrings to providers. Shorts must be checked before YouTube.
var hostMarkers = []struct {
	provider Provider
	markers  []string
}{
	{YouTubeShorts, []string{"youtube.com/shorts/"}},
	{YouTube, []string{"youtube.com", "youtu.be"}},
	{TikTok, []string{"tiktok.com"}},
	{Vimeo, []string{"vimeo.com"}},
	{Dailymotion, []string{"dailymotion.com", "dai.ly"}},
	{Twitch, []string{"twitch.tv"}},
	{Facebook, []string{"facebook.com", "fb.watch"}},
	{Instagram, []string{"instagram.com"}},
	{Odysee, []string{"odysee.com"}},
	{VK, []string{"vk.com"}},
}

// Detect returns the provider a URL belongs to. A bare 11-character id is
// treated as YouTube. Unrecognized input returns Unknown.
func Detect(rawURL string) Provider {
	lower := strings.ToLower(strings.TrimSpace(rawURL))
	if lower == "" {
		return Unknown
	}
	for _, hm := range hostMarkers {
		for _, m := range hm.markers {
			if strings.Contains(lower, m) {
				return hm.provider
			}
		}
	}
	if idPatterns[YouTube][1].MatchString(strings.TrimSpace(rawURL)) {
		return YouTube
	}
	return Unknown
}

// ExtractID returns the provider-specific video id, or "" if none matches.
func ExtractID(rawURL string, p Provider) string {
	rawURL = strings.TrimSpace(rawURL)
	for _, re := range idPatterns[p] {
		if m := re.FindStringSubmatch(rawURL); len(m) > 1 && m[1] != "" {
			return m[1]
		}
	}
	return ""
}

// WatchURL returns the canonical page for a video. Providers without a
// canonical form fall back to the original URL, which may be empty.
func WatchURL(p Provider, id, original string) string {
	switch p {
	case YouTube, YouTubeShorts:
		return "https://www.youtube.com/watch?v=" + id
	case Vimeo:
		return "https://vimeo.com/" + id
	case Dailymotion:
		return "https://www.dailymotion.com/video/" + id
	case TikTok:
		if original != "" {
			return original
		}
		return "https://www.tiktok.com/video/" + id
	default:
		return original
	}
}

// EmbedURL returns the iframe URL for providers that allow embedding, or "".
func EmbedURL(p Provider, id string) string {
	switch p {
	case YouTube, YouTubeShorts:
		return "https://www.youtube.com/embed/" + id + "?rel=0&modestbranding=1"
	case Vimeo:
		return "https://player.vimeo.com/video/" + id
	case Dailymotion:
		return "https://www.dailymotion.com/embed/video/" + id
	case Twitch:
		return "https://player.twitch.tv/?video=" + id + "&parent=localhost"
	case Facebook:
		href := url.QueryEscape("https://www.facebook.com/video.php?v=" + id)
		return "https://www.facebook.com/plugins/video.php?href=" + href + "&show_text=false&width=560"
	case Instagram:
		return "https://www.instagram.com/p/" + id + "/embed/"
	case Odysee:
		return "https://odysee.com/$/embed/" + id
	case VK:
		return "https://vk.com/video_ext.php?oid=-1&id=" + id + "&hd=2"
	default:
		return ""
	}
}

// SeekURL returns an embed URL that starts playback at seconds, split into
// the part before and after the number so page scripts can build it.
// Providers without a start parameter return an empty prefix.
func SeekURL(p Provider, id string) (prefix, suffix string) {
	switch p {
	case YouTube, YouTubeShorts:
		return EmbedURL(p, id) + "&autoplay=1&start=", ""
	case Vimeo:
		return EmbedURL(p, id) + "?autoplay=1#t=", "s"
	case Dailymotion:
		return EmbedURL(p, id) + "?autoplay=1&start=", ""
	case Twitch:
		return EmbedURL(p, id) + "&autoplay=true&time=", "s"
	default:
		return "", ""
	}
}

// TimeLink returns a watch URL pointing at a specific second, or "".
func TimeLink(p Provider, id string, seconds int) string {
	switch p {
	case YouTube, YouTubeShorts:
		return fmt.Sprintf("https://www.youtube.com/watch?v=%s&t=%ds", id, seconds)
	case Vimeo:
		return fmt.Sprintf("https://vimeo.com/%s#t=%ds", id, seconds)
	default:
		return ""
	}
}

// ThumbnailURL returns a preview image URL for providers that publish one.
func ThumbnailURL(p Provider, id string) string {
	if p == YouTube || p == YouTubeShorts {
		return "https://img.youtube.com/vi/" + id + "/maxresdefault.jpg"
	}
	return ""
}

// DefaultDuration is the assumed length in seconds before the player reports one.
func DefaultDuration(p Provider) float64 {
	switch p {
	case YouTubeShorts:
		return 60
	case TikTok:
		return 180
	case Dailymotion:
		return 600
	case Twitch:
		return 3600
	default:
		return 300
	}
}

// DefaultTitle is the title shown until the player reports one.
func DefaultTitle(p Provider) string {
	switch p {
	case Unknown:
		return "Untitled Video"
	case YouTubeShorts:
		return "YouTube Shorts"
	case Upload:
		return "Uploaded Video"
	default:
		return p.DisplayName() + " Video"
	}
}
