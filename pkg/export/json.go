package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/platform"
	"github.com/user/reactvid-cli/transcript"
)

// Document is the JSON export. It is the lossless representation: decoding
// it rebuilds the annotation and transcript stores.
type Document struct {
	Video      VideoRef             `json:"video"`
	ExportDate string               `json:"exportDate"`
	Comments   []Comment            `json:"comments"`
	Transcript []transcript.Segment `json:"transcript"`
	Stats      DocumentStats        `json:"stats"`
}

// VideoRef identifies the exported video.
type VideoRef struct {
	Title    string `json:"title"`
	Provider string `json:"provider"`
	ID       string `json:"id"`
	URL      string `json:"url"`
}

// Comment is one exported annotation.
type Comment struct {
	ID        string  `json:"id"`
	Timestamp int     `json:"timestamp"`
	Time      string  `json:"time"`
	Type      string  `json:"type"`
	Emoji     *string `json:"emoji"`
	Text      string  `json:"text"`
}

// DocumentStats counts comments and reactions.
type DocumentStats struct {
	TotalComments  int `json:"totalComments"`
	TotalReactions int `json:"totalReactions"`
}

func newDocument(s Snapshot) Document {
	comments := make([]Comment, 0, len(s.Annotations))
	for _, a := range s.Annotations {
		c := Comment{
			ID:        a.ID,
			Timestamp: a.Timestamp,
			Time:      a.Time(),
			Type:      string(a.Kind),
			Text:      a.Text,
		}
		if a.Emoji != "" {
			emoji := a.Emoji
			c.Emoji = &emoji
		}
		comments = append(comments, c)
	}

	segments := s.Transcript
	if segments == nil {
		segments = []transcript.Segment{}
	}

	st := annotation.Summarize(s.Annotations)
	return Document{
		Video: VideoRef{
			Title:    s.title(),
			Provider: string(s.Video.Provider),
			ID:       s.Video.ID,
			URL:      s.Video.WatchURL(),
		},
		ExportDate: s.generatedAt().UTC().Format(time.RFC3339),
		Comments:   comments,
		Transcript: segments,
		Stats: DocumentStats{
			TotalComments:  st.Comments,
			TotalReactions: st.Reactions,
		},
	}
}

// JSON renders the snapshot as an indented JSON document.
func JSON(s Snapshot) ([]byte, error) {
	if err := Validate(s); err != nil {
		return nil, err
	}
	return marshalIndent(newDocument(s))
}

func marshalIndent(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DecodeJSON parses a JSON export, including a bundle's data.json.
func DecodeJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	if doc.Video.ID == "" {
		return nil, fmt.Errorf("decode export: missing video id")
	}
	return &doc, nil
}

// Annotations converts the exported comments back into annotations.
// Unknown types are read as comments.
func (d *Document) Annotations() []annotation.Annotation {
	out := make([]annotation.Annotation, 0, len(d.Comments))
	for _, c := range d.Comments {
		a := annotation.Annotation{
			ID:        c.ID,
			Timestamp: c.Timestamp,
			Kind:      annotation.KindComment,
			Text:      c.Text,
		}
		if c.Type == string(annotation.KindReaction) && c.Emoji != nil && *c.Emoji != "" {
			a.Kind = annotation.KindReaction
			a.Emoji = *c.Emoji
		}
		out = append(out, a)
	}
	return out
}

// VideoMetadata rebuilds the video the document was exported from.
func (d *Document) VideoMetadata() platform.Video {
	return platform.Video{
		Provider:  platform.Provider(d.Video.Provider),
		ID:        d.Video.ID,
		Title:     d.Video.Title,
		SourceURL: d.Video.URL,
	}
}
