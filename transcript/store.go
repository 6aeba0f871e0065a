package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/db"
	"github.com/user/reactvid-cli/logger"
)

// Store holds the transcript of one video in stored order. It is safe for
// concurrent use so a capture feed can append while the UI reads.
type Store struct {
	mu        sync.Mutex
	kv        db.KV
	key       string
	segments  []Segment
	language  string
	capturing bool
}

// NewStore returns an empty transcript persisting under Key(namespace, videoID).
func NewStore(kv db.KV, namespace, videoID string) *Store {
	return &Store{
		kv:       kv,
		key:      Key(namespace, videoID),
		language: DefaultLanguage,
	}
}

// Load reads a stored transcript. Missing or malformed data yields an empty
// store and is logged.
func Load(kv db.KV, namespace, videoID string) *Store {
	s := NewStore(kv, namespace, videoID)
	if kv == nil {
		return s
	}

	raw, ok, err := kv.Get(s.key)
	if err != nil {
		logger.Warn("loading transcript for %s: %v", videoID, err)
		return s
	}
	if !ok || raw == "" {
		return s
	}

	var segments []Segment
	if err := json.Unmarshal([]byte(raw), &segments); err != nil {
		logger.Warn("ignoring malformed transcript for %s: %v", videoID, err)
		return s
	}
	s.segments = segments
	logger.Debug("loaded %d transcript segments for %s", len(segments), videoID)
	return s
}

// ImportBulk replaces the transcript with the segments parsed from raw.
// Zero parsed segments is an error and leaves the transcript untouched.
func (s *Store) ImportBulk(raw, language string) (int, error) {
	segments := Parse(raw)
	if len(segments) == 0 {
		return 0, ErrNoSegments
	}
	return len(segments), s.Replace(segments, language)
}

// Replace swaps in a new transcript wholesale.
func (s *Store) Replace(segments []Segment, language string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.segments = append([]Segment(nil), segments...)
	if language != "" {
		s.language = language
	}
	return s.persistLocked()
}

// Add appends a manually entered segment.
func (s *Store) Add(timestamp int, text string) (Segment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Segment{}, ErrEmptyText
	}
	if timestamp < 0 {
		timestamp = 0
	}
	seg := Segment{Timestamp: timestamp, Text: text}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.segments = append(s.segments, seg)
	return seg, s.persistLocked()
}

// CaptureSegment appends a live-captured segment. Segments are not sorted
// until they are displayed.
func (s *Store) CaptureSegment(timestamp float64, text string, confidence float64) (Segment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Segment{}, ErrEmptyText
	}
	ts := 0
	if !math.IsNaN(timestamp) && timestamp > 0 {
		ts = int(math.Floor(timestamp))
	}
	c := math.Min(math.Max(confidence, 0), 1)
	if math.IsNaN(confidence) {
		c = 0
	}
	seg := Segment{Timestamp: ts, Text: text, Confidence: &c}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.segments = append(s.segments, seg)
	return seg, s.persistLocked()
}

// PromoteAll adds every segment as a comment once confirm approves, and
// returns how many were added.
func (s *Store) PromoteAll(annotations *annotation.Store, confirm annotation.Confirmer) (int, error) {
	segments := s.Segments()
	if len(segments) == 0 {
		return 0, nil
	}
	ok, err := confirm.Confirm(fmt.Sprintf("Add all %d transcript segments as comments?", len(segments)))
	if err != nil || !ok {
		return 0, err
	}

	added := 0
	var persistErr error
	for _, seg := range segments {
		_, err := Promote(seg, annotations)
		if err == nil {
			added++
			continue
		}
		if errors.Is(err, annotation.ErrPersist) {
			added++
			persistErr = err
			continue
		}
		logger.Debug("skipping segment at %d: %v", seg.Timestamp, err)
	}
	return added, persistErr
}

// Clear empties the transcript once confirm approves.
func (s *Store) Clear(confirm annotation.Confirmer) (bool, error) {
	if s.Len() == 0 {
		return false, nil
	}
	ok, err := confirm.Confirm("Clear the transcript for this video?")
	if err != nil || !ok {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.segments = nil
	return true, s.persistLocked()
}

// Segments returns a copy in stored order.
func (s *Store) Segments() []Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Segment(nil), s.segments...)
}

// Sorted returns a copy ordered by ascending timestamp, independent of the
// annotation sort order.
func (s *Store) Sorted() []Segment {
	return sortedCopy(s.Segments())
}

func sortedCopy(segments []Segment) []Segment {
	out := append([]Segment(nil), segments...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

// Len returns the number of segments.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.segments)
}

// ExportSubtitles renders the transcript as SRT.
func (s *Store) ExportSubtitles() string {
	return FormatSubtitles(s.Segments())
}

// Language returns the label set by the last import.
func (s *Store) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// SetLanguage changes the label without touching segments.
func (s *Store) SetLanguage(lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = lang
}

// Capturing reports whether a live capture feed is attached.
func (s *Store) Capturing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capturing
}

func (s *Store) setCapturing(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capturing = v
}

// Persist overwrites the stored transcript.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	if s.kv == nil {
		return nil
	}
	segments := s.segments
	if segments == nil {
		segments = []Segment{}
	}
	data, err := json.Marshal(segments)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		logger.Warn("saving transcript: %v", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}
