package annotation

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/user/reactvid-cli/db"
	"github.com/user/reactvid-cli/logger"
)

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) (bool, error)

func (f ConfirmFunc) Confirm(prompt string) (bool, error) { return f(prompt) }

// Key returns the persistence key for a video's annotations.
func Key(namespace, videoID string) string {
	return namespace + "_" + videoID
}

// Store holds the annotations of one video in display order. It is safe
// for concurrent use so an export can snapshot while the UI edits.
type Store struct {
	mu    sync.Mutex
	kv    db.KV
	key   string
	order SortOrder
	items []Annotation
}

// NewStore returns an empty store persisting under Key(namespace, videoID).
// kv may be nil, in which case nothing is persisted.
func NewStore(kv db.KV, namespace, videoID string) *Store {
	return &Store{
		kv:    kv,
		key:   Key(namespace, videoID),
		order: Descending,
	}
}

// Load reads the stored annotations for a video. Missing or unreadable data
// yields an empty store; the failure is logged, not returned.
func Load(kv db.KV, namespace, videoID string, order SortOrder) *Store {
	s := NewStore(kv, namespace, videoID)
	if order != "" {
		s.order = order
	}
	if kv == nil {
		return s
	}

	raw, ok, err := kv.Get(s.key)
	if err != nil {
		logger.Warn("loading annotations for %s: %v", videoID, err)
		return s
	}
	if !ok || raw == "" {
		return s
	}

	var items []Annotation
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.Warn("ignoring malformed annotations for %s: %v", videoID, err)
		return s
	}
	s.items = normalize(items)
	s.sort()
	logger.Debug("loaded %d annotations for %s", len(s.items), videoID)
	return s
}

// normalize drops unusable records and fills in ids for records saved without one.
func normalize(items []Annotation) []Annotation {
	out := make([]Annotation, 0, len(items))
	for _, a := range items {
		if strings.TrimSpace(a.Text) == "" {
			continue
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.Kind != KindReaction {
			a.Kind = KindComment
			a.Emoji = ""
		}
		if a.Timestamp < 0 {
			a.Timestamp = 0
		}
		out = append(out, a)
	}
	return out
}

// Add creates an annotation at timestamp (floored, negatives clamped to 0)
// and inserts it at its sorted position. A persistence failure is reported
// as an error wrapping ErrPersist alongside the created annotation.
func (s *Store) Add(text string, timestamp float64, kind Kind, emoji string) (Annotation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Annotation{}, ErrEmptyText
	}
	if kind == "" {
		kind = KindComment
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return Annotation{}, err
	}
	if kind == KindReaction && strings.TrimSpace(emoji) == "" {
		return Annotation{}, ErrMissingEmoji
	}
	if kind == KindComment {
		emoji = ""
	}

	a := Annotation{
		ID:        uuid.NewString(),
		Timestamp: floorSeconds(timestamp),
		Kind:      kind,
		Text:      text,
		Emoji:     strings.TrimSpace(emoji),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.insert(a)
	return a, s.persistLocked()
}

func floorSeconds(t float64) int {
	if math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 {
		return 0
	}
	return int(math.Floor(t))
}

// insert places a so the list stays sorted. In descending order a new record
// goes before existing ones with the same timestamp; in ascending order after.
func (s *Store) insert(a Annotation) {
	i := sort.Search(len(s.items), func(i int) bool {
		if s.order == Ascending {
			return s.items[i].Timestamp > a.Timestamp
		}
		return s.items[i].Timestamp <= a.Timestamp
	})
	s.items = append(s.items, Annotation{})
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = a
}

// Get returns the annotation with the given id.
func (s *Store) Get(id string) (Annotation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.items {
		if a.ID == id {
			return a, true
		}
	}
	return Annotation{}, false
}

// Remove deletes exactly one annotation by id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.items {
		if a.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return s.persistLocked()
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ClearAll deletes every annotation once confirm approves. It reports
// whether anything was cleared.
func (s *Store) ClearAll(confirm Confirmer) (bool, error) {
	n := s.Len()
	if n == 0 {
		return false, nil
	}
	// The prompt may block on the user; the lock is not held meanwhile.
	ok, err := confirm.Confirm(fmt.Sprintf("Delete all %d annotations for this video?", n))
	if err != nil || !ok {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return true, s.persistLocked()
}

// ToggleSortOrder flips the display direction and re-sorts.
func (s *Store) ToggleSortOrder() SortOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order == Descending {
		s.order = Ascending
	} else {
		s.order = Descending
	}
	s.sort()
	return s.order
}

// SetSortOrder sets the display direction and re-sorts.
func (s *Store) SetSortOrder(order SortOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = order
	s.sort()
}

// SortOrder returns the current display direction.
func (s *Store) SortOrder() SortOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order
}

func (s *Store) sort() {
	sort.SliceStable(s.items, func(i, j int) bool {
		if s.order == Ascending {
			return s.items[i].Timestamp < s.items[j].Timestamp
		}
		return s.items[i].Timestamp > s.items[j].Timestamp
	})
}

// List returns a copy of the annotations in display order.
func (s *Store) List() []Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Annotation, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of annotations.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Replace swaps in a new set of annotations, e.g. from a JSON export.
func (s *Store) Replace(items []Annotation) error {
	clean := normalize(items)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = clean
	s.sort()
	return s.persistLocked()
}

// Stats summarizes the current annotations.
func (s *Store) Stats() Stats {
	return Summarize(s.List())
}

// Summarize computes Stats for any annotation slice.
func Summarize(items []Annotation) Stats {
	var st Stats
	counts := map[string]int{}
	total := 0
	for _, a := range items {
		total += a.Timestamp
		if a.IsReaction() {
			st.Reactions++
			counts[a.Emoji]++
		} else {
			st.Comments++
		}
	}
	if len(items) > 0 {
		st.AvgTimestamp = int(math.Round(float64(total) / float64(len(items))))
	}
	for e, n := range counts {
		st.EmojiCounts = append(st.EmojiCounts, EmojiCount{Emoji: e, Count: n})
	}
	sort.Slice(st.EmojiCounts, func(i, j int) bool {
		if st.EmojiCounts[i].Count != st.EmojiCounts[j].Count {
			return st.EmojiCounts[i].Count > st.EmojiCounts[j].Count
		}
		return st.EmojiCounts[i].Emoji < st.EmojiCounts[j].Emoji
	})
	return st
}

// Persist overwrites the stored list with the current annotations.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	if s.kv == nil {
		return nil
	}
	items := s.items
	if items == nil {
		items = []Annotation{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		logger.Warn("saving annotations: %v", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}
