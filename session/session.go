// Package session holds the state of one annotating session: the loaded
// video, its annotation and transcript stores, and the player timestamps
// come from. It replaces process-wide globals with a single value the CLI
// and TUI pass around.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/db"
	"github.com/user/reactvid-cli/pkg/export"
	"github.com/user/reactvid-cli/logger"
	"github.com/user/reactvid-cli/platform"
	"github.com/user/reactvid-cli/player"
	"github.com/user/reactvid-cli/transcript"
)

var (
	// ErrNoVideo is returned by operations that need a loaded video.
	ErrNoVideo = errors.New("no video loaded")
	// ErrExportInProgress is returned when an export starts while another runs.
	ErrExportInProgress = errors.New("an export is already in progress")
	// ErrVideoMismatch is returned when importing data for a different video.
	ErrVideoMismatch = errors.New("export belongs to a different video")
)

// Options configures a Session.
type Options struct {
	// Namespace prefixes every persistence key.
	Namespace string
	SortOrder annotation.SortOrder
	// Now stamps exports. Defaults to time.Now.
	Now func() time.Time
}

// Session is the single owner of the current video and its stores.
type Session struct {
	mu          sync.Mutex
	kv          db.KV
	opts        Options
	video       platform.Video
	player      player.Player
	annotations *annotation.Store
	transcript  *transcript.Store
	exporting   atomic.Bool
}

// New creates a session with no video loaded. kv may be nil for an
// unpersisted session.
func New(kv db.KV, opts Options) *Session {
	if opts.Namespace == "" {
		opts.Namespace = "reactvid"
	}
	if opts.SortOrder == "" {
		opts.SortOrder = annotation.Descending
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		kv:          kv,
		opts:        opts,
		annotations: annotation.NewStore(nil, opts.Namespace, ""),
		transcript:  transcript.NewStore(nil, opts.Namespace, ""),
	}
}

func (s *Session) currentKey() string {
	return s.opts.Namespace + "_current"
}

// Load makes video current, closing the previous player and loading both
// stores for the new id. p may be nil when no playback is needed.
func (s *Session) Load(video platform.Video, p player.Player) error {
	if !video.Loaded() {
		return ErrNoVideo
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player != nil && s.player != p {
		if err := s.player.Close(); err != nil {
			logger.Warn("closing previous player: %v", err)
		}
	}

	s.video = video
	s.player = p
	s.annotations = annotation.Load(s.kv, s.opts.Namespace, video.ID, s.opts.SortOrder)
	s.transcript = transcript.Load(s.kv, s.opts.Namespace, video.ID)
	logger.Info("loaded %s video %s", video.Provider.DisplayName(), video.ID)
	return s.saveCurrentLocked()
}

// Restore reloads the video that was current when the last session ended.
// It reports false when there is none.
func (s *Session) Restore(p player.Player) (bool, error) {
	if s.kv == nil {
		return false, nil
	}
	raw, ok, err := s.kv.Get(s.currentKey())
	if err != nil {
		return false, fmt.Errorf("read current video: %w", err)
	}
	if !ok || raw == "" {
		return false, nil
	}

	var video platform.Video
	if err := json.Unmarshal([]byte(raw), &video); err != nil {
		logger.Warn("ignoring malformed current video: %v", err)
		return false, nil
	}
	if !video.Loaded() {
		return false, nil
	}
	return true, s.Load(video, p)
}

func (s *Session) saveCurrentLocked() error {
	if s.kv == nil {
		return nil
	}
	data, err := json.Marshal(s.video)
	if err != nil {
		return fmt.Errorf("encode current video: %w", err)
	}
	if err := s.kv.Set(s.currentKey(), string(data)); err != nil {
		logger.Warn("saving current video: %v", err)
		return fmt.Errorf("save current video: %w", err)
	}
	return nil
}

// Close releases the player. The KV store belongs to the caller.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	return err
}

// Video returns the current video.
func (s *Session) Video() platform.Video {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.video
}

// Player returns the current player, or nil.
func (s *Session) Player() player.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

// Annotations returns the current annotation store. Callers must not keep
// it across Load.
func (s *Session) Annotations() *annotation.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.annotations
}

// Transcript returns the current transcript store.
func (s *Session) Transcript() *transcript.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript
}

// CurrentTime is the player position, or 0 without a usable player.
func (s *Session) CurrentTime() float64 {
	p := s.Player()
	if p == nil {
		return 0
	}
	t, err := p.CurrentTime()
	if err != nil {
		logger.Debug("reading player time: %v", err)
		return 0
	}
	return t
}

// Annotate adds an annotation stamped with the player's current time.
func (s *Session) Annotate(text string, kind annotation.Kind, emoji string) (annotation.Annotation, error) {
	return s.AnnotateAt(s.CurrentTime(), text, kind, emoji)
}

// AnnotateAt adds an annotation at an explicit time.
func (s *Session) AnnotateAt(timestamp float64, text string, kind annotation.Kind, emoji string) (annotation.Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.video.Loaded() {
		return annotation.Annotation{}, ErrNoVideo
	}
	return s.annotations.Add(text, timestamp, kind, emoji)
}

type titled interface {
	Title() (string, error)
}

// RefreshMetadata copies the title and duration the player reports into
// the current video. Players that report nothing leave it unchanged.
func (s *Session) RefreshMetadata(ctx context.Context) error {
	p := s.Player()
	if p == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var title string
	if t, ok := p.(titled); ok {
		if v, err := t.Title(); err == nil {
			title = v
		}
	}
	duration, _ := p.Duration()

	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	// Local files keep their file name; the player only echoes it back.
	if title != "" && !s.video.IsLocal() && title != s.video.Title {
		s.video.Title = title
		changed = true
	}
	if duration > 0 && duration != s.video.DurationSeconds {
		s.video.DurationSeconds = duration
		changed = true
	}
	if !changed {
		return nil
	}
	return s.saveCurrentLocked()
}

// Snapshot copies the current state for an exporter.
func (s *Session) Snapshot() export.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return export.Snapshot{
		Video:       s.video,
		Annotations: s.annotations.List(),
		Transcript:  s.transcript.Segments(),
		GeneratedAt: s.opts.Now(),
	}
}

// ImportJSON replaces the annotations and transcript with those in a JSON
// export or bundle data file. When no video is loaded the document's video
// becomes current. It returns the number of annotations imported.
func (s *Session) ImportJSON(data []byte) (int, error) {
	doc, err := export.DecodeJSON(data)
	if err != nil {
		return 0, err
	}

	video := doc.VideoMetadata()
	current := s.Video()
	switch {
	case !current.Loaded():
		if err := s.Load(video, nil); err != nil {
			return 0, err
		}
	case current.ID != video.ID:
		return 0, fmt.Errorf("%w: %s", ErrVideoMismatch, video.ID)
	}

	items := doc.Annotations()
	s.mu.Lock()
	defer s.mu.Unlock()
	errA := s.annotations.Replace(items)
	errT := s.transcript.Replace(doc.Transcript, "")
	return s.annotations.Len(), errors.Join(errA, errT)
}
