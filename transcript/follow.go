package transcript

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/user/reactvid-cli/logger"
)

// Clock reports the current playback position in seconds.
type Clock interface {
	CurrentTime() (float64, error)
}

// Follow attaches a live capture feed: it watches path, a text file that an
// external speech-to-text tool appends to, and captures every complete line
// written after Follow starts, stamped with clock's current time.
//
// A line may carry a confidence prefix separated by a tab ("0.87\ttext");
// otherwise confidence is 1. onCapture, if non-nil, is called for each
// captured segment. Follow blocks until ctx is done.
func (s *Store) Follow(ctx context.Context, path string, clock Clock, onCapture func(Segment)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open capture feed: %w", err)
	}
	defer f.Close()

	offset, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("seek capture feed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	s.setCapturing(true)
	defer s.setCapturing(false)
	logger.Info("capturing transcript lines from %s", path)

	var pending []byte
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				return fmt.Errorf("capture feed %s was removed", path)
			}
			if !event.Has(fsnotify.Write) {
				continue
			}

			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("stat capture feed: %w", err)
			}
			if info.Size() < offset {
				// Truncated: start over from the new end.
				offset = info.Size()
				pending = nil
				continue
			}

			chunk := make([]byte, info.Size()-offset)
			n, err := f.ReadAt(chunk, offset)
			if err != nil && err != io.EOF {
				return fmt.Errorf("read capture feed: %w", err)
			}
			offset += int64(n)
			pending = append(pending, chunk[:n]...)

			var lines []string
			lines, pending = completeLines(pending)
			for _, line := range lines {
				s.captureLine(line, clock, onCapture)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("capture feed watcher: %v", err)
		}
	}
}

// completeLines splits buf into newline-terminated lines and the unterminated rest.
func completeLines(buf []byte) ([]string, []byte) {
	last := bytes.LastIndexByte(buf, '\n')
	if last < 0 {
		return nil, buf
	}
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(buf[:last+1]))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	rest := append([]byte(nil), buf[last+1:]...)
	return lines, rest
}

func (s *Store) captureLine(line string, clock Clock, onCapture func(Segment)) {
	text, confidence := splitConfidence(line)
	if strings.TrimSpace(text) == "" {
		return
	}

	now, err := clock.CurrentTime()
	if err != nil {
		logger.Warn("reading player time for captured line: %v", err)
		now = 0
	}

	seg, err := s.CaptureSegment(now, text, confidence)
	if err != nil {
		logger.Debug("captured line not saved: %v", err)
	}
	if onCapture != nil && seg.Text != "" {
		onCapture(seg)
	}
}

// splitConfidence separates an optional "<confidence>\t" prefix.
func splitConfidence(line string) (string, float64) {
	prefix, rest, ok := strings.Cut(line, "\t")
	if ok {
		if c, err := strconv.ParseFloat(strings.TrimSpace(prefix), 64); err == nil && c >= 0 && c <= 1 {
			return rest, c
		}
	}
	return line, 1
}
