package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/reactvid-cli/logger"
	"github.com/user/reactvid-cli/pkg/export"
	"github.com/user/reactvid-cli/pkg/fsutil"
	"github.com/user/reactvid-cli/platform"
)

// Progress is one message of an asynchronous export. The last message has
// Done set and carries the output path or the error.
type Progress struct {
	Percent int
	Done    bool
	Path    string
	Err     error
}

// Export writes the current state in format f to a file in dir and returns
// its path. Only one export runs at a time. progress may be nil.
func (s *Session) Export(f export.Format, dir string, progress func(int)) (string, error) {
	if !s.exporting.CompareAndSwap(false, true) {
		return "", ErrExportInProgress
	}
	defer s.exporting.Store(false)
	return exportSnapshot(f, s.Snapshot(), dir, progress)
}

// ExportAsync snapshots the current state, then writes it in a goroutine
// and streams progress. Edits made after the call do not reach the file.
// The channel is closed after the final message.
func (s *Session) ExportAsync(f export.Format, dir string) <-chan Progress {
	ch := make(chan Progress, 16)
	if !s.exporting.CompareAndSwap(false, true) {
		ch <- Progress{Percent: 100, Done: true, Err: ErrExportInProgress}
		close(ch)
		return ch
	}
	snap := s.Snapshot()

	go func() {
		defer close(ch)
		defer s.exporting.Store(false)
		path, err := exportSnapshot(f, snap, dir, func(pct int) {
			select {
			case ch <- Progress{Percent: pct}:
			default:
				// Drop intermediate updates rather than stall the export.
			}
		})
		ch <- Progress{Percent: 100, Done: true, Path: path, Err: err}
	}()
	return ch
}

func exportSnapshot(f export.Format, snap export.Snapshot, dir string, progress func(int)) (string, error) {
	if progress == nil {
		progress = func(int) {}
	}
	if err := f.Check(snap); err != nil {
		return "", &export.Error{Format: f, Err: err}
	}

	title := snap.Video.Title
	if title == "" {
		title = platform.DefaultTitle(snap.Video.Provider)
	}
	path := filepath.Join(dir, export.Filename(title, f))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &export.Error{Format: f, Err: err}
	}

	if err := writeExport(f, snap, path, progress); err != nil {
		return "", &export.Error{Format: f, Err: err}
	}
	progress(100)
	logger.Info("exported %s to %s", f.Label(), path)
	return path, nil
}

func writeExport(f export.Format, snap export.Snapshot, path string, progress func(int)) error {
	switch f {
	case export.FormatCSV:
		return writeBytes(path, export.CSV, snap)
	case export.FormatText:
		return writeBytes(path, export.Text, snap)
	case export.FormatJSON:
		return writeBytes(path, export.JSON, snap)
	case export.FormatPDF:
		return writeBytes(path, export.PDF, snap)
	case export.FormatSRT:
		return writeBytes(path, export.SRT, snap)
	case export.FormatHTML:
		return writeHTML(path, snap)
	case export.FormatZIP:
		return writeBundle(path, snap, progress)
	}
	return fmt.Errorf("unsupported format %q", f)
}

func writeBytes(path string, produce func(export.Snapshot) ([]byte, error), snap export.Snapshot) error {
	data, err := produce(snap)
	if err != nil {
		return err
	}
	return fsutil.WriteFile(path, data)
}

func writeHTML(path string, snap export.Snapshot) error {
	if err := export.Validate(snap); err != nil {
		return err
	}

	var media export.Media
	if snap.Video.IsLocal() {
		uri, err := localDataURI(snap.Video)
		if err != nil {
			return err
		}
		media.Src = uri
	}

	data, err := export.HTML(snap, media)
	if err != nil {
		return err
	}
	return fsutil.WriteFile(path, data)
}

// localDataURI inlines a local video. A missing file exports without the
// video; an oversized one is an error.
func localDataURI(v platform.Video) (string, error) {
	file, info, err := openLocal(v)
	if err != nil || file == nil {
		return "", err
	}
	defer file.Close()

	if info.Size() > platform.MaxEmbedSize {
		return "", fmt.Errorf("video is %d MB, larger than the %d MB single-file limit; use the zip export",
			info.Size()>>20, platform.MaxEmbedSize>>20)
	}
	return export.DataURI(v.MIMEType, file)
}

func writeBundle(path string, snap export.Snapshot, progress func(int)) error {
	if err := export.Validate(snap); err != nil {
		return err
	}

	var video export.VideoFile
	if snap.Video.IsLocal() {
		file, info, err := openLocal(snap.Video)
		if err != nil {
			return err
		}
		if file != nil {
			defer file.Close()
			video = export.VideoFile{
				Name:   filepath.Base(snap.Video.LocalPath),
				Reader: file,
				Size:   info.Size(),
			}
		}
	}

	w, err := fsutil.NewAtomicWriter(path)
	if err != nil {
		return err
	}
	if err := export.Bundle(w, snap, video, progress); err != nil {
		w.Abort()
		return err
	}
	return w.Commit()
}

// openLocal opens the video file. It returns a nil file, and logs, when the
// file no longer exists.
func openLocal(v platform.Video) (*os.File, os.FileInfo, error) {
	if v.LocalPath == "" {
		return nil, nil, nil
	}
	file, err := os.Open(v.LocalPath)
	if os.IsNotExist(err) {
		logger.Warn("video file %s is gone; exporting without it", v.LocalPath)
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open video: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("stat video: %w", err)
	}
	return file, info, nil
}
