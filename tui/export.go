package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/user/reactvid-cli/pkg/export"
	"github.com/user/reactvid-cli/session"
)

// exportProgressMsg carries progress updates from the export goroutine.
type exportProgressMsg struct {
	percent int
}

// exportCompleteMsg is sent when export finishes successfully.
type exportCompleteMsg struct {
	path string
}

// exportErrorMsg is sent when export fails.
type exportErrorMsg struct {
	err error
}

// waitForExportMsg returns a tea.Cmd that waits for the next message on the channel.
func waitForExportMsg(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// startExport runs the export in the background and translates session
// progress into tea messages on the returned channel.
func startExport(sess *session.Session, f export.Format, dir string) <-chan tea.Msg {
	ch := make(chan tea.Msg)
	go func() {
		defer close(ch)
		for p := range sess.ExportAsync(f, dir) {
			switch {
			case !p.Done:
				ch <- exportProgressMsg{percent: p.Percent}
			case p.Err != nil:
				ch <- exportErrorMsg{err: p.Err}
			default:
				ch <- exportCompleteMsg{path: p.Path}
			}
		}
	}()
	return ch
}
