// Package tui is the interactive annotation view: a live annotation list,
// timeline, stats and transcript panels over a player session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/reactvid-cli/annotation"
	"github.com/user/reactvid-cli/logger"
	"github.com/user/reactvid-cli/pkg/export"
	"github.com/user/reactvid-cli/session"
	"github.com/user/reactvid-cli/transcript"
	"github.com/user/reactvid-cli/tui/components"
	"github.com/user/reactvid-cli/tui/forms"
	"github.com/user/reactvid-cli/tui/layout"
	"github.com/user/reactvid-cli/tui/styles"
)

const (
	// tickInterval is the interval for polling the player.
	tickInterval = 200 * time.Millisecond
	// metadataInterval is how often title and duration are re-read.
	metadataInterval = 5 * time.Second
	// resultDisplayDuration is how long to show action results.
	resultDisplayDuration = 3 * time.Second
	// stepSeconds is the seek step for h/l.
	stepSeconds = 5.0
	// highlightWindow is how long after its timestamp a row stays marked.
	highlightWindow = 3
)

// tickMsg is a message sent on every tick interval to update playback status.
type tickMsg time.Time

// clearResultMsg is sent to clear the result line.
type clearResultMsg struct{}

// metadataMsg reports the end of a metadata refresh.
type metadataMsg struct {
	err error
}

type formKind int

const (
	formNone formKind = iota
	formComment
	formReaction
	formExport
	formClearAll
	formPromoteAll
	formClearTranscript
)

// Options configures the TUI.
type Options struct {
	// OutputDir receives exported files.
	OutputDir string
}

// Model is the Bubbletea model for the TUI application.
type Model struct {
	sess *session.Session
	opts Options
	keys KeyMap
	help help.Model

	width    int
	height   int
	quitting bool
	showHelp bool

	statusBar components.StatusBarState
	list      components.AnnotationListState
	stats     annotation.Stats

	// active huh form, nil when none is open
	form          *huh.Form
	formKind      formKind
	formTimestamp float64
	comment       forms.CommentFormResult
	reaction      forms.ReactionFormResult
	exportFormat  export.Format
	confirmed     bool

	exportState components.ExportProgressState
	exportCh    <-chan tea.Msg

	lastMetadata time.Time
	refreshing   bool

	result    string
	resultErr bool
}

// NewModel creates a TUI model over sess.
func NewModel(sess *session.Session, opts Options) *Model {
	m := &Model{
		sess: sess,
		opts: opts,
		keys: DefaultKeyMap(),
		help: help.New(),
	}
	m.reload()
	m.pollPlayer()
	return m
}

// Init initializes the model. It returns an optional command to run.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.refreshMetadata())
}

// tickCmd returns a command that sends a tickMsg after the tick interval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func clearResultCmd() tea.Cmd {
	return tea.Tick(resultDisplayDuration, func(time.Time) tea.Msg {
		return clearResultMsg{}
	})
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.form != nil {
			m.form = m.form.WithWidth(formWidth(msg.Width))
		}
		return m, nil

	case tickMsg:
		m.pollPlayer()
		m.reload()
		cmds := []tea.Cmd{tickCmd()}
		if time.Since(m.lastMetadata) >= metadataInterval {
			cmds = append(cmds, m.refreshMetadata())
		}
		return m, tea.Batch(cmds...)

	case metadataMsg:
		m.refreshing = false
		if msg.err != nil {
			logger.Debug("refreshing metadata: %v", msg.err)
		}
		return m, nil

	case clearResultMsg:
		m.result = ""
		m.resultErr = false
		return m, nil

	case exportProgressMsg:
		m.exportState.Percent = msg.percent
		return m, waitForExportMsg(m.exportCh)

	case exportCompleteMsg:
		m.exportState.Percent = 100
		m.exportState.Path = msg.path
		m.exportCh = nil
		return m, m.setResult("Exported to "+msg.path, false)

	case exportErrorMsg:
		m.exportState.Err = msg.err
		m.exportCh = nil
		return m, m.setResult("Export failed: "+msg.err.Error(), true)

	case tea.KeyMsg:
		if m.form != nil {
			if key.Matches(msg, m.keys.Back) {
				m.closeForm()
				return m, nil
			}
			return m.updateForm(msg)
		}
		return m.handleKey(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key dismisses the help overlay
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Back):
		if m.exportCh == nil {
			m.exportState = components.ExportProgressState{}
		}
	case key.Matches(msg, m.keys.Up):
		m.list.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.list.MoveDown()
	case key.Matches(msg, m.keys.Seek):
		return m, m.seekToSelected()
	case key.Matches(msg, m.keys.PlayPause):
		return m, m.togglePause()
	case key.Matches(msg, m.keys.StepBack):
		return m, m.step(-stepSeconds)
	case key.Matches(msg, m.keys.StepForward):
		return m, m.step(stepSeconds)
	case key.Matches(msg, m.keys.Comment):
		return m, m.openCommentForm()
	case key.Matches(msg, m.keys.React):
		return m, m.openReactionForm()
	case key.Matches(msg, m.keys.Delete):
		return m, m.deleteSelected()
	case key.Matches(msg, m.keys.Clear):
		if m.sess.Annotations().Len() == 0 {
			return m, m.setResult("Nothing to clear", true)
		}
		return m, m.openConfirm(formClearAll, "Clear all comments?",
			fmt.Sprintf("%d annotations for this video will be removed.", m.sess.Annotations().Len()), "Clear")
	case key.Matches(msg, m.keys.Sort):
		order := m.sess.Annotations().ToggleSortOrder()
		m.reload()
		return m, m.setResult("Sorted "+sortLabel(order), false)
	case key.Matches(msg, m.keys.Export):
		return m, m.openExportForm()
	case key.Matches(msg, m.keys.PromoteOne):
		return m, m.promoteCurrent()
	case key.Matches(msg, m.keys.PromoteAll):
		n := m.transcriptLen()
		if n == 0 {
			return m, m.setResult("No transcript", true)
		}
		return m, m.openConfirm(formPromoteAll, "Add transcript as comments?",
			fmt.Sprintf("All %d transcript lines become comments.", n), "Add")
	case key.Matches(msg, m.keys.ClearTranscript):
		if m.transcriptLen() == 0 {
			return m, m.setResult("No transcript", true)
		}
		return m, m.openConfirm(formClearTranscript, "Clear the transcript?",
			"Transcript lines for this video will be removed.", "Clear")
	}
	return m, nil
}

// --- Playback ---

type pauseReporter interface {
	Paused() (bool, error)
}

type pauseFlag interface {
	Paused() bool
}

// pollPlayer refreshes the status bar from the player.
func (m *Model) pollPlayer() {
	v := m.sess.Video()
	m.statusBar.Title = v.Title
	m.statusBar.Provider = v.Provider.DisplayName()
	m.statusBar.Duration = v.Duration()
	m.statusBar.SortOrder = string(m.sess.Annotations().SortOrder())
	if ts := m.sess.Transcript(); ts != nil {
		m.statusBar.Capturing = ts.Capturing()
	}

	p := m.sess.Player()
	if p == nil {
		m.statusBar.PlayerLost = true
		return
	}
	t, err := p.CurrentTime()
	if err != nil {
		m.statusBar.PlayerLost = true
		return
	}
	m.statusBar.PlayerLost = false
	m.statusBar.TimePos = t
	if d, err := p.Duration(); err == nil && d > 0 {
		m.statusBar.Duration = d
	}

	switch pp := p.(type) {
	case pauseReporter:
		if paused, err := pp.Paused(); err == nil {
			m.statusBar.Paused = paused
		}
	case pauseFlag:
		m.statusBar.Paused = pp.Paused()
	}
}

func (m *Model) refreshMetadata() tea.Cmd {
	if m.refreshing {
		return nil
	}
	m.refreshing = true
	m.lastMetadata = time.Now()
	sess := m.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return metadataMsg{err: sess.RefreshMetadata(ctx)}
	}
}

func (m *Model) seekTo(seconds float64) error {
	p := m.sess.Player()
	if p == nil {
		return errors.New("no player")
	}
	return p.Seek(max(seconds, 0))
}

func (m *Model) seekToSelected() tea.Cmd {
	item := m.list.Selected()
	if item == nil {
		return m.setResult("No comment selected", true)
	}
	if err := m.seekTo(float64(item.Timestamp)); err != nil {
		return m.setResult("Error: "+err.Error(), true)
	}
	return m.setResult("Jumped to "+item.Time(), false)
}

func (m *Model) togglePause() tea.Cmd {
	p := m.sess.Player()
	if p == nil {
		return m.setResult("No player", true)
	}
	if err := p.TogglePause(); err != nil {
		return m.setResult("Error: "+err.Error(), true)
	}
	m.statusBar.Paused = !m.statusBar.Paused
	return nil
}

func (m *Model) step(delta float64) tea.Cmd {
	if err := m.seekTo(m.statusBar.TimePos + delta); err != nil {
		return m.setResult("Error: "+err.Error(), true)
	}
	return nil
}

// --- Annotations ---

// reload copies the store into the list and stats.
func (m *Model) reload() {
	items := m.sess.Annotations().List()
	m.list.SetItems(items)
	m.stats = annotation.Summarize(items)
}

func (m *Model) add(text string, timestamp float64, kind annotation.Kind, emoji string) tea.Cmd {
	a, err := m.sess.AnnotateAt(timestamp, text, kind, emoji)
	if err != nil && !errors.Is(err, annotation.ErrPersist) {
		return m.setResult("Error: "+err.Error(), true)
	}
	m.reload()
	m.list.Select(a.ID)
	if err != nil {
		return m.setResult("Added but not saved: "+err.Error(), true)
	}
	return m.setResult(fmt.Sprintf("Added @ %s", a.Time()), false)
}

func (m *Model) deleteSelected() tea.Cmd {
	item := m.list.Selected()
	if item == nil {
		return m.setResult("No comment selected", true)
	}
	err := m.sess.Annotations().Remove(item.ID)
	m.reload()
	if err != nil {
		return m.setResult("Error: "+err.Error(), true)
	}
	return m.setResult("Deleted comment @ "+item.Time(), false)
}

func (m *Model) transcriptLen() int {
	if ts := m.sess.Transcript(); ts != nil {
		return ts.Len()
	}
	return 0
}

// promoteCurrent turns the transcript line playing now into a comment.
func (m *Model) promoteCurrent() tea.Cmd {
	ts := m.sess.Transcript()
	if ts == nil || ts.Len() == 0 {
		return m.setResult("No transcript", true)
	}
	var current *transcript.Segment
	for _, seg := range ts.Sorted() {
		if float64(seg.Timestamp) > m.statusBar.TimePos {
			break
		}
		current = &seg
	}
	if current == nil {
		return m.setResult("No transcript line yet", true)
	}
	a, err := transcript.Promote(*current, m.sess.Annotations())
	m.reload()
	if err != nil && !errors.Is(err, annotation.ErrPersist) {
		return m.setResult("Error: "+err.Error(), true)
	}
	m.list.Select(a.ID)
	return m.setResult("Added transcript line @ "+current.Time(), false)
}

// --- Forms ---

func formWidth(termWidth int) int {
	return max(min(termWidth-4, 72), 30)
}

func (m *Model) openForm(kind formKind, f *huh.Form) tea.Cmd {
	m.formKind = kind
	m.form = f.WithWidth(formWidth(m.width)).WithShowHelp(true)
	return m.form.Init()
}

func (m *Model) closeForm() {
	m.form = nil
	m.formKind = formNone
}

func (m *Model) openCommentForm() tea.Cmd {
	if !m.sess.Video().Loaded() {
		return m.setResult("No video loaded", true)
	}
	m.formTimestamp = m.statusBar.TimePos
	m.comment = forms.CommentFormResult{}
	return m.openForm(formComment, forms.NewCommentForm(m.formTimestamp, &m.comment))
}

func (m *Model) openReactionForm() tea.Cmd {
	if !m.sess.Video().Loaded() {
		return m.setResult("No video loaded", true)
	}
	m.formTimestamp = m.statusBar.TimePos
	m.reaction = forms.ReactionFormResult{}
	return m.openForm(formReaction, forms.NewReactionForm(m.formTimestamp, &m.reaction))
}

func (m *Model) openExportForm() tea.Cmd {
	if m.exportCh != nil {
		return m.setResult(session.ErrExportInProgress.Error(), true)
	}
	m.exportFormat = ""
	return m.openForm(formExport, forms.NewExportForm(m.transcriptLen() > 0, &m.exportFormat))
}

func (m *Model) openConfirm(kind formKind, title, description, affirmative string) tea.Cmd {
	m.confirmed = false
	return m.openForm(kind, forms.NewConfirmForm(title, description, affirmative, &m.confirmed))
}

// updateForm delegates to the open form and acts once it completes.
func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		kind := m.formKind
		m.closeForm()
		return m, m.submitForm(kind)
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

var approve = annotation.ConfirmFunc(func(string) (bool, error) { return true, nil })

func (m *Model) submitForm(kind formKind) tea.Cmd {
	switch kind {
	case formComment:
		return m.add(m.comment.Text, m.formTimestamp, annotation.KindComment, "")
	case formReaction:
		return m.add(m.reaction.ReactionText(), m.formTimestamp, annotation.KindReaction, m.reaction.Emoji)
	case formExport:
		return m.beginExport(m.exportFormat)
	}

	if !m.confirmed {
		return nil
	}
	switch kind {
	case formClearAll:
		_, err := m.sess.Annotations().ClearAll(approve)
		m.reload()
		if err != nil {
			return m.setResult("Cleared but not saved: "+err.Error(), true)
		}
		return m.setResult("Cleared all comments", false)
	case formPromoteAll:
		n, err := m.sess.Transcript().PromoteAll(m.sess.Annotations(), approve)
		m.reload()
		if err != nil {
			return m.setResult(fmt.Sprintf("Added %d comments, not saved: %v", n, err), true)
		}
		return m.setResult(fmt.Sprintf("Added %d comments from the transcript", n), false)
	case formClearTranscript:
		if _, err := m.sess.Transcript().Clear(approve); err != nil {
			return m.setResult("Cleared but not saved: "+err.Error(), true)
		}
		return m.setResult("Transcript cleared", false)
	}
	return nil
}

func (m *Model) beginExport(f export.Format) tea.Cmd {
	m.exportState = components.ExportProgressState{Active: true, Format: f.Label()}
	m.exportCh = startExport(m.sess, f, m.opts.OutputDir)
	return waitForExportMsg(m.exportCh)
}

// --- Results ---

func (m *Model) setResult(text string, isErr bool) tea.Cmd {
	m.result = text
	m.resultErr = isErr
	return clearResultCmd()
}

func sortLabel(o annotation.SortOrder) string {
	if o == annotation.Ascending {
		return "oldest first"
	}
	return "newest first"
}

// --- View ---

// View renders the current state of the model as a string.
func (m *Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if m.showHelp {
		return components.HelpOverlay(m.keys.FullHelp(), m.width, m.height)
	}

	if m.width > 0 && m.width < layout.MinTerminalWidth {
		return styles.Warning.Render(fmt.Sprintf("Terminal too narrow (%d cols)", m.width)) + "\n" +
			styles.Placeholder.Render(fmt.Sprintf("Minimum width: %d columns", layout.MinTerminalWidth))
	}

	statusBar := components.StatusBar(m.statusBar, m.width)

	if m.form != nil {
		formView := lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
		return statusBar + "\n" + formView
	}

	timeline := components.Timeline(m.statusBar.TimePos, m.statusBar.Duration, m.list.Items, m.width)
	footer := m.renderFooter()

	var exportBox string
	if m.exportState.Active {
		exportBox = components.ExportProgress(m.exportState, min(m.width, 60))
	}

	// Status bar, timeline and footer take the rest
	colHeight := m.height - 1 - components.TimelineHeight - 1
	if exportBox != "" {
		colHeight -= lipgloss.Height(exportBox)
	}
	colHeight = max(colHeight, 5)

	sections := []string{statusBar, m.renderColumns(colHeight), timeline}
	if exportBox != "" {
		sections = append(sections, exportBox)
	}
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (m *Model) renderFooter() string {
	if m.result != "" {
		if m.resultErr {
			return " " + styles.Warning.Render(m.result)
		}
		return " " + styles.Success.Render(m.result)
	}
	return " " + m.help.ShortHelpView(m.keys.ShortHelp())
}

// Run starts the Bubbletea program over sess and blocks until it exits.
func Run(sess *session.Session, opts Options) error {
	model := NewModel(sess, opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
