// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	chatstate "github.com/jeranaias/suaibot/internal/chat"
	"github.com/jeranaias/suaibot/internal/identity"
	"github.com/jeranaias/suaibot/internal/local"
	"github.com/jeranaias/suaibot/internal/model"
	"github.com/jeranaias/suaibot/internal/ui/styles"
)

// Options configures the chat view.
type Options struct {
	State    *chatstate.State
	Identity *identity.Identity
	Theme    *styles.Theme

	// ShowSources renders the sources and images attached to answers.
	ShowSources bool

	// WordWrap caps the width of rendered answers; 0 means the terminal width.
	WordWrap int

	// Changes signals edits of the identity store by another process.
	// Nil disables watching.
	Changes <-chan struct{}
}

// Model is the Bubble Tea model of the chat screen.
type Model struct {
	state *chatstate.State
	ident *identity.Identity
	theme *styles.Theme
	keys  KeyMap
	lang  local.Language

	showSources bool
	wordWrap    int
	changes     <-chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	markdown *markdownRenderer

	width  int
	height int

	// busy is set while a history load or delete is in flight.
	busy          bool
	confirmDelete bool
	notice        string
	quitting      bool
}

// New creates the chat model.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(styles.Dark)
	}
	lang := opts.State.Language()

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = local.InputPlaceholder.Text(lang)
	ti.CharLimit = 4096
	ti.PromptStyle = theme.InputPrompt
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		state:       opts.State,
		ident:       opts.Identity,
		theme:       theme,
		keys:        DefaultKeyMap(),
		lang:        lang,
		showSources: opts.ShowSources,
		wordWrap:    opts.WordWrap,
		changes:     opts.Changes,
		ctx:         ctx,
		cancel:      cancel,
		viewport:    vp,
		input:       ti,
		spinner:     sp,
		markdown:    newMarkdownRenderer(),
	}
	m.updateViewport()
	return m
}

// Init restores the history of a remembered session and starts watching
// the identity store.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.state.SessionID() != nil {
		cmds = append(cmds, m.loadHistory(), m.spinner.Tick)
	}
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.changes))
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.waiting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case SendDoneMsg:
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil

	case HistoryLoadedMsg:
		m.busy = false
		if msg.Err == nil {
			m.notice = local.HistoryLoaded.Format(m.lang, msg.Count)
		}
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil

	case HistoryDeletedMsg:
		m.busy = false
		if msg.Err == nil && msg.Response != nil {
			m.notice = local.HistoryDeleted.Format(m.lang, msg.Response.DeletedCount)
		}
		m.updateViewport()
		return m, nil

	case StoreChangedMsg:
		return m.handleStoreChanged()

	case watcherClosedMsg:
		m.changes = nil
		return m, nil

	case NoticeMsg:
		m.notice = msg.Text
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the chat screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderChat()
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(m.width, m.height)

	m.layout()
	m.updateViewport()
	return m, nil
}

// layout sizes the viewport to what the fixed parts leave over.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	reserved := lipgloss.Height(m.renderHeader()) +
		lipgloss.Height(m.renderQuickActions()) +
		lipgloss.Height(m.renderInput()) +
		lipgloss.Height(m.renderStatusBar())

	vpHeight := m.height - reserved
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = vpHeight

	inputWidth := m.width - 6 - len(m.input.Prompt)
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmDelete {
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.NewSession):
		if m.waiting() {
			return m, nil
		}
		if err := m.state.CreateNewSession(); err == nil {
			m.notice = local.SessionStarted.Text(m.lang)
		}
		m.updateViewport()
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.waiting() {
			return m, nil
		}
		m.confirmDelete = true
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if m.waiting() {
			return m, nil
		}
		m.busy = true
		m.notice = ""
		return m, tea.Batch(m.loadHistory(), m.spinner.Tick)

	case key.Matches(msg, m.keys.Theme):
		return m.toggleTheme()

	case key.Matches(msg, m.keys.Quick):
		return m.fillQuickAction(quickIndex(msg.String()))

	case key.Matches(msg, m.keys.Dismiss):
		m.state.ClearError()
		m.notice = ""
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirmDelete = false
	switch msg.String() {
	case "y", "Y", "д", "Д":
		m.busy = true
		return m, tea.Batch(m.deleteHistory(), m.spinner.Tick)
	}
	return m, nil
}

// submit starts a send. The user message is shown right away; the reply
// arrives as SendDoneMsg.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	m.state.SetInput(m.input.Value())
	p, ok := m.state.BeginSend()
	if !ok {
		return m, nil
	}
	m.input.Reset()
	m.notice = ""
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, tea.Batch(m.send(p), m.spinner.Tick)
}

func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	mode := m.theme.Toggle()
	if m.ident != nil {
		if err := m.ident.SetTheme(string(mode)); err != nil {
			slog.Warn("failed to persist theme", "error", err)
		}
	}
	m.restyleInput()
	m.notice = local.ThemeSwitched.Format(m.lang, string(mode))
	m.updateViewport()
	return m, nil
}

func (m Model) fillQuickAction(id int) (tea.Model, tea.Cmd) {
	qa, ok := model.QuickActionByID(id)
	if !ok {
		return m, nil
	}
	m.input.SetValue(local.QuickActionTitle(m.lang, qa.ID, qa.Title))
	m.input.CursorEnd()
	return m, nil
}

// handleStoreChanged adopts a session or theme switched by another process.
func (m Model) handleStoreChanged() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{}
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.changes))
	}

	if m.ident != nil {
		if saved, ok, err := m.ident.Theme(); err == nil && ok && styles.Mode(saved) != m.theme.Mode {
			m.theme.SetMode(styles.Mode(saved))
			m.restyleInput()
		}
	}

	changed, err := m.state.SyncSession()
	if err != nil {
		slog.Warn("failed to re-read session id", "error", err)
	}
	if changed && !m.busy {
		m.busy = true
		cmds = append(cmds, m.loadHistory(), m.spinner.Tick)
	}
	m.updateViewport()
	return m, tea.Batch(cmds...)
}

func (m *Model) restyleInput() {
	m.input.PromptStyle = m.theme.InputPrompt
	m.input.PlaceholderStyle = m.theme.InputPlaceholder
	m.spinner.Style = m.theme.Spinner
}

// waiting reports whether the spinner should run.
func (m Model) waiting() bool {
	return m.busy || m.state.Loading()
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) send(p *chatstate.Pending) tea.Cmd {
	ctx, state := m.ctx, m.state
	return func() tea.Msg {
		err := state.Dispatch(ctx, p)
		return SendDoneMsg{Pending: p, Err: err}
	}
}

func (m Model) loadHistory() tea.Cmd {
	ctx, state := m.ctx, m.state
	return func() tea.Msg {
		n, err := state.LoadSessionHistory(ctx)
		return HistoryLoadedMsg{Count: n, Err: err}
	}
}

func (m Model) deleteHistory() tea.Cmd {
	ctx, state := m.ctx, m.state
	return func() tea.Msg {
		resp, err := state.DeleteSessionHistory(ctx)
		return HistoryDeletedMsg{Response: resp, Err: err}
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return watcherClosedMsg{}
		}
		return StoreChangedMsg{}
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the underlying chat state.
func (m Model) State() *chatstate.State {
	return m.state
}

// InputValue returns the text in the input line.
func (m Model) InputValue() string {
	return m.input.Value()
}

// Notice returns the transient status line.
func (m Model) Notice() string {
	return m.notice
}

// ConfirmingDelete reports whether the delete prompt is shown.
func (m Model) ConfirmingDelete() bool {
	return m.confirmDelete
}
