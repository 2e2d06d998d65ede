package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/diogo/lawchat/internal/conversation"
	"github.com/diogo/lawchat/internal/panel"
	"github.com/diogo/lawchat/internal/render"
)

// Message types for the TUI
type (
	answerMsg struct {
		reply conversation.Reply
	}
	panelTickMsg time.Time
	copiedMsg    struct {
		err error
	}
)

// Layout heights in rows, borders included
const (
	headerHeight   = 3
	inputHeight    = 5
	statusHeight   = 1
	messagesChrome = 2
	minViewport    = 3
)

// Model is the chat screen. Conversation state lives in the controller;
// the model owns only widgets and the side panel.
type Model struct {
	ctrl   *conversation.Controller
	ctx    context.Context
	logger zerolog.Logger

	renderOpts     render.Options
	writeClipboard func(string) error

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	panel    panel.Panel

	notice string
	ready  bool

	width  int
	height int
}

// Option configures a Model
type Option func(*Model)

// WithLogger sets the logger used for UI events
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithRenderOptions sets markdown options for bot answers
func WithRenderOptions(opts render.Options) Option {
	return func(m *Model) {
		m.renderOpts = opts
	}
}

// WithClipboard replaces the clipboard writer
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.writeClipboard = write
		}
	}
}

// WithContext sets the context handed to every request
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// NewChatModel creates the chat screen around a conversation controller
func NewChatModel(ctrl *conversation.Controller, opts ...Option) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask a legal question..."
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorMuted)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = loadingStyle

	m := Model{
		ctrl:           ctrl,
		ctx:            context.Background(),
		logger:         zerolog.Nop(),
		renderOpts:     render.DefaultOptions(),
		writeClipboard: clipboard.WriteAll,
		textarea:       ta,
		spinner:        s,
		help:           help.New(),
		keys:           defaultKeyMap(),
	}
	for _, opt := range opts {
		opt(&m)
	}

	logger := m.logger
	m.panel = panel.New(0, panel.WithTransition(func(from, to panel.Phase) {
		logger.Debug().
			Stringer("from", from).
			Stringer("to", to).
			Msg("panel transition")
	}))

	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func panelTick() tea.Cmd {
	return tea.Tick(time.Second/panel.FPS, func(t time.Time) tea.Msg {
		return panelTickMsg(t)
	})
}

func askCmd(call func() conversation.Reply) tea.Cmd {
	return func() tea.Msg {
		return answerMsg{reply: call()}
	}
}

func copyCmd(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: write(text)}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case answerMsg:
		m.ctrl.Receive(msg.reply)
		m.refreshMessages()
		return m, nil

	case spinner.TickMsg:
		if m.ctrl.InFlight() {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case panelTickMsg:
		m.panel = m.panel.Tick()
		if m.panel.Animating() {
			return m, panelTick()
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.logger.Warn().Err(msg.err).Msg("clipboard write failed")
			m.notice = "Copy failed: " + msg.err.Error()
		} else {
			m.notice = "Copied last answer"
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Close):
		if m.panel.IsOpenOrOpening() {
			return m.movePanel(m.panel.SetOpen(false))
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Panel):
		return m.movePanel(m.panel.Toggle())

	case key.Matches(msg, m.keys.Copy):
		text, ok := m.ctrl.State().LastReply()
		if !ok {
			return m, nil
		}
		return m, copyCmd(m.writeClipboard, text)

	case key.Matches(msg, m.keys.Send):
		return m.submit()

	case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.ctrl.SetDraft(m.textarea.Value())
	return m, cmd
}

// submit hands the draft to the controller. Rejected submissions leave the
// draft untouched.
func (m Model) submit() (tea.Model, tea.Cmd) {
	call := m.ctrl.Submit(m.ctx, m.textarea.Value())
	if call == nil {
		return m, nil
	}

	m.textarea.Reset()
	m.refreshMessages()

	return m, tea.Batch(askCmd(call), m.spinner.Tick)
}

// movePanel installs the next panel state. A tick loop is only started when
// the panel was at rest; a reversal reuses the running loop.
func (m Model) movePanel(next panel.Panel) (tea.Model, tea.Cmd) {
	wasAnimating := m.panel.Animating()
	m.panel = next
	if m.panel.Animating() && !wasAnimating {
		return m, panelTick()
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	vpHeight := height - headerHeight - inputHeight - statusHeight - messagesChrome
	if vpHeight < minViewport {
		vpHeight = minViewport
	}
	contentWidth := width - 4
	if contentWidth < 10 {
		contentWidth = 10
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.viewport.KeyMap = viewport.KeyMap{
			PageUp:   m.keys.ScrollUp,
			PageDown: m.keys.ScrollDown,
		}
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 2)
	m.help.Width = width
	m.panel = m.panel.Resize(width)

	m.refreshMessages()
}

// refreshMessages re-renders the conversation into the viewport and keeps
// the newest message in view.
func (m *Model) refreshMessages() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages(m.viewport.Width))
	m.viewport.GotoBottom()
}

// RunChat starts the chat TUI
func RunChat(ctrl *conversation.Controller, opts ...Option) error {
	m := NewChatModel(ctrl, opts...)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
