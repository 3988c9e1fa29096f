// Package chat provides the interactive TUI chat with the Falcon assistant.
package chat

import (
	"context"
	"strings"
	"time"

	"modofoco/cmd/modofoco/ui"
	"modofoco/internal/falcon"
	"modofoco/internal/logging"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Processor answers one message. *falcon.Brain implements it.
type Processor interface {
	ProcessMessage(ctx context.Context, raw string) falcon.Reply
}

// Message is one entry of the transcript.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
	Points  int
	Failed  bool
}

// replyMsg carries a processed reply back into Update.
type replyMsg struct {
	reply falcon.Reply
}

// Model is the bubbletea model of the chat screen.
type Model struct {
	processor Processor
	userID    string
	styles    ui.Styles
	timeout   time.Duration

	input    textinput.Model
	viewport viewport.Model
	history  []Message

	sessionPoints int
	busy          bool
	width         int
	height        int
}

// New creates a chat model for userID.
func New(processor Processor, userID string, styles ui.Styles) Model {
	ti := textinput.New()
	ti.Placeholder = "Ex.: Criar tarefa Revisar contrato"
	ti.Prompt = "› "
	ti.PromptStyle = styles.Prompt
	ti.CharLimit = 500
	ti.Focus()

	vp := viewport.New(80, 20)

	m := Model{
		processor: processor,
		userID:    userID,
		styles:    styles,
		timeout:   30 * time.Second,
		input:     ti,
		viewport:  vp,
		width:     80,
		height:    24,
	}
	m.history = append(m.history, Message{Role: "assistant", Content: falcon.HelpReply})
	m.refresh()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles keys, window resizes and replies.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.busy {
				return m, nil
			}
			m.input.Reset()
			m.history = append(m.history, Message{Role: "user", Content: text})
			m.busy = true
			m.refresh()
			return m, m.send(text)
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-4, 1)
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()

	case replyMsg:
		m.busy = false
		m.sessionPoints += msg.reply.PointsGained
		m.history = append(m.history, Message{
			Role:    "assistant",
			Content: msg.reply.Text,
			Points:  msg.reply.PointsGained,
			Failed:  msg.reply.Text == falcon.FailureReply,
		})
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// send processes text off the UI goroutine.
func (m Model) send(text string) tea.Cmd {
	processor, timeout := m.processor, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		logging.Chat("message from %s: %q", m.userID, text)
		return replyMsg{reply: processor.ProcessMessage(ctx, text)}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderHistory())
	m.viewport.GotoBottom()
}

// History returns a copy of the transcript.
func (m Model) History() []Message {
	return append([]Message(nil), m.history...)
}

// SessionPoints returns the points gained since the chat opened.
func (m Model) SessionPoints() int {
	return m.sessionPoints
}
