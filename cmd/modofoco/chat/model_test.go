package chat

import (
	"context"
	"testing"

	"modofoco/cmd/modofoco/ui"
	"modofoco/internal/falcon"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProcessor struct {
	got   []string
	reply falcon.Reply
}

func (s *stubProcessor) ProcessMessage(_ context.Context, raw string) falcon.Reply {
	s.got = append(s.got, raw)
	return s.reply
}

func typeText(m Model, text string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(Model)
}

func TestModel_EnterSendsAndAppendsReply(t *testing.T) {
	proc := &stubProcessor{reply: falcon.Reply{Text: "✅ Tarefa criada: X (+5 FP)", ActionPerformed: true, PointsGained: 5}}
	m := New(proc, "u1", ui.NewStyles(ui.LightTheme()))

	m = typeText(m, "  Criar tarefa X ")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	assert.Empty(t, m.input.Value())

	msg := cmd()
	next, _ = m.Update(msg)
	m = next.(Model)

	assert.Equal(t, []string{"Criar tarefa X"}, proc.got)
	assert.False(t, m.busy)
	assert.Equal(t, 5, m.SessionPoints())

	history := m.History()
	require.Len(t, history, 3)
	assert.Equal(t, "user", history[1].Role)
	assert.Equal(t, "Criar tarefa X", history[1].Content)
	assert.Equal(t, 5, history[2].Points)
	assert.Contains(t, m.View(), "5 FP")
}

func TestModel_IgnoresEmptyAndBusyInput(t *testing.T) {
	proc := &stubProcessor{}
	m := New(proc, "u1", ui.NewStyles(ui.LightTheme()))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	m = next.(Model)

	m.busy = true
	m = typeText(m, "Criar tarefa Y")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, proc.got)
}

func TestModel_FailureReplyIsMarked(t *testing.T) {
	m := New(&stubProcessor{}, "u1", ui.NewStyles(ui.LightTheme()))
	next, _ := m.Update(replyMsg{reply: falcon.Reply{Text: falcon.FailureReply}})
	m = next.(Model)

	history := m.History()
	assert.True(t, history[len(history)-1].Failed)
	assert.Zero(t, m.SessionPoints())
}

func TestModel_QuitKeys(t *testing.T) {
	m := New(&stubProcessor{}, "u1", ui.NewStyles(ui.LightTheme()))
	for _, key := range []tea.KeyType{tea.KeyCtrlC, tea.KeyEsc} {
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestModel_WindowResize(t *testing.T) {
	m := New(&stubProcessor{}, "u1", ui.NewStyles(ui.DarkTheme()))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	assert.Equal(t, 120, m.viewport.Width)
	assert.Equal(t, 36, m.viewport.Height)
}
