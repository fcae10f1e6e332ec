package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/josephgoksu/DBAtlas/internal/consultant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResponder struct {
	inputs []string
	reply  consultant.Reply
	err    error
	report string
	resets int
}

func (f *fakeResponder) Respond(input string) (consultant.Reply, error) {
	f.inputs = append(f.inputs, input)
	return f.reply, f.err
}

func (f *fakeResponder) Report(time.Time) (string, error) {
	if f.report == "" {
		return "", consultant.ErrNoRecommendation
	}
	return f.report, nil
}

func (f *fakeResponder) Reset() { f.resets++ }

func typeText(m ChatModel, text string) ChatModel {
	m.Input.SetValue(text)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(ChatModel)
}

func TestChatModel_Greets(t *testing.T) {
	m := NewChatModel(&fakeResponder{}, nil)
	require.Len(t, m.Msgs, 1)
	assert.Contains(t, m.Msgs[0], "database consultant")
}

func TestChatModel_SendAndReply(t *testing.T) {
	f := &fakeResponder{reply: consultant.Reply{
		Text:    "What kind of load do you expect?",
		Missing: []consultant.Topic{consultant.TopicLoad},
	}}
	m := NewChatModel(f, nil)

	m.Input.SetValue("  a web app  ")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(ChatModel)
	require.NotNil(t, cmd)
	assert.True(t, m.Thinking)
	assert.Empty(t, m.Input.Value())

	next, _ = m.Update(respond(f, "a web app")())
	m = next.(ChatModel)

	assert.Equal(t, []string{"a web app"}, f.inputs)
	assert.False(t, m.Thinking)
	assert.Equal(t, 1, m.Turns)
	assert.Contains(t, m.Msgs[len(m.Msgs)-1], "What kind of load")
	assert.Contains(t, m.View(), "still need: expected load")
}

func TestChatModel_EmptyInputIgnored(t *testing.T) {
	f := &fakeResponder{}
	m := typeText(NewChatModel(f, nil), "   ")
	assert.False(t, m.Thinking)
	assert.Len(t, m.Msgs, 1)
}

func TestChatModel_ReplyError(t *testing.T) {
	m := NewChatModel(&fakeResponder{}, nil)
	next, _ := m.Update(MsgReply{Err: errors.New("store offline")})
	m = next.(ChatModel)
	assert.Contains(t, m.Msgs[len(m.Msgs)-1], "store offline")
}

func TestChatModel_Commands(t *testing.T) {
	t.Run("reset", func(t *testing.T) {
		f := &fakeResponder{}
		m := typeText(NewChatModel(f, nil), "/reset")
		assert.Equal(t, 1, f.resets)
		assert.Len(t, m.Msgs, 2)
	})

	t.Run("report saved", func(t *testing.T) {
		var saved string
		f := &fakeResponder{report: "# Report"}
		m := typeText(NewChatModel(f, func(r string) (string, error) {
			saved = r
			return "report.md", nil
		}), "/report")
		assert.Equal(t, "# Report", saved)
		assert.Contains(t, m.Msgs[len(m.Msgs)-1], "report.md")
	})

	t.Run("report before recommendation", func(t *testing.T) {
		m := typeText(NewChatModel(&fakeResponder{}, func(string) (string, error) { return "x", nil }), "/report")
		assert.Contains(t, m.Msgs[len(m.Msgs)-1], consultant.ErrNoRecommendation.Error())
	})

	t.Run("unknown", func(t *testing.T) {
		m := typeText(NewChatModel(&fakeResponder{}, nil), "/dance")
		assert.Contains(t, m.Msgs[len(m.Msgs)-1], "unknown command")
	})

	t.Run("quit", func(t *testing.T) {
		m := NewChatModel(&fakeResponder{}, nil)
		m.Input.SetValue("/quit")
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	})
}

func TestChatModel_Resize(t *testing.T) {
	m := NewChatModel(&fakeResponder{}, nil)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(ChatModel)
	assert.Equal(t, 100, m.Viewport.Width)
	assert.Equal(t, 34, m.Viewport.Height)
	assert.True(t, strings.Contains(m.View(), "DBAtlas Consultant"))
}
