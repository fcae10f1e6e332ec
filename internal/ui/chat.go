package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/josephgoksu/DBAtlas/internal/consultant"
)

// Layout constants
const (
	DefaultChatWidth  = 80
	DefaultChatHeight = 20
	MinChatHeight     = 6
	ChatChromeHeight  = 6 // header + separator + input box + footer
	MaxChatMsgWidth   = 76
)

// Responder is the conversation the chat drives.
type Responder interface {
	Respond(input string) (consultant.Reply, error)
	Report(generatedAt time.Time) (string, error)
	Reset()
}

// ReportSaver persists a Markdown report and returns where it went.
type ReportSaver func(report string) (string, error)

// MsgReply carries the consultant's answer to one chat turn.
type MsgReply struct {
	Reply consultant.Reply
	Err   error
}

// ChatModel is the interactive consultation TUI.
type ChatModel struct {
	session Responder
	save    ReportSaver
	now     func() time.Time

	Msgs     []string
	Thinking bool
	Turns    int
	Last     *consultant.Reply

	Input    textinput.Model
	Viewport viewport.Model
	Spinner  spinner.Model
}

// NewChatModel opens a chat over session. save may be nil, which disables
// the /report command.
func NewChatModel(session Responder, save ReportSaver) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Describe your project, or /help"
	ti.Prompt = "› "
	ti.CharLimit = 2000
	ti.Width = DefaultChatWidth - 6
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = StylePrimary

	m := ChatModel{
		session:  session,
		save:     save,
		now:      time.Now,
		Input:    ti,
		Viewport: viewport.New(DefaultChatWidth, DefaultChatHeight),
		Spinner:  s,
	}
	m.addMsg("CONSULTANT", consultant.Greeting)
	return m
}

func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

func respond(session Responder, input string) tea.Cmd {
	return func() tea.Msg {
		reply, err := session.Respond(input)
		return MsgReply{Reply: reply, Err: err}
	}
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Viewport.Width = msg.Width
		m.Viewport.Height = max(MinChatHeight, msg.Height-ChatChromeHeight)
		m.Input.Width = msg.Width - 6
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyPgUp:
			m.Viewport.HalfViewUp()
			return m, nil
		case tea.KeyPgDown:
			m.Viewport.HalfViewDown()
			return m, nil
		case tea.KeyEnter:
			if m.Thinking {
				return m, nil
			}
			text := strings.TrimSpace(m.Input.Value())
			m.Input.Reset()
			if text == "" {
				return m, nil
			}
			if strings.HasPrefix(text, "/") {
				return m.command(text)
			}
			m.addMsg("USER", text)
			m.Thinking = true
			return m, tea.Batch(m.Spinner.Tick, respond(m.session, text))
		}

	case MsgReply:
		m.Thinking = false
		m.Turns++
		if msg.Err != nil {
			m.addMsg("ERROR", msg.Err.Error())
			return m, nil
		}
		m.Last = &msg.Reply
		m.addMsg("CONSULTANT", msg.Reply.Text)
		if msg.Reply.Result != nil && msg.Reply.Result.Primary != nil && m.save != nil {
			m.addMsg("SYSTEM", "Type /report to save the full Markdown report.")
		}
		return m, nil

	case spinner.TickMsg:
		if !m.Thinking {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// command handles slash commands typed into the input.
func (m ChatModel) command(text string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(strings.Fields(text)[0]) {
	case "/quit", "/exit":
		return m, tea.Quit
	case "/reset":
		m.session.Reset()
		m.Last = nil
		m.Msgs = nil
		m.addMsg("SYSTEM", "Conversation reset.")
		m.addMsg("CONSULTANT", consultant.Greeting)
	case "/report":
		m.saveReport()
	case "/help":
		m.addMsg("SYSTEM", "/report  save the latest recommendation as Markdown\n"+
			"/reset   start over\n"+
			"/quit    leave (also Esc or Ctrl+C)\n"+
			"PgUp/PgDn scroll the conversation")
	default:
		m.addMsg("ERROR", fmt.Sprintf("unknown command %s, try /help", text))
	}
	return m, nil
}

func (m *ChatModel) saveReport() {
	if m.save == nil {
		m.addMsg("ERROR", "saving reports is not available here")
		return
	}
	report, err := m.session.Report(m.now())
	if err != nil {
		m.addMsg("ERROR", err.Error())
		return
	}
	path, err := m.save(report)
	if err != nil {
		m.addMsg("ERROR", err.Error())
		return
	}
	m.addMsg("SYSTEM", "Report saved to "+path)
}

func (m *ChatModel) addMsg(kind, content string) {
	width := min(MaxChatMsgWidth, max(20, m.Viewport.Width-4))
	body := WrapText(content, width)

	var line string
	switch kind {
	case "USER":
		line = StylePrefixUser.Render("You") + "\n" + body
	case "CONSULTANT":
		line = StylePrefixConsultant.Render("Consultant") + "\n" + body
	case "ERROR":
		line = StylePrefixError.Render("✗ " + body)
	default:
		line = StylePrefixSystem.Render("◆ " + body)
	}
	m.Msgs = append(m.Msgs, line)
	m.refresh()
}

func (m *ChatModel) refresh() {
	m.Viewport.SetContent(strings.Join(m.Msgs, "\n\n"))
	m.Viewport.GotoBottom()
}

func (m ChatModel) View() string {
	var s strings.Builder

	s.WriteString(StyleHeader.Render("◆ DBAtlas Consultant"))
	s.WriteString(" " + StyleSubtle.Render("/help for commands") + "\n")
	s.WriteString(StyleSubtle.Render(strings.Repeat("─", max(40, m.Viewport.Width))) + "\n")
	s.WriteString(m.Viewport.View() + "\n")

	if m.Thinking {
		s.WriteString(m.Spinner.View() + " " + StyleSubtle.Render("Thinking...") + "\n")
	} else {
		s.WriteString(StyleInputBox.Render(m.Input.View()) + "\n")
	}

	footer := "Enter send • Esc quit"
	if m.Last != nil && len(m.Last.Missing) > 0 {
		topics := make([]string, len(m.Last.Missing))
		for i, t := range m.Last.Missing {
			topics[i] = string(t)
		}
		footer += " • still need: " + strings.Join(topics, ", ")
	}
	s.WriteString(StyleSubtle.Render(footer))
	return s.String()
}

// RunChat runs the consultation TUI until the user quits.
func RunChat(session Responder, save ReportSaver) error {
	p := tea.NewProgram(NewChatModel(session, save), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
