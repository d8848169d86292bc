// Package tui renders the chat log and input fields in the terminal.
//
// Inbound frames and key presses are both delivered as Bubble Tea messages,
// so the log and the inputs are only touched from the program's event loop
// and frames are rendered in the order they arrived.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dev-dami/go-chat-relay/internal/chat"
)

// rows below the log: status, name, message
const chromeHeight = 3

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type focus int

const (
	focusMessage focus = iota
	focusName
)

type frameMsg string

type closedMsg struct{}

// Model is the chat screen.
type Model struct {
	client *chat.Client
	frames <-chan string

	log      chat.Log
	viewport viewport.Model
	input    textinput.Model
	name     textinput.Model
	focus    focus

	status string
	failed bool
}

// New builds the screen for client. frames is the channel client.Run
// delivers inbound payloads on; name seeds the display name field.
func New(client *chat.Client, frames <-chan string, name string) Model {
	vp := viewport.New(0, 0)
	vp.KeyMap = viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "message..."
	input.Focus()

	nameField := textinput.New()
	nameField.Prompt = "name: "
	nameField.Placeholder = chat.DefaultName
	nameField.SetValue(name)

	return Model{
		client:   client,
		frames:   frames,
		viewport: vp,
		input:    input,
		name:     nameField,
		status:   "connected",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForFrame(m.frames))
}

func waitForFrame(frames <-chan string) tea.Cmd {
	return func() tea.Msg {
		payload, ok := <-frames
		if !ok {
			return closedMsg{}
		}
		return frameMsg(payload)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 1)
		m.name.Width = max(msg.Width-len(m.name.Prompt)-1, 1)
		m.refresh()
		return m, nil

	case frameMsg:
		m.log.Append(string(msg))
		m.refresh()
		return m, waitForFrame(m.frames)

	case closedMsg:
		m.status, m.failed = "disconnected", true
		if err := m.client.Err(); err != nil {
			m.status = "disconnected: " + err.Error()
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "shift+tab":
			return m, m.toggleFocus()
		case chat.TriggerKey:
			if m.focus == focusName {
				return m, m.toggleFocus()
			}
			m.submit(msg.String())
			return m, nil
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	if m.focus == focusName {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) submit(key string) {
	sent, err := m.client.OnKeyDown(key, &m.input, m.name.Value())
	switch {
	case err != nil:
		m.status, m.failed = "send failed: "+err.Error(), true
	case sent && !m.failed:
		m.status = "connected"
	}
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusMessage {
		m.focus = focusName
		m.input.Blur()
		return m.name.Focus()
	}
	m.focus = focusMessage
	m.name.Blur()
	return m.input.Focus()
}

// refresh redraws the log and scrolls so the newest line is visible. Lines
// are wrapped to the viewport width first so the scroll offset counts the
// rows that are actually drawn.
func (m *Model) refresh() {
	content := m.log.Render()
	if m.viewport.Width > 0 && content != "" {
		content = lipgloss.NewStyle().Width(m.viewport.Width).Render(content)
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	status := statusStyle.Render(m.status)
	if m.failed {
		status = errorStyle.Render(m.status)
	}
	return strings.Join([]string{
		m.viewport.View(),
		status,
		m.name.View(),
		m.input.View(),
	}, "\n")
}
