package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/waku-org/waku-go-bindings/node"
	"github.com/waku-org/waku-go-bindings/protocol"
	"github.com/waku-org/waku-go-bindings/testbed"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nickStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	systemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type chatLine struct {
	at     time.Time
	text   string
	system bool
}

type chatModel struct {
	err          error
	running      *node.RunningNode
	pubsubTopic  protocol.PubsubTopic
	contentTopic protocol.ContentTopic
	nick         string
	lines        []chatLine
	input        textinput.Model
	height       int
}

// eventMsg carries a node event onto the program loop. The event handler
// runs on the native delivery thread, so events are forwarded with Send
// rather than touching the model directly.
type eventMsg struct {
	ev node.Event
}

type publishedMsg struct {
	err error
}

func newChatModel(running *node.RunningNode, pubsubTopic protocol.PubsubTopic, contentTopic protocol.ContentTopic, nick string) *chatModel {
	input := textinput.New()
	input.Placeholder = "message"
	input.Prompt = "> "
	input.Width = 60
	input.Focus()

	return &chatModel{
		running:      running,
		pubsubTopic:  pubsubTopic,
		contentTopic: contentTopic,
		nick:         nick,
		input:        input,
		height:       24,
	}
}

func (m *chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *chatModel) system(format string, args ...any) {
	m.lines = append(m.lines, chatLine{at: time.Now(), text: fmt.Sprintf(format, args...), system: true})
}

func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.input.Width = msg.Width - 4

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			text := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if text == "" {
				return m, nil
			}
			return m, m.publish(text)
		}

	case eventMsg:
		switch ev := msg.ev.(type) {
		case node.MessageEvent:
			m.lines = append(m.lines, chatLine{
				at:   time.Unix(0, ev.Message.Timestamp),
				text: string(ev.Message.Payload),
			})
		case node.ConnectionChangeEvent:
			m.system("peer %s: %s", ev.PeerID, ev.PeerEvent)
		case node.TopicHealthEvent:
			m.system("topic %s is %s", ev.PubsubTopic, ev.TopicHealth)
		}

	case publishedMsg:
		if msg.err != nil {
			m.err = msg.err
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// publish sends the line through relay from a command so the program loop
// never blocks on the native call.
func (m *chatModel) publish(text string) tea.Cmd {
	running := m.running
	pubsubTopic := m.pubsubTopic
	line := fmt.Sprintf("%s: %s", m.nick, text)
	topicName := m.contentTopic.Name

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, err := running.RelayPublishText(ctx, pubsubTopic, line, topicName, 10*time.Second)
		return publishedMsg{err: err}
	}
}

func (m *chatModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Waku Chat"))
	b.WriteString(" ")
	b.WriteString(m.contentTopic.String())
	b.WriteString("\n\n")

	visible := m.lines
	if max := m.height - 6; max > 0 && len(visible) > max {
		visible = visible[len(visible)-max:]
	}
	for _, line := range visible {
		b.WriteString(timeStyle.Render(line.at.Format("15:04:05")))
		b.WriteString(" ")
		if line.system {
			b.WriteString(systemStyle.Render(line.text))
		} else {
			b.WriteString(renderChatLine(line.text))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("enter send • esc quit"))

	return b.String()
}

// renderChatLine highlights the nick prefix of a "nick: text" line.
func renderChatLine(text string) string {
	nick, rest, found := strings.Cut(text, ": ")
	if !found {
		return text
	}
	return nickStyle.Render(nick) + ": " + rest
}

func runChat(pubsubTopic protocol.PubsubTopic, topicName, nick string) error {
	ctx := context.Background()

	lib := testbed.New()
	n, err := node.New(ctx, lib, &node.Config{RandomPort: true})
	if err != nil {
		return fmt.Errorf("create node: %w", err)
	}

	running, err := n.Start(ctx)
	if err != nil {
		n.Destroy(ctx)
		return fmt.Errorf("start node: %w", err)
	}
	defer running.Destroy(ctx)

	if err := running.RelaySubscribe(ctx, pubsubTopic); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	contentTopic, err := running.NewContentTopic(ctx, "waku", 2, topicName, protocol.EncodingProto)
	if err != nil {
		return fmt.Errorf("content topic: %w", err)
	}

	p := tea.NewProgram(newChatModel(running, pubsubTopic, contentTopic, nick), tea.WithAltScreen())

	if err := running.SetEventHandler(func(ev node.Event) {
		p.Send(eventMsg{ev: ev})
	}); err != nil {
		return fmt.Errorf("event handler: %w", err)
	}

	_, err = p.Run()
	return err
}
