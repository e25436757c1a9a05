// package ui implements a terminal dashboard for watching a robot's
// sensor streams live.
package ui

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/copilette/misty/internal/events"
	"github.com/copilette/misty/internal/robot"
)

// maxLines bounds the scrollback kept for the event feed.
const maxLines = 200

// batteryInterval is how often the header's battery reading refreshes.
const batteryInterval = 30 * time.Second

// Monitor is the TUI application state for the live event dashboard.
type Monitor struct {
	ctx        context.Context
	robot      *robot.Robot
	subs       []events.Subscription
	debounceMS int

	eventCh chan events.Event
	tokens  []*events.Token
	lines   []string
	paused  bool
	battery string
	width   int
	height  int
	err     error
	help    help.Model
	keys    keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	pause key.Binding
	clear key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.pause, k.clear, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.pause, k.clear, k.quit}}
}

type subscribedMsg struct {
	tokens []*events.Token
	err    error
}

type eventMsg events.Event

type batteryMsg struct {
	level string
}

type batteryTickMsg struct{}

// NewMonitor creates a monitor for the given subscriptions.
func NewMonitor(ctx context.Context, r *robot.Robot, debounceMS int, subs ...events.Subscription) *Monitor {
	return &Monitor{
		ctx:        ctx,
		robot:      r,
		subs:       subs,
		debounceMS: debounceMS,
		eventCh:    make(chan events.Event, 64),
		battery:    "…",
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// Init subscribes to the configured event streams and kicks off the
// battery poller.
func (m *Monitor) Init() tea.Cmd {
	return tea.Batch(m.subscribeAll(), m.fetchBattery(), m.waitForEvent())
}

// Update handles incoming messages and updates the model state.
func (m *Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.unsubscribeAll()
			return m, tea.Quit
		case "p":
			m.paused = !m.paused
			return m, nil
		case "c":
			m.lines = nil
			return m, nil
		}
		return m, nil

	case subscribedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.tokens = msg.tokens
		return m, nil

	case eventMsg:
		if !m.paused {
			m.appendLine(events.Event(msg))
		}
		return m, m.waitForEvent()

	case batteryMsg:
		m.battery = msg.level
		return m, tea.Tick(batteryInterval, func(time.Time) tea.Msg {
			return batteryTickMsg{}
		})

	case batteryTickMsg:
		return m, m.fetchBattery()
	}

	return m, nil
}

// View renders the header, the event feed, and the help line.
func (m *Monitor) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	title := styles.title.Render(fmt.Sprintf("Misty @ %s", m.robot.Client.BaseURL()))
	status := fmt.Sprintf("battery: %s  streams: %d", m.battery, len(m.tokens))
	if m.paused {
		status += "  " + styles.warn.Render("[paused]")
	}

	visible := m.lines
	if m.height > 6 && len(visible) > m.height-6 {
		visible = visible[len(visible)-(m.height-6):]
	}

	feed := ""
	for _, line := range visible {
		feed += line + "\n"
	}

	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	return fmt.Sprintf("%s\n%s\n\n%s\n%s", title, styles.help.Render(status), feed, helpView)
}

func (m *Monitor) appendLine(e events.Event) {
	stamp := e.Received.Format("15:04:05.000")
	line := fmt.Sprintf("%s  %s  %s", styles.help.Render(stamp), styles.ok.Render(string(e.Type)), truncate(string(e.Message), 120))
	m.lines = append(m.lines, line)
	if len(m.lines) > maxLines {
		m.lines = m.lines[len(m.lines)-maxLines:]
	}
}

// subscribeAll registers every configured subscription, pushing frames
// onto the monitor's channel. A full channel drops the frame rather than
// stalling the socket's read loop.
func (m *Monitor) subscribeAll() tea.Cmd {
	return func() tea.Msg {
		handler := func(e events.Event) {
			select {
			case m.eventCh <- e:
			default:
			}
		}

		tokens := make([]*events.Token, 0, len(m.subs))
		for _, sub := range m.subs {
			token, err := m.robot.Events.Subscribe(m.ctx, sub, handler, m.debounceMS)
			if err != nil {
				for _, t := range tokens {
					m.robot.Events.Unsubscribe(m.ctx, t)
				}
				return subscribedMsg{err: err}
			}
			tokens = append(tokens, token)
		}
		return subscribedMsg{tokens: tokens}
	}
}

func (m *Monitor) unsubscribeAll() {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(m.ctx), 5*time.Second)
	defer cancel()
	for _, t := range m.tokens {
		m.robot.Events.Unsubscribe(ctx, t)
	}
	m.tokens = nil
}

func (m *Monitor) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return tea.Quit()
		case e := <-m.eventCh:
			return eventMsg(e)
		}
	}
}

func (m *Monitor) fetchBattery() tea.Cmd {
	return func() tea.Msg {
		info, err := m.robot.System.Battery(m.ctx)
		if err != nil {
			return batteryMsg{level: "?"}
		}
		return batteryMsg{level: fmt.Sprintf("%.0f%%", info.Percent())}
	}
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
