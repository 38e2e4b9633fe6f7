package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/koscakluka/coda-realtime/core/events"
	"github.com/muesli/reflow/truncate"
)

// controller is the part of the client the monitor drives from key presses.
type controller interface {
	Connect()
	Disconnect()
}

type statusMsg events.ConnectionStatus

type eventMsg struct {
	event events.Event
}

// headerLines is the number of lines above the viewport.
const headerLines = 4

// footerLines is the number of lines below the viewport.
const footerLines = 1

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type model struct {
	controller controller
	endpoint   string
	maxLines   int

	status events.ConnectionStatus

	// transcript is the latest user utterance, interim or final.
	transcript string
	// response is the assistant reply being streamed.
	response       string
	assistantState string

	history []events.Event
	counts  map[events.Kind]int

	viewport viewport.Model
	spinner  spinner.Model
	ready    bool
	width    int
}

func newModel(ctrl controller, endpoint string, maxLines int) model {
	return model{
		controller: ctrl,
		endpoint:   endpoint,
		maxLines:   maxLines,
		status:     events.NewConnectionStatus(events.StateIdle),
		counts:     map[events.Kind]int{},
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "c":
			m.controller.Connect()
			return m, nil
		case "d":
			m.controller.Disconnect()
			return m, nil
		case "x":
			m.history = nil
			m.counts = map[events.Kind]int{}
			m.refresh()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := max(msg.Height-headerLines-footerLines, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.refresh()

	case statusMsg:
		m.status = events.ConnectionStatus(msg)
		m.record(m.status)

	case eventMsg:
		m.apply(msg.event)
		m.record(msg.event)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// apply folds conversation progress into the header state.
func (m *model) apply(event events.Event) {
	switch e := event.(type) {
	case events.STTInterim:
		m.transcript = e.Text
	case events.STTResult:
		m.transcript = e.Text
	case events.LLMStart:
		m.response = ""
	case events.LLMToken:
		m.response += e.Token
	case events.LLMResult:
		m.response = e.Text
	case events.StateChange:
		m.assistantState = e.State
	}
}

func (m *model) record(event events.Event) {
	m.counts[event.Kind()]++
	m.history = append(m.history, event)
	if overflow := len(m.history) - m.maxLines; overflow > 0 {
		m.history = append(m.history[:0:0], m.history[overflow:]...)
	}
	m.refresh()
}

func (m *model) refresh() {
	if !m.ready {
		return
	}

	following := m.viewport.AtBottom()

	lines := make([]string, 0, len(m.history))
	for _, event := range m.history {
		lines = append(lines, formatLine(event, m.width))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))

	if following {
		m.viewport.GotoBottom()
	}
}

func (m model) View() string {
	if !m.ready {
		return "starting…"
	}

	state := m.status.State
	indicator := " "
	if state == events.StateConnecting || state == events.StateReconnecting {
		indicator = m.spinner.View()
	}

	header := []string{
		fmt.Sprintf("%s %s %s %s",
			titleStyle.Render("codamon"),
			indicator,
			stateStyle(state).Render(describeStatus(m.status)),
			labelStyle.Render(m.endpoint)),
		m.clip(labelStyle.Render("user      ") + m.transcript),
		m.clip(labelStyle.Render(fmt.Sprintf("%-10s", m.assistantLabel())) + m.response),
		labelStyle.Render(strings.Repeat("─", max(m.width, 1))),
	}

	help := helpStyle.Render(fmt.Sprintf("c connect · d disconnect · x clear · q quit · %d events", len(m.history)))

	return strings.Join(header, "\n") + "\n" + m.viewport.View() + "\n" + help
}

func (m model) assistantLabel() string {
	if m.assistantState == "" {
		return "assistant"
	}
	return m.assistantState
}

func (m model) clip(line string) string {
	if m.width <= 0 {
		return line
	}
	return truncate.StringWithTail(strings.ReplaceAll(line, "\n", " "), uint(m.width), "…")
}
