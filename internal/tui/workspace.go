package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"codeberg.org/promptdesk/server/internal/sessions"
)

const historyPanelWidth = 34

// returns a new prompt workspace
func NewWorkspace() *WorkspaceModel {
	ti := textinput.New()
	ti.Placeholder = "type your prompt here..."
	ti.Focus()
	ti.CharLimit = 0
	ti.Width = 80
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorLightGray)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorLightGray)

	return &WorkspaceModel{
		input:     ti,
		spinner:   sp,
		kind:      sessions.KindGenerate,
		apiClient: NewAPIClient(),
		wsClient:  NewWSClient(),
	}
}

func (m *WorkspaceModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.wsClient.ConnectCmd())
}

// closes the feed connection when leaving the workspace
func (m *WorkspaceModel) Disconnect() {
	m.wsClient.Close()
	m.feedConnected = false
}

func (m *WorkspaceModel) Update(msg tea.Msg) (*WorkspaceModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			query := m.input.Value()
			if strings.TrimSpace(query) != "" && !m.isFetching {
				m.isFetching = true
				m.input.SetValue("")

				return m, tea.Batch(m.spinner.Tick, m.apiClient.SubmitCmd(m.kind, query))
			}
			return m, nil

		case "tab":
			m.kind = nextKind(m.kind)
			return m, nil

		case "ctrl+l":
			m.input.SetValue("")
			m.response = ""
			m.model = ""
			m.saveWarning = ""
			m.isFetching = false
			return m, nil
		}

	case PromptResponseMsg:
		m.isFetching = false
		m.response = msg.response
		m.model = msg.model
		m.saveWarning = msg.saveWarning
		m.setViewportContent()
		m.input.Focus()
		return m, nil

	case PromptErrorMsg:
		m.isFetching = false
		m.response = fmt.Sprintf("Error: %v", msg.err)
		m.model = ""
		m.saveWarning = ""
		m.setViewportContent()
		m.input.Focus()
		return m, nil

	case WSConnectedMsg:
		m.feedConnected = true
		return m, m.wsClient.NextSnapshotCmd()

	case WSConnectErrorMsg:
		m.feedConnected = false
		return m, nil

	case WSClosedMsg:
		m.feedConnected = false
		return m, nil

	case FeedSnapshotMsg:
		m.history = msg.sessions
		return m, m.wsClient.NextSnapshotCmd()

	case spinner.TickMsg:
		if m.isFetching {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - historyPanelWidth - 12

		viewportWidth := max(msg.Width-historyPanelWidth-8, 20)
		viewportHeight := max(msg.Height-10, 5)

		if !m.ready {
			m.viewport = viewport.New(viewportWidth, viewportHeight)
			m.ready = true

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(viewportWidth-2),
			)
			if err == nil {
				m.glamourRenderer = renderer
			}
		} else {
			m.viewport.Width = viewportWidth
			m.viewport.Height = viewportHeight
		}

		m.setViewportContent()
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// renders the current response into the viewport, through glamour when a
// renderer is available
func (m *WorkspaceModel) setViewportContent() {
	if !m.ready {
		return
	}

	content := m.response
	if content == "" {
		content = infoStyle.Render("ready! pick a mode with tab, type a prompt below and press enter.")
	} else if m.glamourRenderer != nil {
		if rendered, err := m.glamourRenderer.Render(m.response); err == nil {
			content = rendered
		}
	}

	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m *WorkspaceModel) View() string {
	if !m.ready {
		return "\n  loading workspace..."
	}

	var b strings.Builder

	// header
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorWhite).
		Render(fmt.Sprintf("WORKSPACE [%s]", strings.ToUpper(string(m.kind))))

	help := lipgloss.NewStyle().
		Foreground(colorGray).
		Render("[Enter: Send] [Tab: Mode] [Ctrl+L: Clear] [Ctrl+C: Back]")

	headerLine := lipgloss.JoinHorizontal(lipgloss.Left,
		header,
		strings.Repeat(" ", max(0, m.width-lipgloss.Width(header)-lipgloss.Width(help)-2)),
		help,
	)

	b.WriteString(headerLine)
	b.WriteString("\n\n")

	// response viewport next to the history panel
	responseBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorGray).
		Width(m.viewport.Width + 2).
		Padding(0, 1).
		Render(m.viewport.View())

	historyBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorDarkGray).
		Width(historyPanelWidth).
		Height(m.viewport.Height).
		Padding(0, 1).
		Render(m.historyView())

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, responseBox, " ", historyBox))
	b.WriteString("\n")

	if m.model != "" {
		b.WriteString(infoStyle.Render("model: " + m.model))
		b.WriteString("\n")
	}

	if m.saveWarning != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(colorLightGray).Bold(true).Render("⚠ " + m.saveWarning))
		b.WriteString("\n")
	}

	b.WriteString("\n")

	// input box
	inputBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorGray).
		Width(m.width - 4).
		Padding(0, 1).
		Render(m.input.View())

	b.WriteString(inputBox)
	b.WriteString("\n")

	// status line
	if m.isFetching {
		b.WriteString(m.spinner.View())
		b.WriteString(infoStyle.Render(" waiting for completion..."))
	}

	return b.String()
}

func (m *WorkspaceModel) historyView() string {
	var b strings.Builder

	title := "history"
	if !m.feedConnected {
		title = "history (offline)"
	}

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorLightGray).Render(title))
	b.WriteString("\n\n")

	if len(m.history) == 0 {
		b.WriteString(infoStyle.Render("no sessions yet"))
		return b.String()
	}

	for _, session := range m.history {
		line := fmt.Sprintf("%s %s",
			lipgloss.NewStyle().Foreground(colorGray).Render("["+string(session.Kind)+"]"),
			lipgloss.NewStyle().Foreground(colorWhite).Render(truncate(session.Title, historyPanelWidth-12)),
		)
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func nextKind(kind sessions.Kind) sessions.Kind {
	switch kind {
	case sessions.KindGenerate:
		return sessions.KindDebug
	case sessions.KindDebug:
		return sessions.KindSuggest
	default:
		return sessions.KindGenerate
	}
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}

	return string(runes[:width]) + "…"
}
