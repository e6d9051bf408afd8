// Package views provides TUI view components for the Podcast Studio
// application.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/beifong-dev/studio/internal/api"
	"github.com/beifong-dev/studio/internal/session"
	"github.com/beifong-dev/studio/internal/tui"
)

// ============================================================================
// Message Types
// ============================================================================

// SendChatMsg is sent when the user submits a chat message.
type SendChatMsg struct {
	Content string
}

// ConfirmIntentMsg is sent when the user answers a confirmation panel.
type ConfirmIntentMsg struct {
	Intent Intent
}

// Intent identifies a confirmation panel action.
type Intent int

const (
	IntentConfirmSources Intent = iota
	IntentApprove
	IntentReject
	IntentCloseRecording
)

// ============================================================================
// ChatModel
// ============================================================================

// ChatModel is the view model for the session chat screen. It renders a
// snapshot from the session controller; all mutation goes through intents
// handled by the app.
type ChatModel struct {
	view      session.View
	input     textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	cursor    int // highlighted source in the selection panel
	langIndex int // highlighted language
	width     int
	height    int
}

// NewChatModel creates a new ChatModel.
func NewChatModel(width, height int) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Type your message..."
	ti.CharLimit = 2000
	ti.Width = width - 10
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))

	vp := viewport.New(chatViewportWidth(width), chatViewportHeight(height))

	return ChatModel{
		input:    ti,
		viewport: vp,
		spinner:  sp,
		width:    width,
		height:   height,
	}
}

func chatViewportWidth(w int) int {
	if w-8 < 20 {
		return 20
	}
	return w - 8
}

func chatViewportHeight(h int) int {
	if h-16 < 5 {
		return 5
	}
	return h - 16
}

// Init returns the initial command for the chat view.
func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// SetSession replaces the rendered snapshot and scrolls to the newest
// message.
func (m *ChatModel) SetSession(v session.View) {
	panelChanged := m.view.Panel != v.Panel
	m.view = v
	if panelChanged {
		m.cursor = 0
		m.langIndex = languageIndex(v.Languages, v.LanguageCode)
	}
	m.viewport.SetContent(formatTranscript(v.Messages))
	m.viewport.GotoBottom()
}

func languageIndex(langs []api.Language, code string) int {
	for i, l := range langs {
		if l.Code == code {
			return i
		}
	}
	return 0
}

// Update handles messages for the chat view.
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, next, cmd := m.handleKey(msg); handled {
			return next, cmd
		}

	case spinner.TickMsg:
		// Keep the tick loop alive so the spinner resumes instantly.
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = chatViewportWidth(msg.Width)
		m.viewport.Height = chatViewportHeight(msg.Height)
		m.input.Width = msg.Width - 10
		m.viewport.SetContent(formatTranscript(m.view.Messages))
		return m, nil
	}

	if !m.view.Processing.Active && m.view.Panel == session.PanelNone {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey routes key presses. Panel-specific keys take precedence over the
// free-text input.
func (m ChatModel) handleKey(msg tea.KeyMsg) (bool, ChatModel, tea.Cmd) {
	keyStr := msg.String()

	switch m.view.Panel {
	case session.PanelSourceSelection:
		return m.handleSourceKey(keyStr)
	case session.PanelScriptConfirmation, session.PanelBannerConfirmation, session.PanelAudioConfirmation:
		switch keyStr {
		case "a":
			return true, m, intentCmd(IntentApprove)
		case "r":
			return true, m, intentCmd(IntentReject)
		}
		return false, m, nil
	}

	if m.view.RecordingVisible && keyStr == tui.KeyEsc {
		return true, m, intentCmd(IntentCloseRecording)
	}

	if m.view.Completed && keyStr == "n" {
		return true, m, func() tea.Msg { return NewSessionMsg{} }
	}

	if keyStr == tui.KeyEnter && !m.view.Processing.Active {
		content := strings.TrimSpace(m.input.Value())
		if content == "" {
			return true, m, nil
		}
		m.input.Reset()
		return true, m, func() tea.Msg { return SendChatMsg{Content: content} }
	}

	return false, m, nil
}

func (m ChatModel) handleSourceKey(keyStr string) (bool, ChatModel, tea.Cmd) {
	n := len(m.view.Sources)
	switch keyStr {
	case tui.KeyUp, "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return true, m, nil
	case tui.KeyDown, "j":
		if m.cursor < n-1 {
			m.cursor++
		}
		return true, m, nil
	case tui.KeySpace:
		idx := m.cursor
		return true, m, func() tea.Msg { return ToggleSourceMsg{Index: idx} }
	case "A":
		return true, m, func() tea.Msg { return ToggleAllSourcesMsg{} }
	case tui.KeyLeft, "h":
		if m.langIndex > 0 {
			m.langIndex--
		}
		return true, m, m.languageCmd()
	case tui.KeyRight, "l":
		if m.langIndex < len(m.view.Languages)-1 {
			m.langIndex++
		}
		return true, m, m.languageCmd()
	case tui.KeyEnter:
		return true, m, intentCmd(IntentConfirmSources)
	}
	return false, m, nil
}

func (m ChatModel) languageCmd() tea.Cmd {
	if m.langIndex < 0 || m.langIndex >= len(m.view.Languages) {
		return nil
	}
	code := m.view.Languages[m.langIndex].Code
	return func() tea.Msg { return SelectLanguageMsg{Code: code} }
}

// ToggleSourceMsg toggles one source in the selection panel.
type ToggleSourceMsg struct {
	Index int
}

// ToggleAllSourcesMsg toggles the whole selection.
type ToggleAllSourcesMsg struct{}

// SelectLanguageMsg records a language choice.
type SelectLanguageMsg struct {
	Code string
}

func intentCmd(i Intent) tea.Cmd {
	return func() tea.Msg { return ConfirmIntentMsg{Intent: i} }
}

// View renders the chat view.
func (m ChatModel) View() string {
	var b strings.Builder

	header := tui.TitleStyle.Render(m.view.Title)
	stage := tui.DimStyle.Render(fmt.Sprintf("  stage: %s", m.view.Stage))
	b.WriteString(header + stage)
	b.WriteString("\n\n")

	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")

	if m.view.Err != "" {
		b.WriteString(tui.ErrorStyle.Render(m.view.Err))
		b.WriteString("\n\n")
	}

	switch {
	case m.view.Processing.Active:
		b.WriteString(m.renderProcessing())
	case m.view.Completed:
		b.WriteString(m.renderCompleted())
	case m.view.RecordingVisible:
		b.WriteString(m.renderRecording())
	case m.view.Panel != session.PanelNone:
		b.WriteString(m.renderPanel())
	default:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(tui.DimStyle.Render("Enter: Send · Tab: Switch tabs · Ctrl+C twice: Quit"))
	}

	return tui.BoxStyle.Width(m.width - 4).Render(b.String())
}

func (m ChatModel) renderProcessing() string {
	p := m.view.Processing
	label := p.Type
	if label == "" {
		label = "operation"
	}
	line := fmt.Sprintf("%s Processing %s...", m.spinner.View(), label)
	if p.Progress > 0 {
		line += fmt.Sprintf(" %d%%", p.Progress)
	}
	out := line + "\n" + tui.RenderProgressBar(p.Progress, 40)
	if p.Message != "" {
		out += "\n" + tui.DimStyle.Render(p.Message)
	}
	return out
}

func (m ChatModel) renderCompleted() string {
	var b strings.Builder
	b.WriteString(tui.SuccessStyle.Render(tui.MarkDone + " Podcast generated!"))
	b.WriteString("\n")
	if m.view.BannerURL != "" {
		b.WriteString(tui.DimStyle.Render("banner: ") + m.view.BannerURL + "\n")
	}
	if m.view.AudioURL != "" {
		b.WriteString(tui.DimStyle.Render("audio:  ") + m.view.AudioURL + "\n")
	}
	b.WriteString(tui.DimStyle.Render("n: New session · Tab: Switch tabs"))
	return b.String()
}

func (m ChatModel) renderRecording() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Web Search Recording"))
	b.WriteString("\n")
	b.WriteString(m.view.RecordingFile)
	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render("Esc: Close recording and continue"))
	return b.String()
}

func (m ChatModel) renderPanel() string {
	switch m.view.Panel {
	case session.PanelSourceSelection:
		return m.renderSourcePanel()
	case session.PanelScriptConfirmation:
		return m.renderScriptPanel()
	case session.PanelBannerConfirmation:
		return m.renderArtifactPanel("Banner ready", m.view.BannerURL)
	case session.PanelAudioConfirmation:
		return m.renderArtifactPanel("Audio ready", m.view.AudioURL)
	}
	return ""
}

func (m ChatModel) renderSourcePanel() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Select sources for your podcast"))
	b.WriteString("\n\n")

	selected := make(map[int]bool, len(m.view.Selected))
	for _, i := range m.view.Selected {
		selected[i] = true
	}

	for i, src := range m.view.Sources {
		mark := tui.MarkUnselected
		if selected[i] {
			mark = tui.MarkSelected
		}
		line := fmt.Sprintf("%s %d. %s", mark, i+1, src.Title)
		if i == m.cursor {
			line = tui.SelectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
		b.WriteString("    " + tui.DimStyle.Render(src.Name()) + "\n")
	}

	b.WriteString("\n")
	lang := "English"
	if m.langIndex >= 0 && m.langIndex < len(m.view.Languages) {
		lang = m.view.Languages[m.langIndex].Name
	}
	b.WriteString(fmt.Sprintf("Language: %s %s %s\n",
		tui.DimStyle.Render("←"), tui.SelectedStyle.Render(lang), tui.DimStyle.Render("→")))
	b.WriteString(tui.DimStyle.Render("Space: Toggle · A: All · ↑↓: Move · ←→: Language · Enter: Confirm"))
	return b.String()
}

func (m ChatModel) renderScriptPanel() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Review the generated script"))
	b.WriteString("\n\n")

	text := m.view.Script.Text()
	lines := strings.Split(text, "\n")
	max := 12
	if len(lines) > max {
		lines = append(lines[:max], tui.DimStyle.Render(fmt.Sprintf("... (%d more lines)", len(lines)-max)))
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
	b.WriteString(tui.DimStyle.Render(tui.HelpLine(tui.DefaultKeyMap.Approve, tui.DefaultKeyMap.Reject)))
	return b.String()
}

func (m ChatModel) renderArtifactPanel(title, url string) string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(url)
	b.WriteString("\n\n")
	b.WriteString(tui.DimStyle.Render(tui.HelpLine(tui.DefaultKeyMap.Approve, tui.DefaultKeyMap.Reject)))
	return b.String()
}

// formatTranscript formats the chat history for display in the viewport.
func formatTranscript(messages []session.Message) string {
	if len(messages) == 0 {
		return tui.DimStyle.Render("No messages yet. Start the conversation!")
	}

	userStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	assistantStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true)

	var b strings.Builder
	for i, msg := range messages {
		var prefix string
		var style lipgloss.Style

		switch msg.Role {
		case session.RoleUser:
			prefix = "You: "
			style = userStyle
		case session.RoleAssistant:
			prefix = "Studio: "
			style = assistantStyle
		default:
			prefix = msg.Role + ": "
			style = tui.DimStyle
		}

		b.WriteString(style.Render(prefix))
		b.WriteString(msg.Content)

		if i < len(messages)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}
