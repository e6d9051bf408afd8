// sessions.go implements the saved-sessions list view.
package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/beifong-dev/studio/internal/api"
	"github.com/beifong-dev/studio/internal/paging"
	"github.com/beifong-dev/studio/internal/tui"
)

// OpenSessionMsg asks the app to resume a session in the chat tab.
type OpenSessionMsg struct {
	SessionID string
}

// NewSessionMsg asks the app to create a fresh session.
type NewSessionMsg struct{}

// DeleteSessionMsg asks the app to delete a session.
type DeleteSessionMsg struct {
	SessionID string
}

// RefreshSessionsMsg asks the app to reload the current page.
type RefreshSessionsMsg struct{}

// SessionsModel is the view model for the sessions list.
type SessionsModel struct {
	sessions []api.SessionSummary
	pager    *paging.Pager
	cursor   int
	loading  bool
	err      error

	// Pending deletion confirmation; empty when no prompt is shown.
	confirmDelete string

	width  int
	height int
}

// NewSessionsModel creates a new SessionsModel.
func NewSessionsModel(perPage, width, height int) SessionsModel {
	return SessionsModel{
		pager:  paging.NewPager(perPage),
		width:  width,
		height: height,
	}
}

// Pager exposes the pagination state for issuing requests.
func (m *SessionsModel) Pager() *paging.Pager { return m.pager }

// SetLoading marks the list as waiting for a page.
func (m *SessionsModel) SetLoading() {
	m.loading = true
	m.err = nil
}

// ApplyPage folds a loaded page into the view. Stale pages are dropped by
// the pager's token check.
func (m *SessionsModel) ApplyPage(msg tui.SessionsLoadedMsg) {
	if m.pager.Stale(msg.Token) {
		return
	}
	m.loading = false
	if msg.Err != nil {
		m.err = msg.Err
		return
	}
	m.pager.Apply(msg.Token, msg.Page)
	m.sessions = msg.Sessions
	if m.cursor >= len(m.sessions) {
		m.cursor = 0
	}
}

// Update handles messages for the sessions view.
func (m SessionsModel) Update(msg tea.Msg) (SessionsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m SessionsModel) handleKey(keyStr string) (SessionsModel, tea.Cmd) {
	// Deletion prompt takes over the keyboard until answered.
	if m.confirmDelete != "" {
		id := m.confirmDelete
		switch keyStr {
		case "y":
			m.confirmDelete = ""
			return m, func() tea.Msg { return DeleteSessionMsg{SessionID: id} }
		case "n", tui.KeyEsc:
			m.confirmDelete = ""
		}
		return m, nil
	}

	switch keyStr {
	case tui.KeyUp, "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case tui.KeyDown, "j":
		if m.cursor < len(m.sessions)-1 {
			m.cursor++
		}
	case tui.KeyLeft, "h":
		if m.pager.Prev() {
			return m, refreshCmd
		}
	case tui.KeyRight, "l":
		if m.pager.Next() {
			return m, refreshCmd
		}
	case tui.KeyEnter:
		if m.cursor < len(m.sessions) {
			id := m.sessions[m.cursor].SessionID
			return m, func() tea.Msg { return OpenSessionMsg{SessionID: id} }
		}
	case "n":
		return m, func() tea.Msg { return NewSessionMsg{} }
	case "d":
		if m.cursor < len(m.sessions) {
			m.confirmDelete = m.sessions[m.cursor].SessionID
		}
	case "R":
		return m, refreshCmd
	}
	return m, nil
}

func refreshCmd() tea.Msg { return RefreshSessionsMsg{} }

// View renders the sessions view.
func (m SessionsModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Saved Sessions"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(tui.DimStyle.Render("Loading sessions..."))
	case m.err != nil:
		b.WriteString(tui.ErrorStyle.Render(fmt.Sprintf("Failed to load sessions: %v", m.err)))
	case len(m.sessions) == 0:
		b.WriteString(tui.DimStyle.Render("No sessions yet. Press n to start one."))
	default:
		for i, s := range m.sessions {
			topic := s.Topic
			if topic == "" {
				topic = "(no topic yet)"
			}
			line := fmt.Sprintf("%-30s %-18s %s", truncate(topic, 30), s.Stage, tui.DimStyle.Render(s.UpdatedAt))
			if i == m.cursor {
				line = tui.SelectedStyle.Render("> " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(tui.DimStyle.Render(fmt.Sprintf("Page %d/%d · %d sessions",
		m.pager.Page(), maxInt(m.pager.TotalPages(), 1), m.pager.Total())))
	b.WriteString("\n")

	if m.confirmDelete != "" {
		b.WriteString(tui.WarningStyle.Render(fmt.Sprintf("Delete session %s? (y/n)", m.confirmDelete)))
	} else {
		b.WriteString(tui.DimStyle.Render(tui.HelpLine(
			tui.DefaultKeyMap.Enter, tui.DefaultKeyMap.New, tui.DefaultKeyMap.Delete,
			tui.DefaultKeyMap.Left, tui.DefaultKeyMap.Right, tui.DefaultKeyMap.Refresh)))
	}

	return tui.BoxStyle.Width(m.width - 4).Render(b.String())
}

// truncate cuts s to at most n runes, reserving room for an ellipsis.
// Indexing by rune keeps multi-byte characters intact.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
