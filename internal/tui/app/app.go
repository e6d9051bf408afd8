// Package app provides the main TUI application that wires all views together.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/beifong-dev/studio/internal/api"
	"github.com/beifong-dev/studio/internal/config"
	"github.com/beifong-dev/studio/internal/session"
	"github.com/beifong-dev/studio/internal/tui"
	"github.com/beifong-dev/studio/internal/tui/commands"
	"github.com/beifong-dev/studio/internal/tui/views"
)

const topPostsLimit = 10

// App is the main TUI application that wires all views together.
type App struct {
	model *tui.Model

	// View models
	chatView     views.ChatModel
	sessionsView views.SessionsModel
	socialView   views.SocialModel
}

// New creates a new App. When sessionID is non-empty the chat view resumes
// that session; otherwise a fresh one is created on startup.
func New(cfg *config.Config, client *api.Client, ctrl *session.Controller, sessionID string) *App {
	model := tui.NewModel(cfg, client, ctrl)
	model.ResumeSessionID = sessionID

	return &App{
		model:        model,
		chatView:     views.NewChatModel(model.Width, model.Height),
		sessionsView: views.NewSessionsModel(cfg.Listing.PerPage, model.Width, model.Height),
		socialView:   views.NewSocialModel(cfg.Listing.PerPage, model.Width, model.Height),
	}
}

// Init starts the session and the controller update pump.
func (a *App) Init() tea.Cmd {
	start := commands.NewSession(a.model.Controller)
	if a.model.ResumeSessionID != "" {
		start = commands.LoadSession(a.model.Controller, a.model.ResumeSessionID)
	}
	return tea.Batch(
		a.chatView.Init(),
		start,
		commands.WaitForUpdate(a.model.Controller),
	)
}

// Update handles messages and updates the application state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.model.Width = msg.Width
		a.model.Height = msg.Height
		// Every view tracks its own dimensions.
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.chatView, cmd = a.chatView.Update(msg)
		cmds = append(cmds, cmd)
		a.sessionsView, cmd = a.sessionsView.Update(msg)
		cmds = append(cmds, cmd)
		a.socialView, cmd = a.socialView.Update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.String() {
		case tui.KeyCtrlC:
			if a.model.CtrlCPending {
				a.model.Controller.Close()
				return a, tea.Quit
			}
			a.model.CtrlCPending = true
			return a, tea.Tick(time.Second, func(time.Time) tea.Msg {
				return tui.CtrlCResetMsg{}
			})

		case tui.KeyTab:
			// The social filter form uses Tab for field cycling.
			if !(a.model.ActiveTab == tui.TabSocial && a.socialView.Filtering()) {
				return a, a.cycleTab()
			}
		}

	case tui.CtrlCResetMsg:
		a.model.CtrlCPending = false
		return a, nil

	// ------------------------------------------------------------------
	// Controller round-trips
	// ------------------------------------------------------------------

	case tui.ControllerUpdatedMsg:
		a.chatView.SetSession(a.model.Controller.Snapshot())
		return a, commands.WaitForUpdate(a.model.Controller)

	case tui.SessionReadyMsg:
		a.model.Err = msg.Err
		a.chatView.SetSession(a.model.Controller.Snapshot())
		return a, nil

	case tui.SessionSentMsg:
		// The controller already folded any error into the transcript.
		a.chatView.SetSession(a.model.Controller.Snapshot())
		return a, nil

	case tui.SessionDeletedMsg:
		a.model.Err = msg.Err
		return a, a.loadSessionsCmd()

	// ------------------------------------------------------------------
	// List loads
	// ------------------------------------------------------------------

	case tui.SessionsLoadedMsg:
		a.sessionsView.ApplyPage(msg)
		return a, nil

	case tui.SocialPostsLoadedMsg:
		a.socialView.ApplyPosts(msg)
		return a, nil

	case tui.SocialStatsLoadedMsg:
		a.socialView.ApplyStats(msg)
		return a, nil

	case tui.TopPostsLoadedMsg:
		a.socialView.ApplyTop(msg)
		return a, nil

	// ------------------------------------------------------------------
	// Chat view intents
	// ------------------------------------------------------------------

	case views.SendChatMsg:
		return a, commands.SendMessage(a.model.Controller, msg.Content)

	case views.ConfirmIntentMsg:
		return a, a.confirmCmd(msg.Intent)

	case views.ToggleSourceMsg:
		a.model.Controller.ToggleSource(msg.Index)
		a.chatView.SetSession(a.model.Controller.Snapshot())
		return a, nil

	case views.ToggleAllSourcesMsg:
		a.model.Controller.ToggleSelectAll()
		a.chatView.SetSession(a.model.Controller.Snapshot())
		return a, nil

	case views.SelectLanguageMsg:
		a.model.Controller.SetLanguage(msg.Code)
		a.chatView.SetSession(a.model.Controller.Snapshot())
		return a, nil

	// ------------------------------------------------------------------
	// Sessions view intents
	// ------------------------------------------------------------------

	case views.OpenSessionMsg:
		a.model.ActiveTab = tui.TabChat
		return a, commands.LoadSession(a.model.Controller, msg.SessionID)

	case views.NewSessionMsg:
		a.model.ActiveTab = tui.TabChat
		return a, commands.NewSession(a.model.Controller)

	case views.DeleteSessionMsg:
		return a, commands.DeleteSession(a.model.Controller, msg.SessionID)

	case views.RefreshSessionsMsg:
		return a, a.loadSessionsCmd()

	// ------------------------------------------------------------------
	// Social view intents
	// ------------------------------------------------------------------

	case views.RefreshSocialMsg:
		return a, a.loadSocialCmd()

	case views.RefreshSocialStatsMsg:
		return a, tea.Batch(
			commands.LoadSocialStats(a.model.Client),
			commands.LoadTopPosts(a.model.Client, topPostsLimit),
		)
	}

	// Everything else goes to the active view.
	var cmd tea.Cmd
	switch a.model.ActiveTab {
	case tui.TabChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case tui.TabSessions:
		a.sessionsView, cmd = a.sessionsView.Update(msg)
	case tui.TabSocial:
		a.socialView, cmd = a.socialView.Update(msg)
	}
	return a, cmd
}

// confirmCmd translates a panel intent into the matching controller call. The
// active panel decides which artifact an approve or reject applies to.
func (a *App) confirmCmd(intent views.Intent) tea.Cmd {
	ctrl := a.model.Controller
	panel := ctrl.Snapshot().Panel

	switch intent {
	case views.IntentConfirmSources:
		return commands.ConfirmSources(ctrl)

	case views.IntentApprove:
		switch panel {
		case session.PanelScriptConfirmation:
			return commands.Confirm(ctrl.ApproveScript)
		case session.PanelBannerConfirmation:
			return commands.Confirm(ctrl.ApproveBanner)
		case session.PanelAudioConfirmation:
			return commands.Confirm(ctrl.ApproveAudio)
		}

	case views.IntentReject:
		switch panel {
		case session.PanelScriptConfirmation:
			return commands.Confirm(ctrl.RejectScript)
		case session.PanelBannerConfirmation:
			return commands.Confirm(ctrl.RejectBanner)
		case session.PanelAudioConfirmation:
			return commands.Confirm(ctrl.RejectAudio)
		}

	case views.IntentCloseRecording:
		return commands.Confirm(ctrl.CloseRecording)
	}
	return nil
}

// cycleTab advances Chat -> Sessions -> Social -> Chat, kicking off the data
// load the incoming tab needs.
func (a *App) cycleTab() tea.Cmd {
	switch a.model.ActiveTab {
	case tui.TabChat:
		a.model.ActiveTab = tui.TabSessions
		return a.loadSessionsCmd()

	case tui.TabSessions:
		a.model.ActiveTab = tui.TabSocial
		return tea.Batch(
			a.loadSocialCmd(),
			commands.LoadSocialStats(a.model.Client),
			commands.LoadTopPosts(a.model.Client, topPostsLimit),
		)

	case tui.TabSocial:
		a.model.ActiveTab = tui.TabChat
	}
	return nil
}

func (a *App) loadSessionsCmd() tea.Cmd {
	a.sessionsView.SetLoading()
	p := a.sessionsView.Pager()
	return commands.LoadSessions(a.model.Client, p.NextToken(), p.Page(), p.PerPage())
}

func (a *App) loadSocialCmd() tea.Cmd {
	a.socialView.SetLoading()
	p := a.socialView.Pager()
	return commands.LoadSocialPosts(a.model.Client, p.NextToken(), p.Page(), p.PerPage(), p.Filters())
}

// View renders the active tab under a shared tab bar.
func (a *App) View() string {
	var content string
	switch a.model.ActiveTab {
	case tui.TabChat:
		content = a.chatView.View()
	case tui.TabSessions:
		content = a.sessionsView.View()
	case tui.TabSocial:
		content = a.socialView.View()
	}

	parts := []string{a.renderTabBar(), content}
	if a.model.CtrlCPending {
		parts = append(parts, tui.WarningStyle.Render("Press Ctrl+C again to quit"))
	} else if a.model.Err != nil {
		parts = append(parts, tui.ErrorStyle.Render(a.model.Err.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderTabBar renders the tab bar with the active tab highlighted.
func (a *App) renderTabBar() string {
	tabs := []tui.Tab{tui.TabChat, tui.TabSessions, tui.TabSocial}

	rendered := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t == a.model.ActiveTab {
			rendered = append(rendered, tui.ActiveTabStyle.Render(t.String()))
		} else {
			rendered = append(rendered, tui.InactiveTabStyle.Render(t.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
