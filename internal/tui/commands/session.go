// Package commands provides tea.Cmd constructors that wrap backend calls so
// views stay free of I/O.
package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/beifong-dev/studio/internal/session"
	"github.com/beifong-dev/studio/internal/tui"
)

// WaitForUpdate blocks on the controller's update channel and converts the
// signal into a message. The app re-issues it after every delivery, so poll
// results keep flowing into the UI.
func WaitForUpdate(ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		<-ctrl.Updates()
		return tui.ControllerUpdatedMsg{}
	}
}

// NewSession creates a fresh backend session.
func NewSession(ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.StartNew(context.Background())
		return tui.SessionReadyMsg{SessionID: ctrl.SessionID(), Err: err}
	}
}

// LoadSession resumes an existing session.
func LoadSession(ctrl *session.Controller, sessionID string) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.Load(context.Background(), sessionID)
		return tui.SessionReadyMsg{SessionID: sessionID, Err: err}
	}
}

// SendMessage submits a typed chat message.
func SendMessage(ctrl *session.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		return tui.SessionSentMsg{Err: ctrl.SendMessage(context.Background(), text)}
	}
}

// ConfirmSources submits the source selection.
func ConfirmSources(ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.ConfirmSources(context.Background())
		if err == session.ErrNoSourcesSelected {
			// The controller already surfaced the validation error.
			err = nil
		}
		return tui.SessionSentMsg{Err: err}
	}
}

// Confirm runs one of the controller's confirmation actions.
func Confirm(action func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return tui.SessionSentMsg{Err: action(context.Background())}
	}
}
