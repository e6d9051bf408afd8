// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"github.com/beifong-dev/studio/internal/api"
	"github.com/beifong-dev/studio/internal/config"
	"github.com/beifong-dev/studio/internal/session"
)

// Tab represents the active tab in the TUI.
type Tab int

const (
	TabChat Tab = iota
	TabSessions
	TabSocial
)

// String returns the tab label shown in the tab bar.
func (t Tab) String() string {
	switch t {
	case TabChat:
		return "Chat"
	case TabSessions:
		return "Sessions"
	case TabSocial:
		return "Social"
	default:
		return "?"
	}
}

// Model holds the state shared across all TUI views.
type Model struct {
	Cfg        *config.Config
	Client     *api.Client
	Controller *session.Controller

	ActiveTab Tab
	Err       error

	// ResumeSessionID, when set, is loaded on startup instead of creating a
	// fresh session.
	ResumeSessionID string

	// Terminal dimensions
	Width  int
	Height int

	// Ctrl+C confirmation state
	CtrlCPending bool // True when waiting for second Ctrl+C press
}

// NewModel creates a new Model with the given configuration and backend
// client.
func NewModel(cfg *config.Config, client *api.Client, ctrl *session.Controller) *Model {
	return &Model{
		Cfg:        cfg,
		Client:     client,
		Controller: ctrl,
		ActiveTab:  TabChat,

		// Default dimensions (will be updated on WindowSizeMsg)
		Width:  80,
		Height: 24,
	}
}
