// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"github.com/beifong-dev/studio/internal/api"
	"github.com/beifong-dev/studio/internal/paging"
)

// ============================================================================
// Session Messages
// ============================================================================

// ControllerUpdatedMsg signals that the session controller changed and views
// should re-snapshot.
type ControllerUpdatedMsg struct{}

// SessionReadyMsg signals that a session was created or loaded.
type SessionReadyMsg struct {
	SessionID string
	Err       error
}

// SessionSentMsg signals that a chat submission round-trip finished.
type SessionSentMsg struct {
	Err error
}

// SessionDeletedMsg signals that a session was deleted on the backend.
type SessionDeletedMsg struct {
	SessionID string
	Err       error
}

// ============================================================================
// List Messages
// ============================================================================

// SessionsLoadedMsg carries one page of the sessions listing.
type SessionsLoadedMsg struct {
	Token    uint64
	Sessions []api.SessionSummary
	Page     api.Pagination
	Err      error
}

// SocialPostsLoadedMsg carries one page of the social feed.
type SocialPostsLoadedMsg struct {
	Token   uint64
	Posts   []api.SocialPost
	Page    api.Pagination
	Filters paging.Filters
	Err     error
}

// SocialStatsLoadedMsg carries the social dashboard statistics.
type SocialStatsLoadedMsg struct {
	Stats *api.SocialStats
	Err   error
}

// TopPostsLoadedMsg carries the most-engaged posts list.
type TopPostsLoadedMsg struct {
	Posts []api.SocialPost
	Err   error
}

// ============================================================================
// Utility Messages
// ============================================================================

// CtrlCResetMsg clears the Ctrl+C confirmation state after the timeout.
type CtrlCResetMsg struct{}

// ErrorMsg is a generic error message for unrecoverable errors.
type ErrorMsg struct {
	Err error
}
