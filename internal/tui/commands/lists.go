// lists.go provides tea.Cmd constructors for the paginated list screens.
package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/beifong-dev/studio/internal/api"
	"github.com/beifong-dev/studio/internal/paging"
	"github.com/beifong-dev/studio/internal/session"
	"github.com/beifong-dev/studio/internal/tui"
)

// LoadSessions fetches one page of the sessions listing. The token travels
// with the response so stale pages are dropped.
func LoadSessions(client *api.Client, token uint64, page, perPage int) tea.Cmd {
	return func() tea.Msg {
		list, err := client.ListSessions(context.Background(), page, perPage)
		msg := tui.SessionsLoadedMsg{Token: token, Err: err}
		if err == nil {
			msg.Sessions = list.Sessions
			msg.Page = list.Pagination
		}
		return msg
	}
}

// DeleteSession removes a session on the backend. Going through the
// controller records the deletion in the event log.
func DeleteSession(ctrl *session.Controller, sessionID string) tea.Cmd {
	return func() tea.Msg {
		err := ctrl.DeleteSession(context.Background(), sessionID)
		return tui.SessionDeletedMsg{SessionID: sessionID, Err: err}
	}
}

// LoadSocialPosts fetches one page of the social feed with the given filters.
func LoadSocialPosts(client *api.Client, token uint64, page, perPage int, f paging.Filters) tea.Cmd {
	return func() tea.Msg {
		list, err := client.ListSocialPosts(context.Background(), api.SocialPostParams{
			Page:      page,
			PerPage:   perPage,
			Platform:  f.Platform,
			Author:    f.Author,
			DateFrom:  f.DateFrom,
			DateTo:    f.DateTo,
			Search:    f.Search,
			Sentiment: f.Sentiment,
		})
		msg := tui.SocialPostsLoadedMsg{Token: token, Filters: f, Err: err}
		if err == nil {
			msg.Posts = list.Items
			msg.Page = api.Pagination{
				Total:      list.Total,
				Page:       list.Page,
				PerPage:    list.PerPage,
				TotalPages: list.TotalPages,
			}
		}
		return msg
	}
}

// LoadSocialStats fetches the social dashboard statistics.
func LoadSocialStats(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		stats, err := client.SocialStats(context.Background())
		return tui.SocialStatsLoadedMsg{Stats: stats, Err: err}
	}
}

// LoadTopPosts fetches the most-engaged posts.
func LoadTopPosts(client *api.Client, limit int) tea.Cmd {
	return func() tea.Msg {
		posts, err := client.TopSocialPosts(context.Background(), limit, "")
		return tui.TopPostsLoadedMsg{Posts: posts, Err: err}
	}
}
