// agent.go covers the podcast-agent endpoints: session lifecycle, chat
// submission, status polling and history.
package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// CreateSession creates a new agent session, or resumes an existing one when
// sessionID is non-empty.
func (c *Client) CreateSession(ctx context.Context, sessionID string) (*SessionResponse, error) {
	payload := map[string]any{}
	if sessionID != "" {
		payload["session_id"] = sessionID
	} else {
		payload["session_id"] = nil
	}

	var resp SessionResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/podcast-agent/session", nil, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Chat submits a single chat turn. The returned response usually reports
// is_processing=true; use ChatAndWait for the full submit-and-poll path.
func (c *Client) Chat(ctx context.Context, sessionID, message string) (*ChatResponse, error) {
	payload := map[string]string{
		"session_id": sessionID,
		"message":    message,
	}

	var resp ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/podcast-agent/chat", nil, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status checks the state of any ongoing operation for the session.
func (c *Client) Status(ctx context.Context, sessionID string) (*StatusResponse, error) {
	payload := map[string]string{"session_id": sessionID}

	var resp StatusResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/podcast-agent/status", nil, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionHistory fetches the full transcript and latest state blob.
func (c *Client) SessionHistory(ctx context.Context, sessionID string) (*HistoryResponse, error) {
	q := url.Values{"session_id": {sessionID}}

	var resp HistoryResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/podcast-agent/session_history", q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LatestMessage fetches only the most recent transcript entry.
func (c *Client) LatestMessage(ctx context.Context, sessionID string) (*HistoryMessage, error) {
	q := url.Values{"session_id": {sessionID}}

	var resp LatestMessageResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/podcast-agent/latest_message", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.LatestMessage, nil
}

// ListSessions returns one page of the saved sessions listing.
func (c *Client) ListSessions(ctx context.Context, page, perPage int) (*SessionList, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	q := url.Values{
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
	}

	var resp SessionList
	if err := c.doJSON(ctx, http.MethodGet, "/api/podcast-agent/sessions", q, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteSession removes a session and all its server-side data.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/podcast-agent/session/"+url.PathEscape(sessionID), nil, nil, nil)
}
