// Package api provides the HTTP client for the Podcast Studio backend.
// This file contains the base client and the JSON request helper.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is used when no backend URL is configured.
const DefaultBaseURL = "http://localhost:8000"

// DefaultTimeout bounds a single HTTP request. Chat submissions can take the
// backend minutes to acknowledge, so the default is generous.
const DefaultTimeout = 5 * time.Minute

// Client communicates with the Podcast Studio backend over HTTP/JSON.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// Polling budgets for the chat status loop, settable via WithPollBudget.
	pollMaxAttempts int
	pollErrorBudget int

	// sleep paces the polling loops. Tests replace it to avoid real waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option customizes a Client at construction time.
type Option func(*Client)

// WithTimeout sets the per-request HTTP timeout. Non-positive values keep
// DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithPollBudget sets how many status polls a chat turn may take and how many
// consecutive transport failures it tolerates. Non-positive values keep the
// defaults.
func WithPollBudget(maxAttempts, errorBudget int) Option {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.pollMaxAttempts = maxAttempts
		}
		if errorBudget > 0 {
			c.pollErrorBudget = errorBudget
		}
	}
}

// NewClient creates a Client for the given backend base URL.
// An empty baseURL falls back to DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		pollMaxAttempts: MaxPollAttempts,
		pollErrorBudget: maxConsecutiveErrors,
		sleep:           sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend base URL this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// sleepContext waits for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// doJSON performs an HTTP request with an optional JSON payload and decodes
// the JSON response into result (when result is non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload, result any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("api: marshalling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("api: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api: %s %s: server returned %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("api: decoding response: %w", err)
		}
	}

	return nil
}

// BannerURL returns the streaming URL for a generated banner image file.
func (c *Client) BannerURL(filename string) string {
	if filename == "" {
		return ""
	}
	return c.baseURL + "/podcast_img/" + filename
}

// AudioURL returns the streaming URL for a generated audio file.
func (c *Client) AudioURL(filename string) string {
	if filename == "" {
		return ""
	}
	return c.baseURL + "/audio/" + filename
}

// StreamAudioURL returns the chunked streaming URL for an audio file.
func (c *Client) StreamAudioURL(filename string) string {
	if filename == "" {
		return ""
	}
	return c.baseURL + "/stream-audio/" + filename
}

// RecordingURL returns the streaming URL for a web-search recording. The
// backend stores recordings under a per-session directory and reports a full
// path; only the final path element is part of the URL.
func (c *Client) RecordingURL(sessionID, recordingPath string) string {
	if sessionID == "" || recordingPath == "" {
		return ""
	}
	parts := strings.Split(recordingPath, "/")
	file := parts[len(parts)-1]
	return c.baseURL + "/stream-recording/" + sessionID + "/" + file
}
