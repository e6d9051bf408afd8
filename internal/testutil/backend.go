// Package testutil provides a fake Podcast Studio backend for tests. The
// backend runs on httptest and serves scripted chat and status sequences plus
// canned listings, so client behavior can be exercised without a real server.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/beifong-dev/studio/internal/api"
)

// Backend is a fake studio backend. Fields may be set before the first
// request; the handlers read them under a mutex.
type Backend struct {
	t   *testing.T
	srv *httptest.Server

	mu sync.Mutex

	// Sessions served by the listing endpoint.
	Sessions []api.SessionSummary

	// History and state per session id.
	History map[string][]api.HistoryMessage
	State   map[string]string

	// ChatScript holds responses returned by the chat endpoint in order;
	// the last entry repeats. Sent records every submitted message.
	ChatScript []api.ChatResponse
	Sent       []string

	// StatusScript holds status responses returned in order; the last
	// entry repeats.
	StatusScript []api.StatusResponse

	// Social dashboard data.
	Posts    []api.SocialPost
	Stats    api.SocialStats
	TopPosts []api.SocialPost

	// Deleted records session ids passed to the delete endpoint.
	Deleted []string
}

// NewBackend starts a fake backend. It is shut down when the test finishes.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		t:       t,
		History: make(map[string][]api.HistoryMessage),
		State:   make(map[string]string),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/podcast-agent/session", b.handleSession)
	mux.HandleFunc("/api/podcast-agent/session/", b.handleDeleteSession)
	mux.HandleFunc("/api/podcast-agent/chat", b.handleChat)
	mux.HandleFunc("/api/podcast-agent/status", b.handleStatus)
	mux.HandleFunc("/api/podcast-agent/session_history", b.handleHistory)
	mux.HandleFunc("/api/podcast-agent/sessions", b.handleSessions)
	mux.HandleFunc("/api/social-media/", b.handleSocialPosts)
	mux.HandleFunc("/api/social-media/stats", b.handleSocialStats)
	mux.HandleFunc("/api/social-media/top", b.handleSocialTop)

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

// URL returns the backend's base URL.
func (b *Backend) URL() string { return b.srv.URL }

// Client returns an api.Client pointed at the backend.
func (b *Backend) Client() *api.Client { return api.NewClient(b.srv.URL) }

// SentMessages returns a copy of all chat messages received so far.
func (b *Backend) SentMessages() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.Sent...)
}

// DeletedSessions returns a copy of all session ids deleted so far.
func (b *Backend) DeletedSessions() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.Deleted...)
}

func (b *Backend) handleSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID *string `json:"session_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	id := "session-fake-1"
	if payload.SessionID != nil && *payload.SessionID != "" {
		id = *payload.SessionID
	}
	writeJSON(w, api.SessionResponse{SessionID: id, Created: true})
}

func (b *Backend) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/podcast-agent/session/")

	b.mu.Lock()
	b.Deleted = append(b.Deleted, id)
	kept := b.Sessions[:0]
	for _, s := range b.Sessions {
		if s.SessionID != id {
			kept = append(kept, s)
		}
	}
	b.Sessions = kept
	b.mu.Unlock()

	writeJSON(w, api.DeleteResponse{Status: "ok", SessionID: id, Deleted: true})
}

func (b *Backend) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	b.mu.Lock()
	b.Sent = append(b.Sent, payload.Message)
	resp := api.ChatResponse{SessionID: payload.SessionID, Response: "Understood."}
	if len(b.ChatScript) > 0 {
		resp = b.ChatScript[0]
		if len(b.ChatScript) > 1 {
			b.ChatScript = b.ChatScript[1:]
		}
		resp.SessionID = payload.SessionID
	}
	b.mu.Unlock()

	writeJSON(w, resp)
}

func (b *Backend) handleStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID string `json:"session_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)

	b.mu.Lock()
	resp := api.StatusResponse{SessionID: payload.SessionID, IsProcessing: false}
	if len(b.StatusScript) > 0 {
		resp = b.StatusScript[0]
		if len(b.StatusScript) > 1 {
			b.StatusScript = b.StatusScript[1:]
		}
		resp.SessionID = payload.SessionID
	}
	b.mu.Unlock()

	writeJSON(w, resp)
}

func (b *Backend) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session_id")

	b.mu.Lock()
	resp := api.HistoryResponse{
		SessionID: id,
		Messages:  b.History[id],
	}
	if raw := b.State[id]; raw != "" {
		resp.State = json.RawMessage(raw)
	}
	b.mu.Unlock()

	writeJSON(w, resp)
}

func (b *Backend) handleSessions(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r.URL.Query(), "page", 1)
	perPage := queryInt(r.URL.Query(), "per_page", 10)

	b.mu.Lock()
	sessions := append([]api.SessionSummary(nil), b.Sessions...)
	b.mu.Unlock()

	start := (page - 1) * perPage
	if start > len(sessions) {
		start = len(sessions)
	}
	end := start + perPage
	if end > len(sessions) {
		end = len(sessions)
	}

	writeJSON(w, api.SessionList{
		Sessions: sessions[start:end],
		Pagination: api.Pagination{
			Total:      len(sessions),
			Page:       page,
			PerPage:    perPage,
			TotalPages: pageCount(len(sessions), perPage),
		},
	})
}

func (b *Backend) handleSocialPosts(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/social-media/" {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	page := queryInt(q, "page", 1)
	perPage := queryInt(q, "per_page", 10)

	b.mu.Lock()
	matched := make([]api.SocialPost, 0, len(b.Posts))
	for _, p := range b.Posts {
		if v := q.Get("platform"); v != "" && p.Platform != v {
			continue
		}
		if v := q.Get("author"); v != "" && p.AuthorName != v {
			continue
		}
		if v := q.Get("sentiment"); v != "" && p.Sentiment != v {
			continue
		}
		if v := q.Get("search"); v != "" && !strings.Contains(p.Message, v) {
			continue
		}
		matched = append(matched, p)
	}
	b.mu.Unlock()

	start := (page - 1) * perPage
	if start > len(matched) {
		start = len(matched)
	}
	end := start + perPage
	if end > len(matched) {
		end = len(matched)
	}

	writeJSON(w, api.SocialPostList{
		Items:      matched[start:end],
		Total:      len(matched),
		Page:       page,
		PerPage:    perPage,
		TotalPages: pageCount(len(matched), perPage),
	})
}

func (b *Backend) handleSocialStats(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	stats := b.Stats
	b.mu.Unlock()
	writeJSON(w, stats)
}

func (b *Backend) handleSocialTop(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r.URL.Query(), "limit", 10)

	b.mu.Lock()
	posts := append([]api.SocialPost(nil), b.TopPosts...)
	b.mu.Unlock()

	if limit < len(posts) {
		posts = posts[:limit]
	}
	writeJSON(w, posts)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func queryInt(q url.Values, key string, fallback int) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func pageCount(total, perPage int) int {
	if perPage < 1 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
