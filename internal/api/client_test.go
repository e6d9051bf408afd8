package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClientDefaultsAndTrimsBaseURL(t *testing.T) {
	c := NewClient("")
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", c.BaseURL(), DefaultBaseURL)
	}

	c = NewClient("http://example.com:8000/")
	if c.BaseURL() != "http://example.com:8000" {
		t.Errorf("BaseURL() = %q, want trailing slash trimmed", c.BaseURL())
	}
}

func TestWithTimeoutOverridesDefault(t *testing.T) {
	c := NewClient("", WithTimeout(30*time.Second))
	if c.httpClient.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", c.httpClient.Timeout)
	}

	// Non-positive values keep the default.
	c = NewClient("", WithTimeout(0))
	if c.httpClient.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.httpClient.Timeout, DefaultTimeout)
	}
}

func TestDoJSONSendsPayloadAndDecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		if in["message"] != "hello" {
			t.Errorf("message = %q, want hello", in["message"])
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"echo": in["message"]})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	var out struct {
		Echo string `json:"echo"`
	}
	err := c.doJSON(context.Background(), http.MethodPost, "/echo", nil, map[string]string{"message": "hello"}, &out)
	if err != nil {
		t.Fatalf("doJSON failed: %v", err)
	}
	if out.Echo != "hello" {
		t.Errorf("echo = %q, want hello", out.Echo)
	}
}

func TestDoJSONReportsServerErrorsWithBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "session not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.doJSON(context.Background(), http.MethodGet, "/missing", nil, nil, nil)
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
	if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "session not found") {
		t.Errorf("error = %q, want status code and body included", err)
	}
}

func TestAssetURLs(t *testing.T) {
	c := NewClient("http://host:8000")

	if got := c.BannerURL("cover.png"); got != "http://host:8000/podcast_img/cover.png" {
		t.Errorf("BannerURL = %q", got)
	}
	if got := c.AudioURL("episode.mp3"); got != "http://host:8000/audio/episode.mp3" {
		t.Errorf("AudioURL = %q", got)
	}
	if got := c.StreamAudioURL("episode.mp3"); got != "http://host:8000/stream-audio/episode.mp3" {
		t.Errorf("StreamAudioURL = %q", got)
	}
	if got := c.BannerURL(""); got != "" {
		t.Errorf("BannerURL(\"\") = %q, want empty", got)
	}
}

func TestRecordingURLUsesLastPathElement(t *testing.T) {
	c := NewClient("http://host:8000")

	got := c.RecordingURL("sess-1", "recordings/sess-1/search.webm")
	want := "http://host:8000/stream-recording/sess-1/search.webm"
	if got != want {
		t.Errorf("RecordingURL = %q, want %q", got, want)
	}

	// A bare filename passes through unchanged.
	got = c.RecordingURL("sess-1", "search.webm")
	if got != want {
		t.Errorf("RecordingURL(bare) = %q, want %q", got, want)
	}

	if got := c.RecordingURL("", "search.webm"); got != "" {
		t.Errorf("RecordingURL with empty session = %q, want empty", got)
	}
}

func TestErrorFlagDecodesMixedRepresentations(t *testing.T) {
	cases := []struct {
		in      string
		wantSet bool
		wantMsg string
	}{
		{`true`, true, ""},
		{`false`, false, ""},
		{`null`, false, ""},
		{`"backend exploded"`, true, "backend exploded"},
		{`""`, false, ""},
	}
	for _, tc := range cases {
		var f ErrorFlag
		if err := json.Unmarshal([]byte(tc.in), &f); err != nil {
			t.Errorf("unmarshal %s: %v", tc.in, err)
			continue
		}
		if f.Set != tc.wantSet || f.Message != tc.wantMsg {
			t.Errorf("unmarshal %s = {%v %q}, want {%v %q}", tc.in, f.Set, f.Message, tc.wantSet, tc.wantMsg)
		}
	}
}

func TestListSessionsClampsPaging(t *testing.T) {
	var gotPage, gotPerPage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPage = r.URL.Query().Get("page")
		gotPerPage = r.URL.Query().Get("per_page")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"sessions":   []any{},
			"pagination": map[string]any{"total": 0, "page": 1, "per_page": 10, "total_pages": 0},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.ListSessions(context.Background(), 0, -3); err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if gotPage != "1" {
		t.Errorf("page = %q, want clamped to 1", gotPage)
	}
	if gotPerPage != "10" {
		t.Errorf("per_page = %q, want default 10", gotPerPage)
	}
}
