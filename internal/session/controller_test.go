package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/beifong-dev/studio/internal/api"
	"github.com/beifong-dev/studio/internal/log"
)

// fakeBackend is a minimal scripted agent backend for controller tests.
type fakeBackend struct {
	mu       sync.Mutex
	history  map[string]any
	chat     map[string]any
	statuses []map[string]any
	sent     []string
	deleted  []string
}

func (f *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/podcast-agent/session", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"session_id": "new-session"})
	})
	mux.HandleFunc("/api/podcast-agent/session/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			http.NotFound(w, r)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/api/podcast-agent/session/")
		f.mu.Lock()
		f.deleted = append(f.deleted, id)
		f.mu.Unlock()
		writeJSON(t, w, map[string]any{"deleted": true})
	})
	mux.HandleFunc("/api/podcast-agent/session_history", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		h := f.history
		f.mu.Unlock()
		if h == nil {
			h = map[string]any{"session_id": r.URL.Query().Get("session_id"), "messages": []any{}}
		}
		writeJSON(t, w, h)
	})
	mux.HandleFunc("/api/podcast-agent/chat", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Message string `json:"message"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.sent = append(f.sent, body.Message)
		resp := f.chat
		f.mu.Unlock()
		if resp == nil {
			resp = map[string]any{"session_id": "s", "is_processing": false, "response": "ok"}
		}
		writeJSON(t, w, resp)
	})
	mux.HandleFunc("/api/podcast-agent/status", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		var resp map[string]any
		if len(f.statuses) > 0 {
			resp = f.statuses[0]
			if len(f.statuses) > 1 {
				f.statuses = f.statuses[1:]
			}
		} else {
			resp = map[string]any{"is_processing": false}
		}
		f.mu.Unlock()
		writeJSON(t, w, resp)
	})
	return mux
}

func (f *fakeBackend) sentMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func (f *fakeBackend) deletedSessions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encoding fake response: %v", err)
	}
}

func newTestController(t *testing.T, f *fakeBackend) *Controller {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	c := NewController(api.NewClient(srv.URL), nil)
	c.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	t.Cleanup(c.Close)
	return c
}

func TestLoadSeedsWelcomeOnEmptyHistory(t *testing.T) {
	f := &fakeBackend{}
	c := newTestController(t, f)

	if err := c.Load(context.Background(), "empty"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	v := c.Snapshot()
	if len(v.Messages) != 1 {
		t.Fatalf("messages = %d, want just the welcome seed", len(v.Messages))
	}
	if v.Messages[0].Role != RoleAssistant || v.Messages[0].Content != WelcomeMessage {
		t.Errorf("seed = %+v", v.Messages[0])
	}
	if v.Stage != "welcome" {
		t.Errorf("stage = %q, want welcome", v.Stage)
	}
}

func TestLoadDedupesHistory(t *testing.T) {
	f := &fakeBackend{history: map[string]any{
		"session_id": "s",
		"messages": []any{
			map[string]any{"role": "assistant", "content": "hello"},
			map[string]any{"role": "user", "content": "make a podcast"},
			map[string]any{"role": "assistant", "content": "hello"},
			map[string]any{"role": "user", "content": ""},
		},
	}}
	c := newTestController(t, f)

	if err := c.Load(context.Background(), "s"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	v := c.Snapshot()
	want := []Message{
		{Role: RoleAssistant, Content: "hello"},
		{Role: RoleUser, Content: "make a podcast"},
	}
	if !reflect.DeepEqual(v.Messages, want) {
		t.Errorf("messages = %+v, want %+v", v.Messages, want)
	}
}

func TestLoadAdoptsStateAndPreselectsSources(t *testing.T) {
	f := &fakeBackend{history: map[string]any{
		"session_id": "s",
		"messages":   []any{map[string]any{"role": "assistant", "content": "pick sources"}},
		"state": map[string]any{
			"stage":                      "source_selection",
			"show_sources_for_selection": true,
			"search_results": []any{
				map[string]any{"title": "one"},
				map[string]any{"title": "two"},
				map[string]any{"title": "three"},
			},
		},
	}}
	c := newTestController(t, f)

	if err := c.Load(context.Background(), "s"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	v := c.Snapshot()
	if v.Stage != "source_selection" {
		t.Errorf("stage = %q", v.Stage)
	}
	if v.Panel != PanelSourceSelection {
		t.Errorf("panel = %v, want sources", v.Panel)
	}
	if !reflect.DeepEqual(v.Selected, []int{0, 1, 2}) {
		t.Errorf("selected = %v, want all preselected", v.Selected)
	}
}

func TestLoadMalformedStateKeepsTranscript(t *testing.T) {
	f := &fakeBackend{history: map[string]any{
		"session_id": "s",
		"messages":   []any{map[string]any{"role": "assistant", "content": "hi"}},
		"state":      "{broken",
	}}
	c := newTestController(t, f)

	if err := c.Load(context.Background(), "s"); err != nil {
		t.Fatalf("Load should tolerate a malformed state blob: %v", err)
	}

	v := c.Snapshot()
	if len(v.Messages) != 1 || v.Messages[0].Content != "hi" {
		t.Errorf("messages = %+v", v.Messages)
	}
	if v.Stage != "welcome" {
		t.Errorf("stage = %q, want welcome fallback", v.Stage)
	}
}

func TestSendMessageClearsPanelsOptimistically(t *testing.T) {
	f := &fakeBackend{
		history: map[string]any{
			"session_id": "s",
			"messages":   []any{map[string]any{"role": "assistant", "content": "confirm?"}},
			"state": map[string]any{
				"stage":                        "script",
				"show_script_for_confirmation": true,
				"generated_script":             map[string]any{"title": "Ep 1"},
			},
		},
		// The reply carries no session_state, so the only thing that can
		// clear the panel is the optimistic local clear.
		chat: map[string]any{"session_id": "s", "is_processing": false, "response": "noted"},
	}
	c := newTestController(t, f)

	if err := c.Load(context.Background(), "s"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Snapshot().Panel != PanelScriptConfirmation {
		t.Fatal("precondition: script panel should be active")
	}

	if err := c.SendMessage(context.Background(), "change the intro"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	v := c.Snapshot()
	if v.Panel != PanelNone {
		t.Errorf("panel = %v, want cleared", v.Panel)
	}
	last := v.Messages[len(v.Messages)-1]
	if last.Role != RoleAssistant || last.Content != "noted" {
		t.Errorf("last message = %+v", last)
	}
}

func TestSendMessageIgnoredWhileProcessing(t *testing.T) {
	f := &fakeBackend{}
	c := newTestController(t, f)
	if err := c.Load(context.Background(), "s"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	c.mu.Lock()
	c.processing = Processing{Active: true, Type: "script_generation"}
	c.mu.Unlock()

	if err := c.SendMessage(context.Background(), "hello?"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if got := f.sentMessages(); len(got) != 0 {
		t.Errorf("sent = %v, want nothing while processing", got)
	}
}

func TestSendMessageFoldsTransportErrorIntoTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "session_history") {
			writeJSON(t, w, map[string]any{"session_id": "s", "messages": []any{}})
			return
		}
		if strings.Contains(r.URL.Path, "status") {
			writeJSON(t, w, map[string]any{"is_processing": false})
			return
		}
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewController(api.NewClient(srv.URL), nil)
	defer c.Close()
	if err := c.Load(context.Background(), "s"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := c.SendMessage(context.Background(), "hello"); err != nil {
		t.Fatalf("SendMessage must not return transport errors: %v", err)
	}

	v := c.Snapshot()
	last := v.Messages[len(v.Messages)-1]
	if last.Role != RoleAssistant || !strings.Contains(last.Content, "Please try again") {
		t.Errorf("last message = %+v, want apologetic assistant entry", last)
	}
	if v.Processing.Active {
		t.Error("processing must be cleared after a failed submission")
	}
	if v.Err == "" {
		t.Error("error banner should be set")
	}
}

func sourceSelectionBackend() *fakeBackend {
	return &fakeBackend{
		history: map[string]any{
			"session_id": "s",
			"messages":   []any{map[string]any{"role": "assistant", "content": "pick"}},
			"state": map[string]any{
				"stage":                      "source_selection",
				"show_sources_for_selection": true,
				"search_results": []any{
					map[string]any{"title": "one"},
					map[string]any{"title": "two"},
					map[string]any{"title": "three"},
				},
			},
		},
		chat: map[string]any{"session_id": "s", "is_processing": false, "response": "generating"},
	}
}

func TestConfirmSourcesComposesSelectionMessage(t *testing.T) {
	f := sourceSelectionBackend()
	c := newTestController(t, f)
	if err := c.Load(context.Background(), "s"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Deselect the middle source and pick French.
	c.ToggleSource(1)
	c.SetLanguage("fr")

	if err := c.ConfirmSources(context.Background()); err != nil {
		t.Fatalf("ConfirmSources failed: %v", err)
	}

	sent := f.sentMessages()
	if len(sent) != 1 {
		t.Fatalf("sent = %v, want one selection message", sent)
	}
	want := "I've selected sources 1, 3 and I want the podcast in French."
	if sent[0] != want {
		t.Errorf("selection message = %q, want %q", sent[0], want)
	}
}

func TestConfirmSourcesRejectsEmptySelection(t *testing.T) {
	f := sourceSelectionBackend()
	c := newTestController(t, f)
	if err := c.Load(context.Background(), "s"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	c.ToggleSelectAll() // everything was preselected, so this clears it

	err := c.ConfirmSources(context.Background())
	if err != ErrNoSourcesSelected {
		t.Fatalf("err = %v, want ErrNoSourcesSelected", err)
	}
	if got := f.sentMessages(); len(got) != 0 {
		t.Errorf("sent = %v, want no round-trip for an empty selection", got)
	}
	if v := c.Snapshot(); v.Err == "" {
		t.Error("error banner should ask for at least one source")
	}
}

func TestConfirmationsSendExactMessages(t *testing.T) {
	cases := []struct {
		name string
		act  func(c *Controller) error
		want string
	}{
		{"approve script", func(c *Controller) error { return c.ApproveScript(context.Background()) },
			"I approve this script. It looks good!"},
		{"approve banner", func(c *Controller) error { return c.ApproveBanner(context.Background()) },
			"I approve this banner. It looks good!"},
		{"approve audio", func(c *Controller) error { return c.ApproveAudio(context.Background()) },
			"The audio sounds great! I'm happy with the final podcast."},
		{"close recording", func(c *Controller) error { return c.CloseRecording(context.Background()) },
			"I've viewed the web search recording. Let's continue with the podcast."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeBackend{}
			c := newTestController(t, f)
			if err := c.Load(context.Background(), "s"); err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if err := tc.act(c); err != nil {
				t.Fatalf("action failed: %v", err)
			}
			sent := f.sentMessages()
			if len(sent) != 1 || sent[0] != tc.want {
				t.Errorf("sent = %v, want [%q]", sent, tc.want)
			}
		})
	}
}

func TestStageDefaultsToPreviousWhenBlobOmitsIt(t *testing.T) {
	f := &fakeBackend{
		history: map[string]any{
			"session_id": "s",
			"messages":   []any{map[string]any{"role": "assistant", "content": "hi"}},
			"state":      map[string]any{"stage": "script"},
		},
		chat: map[string]any{
			"session_id": "s", "is_processing": false, "response": "ok",
			"session_state": map[string]any{"banner_url": "b.png"},
		},
	}
	c := newTestController(t, f)
	if err := c.Load(context.Background(), "s"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := c.SendMessage(context.Background(), "ok"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	v := c.Snapshot()
	if v.Stage != "script" {
		t.Errorf("stage = %q, want previous stage kept when blob omits it", v.Stage)
	}
	if v.BannerURL != "b.png" {
		t.Errorf("banner = %q, the rest of the blob must still apply", v.BannerURL)
	}
}

func TestPodcastGeneratedLatchesCompletedView(t *testing.T) {
	f := &fakeBackend{
		chat: map[string]any{
			"session_id": "s", "is_processing": false, "response": "done!",
			"session_state": map[string]any{"stage": "completed", "podcast_generated": true},
		},
	}
	c := newTestController(t, f)
	if err := c.Load(context.Background(), "s"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := c.SendMessage(context.Background(), "finish it"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if v := c.Snapshot(); !v.Completed {
		t.Error("Completed should latch when podcast_generated arrives")
	}
}

func TestDeleteSessionLogsEvent(t *testing.T) {
	f := &fakeBackend{}
	srv := httptest.NewServer(f.handler(t))
	defer srv.Close()

	logger, err := log.NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	c := NewController(api.NewClient(srv.URL), logger)
	defer c.Close()

	if err := c.DeleteSession(context.Background(), "old-session"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if got := f.deletedSessions(); len(got) != 1 || got[0] != "old-session" {
		t.Errorf("deleted = %v, want [old-session]", got)
	}

	events, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	found := false
	for _, e := range events {
		if e.Event == log.EventSessionDeleted && e.SessionID == "old-session" {
			found = true
		}
	}
	if !found {
		t.Error("no session_deleted event in the log")
	}
}

func TestPollLoopLogsStartAndCompletion(t *testing.T) {
	f := &fakeBackend{}
	srv := httptest.NewServer(f.handler(t))
	defer srv.Close()

	logger, err := log.NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	c := NewController(api.NewClient(srv.URL), logger)
	c.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	defer c.Close()

	c.mu.Lock()
	c.sessionID = "s"
	c.pollGen = 1
	c.mu.Unlock()

	// The default status is not-processing, so the first poll is final.
	c.pollLoop(context.Background(), 1, "s")

	events, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	var started, done bool
	for _, e := range events {
		if e.SessionID != "s" {
			continue
		}
		switch e.Event {
		case log.EventPollStarted:
			started = true
		case log.EventPollDone:
			done = true
		}
	}
	if !started {
		t.Error("no poll_started event in the log")
	}
	if !done {
		t.Error("no poll_done event in the log")
	}
}

func TestApplyPollReleasesLoopContext(t *testing.T) {
	f := &fakeBackend{}
	c := newTestController(t, f)
	if err := c.Load(context.Background(), "s"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	c.pollGen = 2
	c.pollCancel = cancel
	c.mu.Unlock()

	if done := c.applyPoll(2, &api.StatusResponse{IsProcessing: false}, 0); !done {
		t.Error("a final poll must end its loop")
	}
	if ctx.Err() == nil {
		t.Error("the finished loop's context must be cancelled")
	}
	c.mu.Lock()
	if c.pollCancel != nil {
		t.Error("pollCancel must be cleared once the loop is done")
	}
	c.mu.Unlock()
}

func TestApplyPollDiscardsStaleGeneration(t *testing.T) {
	f := &fakeBackend{}
	c := newTestController(t, f)
	if err := c.Load(context.Background(), "s"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	c.mu.Lock()
	c.pollGen = 7
	c.mu.Unlock()

	stale := &api.StatusResponse{
		IsProcessing: false,
		Response:     "stale answer",
		SessionState: json.RawMessage(`{"stage":"banner"}`),
	}
	if done := c.applyPoll(6, stale, 0); !done {
		t.Error("a stale poll must end its loop")
	}

	v := c.Snapshot()
	for _, m := range v.Messages {
		if m.Content == "stale answer" {
			t.Error("stale response must not reach the transcript")
		}
	}
	if v.Stage == "banner" {
		t.Error("stale state must not overwrite the session")
	}
}

func TestApplyPollAppliesFinalResult(t *testing.T) {
	f := &fakeBackend{}
	c := newTestController(t, f)
	if err := c.Load(context.Background(), "s"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	c.mu.Lock()
	c.pollGen = 3
	c.processing = Processing{Active: true, Type: "script_generation"}
	c.mu.Unlock()

	final := &api.StatusResponse{
		IsProcessing: false,
		Response:     "script is ready",
		SessionState: json.RawMessage(`{"stage":"script","show_script_for_confirmation":true,"generated_script":{"title":"Ep 1"}}`),
	}
	if done := c.applyPoll(3, final, 4); !done {
		t.Error("a final poll must end its loop")
	}

	v := c.Snapshot()
	if v.Processing.Active {
		t.Error("processing must clear on completion")
	}
	if v.Stage != "script" || v.Panel != PanelScriptConfirmation {
		t.Errorf("stage = %q panel = %v, want script confirmation", v.Stage, v.Panel)
	}
	last := v.Messages[len(v.Messages)-1]
	if last.Content != "script is ready" {
		t.Errorf("last message = %+v", last)
	}
}

func TestPollLoopTimesOutAndClearsProcessing(t *testing.T) {
	f := &fakeBackend{statuses: []map[string]any{
		{"is_processing": true, "elapsed_seconds": 1},
	}}
	c := newTestController(t, f)
	if err := c.Load(context.Background(), "s"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	c.mu.Lock()
	c.pollGen = 1
	c.processing = Processing{Active: true, Type: "audio_generation"}
	c.mu.Unlock()

	// Run the loop synchronously; the nulled sleep makes it instant.
	c.pollLoop(context.Background(), 1, "s")

	v := c.Snapshot()
	if v.Processing.Active {
		t.Error("processing must clear when the poll budget runs out")
	}
	if !strings.Contains(v.Err, "taking longer than expected") {
		t.Errorf("error banner = %q", v.Err)
	}
}

func TestStartPollingReplacesActiveLoop(t *testing.T) {
	f := &fakeBackend{}
	c := newTestController(t, f)
	if err := c.Load(context.Background(), "s"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	c.mu.Lock()
	c.startPollingLocked()
	firstGen := c.pollGen
	firstCancel := c.pollCancel
	c.startPollingLocked()
	secondGen := c.pollGen
	c.mu.Unlock()

	if secondGen <= firstGen {
		t.Error("starting a new loop must bump the generation")
	}
	if firstCancel == nil {
		t.Fatal("first loop should have a cancel func")
	}
	// The first loop's generation is now stale, so anything it reports is
	// discarded.
	if done := c.applyPoll(firstGen, &api.StatusResponse{IsProcessing: false, Response: "old"}, 0); !done {
		t.Error("first loop must stop once replaced")
	}
}

func TestPredictProcessingType(t *testing.T) {
	cases := []struct {
		message string
		stage   string
		want    string
	}{
		{"I've selected sources 1, 2", "source_selection", "script_generation"},
		{"I approve this script. It looks good!", "script", "banner_generation"},
		{"looks good", "banner", "audio_generation"},
		{"please search the web for this topic", "welcome", "web_search"},
		{"search the internet", "script", "web_search"},
		{"tell me a joke", "welcome", "chat"},
		{"no digits here", "source_selection", "chat"},
	}
	for _, tc := range cases {
		if got := PredictProcessingType(tc.message, tc.stage); got != tc.want {
			t.Errorf("PredictProcessingType(%q, %q) = %q, want %q", tc.message, tc.stage, got, tc.want)
		}
	}
}

func TestNextScreenPollDelay(t *testing.T) {
	if got := NextScreenPollDelay(80, 5*screenPollStart); got != screenPollStart {
		t.Errorf("near completion delay = %v, want 1s", got)
	}
	if got := NextScreenPollDelay(10, screenPollStart); got != 1200*time.Millisecond {
		t.Errorf("backoff delay = %v, want 1.2s", got)
	}
	if got := NextScreenPollDelay(10, screenPollMax); got != screenPollMax {
		t.Errorf("capped delay = %v, want %v", got, screenPollMax)
	}
	if got := screenPollErrorDelay(8 * screenPollStart); got != screenPollErrorMax {
		t.Errorf("error delay = %v, want capped at %v", got, screenPollErrorMax)
	}
}
