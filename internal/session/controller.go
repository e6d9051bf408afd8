package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/beifong-dev/studio/internal/api"
	"github.com/beifong-dev/studio/internal/log"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// WelcomeMessage seeds the transcript of a fresh or empty session.
const WelcomeMessage = "Hi there! I'm your podcast creation assistant. What topic would you like to create a podcast about?"

// Synthetic user messages sent by the confirmation panels. The backend agent
// parses these, so the wording is part of the protocol.
const (
	msgApproveScript  = "I approve this script. It looks good!"
	msgRejectScript   = "I'd like some changes to this script. Please revise it."
	msgApproveBanner  = "I approve this banner. It looks good!"
	msgRejectBanner   = "I'd like a different banner. Please generate a new one."
	msgApproveAudio   = "The audio sounds great! I'm happy with the final podcast."
	msgRejectAudio    = "I'd like the audio regenerated. Please try again."
	msgCloseRecording = "I've viewed the web search recording. Let's continue with the podcast."
)

// ErrNoSourcesSelected is returned when confirming sources with nothing
// selected.
var ErrNoSourcesSelected = errors.New("session: select at least one source")

// Message is one transcript entry.
type Message struct {
	Role    string
	Content string
}

// Processing describes an in-flight backend operation.
type Processing struct {
	Active   bool
	Type     string
	Progress int
	Message  string
}

// Controller owns a session's client-side state: transcript, reconciled
// session state, processing status, source selection, and the status-poll
// loop. All methods are safe for concurrent use; the TUI reads snapshots via
// View and learns about changes through Updates.
type Controller struct {
	client *api.Client
	logger *log.Logger

	mu            sync.Mutex
	sessionID     string
	messages      []Message
	state         *State
	stage         string
	processing    Processing
	selected      []int
	languages     []api.Language
	languageCode  string
	lastError     string
	completed     bool
	showRecording bool

	pollGen    int
	pollCancel context.CancelFunc
	sleep      func(ctx context.Context, d time.Duration) error

	updates chan struct{}
}

// NewController creates a Controller talking to client. logger may be nil.
func NewController(client *api.Client, logger *log.Logger) *Controller {
	return &Controller{
		client:       client,
		logger:       logger,
		stage:        "welcome",
		languages:    DefaultLanguages(),
		languageCode: "en",
		sleep:        sleepContext,
		updates:      make(chan struct{}, 1),
	}
}

// Updates signals after every state change. The channel is buffered with one
// slot; readers drain it and re-snapshot via View.
func (c *Controller) Updates() <-chan struct{} {
	return c.updates
}

// Close stops any active poll loop.
func (c *Controller) Close() {
	c.mu.Lock()
	c.stopPollingLocked()
	c.mu.Unlock()
}

// StartNew creates a fresh session on the backend and resets all local state.
func (c *Controller) StartNew(ctx context.Context) error {
	resp, err := c.client.CreateSession(ctx, "")
	if err != nil {
		c.logEvent(log.LogEvent{Event: log.EventFetchFailed, Error: err.Error()})
		return fmt.Errorf("session: creating session: %w", err)
	}
	if resp.SessionID == "" {
		return errors.New("session: backend returned no session id")
	}

	c.mu.Lock()
	c.stopPollingLocked()
	c.resetLocked(resp.SessionID)
	c.messages = []Message{{Role: RoleAssistant, Content: WelcomeMessage}}
	c.mu.Unlock()

	c.logEvent(log.LogEvent{Event: log.EventSessionCreated, SessionID: resp.SessionID})
	c.notify()
	return nil
}

// Load resumes an existing session: fetches its history and state, then
// checks for active processing and resumes polling if the backend is still
// working.
func (c *Controller) Load(ctx context.Context, sessionID string) error {
	hist, err := c.client.SessionHistory(ctx, sessionID)
	if err != nil {
		c.logEvent(log.LogEvent{Event: log.EventFetchFailed, SessionID: sessionID, Error: err.Error()})
		return fmt.Errorf("session: loading history: %w", err)
	}

	msgs := dedupeMessages(hist.Messages)
	if len(msgs) == 0 {
		msgs = []Message{{Role: RoleAssistant, Content: WelcomeMessage}}
	}

	// A malformed state blob is dropped and the session starts from the
	// transcript alone.
	st, stErr := ParseState(hist.State)
	if stErr != nil {
		c.logEvent(log.LogEvent{Event: log.EventFetchFailed, SessionID: sessionID, Error: stErr.Error()})
	}

	c.mu.Lock()
	c.stopPollingLocked()
	c.resetLocked(sessionID)
	c.messages = msgs
	if st != nil {
		c.adoptStateLocked(st)
	}
	c.mu.Unlock()
	c.notify()

	status, err := c.client.Status(ctx, sessionID)
	if err == nil && status.IsProcessing {
		c.mu.Lock()
		c.processing = Processing{
			Active:   true,
			Type:     orDefault(status.ProcessType, "operation"),
			Progress: status.Progress,
			Message:  status.Message,
		}
		c.startPollingLocked()
		c.mu.Unlock()
		c.notify()
	}

	c.logEvent(log.LogEvent{Event: log.EventSessionLoaded, SessionID: sessionID, Stage: c.Stage()})
	return nil
}

// DeleteSession removes a session on the backend and records the deletion in
// the event log. Local state is untouched: deleting another session from the
// list must not disturb the one currently open.
func (c *Controller) DeleteSession(ctx context.Context, sessionID string) error {
	if err := c.client.DeleteSession(ctx, sessionID); err != nil {
		c.logEvent(log.LogEvent{Event: log.EventFetchFailed, SessionID: sessionID, Error: err.Error()})
		return fmt.Errorf("session: deleting session: %w", err)
	}
	c.logEvent(log.LogEvent{Event: log.EventSessionDeleted, SessionID: sessionID})
	return nil
}

// resetLocked clears all per-session state for a new session id.
func (c *Controller) resetLocked(sessionID string) {
	c.sessionID = sessionID
	c.messages = nil
	c.state = nil
	c.stage = "welcome"
	c.processing = Processing{}
	c.selected = nil
	c.languages = DefaultLanguages()
	c.languageCode = "en"
	c.lastError = ""
	c.completed = false
	c.showRecording = false
}

// SendMessage submits a user-typed chat message. Empty input and input while
// an operation is processing are ignored.
func (c *Controller) SendMessage(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	c.mu.Lock()
	if text == "" || c.sessionID == "" || c.processing.Active {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()
	return c.send(ctx, text, "")
}

// send appends the user message, optimistically hides all confirmation
// surfaces, submits the message, and reconciles the response.
func (c *Controller) send(ctx context.Context, text, forcedType string) error {
	c.mu.Lock()
	c.messages = append(c.messages, Message{Role: RoleUser, Content: text})
	c.hidePanelsLocked()
	predicted := forcedType
	if predicted == "" {
		predicted = PredictProcessingType(text, c.stage)
	}
	c.processing = Processing{Active: true, Type: predicted, Message: "Starting " + predicted + "..."}
	c.lastError = ""
	sessionID := c.sessionID
	c.mu.Unlock()
	c.notify()

	c.logEvent(log.LogEvent{Event: log.EventChatSubmitted, SessionID: sessionID, ProcessType: predicted})

	resp, err := c.client.Chat(ctx, sessionID, text)

	c.mu.Lock()
	if err != nil {
		c.messages = append(c.messages, Message{
			Role:    RoleAssistant,
			Content: fmt.Sprintf("I'm sorry, there was an error processing your request: %v. Please try again.", err),
		})
		c.lastError = fmt.Sprintf("Failed to send message: %v", err)
		c.processing = Processing{}
		c.mu.Unlock()
		c.notify()
		c.logEvent(log.LogEvent{Event: log.EventFetchFailed, SessionID: sessionID, Error: err.Error()})
		return nil
	}

	if resp.Response != "" {
		c.messages = append(c.messages, Message{Role: RoleAssistant, Content: resp.Response})
	}
	if st, stErr := ParseState(resp.SessionState); stErr == nil && st != nil {
		c.adoptStateLocked(st)
	}
	if resp.IsProcessing {
		c.processing.Active = true
		c.processing.Type = orDefault(resp.ProcessType, orDefault(predicted, "operation"))
		c.startPollingLocked()
	} else {
		c.processing = Processing{}
	}
	c.mu.Unlock()
	c.notify()
	return nil
}

// ToggleSource flips the selection of one search result. Ignored while
// processing or when the index is out of range.
func (c *Controller) ToggleSource(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.processing.Active || c.state == nil || index < 0 || index >= len(c.state.SearchResults) {
		return
	}
	for i, sel := range c.selected {
		if sel == index {
			c.selected = append(c.selected[:i], c.selected[i+1:]...)
			c.notify()
			return
		}
	}
	c.selected = insertSorted(c.selected, index)
	c.notify()
}

// ToggleSelectAll selects every search result, or clears the selection when
// everything is already selected.
func (c *Controller) ToggleSelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.processing.Active || c.state == nil || len(c.state.SearchResults) == 0 {
		return
	}
	if len(c.selected) == len(c.state.SearchResults) {
		c.selected = nil
	} else {
		c.selected = allIndices(len(c.state.SearchResults))
	}
	c.notify()
}

// SetLanguage records the podcast language choice.
func (c *Controller) SetLanguage(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if code == "" {
		return
	}
	c.languageCode = code
	c.notify()
}

// ConfirmSources submits the source selection and language choice as the
// synthetic selection message. The message uses 1-based source numbers to
// match what the panel displays.
func (c *Controller) ConfirmSources(ctx context.Context) error {
	c.mu.Lock()
	if c.processing.Active {
		c.mu.Unlock()
		return nil
	}
	if len(c.selected) == 0 {
		c.lastError = "Please select at least one source."
		c.mu.Unlock()
		c.notify()
		return ErrNoSourcesSelected
	}

	parts := make([]string, len(c.selected))
	for i, idx := range c.selected {
		parts[i] = strconv.Itoa(idx + 1)
	}
	langName := "English"
	for _, lang := range c.languages {
		if lang.Code == c.languageCode {
			langName = lang.Name
			break
		}
	}
	sessionID := c.sessionID
	c.mu.Unlock()

	msg := fmt.Sprintf("I've selected sources %s and I want the podcast in %s.", strings.Join(parts, ", "), langName)
	c.logEvent(log.LogEvent{Event: log.EventConfirmationSent, SessionID: sessionID, Message: "sources"})
	return c.send(ctx, msg, "script_generation")
}

// ApproveScript accepts the generated script and moves the pipeline on.
func (c *Controller) ApproveScript(ctx context.Context) error {
	return c.confirm(ctx, "script", msgApproveScript)
}

// RejectScript asks the agent to revise the script.
func (c *Controller) RejectScript(ctx context.Context) error {
	return c.confirm(ctx, "script", msgRejectScript)
}

// ApproveBanner accepts the generated banner.
func (c *Controller) ApproveBanner(ctx context.Context) error {
	return c.confirm(ctx, "banner", msgApproveBanner)
}

// RejectBanner asks for a new banner.
func (c *Controller) RejectBanner(ctx context.Context) error {
	return c.confirm(ctx, "banner", msgRejectBanner)
}

// ApproveAudio accepts the generated audio and finishes the pipeline.
func (c *Controller) ApproveAudio(ctx context.Context) error {
	return c.confirm(ctx, "audio", msgApproveAudio)
}

// RejectAudio asks for the audio to be regenerated.
func (c *Controller) RejectAudio(ctx context.Context) error {
	return c.confirm(ctx, "audio", msgRejectAudio)
}

func (c *Controller) confirm(ctx context.Context, what, message string) error {
	c.mu.Lock()
	if c.processing.Active || c.sessionID == "" {
		c.mu.Unlock()
		return nil
	}
	sessionID := c.sessionID
	c.mu.Unlock()

	c.logEvent(log.LogEvent{Event: log.EventConfirmationSent, SessionID: sessionID, Message: what})
	return c.send(ctx, message, "")
}

// ViewRecording shows the web-search recording player when a recording
// exists.
func (c *Controller) ViewRecording() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != nil && c.state.WebSearchRecording != "" {
		c.showRecording = true
		c.notify()
	}
}

// CloseRecording hides the recording player and tells the agent to continue.
func (c *Controller) CloseRecording(ctx context.Context) error {
	c.mu.Lock()
	if c.processing.Active || c.sessionID == "" {
		c.mu.Unlock()
		return nil
	}
	c.showRecording = false
	c.mu.Unlock()
	c.notify()
	return c.send(ctx, msgCloseRecording, "")
}

// ClearError dismisses the current error banner.
func (c *Controller) ClearError() {
	c.mu.Lock()
	c.lastError = ""
	c.mu.Unlock()
	c.notify()
}

// hidePanelsLocked optimistically clears every confirmation surface before a
// round-trip, so a panel never survives the action that answered it.
func (c *Controller) hidePanelsLocked() {
	if c.state != nil {
		c.state.ShowSourcesForSelection = false
		c.state.ShowScriptForConfirmation = false
		c.state.ShowBannerForConfirmation = false
		c.state.ShowAudioForConfirmation = false
		hidden := false
		c.state.ShowRecordingPlayer = &hidden
	}
	c.showRecording = false
}

// adoptStateLocked reconciles a freshly parsed state blob into the
// controller. The stage only changes when the blob names one; the completed
// flag latches once podcast_generated is reported.
func (c *Controller) adoptStateLocked(st *State) {
	c.state = st
	if st.Stage != "" {
		c.stage = st.Stage
	}
	if st.PodcastGenerated {
		c.completed = true
	}
	if st.ShowRecordingPlayer != nil {
		c.showRecording = *st.ShowRecordingPlayer
	}
	if st.ShowSourcesForSelection && len(st.SearchResults) > 0 {
		// Every source starts selected; the user deselects.
		c.selected = allIndices(len(st.SearchResults))
	}
	if len(st.AvailableLanguages) > 0 {
		c.languages = st.AvailableLanguages
	}
	if st.SelectedLanguage != nil && st.SelectedLanguage.Code != "" {
		c.languageCode = st.SelectedLanguage.Code
	}
}

// View is a point-in-time snapshot of everything a screen needs to render
// the session.
type View struct {
	SessionID        string
	Messages         []Message
	Stage            string
	Processing       Processing
	Panel            Panel
	Sources          []Source
	Selected         []int
	Languages        []api.Language
	LanguageCode     string
	Script           *Script
	BannerURL        string
	AudioURL         string
	RecordingVisible bool
	RecordingFile    string
	Completed        bool
	Title            string
	Err              string
}

// Snapshot returns a consistent read-only view of the session.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		SessionID:    c.sessionID,
		Messages:     append([]Message(nil), c.messages...),
		Stage:        c.stage,
		Processing:   c.processing,
		Panel:        c.state.ActivePanel(),
		Selected:     append([]int(nil), c.selected...),
		Languages:    append([]api.Language(nil), c.languages...),
		LanguageCode: c.languageCode,
		Completed:    c.completed,
		Title:        c.state.Title(),
		Err:          c.lastError,
	}
	if c.state != nil {
		v.Sources = append([]Source(nil), c.state.SearchResults...)
		v.Script = c.state.GeneratedScript
		v.BannerURL = c.state.BannerURL
		v.AudioURL = c.state.AudioURL
		v.RecordingFile = c.state.WebSearchRecording
	}
	v.RecordingVisible = c.showRecording && v.RecordingFile != ""
	return v
}

// SessionID returns the current session id, empty before StartNew or Load.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Stage returns the current pipeline stage.
func (c *Controller) Stage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// Processing returns the current processing status.
func (c *Controller) Processing() Processing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processing
}

// PredictProcessingType guesses what kind of operation a message will start,
// from its wording and the current stage. Used to show a processing indicator
// before the backend has answered.
func PredictProcessingType(message, stage string) string {
	lower := strings.ToLower(message)
	switch {
	case stage == "source_selection" && strings.ContainsAny(message, "0123456789"):
		return "script_generation"
	case stage == "script" && (strings.Contains(lower, "approve") || strings.Contains(lower, "looks good")):
		return "banner_generation"
	case stage == "banner" && (strings.Contains(lower, "approve") || strings.Contains(lower, "looks good")):
		return "audio_generation"
	case strings.Contains(lower, "search") && (strings.Contains(lower, "web") || strings.Contains(lower, "internet")):
		return "web_search"
	default:
		return "chat"
	}
}

// dedupeMessages drops history entries with missing fields and collapses
// exact (role, content) duplicates, keeping the first occurrence.
func dedupeMessages(history []api.HistoryMessage) []Message {
	type key struct{ role, content string }
	seen := make(map[key]bool, len(history))
	var out []Message
	for _, m := range history {
		if m.Role == "" || m.Content == "" {
			continue
		}
		k := key{m.Role, m.Content}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func insertSorted(s []int, v int) []int {
	i := 0
	for i < len(s) && s[i] < v {
		i++
	}
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func orDefault(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func (c *Controller) logEvent(e log.LogEvent) {
	if c.logger == nil {
		return
	}
	_ = c.logger.Append(e)
}

func (c *Controller) notify() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}
