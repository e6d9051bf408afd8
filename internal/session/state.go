// Package session owns the client-side view of a podcast creation session:
// the chat transcript, the reconciled session state, processing status, and
// the status-poll loop. The backend is the single source of truth; this
// package normalizes what it sends and never persists anything locally.
package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/beifong-dev/studio/internal/api"
)

// State is the typed view of the session-state blob the backend attaches to
// chat and status responses. All fields are optional on the wire.
type State struct {
	Stage                     string         `json:"stage,omitempty"`
	ShowSourcesForSelection   bool           `json:"show_sources_for_selection,omitempty"`
	ShowScriptForConfirmation bool           `json:"show_script_for_confirmation,omitempty"`
	ShowBannerForConfirmation bool           `json:"show_banner_for_confirmation,omitempty"`
	ShowAudioForConfirmation  bool           `json:"show_audio_for_confirmation,omitempty"`
	ShowRecordingPlayer       *bool          `json:"show_recording_player,omitempty"`
	SearchResults             []Source       `json:"search_results,omitempty"`
	GeneratedScript           *Script        `json:"generated_script,omitempty"`
	BannerURL                 string         `json:"banner_url,omitempty"`
	AudioURL                  string         `json:"audio_url,omitempty"`
	WebSearchRecording        string         `json:"web_search_recording,omitempty"`
	AvailableLanguages        []api.Language `json:"available_languages,omitempty"`
	SelectedLanguage          *api.Language  `json:"selected_language,omitempty"`
	PodcastGenerated          bool           `json:"podcast_generated,omitempty"`
	PodcastID                 json.Number    `json:"podcast_id,omitempty"`
	PodcastInfo               *PodcastInfo   `json:"podcast_info,omitempty"`
}

// Source is one search result offered for selection.
type Source struct {
	Title      string `json:"title,omitempty"`
	URL        string `json:"url,omitempty"`
	SourceName string `json:"source_name,omitempty"`
	SourceID   string `json:"source_id,omitempty"`
	Summary    string `json:"summary,omitempty"`
	Content    string `json:"content,omitempty"`
}

// Name returns the best available label for where the source came from.
func (s Source) Name() string {
	switch {
	case s.SourceName != "":
		return s.SourceName
	case s.SourceID != "":
		return s.SourceID
	default:
		return "Unknown Source"
	}
}

// Excerpt returns the best available body text for the source.
func (s Source) Excerpt() string {
	switch {
	case s.Summary != "":
		return s.Summary
	case s.Content != "":
		return s.Content
	default:
		return "No content available"
	}
}

// PodcastInfo carries podcast metadata the backend records alongside the
// session.
type PodcastInfo struct {
	Topic string `json:"topic,omitempty"`
}

// Script is the generated podcast script. The backend sends either a
// structured object or a preformatted string; a string lands in Raw.
type Script struct {
	Title    string          `json:"title,omitempty"`
	Sections []ScriptSection `json:"sections,omitempty"`
	Raw      string          `json:"-"`
}

// ScriptSection is one section of a structured script.
type ScriptSection struct {
	Type   string       `json:"type,omitempty"`
	Title  string       `json:"title,omitempty"`
	Dialog []DialogLine `json:"dialog,omitempty"`
}

// DialogLine is one spoken line in a script section.
type DialogLine struct {
	Speaker string `json:"speaker,omitempty"`
	Text    string `json:"text,omitempty"`
}

// UnmarshalJSON accepts both the structured and the plain-string script
// encodings.
func (s *Script) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		*s = Script{Raw: raw}
		return nil
	}

	type alias Script
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = Script(a)
	return nil
}

// Text renders the script as display text: the title, then each section
// heading followed by its dialog lines as "[speaker]: text".
func (s *Script) Text() string {
	if s == nil {
		return ""
	}
	if s.Raw != "" {
		return s.Raw
	}

	var b strings.Builder
	if s.Title != "" {
		b.WriteString(s.Title)
	}
	for _, sec := range s.Sections {
		heading := sec.Title
		if heading == "" {
			heading = sec.Type
		}
		b.WriteString(" " + heading + "\n")
		for _, line := range sec.Dialog {
			b.WriteString("[" + line.Speaker + "]: " + line.Text + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Title returns the best available session title: the script title, then the
// recorded topic, then a generic fallback.
func (s *State) Title() string {
	if s != nil {
		if s.GeneratedScript != nil && s.GeneratedScript.Title != "" {
			return s.GeneratedScript.Title
		}
		if s.PodcastInfo != nil && s.PodcastInfo.Topic != "" {
			return s.PodcastInfo.Topic
		}
	}
	return "AI Podcast Studio"
}

// ParseState normalizes the session-state blob, which arrives either as a
// JSON object or as a JSON string containing an object. An empty blob returns
// (nil, nil): the caller keeps its previous state. Malformed input returns an
// error for the same reason.
func ParseState(raw json.RawMessage) (*State, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, fmt.Errorf("session: decoding state string: %w", err)
		}
		inner = strings.TrimSpace(inner)
		if inner == "" {
			return nil, nil
		}
		trimmed = []byte(inner)
	}

	var st State
	if err := json.Unmarshal(trimmed, &st); err != nil {
		return nil, fmt.Errorf("session: decoding state: %w", err)
	}
	return &st, nil
}

// Panel identifies which confirmation surface, if any, the session state asks
// the client to present.
type Panel int

const (
	PanelNone Panel = iota
	PanelSourceSelection
	PanelScriptConfirmation
	PanelBannerConfirmation
	PanelAudioConfirmation
)

// String returns a short name for the panel.
func (p Panel) String() string {
	switch p {
	case PanelSourceSelection:
		return "sources"
	case PanelScriptConfirmation:
		return "script"
	case PanelBannerConfirmation:
		return "banner"
	case PanelAudioConfirmation:
		return "audio"
	default:
		return "none"
	}
}

// ActivePanel derives exactly one panel from the state's show_* flags. A flag
// only counts when the payload it presents is also there. When several flags
// are set at once the earliest pipeline stage wins, since the user must act
// on it before the later ones make sense.
func (s *State) ActivePanel() Panel {
	if s == nil {
		return PanelNone
	}
	switch {
	case s.ShowSourcesForSelection && len(s.SearchResults) > 0:
		return PanelSourceSelection
	case s.ShowScriptForConfirmation && s.GeneratedScript != nil:
		return PanelScriptConfirmation
	case s.ShowBannerForConfirmation && s.BannerURL != "":
		return PanelBannerConfirmation
	case s.ShowAudioForConfirmation && s.AudioURL != "":
		return PanelAudioConfirmation
	default:
		return PanelNone
	}
}

// DefaultLanguages is the language catalogue offered before the backend sends
// its own list.
func DefaultLanguages() []api.Language {
	return []api.Language{
		{Code: "en", Name: "English"},
		{Code: "zh", Name: "Chinese (Mandarin)"},
		{Code: "hi", Name: "Hindi"},
		{Code: "es", Name: "Spanish"},
		{Code: "fr", Name: "French"},
		{Code: "ar", Name: "Arabic"},
		{Code: "bn", Name: "Bengali"},
		{Code: "ru", Name: "Russian"},
		{Code: "pt", Name: "Portuguese"},
		{Code: "id", Name: "Indonesian"},
	}
}
