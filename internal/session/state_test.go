package session

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseStateAcceptsObjectAndStringEncodings(t *testing.T) {
	object := json.RawMessage(`{"stage":"script","show_script_for_confirmation":true}`)
	st, err := ParseState(object)
	if err != nil {
		t.Fatalf("ParseState(object) failed: %v", err)
	}
	if st.Stage != "script" || !st.ShowScriptForConfirmation {
		t.Errorf("object decode = %+v", st)
	}

	asString := json.RawMessage(`"{\"stage\":\"script\",\"show_script_for_confirmation\":true}"`)
	st2, err := ParseState(asString)
	if err != nil {
		t.Fatalf("ParseState(string) failed: %v", err)
	}
	if st2.Stage != st.Stage || st2.ShowScriptForConfirmation != st.ShowScriptForConfirmation {
		t.Errorf("string decode = %+v, want same as object decode", st2)
	}
}

func TestParseStateEmptyAndNullReturnNil(t *testing.T) {
	for _, raw := range []json.RawMessage{nil, json.RawMessage(``), json.RawMessage(`null`), json.RawMessage(`""`)} {
		st, err := ParseState(raw)
		if err != nil {
			t.Errorf("ParseState(%q) error: %v", raw, err)
		}
		if st != nil {
			t.Errorf("ParseState(%q) = %+v, want nil", raw, st)
		}
	}
}

func TestParseStateMalformedReturnsError(t *testing.T) {
	for _, raw := range []json.RawMessage{json.RawMessage(`{garbage`), json.RawMessage(`"{not json"`)} {
		if _, err := ParseState(raw); err == nil {
			t.Errorf("ParseState(%q) = nil error, want parse failure", raw)
		}
	}
}

func TestActivePanelRequiresPayload(t *testing.T) {
	st := &State{ShowScriptForConfirmation: true}
	if got := st.ActivePanel(); got != PanelNone {
		t.Errorf("flag without payload: panel = %v, want none", got)
	}

	st.GeneratedScript = &Script{Title: "Ep 1"}
	if got := st.ActivePanel(); got != PanelScriptConfirmation {
		t.Errorf("flag with payload: panel = %v, want script", got)
	}
}

func TestActivePanelPrefersEarliestPipelineStage(t *testing.T) {
	st := &State{
		ShowSourcesForSelection:   true,
		SearchResults:             []Source{{Title: "a"}},
		ShowScriptForConfirmation: true,
		GeneratedScript:           &Script{Title: "t"},
		ShowBannerForConfirmation: true,
		BannerURL:                 "b.png",
		ShowAudioForConfirmation:  true,
		AudioURL:                  "a.mp3",
	}
	if got := st.ActivePanel(); got != PanelSourceSelection {
		t.Errorf("panel = %v, want sources to win the tie", got)
	}

	st.ShowSourcesForSelection = false
	if got := st.ActivePanel(); got != PanelScriptConfirmation {
		t.Errorf("panel = %v, want script next", got)
	}

	st.ShowScriptForConfirmation = false
	if got := st.ActivePanel(); got != PanelBannerConfirmation {
		t.Errorf("panel = %v, want banner next", got)
	}
}

func TestActivePanelNilState(t *testing.T) {
	var st *State
	if got := st.ActivePanel(); got != PanelNone {
		t.Errorf("nil state panel = %v, want none", got)
	}
}

func TestScriptDecodesStringEncoding(t *testing.T) {
	var s Script
	if err := json.Unmarshal([]byte(`"INTRO\n[Alex]: Hello"`), &s); err != nil {
		t.Fatalf("unmarshal string script: %v", err)
	}
	if s.Raw != "INTRO\n[Alex]: Hello" {
		t.Errorf("Raw = %q", s.Raw)
	}
	if got := s.Text(); got != s.Raw {
		t.Errorf("Text() = %q, want raw passthrough", got)
	}
}

func TestScriptTextFormatsDialog(t *testing.T) {
	s := &Script{
		Title: "AI Weekly",
		Sections: []ScriptSection{
			{
				Type:  "intro",
				Title: "Opening",
				Dialog: []DialogLine{
					{Speaker: "Alex", Text: "Welcome back."},
					{Speaker: "Sam", Text: "Great to be here."},
				},
			},
			{
				Type: "outro",
				Dialog: []DialogLine{
					{Speaker: "Alex", Text: "See you next week."},
				},
			},
		},
	}

	text := s.Text()
	if !strings.HasPrefix(text, "AI Weekly") {
		t.Errorf("text should start with the title: %q", text)
	}
	for _, want := range []string{" Opening\n", "[Alex]: Welcome back.\n", "[Sam]: Great to be here.\n", " outro\n", "[Alex]: See you next week.\n"} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}
}

func TestStateTitleFallbacks(t *testing.T) {
	var st *State
	if got := st.Title(); got != "AI Podcast Studio" {
		t.Errorf("nil state title = %q", got)
	}

	st = &State{PodcastInfo: &PodcastInfo{Topic: "Quantum computing"}}
	if got := st.Title(); got != "Quantum computing" {
		t.Errorf("topic title = %q", got)
	}

	st.GeneratedScript = &Script{Title: "Qubits 101"}
	if got := st.Title(); got != "Qubits 101" {
		t.Errorf("script title should win: %q", got)
	}
}

func TestDefaultLanguages(t *testing.T) {
	langs := DefaultLanguages()
	if len(langs) != 10 {
		t.Fatalf("len = %d, want 10", len(langs))
	}
	if langs[0].Code != "en" || langs[0].Name != "English" {
		t.Errorf("first language = %+v, want English", langs[0])
	}
}
