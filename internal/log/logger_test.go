package log

import (
	"testing"
)

func TestAppendAndReadAll(t *testing.T) {
	tmpDir := t.TempDir()

	logger, err := NewLogger(tmpDir)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	events := []LogEvent{
		{Event: EventSessionCreated, SessionID: "s1"},
		{Event: EventChatSubmitted, SessionID: "s1", ProcessType: "script_generation"},
		{Event: EventPollDone, SessionID: "s1", Polls: 7},
	}
	for _, e := range events {
		if err := logger.Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("got %d events, want %d", len(got), len(events))
	}
	for i, e := range events {
		if got[i].Event != e.Event || got[i].SessionID != e.SessionID {
			t.Errorf("event %d = %+v, want %+v", i, got[i], e)
		}
		if got[i].Time.IsZero() {
			t.Errorf("event %d has no timestamp", i)
		}
	}
	if got[2].Polls != 7 {
		t.Errorf("Polls: got %d, want 7", got[2].Polls)
	}
}

func TestReadAllMissingFile(t *testing.T) {
	logger, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	events, err := logger.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll on missing file failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events, want none", len(events))
	}
}
