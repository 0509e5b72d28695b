package manager

import (
	"context"
	"errors"
	"testing"
)

func TestTranscript_NotFound(t *testing.T) {
	m := New()

	_, err := m.Transcript("ghost")
	if !errors.Is(err, ErrInstanceNotFound) {
		t.Errorf("got %v, want ErrInstanceNotFound", err)
	}
}

func TestTranscript_EmptyContext(t *testing.T) {
	m := newEchoManager(t, "a")

	entries, err := m.Transcript("a")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("got %v, want empty transcript", entries)
	}
}

func TestTranscript_UppercasesRoles(t *testing.T) {
	m := newEchoManager(t, "a")

	if _, err := m.Dispatch(context.Background(), "a", "hi", Options{
		Role:         "narrator",
		SaveContext:  true,
		AppendPrompt: true,
	}); err != nil {
		t.Fatal(err)
	}

	entries, _ := m.Transcript("a")
	if len(entries) != 2 {
		t.Fatalf("transcript = %v, want 2 entries", entries)
	}
	if entries[0].Role != "NARRATOR" {
		t.Errorf("entries[0].Role = %q, want %q", entries[0].Role, "NARRATOR")
	}
	if entries[1].Role != "ASSISTANT" {
		t.Errorf("entries[1].Role = %q, want %q", entries[1].Role, "ASSISTANT")
	}
}

func TestTranscripts_CoversEveryInstance(t *testing.T) {
	m := newEchoManager(t, "a", "b")

	if _, err := m.Dispatch(context.Background(), "a", "hi", Options{SaveContext: true, AppendPrompt: true}); err != nil {
		t.Fatal(err)
	}

	all := m.Transcripts()
	if len(all) != 2 {
		t.Fatalf("got %d transcripts, want 2", len(all))
	}
	if len(all["a"]) != 2 {
		t.Errorf("a's transcript = %v, want 2 entries", all["a"])
	}
	if len(all["b"]) != 0 {
		t.Errorf("b's transcript = %v, want empty", all["b"])
	}
}
