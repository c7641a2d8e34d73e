package granola

import (
	"reflect"
	"testing"
	"time"
)

func TestNotesText_Priority(t *testing.T) {
	doc := Document{NotesMarkdown: "md", NotesPlain: "plain", Notes: "raw"}
	if got := NotesText(doc); got != "md" {
		t.Errorf("NotesText = %q, want md", got)
	}

	doc.NotesMarkdown = ""
	if got := NotesText(doc); got != "plain" {
		t.Errorf("NotesText = %q, want plain", got)
	}

	// Structured values are skipped, not stringified.
	doc.NotesPlain = map[string]any{"blocks": []any{}}
	if got := NotesText(doc); got != "raw" {
		t.Errorf("NotesText = %q, want raw", got)
	}

	if got := NotesText(Document{}); got != "" {
		t.Errorf("NotesText = %q, want empty", got)
	}
}

func TestAttendees_MapShape(t *testing.T) {
	doc := Document{People: map[string]any{
		"attendees": []any{
			map[string]any{"email": "alice@example.com", "name": "Alice"},
			map[string]any{"name": "Bob"},
			"carol@example.com",
		},
	}}
	want := []string{"alice@example.com", "Bob", "carol@example.com"}
	if got := Attendees(doc); !reflect.DeepEqual(got, want) {
		t.Errorf("Attendees = %v, want %v", got, want)
	}
}

func TestAttendees_ListShape(t *testing.T) {
	doc := Document{People: []any{"alice", map[string]any{"email": "bob@example.com"}}}
	want := []string{"alice", "bob@example.com"}
	if got := Attendees(doc); !reflect.DeepEqual(got, want) {
		t.Errorf("Attendees = %v, want %v", got, want)
	}
}

func TestAttendees_MissingOrOddShapes(t *testing.T) {
	if got := Attendees(Document{}); got != nil {
		t.Errorf("Attendees = %v, want nil", got)
	}
	if got := Attendees(Document{People: "not-a-list"}); got != nil {
		t.Errorf("Attendees = %v, want nil", got)
	}
}

func TestMeetingTime_FallbackChain(t *testing.T) {
	entries := []Entry{{StartTimestamp: "2026-01-15T10:00:00Z"}}
	doc := Document{CreatedAt: "2026-01-14T09:00:00Z"}

	got := MeetingTime(entries, doc)
	if !got.Equal(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("MeetingTime = %v, want entry start", got)
	}

	got = MeetingTime([]Entry{{StartTimestamp: "garbage"}}, doc)
	if !got.Equal(time.Date(2026, 1, 14, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("MeetingTime = %v, want created_at", got)
	}

	before := time.Now()
	got = MeetingTime(nil, Document{})
	if got.Before(before) {
		t.Errorf("MeetingTime = %v, want current time", got)
	}
}

func TestDuration(t *testing.T) {
	entries := []Entry{
		{StartTimestamp: "2026-01-15T10:00:00Z"},
		{EndTimestamp: "2026-01-15T10:10:30Z"},
	}
	if got := Duration(entries); got != 10 {
		t.Errorf("Duration = %d, want 10 (630s rounded down)", got)
	}

	if got := Duration(entries[:1]); got != 0 {
		t.Errorf("Duration(one entry) = %d, want 0", got)
	}
	if got := Duration([]Entry{{StartTimestamp: "2026-01-15T10:00:00Z"}, {}}); got != 0 {
		t.Errorf("Duration(missing end) = %d, want 0", got)
	}
	if got := Duration(nil); got != 0 {
		t.Errorf("Duration(nil) = %d, want 0", got)
	}
}

func TestEntryText(t *testing.T) {
	if got := EntryText(Entry{Text: "hello"}); got != "hello" {
		t.Errorf("EntryText = %q", got)
	}
	if got := EntryText(Entry{Text: map[string]any{"content": "nested"}}); got != "nested" {
		t.Errorf("EntryText = %q, want nested", got)
	}
	if got := EntryText(Entry{Text: map[string]any{"text": "alt"}}); got != "alt" {
		t.Errorf("EntryText = %q, want alt", got)
	}
	if got := EntryText(Entry{Text: 42}); got != "" {
		t.Errorf("EntryText = %q, want empty", got)
	}
}

func TestParseTimestamp_NaiveAndZoned(t *testing.T) {
	if _, ok := ParseTimestamp("2026-01-15T10:00:00Z"); !ok {
		t.Error("zoned timestamp rejected")
	}
	if _, ok := ParseTimestamp("2026-01-15T10:00:00"); !ok {
		t.Error("naive timestamp rejected")
	}
	if _, ok := ParseTimestamp(""); ok {
		t.Error("empty timestamp accepted")
	}
	if _, ok := ParseTimestamp("not-a-time"); ok {
		t.Error("garbage timestamp accepted")
	}
}
