package frontmatter

import (
	"reflect"
	"strings"
	"testing"
)

func TestParse_FieldsAndBody(t *testing.T) {
	text := "---\ndate: 2026-01-15\ntitle: Team Standup\nprocessed: false\n---\n\n## Notes\n\nBody text.\n"
	fields, body := Parse(text)

	if got := fields.GetString("title"); got != "Team Standup" {
		t.Errorf("title = %q, want %q", got, "Team Standup")
	}
	if fields.GetBool("processed") {
		t.Error("processed = true, want false")
	}
	if body != "## Notes\n\nBody text.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	text := "# Just a heading\nSome text.\n"
	fields, body := Parse(text)
	if fields.Len() != 0 {
		t.Errorf("expected empty fields, got keys %v", fields.Keys())
	}
	if body != text {
		t.Errorf("body = %q, want original text", body)
	}
}

func TestParse_UnclosedDelimiter(t *testing.T) {
	text := "---\ntitle: dangling\n"
	fields, body := Parse(text)
	if fields.Len() != 0 {
		t.Errorf("expected empty fields, got keys %v", fields.Keys())
	}
	if body != text {
		t.Errorf("body = %q, want original text", body)
	}
}

func TestParse_InvalidYAMLFallback(t *testing.T) {
	text := "---\n: invalid: yaml: {{{\n---\nBody\n"
	fields, body := Parse(text)
	if fields.Len() != 0 {
		t.Error("expected empty fields on invalid YAML")
	}
	if body != text {
		t.Errorf("body = %q, want original text", body)
	}
}

func TestFormat_SpecialCases(t *testing.T) {
	fields := NewFields()
	fields.Set("date", "2026-01-15")
	fields.Set("title", "Planning: Q3 roadmap")
	fields.Set("processed", false)
	fields.Set("duration_minutes", 45)
	fields.Set("attendees", []string{"alice@example.com", "bob@example.com"})

	got := Format(fields)
	want := strings.Join([]string{
		"---",
		"date: 2026-01-15",
		`title: "Planning: Q3 roadmap"`,
		"processed: false",
		"duration_minutes: 45",
		"attendees:",
		"  - alice@example.com",
		"  - bob@example.com",
		"---",
	}, "\n")
	if got != want {
		t.Errorf("Format =\n%s\nwant\n%s", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	fields := NewFields()
	fields.Set("date", "2026-01-15")
	fields.Set("title", `He said "hi": loudly`)
	fields.Set("source", "granola")
	fields.Set("granola_id", "doc-abc-123")
	fields.Set("duration_minutes", 30)
	fields.Set("entry_count", 12)
	fields.Set("processed", true)
	fields.Set("attendees", []string{"alice", "bob"})

	parsed, body := Parse(Format(fields))
	if body != "" {
		t.Errorf("body = %q, want empty", body)
	}
	if !reflect.DeepEqual(parsed.Keys(), fields.Keys()) {
		t.Errorf("key order = %v, want %v", parsed.Keys(), fields.Keys())
	}
	for _, key := range fields.Keys() {
		want, _ := fields.Get(key)
		got, ok := parsed.Get(key)
		if !ok || !reflect.DeepEqual(got, want) {
			t.Errorf("field %q = %#v, want %#v", key, got, want)
		}
	}
}

func TestUpdate_MergesAndPreservesBody(t *testing.T) {
	text := "---\ntitle: Standup\nprocessed: false\n---\n\n## Notes\n\ntext\n\n---\n\n## Transcript\n\nprose\n"
	changes := NewFields()
	changes.Set("processed", true)

	got := Update(text, changes)
	if !strings.Contains(got, "processed: true") {
		t.Error("processed not flipped")
	}
	if strings.Contains(got, "processed: false") {
		t.Error("stale processed value left behind")
	}
	if !strings.HasSuffix(got, "\n\n## Notes\n\ntext\n\n---\n\n## Transcript\n\nprose\n") {
		t.Errorf("body mutated:\n%s", got)
	}
	if !strings.Contains(got, "title: Standup") {
		t.Error("existing key lost")
	}
}

func TestUpdate_AppendsNewKey(t *testing.T) {
	text := "---\ntitle: Standup\n---\nbody"
	changes := NewFields()
	changes.Set("processed", true)

	got := Update(text, changes)
	if !strings.Contains(got, "title: Standup\nprocessed: true") {
		t.Errorf("new key not appended after existing keys:\n%s", got)
	}
}

func TestUpdate_NoFrontmatterUnchanged(t *testing.T) {
	text := "plain body, no metadata"
	changes := NewFields()
	changes.Set("processed", true)
	if got := Update(text, changes); got != text {
		t.Errorf("Update = %q, want input unchanged", got)
	}
}
