package granola

import "time"

// timestampLayouts covers the ISO-8601 shapes seen in cache snapshots, with
// and without a zone designator.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses an ISO-8601 timestamp string. The zero time and
// false are returned for empty or unparsable input.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Title returns the document title, with a fallback for untitled meetings.
func Title(doc Document) string {
	if doc.Title == "" {
		return "Untitled Meeting"
	}
	return doc.Title
}

// NotesText returns the document's notes using the priority order
// markdown, plain, raw. Only non-empty string values count; structured
// values under any of the three names are skipped.
func NotesText(doc Document) string {
	for _, candidate := range []any{doc.NotesMarkdown, doc.NotesPlain, doc.Notes} {
		if s, ok := candidate.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Attendees extracts attendee identifiers from the people field, which is
// either a map holding an "attendees" list or a bare list. Object entries
// contribute their email, falling back to their name.
func Attendees(doc Document) []string {
	switch people := doc.People.(type) {
	case map[string]any:
		list, _ := people["attendees"].([]any)
		return attendeeStrings(list)
	case []any:
		return attendeeStrings(people)
	}
	return nil
}

func attendeeStrings(items []any) []string {
	var out []string
	for _, item := range items {
		switch p := item.(type) {
		case string:
			out = append(out, p)
		case map[string]any:
			id, _ := p["email"].(string)
			if id == "" {
				id, _ = p["name"].(string)
			}
			if id != "" {
				out = append(out, id)
			}
		}
	}
	return out
}

// MeetingTime derives the meeting datetime: the first entry's start
// timestamp, else the document's creation timestamp, else the current time.
func MeetingTime(entries []Entry, doc Document) time.Time {
	if len(entries) > 0 {
		if t, ok := ParseTimestamp(entries[0].StartTimestamp); ok {
			return t
		}
	}
	if t, ok := ParseTimestamp(doc.CreatedAt); ok {
		return t
	}
	return time.Now()
}

// Duration returns the meeting length in whole minutes: the elapsed time
// between the first entry's start and the last entry's end, rounded down.
// Fewer than two entries, or a missing or unparsable timestamp, yields 0.
func Duration(entries []Entry) int {
	if len(entries) < 2 {
		return 0
	}
	start, ok := ParseTimestamp(entries[0].StartTimestamp)
	if !ok {
		return 0
	}
	end, ok := ParseTimestamp(entries[len(entries)-1].EndTimestamp)
	if !ok {
		return 0
	}
	return int(end.Sub(start).Minutes())
}

// EntryText returns the entry's text, coercing structured values by
// extracting a nested "content" or "text" field.
func EntryText(e Entry) string {
	switch t := e.Text.(type) {
	case string:
		return t
	case map[string]any:
		if s, ok := t["content"].(string); ok {
			return s
		}
		if s, ok := t["text"].(string); ok {
			return s
		}
	}
	return ""
}
