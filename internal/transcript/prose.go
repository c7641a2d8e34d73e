package transcript

import (
	"strings"

	"github.com/starford/ansuz/internal/granola"
)

const (
	// paragraphMaxEntries closes a paragraph regardless of punctuation.
	paragraphMaxEntries = 10
	// paragraphMinChars is how much accumulated text a sentence break needs
	// before it closes a paragraph.
	paragraphMinChars = 500
)

// Prose joins transcript entry texts into flowing paragraphs. Consecutive
// entries are grouped greedily: a paragraph closes once it holds
// paragraphMaxEntries entries, or when an entry ends in sentence-terminal
// punctuation and the paragraph has grown past paragraphMinChars.
func Prose(entries []granola.Entry) string {
	var texts []string
	for _, e := range entries {
		if t := granola.EntryText(e); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return ""
	}

	var paragraphs []string
	var current []string
	for _, text := range texts {
		current = append(current, text)
		joined := strings.Join(current, " ")
		if len(current) >= paragraphMaxEntries ||
			(endsSentence(text) && len(joined) > paragraphMinChars) {
			paragraphs = append(paragraphs, joined)
			current = nil
		}
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}

	return strings.Join(paragraphs, "\n\n")
}

func endsSentence(text string) bool {
	return strings.HasSuffix(text, ".") ||
		strings.HasSuffix(text, "!") ||
		strings.HasSuffix(text, "?")
}
