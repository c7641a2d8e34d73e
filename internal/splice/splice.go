// Package splice performs structural insertion into free-form markdown
// documents. Headings and rules are recognized line-wise, never by raw
// substring search, so a heading quoted inside body text (for example a
// transcript that mentions "## Meetings") can never shift the splice point.
package splice

import "strings"

// Options controls where InsertAfterHeading places content.
type Options struct {
	// Fallback names a heading before which a brand-new section is created
	// when the target heading is absent.
	Fallback string
	// StopAtRule treats a horizontal rule line as a section boundary in
	// addition to the next second-level heading.
	StopAtRule bool
	// AtTop inserts content at the start of the section, directly after the
	// heading line, instead of at the section's end.
	AtTop bool
}

// HasSection reports whether the document contains a line equal to heading.
func HasSection(doc, heading string) bool {
	return headingLineStart(doc, heading) >= 0
}

// InsertAfterHeading splices content into the section opened by heading.
// When the heading exists, content lands inside that section: at its start
// (AtTop) or immediately before the next section boundary. When the heading
// is absent but the fallback heading exists, a new section (heading,
// content, divider) is created directly before the fallback. When neither
// exists, a fresh section is appended to the document.
//
// Callers are responsible for idempotence: the splicer performs no
// duplicate detection.
func InsertAfterHeading(doc, heading, content string, opts Options) string {
	if start := headingLineStart(doc, heading); start >= 0 {
		lineEnd := start + len(heading)
		if opts.AtTop {
			return doc[:lineEnd] + "\n" + content + doc[lineEnd:]
		}
		if b := boundaryAfter(doc, lineEnd, opts.StopAtRule); b >= 0 {
			return doc[:b] + content + doc[b:]
		}
		return strings.TrimRight(doc, " \t\r\n") + content + "\n"
	}

	if opts.Fallback != "" {
		if fb := headingLineStart(doc, opts.Fallback); fb >= 0 {
			return doc[:fb] + heading + "\n" + content + "\n---\n\n" + doc[fb:]
		}
	}

	return strings.TrimRight(doc, " \t\r\n") + "\n\n" + heading + "\n" + content
}

// headingLineStart returns the byte offset of the first line whose content
// equals heading, or -1.
func headingLineStart(doc, heading string) int {
	offset := 0
	for offset <= len(doc) {
		end := strings.IndexByte(doc[offset:], '\n')
		var line string
		if end < 0 {
			line = doc[offset:]
		} else {
			line = doc[offset : offset+end]
		}
		if strings.TrimRight(line, " \t\r") == heading {
			return offset
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return -1
}

// boundaryAfter returns the offset of the newline preceding the next section
// boundary after from: a second-level heading line, or (when stopAtRule) a
// horizontal rule line. Returns -1 when no boundary follows.
func boundaryAfter(doc string, from int, stopAtRule bool) int {
	offset := from
	for {
		next := strings.IndexByte(doc[offset:], '\n')
		if next < 0 {
			return -1
		}
		lineStart := offset + next + 1
		lineEnd := strings.IndexByte(doc[lineStart:], '\n')
		var line string
		if lineEnd < 0 {
			line = doc[lineStart:]
		} else {
			line = doc[lineStart : lineStart+lineEnd]
		}
		trimmed := strings.TrimRight(line, " \t\r")
		if strings.HasPrefix(trimmed, "## ") || (stopAtRule && trimmed == "---") {
			return lineStart - 1
		}
		offset = lineStart
	}
}
