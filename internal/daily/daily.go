// Package daily maintains the per-day reflection documents: lazy template
// creation and idempotent merging of meeting summaries and action items.
package daily

import (
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/starford/ansuz/internal/splice"
	"github.com/starford/ansuz/internal/vault"
)

const (
	meetingsHeading  = "## Meetings"
	workHeading      = "## Work"
	brainDumpHeading = "## Brain Dump"

	// notesPending stands in for a meeting summary when the record carried
	// no notes at sync time.
	notesPending = "*Notes pending*"

	summaryMaxChars = 500
	summaryMaxLines = 5
	maxActionItems  = 10
)

// Aggregator manages day documents under a folder in the vault.
type Aggregator struct {
	store  vault.Provider
	folder string
	logger *slog.Logger
}

// New returns an Aggregator writing under folder (relative to the vault root).
func New(store vault.Provider, folder string, logger *slog.Logger) *Aggregator {
	return &Aggregator{store: store, folder: folder, logger: logger}
}

// Path returns the vault-relative path of the day document for date.
func (g *Aggregator) Path(date time.Time) string {
	return path.Join(g.folder, date.Format("2006-01-02")+".md")
}

// Ensure creates the day document from the template if it does not exist,
// and never overwrites one that does. Returns the vault-relative path.
func (g *Aggregator) Ensure(date time.Time) (string, error) {
	p := g.Path(date)
	if g.store.Exists(p) {
		return p, nil
	}

	template := fmt.Sprintf(`# %s (%s)

## Schedule
| Time | What |
|------|------|

---

## Work

---

## Meetings

---

## Social / Follow-ups

---

## Brain Dump

---
`, date.Format("2006-01-02"), date.Weekday())

	if err := g.store.Write(p, []byte(template)); err != nil {
		return "", err
	}
	g.logger.Info("created daily file", slog.String("path", p))
	return p, nil
}

// AddMeeting merges a meeting summary into the day document's Meetings
// section. The wiki link back to the transcript doubles as the dedup
// marker: when it already appears anywhere in the document the call is a
// no-op. Returns whether an entry was added.
func (g *Aggregator) AddMeeting(date time.Time, title, notes, transcriptPath string) (bool, error) {
	p, err := g.Ensure(date)
	if err != nil {
		return false, err
	}
	data, err := g.store.Read(p)
	if err != nil {
		return false, err
	}
	content := string(data)

	link := "[[" + strings.TrimSuffix(transcriptPath, ".md") + "]]"
	if strings.Contains(content, link) {
		g.logger.Debug("meeting already in daily file", slog.String("title", title))
		return false, nil
	}

	entry := fmt.Sprintf("\n### %s\n%s\n*→ %s*\n", title, summarize(notes), link)
	updated := splice.InsertAfterHeading(content, meetingsHeading, entry, splice.Options{
		Fallback: brainDumpHeading,
	})
	if err := g.store.Write(p, []byte(updated)); err != nil {
		return false, err
	}
	g.logger.Info("added meeting to daily file",
		slog.String("title", title), slog.String("path", p))
	return true, nil
}

// AddActionItems splices a checklist under the Work section, guarded by a
// per-meeting marker line. The day document must already exist and carry a
// Work section; at most maxActionItems items are written. Returns whether
// anything was added.
func (g *Aggregator) AddActionItems(date, title string, items []string) (bool, error) {
	if len(items) == 0 {
		return false, nil
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false, nil
	}

	p := g.Path(day)
	if !g.store.Exists(p) {
		g.logger.Warn("daily file not found", slog.String("path", p))
		return false, nil
	}
	data, err := g.store.Read(p)
	if err != nil {
		return false, err
	}
	content := string(data)

	if !splice.HasSection(content, workHeading) {
		return false, nil
	}
	marker := fmt.Sprintf("*From %s:*", title)
	if strings.Contains(content, marker) {
		g.logger.Debug("action items already in daily file", slog.String("title", title))
		return false, nil
	}

	var b strings.Builder
	b.WriteString("\n" + marker + "\n")
	for i, item := range items {
		if i >= maxActionItems {
			break
		}
		b.WriteString("- [ ] " + item + "\n")
	}

	updated := splice.InsertAfterHeading(content, workHeading, b.String(), splice.Options{
		StopAtRule: true,
	})
	if err := g.store.Write(p, []byte(updated)); err != nil {
		return false, err
	}
	g.logger.Info("added action items to daily file",
		slog.String("title", title), slog.String("path", p))
	return true, nil
}

// summarize trims notes for the day view: truncated to summaryMaxChars with
// an ellipsis, reformatted as bullets (at most summaryMaxLines lines), with
// a fixed placeholder for empty notes.
func summarize(notes string) string {
	s := strings.TrimSpace(notes)
	if s == "" {
		return notesPending
	}
	if runes := []rune(s); utf8.RuneCountInString(s) > summaryMaxChars {
		s = string(runes[:summaryMaxChars]) + "..."
	}

	if strings.HasPrefix(s, "-") {
		return s
	}
	var bullets []string
	for _, line := range strings.Split(s, "\n") {
		if len(bullets) >= summaryMaxLines {
			break
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, "-"):
			bullets = append(bullets, line)
		default:
			bullets = append(bullets, "- "+line)
		}
	}
	if len(bullets) == 0 {
		return s
	}
	return strings.Join(bullets, "\n")
}
