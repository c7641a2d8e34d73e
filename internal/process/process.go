// Package process runs AI analysis over synced transcripts: action items
// into the day document, summaries into project documents, and notes
// backfill for transcripts that came in without any.
package process

import (
	"context"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/analyze"
	"github.com/starford/ansuz/internal/daily"
	"github.com/starford/ansuz/internal/frontmatter"
	"github.com/starford/ansuz/internal/project"
	"github.com/starford/ansuz/internal/transcript"
	"github.com/starford/ansuz/internal/vault"
)

const transcriptSectionHeading = "## Transcript"

// minTranscriptChars is the shortest transcript worth analyzing. Shorter
// files stay unprocessed so a later, fuller sync can pick them up.
const minTranscriptChars = 100

// Processor analyzes unprocessed transcripts and distributes the results.
type Processor struct {
	store         vault.Provider
	folder        string
	projectsIndex string
	daily         *daily.Aggregator
	projects      *project.Updater
	analyzer      analyze.Analyzer
	logger        *slog.Logger
}

// Config wires a Processor.
type Config struct {
	Store         vault.Provider
	Folder        string // transcripts folder, vault-relative
	ProjectsIndex string // projects index document, vault-relative
	Daily         *daily.Aggregator
	Projects      *project.Updater
	Analyzer      analyze.Analyzer
	Logger        *slog.Logger
}

// New returns a Processor.
func New(cfg Config) *Processor {
	return &Processor{
		store:         cfg.Store,
		folder:        cfg.Folder,
		projectsIndex: cfg.ProjectsIndex,
		daily:         cfg.Daily,
		projects:      cfg.Projects,
		analyzer:      cfg.Analyzer,
		logger:        cfg.Logger,
	}
}

// ListUnprocessed returns the vault-relative paths of transcripts whose
// frontmatter carries processed: false, sorted by path. With olderThan > 0
// only transcripts whose meeting date lies before now minus olderThan are
// returned; transcripts without a parsable date always qualify.
func ListUnprocessed(store vault.Provider, folder string, olderThan time.Duration) ([]string, error) {
	files, err := store.List(folder)
	if err != nil {
		return nil, err
	}

	var cutoff time.Time
	if olderThan > 0 {
		cutoff = time.Now().Add(-olderThan)
	}

	var out []string
	for _, f := range files {
		data, err := store.Read(f.Path)
		if err != nil {
			return nil, err
		}
		fields, _ := frontmatter.Parse(string(data))

		v, ok := fields.Get("processed")
		flag, isBool := v.(bool)
		if !ok || !isBool || flag {
			continue
		}

		if !cutoff.IsZero() {
			if date, err := time.Parse("2006-01-02", fields.GetString("date")); err == nil && !date.Before(cutoff) {
				continue
			}
		}
		out = append(out, f.Path)
	}
	sort.Strings(out)
	return out, nil
}

// ProcessFile analyzes one transcript and applies the results: a checklist
// in the day document, dated summaries in project documents, and the notes
// placeholder replaced when the meeting came in without notes. The file is
// then marked processed, even when analysis produced nothing. Returns
// whether the file was processed.
func (p *Processor) ProcessFile(ctx context.Context, file string) (bool, error) {
	p.logger.Info("processing transcript", slog.String("path", file))

	data, err := p.store.Read(file)
	if err != nil {
		return false, err
	}
	content := string(data)
	fields, body := frontmatter.Parse(content)

	if fields.GetBool("processed") {
		p.logger.Debug("already processed", slog.String("path", file))
		return false, nil
	}

	title := fields.GetString("title")
	if title == "" {
		title = "Unknown Meeting"
	}
	date := fields.GetString("date")

	text := transcriptText(body)
	if len(text) < minTranscriptChars {
		p.logger.Warn("transcript too short", slog.String("path", file))
		return false, nil
	}

	analysis, err := p.analyzer.Analyze(ctx, analyze.Request{
		Title:         title,
		Transcript:    text,
		ProjectsIndex: p.loadProjectsIndex(),
	})
	if err != nil {
		// A failed analysis still marks the file processed so a broken
		// transcript cannot wedge the queue.
		p.logger.Error("analysis failed", slog.String("path", file), slog.Any("error", err))
		analysis = analyze.Analysis{}
	}

	if len(analysis.ActionItems) > 0 {
		if _, err := p.daily.AddActionItems(date, title, analysis.ActionItems); err != nil {
			return false, err
		}
	}

	for _, u := range analysis.ProjectUpdates {
		if _, err := p.projects.AddMeetingSummary(u.File, date, title, u.Summary); err != nil {
			return false, err
		}
	}

	if summary := bulleted(analysis.Summary); summary != "" {
		if strings.Contains(content, transcript.NotesPlaceholder) {
			content = strings.Replace(content, transcript.NotesPlaceholder, summary, 1)
			p.logger.Info("backfilled notes", slog.String("path", file))
		}
	}

	changes := frontmatter.NewFields()
	changes.Set("processed", true)
	updated := frontmatter.Update(content, changes)
	if err := p.store.Write(file, []byte(updated)); err != nil {
		return false, err
	}
	p.logger.Info("marked processed", slog.String("path", file))
	return true, nil
}

// ProcessAll runs ProcessFile over every path, continuing past per-file
// failures. Returns how many files were processed.
func (p *Processor) ProcessAll(ctx context.Context, files []string) (int, error) {
	processed := 0
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		done, err := p.ProcessFile(ctx, f)
		if err != nil {
			p.logger.Error("processing failed", slog.String("path", f), slog.Any("error", err))
			continue
		}
		if done {
			processed++
		}
	}
	return processed, nil
}

// ResolveFile accepts either a vault-relative path or a bare filename in
// the transcripts folder.
func (p *Processor) ResolveFile(name string) (string, bool) {
	if p.store.Exists(name) {
		return name, true
	}
	candidate := path.Join(p.folder, name)
	if p.store.Exists(candidate) {
		return candidate, true
	}
	return "", false
}

func (p *Processor) loadProjectsIndex() string {
	if p.projectsIndex == "" {
		return ""
	}
	data, err := p.store.Read(p.projectsIndex)
	if err != nil {
		return ""
	}
	return string(data)
}

// transcriptText returns the text after the transcript heading, or the
// whole body when the section is absent.
func transcriptText(body string) string {
	if i := strings.Index(body, transcriptSectionHeading); i >= 0 {
		return strings.TrimSpace(body[i+len(transcriptSectionHeading):])
	}
	return strings.TrimSpace(body)
}

// bulleted prefixes every non-blank summary line with a list dash.
func bulleted(summary string) string {
	var lines []string
	for _, line := range strings.Split(summary, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, "- "+line)
	}
	return strings.Join(lines, "\n")
}
