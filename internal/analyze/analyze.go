// Package analyze extracts structured meeting intelligence from transcript
// text using the Anthropic Messages API.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	// transcriptMaxChars caps how much transcript text is sent per request.
	transcriptMaxChars = 15000
	maxTokens          = 2000
)

// Analysis is the structured result extracted from one meeting.
type Analysis struct {
	ActionItems    []string        `json:"action_items"`
	ProjectUpdates []ProjectUpdate `json:"project_updates"`
	Summary        string          `json:"summary"`
}

// ProjectUpdate ties a summary to a known project document.
type ProjectUpdate struct {
	Project string `json:"project"`
	File    string `json:"file"`
	Summary string `json:"summary"`
}

// Request carries one meeting to analyze. ProjectsIndex is the raw text of
// the vault's projects index document, handed to the model for routing.
type Request struct {
	Title         string
	Transcript    string
	ProjectsIndex string
}

// Analyzer produces an Analysis for a meeting transcript.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (Analysis, error)
}

// Client is an Analyzer backed by the Anthropic Messages API.
type Client struct {
	api    anthropic.Client
	model  anthropic.Model
	logger *slog.Logger
}

// NewClient returns a Client using the given API key and model name.
func NewClient(apiKey, model string, logger *slog.Logger) *Client {
	return &Client{
		api:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(model),
		logger: logger,
	}
}

// Analyze sends the transcript to the model and parses its JSON reply.
func (c *Client) Analyze(ctx context.Context, req Request) (Analysis, error) {
	prompt := buildPrompt(req)

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return Analysis{}, fmt.Errorf("messages request: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	analysis, err := ParseAnalysis(b.String())
	if err != nil {
		c.logger.Warn("unparsable analysis reply", slog.Any("error", err))
		return Analysis{}, err
	}
	return analysis, nil
}

// ParseAnalysis decodes the model reply, tolerating a markdown code fence
// around the JSON object.
func ParseAnalysis(reply string) (Analysis, error) {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(s), &analysis); err != nil {
		return Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	return analysis, nil
}

func buildPrompt(req Request) string {
	transcript := req.Transcript
	if runes := []rune(transcript); len(runes) > transcriptMaxChars {
		transcript = string(runes[:transcriptMaxChars])
	}

	var b strings.Builder
	b.WriteString("Analyze this meeting transcript and extract structured information.\n\n")
	fmt.Fprintf(&b, "Meeting Title: %s\n\n", req.Title)
	fmt.Fprintf(&b, "## Projects Index (for routing)\n%s\n\n", req.ProjectsIndex)
	fmt.Fprintf(&b, "## Transcript\n%s\n\n---\n\n", transcript)
	b.WriteString(`Please analyze and return a JSON object with:

1. "action_items": List of specific action items mentioned (tasks someone needs to do).
   - Only include concrete, actionable items
   - Format: "Person: Task" or just "Task" if person unclear
   - Maximum 10 items

2. "project_updates": List of objects for relevant projects from the index.
   - Match based on keywords in the projects index
   - Each object: {"project": "Project Name", "file": "path/to/file.md", "summary": "2-3 bullet points of relevant discussion"}
   - Only include if there's meaningful content for that project
   - Maximum 3 projects

3. "summary": A brief 3-5 bullet point summary of the meeting (for daily notes).

Return ONLY valid JSON, no markdown formatting or explanation.`)
	return b.String()
}
