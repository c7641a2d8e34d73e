// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the Granola sync tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/syncservice"
)

// Server wraps the MCP server with the sync tools.
type Server struct {
	mcp *server.MCPServer
	svc *syncservice.Service
}

// New creates a new MCP server with all sync tools registered.
func New(svc *syncservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"granola-sync",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("sync_transcripts",
		mcp.WithDescription("Sync new meeting transcripts from Granola's local cache to the vault. "+
			"This will create markdown files for new transcripts and add meeting summaries "+
			"to daily reflection files. Returns statistics about what was synced."),
	), s.syncTranscripts)

	s.mcp.AddTool(mcp.NewTool("list_unprocessed_transcripts",
		mcp.WithDescription("List all unprocessed meeting transcripts. You can optionally filter to "+
			"only show transcripts older than a certain number of hours. Returns a list "+
			"of transcript files with their metadata (title, date, duration, attendees)."),
		mcp.WithNumber("older_than_hours",
			mcp.Description("Only return transcripts older than this many hours (default: 0 = all)")),
	), s.listUnprocessed)

	s.mcp.AddTool(mcp.NewTool("get_transcript",
		mcp.WithDescription("Get the full content of a specific transcript file by filename. "+
			"Returns the complete transcript including frontmatter, notes, and transcript text."),
		mcp.WithString("filename", mcp.Required(),
			mcp.Description("The filename of the transcript (e.g., '2026-01-15 - Team Standup.md')")),
	), s.getTranscript)

	s.mcp.AddTool(mcp.NewTool("get_granola_cache_info",
		mcp.WithDescription("Get information about Granola's local cache, including the number of "+
			"documents and transcripts available. Useful for debugging or checking "+
			"if new meetings are available to sync."),
	), s.cacheInfo)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// resultJSON wraps a payload in a status-discriminated success result.
func resultJSON(payload map[string]any) *mcp.CallToolResult {
	body := map[string]any{"status": "success"}
	for k, v := range payload {
		body[k] = v
	}
	out, _ := json.MarshalIndent(body, "", "  ")
	return mcp.NewToolResultText(string(out))
}

// resultError wraps a message in a status-discriminated error result.
func resultError(msg string) *mcp.CallToolResult {
	out, _ := json.Marshal(map[string]string{"status": "error", "message": msg})
	return mcp.NewToolResultText(string(out))
}

func (s *Server) syncTranscripts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.svc.Sync(ctx)
	if err != nil {
		return resultError(err.Error()), nil
	}
	return resultJSON(map[string]any{
		"message":             "Sync completed",
		"transcripts_created": stats.TranscriptsCreated,
		"transcripts_skipped": stats.TranscriptsSkipped,
		"daily_entries_added": stats.DailyEntriesAdded,
		"errors":              stats.Errors,
	}), nil
}

func (s *Server) listUnprocessed(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	hours := req.GetInt("older_than_hours", 0)

	transcripts, err := s.svc.ListUnprocessed(hours)
	if err != nil {
		return resultError(err.Error()), nil
	}
	return resultJSON(map[string]any{
		"count":            len(transcripts),
		"older_than_hours": hours,
		"transcripts":      transcripts,
	}), nil
}

func (s *Server) getTranscript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename, err := req.RequireString("filename")
	if err != nil || filename == "" {
		return resultError("filename is required"), nil
	}

	detail, err := s.svc.GetTranscript(filename)
	if err != nil {
		return resultError(fmt.Sprintf("Transcript not found: %s", filename)), nil
	}
	return resultJSON(map[string]any{
		"filename":    detail.Filename,
		"frontmatter": detail.Frontmatter,
		"content":     detail.Content,
	}), nil
}

func (s *Server) cacheInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info := s.svc.CacheInfo()
	return resultJSON(map[string]any{
		"cache_path":        info.CachePath,
		"documents_count":   info.DocumentsCount,
		"transcripts_count": info.TranscriptsCount,
		"has_events":        info.HasEvents,
	}), nil
}
