package api

import "github.com/starford/ansuz/internal/syncservice"

// TranscriptInfo is a transcript metadata item (aliased from the service layer).
type TranscriptInfo = syncservice.TranscriptInfo

// TranscriptDetail is a full transcript response (aliased from the service layer).
type TranscriptDetail = syncservice.TranscriptDetail

// UnprocessedResponse wraps the unprocessed transcript listing.
type UnprocessedResponse struct {
	Count          int              `json:"count"`
	OlderThanHours int              `json:"older_than_hours"`
	Transcripts    []TranscriptInfo `json:"transcripts"`
}
