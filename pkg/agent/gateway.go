package agent

import (
	"context"

	"github.com/google/uuid"
)

// ChunkResult is a nearest-neighbour hit from the caller's own documents.
type ChunkResult struct {
	Text         string
	Reference    string
	Index        int
	DocumentName string
}

// DocumentInfo is one row of a document listing.
type DocumentInfo struct {
	Name   string
	URI    string
	Status string
}

// ChatTranscript is a prior conversation rendered as role-tagged lines.
type ChatTranscript struct {
	Messages []TranscriptMessage
}

type TranscriptMessage struct {
	Role    string
	Content string
}

// Gateway is the data plane the tools run against. Every method takes the
// caller's user id and must never surface another user's records; the
// gateway implementation owns that filter, the tools just pass identity
// through.
type Gateway interface {
	SearchChunks(ctx context.Context, userID uuid.UUID, vector []float32, topK int) ([]ChunkResult, error)
	ListDocuments(ctx context.Context, userID uuid.UUID) ([]DocumentInfo, error)
	DeleteDocumentByName(ctx context.Context, userID uuid.UUID, exactName string) (bool, error)
	ListChats(ctx context.Context, userID uuid.UUID) ([]ChatTranscript, error)
}
