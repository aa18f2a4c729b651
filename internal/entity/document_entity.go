package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentStatus string

const (
	DocumentStatusProcessing DocumentStatus = "PROCESSING"
	DocumentStatusComplete   DocumentStatus = "COMPLETE"
	DocumentStatusError      DocumentStatus = "ERROR"
)

type Document struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	FileName        string
	FilePath        string
	ProcessingError *string

	// ChunkCount is populated by repository queries that join chunks.
	ChunkCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Status is derived, never stored: an error wins over everything,
// otherwise the presence of chunks marks the document as done.
func (d *Document) Status() DocumentStatus {
	if d.ProcessingError != nil {
		return DocumentStatusError
	}
	if d.ChunkCount > 0 {
		return DocumentStatusComplete
	}
	return DocumentStatusProcessing
}
