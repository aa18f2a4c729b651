package dto

import (
	"time"

	"github.com/google/uuid"
)

type DocumentResponse struct {
	Id              uuid.UUID `json:"id"`
	FileName        string    `json:"file_name"`
	Status          string    `json:"status"`
	ProcessingError *string   `json:"processing_error,omitempty"`
	ChunkCount      int       `json:"chunk_count"`
	URL             string    `json:"url"`
	CreatedAt       time.Time `json:"created_at"`
}

type ChunkResponse struct {
	Id           uuid.UUID              `json:"id"`
	DocumentId   uuid.UUID              `json:"document_id"`
	DocumentName string                 `json:"document_name"`
	Text         string                 `json:"text"`
	Index        int                    `json:"index"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}
