package dto

import "github.com/google/uuid"

// PublishIngestDocumentMessage is the payload queued when a document is
// uploaded and waiting for extraction.
type PublishIngestDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
