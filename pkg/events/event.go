// Package events defines the bus contract plus the document lifecycle
// events published during ingestion.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is anything that can be put on the bus.
type Event interface {
	// EventType returns the unique code for this event, e.g.
	// "DOCUMENT_PROCESSED". It doubles as the subject suffix.
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a ready-made implementation for ad-hoc events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	TypeDocumentUploaded  = "DOCUMENT_UPLOADED"
	TypeDocumentProcessed = "DOCUMENT_PROCESSED"
	TypeDocumentFailed    = "DOCUMENT_FAILED"
	TypeDocumentDeleted   = "DOCUMENT_DELETED"
)

// NewDocumentUploaded fires when a raw file has been accepted and queued
// for extraction.
func NewDocumentUploaded(userID, documentID uuid.UUID, fileName string) Event {
	return documentEvent(TypeDocumentUploaded, userID, documentID, fileName, nil)
}

// NewDocumentProcessed fires when a document's chunks are embedded and
// stored, i.e. the document became searchable.
func NewDocumentProcessed(userID, documentID uuid.UUID, fileName string, chunkCount int) Event {
	return documentEvent(TypeDocumentProcessed, userID, documentID, fileName, map[string]interface{}{
		"chunk_count": chunkCount,
	})
}

// NewDocumentFailed fires when extraction or embedding went wrong; the
// reason is what gets shown to the owner.
func NewDocumentFailed(userID, documentID uuid.UUID, fileName, reason string) Event {
	return documentEvent(TypeDocumentFailed, userID, documentID, fileName, map[string]interface{}{
		"reason": reason,
	})
}

func NewDocumentDeleted(userID, documentID uuid.UUID, fileName string) Event {
	return documentEvent(TypeDocumentDeleted, userID, documentID, fileName, nil)
}

func documentEvent(eventType string, userID, documentID uuid.UUID, fileName string, extra map[string]interface{}) Event {
	data := map[string]interface{}{
		"user_id":     userID.String(),
		"document_id": documentID.String(),
		"file_name":   fileName,
	}
	for k, v := range extra {
		data[k] = v
	}
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
