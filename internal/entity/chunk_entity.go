package entity

import (
	"time"

	"github.com/google/uuid"
)

type Chunk struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	Text       string
	Embedding  []float32
	Index      int
	Metadata   map[string]interface{}

	// DocumentName is populated by queries that join documents.
	DocumentName string

	CreatedAt time.Time
}
