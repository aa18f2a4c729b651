package contract

import (
	"context"

	"github.com/gecBurton/dosac/internal/entity"
	"github.com/gecBurton/dosac/internal/repository/specification"

	"github.com/google/uuid"
)

type ChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.Chunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chunk, error)
	// FindOneOwned loads a chunk only if its parent document belongs to the user.
	FindOneOwned(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*entity.Chunk, error)
	CountByDocumentId(ctx context.Context, documentId uuid.UUID) (int64, error)
	// SearchByVector returns the user's topK nearest chunks by cosine
	// distance. Rows from other users' documents are excluded by the query
	// itself, not by post-filtering.
	SearchByVector(ctx context.Context, userId uuid.UUID, vector []float32, topK int) ([]*entity.Chunk, error)
}
