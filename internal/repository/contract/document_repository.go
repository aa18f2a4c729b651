package contract

import (
	"context"

	"github.com/gecBurton/dosac/internal/entity"
	"github.com/gecBurton/dosac/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	Update(ctx context.Context, document *entity.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	// FindAllWithChunkCounts lists a user's documents with ChunkCount
	// populated so the derived status can be computed without extra queries.
	FindAllWithChunkCounts(ctx context.Context, userId uuid.UUID) ([]*entity.Document, error)
	// DeleteByName removes the user's document with that exact file name.
	// Returns false when no such document exists for the user.
	DeleteByName(ctx context.Context, userId uuid.UUID, exactName string) (bool, error)
}
