package mapper

import (
	"encoding/json"

	"github.com/gecBurton/dosac/internal/entity"
	"github.com/gecBurton/dosac/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ChunkMapper struct{}

func NewChunkMapper() *ChunkMapper {
	return &ChunkMapper{}
}

func (m *ChunkMapper) ToModel(e *entity.Chunk) *model.Chunk {
	metadata, _ := json.Marshal(e.Metadata)
	return &model.Chunk{
		Id:         e.Id,
		DocumentId: e.DocumentId,
		Text:       e.Text,
		Embedding:  pgvector.NewVector(e.Embedding),
		Index:      e.Index,
		Metadata:   datatypes.JSON(metadata),
		CreatedAt:  e.CreatedAt,
	}
}

func (m *ChunkMapper) ToEntity(mo *model.Chunk) *entity.Chunk {
	var metadata map[string]interface{}
	if len(mo.Metadata) > 0 {
		_ = json.Unmarshal(mo.Metadata, &metadata)
	}
	return &entity.Chunk{
		Id:         mo.Id,
		DocumentId: mo.DocumentId,
		Text:       mo.Text,
		Embedding:  mo.Embedding.Slice(),
		Index:      mo.Index,
		Metadata:   metadata,
		CreatedAt:  mo.CreatedAt,
	}
}
