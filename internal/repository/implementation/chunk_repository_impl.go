package implementation

import (
	"context"
	"errors"

	"github.com/gecBurton/dosac/internal/entity"
	"github.com/gecBurton/dosac/internal/mapper"
	"github.com/gecBurton/dosac/internal/model"
	"github.com/gecBurton/dosac/internal/repository/contract"
	"github.com/gecBurton/dosac/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChunkMapper
}

func NewChunkRepository(db *gorm.DB) contract.ChunkRepository {
	return &ChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewChunkMapper(),
	}
}

func (r *ChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*model.Chunk, len(chunks))
	for i, c := range chunks {
		models[i] = r.mapper.ToModel(c)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *ChunkRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.Chunk{}).Error
}

func (r *ChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chunk, error) {
	var models []*model.Chunk
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	chunks := make([]*entity.Chunk, len(models))
	for i, m := range models {
		chunks[i] = r.mapper.ToEntity(m)
	}
	return chunks, nil
}

func (r *ChunkRepositoryImpl) FindOneOwned(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*entity.Chunk, error) {
	type row struct {
		model.Chunk
		FileName string
	}
	var rw row
	err := r.db.WithContext(ctx).
		Table("chunks").
		Select("chunks.*, documents.file_name").
		Joins("JOIN documents ON documents.id = chunks.document_id").
		Where("chunks.id = ? AND documents.user_id = ?", id, userId).
		First(&rw).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	e := r.mapper.ToEntity(&rw.Chunk)
	e.DocumentName = rw.FileName
	return e, nil
}

func (r *ChunkRepositoryImpl) CountByDocumentId(ctx context.Context, documentId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Chunk{}).
		Where("document_id = ?", documentId).
		Count(&count).Error
	return count, err
}

func (r *ChunkRepositoryImpl) SearchByVector(ctx context.Context, userId uuid.UUID, vector []float32, topK int) ([]*entity.Chunk, error) {
	if topK <= 0 {
		topK = 3
	}
	type row struct {
		model.Chunk
		FileName string
	}
	var rows []row

	err := r.searchByVectorQuery(r.db.WithContext(ctx), userId, vector, topK).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	chunks := make([]*entity.Chunk, len(rows))
	for i, rw := range rows {
		e := r.mapper.ToEntity(&rw.Chunk)
		e.DocumentName = rw.FileName
		chunks[i] = e
	}
	return chunks, nil
}

// searchByVectorQuery builds the scoped nearest-neighbour scan. The join
// is the ownership filter: only chunks of the caller's documents are
// candidates. Ordering goes through clause.OrderBy because Order() does
// not accept an expression carrying bind variables.
func (r *ChunkRepositoryImpl) searchByVectorQuery(tx *gorm.DB, userId uuid.UUID, vector []float32, topK int) *gorm.DB {
	return tx.
		Table("chunks").
		Select("chunks.*, documents.file_name").
		Joins("JOIN documents ON documents.id = chunks.document_id").
		Where("documents.user_id = ?", userId).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "chunks.embedding <=> ?",
			Vars:               []interface{}{pgvector.NewVector(vector)},
			WithoutParentheses: true,
		}}).
		Limit(topK)
}
