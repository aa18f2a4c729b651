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
	"gorm.io/gorm"
)

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, document *entity.Document) error {
	m := r.mapper.ToModel(document)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*document = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) Update(ctx context.Context, document *entity.Document) error {
	m := r.mapper.ToModel(document)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*document = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	// Chunks go first, the schema has no ON DELETE CASCADE between them.
	if err := r.db.WithContext(ctx).Where("document_id = ?", id).Delete(&model.Chunk{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&model.Document{}, id).Error
}

func (r *DocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	var m model.Document
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	e := r.mapper.ToEntity(&m)

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Chunk{}).Where("document_id = ?", m.Id).Count(&count).Error; err != nil {
		return nil, err
	}
	e.ChunkCount = int(count)
	return e, nil
}

func (r *DocumentRepositoryImpl) FindAllWithChunkCounts(ctx context.Context, userId uuid.UUID) ([]*entity.Document, error) {
	type row struct {
		model.Document
		ChunkCount int
	}
	var rows []row

	err := r.db.WithContext(ctx).
		Table("documents").
		Select("documents.*, COUNT(chunks.id) AS chunk_count").
		Joins("LEFT JOIN chunks ON chunks.document_id = documents.id").
		Where("documents.user_id = ?", userId).
		Group("documents.id").
		Order("documents.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	documents := make([]*entity.Document, len(rows))
	for i, rw := range rows {
		e := r.mapper.ToEntity(&rw.Document)
		e.ChunkCount = rw.ChunkCount
		documents[i] = e
	}
	return documents, nil
}

func (r *DocumentRepositoryImpl) DeleteByName(ctx context.Context, userId uuid.UUID, exactName string) (bool, error) {
	var m model.Document
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND file_name = ?", userId, exactName).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := r.Delete(ctx, m.Id); err != nil {
		return false, err
	}
	return true, nil
}
