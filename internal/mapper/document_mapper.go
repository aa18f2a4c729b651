package mapper

import (
	"github.com/gecBurton/dosac/internal/entity"
	"github.com/gecBurton/dosac/internal/model"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToModel(e *entity.Document) *model.Document {
	return &model.Document{
		Id:              e.Id,
		UserId:          e.UserId,
		FileName:        e.FileName,
		FilePath:        e.FilePath,
		ProcessingError: e.ProcessingError,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func (m *DocumentMapper) ToEntity(mo *model.Document) *entity.Document {
	return &entity.Document{
		Id:              mo.Id,
		UserId:          mo.UserId,
		FileName:        mo.FileName,
		FilePath:        mo.FilePath,
		ProcessingError: mo.ProcessingError,
		CreatedAt:       mo.CreatedAt,
		UpdatedAt:       mo.UpdatedAt,
	}
}
