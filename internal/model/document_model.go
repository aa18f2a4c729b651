package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_documents_user_file"`
	FileName        string    `gorm:"type:text;not null;uniqueIndex:idx_documents_user_file"`
	FilePath        string    `gorm:"type:text;not null"`
	ProcessingError *string   `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Document) TableName() string {
	return "documents"
}
