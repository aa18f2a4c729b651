package model

import (
	"time"

	"github.com/google/uuid"
)

type Citation struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatMessageId uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_citations_message_index"`
	TextInAnswer  string    `gorm:"type:text;not null"`
	TextInSource  string    `gorm:"type:text;not null"`
	Reference     string    `gorm:"type:text;not null"`
	Index         int       `gorm:"column:index;not null;uniqueIndex:idx_citations_message_index"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (Citation) TableName() string {
	return "citations"
}
