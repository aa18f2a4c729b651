package model

import (
	"time"

	"github.com/google/uuid"
)

type LoginToken struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserId     uuid.UUID  `gorm:"type:uuid;not null;index"`
	SecretHash string     `gorm:"type:text;not null"`
	ExpiresAt  time.Time  `gorm:"not null"`
	ConsumedAt *time.Time
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (LoginToken) TableName() string {
	return "login_tokens"
}
