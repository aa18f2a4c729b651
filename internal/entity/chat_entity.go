package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ChatMessageRoleHuman = "human"
	ChatMessageRoleAI    = "ai"
)

type Chat struct {
	Id     uuid.UUID
	UserId uuid.UUID

	// Preview is the first message of the chat, populated by listing queries.
	Preview string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ChatMessage struct {
	Id        uuid.UUID
	ChatId    uuid.UUID
	Role      string
	Content   string
	CreatedAt time.Time
}

type Citation struct {
	Id            uuid.UUID
	ChatMessageId uuid.UUID
	TextInAnswer  string
	TextInSource  string
	Reference     string
	Index         int
	CreatedAt     time.Time
}
