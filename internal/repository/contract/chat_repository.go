package contract

import (
	"context"

	"github.com/gecBurton/dosac/internal/entity"
	"github.com/gecBurton/dosac/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *entity.Chat) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error)
	// FindAllWithPreview lists a user's chats, newest first, with Preview
	// set to the first message content. Chats with no messages are skipped.
	FindAllWithPreview(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.Chat, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	// FindAllByChatId returns messages in creation order.
	FindAllByChatId(ctx context.Context, chatId uuid.UUID) ([]*entity.ChatMessage, error)
}

type CitationRepository interface {
	CreateBulk(ctx context.Context, citations []*entity.Citation) error
	// FindAllByMessageId returns citations ordered by ascending index.
	FindAllByMessageId(ctx context.Context, messageId uuid.UUID) ([]*entity.Citation, error)
	FindAllByMessageIds(ctx context.Context, messageIds []uuid.UUID) ([]*entity.Citation, error)
}
