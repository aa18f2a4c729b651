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

type ChatRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatRepository(db *gorm.DB) contract.ChatRepository {
	return &ChatRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatRepositoryImpl) Create(ctx context.Context, chat *entity.Chat) error {
	m := r.mapper.ToModel(chat)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chat = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChatRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error) {
	var m model.Chat
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ChatRepositoryImpl) FindAllWithPreview(ctx context.Context, userId uuid.UUID, limit int) ([]*entity.Chat, error) {
	if limit <= 0 {
		limit = 10
	}
	type row struct {
		model.Chat
		Preview string
	}
	var rows []row

	// DISTINCT ON picks the oldest message per chat as the preview; chats
	// without any message are excluded by the inner join.
	err := r.db.WithContext(ctx).
		Table("chats").
		Select("chats.*, first_messages.content AS preview").
		Joins(`JOIN (
			SELECT DISTINCT ON (chat_id) chat_id, content
			FROM chat_messages
			ORDER BY chat_id, created_at ASC
		) AS first_messages ON first_messages.chat_id = chats.id`).
		Where("chats.user_id = ?", userId).
		Order("chats.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	chats := make([]*entity.Chat, len(rows))
	for i, rw := range rows {
		e := r.mapper.ToEntity(&rw.Chat)
		e.Preview = rw.Preview
		chats[i] = e
	}
	return chats, nil
}

func (r *ChatRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	messageIds := r.db.Table("chat_messages").Select("id").Where("chat_id = ?", id)
	if err := r.db.WithContext(ctx).Where("chat_message_id IN (?)", messageIds).Delete(&model.Citation{}).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Where("chat_id = ?", id).Delete(&model.ChatMessage{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&model.Chat{}, id).Error
}

type ChatMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMessageMapper
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMessageMapper(),
	}
}

func (r *ChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	m := r.mapper.ToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ToEntity(m)
	return nil
}

func (r *ChatMessageRepositoryImpl) FindAllByChatId(ctx context.Context, chatId uuid.UUID) ([]*entity.ChatMessage, error) {
	var models []*model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatId).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	messages := make([]*entity.ChatMessage, len(models))
	for i, m := range models {
		messages[i] = r.mapper.ToEntity(m)
	}
	return messages, nil
}

type CitationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CitationMapper
}

func NewCitationRepository(db *gorm.DB) contract.CitationRepository {
	return &CitationRepositoryImpl{
		db:     db,
		mapper: mapper.NewCitationMapper(),
	}
}

func (r *CitationRepositoryImpl) CreateBulk(ctx context.Context, citations []*entity.Citation) error {
	if len(citations) == 0 {
		return nil
	}
	models := make([]*model.Citation, len(citations))
	for i, c := range citations {
		models[i] = r.mapper.ToModel(c)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*citations[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *CitationRepositoryImpl) FindAllByMessageId(ctx context.Context, messageId uuid.UUID) ([]*entity.Citation, error) {
	var models []*model.Citation
	err := r.db.WithContext(ctx).
		Where("chat_message_id = ?", messageId).
		Order("index ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	citations := make([]*entity.Citation, len(models))
	for i, m := range models {
		citations[i] = r.mapper.ToEntity(m)
	}
	return citations, nil
}

func (r *CitationRepositoryImpl) FindAllByMessageIds(ctx context.Context, messageIds []uuid.UUID) ([]*entity.Citation, error) {
	if len(messageIds) == 0 {
		return []*entity.Citation{}, nil
	}
	var models []*model.Citation
	err := r.db.WithContext(ctx).
		Where("chat_message_id IN ?", messageIds).
		Order("chat_message_id, index ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	citations := make([]*entity.Citation, len(models))
	for i, m := range models {
		citations[i] = r.mapper.ToEntity(m)
	}
	return citations, nil
}
