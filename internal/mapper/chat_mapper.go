package mapper

import (
	"github.com/gecBurton/dosac/internal/entity"
	"github.com/gecBurton/dosac/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ToModel(e *entity.Chat) *model.Chat {
	return &model.Chat{
		Id:        e.Id,
		UserId:    e.UserId,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (m *ChatMapper) ToEntity(mo *model.Chat) *entity.Chat {
	return &entity.Chat{
		Id:        mo.Id,
		UserId:    mo.UserId,
		CreatedAt: mo.CreatedAt,
		UpdatedAt: mo.UpdatedAt,
	}
}

type ChatMessageMapper struct{}

func NewChatMessageMapper() *ChatMessageMapper {
	return &ChatMessageMapper{}
}

func (m *ChatMessageMapper) ToModel(e *entity.ChatMessage) *model.ChatMessage {
	return &model.ChatMessage{
		Id:        e.Id,
		ChatId:    e.ChatId,
		Role:      e.Role,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
	}
}

func (m *ChatMessageMapper) ToEntity(mo *model.ChatMessage) *entity.ChatMessage {
	return &entity.ChatMessage{
		Id:        mo.Id,
		ChatId:    mo.ChatId,
		Role:      mo.Role,
		Content:   mo.Content,
		CreatedAt: mo.CreatedAt,
	}
}

type CitationMapper struct{}

func NewCitationMapper() *CitationMapper {
	return &CitationMapper{}
}

func (m *CitationMapper) ToModel(e *entity.Citation) *model.Citation {
	return &model.Citation{
		Id:            e.Id,
		ChatMessageId: e.ChatMessageId,
		TextInAnswer:  e.TextInAnswer,
		TextInSource:  e.TextInSource,
		Reference:     e.Reference,
		Index:         e.Index,
		CreatedAt:     e.CreatedAt,
	}
}

func (m *CitationMapper) ToEntity(mo *model.Citation) *entity.Citation {
	return &entity.Citation{
		Id:            mo.Id,
		ChatMessageId: mo.ChatMessageId,
		TextInAnswer:  mo.TextInAnswer,
		TextInSource:  mo.TextInSource,
		Reference:     mo.Reference,
		Index:         mo.Index,
		CreatedAt:     mo.CreatedAt,
	}
}
